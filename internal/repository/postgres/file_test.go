package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewFileRepository(t *testing.T) {
	db := &Connection{}
	repo := NewFileRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}
