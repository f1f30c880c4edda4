package cookie

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestWriter_SetSession(t *testing.T) {
	rec := httptest.NewRecorder()
	NewWriter(true).SetSession(rec, "tok")

	c := findCookie(t, rec, SessionName)
	assert.Equal(t, "tok", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 7*24*60*60, c.MaxAge)
}

func TestWriter_SetChallenge(t *testing.T) {
	rec := httptest.NewRecorder()
	NewWriter(false).SetChallenge(rec, "chal")

	c := findCookie(t, rec, ChallengeName)
	assert.Equal(t, "chal", c.Value)
	assert.False(t, c.Secure)
	assert.Equal(t, 300, c.MaxAge)
}

func TestWriter_Clear(t *testing.T) {
	rec := httptest.NewRecorder()
	w := NewWriter(true)
	w.ClearSession(rec)
	w.ClearChallenge(rec)

	require.Len(t, rec.Result().Cookies(), 2)
	for _, c := range rec.Result().Cookies() {
		assert.Empty(t, c.Value)
		assert.Negative(t, c.MaxAge)
	}
}
