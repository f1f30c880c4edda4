//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/blacknode/vault-server/internal/model"
	repo "github.com/blacknode/vault-server/internal/repository/postgres"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "vault_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/vault_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func createUser(ctx context.Context, t *testing.T, ur *repo.UserRepository, email string) model.User {
	t.Helper()
	u, err := ur.Create(ctx, model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "$2a$12$notarealhashnotarealhashnotarealhashnotarealhashnota",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	})
	require.NoError(t, err)
	return u
}

func TestRepositories_CRUD(t *testing.T) {
	ctx := context.Background()
	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	t.Run("user_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		u := createUser(ctx, t, ur, "user@example.com")

		byEmail, err := ur.GetByEmail(ctx, u.Email)
		require.NoError(t, err)
		require.Equal(t, u.ID, byEmail.ID)

		byID, err := ur.GetByID(ctx, u.ID)
		require.NoError(t, err)
		require.Equal(t, u.Email, byID.Email)

		secret := "JBSWY3DPEHPK3PXP"
		byID.TwoFactorPendingSecret = &secret
		updated, err := ur.Update(ctx, byID)
		require.NoError(t, err)
		require.NotNil(t, updated.TwoFactorPendingSecret)
		require.Equal(t, secret, *updated.TwoFactorPendingSecret)

		_, err = ur.Create(ctx, model.User{
			ID:           uuid.New(),
			Email:        u.Email,
			PasswordHash: "x",
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		})
		require.ErrorIs(t, err, model.ErrConflict)
	})

	t.Run("session_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		sr := repo.NewSessionRepository(conn)
		owner := createUser(ctx, t, ur, "session-owner@example.com")

		now := time.Now().Truncate(time.Millisecond)
		s := model.Session{
			ID:         uuid.New(),
			UserID:     owner.ID,
			TokenHash:  "deadbeef",
			CreatedAt:  now,
			ExpiresAt:  now.Add(model.SessionDuration),
			LastSeenAt: now,
		}
		require.NoError(t, sr.Create(ctx, s))

		got, err := sr.GetByTokenHash(ctx, s.TokenHash)
		require.NoError(t, err)
		require.Equal(t, s.ID, got.ID)

		require.NoError(t, sr.Touch(ctx, s.ID, now.Add(time.Minute)))
		got, err = sr.GetByTokenHash(ctx, s.TokenHash)
		require.NoError(t, err)
		require.WithinDuration(t, now.Add(time.Minute), got.LastSeenAt, time.Second)

		require.NoError(t, sr.DeleteByTokenHash(ctx, s.TokenHash))
		_, err = sr.GetByTokenHash(ctx, s.TokenHash)
		require.ErrorIs(t, err, model.ErrNotFound)

		expired := model.Session{
			ID:         uuid.New(),
			UserID:     owner.ID,
			TokenHash:  "cafebabe",
			CreatedAt:  now.Add(-8 * 24 * time.Hour),
			ExpiresAt:  now.Add(-24 * time.Hour),
			LastSeenAt: now.Add(-24 * time.Hour),
		}
		require.NoError(t, sr.Create(ctx, expired))
		deleted, err := sr.DeleteExpired(ctx, now)
		require.NoError(t, err)
		require.GreaterOrEqual(t, deleted, int64(1))
	})

	t.Run("folder_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		fr := repo.NewFolderRepository(conn)
		owner := createUser(ctx, t, ur, "folder-owner@example.com")

		root, err := fr.Create(ctx, model.Folder{
			ID: uuid.New(), OwnerID: owner.ID, Name: "docs", CreatedAt: time.Now(),
		})
		require.NoError(t, err)

		_, err = fr.Create(ctx, model.Folder{
			ID: uuid.New(), OwnerID: owner.ID, Name: "docs", CreatedAt: time.Now(),
		})
		require.ErrorIs(t, err, model.ErrConflict)

		child, err := fr.Create(ctx, model.Folder{
			ID: uuid.New(), OwnerID: owner.ID, Name: "docs", ParentID: &root.ID, CreatedAt: time.Now(),
		})
		require.NoError(t, err)

		got, err := fr.GetByIDAndOwner(ctx, child.ID, owner.ID)
		require.NoError(t, err)
		require.Equal(t, root.ID, *got.ParentID)

		_, err = fr.GetByIDAndOwner(ctx, child.ID, uuid.New())
		require.ErrorIs(t, err, model.ErrNotFound)

		atRoot, err := fr.ListByParent(ctx, owner.ID, nil)
		require.NoError(t, err)
		require.Len(t, atRoot, 1)

		inRoot, err := fr.ListByParent(ctx, owner.ID, &root.ID)
		require.NoError(t, err)
		require.Len(t, inRoot, 1)
		require.Equal(t, child.ID, inRoot[0].ID)
	})

	t.Run("file_repository", func(t *testing.T) {
		ur := repo.NewUserRepository(conn)
		fr := repo.NewFolderRepository(conn)
		filer := repo.NewFileRepository(conn)
		owner := createUser(ctx, t, ur, "file-owner@example.com")

		folder, err := fr.Create(ctx, model.Folder{
			ID: uuid.New(), OwnerID: owner.ID, Name: "media", CreatedAt: time.Now(),
		})
		require.NoError(t, err)

		f, err := filer.Create(ctx, model.File{
			ID:          uuid.New(),
			OwnerID:     owner.ID,
			ObjectKey:   fmt.Sprintf("%s/1-report.pdf", owner.ID),
			Filename:    "report.pdf",
			ContentType: "application/pdf",
			SizeBytes:   1024,
			CreatedAt:   time.Now(),
		})
		require.NoError(t, err)

		got, err := filer.GetByIDAndOwner(ctx, f.ID, owner.ID)
		require.NoError(t, err)
		require.Equal(t, f.ObjectKey, got.ObjectKey)

		_, err = filer.GetByIDAndOwner(ctx, f.ID, uuid.New())
		require.ErrorIs(t, err, model.ErrNotFound)

		require.NoError(t, filer.Move(ctx, f.ID, &folder.ID))
		inFolder, err := filer.ListByFolder(ctx, owner.ID, &folder.ID)
		require.NoError(t, err)
		require.Len(t, inFolder, 1)

		atRoot, err := filer.ListByFolder(ctx, owner.ID, nil)
		require.NoError(t, err)
		require.Empty(t, atRoot)

		require.NoError(t, filer.Delete(ctx, f.ID))
		require.ErrorIs(t, filer.Delete(ctx, f.ID), model.ErrNotFound)
	})
}
