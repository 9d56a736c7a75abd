package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heyjunin/riftstack/internal/models"
	"github.com/heyjunin/riftstack/internal/server/storage"
)

func newTestUser(id, email string) *models.User {
	now := time.Now()
	return &models.User{
		ID:           id,
		Email:        email,
		Username:     "user_" + id,
		PasswordHash: "hash",
		Role:         models.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestStore_CreateAndGet(t *testing.T) {
	store := New()
	ctx := context.Background()

	user := newTestUser("u1", "alice@example.com")
	require.NoError(t, store.CreateUser(ctx, user))

	byID, err := store.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)

	byEmail, err := store.GetUserByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)
}

func TestStore_CreateUser_DuplicateEmail(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, newTestUser("u1", "alice@example.com")))

	err := store.CreateUser(ctx, newTestUser("u2", "alice@example.com"))
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)
}

func TestStore_Get_NotFound(t *testing.T) {
	store := New()
	ctx := context.Background()

	_, err := store.GetUserByID(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	_, err = store.GetUserByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStore_ReturnsCopies(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, newTestUser("u1", "alice@example.com")))

	got, err := store.GetUserByID(ctx, "u1")
	require.NoError(t, err)

	// Mutating the returned record must not affect the stored one
	got.Username = "mutated"

	again, err := store.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "user_u1", again.Username)
}

func TestStore_UpdateUser(t *testing.T) {
	store := New()
	ctx := context.Background()

	user := newTestUser("u1", "alice@example.com")
	require.NoError(t, store.CreateUser(ctx, user))

	before := user.UpdatedAt

	user.Username = "renamed"
	require.NoError(t, store.UpdateUser(ctx, user))

	got, err := store.GetUserByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Username)
	assert.True(t, got.UpdatedAt.After(before) || got.UpdatedAt.Equal(before))
}

func TestStore_UpdateUser_NotFound(t *testing.T) {
	store := New()

	err := store.UpdateUser(context.Background(), newTestUser("missing", "x@example.com"))
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStore_UpdateUser_EmailChange(t *testing.T) {
	store := New()
	ctx := context.Background()

	user := newTestUser("u1", "alice@example.com")
	require.NoError(t, store.CreateUser(ctx, user))

	user.Email = "alice.smith@example.com"
	require.NoError(t, store.UpdateUser(ctx, user))

	// New email resolves, old one is released
	got, err := store.GetUserByEmail(ctx, "alice.smith@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = store.GetUserByEmail(ctx, "alice@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	// Old email is free for someone else
	assert.NoError(t, store.CreateUser(ctx, newTestUser("u2", "alice@example.com")))
}

func TestStore_UpdateUser_EmailTaken(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, newTestUser("u1", "alice@example.com")))

	user := newTestUser("u2", "bob@example.com")
	require.NoError(t, store.CreateUser(ctx, user))

	user.Email = "alice@example.com"
	err := store.UpdateUser(ctx, user)
	assert.ErrorIs(t, err, storage.ErrUserAlreadyExists)
}

func TestStore_DeleteUser(t *testing.T) {
	store := New()
	ctx := context.Background()

	require.NoError(t, store.CreateUser(ctx, newTestUser("u1", "alice@example.com")))
	require.NoError(t, store.DeleteUser(ctx, "u1"))

	_, err := store.GetUserByID(ctx, "u1")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)

	// Email is released
	assert.NoError(t, store.CreateUser(ctx, newTestUser("u2", "alice@example.com")))

	err = store.DeleteUser(ctx, "u1")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStore_ListUsers(t *testing.T) {
	store := New()
	ctx := context.Background()

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	require.NoError(t, store.CreateUser(ctx, newTestUser("u1", "alice@example.com")))
	require.NoError(t, store.CreateUser(ctx, newTestUser("u2", "bob@example.com")))

	users, err = store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestStore_ConcurrentCreate_EmailUnique(t *testing.T) {
	store := New()
	ctx := context.Background()

	const goroutines = 50

	var wg sync.WaitGroup
	created := make(chan string, goroutines)

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user := newTestUser(fmt.Sprintf("u%d", i), "contested@example.com")
			if err := store.CreateUser(ctx, user); err == nil {
				created <- user.ID
			}
		}(i)
	}

	wg.Wait()
	close(created)

	// Exactly one goroutine wins the email
	var winners []string
	for id := range created {
		winners = append(winners, id)
	}
	require.Len(t, winners, 1)

	got, err := store.GetUserByEmail(ctx, "contested@example.com")
	require.NoError(t, err)
	assert.Equal(t, winners[0], got.ID)
}
