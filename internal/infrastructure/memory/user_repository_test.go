package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/business-card-api/internal/domain/entity"
	"github.com/oksasatya/business-card-api/internal/domain/repository"
)

func newUser(email string) *entity.User {
	return &entity.User{Name: entity.Name{First: "Jo", Last: "Doe"}, Email: email, Password: "hash"}
}

func TestCreateAndGet(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()

	u := newUser("jo@x.com")
	require.NoError(t, r.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "jo@x.com", got.Email)
	assert.Empty(t, got.Password)

	withHash, err := r.GetByEmail(ctx, "jo@x.com")
	require.NoError(t, err)
	assert.Equal(t, "hash", withHash.Password)
}

func TestCreateDuplicateEmail(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	require.NoError(t, r.Create(ctx, newUser("jo@x.com")))
	assert.ErrorIs(t, r.Create(ctx, newUser("jo@x.com")), repository.ErrEmailTaken)
	assert.Equal(t, 1, r.Len())
}

func TestUpdate(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	a, b := newUser("a@x.com"), newUser("b@x.com")
	require.NoError(t, r.Create(ctx, a))
	require.NoError(t, r.Create(ctx, b))

	taken := "b@x.com"
	_, err := r.Update(ctx, a.ID, entity.UserPatch{Email: &taken})
	assert.ErrorIs(t, err, repository.ErrEmailTaken)

	fresh := "c@x.com"
	got, err := r.Update(ctx, a.ID, entity.UserPatch{Email: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "c@x.com", got.Email)
	assert.Empty(t, got.Password)

	_, err = r.GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	stored, ok := r.StoredPassword(a.ID)
	assert.True(t, ok)
	assert.Equal(t, "hash", stored)

	_, err = r.Update(ctx, "missing", entity.UserPatch{Email: &fresh})
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestToggleBusinessAndSetAdmin(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := newUser("a@x.com")
	require.NoError(t, r.Create(ctx, u))

	got, err := r.ToggleBusiness(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.IsBusiness)
	got, err = r.ToggleBusiness(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsBusiness)

	got, err = r.SetAdmin(ctx, u.ID, true)
	require.NoError(t, err)
	assert.True(t, got.IsAdmin)

	_, err = r.ToggleBusiness(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestConcurrentToggleIsConsistent(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	u := newUser("a@x.com")
	require.NoError(t, r.Create(ctx, u))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.ToggleBusiness(ctx, u.ID)
		}()
	}
	wg.Wait()

	got, err := r.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsBusiness, "an even number of toggles leaves the flag unchanged")
}

func TestDeleteAndList(t *testing.T) {
	r := NewUserRepository()
	ctx := context.Background()
	a, b := newUser("a@x.com"), newUser("b@x.com")
	require.NoError(t, r.Create(ctx, a))
	require.NoError(t, r.Create(ctx, b))

	users, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.Password)
	}

	deleted, err := r.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, deleted.ID)
	assert.Empty(t, deleted.Password)

	_, err = r.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
	_, err = r.Delete(ctx, a.ID)
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	require.NoError(t, r.Create(ctx, newUser("a@x.com")), "email is free again after delete")
}
