package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	customerrors "github.com/Codelsoft-Microservices/codelsoft-users/internal/customErrors"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/models"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/users/repository"
)

func seededMemory(t *testing.T) *repository.MemoryRepository {
	t.Helper()
	repo := repository.NewMemoryRepository()
	require.NoError(t, repo.Insert(context.Background(), mockUser()))
	return repo
}

func TestMemoryFindOne(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		filter        models.UserFilter
		expectedError error
	}{
		{name: "By uuid", filter: models.UserFilter{UUID: testUUID}},
		{name: "By email", filter: models.UserFilter{Email: "ana@x.io"}},
		{name: "By both", filter: models.UserFilter{UUID: testUUID, Email: "ana@x.io"}},
		{name: "Mismatched pair", filter: models.UserFilter{UUID: testUUID, Email: "other@x.io"}, expectedError: customerrors.ErrUserNotFound},
		{name: "Unknown uuid", filter: models.UserFilter{UUID: "missing"}, expectedError: customerrors.ErrUserNotFound},
		{name: "Empty filter", filter: models.UserFilter{}, expectedError: customerrors.ErrUserNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			repo := seededMemory(t)

			found, err := repo.FindOne(context.Background(), tc.filter)

			if tc.expectedError != nil {
				assert.ErrorIs(t, err, tc.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testUUID, found.UUID)
		})
	}
}

func TestMemoryReturnsCopies(t *testing.T) {
	t.Parallel()
	repo := seededMemory(t)
	ctx := context.Background()

	found, err := repo.FindOne(ctx, models.UserFilter{UUID: testUUID})
	require.NoError(t, err)
	found.Name = "Mutated"

	again, err := repo.FindOne(ctx, models.UserFilter{UUID: testUUID})
	require.NoError(t, err)
	assert.Equal(t, "Ana", again.Name)
}

func TestMemoryInsertDuplicateEmail(t *testing.T) {
	t.Parallel()
	repo := seededMemory(t)

	dup := mockUser()
	dup.UUID = "another"

	err := repo.Insert(context.Background(), dup)

	assert.ErrorIs(t, err, customerrors.ErrEmailAlreadyExists)
}

func TestMemoryInsertDuplicateUUID(t *testing.T) {
	t.Parallel()
	repo := seededMemory(t)

	dup := mockUser()
	dup.Email = "different@x.io"

	err := repo.Insert(context.Background(), dup)

	assert.Equal(t, customerrors.KindInternal, customerrors.KindOf(err))
}

func TestMemoryConcurrentInsertSameEmail(t *testing.T) {
	t.Parallel()
	repo := repository.NewMemoryRepository()

	const writers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := mockUser()
			u.UUID = string(rune('a' + i))
			if repo.Insert(context.Background(), u) == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
}

func TestMemoryMergeUpdate(t *testing.T) {
	t.Parallel()
	repo := seededMemory(t)
	ctx := context.Background()

	other := mockUser()
	other.UUID = "other"
	other.Email = "taken@x.io"
	require.NoError(t, repo.Insert(ctx, other))

	taken := "taken@x.io"
	_, err := repo.MergeUpdate(ctx, models.UserFilter{UUID: testUUID}, models.UserPatch{Email: &taken})
	assert.ErrorIs(t, err, customerrors.ErrEmailAlreadyExists)

	fresh := "fresh@x.io"
	inactive := false
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	updated, err := repo.MergeUpdate(ctx, models.UserFilter{UUID: testUUID}, models.UserPatch{
		Email:     &fresh,
		IsActive:  &inactive,
		UpdatedAt: &at,
	})
	require.NoError(t, err)
	assert.Equal(t, "fresh@x.io", updated.Email)
	assert.Equal(t, "Ana", updated.Name)
	assert.False(t, updated.IsActive)
	assert.Equal(t, at, updated.UpdatedAt)
	assert.Equal(t, mockUser().PasswordHash, updated.PasswordHash)

	_, err = repo.FindOne(ctx, models.UserFilter{Email: "ana@x.io"})
	assert.ErrorIs(t, err, customerrors.ErrUserNotFound)
	byEmail, err := repo.FindOne(ctx, models.UserFilter{Email: "fresh@x.io"})
	require.NoError(t, err)
	assert.Equal(t, testUUID, byEmail.UUID)

	_, err = repo.MergeUpdate(ctx, models.UserFilter{UUID: "missing"}, models.UserPatch{})
	assert.ErrorIs(t, err, customerrors.ErrUserNotFound)
}

func TestMemoryFindAllOrderedByCreation(t *testing.T) {
	t.Parallel()
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	late := mockUser()
	late.UUID, late.Email = "late", "late@x.io"
	late.CreatedAt = late.CreatedAt.Add(time.Hour)
	early := mockUser()

	require.NoError(t, repo.Insert(ctx, late))
	require.NoError(t, repo.Insert(ctx, early))

	users, err := repo.FindAll(ctx)

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, testUUID, users[0].UUID)
	assert.Equal(t, "late", users[1].UUID)
}

func TestMemoryFindAllBreaksTiesByUUID(t *testing.T) {
	t.Parallel()
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		user := mockUser()
		user.UUID, user.Email = id, id+"@x.io"
		require.NoError(t, repo.Insert(ctx, user))
	}

	for range 5 {
		users, err := repo.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, users, 3)
		assert.Equal(t, []string{"a", "b", "c"}, []string{users[0].UUID, users[1].UUID, users[2].UUID})
	}
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	t.Parallel()
	repo := seededMemory(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.FindOne(ctx, models.UserFilter{UUID: testUUID})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, repo.Ping(ctx), customerrors.ErrDbTimeout)
}
