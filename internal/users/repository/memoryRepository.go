package repository

import (
	"context"
	"sort"
	"sync"

	customerrors "github.com/Codelsoft-Microservices/codelsoft-users/internal/customErrors"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/models"
)

// MemoryRepository keeps users in process memory. Email uniqueness is
// checked and applied under the same lock as the write.
type MemoryRepository struct {
	mu      sync.RWMutex
	byUUID  map[string]*models.User
	byEmail map[string]string
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byUUID:  make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryRepository) FindOne(ctx context.Context, filter models.UserFilter) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user := r.lookup(filter)
	if user == nil {
		return nil, customerrors.ErrUserNotFound
	}

	found := *user
	return &found, nil
}

func (r *MemoryRepository) FindAll(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, 0, len(r.byUUID))
	for _, user := range r.byUUID {
		users = append(users, *user)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].UUID < users[j].UUID
	})

	return users, nil
}

func (r *MemoryRepository) Insert(ctx context.Context, user models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[user.Email]; ok {
		return customerrors.ErrEmailAlreadyExists
	}
	if _, ok := r.byUUID[user.UUID]; ok {
		return customerrors.Internal("duplicate user uuid", nil)
	}

	stored := user
	r.byUUID[user.UUID] = &stored
	r.byEmail[user.Email] = user.UUID

	return nil
}

func (r *MemoryRepository) MergeUpdate(ctx context.Context, filter models.UserFilter, patch models.UserPatch) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user := r.lookup(filter)
	if user == nil {
		return nil, customerrors.ErrUserNotFound
	}

	if patch.Email != nil && *patch.Email != user.Email {
		if owner, ok := r.byEmail[*patch.Email]; ok && owner != user.UUID {
			return nil, customerrors.ErrEmailAlreadyExists
		}
		delete(r.byEmail, user.Email)
		r.byEmail[*patch.Email] = user.UUID
	}

	patch.Apply(user)

	merged := *user
	return &merged, nil
}

func (r *MemoryRepository) Ping(ctx context.Context) error {
	if ctx.Err() != nil {
		return customerrors.ErrDbTimeout
	}
	return nil
}

func (r *MemoryRepository) lookup(filter models.UserFilter) *models.User {
	if filter.UUID != "" {
		user, ok := r.byUUID[filter.UUID]
		if !ok || !filter.Matches(user) {
			return nil
		}
		return user
	}
	if filter.Email != "" {
		uuid, ok := r.byEmail[filter.Email]
		if !ok {
			return nil
		}
		return r.byUUID[uuid]
	}
	return nil
}
