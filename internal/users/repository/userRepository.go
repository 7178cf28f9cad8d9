package repository

import (
	"context"

	"github.com/Codelsoft-Microservices/codelsoft-users/internal/models"
)

// UserRepository is the document-store contract the user service relies on.
//
// FindOne and MergeUpdate return customerrors.ErrUserNotFound when the filter
// matches nothing. Insert and MergeUpdate return
// customerrors.ErrEmailAlreadyExists when the write would leave two records
// sharing an email, whatever their active flag. Any other error is a store
// fault.
type UserRepository interface {
	FindOne(ctx context.Context, filter models.UserFilter) (*models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Insert(ctx context.Context, user models.User) error
	MergeUpdate(ctx context.Context, filter models.UserFilter, patch models.UserPatch) (*models.User, error)
	Ping(ctx context.Context) error
}
