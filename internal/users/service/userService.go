package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Codelsoft-Microservices/codelsoft-users/internal/config"
	customerrors "github.com/Codelsoft-Microservices/codelsoft-users/internal/customErrors"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/events"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/models"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/users/gate"
	"github.com/Codelsoft-Microservices/codelsoft-users/internal/users/repository"
)

// bcrypt ignores everything past this many bytes.
const maxPasswordBytes = 72

var validate = validator.New()

type UserService interface {
	List(ctx context.Context, token string) ([]models.UserPublic, error)
	GetByUUID(ctx context.Context, token, uuid string) (*models.UserPublic, error)
	Create(ctx context.Context, token string, in CreateUserInput) (*Result, error)
	Update(ctx context.Context, token string, in UpdateUserInput) (*Result, error)
	Delete(ctx context.Context, token, uuid string) error
	IssueToken(ctx context.Context, email, password string) (string, error)
	HealthCheck(ctx context.Context) error
}

type CreateUserInput struct {
	Name            string      `validate:"required"`
	Lastname        string      `validate:"required"`
	Email           string      `validate:"required"`
	Password        string      `validate:"required"`
	PasswordConfirm string      `validate:"required"`
	Role            models.Role `validate:"required"`
}

// UpdateUserInput has optional password fields only so they can be
// rejected; credentials are never changed on this path.
type UpdateUserInput struct {
	UUID            string `validate:"required"`
	Name            string `validate:"required"`
	Lastname        string `validate:"required"`
	Email           string `validate:"required"`
	Password        string
	PasswordConfirm string
}

// Result is a user projection with the token issued for it, if any.
type Result struct {
	User  models.UserPublic
	Token string
}

type UserServiceImpl struct {
	repo      repository.UserRepository
	jwt       config.Token
	gate      *gate.Gate
	hasher    config.Hasher
	policy    config.PolicyConfig
	publisher events.Publisher
	mCounter  *prometheus.CounterVec
	logger    *zap.Logger
	now       func() time.Time
}

func NewUserService(
	repo repository.UserRepository,
	jwt config.Token,
	hasher config.Hasher,
	policy config.PolicyConfig,
	publisher events.Publisher,
	mCounter *prometheus.CounterVec,
	logger *zap.Logger,
) UserService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &UserServiceImpl{
		repo:      repo,
		jwt:       jwt,
		gate:      gate.New(jwt),
		hasher:    hasher,
		policy:    policy,
		publisher: publisher,
		mCounter:  mCounter,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserServiceImpl) List(ctx context.Context, token string) (_ []models.UserPublic, err error) {
	defer s.capture("List", &err)

	if s.policy.RequireAuthOnList {
		claims, err := s.gate.Authenticate(token)
		if err != nil {
			return nil, err
		}
		if err := gate.AdminOnly(claims); err != nil {
			return nil, err
		}
	}

	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]models.UserPublic, 0, len(users))
	for i := range users {
		if users[i].IsActive {
			active = append(active, users[i].Public())
		}
	}
	if len(active) == 0 {
		return nil, customerrors.ErrNoActiveUsers
	}

	return active, nil
}

func (s *UserServiceImpl) GetByUUID(ctx context.Context, token, uuid string) (_ *models.UserPublic, err error) {
	defer s.capture("GetByUUID", &err)

	if uuid == "" {
		return nil, customerrors.ErrUUIDRequired
	}

	if s.policy.RequireAuthOnGet {
		claims, err := s.gate.Authenticate(token)
		if err != nil {
			return nil, err
		}
		if err := gate.SelfOrAdmin(claims, uuid); err != nil {
			return nil, err
		}
	}

	user, err := s.repo.FindOne(ctx, models.UserFilter{UUID: uuid})
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, customerrors.ErrUserNotFound
	}

	public := user.Public()
	return &public, nil
}

func (s *UserServiceImpl) Create(ctx context.Context, token string, in CreateUserInput) (_ *Result, err error) {
	defer s.capture("Create", &err)

	if err := validate.Struct(in); err != nil {
		return nil, customerrors.ErrRequiredFields
	}
	if in.Password != in.PasswordConfirm {
		return nil, customerrors.ErrPasswordsDoNotMatch
	}
	if len(in.Password) > maxPasswordBytes {
		return nil, customerrors.ErrPasswordTooLong
	}
	if _, err := s.repo.FindOne(ctx, models.UserFilter{Email: in.Email}); err == nil {
		return nil, customerrors.ErrEmailAlreadyExists
	} else if !errors.Is(err, customerrors.ErrUserNotFound) {
		return nil, err
	}

	if !in.Role.Valid() {
		return nil, customerrors.ErrInvalidRole
	}

	if in.Role == models.RoleAdmin && s.policy.RestrictAdminCreation {
		claims, err := s.gate.Optional(token)
		if err != nil || claims == nil || !claims.IsAdmin() {
			return nil, customerrors.ErrAdminCreationDenied
		}
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	now := s.now()
	user := models.User{
		UUID:         uuid.NewString(),
		Name:         in.Name,
		Lastname:     in.Lastname,
		Email:        in.Email,
		PasswordHash: passwordHash,
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	result, err := s.result(user.Public())
	if err != nil {
		return nil, err
	}

	// The unique email constraint decides concurrent creations.
	if err := s.repo.Insert(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user created", zap.String("uuid", user.UUID), zap.String("role", string(user.Role)))
	s.emit(ctx, events.UserCreated, result.User, "user_created_total")

	return result, nil
}

func (s *UserServiceImpl) Update(ctx context.Context, token string, in UpdateUserInput) (_ *Result, err error) {
	defer s.capture("Update", &err)

	if in.Password != "" || in.PasswordConfirm != "" {
		return nil, customerrors.ErrPasswordChange
	}
	if err := validate.Struct(in); err != nil {
		return nil, customerrors.ErrRequiredFields
	}

	claims, err := s.gate.Authenticate(token)
	if err != nil {
		return nil, err
	}
	if err := gate.SelfOrAdmin(claims, in.UUID); err != nil {
		return nil, err
	}

	filter := models.UserFilter{UUID: in.UUID}
	existing, err := s.repo.FindOne(ctx, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	patch := models.UserPatch{
		Name:      &in.Name,
		Lastname:  &in.Lastname,
		Email:     &in.Email,
		UpdatedAt: &now,
	}

	merged := *existing
	patch.Apply(&merged)

	result, err := s.result(merged.Public())
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.MergeUpdate(ctx, filter, patch)
	if err != nil {
		return nil, err
	}
	result.User = stored.Public()

	s.logger.Info("user updated", zap.String("uuid", stored.UUID), zap.String("by", claims.UUID))
	s.emit(ctx, events.UserUpdated, result.User, "user_updated_total")

	return result, nil
}

func (s *UserServiceImpl) Delete(ctx context.Context, token, uuid string) (err error) {
	defer s.capture("Delete", &err)

	if uuid == "" {
		return customerrors.ErrUUIDRequired
	}

	claims, err := s.gate.Authenticate(token)
	if err != nil {
		return err
	}
	if err := gate.AdminOnly(claims); err != nil {
		return err
	}

	filter := models.UserFilter{UUID: uuid}
	if _, err := s.repo.FindOne(ctx, filter); err != nil {
		return err
	}

	inactive := false
	now := s.now()
	stored, err := s.repo.MergeUpdate(ctx, filter, models.UserPatch{
		IsActive:  &inactive,
		UpdatedAt: &now,
	})
	if err != nil {
		return err
	}

	s.logger.Info("user deactivated", zap.String("uuid", uuid), zap.String("by", claims.UUID))
	s.emit(ctx, events.UserDeleted, stored.Public(), "user_deleted_total")

	return nil
}

// IssueToken signs a token for an active user whose password matches.
func (s *UserServiceImpl) IssueToken(ctx context.Context, email, password string) (_ string, err error) {
	defer s.capture("IssueToken", &err)

	if email == "" || password == "" {
		return "", customerrors.ErrRequiredFields
	}

	user, err := s.repo.FindOne(ctx, models.UserFilter{Email: email})
	if err != nil {
		if errors.Is(err, customerrors.ErrUserNotFound) {
			return "", customerrors.ErrInvalidCredentials
		}
		return "", err
	}
	if !user.IsActive {
		return "", customerrors.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", err
	}

	return s.jwt.GenerateJWT(user.Public())
}

func (s *UserServiceImpl) HealthCheck(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

func (s *UserServiceImpl) result(user models.UserPublic) (*Result, error) {
	result := &Result{User: user}
	if !s.policy.IssueTokens {
		return result, nil
	}

	token, err := s.jwt.GenerateJWT(user)
	if err != nil {
		return nil, fmt.Errorf("signing token: %w", err)
	}
	result.Token = token
	return result, nil
}

// emit runs after the write has been committed, so a failure here is
// logged and never reported to the caller.
func (s *UserServiceImpl) emit(ctx context.Context, eventType string, user models.UserPublic, counter string) {
	if s.mCounter != nil {
		s.mCounter.WithLabelValues(counter).Inc()
	}

	if err := s.publisher.Publish(ctx, events.NewEvent(eventType, user, s.now())); err != nil {
		s.logger.Warn("user event not published",
			zap.String("type", eventType),
			zap.String("uuid", user.UUID),
			zap.Error(err),
		)
	}
}

// capture turns panics and unclassified faults into Internal errors so
// nothing raw crosses the service boundary.
func (s *UserServiceImpl) capture(op string, errp *error) {
	if r := recover(); r != nil {
		s.logger.Error("panic in user service", zap.String("op", op), zap.Any("panic", r))
		*errp = customerrors.ErrInternalServer
		return
	}

	err := *errp
	if err == nil {
		return
	}

	var customErr *customerrors.Error
	if errors.As(err, &customErr) && customErr.Kind != customerrors.KindInternal {
		return
	}

	s.logger.Error("user service failure", zap.String("op", op), zap.Error(err))
	if s.mCounter != nil {
		s.mCounter.WithLabelValues("internal_error_total").Inc()
	}
	*errp = customerrors.Internal(customerrors.ErrInternalServer.Message, err)
}
