package customerrors

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/grpc/codes"
)

type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindUnauthenticated
	KindPermissionDenied
	KindNotFound
	KindConflict
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindUnauthenticated:
		return "Unauthenticated"
	case KindPermissionDenied:
		return "PermissionDenied"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindUnavailable:
		return "Unavailable"
	default:
		return "Internal"
	}
}

// Code returns the gRPC status code a kind is reported with.
func (k Kind) Code() codes.Code {
	switch k {
	case KindInvalidInput:
		return codes.InvalidArgument
	case KindUnauthenticated:
		return codes.Unauthenticated
	case KindPermissionDenied:
		return codes.PermissionDenied
	case KindNotFound:
		return codes.NotFound
	case KindConflict:
		return codes.AlreadyExists
	case KindUnavailable:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches on kind and message so that wrapped copies of a sentinel
// still compare equal to it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrRequiredFields       = &Error{Kind: KindInvalidInput, Message: "all fields are required"}
	ErrUUIDRequired         = &Error{Kind: KindInvalidInput, Message: "uuid is required"}
	ErrPasswordsDoNotMatch  = &Error{Kind: KindInvalidInput, Message: "passwords do not match"}
	ErrPasswordTooLong      = &Error{Kind: KindInvalidInput, Message: "password must be at most 72 bytes"}
	ErrInvalidRole          = &Error{Kind: KindInvalidInput, Message: "invalid role"}
	ErrPasswordChange       = &Error{Kind: KindInvalidInput, Message: "password cannot be changed with this method"}
	ErrMissingToken         = &Error{Kind: KindUnauthenticated, Message: "missing authorization token"}
	ErrInvalidToken         = &Error{Kind: KindUnauthenticated, Message: "invalid or expired token"}
	ErrInvalidCredentials   = &Error{Kind: KindUnauthenticated, Message: "invalid credentials"}
	ErrPermissionDenied     = &Error{Kind: KindPermissionDenied, Message: "you do not have permission to access this resource"}
	ErrAdminCreationDenied  = &Error{Kind: KindPermissionDenied, Message: "you do not have permission to create an administrator"}
	ErrUserNotFound         = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrNoActiveUsers        = &Error{Kind: KindNotFound, Message: "no active users found"}
	ErrEmailAlreadyExists   = &Error{Kind: KindConflict, Message: "user already exists"}
	ErrInternalServer       = &Error{Kind: KindInternal, Message: "internal server error"}
	ErrDbUnreacheable       = &Error{Kind: KindUnavailable, Message: "database unreachable"}
	ErrDbSSLHandshakeFailed = &Error{Kind: KindUnavailable, Message: "database SSL handshake failed"}
	ErrDbTimeout            = &Error{Kind: KindUnavailable, Message: "database timeout"}
)

// Internal wraps an unexpected fault. The caller only ever sees message;
// the cause is kept for logging.
func Internal(message string, cause error) *Error {
	return &Error{Kind: KindInternal, Message: message, cause: cause}
}

// KindOf reports the kind of err. Token verification errors coming
// straight from the jwt package count as unauthenticated, anything
// else unknown is internal.
func KindOf(err error) Kind {
	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Kind
	}

	switch {
	case errors.Is(err, jwt.ErrSignatureInvalid), errors.Is(err, jwt.ErrTokenExpired):
		return KindUnauthenticated
	default:
		return KindInternal
	}
}

func GetCode(err error) codes.Code {
	return KindOf(err).Code()
}

// GetMessage returns the caller-visible message for err. Raw faults are
// never echoed back.
func GetMessage(err error) string {
	var customErr *Error
	if errors.As(err, &customErr) {
		return customErr.Message
	}

	if KindOf(err) == KindUnauthenticated {
		return ErrInvalidToken.Message
	}
	return ErrInternalServer.Message
}
