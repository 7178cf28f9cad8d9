package models

import (
	"time"
)

type Role string

const (
	RoleAdmin  Role = "Administrador"
	RoleClient Role = "Cliente"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleClient
}

type User struct {
	UUID         string    `json:"uuid" db:"uuid"`
	Name         string    `json:"name" db:"name"`
	Lastname     string    `json:"lastname" db:"lastname"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Role         Role      `json:"role" db:"role"`
	IsActive     bool      `json:"isActive" db:"is_active"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// UserPublic is the projection of a User that leaves the service.
type UserPublic struct {
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	Lastname  string    `json:"lastname"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) Public() UserPublic {
	return UserPublic{
		UUID:      u.UUID,
		Name:      u.Name,
		Lastname:  u.Lastname,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// UserFilter selects a single record. Empty fields are ignored; an empty
// filter matches nothing.
type UserFilter struct {
	UUID  string
	Email string
}

func (f UserFilter) IsEmpty() bool {
	return f.UUID == "" && f.Email == ""
}

func (f UserFilter) Matches(u *User) bool {
	if f.IsEmpty() {
		return false
	}
	if f.UUID != "" && f.UUID != u.UUID {
		return false
	}
	if f.Email != "" && f.Email != u.Email {
		return false
	}
	return true
}

// UserPatch lists the fields a merge-update may touch. Nil fields keep
// their stored value. Password hash, role and creation time cannot be
// patched.
type UserPatch struct {
	Name      *string
	Lastname  *string
	Email     *string
	IsActive  *bool
	UpdatedAt *time.Time
}

func (p UserPatch) Apply(u *User) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Lastname != nil {
		u.Lastname = *p.Lastname
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}
	if p.UpdatedAt != nil {
		u.UpdatedAt = *p.UpdatedAt
	}
}
