// Package rpc holds the wire contract of the users service: request and
// response messages, the gRPC service descriptor and the JSON codec they
// travel with.
package rpc

import "time"

type User struct {
	Uuid      string    `json:"uuid"`
	Name      string    `json:"name"`
	Lastname  string    `json:"lastname"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type GetAllUsersRequest struct{}

type GetAllUsersResponse struct {
	Users []*User `json:"users"`
}

type GetUserByUUIDRequest struct {
	Uuid string `json:"uuid"`
}

type GetUserByUUIDResponse struct {
	User *User `json:"user"`
}

type CreateUserRequest struct {
	Name            string `json:"name"`
	Lastname        string `json:"lastname"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
	Role            string `json:"role"`
}

type CreateUserResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token,omitempty"`
}

// UpdateUserRequest carries the password fields only so that a caller
// sending them can be told off; they are never applied.
type UpdateUserRequest struct {
	Uuid            string `json:"uuid"`
	Name            string `json:"name"`
	Lastname        string `json:"lastname"`
	Email           string `json:"email"`
	Password        string `json:"password,omitempty"`
	PasswordConfirm string `json:"passwordConfirm,omitempty"`
}

type UpdateUserResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token,omitempty"`
}

type DeleteUserRequest struct {
	Uuid string `json:"uuid"`
}
