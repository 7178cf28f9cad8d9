package config

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	customerrors "github.com/Codelsoft-Microservices/codelsoft-users/internal/customErrors"
)

type Hasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type Bcrypt struct {
	cost int
}

func NewBcrypt(cost int) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (b *Bcrypt) Compare(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return customerrors.ErrInvalidCredentials
		}
		return err
	}
	return nil
}
