package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleValid(t *testing.T) {
	t.Parallel()

	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleClient.Valid())
	assert.False(t, Role("Invitado").Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("administrador").Valid())
}

func TestFilterMatches(t *testing.T) {
	t.Parallel()
	u := &User{UUID: "u-1", Email: "a@x.io"}

	assert.False(t, UserFilter{}.Matches(u))
	assert.True(t, UserFilter{UUID: "u-1"}.Matches(u))
	assert.True(t, UserFilter{UUID: "u-1", Email: "a@x.io"}.Matches(u))
	assert.False(t, UserFilter{UUID: "u-1", Email: "b@x.io"}.Matches(u))
}

func TestPatchApplyLeavesProtectedFields(t *testing.T) {
	t.Parallel()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	u := User{UUID: "u-1", Name: "Ana", PasswordHash: "hash", Role: RoleClient, IsActive: true, CreatedAt: created}

	name := "Anita"
	inactive := false
	UserPatch{Name: &name, IsActive: &inactive}.Apply(&u)

	assert.Equal(t, "Anita", u.Name)
	assert.False(t, u.IsActive)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Equal(t, RoleClient, u.Role)
	assert.Equal(t, created, u.CreatedAt)

	public := u.Public()
	assert.Equal(t, "u-1", public.UUID)
	assert.Equal(t, created, public.CreatedAt)
}
