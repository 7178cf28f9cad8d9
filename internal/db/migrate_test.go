package db

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	t.Parallel()

	files, err := fs.Glob(migrations, "migrations/*.sql")
	require.NoError(t, err)

	ups, downs := 0, 0
	for _, f := range files {
		switch {
		case strings.HasSuffix(f, ".up.sql"):
			ups++
		case strings.HasSuffix(f, ".down.sql"):
			downs++
		}
	}
	assert.Positive(t, ups)
	assert.Equal(t, ups, downs)
}

func TestUsersMigrationDeclaresEmailConstraint(t *testing.T) {
	t.Parallel()

	up, err := fs.ReadFile(migrations, "migrations/000001_create_users.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CONSTRAINT users_email_key UNIQUE")
}

func TestMigrateRejectsUnknownDirection(t *testing.T) {
	t.Parallel()

	err := Migrate("postgres://unused", Direction("sideways"), zap.NewNop())

	assert.Error(t, err)
}
