package sqlite

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// openTestDB opens a shared-cache in-memory database with the schema applied.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := Open("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	require.NoError(t, NewUserRepository(db).Init(ctx))
	require.NoError(t, NewAssetRepository(db).Init(ctx))
	return db
}
