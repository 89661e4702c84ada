package migration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Ayash-Bera/mentor/backend/internal/database"
	"github.com/Ayash-Bera/mentor/backend/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSQLStatements(t *testing.T) {
	sql := `-- indexes
CREATE INDEX a ON t (x);

-- second
CREATE INDEX b
  ON t (y);
`
	stmts := splitSQLStatements(sql)
	assert.Equal(t, []string{"CREATE INDEX a ON t (x)", "CREATE INDEX b ON t (y)"}, stmts)
}

func TestRemoveComments(t *testing.T) {
	assert.Equal(t, "SELECT 1;\n", removeComments("-- c\nSELECT 1;\n"))
}

func TestRunMigrations_OrderedSQLFiles(t *testing.T) {
	m, err := database.NewManager(&database.Config{DatabaseURL: "sqlite://:memory:"}, utils.DiscardLogger())
	require.NoError(t, err)
	defer m.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "002_index.sql"),
		[]byte("CREATE INDEX idx_notes_body ON notes (body);\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_notes.sql"),
		[]byte("-- notes table\nCREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT);\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("ignored"), 0o600))

	runner := NewRunner(m, utils.DiscardLogger())
	require.NoError(t, runner.RunMigrations(dir))

	assert.True(t, m.DB.Migrator().HasTable("users"))
	assert.True(t, m.DB.Migrator().HasTable("notes"))
	var indexes int64
	require.NoError(t, m.DB.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'index' AND name = ?", "idx_notes_body").Scan(&indexes).Error)
	assert.Equal(t, int64(1), indexes)

	// A second run must not re-execute CREATE TABLE notes.
	require.NoError(t, runner.RunMigrations(dir))
	var applied int64
	require.NoError(t, m.DB.Table("schema_migrations").Count(&applied).Error)
	assert.Equal(t, int64(2), applied)
}

func TestRunMigrations_FailedFileIsNotRecorded(t *testing.T) {
	m, err := database.NewManager(&database.Config{DatabaseURL: "sqlite://:memory:"}, utils.DiscardLogger())
	require.NoError(t, err)
	defer m.Close()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "001_broken.sql"),
		[]byte("CREATE TABLE pending_notes (id INTEGER PRIMARY KEY);\nCREATE INDEX x ON missing_table (y);\n"), 0o600))

	err = NewRunner(m, utils.DiscardLogger()).RunMigrations(dir)
	require.ErrorContains(t, err, "001_broken.sql")

	var applied int64
	require.NoError(t, m.DB.Table("schema_migrations").Count(&applied).Error)
	assert.Zero(t, applied)
	assert.False(t, m.DB.Migrator().HasTable("pending_notes"))
}

func TestRunMigrations_MissingDir(t *testing.T) {
	m, err := database.NewManager(&database.Config{DatabaseURL: "sqlite://:memory:"}, utils.DiscardLogger())
	require.NoError(t, err)
	defer m.Close()

	err = NewRunner(m, utils.DiscardLogger()).RunMigrations(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorContains(t, err, "SQL migrations failed")
}
