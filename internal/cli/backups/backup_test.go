package backups

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/cohort/internal/cli"
	"github.com/julianstephens/cohort/internal/models"
	"github.com/julianstephens/cohort/internal/storage/postgres"
	"github.com/julianstephens/cohort/internal/storage/sqlite"
)

func setupTestDB(t *testing.T) (*cli.Context, *bytes.Buffer, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	out := &bytes.Buffer{}
	return &cli.Context{Store: store, Out: out, In: strings.NewReader("")}, out, dbPath
}

func TestBackupCreateAndList(t *testing.T) {
	ctx, out, dbPath := setupTestDB(t)

	require.NoError(t, (&BackupListCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "No backups found.")

	out.Reset()
	require.NoError(t, (&BackupCreateCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "✓ Backup created: cohort-")

	entries, err := os.ReadDir(filepath.Join(filepath.Dir(dbPath), "backups"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	out.Reset()
	require.NoError(t, (&BackupListCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Available backups (1 total, keeping most recent 14)")
}

func TestBackupRestore(t *testing.T) {
	ctx, out, dbPath := setupTestDB(t)

	require.NoError(t, (&BackupCreateCmd{}).Run(ctx))
	name := strings.TrimSpace(strings.TrimPrefix(out.String(), "✓ Backup created: "))

	url := "https://routine.example/after.csv"
	require.NoError(t, ctx.Store.SaveSettings(models.SettingsPatch{SeniorRoutineURL: &url}))

	out.Reset()
	ctx.In = strings.NewReader("n\n")
	require.NoError(t, (&BackupRestoreCmd{BackupFile: name}).Run(ctx))
	assert.Contains(t, out.String(), "Restore cancelled.")

	out.Reset()
	require.NoError(t, (&BackupRestoreCmd{BackupFile: name, Yes: true}).Run(ctx))
	assert.Contains(t, out.String(), "✓ Database restored successfully!")
	assert.Contains(t, out.String(), "Previous database saved as:")

	reopened := sqlite.NewStore(dbPath)
	require.NoError(t, reopened.Load())
	defer reopened.Close()
	s, err := reopened.GetSettings()
	require.NoError(t, err)
	assert.Empty(t, s.SeniorRoutineURL)
}

func TestBackupRestore_MissingFile(t *testing.T) {
	ctx, _, _ := setupTestDB(t)

	err := (&BackupRestoreCmd{BackupFile: "cohort-19990101-0000.db", Yes: true}).Run(ctx)
	assert.ErrorContains(t, err, "backup file not found")
}

func TestBackups_RejectPostgres(t *testing.T) {
	ctx := &cli.Context{Store: postgres.New("postgres://user@localhost/cohort"), Out: &bytes.Buffer{}}

	assert.ErrorIs(t, (&BackupCreateCmd{}).Run(ctx), errPostgres)
	assert.ErrorIs(t, (&BackupListCmd{}).Run(ctx), errPostgres)
}
