package system

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/cohort/internal/cli"
)

func TestMigrateCmd_UpToDate(t *testing.T) {
	store, _ := setupTestStore(t)
	out := &bytes.Buffer{}

	require.NoError(t, (&MigrateCmd{}).Run(&cli.Context{Store: store, Out: out}))
	assert.Contains(t, out.String(), "No migrations to apply. Database is up to date.")
}

func TestMigrateCmd_Uninitialized(t *testing.T) {
	ctx, _ := setupTestInitDB(t)

	assert.ErrorContains(t, (&MigrateCmd{}).Run(ctx), "failed to load database")
}
