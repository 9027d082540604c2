package system

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTuiCmd_Deps(t *testing.T) {
	ctx, _ := setupViewer(t, doctorNow)

	deps, err := (&TuiCmd{}).Deps(ctx)
	require.NoError(t, err)
	assert.Equal(t, testEmail, deps.Profile.Email)
	assert.Equal(t, seniorURL, deps.Settings.SeniorRoutineURL)
	assert.NotNil(t, deps.Aggregator)
	assert.NotNil(t, deps.Tracker)
	assert.Equal(t, time.UTC, deps.Now().Location())
	assert.True(t, deps.Now().Equal(doctorNow))
}

func TestTuiCmd_DepsNeedProfile(t *testing.T) {
	ctx, _ := setupViewer(t, doctorNow)
	ctx.Email = ""

	_, err := (&TuiCmd{}).Deps(ctx)
	assert.Error(t, err)
}
