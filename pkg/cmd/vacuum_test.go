package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunVacuum_Succeeds(t *testing.T) {
	tmpDir := t.TempDir()
	flags := &cmdFlags{LogLevel: "error", TextFormat: true}
	t.Setenv("HOUSAKU_SQLITE_URL", filepath.Join(tmpDir, "test.db"))

	err := runVacuum(t.Context(), flags)
	assert.NoError(t, err)
}

func TestRunVacuum_InvalidLogLevel(t *testing.T) {
	err := runVacuum(t.Context(), &cmdFlags{LogLevel: "WrongLogLevel"})
	assert.ErrorContains(t, err, "failed to init logger")
}

func TestNewVacuumCmd(t *testing.T) {
	cmd := newVacuumCmd(&cmdFlags{})
	assert.Equal(t, "vacuum", cmd.Use)
}
