package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitCommand_RegistersSubcommands(t *testing.T) {
	cmd := InitCommand(BuildInfo{Version: "test", AppName: "housaku"})

	assert.Equal(t, "housaku", cmd.Use)

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["index"])
	assert.True(t, names["search"])
	assert.True(t, names["purge"])
	assert.True(t, names["vacuum"])
}

func TestInitCommand_HasLoggingFlags(t *testing.T) {
	cmd := InitCommand(BuildInfo{Version: "test", AppName: "housaku"})

	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("log-text"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}
