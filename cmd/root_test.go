package cmd

import (
	"testing"

	"fundbridge/config"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_Tree(t *testing.T) {
	root := NewRootCommand()

	for _, path := range [][]string{
		{"serve"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
	} {
		found, _, err := root.Find(path)
		require.NoError(t, err)
		assert.Equal(t, path[len(path)-1], found.Name())
	}
}

func TestMigrateDown_RejectsInvalidSteps(t *testing.T) {
	config.SetTestConfig(config.NewTestConfig())
	defer config.ResetConfig()

	for _, steps := range []string{"abc", "0", "-2"} {
		root := NewRootCommand()
		root.SetArgs([]string{"migrate", "down", "--", steps})

		err := root.Execute()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid number of steps")
	}
}

func TestConfigureLogging(t *testing.T) {
	defer log.SetFormatter(&log.TextFormatter{})
	defer log.SetLevel(log.InfoLevel)

	cfg := config.NewTestConfig()
	cfg.Environment = "production"
	cfg.LogLevel = "debug"
	configureLogging(cfg)

	assert.IsType(t, &log.JSONFormatter{}, log.StandardLogger().Formatter)
	assert.Equal(t, log.DebugLevel, log.GetLevel())

	cfg.Environment = "development"
	cfg.LogLevel = "nonsense"
	configureLogging(cfg)

	assert.IsType(t, &log.TextFormatter{}, log.StandardLogger().Formatter)
	assert.Equal(t, log.InfoLevel, log.GetLevel())
}
