package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "infographic.log")

	closer, err := Init("debug", path)
	require.NoError(t, err)

	Log.WithField("source", "rapport.txt").Warn("analyse terminée")
	Log.Debug("détail")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[WARN] analyse terminée source=rapport.txt")
	assert.Contains(t, string(data), "[DEBU] détail")
}

func TestInit_UnknownLevel(t *testing.T) {
	closer, err := Init("bavard", "")
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, logrus.InfoLevel, Log.GetLevel())
}

func TestLineFormatter_SortsFields(t *testing.T) {
	entry := logrus.NewEntry(logrus.New()).WithFields(logrus.Fields{"b": 2, "a": 1})
	entry.Message = "msg"
	entry.Level = logrus.ErrorLevel

	out, err := (&lineFormatter{}).Format(entry)
	require.NoError(t, err)
	assert.Contains(t, string(out), "[ERRO] msg a=1 b=2\n")
}
