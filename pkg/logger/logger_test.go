package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")

	l, err := New(path, "warn")
	require.NoError(t, err)

	l.Info("hidden %d", 1)
	l.Warn("visible %s", "warning")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, "visible warning")
	assert.False(t, strings.Contains(content, "hidden 1"))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("", "loud")
	require.Error(t, err)
}
