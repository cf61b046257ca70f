package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ds124wfegd/avatar-fix/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputStdoutOnly(t *testing.T) {
	var buf bytes.Buffer
	w := Output(config.LogConfig{}, &buf)
	assert.Same(t, &buf, w)
}

func TestOutputWithFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "avatar.log")

	w := Output(config.LogConfig{File: path, MaxSizeMB: 1}, &buf)
	_, err := w.Write([]byte("line\n"))
	require.NoError(t, err)

	assert.Equal(t, "line\n", buf.String())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line\n", string(data))
}

func TestSetupRejectsBadLevel(t *testing.T) {
	assert.Error(t, Setup(config.LogConfig{Level: "loud"}))
}
