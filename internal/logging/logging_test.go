// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
		err  bool
	}{
		{"", zap.InfoLevel, false},
		{"DEBUG", zap.DebugLevel, false},
		{"warning", zap.WarnLevel, false},
		{"error", zap.ErrorLevel, false},
		{"verbose", zap.InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestNew_WritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	l, err := New(Options{Path: path, Level: "info"})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("request", zap.String("path", "/chat/history"), zap.Int("status", 200))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug entries are filtered at info level")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "request", entry["message"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "/chat/history", entry["path"])
	assert.Contains(t, entry, "timestamp")
}

func TestNew_ConsoleCore(t *testing.T) {
	var stderr bytes.Buffer
	l, err := New(Options{Path: filepath.Join(t.TempDir(), "app.log"), Console: true, Stderr: &stderr})
	require.NoError(t, err)
	l.Warn("visible on console")
	require.NoError(t, l.Close())
	assert.Contains(t, stderr.String(), "visible on console")
}

func TestNew_RejectsBadInput(t *testing.T) {
	_, err := New(Options{Path: filepath.Join(t.TempDir(), "x.log"), Level: "loud"})
	assert.Error(t, err)
	_, err = New(Options{})
	assert.Error(t, err)
}

func TestNopAndOrNop(t *testing.T) {
	assert.NoError(t, Nop().Close())
	assert.NotNil(t, OrNop(nil))
	l := zap.NewExample()
	assert.Same(t, l, OrNop(l))
}
