// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(LegacyLevelCrit))
	assert.Equal(t, LevelError, FromLegacyLevel(LegacyLevelError))
	assert.Equal(t, LevelWarn, FromLegacyLevel(LegacyLevelWarn))
	assert.Equal(t, LevelInfo, FromLegacyLevel(LegacyLevelInfo))
	assert.Equal(t, LevelDebug, FromLegacyLevel(LegacyLevelDebug))
	assert.Equal(t, LevelTrace, FromLegacyLevel(LegacyLevelTrace))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
	assert.Equal(t, LevelCrit, FromLegacyLevel(-1))
}

func TestWithContextFollowsRoot(t *testing.T) {
	old := Root()
	defer SetDefault(old)

	l := WithContext("pkg", "test")

	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(LevelInfo)
	SetDefault(NewLogger(JSONHandlerWithLevel(&buf, &level)))

	l.Debug("hidden")
	l.Info("shown", "height", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "test", rec["pkg"])
	assert.Equal(t, "info", rec["lvl"])
	assert.Equal(t, float64(7), rec["height"])
}

func TestTerminalHandler(t *testing.T) {
	var buf bytes.Buffer
	var level slog.LevelVar
	level.Set(LevelDebug)

	l := NewLogger(NewTerminalHandlerWithLevel(&buf, &level, false)).With("pkg", "scdb")
	l.Trace("too verbose")
	l.Warn("inert vote", "slot", 3)

	out := buf.String()
	assert.NotContains(t, out, "too verbose")
	assert.True(t, strings.HasPrefix(out, "WARN "))
	assert.Contains(t, out, "inert vote pkg=scdb slot=3")
}

func TestTerminalQuoting(t *testing.T) {
	var buf bytes.Buffer
	var level slog.LevelVar

	l := NewLogger(NewTerminalHandlerWithLevel(&buf, &level, false))
	l.Info("served", "uri", "/votes?a=b", "title", "side chain", "body", "")

	assert.Contains(t, buf.String(), `served uri="/votes?a=b" title="side chain" body=""`)
}

func TestDiscardHandler(t *testing.T) {
	h := DiscardHandler()
	assert.False(t, h.Enabled(context.Background(), LevelCrit))
	assert.Equal(t, h, h.WithGroup("g"))
}
