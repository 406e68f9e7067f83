// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

type discardHandler struct{}

// DiscardHandler drops every record.
func DiscardHandler() slog.Handler { return discardHandler{} }

func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (h discardHandler) WithGroup(string) slog.Handler           { return h }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }

// TerminalHandler writes one line per record for human readers:
//
//	LEVEL [01-02|15:04:05.000] message key=value ...
//
// Groups are not supported and flattened away.
type TerminalHandler struct {
	mu       *sync.Mutex
	wr       io.Writer
	lvl      *slog.LevelVar
	useColor bool
	attrs    []slog.Attr
}

// NewTerminalHandlerWithLevel returns a TerminalHandler emitting records at
// lvl or above. lvl may be changed while the handler is in use.
func NewTerminalHandlerWithLevel(wr io.Writer, lvl *slog.LevelVar, useColor bool) *TerminalHandler {
	return &TerminalHandler{mu: new(sync.Mutex), wr: wr, lvl: lvl, useColor: useColor}
}

func (h *TerminalHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.lvl.Level()
}

func (h *TerminalHandler) WithGroup(string) slog.Handler { return h }

func (h *TerminalHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	return &c
}

func (h *TerminalHandler) Handle(_ context.Context, r slog.Record) error {
	var sb strings.Builder
	level := LevelAlignedString(r.Level)
	if h.useColor {
		level = levelColor(r.Level) + level + "\x1b[0m"
	}
	sb.WriteString(level)
	sb.WriteString(" [")
	sb.WriteString(r.Time.Format(termTimeFormat))
	sb.WriteString("] ")
	sb.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&sb, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&sb, a)
		return true
	})
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.wr, sb.String())
	return err
}

func writeAttr(sb *strings.Builder, a slog.Attr) {
	a = replaceAttr(nil, a)
	v := fmt.Sprint(a.Value.Any())
	if v == "" || strings.ContainsAny(v, " =\"") {
		v = strconv.Quote(v)
	}
	sb.WriteByte(' ')
	sb.WriteString(a.Key)
	sb.WriteByte('=')
	sb.WriteString(v)
}

func levelColor(l slog.Level) string {
	switch {
	case l >= LevelCrit:
		return "\x1b[35m"
	case l >= LevelError:
		return "\x1b[31m"
	case l >= LevelWarn:
		return "\x1b[33m"
	case l >= LevelInfo:
		return "\x1b[32m"
	case l >= LevelDebug:
		return "\x1b[36m"
	default:
		return "\x1b[34m"
	}
}

// JSONHandlerWithLevel returns a handler writing one JSON object per record
// at level or above, with "t" and "lvl" keys for time and level.
func JSONHandlerWithLevel(wr io.Writer, level *slog.LevelVar) slog.Handler {
	return slog.NewJSONHandler(wr, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	})
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		return slog.Attr{Key: "t", Value: a.Value}
	case slog.LevelKey:
		if l, ok := a.Value.Any().(slog.Level); ok {
			return slog.String("lvl", LevelString(l))
		}
	}
	// values such as Bytes32 log in their text form
	if s, ok := a.Value.Any().(fmt.Stringer); ok {
		if rv := reflect.ValueOf(s); rv.Kind() == reflect.Pointer && rv.IsNil() {
			a.Value = slog.StringValue("<nil>")
		} else {
			a.Value = slog.StringValue(s.String())
		}
	}
	return a
}
