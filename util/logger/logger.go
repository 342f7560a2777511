/*
 * R3000 - Wrapper for slog
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

package logger

// Handler for the emulator's logging: every record goes to the
// configured log file; warnings and errors are mirrored to stderr so
// they are visible while the guest owns stdout. Verbose mode lets
// everything through to both.

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

type LogHandler struct {
	out     io.Writer // Log file, nil when logging to stderr only.
	level   slog.Leveler
	verbose bool
	prefix  string // Accumulated group prefix for attribute keys.
	attrs   []slog.Attr
	mu      *sync.Mutex
}

func NewHandler(file io.Writer, opts *slog.HandlerOptions, verbose bool) *LogHandler {
	h := &LogHandler{
		out:     file,
		verbose: verbose,
		mu:      &sync.Mutex{},
	}
	if opts != nil {
		h.level = opts.Level
	}
	return h
}

func (h *LogHandler) Enabled(_ context.Context, level slog.Level) bool {
	if h.verbose {
		return true
	}
	min := slog.LevelInfo
	if h.level != nil {
		min = h.level.Level()
	}
	return level >= min
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	nh := *h
	nh.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &nh
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	nh := *h
	nh.prefix = h.prefix + name + "."
	return &nh
}

func (h *LogHandler) Handle(_ context.Context, r slog.Record) error {
	var text strings.Builder

	text.WriteString(r.Time.Format("2006/01/02 15:04:05"))
	text.WriteByte(' ')
	text.WriteString(r.Level.String())
	text.WriteString(": ")
	text.WriteString(r.Message)

	appendAttr := func(a slog.Attr) bool {
		text.WriteByte(' ')
		text.WriteString(h.prefix)
		text.WriteString(a.Key)
		text.WriteByte('=')
		text.WriteString(a.Value.String())
		return true
	}
	for _, a := range h.attrs {
		appendAttr(a)
	}
	r.Attrs(appendAttr)
	text.WriteByte('\n')

	b := []byte(text.String())

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write(b)
	}
	if h.verbose || r.Level >= slog.LevelWarn {
		_, err = os.Stderr.Write(b)
	}
	return err
}
