// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package display implements the output surface and progress indicator on a terminal.
package display

import (
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

const (
	// DefaultProgressWidth is the amount of cells used by the progress bar
	DefaultProgressWidth = 30

	eraseLine = "\r\033[K"
	cursorUp  = "\033[1A"
	eraseDown = "\033[J"
)

// ErrBusy is returned by Acquire while another operation owns the surface
var ErrBusy = errors.New("display is in use by another operation")

// Terminal is a display surface that writes to a terminal. On interactive terminals the
// progress is drawn as a status line below the output; otherwise only the text is written
// and held text is not written before it has been rendered.
type Terminal struct {
	busy atomic.Bool

	mu          sync.Mutex
	out         io.Writer
	interactive bool
	width       int
	content     string
	written     string
	held        bool
	progress    int
	statusShown bool
}

// NewTerminal returns a Terminal that writes to out. A width of zero or less selects
// DefaultProgressWidth.
func NewTerminal(out io.Writer, interactive bool, width int) *Terminal {
	if width <= 0 {
		width = DefaultProgressWidth
	}
	return &Terminal{out: out, interactive: interactive, width: width}
}

// IsInteractive reports whether f is connected to a terminal.
func IsInteractive(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Acquire grants exclusive use of the surface. The returned function releases it again and
// may be called more than once.
func (t *Terminal) Acquire() (func(), error) {
	if !t.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	var once sync.Once
	return func() { once.Do(func() { t.busy.Store(false) }) }, nil
}

// Clear discards the output of the previous operation.
func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eraseStatus()
	t.content = ""
	t.written = ""
	t.held = false
}

// Append adds text to the output.
func (t *Terminal) Append(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.eraseStatus()
	t.content += text
	if t.interactive || !t.held {
		t.write(text)
		t.written += text
	}
	t.drawStatus()
}

// Hold marks the text appended from now on as preliminary until the next Render. Outputs
// that cannot be rewritten in place do not receive it.
func (t *Terminal) Hold() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.held = true
}

// SetProgress updates the progress indicator to the given percentage.
func (t *Terminal) SetProgress(percent int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress = min(max(percent, 0), 100)
	t.eraseStatus()
	t.drawStatus()
}

// Render replaces the output with content. Lines shared with the current output are kept,
// the remaining lines are rewritten in place on interactive terminals and written again
// otherwise.
func (t *Terminal) Render(content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if content == t.content && (t.interactive || content == t.written) {
		return
	}

	t.eraseStatus()
	if t.interactive {
		prefix := commonLinePrefix(t.content, content)
		var buf strings.Builder
		buf.WriteString("\r")
		for range strings.Count(t.content[prefix:], "\n") {
			buf.WriteString(cursorUp)
		}
		buf.WriteString(eraseDown)
		t.write(buf.String())
		t.write(content[prefix:])
	} else {
		t.write(content[commonLinePrefix(t.written, content):])
	}
	t.content = content
	t.written = content
	t.held = false
	t.drawStatus()
}

// Content returns the current output.
func (t *Terminal) Content() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.content
}

// Progress returns the current progress percentage.
func (t *Terminal) Progress() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.progress
}

// Finish writes held text that was never rendered, leaves the status line in place and
// moves the cursor below it.
func (t *Terminal) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.held && strings.HasPrefix(t.content, t.written) {
		t.write(t.content[len(t.written):])
		t.written = t.content
	}
	t.held = false
	if t.statusShown {
		t.write("\n")
		t.statusShown = false
	}
}

func (t *Terminal) write(text string) {
	_, _ = io.WriteString(t.out, text)
}

func (t *Terminal) eraseStatus() {
	if !t.statusShown {
		return
	}
	t.write(eraseLine)
	t.statusShown = false
}

// drawStatus draws the status line if the cursor is at the start of a line.
func (t *Terminal) drawStatus() {
	if !t.interactive || t.statusShown || (t.content != "" && !strings.HasSuffix(t.content, "\n")) {
		return
	}
	t.write(t.statusLine())
	t.statusShown = true
}

func (t *Terminal) statusLine() string {
	fill, empty := "█", "░"
	if runewidth.StringWidth(fill) != 1 {
		fill, empty = "#", "."
	}
	filled := t.width * t.progress / 100
	label := runewidth.FillLeft(strconv.Itoa(t.progress)+"%", 4)
	return "[" + strings.Repeat(fill, filled) + strings.Repeat(empty, t.width-filled) + "] " + label
}

// commonLinePrefix returns the length of the longest common prefix of a and b that ends
// with a complete line.
func commonLinePrefix(a, b string) int {
	n := min(len(a), len(b))
	last := 0
	for i := 0; i < n && a[i] == b[i]; i++ {
		if a[i] == '\n' {
			last = i + 1
		}
	}
	return last
}
