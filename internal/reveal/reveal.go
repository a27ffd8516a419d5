// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package reveal implements the typewriter effect used to present results on a display
// surface.
package reveal

import (
	"context"
	"time"
)

// DefaultDelay is the delay between two revealed characters
const DefaultDelay = time.Millisecond * 25

// Appender is implemented by display surfaces that text can be appended to.
type Appender interface {
	Append(text string)
}

// Effect appends text to an Appender one character per tick.
type Effect struct {
	delay time.Duration
}

// New returns an Effect with the given delay per character. A delay of zero or less reveals
// the text at once.
func New(delay time.Duration) *Effect {
	return &Effect{delay: delay}
}

// Reveal appends text to dst one rune at a time and returns once the complete text has been
// appended. If ctx is cancelled, Reveal stops and returns the context error. Runes that were
// appended until then stay on the surface.
func (e *Effect) Reveal(ctx context.Context, text string, dst Appender) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if text == "" {
		return nil
	}
	if e.delay <= 0 {
		dst.Append(text)
		return nil
	}

	runes := []rune(text)
	ticker := time.NewTicker(e.delay)
	defer ticker.Stop()

	for i := 0; i < len(runes); {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			dst.Append(string(runes[i]))
			i++
		}
	}
	return nil
}

// Pause blocks for the given duration or until ctx is cancelled.
func Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
