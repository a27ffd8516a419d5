// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package remover plays the scripted metadata removal sequence. It never touches any file.
package remover

import (
	"context"
	"log/slog"
	"time"

	"github.com/vorlif/spreak"
	"github.com/vorlif/spreak/localize"

	"github.com/wneessen/exifscope/internal/extractor"
	"github.com/wneessen/exifscope/internal/logger"
	"github.com/wneessen/exifscope/internal/reveal"
)

// DefaultStepPause is the pause after each removal step.
const DefaultStepPause = time.Millisecond * 500

// Steps are the intermediate lines of the sequence, followed by the final Done line.
var Steps = []localize.MsgID{
	"Scanning file...",
	"Cleaning metadata...",
	"Finalizing...",
}

const Done localize.MsgID = "Metadata removed successfully!"

// Display is the output surface the simulator writes to.
type Display interface {
	reveal.Appender
	Clear()
	SetProgress(percent int)
}

type Simulator struct {
	effect    *reveal.Effect
	stepPause time.Duration
	localizer *spreak.Localizer
	logger    *logger.Logger
}

func New(effect *reveal.Effect, stepPause time.Duration, t *spreak.Localizer, log *logger.Logger) *Simulator {
	return &Simulator{
		effect:    effect,
		stepPause: stepPause,
		localizer: t,
		logger:    log,
	}
}

// Simulate clears the display and reveals the removal steps, advancing the progress after
// each of them, followed by the success line.
func (s *Simulator) Simulate(ctx context.Context, d Display) error {
	d.Clear()

	for i, step := range Steps {
		if err := s.effect.Reveal(ctx, s.localizer.Get(step)+"\n", d); err != nil {
			return err
		}
		progress := extractor.Progress(i+1, len(Steps))
		d.SetProgress(progress)
		s.logger.Debug("removal step completed", slog.Int("step", i+1), slog.Int("progress", progress))
		if err := reveal.Pause(ctx, s.stepPause); err != nil {
			return err
		}
	}

	return s.effect.Reveal(ctx, s.localizer.Get(Done)+"\n", d)
}
