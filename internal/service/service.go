// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/vorlif/spreak"

	"github.com/wneessen/exifscope/internal/config"
	"github.com/wneessen/exifscope/internal/display"
	"github.com/wneessen/exifscope/internal/exifgps"
	"github.com/wneessen/exifscope/internal/extractor"
	"github.com/wneessen/exifscope/internal/fileinfo"
	"github.com/wneessen/exifscope/internal/geocode"
	"github.com/wneessen/exifscope/internal/logger"
	"github.com/wneessen/exifscope/internal/remover"
	"github.com/wneessen/exifscope/internal/reveal"
)

var (
	ErrNoFileSelected = errors.New("no file selected")
	ErrNoLogger       = errors.New("no logger provided")
)

type Service struct {
	cacheFile string
	config    *config.Config
	display   *display.Terminal
	extractor *extractor.Extractor
	geocoder  geocode.Geocoder
	logger    *logger.Logger
	simulator *remover.Simulator
	t         *spreak.Localizer
}

// New returns a service writing its output to out. The status line is only drawn when out
// is an interactive terminal.
func New(conf *config.Config, log *logger.Logger, t *spreak.Localizer, out io.Writer) (*Service, error) {
	if log == nil {
		return nil, ErrNoLogger
	}

	geocoder, err := selectGeocodeProvider(conf, log, t.Language())
	if err != nil {
		return nil, fmt.Errorf("failed to select geocode provider: %w", err)
	}
	cacheFile := loadGeocodeCache(conf, log, geocoder)

	charDelay, fieldPause, stepPause := conf.Animation.CharDelay, conf.Animation.FieldPause, conf.Animation.StepPause
	if conf.Animation.Disable {
		charDelay, fieldPause, stepPause = 0, 0, 0
	}
	effect := reveal.New(charDelay)

	service := &Service{
		cacheFile: cacheFile,
		config:    conf,
		display:   display.NewTerminal(out, isInteractive(out), conf.Display.ProgressWidth),
		extractor: extractor.New(exifgps.New(), geocode.NewResolver(geocoder, log), effect, fieldPause, t, log),
		geocoder:  geocoder,
		logger:    log,
		simulator: remover.New(effect, stepPause, t, log),
		t:         t,
	}
	return service, nil
}

// Extract shows the metadata of the first of the given files. Additional files are ignored.
func (s *Service) Extract(ctx context.Context, paths []string) (*extractor.Report, error) {
	if len(paths) == 0 {
		return nil, ErrNoFileSelected
	}

	release, err := s.display.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()
	defer s.display.Finish()

	runID := uuid.NewString()
	defer s.saveGeocodeCache(runID)
	if len(paths) > 1 {
		s.logger.Debug("only the first file is processed", slog.String("run_id", runID),
			slog.Int("ignored", len(paths)-1))
	}
	s.display.SetProgress(0)

	file, err := fileinfo.Open(paths[0])
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	s.logger.Debug("extracting metadata", slog.String("run_id", runID), slog.String("file", file.Path),
		slog.String("content_type", file.ContentType), slog.Int64("size", file.Size))

	report, err := s.extractor.Extract(ctx, runID, file, s.display)
	if err != nil {
		return report, fmt.Errorf("metadata extraction was interrupted: %w", err)
	}
	s.logger.Debug("metadata extraction completed", slog.String("run_id", runID),
		slog.Bool("gps", report.GPS != nil))
	return report, nil
}

// Remove plays the metadata removal sequence.
func (s *Service) Remove(ctx context.Context) error {
	release, err := s.display.Acquire()
	if err != nil {
		return err
	}
	defer release()
	defer s.display.Finish()

	runID := uuid.NewString()
	s.logger.Debug("simulating metadata removal", slog.String("run_id", runID))
	s.display.SetProgress(0)

	if err = s.simulator.Simulate(ctx, s.display); err != nil {
		return fmt.Errorf("metadata removal simulation was interrupted: %w", err)
	}
	s.logger.Debug("metadata removal simulation completed", slog.String("run_id", runID))
	return nil
}

// loadGeocodeCache fills the geocoder cache with the lookups of earlier runs and returns the
// file the cache is kept in. An empty path means the cache is not persisted.
func loadGeocodeCache(conf *config.Config, log *logger.Logger, geocoder geocode.Geocoder) string {
	cache, ok := geocoder.(*geocode.CachedGeocoder)
	if !ok {
		return ""
	}
	path, err := conf.GeocodeCacheFile()
	if err != nil {
		log.Warn("geocoder cache is kept in memory only", logger.Err(err))
		return ""
	}
	if path == "" {
		return ""
	}

	err = cache.LoadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Debug("no geocoder cache file found", slog.String("file", path))
	case err != nil:
		log.Warn("failed to load geocoder cache", logger.Err(err), slog.String("file", path))
	default:
		log.Debug("geocoder cache loaded", slog.String("file", path))
	}
	return path
}

func (s *Service) saveGeocodeCache(runID string) {
	cache, ok := s.geocoder.(*geocode.CachedGeocoder)
	if !ok || s.cacheFile == "" {
		return
	}
	if err := cache.SaveFile(s.cacheFile); err != nil {
		s.logger.Warn("failed to save geocoder cache", logger.Err(err), slog.String("run_id", runID),
			slog.String("file", s.cacheFile))
	}
}

func isInteractive(out io.Writer) bool {
	file, ok := out.(*os.File)
	return ok && display.IsInteractive(file)
}
