// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"github.com/vorlif/spreak"

	"github.com/wneessen/exifscope/internal/config"
	"github.com/wneessen/exifscope/internal/extractor"
	"github.com/wneessen/exifscope/internal/i18n"
	"github.com/wneessen/exifscope/internal/logger"
	"github.com/wneessen/exifscope/internal/service"
	"github.com/wneessen/exifscope/internal/template"
)

const appName = "exifscope"

var ErrOutputConflict = errors.New("the --json and --template options are mutually exclusive")

type cliEnv struct {
	conf *config.Config
	log  *logger.Logger
	t    *spreak.Localizer
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      appName,
		Usage:     "show the metadata and GPS location of a file",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "path to the config file"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging"},
		},
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "show the file attributes, GPS coordinates and location of FILE",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "print the result as JSON instead of the animated output"},
					&cli.StringFlag{
						Name: "template", Aliases: []string{"t"},
						Usage: "render the result with a Go text/template instead of the animated output",
					},
					&cli.BoolFlag{Name: "tags", Usage: "list all embedded EXIF tags after the animated output"},
				},
				Action: extractAction,
			},
			{
				Name:      "remove",
				Usage:     "simulate the removal of the metadata of FILE, the file is not modified",
				ArgsUsage: "[FILE]",
				Action:    removeAction,
			},
		},
	}
}

func extractAction(c *cli.Context) error {
	jsonOutput := c.Bool("json")
	if jsonOutput && c.IsSet("template") {
		return ErrOutputConflict
	}

	env, err := setup(c)
	if err != nil {
		return err
	}

	var tpl *template.Template
	tplText := c.String("template")
	if tplText == "" && !jsonOutput {
		tplText = env.conf.Templates.Report
	}
	if tplText != "" {
		if tpl, err = template.New(tplText, env.t); err != nil {
			env.log.Error("failed to parse report template", logger.Err(err))
			return err
		}
	}

	// The animated output is replaced by the report in JSON and template mode
	out := c.App.Writer
	if jsonOutput || tpl != nil {
		out = io.Discard
		env.conf.Animation.Disable = true
	}
	serv, err := env.newService(out)
	if err != nil {
		return err
	}

	report, err := serv.Extract(c.Context, c.Args().Slice())
	switch {
	case errors.Is(err, service.ErrNoFileSelected):
		_, _ = fmt.Fprintln(c.App.ErrWriter, env.t.Get("Select a file first!"))
		return err
	case errors.Is(err, context.Canceled):
		env.log.Debug("metadata extraction cancelled")
		return err
	case err != nil:
		env.log.Error(env.t.Get("failed to extract metadata"), logger.Err(err))
		return err
	}

	switch {
	case tpl != nil:
		if err = tpl.Execute(c.App.Writer, report); err != nil {
			env.log.Error("failed to render report", logger.Err(err))
			return err
		}
	case jsonOutput:
		encoder := json.NewEncoder(c.App.Writer)
		encoder.SetIndent("", "  ")
		if err = encoder.Encode(report); err != nil {
			env.log.Error("failed to encode report", logger.Err(err))
			return err
		}
	case c.Bool("tags"):
		printTags(c.App.Writer, env.t, report)
	}
	return nil
}

func printTags(w io.Writer, t *spreak.Localizer, report *extractor.Report) {
	if len(report.Tags) == 0 {
		_, _ = fmt.Fprintf(w, "\n%s\n", t.Get("No EXIF tags found"))
		return
	}
	_, _ = fmt.Fprintf(w, "\n%s:\n%s", t.Get("EXIF Tags"), report.TagList())
}

func removeAction(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	serv, err := env.newService(c.App.Writer)
	if err != nil {
		return err
	}
	if c.Args().Present() {
		env.log.Debug("the selected file is left untouched", slog.String("file", c.Args().First()))
	}

	err = serv.Remove(c.Context)
	switch {
	case errors.Is(err, context.Canceled):
		env.log.Debug("metadata removal cancelled")
		return err
	case err != nil:
		env.log.Error(env.t.Get("failed to simulate metadata removal"), logger.Err(err))
		return err
	}
	return nil
}

// setup loads the configuration and initializes the logger and the localizer.
func setup(c *cli.Context) (*cliEnv, error) {
	log := logger.NewLogger(slog.LevelError, c.App.ErrWriter)

	conf, err := loadConfig(c.String("config"))
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		return nil, err
	}
	if c.Bool("verbose") {
		conf.LogLevel = slog.LevelDebug
	}

	log = logger.NewLogger(conf.LogLevel, c.App.ErrWriter)
	t, err := i18n.New(conf.Locale)
	if err != nil {
		log.Error("failed to initialize localizer", logger.Err(err))
		return nil, err
	}
	return &cliEnv{conf: conf, log: log, t: t}, nil
}

func (e *cliEnv) newService(out io.Writer) (*service.Service, error) {
	serv, err := service.New(e.conf, e.log, e.t, out)
	if err != nil {
		e.log.Error("failed to initialize exifscope service", logger.Err(err))
		return nil, err
	}
	return serv, nil
}

// loadConfig reads the given config file. Without a path the default location is tried
// before falling back to the defaults.
func loadConfig(confPath string) (*config.Config, error) {
	if confPath != "" {
		conf, err := config.NewFromFile(filepath.Dir(confPath), filepath.Base(confPath))
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		return conf, nil
	}

	if path, file := findConfigFile(); path != "" && file != "" {
		conf, err := config.NewFromFile(path, file)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		return conf, nil
	}

	return config.New()
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", appName, "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}
