// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package template renders extraction reports with user defined text templates.
package template

import (
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/humanize"
	"github.com/vorlif/spreak"

	"github.com/wneessen/exifscope/internal/i18n"
)

type Template struct {
	tpl       *template.Template
	localizer *spreak.Localizer
	humanizer *humanize.Humanizer
}

func New(text string, loc *spreak.Localizer) (*Template, error) {
	tpl := &Template{
		localizer: loc,
		humanizer: i18n.NewHumanizer(loc.Language()),
	}

	parsed, err := template.New("report").Funcs(tpl.templateFuncMap()).Parse(text)
	if err != nil {
		return tpl, fmt.Errorf("failed to parse report template: %w", err)
	}
	tpl.tpl = parsed

	return tpl, nil
}

// Execute renders the template for data into w.
func (t *Template) Execute(w io.Writer, data any) error {
	if err := t.tpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render report template: %w", err)
	}
	return nil
}

func (t *Template) templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"timeFormat":        timeFormat,
		"localizedTime":     t.localizedTime,
		"localizedDateTime": t.localizedDateTime,
		"floatFormat":       floatFormat,
		"pad":               pad,
		"loc":               t.loc,
		"lc":                strings.ToLower,
		"uc":                strings.ToUpper,
	}
}

// loc translates a message of the catalog. Unknown messages are returned unchanged.
func (t *Template) loc(val string) string {
	return t.localizer.Get(val)
}

func (t *Template) localizedTime(val time.Time) string {
	return t.humanizer.FormatTime(val, humanize.TimeFormat)
}

func (t *Template) localizedDateTime(val time.Time) string {
	return t.humanizer.FormatTime(val, humanize.DateTimeFormat)
}

func timeFormat(val time.Time, fmt string) string {
	return val.Format(fmt)
}

func floatFormat(val float64, precision int) string {
	return fmt.Sprintf("%.*f", precision, val)
}

// pad fills val with spaces up to the given display width.
func pad(val string, width int) string {
	return runewidth.FillRight(val, width)
}
