// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package i18n

import (
	"strings"
	"testing"
	"time"

	"github.com/vorlif/humanize"
	"golang.org/x/text/language"
)

func TestNew(t *testing.T) {
	t.Run("new i18n provider with empty locale string succeeds", func(t *testing.T) {
		provider, err := New("")
		if err != nil {
			t.Fatalf("failed to create i18n provider: %s", err)
		}
		if provider == nil {
			t.Fatal("expected i18n provider to be non-nil")
		}
	})
	t.Run("english returns the source strings", func(t *testing.T) {
		provider, err := New("en")
		if err != nil {
			t.Fatalf("failed to create i18n provider: %s", err)
		}
		if got := provider.Get("Fetching..."); got != "Fetching..." {
			t.Errorf("expected translation to be %q, got %q", "Fetching...", got)
		}
		if got := provider.Getf("%d bytes", 42); got != "42 bytes" {
			t.Errorf("expected translation to be %q, got %q", "42 bytes", got)
		}
	})
	t.Run("german catalog is embedded", func(t *testing.T) {
		provider, err := New("de")
		if err != nil {
			t.Fatalf("failed to create i18n provider: %s", err)
		}
		if provider.Language() != language.German {
			t.Errorf("expected language to be %s, got %s", language.German, provider.Language())
		}
		if got := provider.Get("Not found"); got != "Nicht gefunden" {
			t.Errorf("expected translation to be %q, got %q", "Nicht gefunden", got)
		}
	})
	t.Run("unknown locale falls back to english", func(t *testing.T) {
		provider, err := New("sv")
		if err != nil {
			t.Fatalf("failed to create i18n provider: %s", err)
		}
		if got := provider.Get("Unknown location"); got != "Unknown location" {
			t.Errorf("expected translation to be %q, got %q", "Unknown location", got)
		}
	})
}

func TestTag(t *testing.T) {
	t.Run("valid locale is parsed", func(t *testing.T) {
		tag, err := Tag("de-DE")
		if err != nil {
			t.Fatalf("failed to parse locale: %s", err)
		}
		base, _ := tag.Base()
		if base.String() != "de" {
			t.Errorf("expected base language to be de, got %s", base)
		}
	})
	t.Run("invalid locale fails", func(t *testing.T) {
		if _, err := Tag("not a locale!"); err == nil {
			t.Error("expected parsing to fail")
		}
	})
	t.Run("empty locale is detected", func(t *testing.T) {
		if _, err := Tag(""); err != nil {
			t.Errorf("expected detection to never fail, got %s", err)
		}
	})
}

func TestNewHumanizer(t *testing.T) {
	t.Run("english date time format contains the year", func(t *testing.T) {
		humanizer := NewHumanizer(language.English)
		if humanizer == nil {
			t.Fatal("expected humanizer to be non-nil")
		}
		formatted := humanizer.FormatTime(time.Date(2024, time.March, 5, 14, 30, 0, 0, time.UTC),
			humanize.DateTimeFormat)
		if !strings.Contains(formatted, "2024") {
			t.Errorf("expected formatted time to contain the year, got %q", formatted)
		}
	})
}
