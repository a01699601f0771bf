package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/germanamz/slideshow/pkg/transition"
)

// settings are the host options. Each one is resolved from, in order of
// precedence, an explicit flag, a SLIDESHOW_* environment variable (which
// may come from the .env file) and a default.
type settings struct {
	Config   string
	Carousel string
	Addr     string
	LogLevel string
	LogFile  string
	Easing   string
	FPS      int
	Markdown string
	Settle   string
}

// newFlagSet registers the flags shared by every subcommand.
func newFlagSet(name, usage string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\nFlags:\n", usage)
		fs.PrintDefaults()
	}
	fs.String("config", "slideshow.yaml", "path to the deck configuration")
	fs.String("env", ".env", "path to .env file (ignored if missing)")
	fs.String("carousel", "", "carousel to show (default: entry or first carousel)")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
	fs.String("log-file", "", "write logs to this file")
	return fs
}

func loadSettings(fs *flag.FlagSet) (settings, error) {
	v := viper.New()

	v.SetDefault("config", "slideshow.yaml")
	v.SetDefault("carousel", "")
	v.SetDefault("addr", ":8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("easing", "ease-out")
	v.SetDefault("fps", 60)
	v.SetDefault("markdown", "dark")
	v.SetDefault("settle", "auto")

	v.SetEnvPrefix("SLIDESHOW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	fs.Visit(func(f *flag.Flag) {
		v.Set(strings.ReplaceAll(f.Name, "-", "_"), f.Value.String())
	})

	s := settings{
		Config:   v.GetString("config"),
		Carousel: v.GetString("carousel"),
		Addr:     v.GetString("addr"),
		LogLevel: v.GetString("log_level"),
		LogFile:  v.GetString("log_file"),
		Easing:   v.GetString("easing"),
		FPS:      v.GetInt("fps"),
		Markdown: v.GetString("markdown"),
		Settle:   v.GetString("settle"),
	}

	return s, s.validate()
}

func (s settings) validate() error {
	if _, err := parseEasing(s.Easing); err != nil {
		return err
	}
	if _, err := parseLevel(s.LogLevel); err != nil {
		return err
	}
	if s.FPS <= 0 || s.FPS > 240 {
		return fmt.Errorf("fps must be in [1,240], got %d", s.FPS)
	}
	if s.Settle != "auto" && s.Settle != "remote" {
		return fmt.Errorf("settle must be auto or remote, got %q", s.Settle)
	}
	return nil
}

// frameInterval is the delay between animation frames.
func (s settings) frameInterval() time.Duration {
	return time.Second / time.Duration(s.FPS)
}

func parseEasing(name string) (transition.Easing, error) {
	switch strings.ToLower(name) {
	case "linear":
		return transition.Linear, nil
	case "", "ease-out":
		return transition.EaseOutCubic, nil
	case "ease-in-out":
		return transition.EaseInOutCubic, nil
	default:
		return nil, fmt.Errorf("unknown easing %q", name)
	}
}

func parseLevel(name string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", name)
	}
	return l, nil
}

// newLogger writes text logs to the configured file, or to fallback when no
// file is set. A nil fallback discards logs. The returned function closes the
// file.
func newLogger(s settings, fallback io.Writer) (*slog.Logger, func() error, error) {
	level, err := parseLevel(s.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	w, closer := fallback, func() error { return nil }
	if s.LogFile != "" {
		f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600) //nolint:gosec // path is a user setting
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w, closer = f, f.Close
	}
	if w == nil {
		return slog.New(slog.DiscardHandler), closer, nil
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), closer, nil
}

// loadDotEnv loads environment variables from path. A missing file is not an
// error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
