package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/germanamz/slideshow/pkg/engine"
	"github.com/germanamz/slideshow/pkg/remote"
)

const usage = `Usage: slideshow [flags]
       slideshow <command> [flags]

Commands:
  headless  Drive a carousel with JSON lines on stdin/stdout
  serve     Drive a carousel over a websocket
  init      Write a starter deck configuration
`

func main() {
	args := os.Args[1:]
	cmd := ""
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "":
		err = runTUI(args)
	case "headless":
		err = runHeadless(args)
	case "serve":
		err = runServe(args)
	case "init":
		err = runInit(args)
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// parseSettings parses args into fs, loads the .env file and resolves the
// settings.
func parseSettings(fs *flag.FlagSet, args []string) (settings, error) {
	if err := fs.Parse(args); err != nil {
		return settings{}, err
	}
	if err := loadDotEnv(fs.Lookup("env").Value.String()); err != nil {
		return settings{}, err
	}
	return loadSettings(fs)
}

// openCarousel builds an engine from cfg and creates the carousel the
// settings select.
func openCarousel(cfg engine.Config, s settings, log *slog.Logger, opts ...engine.CarouselOption) (*engine.Engine, *engine.Carousel, error) {
	eng, err := engine.New(cfg, engine.WithLogger(log))
	if err != nil {
		return nil, nil, err
	}

	c, err := eng.NewCarousel(s.Carousel, opts...)
	if err != nil {
		_ = eng.Close()
		return nil, nil, err
	}

	return eng, c, nil
}

func runTUI(args []string) error {
	fs := newFlagSet("slideshow", usage)
	fs.String("easing", "ease-out", "animation easing: linear, ease-out or ease-in-out")
	fs.Int("fps", 60, "animation frames per second")
	fs.String("markdown", "dark", "markdown style: dark, light or notty")

	s, err := parseSettings(fs, args)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(s, nil)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	cfg, err := engine.LoadConfig(s.Config)
	if err != nil {
		return err
	}
	cc, ok := cfg.Find(s.Carousel)
	if !ok {
		return fmt.Errorf("carousel %q not found", s.Carousel)
	}
	content, err := cfg.SlideContent(cc)
	if err != nil {
		return err
	}

	slides := newSlideRenderer(content, s.Markdown, log)
	driver := &tuiDriver{}

	eng, c, err := openCarousel(cfg, s, log, engine.WithRenderer(slides), engine.WithDriver(driver))
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()

	ease, _ := parseEasing(s.Easing)
	model := newTUIModel(c, slides, driver, tuiOptions{
		ease:     ease,
		interval: s.frameInterval(),
		editing:  cc.Editing,
		random:   cc.Random,
	})

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func runHeadless(args []string) error {
	fs := newFlagSet("headless", "Usage: slideshow headless [flags]\n\nRead JSON commands from stdin and write JSON events to stdout.")
	fs.String("settle", "auto", "complete transitions automatically (auto) or wait for COMPLETE commands (remote)")

	s, err := parseSettings(fs, args)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(s, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var opts []engine.CarouselOption
	driver := remote.NewTimerDriver()
	if s.Settle == "auto" {
		opts = append(opts, engine.WithDriver(driver))
	}

	cfg, err := engine.LoadConfig(s.Config)
	if err != nil {
		return err
	}
	eng, c, err := openCarousel(cfg, s, log, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()
	driver.Bind(c)
	defer driver.Stop()

	err = remote.ServeLines(ctx, c, os.Stdin, os.Stdout, remote.WithLogger(log))
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runServe(args []string) error {
	fs := newFlagSet("serve", "Usage: slideshow serve [flags]\n\nServe a carousel over a websocket at /ws.")
	fs.String("addr", ":8080", "listen address")
	fs.String("settle", "remote", "complete transitions automatically (auto) or wait for COMPLETE commands (remote)")

	s, err := parseSettings(fs, args)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(s, os.Stderr)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var opts []engine.CarouselOption
	driver := remote.NewTimerDriver()
	if s.Settle == "auto" {
		opts = append(opts, engine.WithDriver(driver))
	}

	cfg, err := engine.LoadConfig(s.Config)
	if err != nil {
		return err
	}
	eng, c, err := openCarousel(cfg, s, log, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = eng.Close() }()
	driver.Bind(c)
	defer driver.Stop()

	mux := http.NewServeMux()
	mux.Handle("/ws", remote.Handler(c, remote.WithLogger(log)))

	srv := &http.Server{
		Addr:              s.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info("serving", "addr", s.Addr, "carousel", c.Name(), "instance", c.ID())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}
