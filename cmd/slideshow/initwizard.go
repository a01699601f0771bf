package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/germanamz/slideshow/pkg/engine"
)

// wizardAnswers are the choices made in the init form.
type wizardAnswers struct {
	Name      string
	Animation string
	Direction string
	Infinite  bool
	Random    bool
	Slides    string // number of starter slides, as typed
	Speed     string // milliseconds, as typed
}

func defaultAnswers() wizardAnswers {
	return wizardAnswers{
		Name:      "main",
		Animation: "slide",
		Direction: "HORIZONTAL",
		Infinite:  true,
		Slides:    "3",
		Speed:     "300",
	}
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: slideshow init [flags]\n\nWrite a starter deck configuration.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	path := fs.String("config", "slideshow.yaml", "path of the configuration to write")
	force := fs.Bool("force", false, "overwrite an existing configuration")
	defaults := fs.Bool("defaults", false, "skip the form and use default answers")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := os.Stat(*path); err == nil && !*force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", *path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config file: %w", err)
	}

	answers := defaultAnswers()
	if !*defaults {
		if err := runWizard(&answers); err != nil {
			return err
		}
	}

	data, err := marshalStarterConfig(answers)
	if err != nil {
		return err
	}

	if err := os.WriteFile(*path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Printf("Wrote %s\n", *path)
	return nil
}

func runWizard(a *wizardAnswers) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Carousel name").Value(&a.Name).Validate(notEmpty),
			huh.NewSelect[string]().
				Title("Animation").
				Options(
					huh.NewOption("Slide", "slide"),
					huh.NewOption("Fade", "fade"),
					huh.NewOption("Zoom", "zoom"),
					huh.NewOption("3D", "3d"),
				).
				Value(&a.Animation),
			huh.NewSelect[string]().
				Title("Direction").
				Options(
					huh.NewOption("Horizontal", "HORIZONTAL"),
					huh.NewOption("Horizontal, reversed", "HORIZONTAL_REVERSE"),
					huh.NewOption("Vertical", "VERTICAL"),
					huh.NewOption("Vertical, reversed", "VERTICAL_REVERSE"),
				).
				Value(&a.Direction),
		),
		huh.NewGroup(
			huh.NewConfirm().Title("Wrap around at the ends?").Value(&a.Infinite),
			huh.NewConfirm().Title("Shuffle slides?").Value(&a.Random),
			huh.NewInput().Title("Number of starter slides").Value(&a.Slides).Validate(positiveInt),
			huh.NewInput().Title("Transition speed (ms)").Value(&a.Speed).Validate(nonNegativeInt),
		),
	).Run()
}

// starterConfig builds the deck the answers describe.
func starterConfig(a wizardAnswers) (engine.Config, error) {
	n, err := strconv.Atoi(a.Slides)
	if err != nil || n <= 0 {
		return engine.Config{}, fmt.Errorf("invalid slide count %q", a.Slides)
	}
	speed, err := strconv.Atoi(a.Speed)
	if err != nil || speed < 0 {
		return engine.Config{}, fmt.Errorf("invalid speed %q", a.Speed)
	}

	slides := make([]engine.SlideConfig, n)
	for i := range slides {
		id := fmt.Sprintf("slide-%d", i+1)
		slides[i] = engine.SlideConfig{
			ID:      id,
			Content: fmt.Sprintf("# Slide %d\n\nEdit `%s` in the configuration.", i+1, id),
		}
	}

	cfg := engine.Config{
		Entry: a.Name,
		Carousels: []engine.CarouselConfig{{
			Name:         a.Name,
			Slides:       slides,
			Animation:    a.Animation,
			Direction:    a.Direction,
			Speed:        speed,
			Infinite:     a.Infinite,
			Random:       a.Random,
			SlidesToLoad: 1,
		}},
	}

	if err := cfg.Validate(); err != nil {
		return engine.Config{}, err
	}
	return cfg, nil
}

func marshalStarterConfig(a wizardAnswers) ([]byte, error) {
	cfg, err := starterConfig(a)
	if err != nil {
		return nil, err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

func notEmpty(s string) error {
	if s == "" {
		return errors.New("required")
	}
	return nil
}

func positiveInt(s string) error {
	if n, err := strconv.Atoi(s); err != nil || n <= 0 {
		return errors.New("must be a positive number")
	}
	return nil
}

func nonNegativeInt(s string) error {
	if n, err := strconv.Atoi(s); err != nil || n < 0 {
		return errors.New("must be zero or a positive number")
	}
	return nil
}
