// Command ledshield runs the LED shield program against a virtual shield
// drawn in the terminal.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/librescoot/ledshield"
	"github.com/librescoot/ledshield/config"
	"github.com/librescoot/ledshield/internal/app"
	"github.com/librescoot/ledshield/internal/buzzer"
	"github.com/librescoot/ledshield/internal/terminal"
	"github.com/librescoot/ledshield/shield"
)

var (
	configPath = flag.String("config", "ledshield.toml", "path to the TOML config file")
	logPath    = flag.String("log", "", "write logs to this file (default: discard)")
	logLevel   = flag.String("level", "", "log level override: debug, info, warn, error")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ledshield: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	logger, closeLog, err := newLogger(cfg.Log.Level, *logPath)
	if err != nil {
		return err
	}
	defer closeLog()
	ledshield.Logger = logger

	term, err := terminal.NewScreen(layout(cfg))
	if err != nil {
		return err
	}
	if err := term.Start(); err != nil {
		return err
	}
	defer term.Stop()

	click := buzzer.Silent()
	if cfg.Buzzer {
		if click, err = buzzer.New(); err != nil {
			logger.Warn("buzzer unavailable", "error", err)
		}
	}

	uart := &shield.UART{}
	prog, err := app.New(cfg, app.Hardware{
		Pins:  term,
		Clock: shield.NewSystemClock(),
		UART:  uart,
	}, app.WithLogger(logger), app.WithClicker(click))
	if err != nil {
		return fmt.Errorf("building program: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("shield started", "tick", cfg.Tick.Std(), "leds", len(cfg.LEDs), "keys", len(cfg.Keys))
	return loop(ctx, cfg.Tick.Std(), term, uart, prog, logger)
}

func loop(ctx context.Context, tick time.Duration, term *terminal.Shield, uart *shield.UART, prog *app.Program, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-term.Done():
			logger.Info("quit requested")
			cancel()
		case <-ctx.Done():
		}
	}()

	var serialErr error
	err := ledshield.RunFunc(ctx, tick, func() {
		if err := term.Drain(uart); err != nil {
			serialErr = fmt.Errorf("reading serial: %w", err)
			cancel()
			return
		}
		prog.Step()
		term.Render(prog.Status())
	})
	if serialErr != nil {
		return serialErr
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func layout(cfg config.Config) terminal.Layout {
	l := terminal.Layout{Pot: shield.Pin(cfg.Pot.Pin)}
	for _, k := range cfg.Keys {
		l.Keys = append(l.Keys, shield.Pin(k.Pin))
	}
	for _, led := range cfg.LEDs {
		l.LEDs = append(l.LEDs, terminal.LEDView{Pin: shield.Pin(led.Pin), Color: led.Color})
	}
	return l
}

// newLogger builds a text logger. The terminal owns stdout and stderr, so
// logs go to a file or nowhere.
func newLogger(level, path string) (*slog.Logger, func(), error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = io.Discard
	closeFn := func() {}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), closeFn, nil
}
