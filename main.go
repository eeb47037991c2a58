package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/beatfall/beatfall/internal/audio"
	"github.com/beatfall/beatfall/internal/chart"
	"github.com/beatfall/beatfall/internal/config"
	"github.com/beatfall/beatfall/internal/game"
	"github.com/beatfall/beatfall/internal/input"
	"github.com/beatfall/beatfall/internal/log"
	"github.com/beatfall/beatfall/internal/render"
	"github.com/beatfall/beatfall/internal/score"
	"github.com/beatfall/beatfall/internal/spectrum"
	"github.com/beatfall/beatfall/internal/theme"
)

var errAborted = errors.New("aborted")

func main() {
	if err := run(); nil != err {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	config.Parse()
	if *config.Countdown < 0 {
		return errors.New("countdown must not be negative")
	}

	logger, closeLog, err := openLogger()
	if nil != err {
		return err
	}
	defer closeLog()

	logger.Infof("loading %v", *config.Audio)
	track, err := audio.Load(*config.Audio)
	if nil != err {
		return fmt.Errorf("unable to load audio: %w", err)
	}
	logger.Infof("decoded %v of audio, %v samples at %v Hz",
		track.Duration().Round(time.Millisecond), len(track.Samples()), track.Rate())

	// Ensure our Default implementations are used as interfaces
	var in input.Input = &input.DefaultInput{}
	if err := in.Open(128); nil != err {
		return fmt.Errorf("unable to open keyboard: %w", err)
	}
	defer in.Close()

	c, err := loadChart(track, in, logger)
	if errors.Is(err, errAborted) {
		logger.Infof("analysis aborted")
		return nil
	}
	if nil != err {
		return err
	}
	logger.Infof("chart ready, %v notes over %v", len(c.Notes), c.Duration.Round(time.Millisecond))

	if "" != *config.ExportChart {
		if err := chart.WriteFile(*config.ExportChart, c); nil != err {
			return fmt.Errorf("unable to export chart: %w", err)
		}
		logger.Infof("chart exported to %v", *config.ExportChart)
		return nil
	}

	var scorer score.Scorer = &score.DefaultScorer{}
	if err := scorer.Init(*config.Database); nil != err {
		return fmt.Errorf("unable to open results database: %w", err)
	}
	defer scorer.Deinit()

	var r render.Renderer = &render.DefaultRenderer{}
	if err := r.Init(); nil != err {
		return fmt.Errorf("unable to initialize terminal: %w", err)
	}
	defer r.Deinit()

	p := &Program{
		Renderer: r,
		Theme:    &theme.DefaultTheme{},
		Input:    in,
		Scorer:   scorer,
		Log:      logger,
		Track:    track,
		Chart:    c,
		Session:  game.NewSession(c, game.NewClock(*config.Countdown, *config.Offset)),
		Spectrum: spectrum.NewAnalyzer(track.CopySamples(), track.Rate()),
	}
	if _, err := p.Run(); nil != err {
		return err
	}
	return nil
}

// openLogger routes diagnostics to the configured file, or to stderr at
// error level when none is given. The game owns the terminal during play,
// so the chatty levels only make sense with a file.
func openLogger() (*log.Logger, func(), error) {
	if "" == *config.LogFile {
		return log.New(os.Stderr, log.LevelError), func() {}, nil
	}
	f, err := os.OpenFile(*config.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if nil != err {
		return nil, nil, fmt.Errorf("unable to open log file: %w", err)
	}
	return log.New(f, log.LevelFromString(*config.LogLevel)), func() { f.Close() }, nil
}

// loadChart reads an exported chart when one was given, otherwise analyzes
// the track. The difficulty and lane flags only apply to analysis; an
// imported chart carries its own.
func loadChart(track *audio.Track, in input.Input, logger *log.Logger) (*chart.Chart, error) {
	if "" != *config.ChartFile {
		c, err := chart.ReadFile(*config.ChartFile)
		if nil != err {
			return nil, fmt.Errorf("unable to load chart: %w", err)
		}
		return c, nil
	}
	return generateChart(track, in, logger)
}

// generateChart runs analysis on a background goroutine so the quit key can
// cancel it. Cancellation is all or nothing; a canceled run never hands back
// a partial chart.
func generateChart(track *audio.Track, in input.Input, logger *log.Logger) (*chart.Chart, error) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	type outcome struct {
		chart *chart.Chart
		err   error
	}
	done := make(chan outcome, 1)
	gen := &chart.Generator{Params: chart.Params{
		Difficulty: *config.Difficulty,
		Lanes:      *config.Lanes,
	}}
	started := time.Now()
	go func() {
		c, err := gen.Generate(ctx, track.Samples(), track.Rate())
		done <- outcome{c, err}
	}()

	poll := time.NewTicker(50 * time.Millisecond)
	defer poll.Stop()
	for {
		select {
		case out := <-done:
			if nil != out.err {
				return nil, fmt.Errorf("unable to generate chart: %w", out.err)
			}
			logger.Infof("analysis took %v", time.Since(started).Round(time.Millisecond))
			return out.chart, nil
		case <-poll.C:
			for _, ev := range in.Poll() {
				if input.KindQuit == ev.Kind {
					cancel()
					<-done
					return nil, errAborted
				}
			}
		}
	}
}
