package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"

	"genseq/command"
	"genseq/config"
	"genseq/debug"
	"genseq/metrics"
	"genseq/midi"
	"genseq/sequencer"
	"genseq/theme"
	"genseq/tui"
)

func (a *app) runCmd() *cobra.Command {
	var (
		headless    bool
		output      string
		metricsAddr string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the sequencer and its front panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := *a.cfg
			if cmd.Flags().Changed("headless") {
				cfg.UI.Headless = headless
			}
			if cmd.Flags().Changed("output") {
				cfg.MIDI.Output = output
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			if !cfg.UI.Headless && cfg.Log.File == "" {
				cfg.Log.File = logFile()
				if err := debug.Init(debug.Options{
					Level:      cfg.Log.Level,
					File:       cfg.Log.File,
					MaxSizeMB:  cfg.Log.MaxSizeMB,
					MaxBackups: cfg.Log.MaxBackups,
				}); err != nil {
					return err
				}
			}
			return run(cmd.Context(), &cfg)
		},
	}
	cmd.Flags().BoolVar(&headless, "headless", false, "Play without the front panel until interrupted")
	cmd.Flags().StringVar(&output, "output", "", "MIDI output: serial, port or log")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	return cmd
}

func run(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	out, closeOut, err := openOutput(cfg.MIDI)
	if err != nil {
		return err
	}
	defer closeOut()

	patterns, err := cfg.BuildPatterns()
	if err != nil {
		return err
	}

	opts := []sequencer.Option{
		sequencer.Tempo(uint16(cfg.Sequencer.BPM)),
		sequencer.Patterns(patterns...),
		sequencer.MIDIClock(cfg.MIDI.ClockEnabled),
		sequencer.ClockPulses(cfg.MIDI.ClockPulses),
		sequencer.PollInterval(cfg.Sequencer.PollInterval),
	}
	if cfg.Metrics.Addr != "" {
		m, shutdown := serveMetrics(cfg.Metrics.Addr)
		defer shutdown()
		opts = append(opts, sequencer.WithMetrics(m))
	}
	if !cfg.UI.Headless {
		opts = append(opts, sequencer.WithUpdates())
	}

	commands := command.NewChannel()
	engine := sequencer.New(out, commands, opts...)
	initial := engine.Snapshot()

	engineCtx, cancelEngine := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		engine.Run(engineCtx)
		close(done)
	}()
	defer func() {
		cancelEngine()
		<-done
	}()

	sender := contextSender{ctx: engineCtx, ch: commands}

	if cfg.UI.Headless {
		sender.Send(command.PlayMsg())
		debug.Info("cli", "playing headless, interrupt to stop")
		<-ctx.Done()
		return nil
	}

	th, err := loadTheme(cfg.UI.Palette)
	if err != nil {
		return err
	}
	model := tui.NewModel(sender, engine.Updates(), initial, th)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !(errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return fmt.Errorf("front panel: %w", err)
	}
	return nil
}

// contextSender gives up on a send once the engine is gone instead of
// blocking the front panel forever.
type contextSender struct {
	ctx context.Context
	ch  *command.Channel
}

func (s contextSender) Send(m command.Message) {
	if err := s.ch.SendContext(s.ctx, m); err != nil {
		debug.Warn("cli", "dropped %s: %v", m, err)
	}
}

func openOutput(cfg config.MIDIConfig) (midi.Emitter, func(), error) {
	switch cfg.Output {
	case config.OutputSerial:
		s, err := midi.OpenSerial(cfg.SerialDevice, cfg.Baud)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case config.OutputPort:
		p, err := midi.OpenOutPort(cfg.PortName, midi.DefaultScanTimeout)
		if err != nil {
			return nil, nil, err
		}
		return p, func() { gomidi.CloseDriver() }, nil
	default:
		return &midi.LogEmitter{}, func() {}, nil
	}
}

func loadTheme(palette string) (*theme.Theme, error) {
	if palette == "" {
		return theme.New(nil), nil
	}
	p, err := theme.LoadGPL(palette)
	if err != nil {
		return nil, err
	}
	return theme.New(p), nil
}

func serveMetrics(addr string) (*metrics.Metrics, func()) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		debug.Info("metrics", "serving on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			debug.Error("metrics", "server: %v", err)
		}
	}()

	return m, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}
