package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/bbobridge/internal/cliconfig"
	"github.com/bft-labs/bbobridge/pkg/bbobridge"
	pkglog "github.com/bft-labs/bbobridge/pkg/log"
	"github.com/bft-labs/bbobridge/plugins/configwatcher"
)

const helpBanner = `
 ███████████  ███████████     ███████    ███████████  ███████████  █████ ██████████     █████████  ██████████
░░███░░░░░███░░███░░░░░███  ███░░░░░███ ░░███░░░░░███░░███░░░░░███░░███ ░░███░░░░███   ███░░░░░███░░███░░░░░█
 ░███    ░███ ░███    ░███ ███     ░░███ ░███    ░███ ░███    ░███ ░███  ░███   ░░███ ░███    ░░░  ░███  █ ░
 ░██████████  ░██████████ ░███      ░███ ░██████████  ░██████████  ░███  ░███    ░███ ░███         ░██████
 ░███░░░░░███ ░███░░░░░███░███      ░███ ░███░░░░░███ ░███░░██░███ ░███  ░███    ░███ ░███    █████░███░░█
 ░███    ░███ ░███    ░███░░███     ███  ░███    ░███ ░███ ░░██░░█ ░███  ░███    ███  ░░███  ░░███ ░███ ░   █
 ███████████  ███████████  ░░░███████░   ███████████  █████ ░░████ █████ ██████████    ░░█████████ ██████████
░░░░░░░░░░░  ░░░░░░░░░░░     ░░░░░░░    ░░░░░░░░░░░  ░░░░░   ░░░░ ░░░░░ ░░░░░░░░░░      ░░░░░░░░░ ░░░░░░░░░░
`

const helpDescription = `
Bridge a best-bid-and-offer quote feed onto a framed byte stream.

Highlights:
  - Fixed-depth crossing queue between feed and wire, never blocks the feed.
  - Six-frame wire format with an end-of-record marker and stage timestamps.
  - Runtime enable and symbol-filter registers, reloadable from a control file.
  - Configure via file, env (BBOBRIDGE_*), or flags; status snapshot on disk.
`

var longHelp = strings.TrimSpace(helpBanner) + "\n\n" + strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  bbobridge --feed-url wss://feed.example.com/bbo --sink-addr collector:9100
  bbobridge --source replay --replay-path capture.bin --out frames.bin --once
  bbobridge decode frames.bin --archive quotes.db
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	log := cliconfig.Logger("")

	root := &cobra.Command{
		Use:     "bbobridge",
		Short:   "Bridge a best-bid-and-offer quote feed onto a framed byte stream",
		Long:    longHelp,
		Example: exampleUsage,
		Version: fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Load config file first (default $HOME/.bbobridge/config.toml),
			// then env, then flag overrides.
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cliconfig.LoadSymbols(&cfg); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			if cfg.LogFile != "" {
				log = cliconfig.Logger(cfg.LogFile)
			}
			log.Info().Interface("config", cfg).Msg("configuration")

			libCfg := bbobridge.Config{
				Source:              cfg.Source,
				FeedURL:             cfg.FeedURL,
				ReplayPath:          cfg.ReplayPath,
				Symbols:             cfg.Symbols,
				SinkAddr:            cfg.SinkAddr,
				OutPath:             cfg.OutPath,
				StateDir:            cfg.StateDir,
				QueueCapacity:       cfg.QueueCapacity,
				AlmostFullThreshold: cfg.AlmostFullThreshold,
				PollInterval:        cfg.PollInterval,
				StatusInterval:      cfg.StatusInterval,
				DialTimeout:         cfg.DialTimeout,
				ClockPeriodNs:       uint32(cfg.ClockPeriodNs),
				Enabled:             cfg.Enabled,
				Once:                cfg.Once,
			}

			adapter := pkglog.NewZerologAdapterWithLogger(log)

			b, err := bbobridge.New(libCfg,
				bbobridge.WithLogger(adapter),
				configwatcher.WithDefaultConfigWatcher(),
			)
			if err != nil {
				return fmt.Errorf("create bridge: %w", err)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			if err := b.Start(ctx); err != nil {
				return fmt.Errorf("start bridge: %w", err)
			}

			doneCh := make(chan struct{})
			go func() {
				ticker := time.NewTicker(100 * time.Millisecond)
				defer ticker.Stop()
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						s := b.Status()
						if s == bbobridge.StateStopped || s == bbobridge.StateCrashed {
							close(doneCh)
							return
						}
					}
				}
			}()

			select {
			case <-sigCh:
				log.Info().Msg("received signal, stopping...")
				if err := b.Stop(); err != nil {
					return fmt.Errorf("stop bridge: %w", err)
				}
			case <-doneCh:
				if b.Status() == bbobridge.StateCrashed {
					log.Error().Msg("bridge crashed")
					return fmt.Errorf("bridge crashed")
				}
			}

			return nil
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.bbobridge/config.toml)")
	root.Flags().StringVar(&cfg.Source, "source", cfg.Source, "record source: ws, replay or synth")
	root.Flags().StringVar(&cfg.FeedURL, "feed-url", cfg.FeedURL, "websocket quote feed URL")
	root.Flags().StringVar(&cfg.ReplayPath, "replay-path", cfg.ReplayPath, "packet capture to replay (48-byte packets)")
	root.Flags().StringSliceVar(&cfg.Symbols, "symbols", cfg.Symbols, "symbols to accept (empty accepts all)")
	root.Flags().StringVar(&cfg.SymbolsFile, "symbols-file", cfg.SymbolsFile, "YAML file listing symbols to accept")

	root.Flags().StringVar(&cfg.SinkAddr, "sink-addr", cfg.SinkAddr, "TCP address to stream frames to")
	root.Flags().StringVar(&cfg.OutPath, "out", cfg.OutPath, "file to stream frames to")

	root.Flags().IntVar(&cfg.QueueCapacity, "queue-capacity", cfg.QueueCapacity, "crossing queue depth (power of two)")
	root.Flags().IntVar(&cfg.AlmostFullThreshold, "almost-full", cfg.AlmostFullThreshold, "occupancy that asserts the almost-full warning (default capacity-2)")
	if err := root.Flags().MarkHidden("almost-full"); err != nil {
		log.Info().Err(err).Msg("failed to hide almost-full flag")
	}

	root.Flags().DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "poll interval when the queue is idle")
	root.Flags().DurationVar(&cfg.StatusInterval, "status-interval", cfg.StatusInterval, "status snapshot persistence interval")
	root.Flags().DurationVar(&cfg.DialTimeout, "dial-timeout", cfg.DialTimeout, "feed and sink dial timeout")
	root.Flags().IntVar(&cfg.ClockPeriodNs, "clock-period-ns", cfg.ClockPeriodNs, "cycle clock period in nanoseconds")
	if err := root.Flags().MarkHidden("clock-period-ns"); err != nil {
		log.Info().Err(err).Msg("failed to hide clock-period-ns flag")
	}

	root.Flags().StringVar(&cfg.StateDir, "state-dir", cfg.StateDir, "state directory for the status snapshot (defaults to $HOME/.bbobridge)")
	root.Flags().StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "also log to this file with rotation")
	root.Flags().BoolVar(&cfg.Enabled, "enabled", cfg.Enabled, "initial value of the enable register")
	root.Flags().BoolVar(&cfg.Once, "once", cfg.Once, "drain the source and exit")

	root.AddCommand(newDecodeCommand(&log))

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("bbobridge")
		os.Exit(1)
	}
}
