// Command hsmdemo loads a YAML chart definition, delivers a scripted
// sequence of events, and reports the settled state after each delivery.
// With --watch it keeps running and replays the script whenever the chart
// file changes on disk.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/statomat/hsmx"
	"github.com/statomat/hsmx/chart"
	"github.com/statomat/hsmx/internal/cliconfig"
	hsmlog "github.com/statomat/hsmx/pkg/log"
)

const longHelp = `
hsmdemo exercises a hsmx state machine described in a YAML chart.

Events are given as a comma-separated script; each entry is a bare event
type or type=payload, where payloads true and false are delivered as
booleans (everything else as a string):

  hsmdemo --chart session.yaml --events go,stop=false,cleaned

Charts may reference these built-in callbacks:
  guards   payloadTrue, payloadFalse
  handlers logEvent (usable as handler, default, or transition action)
`

var exampleUsage = strings.TrimSpace(`
  hsmdemo --chart examples/session.yaml --events go,stop=false,cleaned
  hsmdemo --chart session.yaml --watch --log-level trace
`)

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:     "hsmdemo",
		Short:   "Run a scripted event sequence against a hsmx chart",
		Long:    strings.TrimSpace(longHelp),
		Example: exampleUsage,
		RunE: func(cmd *cobra.Command, args []string) error {
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
				cliconfig.ApplyFileConfig(&cfg, fc, changed)
			}
			cliconfig.ApplyEnv(&cfg, changed)

			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.hsmdemo/config.toml)")
	root.Flags().StringVar(&cfg.ChartPath, "chart", cfg.ChartPath, "path to YAML chart definition")
	root.Flags().StringSliceVar(&cfg.Events, "events", cfg.Events, "event script, e.g. go,stop=false,cleaned")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, error)")
	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "watch the chart file and replay on change")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hsmdemo:", err)
		os.Exit(1)
	}
}

func run(cfg cliconfig.Config) error {
	logger := cfg.Logger()
	adapter := hsmlog.NewZerologAdapterWithLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	replay := func() error {
		c, err := chart.Load(cfg.ChartPath, demoRegistry())
		if err != nil {
			return err
		}
		sched, err := c.Scheduler(hsmx.WithLogger(adapter))
		if err != nil {
			return err
		}
		logger.Info().Str("chart", c.Name()).Str("state", sched.Current().Name()).Msg("chart loaded")
		return runScript(ctx, sched, cfg.Events, logger)
	}

	if err := replay(); err != nil {
		return err
	}
	if !cfg.Watch {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(cfg.ChartPath); err != nil {
		return fmt.Errorf("watch %s: %w", cfg.ChartPath, err)
	}
	logger.Info().Str("chart", cfg.ChartPath).Msg("watching for changes")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("received signal, stopping")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			logger.Info().Str("chart", cfg.ChartPath).Msg("chart changed, replaying")
			if err := replay(); err != nil {
				logger.Error().Err(err).Msg("replay failed")
			}
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(werr).Msg("watch error")
		}
	}
}

// runScript delivers each scripted event and reports where the machine
// settled.
func runScript(ctx context.Context, sched *hsmx.Scheduler, script []string, logger zerolog.Logger) error {
	for _, entry := range script {
		evt := parseEvent(entry)
		if err := sched.Deliver(ctx, evt); err != nil {
			return fmt.Errorf("deliver %q: %w", evt.Type, err)
		}
		logger.Info().
			Str("event", string(evt.Type)).
			Str("state", sched.Current().Name()).
			Msg("delivered")
	}
	return nil
}

// parseEvent turns a script entry like "stop=false" into an Event. The
// payload values true and false become booleans; anything else stays a
// string; a bare name carries no payload.
func parseEvent(entry string) hsmx.Event {
	name, value, found := strings.Cut(entry, "=")
	if !found {
		return hsmx.NewEvent(hsmx.EventType(name), nil)
	}
	switch value {
	case "true":
		return hsmx.NewEvent(hsmx.EventType(name), true)
	case "false":
		return hsmx.NewEvent(hsmx.EventType(name), false)
	default:
		return hsmx.NewEvent(hsmx.EventType(name), value)
	}
}

// demoRegistry binds the callback names charts may reference.
func demoRegistry() *chart.Registry {
	payloadTrue := hsmx.Guard(func(evt hsmx.Event) bool {
		b, ok := evt.Payload.(bool)
		return ok && b
	})

	logEvent := hsmx.Handler(func(ctx context.Context, evt hsmx.Event) error {
		hsmlog.FromContext(ctx).Info("event handled",
			hsmlog.String("event", string(evt.Type)),
			hsmlog.Any("payload", evt.Payload))
		return nil
	})

	return chart.NewRegistry().
		RegisterGuard("payloadTrue", payloadTrue).
		RegisterGuard("payloadFalse", hsmx.Not(payloadTrue)).
		RegisterHandler("logEvent", logEvent)
}
