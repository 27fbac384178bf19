package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"gnss-monitor/internal/config"
	"gnss-monitor/internal/logging"
	"gnss-monitor/internal/web"
)

// flagValues holds command line overrides. They win over the config file
// only when the flag was given.
type flagValues struct {
	configPath string
	nmea       bool
	satellites bool
	boundsFile string
	replayPath string
	replaySpd  float64
	recordPath string
	webListen  string
	logLevel   string
	logFormat  string
}

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

type runFunc func(ctx context.Context, cfg config.Config, logs *web.LogBuffer) error

func newRootCmd(runner runFunc) *cobra.Command {
	var fv flagValues

	root := &cobra.Command{
		Use:   "gnss-monitor",
		Short: "Watch a GNSS receiver and report fix quality",
		Long: "gnss-monitor polls a GNSS receiver over I2C (u-blox DDC), serial or a capture file,\n" +
			"frames its NMEA output and reports each position fix with checksum, UTC and bounds verdicts.",
		Example: "  gnss-monitor --config /etc/gnss-monitor.yaml -n -s\n" +
			"  gnss-monitor --replay capture.log --log-format json",
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(fv, cmd.Flags())
			if err != nil {
				return err
			}
			logs := web.NewLogBuffer(cfg.Output.Web.LogLines)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runner(ctx, cfg, logs)
		},
	}

	f := root.Flags()
	f.StringVar(&fv.configPath, "config", "", "path to YAML config (defaults apply when empty)")
	f.BoolVarP(&fv.nmea, "nmea", "n", false, "print every sentence with its checksum verdict")
	f.BoolVarP(&fv.satellites, "satellites", "s", false, "print the satellite table")
	f.StringVar(&fv.boundsFile, "bounds", "", "receiver bounds file (key = value), watched for changes")
	f.StringVar(&fv.replayPath, "replay", "", "play back a capture file instead of opening a receiver")
	f.Float64Var(&fv.replaySpd, "replay-speed", 1, "capture playback speed factor")
	f.StringVar(&fv.recordPath, "record", "", "append every receiver poll to a capture file")
	f.StringVar(&fv.webListen, "web", "", "serve the status API on this address")
	f.StringVar(&fv.logLevel, "log-level", "", "debug, info, warn or error")
	f.StringVar(&fv.logFormat, "log-format", "", "console or json")
	return root
}

// resolveConfig loads the config file, then applies flags that were set.
func resolveConfig(fv flagValues, flags *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if fv.configPath != "" {
		c, err := config.Load(fv.configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		cfg = c
	}

	changed := map[string]bool{}
	flags.Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	if changed["nmea"] {
		cfg.Output.PrintNMEA = fv.nmea
	}
	if changed["satellites"] {
		cfg.Output.PrintSatellites = fv.satellites
	}
	if changed["bounds"] {
		cfg.BoundsFile = fv.boundsFile
	}
	if changed["replay"] {
		cfg.Receiver.Kind = "replay"
		cfg.Receiver.Replay.Path = fv.replayPath
		cfg.Receiver.TxReady.Enable = false
	}
	if changed["replay-speed"] {
		cfg.Receiver.Replay.Speed = fv.replaySpd
	}
	if changed["record"] {
		cfg.Output.Record.Enable = fv.recordPath != ""
		cfg.Output.Record.Path = fv.recordPath
	}
	if changed["web"] {
		cfg.Output.Web.Enable = fv.webListen != ""
		cfg.Output.Web.Listen = fv.webListen
	}
	if changed["log-level"] {
		cfg.Log.Level = fv.logLevel
	}
	if changed["log-format"] {
		cfg.Log.Format = fv.logFormat
	}

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func runMain(ctx context.Context, cfg config.Config, logs *web.LogBuffer) error {
	log, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Tee:    logs,
	})
	if err != nil {
		return err
	}
	return run(ctx, cfg, log, logs)
}

func main() {
	if err := newRootCmd(runMain).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "gnss-monitor:", err)
		os.Exit(1)
	}
}
