package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"volumelockr/internal/adapter/primary/web"
	"volumelockr/internal/config"
	"volumelockr/internal/domain"
	"volumelockr/internal/logging"
	"volumelockr/internal/usecase"
)

var (
	cfgPath   string
	verbosity int
	cfg       config.Config

	// local is set while the interactive shell hosts its own panel.
	local usecase.VolumeUseCase
)

// NewRootCmd creates the root CLI command.
// This is the primary adapter that translates CLI inputs to use case calls.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "volumelockr",
		Short:        "Keep audio stream volumes inside locked ranges",
		Long:         "Lock registry + enforcement loop + Web UI/CLI for per-stream volume locks",
		SilenceUsage: true,
	}

	d := config.DefaultConfig()
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "", "config file (default "+config.Dir()+"/config.yaml)")
	pf.CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v, -vv, ... up to 4)")
	pf.String("addr", d.Addr, "HTTP address to serve on or to reach the daemon at")
	pf.String("backend", d.Backend, "audio backend (memory|applescript)")
	pf.Duration("interval", d.Interval, "enforcement interval")
	pf.Bool("notifications", d.Notifications, "show a persistent notification while locks are enforced")
	pf.String("preferences", d.Preferences, "preferences file")
	pf.String("log-level", d.LogLevel, "log level (error|warn|info|debug|trace)")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		v, err := config.New(cfgPath)
		if err != nil {
			return err
		}
		if err := config.BindFlags(v, cmd.Flags()); err != nil {
			return err
		}
		if cfg, err = config.Load(v); err != nil {
			return err
		}
		if verbosity > 0 {
			logging.SetVerbosity(verbosity)
			return nil
		}
		_, count, err := logging.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logging.SetVerbosity(count)
		return nil
	}

	cmd.AddCommand(
		newServeCmd(),
		newStatusCmd(),
		newLockCmd(),
		newUnlockCmd(),
		newSetCmd(),
		newModeCmd(),
		newProtectCmd(),
		newShellCmd(),
	)

	return cmd
}

// useCase returns the shell's in-process panel, or a client for the daemon.
func useCase() usecase.VolumeUseCase {
	if local != nil {
		return local
	}
	return web.NewClient(cfg.Addr)
}

func newServeCmd() *cobra.Command {
	var headless bool
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"daemon"},
		Short:   "Run the enforcer with the Web UI and REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if headless {
				logging.Infof("enforcer started without HTTP (backend=%s)", cfg.Backend)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "volumelockr running at http://%s\n", cfg.Addr)
				logging.Infof("Web UI: http://%s (backend=%s)", cfg.Addr, cfg.Backend)
			}
			err = a.run(ctx, !headless)
			fmt.Fprintln(cmd.OutOrStdout(), "shutting down...")
			return err
		},
	}
	cmd.Flags().BoolVar(&headless, "headless", false, "do not start the HTTP server")
	return cmd
}

func newStatusCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show every stream, its lock and the enforcer state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := useCase().Status()
			if err != nil {
				return err
			}
			if asJSON {
				out, err := json.MarshalIndent(web.NewStatusView(st), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}
			renderStatus(cmd.OutOrStdout(), st)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func newLockCmd() *cobra.Command {
	var (
		lower, upper int
		from, to     float64
	)
	cmd := &cobra.Command{
		Use:   "lock <stream>",
		Short: "Lock a stream to [lower, upper] or to a fraction range of its max",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stream, err := domain.ParseStream(args[0])
			if err != nil {
				return err
			}
			f := cmd.Flags()
			switch {
			case f.Changed("lower") || f.Changed("upper"):
				if !f.Changed("lower") || !f.Changed("upper") {
					return errors.New("--lower and --upper must be given together")
				}
				err = useCase().Lock(stream, lower, upper)
			case f.Changed("from") || f.Changed("to"):
				err = useCase().LockFraction(stream, from, to)
			default:
				return errors.New("give --lower/--upper or --from/--to")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "locked %s\n", stream)
			return nil
		},
	}
	cmd.Flags().IntVar(&lower, "lower", 0, "lowest allowed volume")
	cmd.Flags().IntVar(&upper, "upper", 0, "highest allowed volume (clamped to the stream max)")
	cmd.Flags().Float64Var(&from, "from", 0, "lower bound as a fraction of the max (0-1)")
	cmd.Flags().Float64Var(&to, "to", 1, "upper bound as a fraction of the max (0-1)")
	cmd.MarkFlagsMutuallyExclusive("lower", "from")
	cmd.MarkFlagsMutuallyExclusive("upper", "to")
	return cmd
}

func newUnlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlock <stream>",
		Short: "Release the lock on a stream",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stream, err := domain.ParseStream(args[0])
			if err != nil {
				return err
			}
			if err := useCase().Unlock(stream); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "unlocked %s\n", stream)
			return nil
		},
	}
}

func newSetCmd() *cobra.Command {
	var value, lower, upper int
	cmd := &cobra.Command{
		Use:   "set <stream>",
		Short: "Set a stream volume, or clamp it into a range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stream, err := domain.ParseStream(args[0])
			if err != nil {
				return err
			}
			f := cmd.Flags()
			var v domain.Volume
			switch {
			case f.Changed("value"):
				v, err = useCase().SetVolume(stream, value)
			case f.Changed("lower") && f.Changed("upper"):
				v, err = useCase().AdjustRange(stream, lower, upper)
			default:
				return errors.New("give --value or --lower and --upper")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %d/%d\n", v.Stream, v.Value, v.Max)
			return nil
		},
	}
	cmd.Flags().IntVar(&value, "value", 0, "volume to set")
	cmd.Flags().IntVar(&lower, "lower", 0, "range lower bound")
	cmd.Flags().IntVar(&upper, "upper", 0, "range upper bound")
	cmd.MarkFlagsMutuallyExclusive("value", "lower")
	cmd.MarkFlagsMutuallyExclusive("value", "upper")
	return cmd
}

func newModeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mode [silent|vibrate|normal]",
		Short: "Show or change the ringer mode",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := useCase()
			if len(args) == 1 {
				mode, err := domain.ParseMode(args[0])
				if err != nil {
					return err
				}
				if err := uc.SetMode(mode); err != nil {
					return err
				}
			}
			st, err := uc.Status()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "mode: %s\n", st.Mode)
			return nil
		},
	}
}

func newProtectCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "protect [on|off]",
		Short:     "Show or toggle password protection of the controls",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"on", "off"},
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := useCase()
			if len(args) == 1 {
				var on bool
				switch args[0] {
				case "on", "true":
					on = true
				case "off", "false":
				default:
					return fmt.Errorf("want on or off, got %q", args[0])
				}
				if err := uc.SetProtected(on); err != nil {
					return err
				}
			}
			st, err := uc.Status()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "protected: %s\n", onOff(st.Protected))
			return nil
		},
	}
}
