package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	endpoint      string
	heartbeat     time.Duration
	readTimeout   time.Duration
	writeTimeout  time.Duration
	notifications int
	maxResets     int
	statusAddr    string
	logLevel      string
	dev           bool
}

func (c *Config) validate() error {
	if c.endpoint == "" {
		return errors.New("--endpoint is required")
	}
	if c.heartbeat <= 0 {
		return fmt.Errorf("invalid heartbeat (must be positive): %s", c.heartbeat)
	}
	if c.readTimeout <= c.heartbeat {
		return fmt.Errorf("read timeout %s must be longer than the heartbeat %s", c.readTimeout, c.heartbeat)
	}
	if c.writeTimeout <= 0 {
		return fmt.Errorf("invalid write timeout (must be positive): %s", c.writeTimeout)
	}
	if c.notifications < 1 {
		return fmt.Errorf("invalid notification capacity (must be at least 1): %d", c.notifications)
	}
	if c.maxResets < 1 {
		return fmt.Errorf("invalid max resets (must be at least 1): %d", c.maxResets)
	}
	return nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("WORDGAME")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "wordgame --endpoint ws://host/path",
		Short:         "Terminal client for the team word-guessing game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.endpoint, "endpoint", "e", "", "game server websocket URL, ws:// or wss:// (env: WORDGAME_ENDPOINT)")
	fs.DurationVar(&cfg.heartbeat, "heartbeat", 20*time.Second, "interval between pings (env: WORDGAME_HEARTBEAT)")
	fs.DurationVar(&cfg.readTimeout, "read-timeout", 60*time.Second, "give up on a silent server after this long (env: WORDGAME_READ_TIMEOUT)")
	fs.DurationVar(&cfg.writeTimeout, "write-timeout", 5*time.Second, "time allowed for one outbound frame (env: WORDGAME_WRITE_TIMEOUT)")
	fs.IntVarP(&cfg.notifications, "notifications", "n", 8, "number of notification lines kept (env: WORDGAME_NOTIFICATIONS)")
	fs.IntVar(&cfg.maxResets, "max-resets", 5, "how many times to rejoin after a new game starts without us (env: WORDGAME_MAX_RESETS)")
	fs.StringVar(&cfg.statusAddr, "status-addr", "", "serve /healthz and /state on this address, disabled when empty (env: WORDGAME_STATUS_ADDR)")
	fs.StringVar(&cfg.logLevel, "log-level", "info", "debug, info, warn or error (env: WORDGAME_LOG_LEVEL)")
	fs.BoolVar(&cfg.dev, "dev", false, "human-readable development logging (env: WORDGAME_DEV)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("wordgame v{{.Version}}\n")

	cmd.SilenceUsage = true

	return cmd
}
