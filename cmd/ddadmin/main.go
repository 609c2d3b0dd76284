// Command ddadmin is the site's admin CLI: sign in, edit content and
// settings, read the contact inbox and the activity log.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alimahjoub5/Due-Diligence-Project/internal/client"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/client/localstore"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/client/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath  string
	flagServer  string
	flagState   string
	flagTimeout string
	jsonOutput  bool
	verbose     bool

	cfg    Config
	logger = zap.NewNop()
	store  *localstore.Store
	api    *client.Client
	gate   *session.Gate
)

var rootCmd = &cobra.Command{
	Use:           "ddadmin",
	Short:         "Admin client for the due-diligence site",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			l, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			logger = l
		}

		var err error
		cfg, err = resolveConfig(configPath, overrides{
			ServerURL: flagServer,
			StateDir:  flagState,
			Timeout:   flagTimeout,
		})
		if err != nil {
			return err
		}
		logger.Debug("config resolved",
			zap.String("server_url", cfg.ServerURL),
			zap.String("state_dir", cfg.StateDir),
			zap.Duration("timeout", cfg.Timeout.Duration))

		store, err = localstore.Open(cfg.StateDir)
		if err != nil {
			return err
		}
		api = client.New(cfg.ServerURL, client.WithTimeout(cfg.Timeout.Duration))
		gate = session.New(api, store)
		gate.Restore()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "config file (default ~/.config/ddadmin/config.toml)")
	pf.StringVar(&flagServer, "server", "", "server URL (overrides config and DDADMIN_SERVER_URL)")
	pf.StringVar(&flagState, "state-dir", "", "directory for local state")
	pf.StringVar(&flagTimeout, "timeout", "", "request timeout, e.g. 15s")
	pf.BoolVar(&jsonOutput, "json", false, "output as JSON")
	pf.BoolVarP(&verbose, "verbose", "v", false, "log requests and cache decisions to stderr")

	rootCmd.AddGroup(
		&cobra.Group{ID: "session", Title: "Session:"},
		&cobra.Group{ID: "content", Title: "Content:"},
		&cobra.Group{ID: "site", Title: "Site:"},
	)

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(contentCmd, pageCmd, uploadCmd)
	rootCmd.AddCommand(settingsCmd, maintenanceCmd, globalCmd, inboxCmd, auditCmd, overviewCmd)
	rootCmd.AddCommand(contactCmd, testimonialCmd, consentCmd, configCmd, healthCmd)
}

// requireLogin is used as PreRunE on admin commands.
func requireLogin(cmd *cobra.Command, args []string) error {
	return gate.Require()
}

// explain turns well-known errors into actionable messages.
func explain(err error) string {
	var cv *client.ConstraintViolation
	var ce *client.ConflictError
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		return "not signed in: run `ddadmin login`"
	case errors.Is(err, client.ErrUnauthorized):
		return "the server rejected your token: run `ddadmin login` again"
	case errors.Is(err, client.ErrNetwork):
		return fmt.Sprintf("cannot reach %s: %v", cfg.ServerURL, err)
	case errors.As(err, &cv):
		return fmt.Sprintf("%s is already in use", cv.Field)
	case errors.As(err, &ce):
		return "someone else changed this record; fetch it again and retry"
	}
	return err.Error()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", explain(err))
		os.Exit(1)
	}
}
