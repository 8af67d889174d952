// Package cli implements the nutritrack command line: the server entrypoint
// and the client commands that log and review meals against a running
// server.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tbourn/nutritrack/internal/client"
	"github.com/tbourn/nutritrack/internal/config"
	"github.com/tbourn/nutritrack/internal/sysutil"
)

// options are the persistent flags shared by the client commands.
type options struct {
	server    string
	tokenFile string
	asJSON    bool
}

// NewRootCommand assembles the command tree.
func NewRootCommand(version string) *cobra.Command {
	o := &options{}
	root := &cobra.Command{
		Use:   "nutritrack",
		Short: "Log meals and track daily macros",
		Long: `nutritrack logs meals, computes their calories and macros, and reports
daily totals against fixed goals.

Run "nutritrack serve" to start the API, then "nutritrack login" to start a
session for the other commands.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.server, "server", "", "API base URL including the base path (default $NUTRITRACK_URL)")
	pf.StringVar(&o.tokenFile, "token-file", "", "where the session token is kept (default $NUTRITRACK_TOKEN_FILE)")
	pf.BoolVar(&o.asJSON, "json", sysutil.IsTruthy(os.Getenv("NUTRITRACK_JSON")), "print raw JSON instead of tables")

	root.AddCommand(
		newServeCmd(version),
		newLoginCmd(o),
		newLogoutCmd(o),
		newAddCmd(o),
		newRmCmd(o),
		newTodayCmd(o),
		newDayCmd(o),
		newMonthCmd(o),
		newLookupCmd(o),
		newIngredientsCmd(o),
	)
	return root
}

// settings resolves the client settings; flags win over the environment.
func (o *options) settings() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	cfg.Client.ServerURL = strings.TrimRight(sysutil.FirstNonEmpty(o.server, cfg.Client.ServerURL), "/")
	cfg.Client.TokenFile = sysutil.FirstNonEmpty(o.tokenFile, cfg.Client.TokenFile)
	return cfg, nil
}

// client builds an API client carrying the saved session token.
func (o *options) client() (*client.Client, config.Config, error) {
	cfg, err := o.settings()
	if err != nil {
		return nil, cfg, err
	}
	tok, err := client.LoadToken(cfg.Client.TokenFile)
	if err != nil {
		return nil, cfg, err
	}
	c, err := client.New(cfg.Client.ServerURL, client.WithToken(tok))
	return c, cfg, err
}

// explain turns an expired session into an actionable message.
func explain(err error) error {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Unauthorized() {
		return fmt.Errorf("%w; run `nutritrack login` again", err)
	}
	return err
}
