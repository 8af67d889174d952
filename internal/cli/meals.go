package cli

import (
	"bufio"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tbourn/nutritrack/internal/client"
	"github.com/tbourn/nutritrack/internal/nutrition"
)

func newLoginCmd(o *options) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Start a session with the shared password",
		Long: `Exchanges the shared password for a session token and saves it for the
other commands. The password is taken from --password, then
$NUTRITRACK_PASSWORD, then the first line of standard input.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, cfg, err := o.client()
			if err != nil {
				return err
			}
			pw := password
			if pw == "" {
				pw = os.Getenv("NUTRITRACK_PASSWORD")
			}
			if pw == "" {
				fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read password: %w", err)
				}
				pw = strings.TrimRight(line, "\r\n")
			}

			tok, err := c.Login(cmd.Context(), pw)
			if err != nil {
				return err
			}
			if err := client.SaveToken(cfg.Client.TokenFile, tok); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged in.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&password, "password", "p", "", "shared password")
	return cmd
}

func newLogoutCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := o.settings()
			if err != nil {
				return err
			}
			if err := client.ClearToken(cfg.Client.TokenFile); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newAddCmd(o *options) *cobra.Command {
	var at string
	cmd := &cobra.Command{
		Use:   "add <ingredient> <grams> [<ingredient> <grams>...]",
		Short: "Log a meal",
		Long: `Logs one meal made of ingredient/grams pairs. Quote multi-word
ingredients. A trailing "g" on the quantity is accepted.

  nutritrack add "chicken breast" 200g rice 150`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) == 0 || len(args)%2 != 0 {
				return errors.New("expected ingredient/grams pairs")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := parseItems(args)
			if err != nil {
				return err
			}
			c, cfg, err := o.client()
			if err != nil {
				return err
			}
			var when *time.Time
			if at != "" {
				t, err := parseWhen(at, cfg.Location)
				if err != nil {
					return err
				}
				when = &t
			}

			s := client.NewSession(c, nutrition.DefaultTable(), cfg.Location)
			if err := s.Sync(cmd.Context()); err != nil {
				return explain(err)
			}
			e, err := s.Add(cmd.Context(), items, when)
			if err != nil {
				return withSuggestions(explain(err), items)
			}
			if o.asJSON {
				return writeJSON(cmd.OutOrStdout(), e)
			}
			printLogged(cmd.OutOrStdout(), *e, s.Today(), cfg.Location)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", `when the meal was eaten: RFC 3339 or "YYYY-MM-DD HH:MM" local time`)
	return cmd
}

func newRmCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a logged meal",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := o.client()
			if err != nil {
				return err
			}
			s := client.NewSession(c, nutrition.DefaultTable(), cfg.Location)
			if err := s.Sync(cmd.Context()); err != nil {
				return explain(err)
			}
			_, known := s.History().Find(args[0])
			if err := s.Delete(cmd.Context(), args[0]); err != nil {
				return explain(err)
			}
			if !known {
				fmt.Fprintf(cmd.OutOrStdout(), "No meal %s; nothing to delete.\n", args[0])
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", args[0])
			return nil
		},
	}
}

func newTodayCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's meals and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, cfg, err := o.client()
			if err != nil {
				return err
			}
			r, err := c.Today(cmd.Context())
			if err != nil {
				return explain(err)
			}
			if o.asJSON {
				return writeJSON(cmd.OutOrStdout(), r)
			}
			printDay(cmd.OutOrStdout(), r, cfg.Location)
			return nil
		},
	}
}

func newDayCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "day <YYYY-MM-DD>",
		Short: "Show one day's meals and totals",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := o.client()
			if err != nil {
				return err
			}
			r, err := c.Day(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			if o.asJSON {
				return writeJSON(cmd.OutOrStdout(), r)
			}
			printDay(cmd.OutOrStdout(), r, cfg.Location)
			return nil
		},
	}
}

func newMonthCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "month [YYYY-MM]",
		Aliases: []string{"calendar"},
		Short:   "Show daily totals for a month",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := o.client()
			if err != nil {
				return err
			}
			month := ""
			if len(args) == 1 {
				month = args[0]
			}
			r, err := c.Month(cmd.Context(), month)
			if err != nil {
				return explain(err)
			}
			if o.asJSON {
				return writeJSON(cmd.OutOrStdout(), r)
			}
			printMonth(cmd.OutOrStdout(), r)
			return nil
		},
	}
}

// withSuggestions appends "did you mean" hints for unknown ingredients when
// the server could not resolve any item.
func withSuggestions(err error, items []nutrition.MealItem) error {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		return err
	}
	tbl := nutrition.DefaultTable()
	var hints []string
	for _, it := range items {
		if _, ok := tbl.Resolve(it.Ingredient); ok {
			continue
		}
		names := make([]string, 0, 3)
		for _, s := range tbl.Suggest(it.Ingredient, 3) {
			names = append(names, s.Key)
		}
		if len(names) > 0 {
			hints = append(hints, fmt.Sprintf("%q: did you mean %s?", it.Ingredient, strings.Join(names, ", ")))
		}
	}
	if len(hints) == 0 {
		return err
	}
	return fmt.Errorf("%w\n%s", err, strings.Join(hints, "\n"))
}

// parseItems reads ingredient/grams pairs.
func parseItems(args []string) ([]nutrition.MealItem, error) {
	items := make([]nutrition.MealItem, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		raw := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(args[i+1])), "g")
		q, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("quantity for %q: %q is not a number of grams", args[i], args[i+1])
		}
		it := nutrition.MealItem{Ingredient: strings.TrimSpace(args[i]), Quantity: q}
		if err := it.Validate(); err != nil {
			return nil, fmt.Errorf("%q: %w", args[i], err)
		}
		items = append(items, it)
	}
	return items, nil
}

func parseWhen(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf(`--at: want RFC 3339 or "YYYY-MM-DD HH:MM", got %q`, s)
	}
	return t, nil
}
