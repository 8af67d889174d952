package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newLookupCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup <query>",
		Short: "Look up nutrition for free text, e.g. \"200g chicken and 1 cup rice\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := o.client()
			if err != nil {
				return err
			}
			res, err := c.Lookup(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return explain(err)
			}
			if o.asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			printLookup(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func newIngredientsCmd(o *options) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "ingredients [name]",
		Short: "List the built-in ingredient table (per 100 g), or the rows closest to name",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := o.client()
			if err != nil {
				return err
			}
			name := strings.Join(args, " ")
			rows, err := c.Ingredients(cmd.Context(), name, limit)
			if err != nil {
				return explain(err)
			}
			if o.asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}
			if name != "" && len(rows) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No ingredient resembles %q.\n", name)
				return nil
			}
			printIngredients(cmd.OutOrStdout(), rows)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 3, "how many matches to show when a name is given")
	return cmd
}
