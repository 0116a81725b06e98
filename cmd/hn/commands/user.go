package commands

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	var asTable bool

	cmd := &cobra.Command{
		Use:     "user NAME",
		Aliases: []string{"u"},
		Short:   "Print a user's profile.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := getEnv(cmd)

			user, err := e.client.UserDetails(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("user %q not found", args[0])
			}

			return e.out.Print(user, func(w io.Writer) error {
				if !asTable {
					fmt.Fprintln(w, e.text.User(*user))
					return nil
				}
				t := newTable(w)
				t.AppendRows([]table.Row{
					{"user", user.Id},
					{"created", user.Created.Format("2-Jan-2006")},
					{"karma", user.Karma},
					{"about", e.text.Text(user.About, 0)},
				})
				t.Render()
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asTable, "table", false, "Print the profile as a table.")
	return cmd
}
