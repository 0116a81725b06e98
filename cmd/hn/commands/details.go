package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"hnreader/internal/db"
	"hnreader/internal/format"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

func storyAtArg(cmd *cobra.Command, arg string) (db.ListedStory, error) {
	rank, err := strconv.Atoi(arg)
	if err != nil {
		return db.ListedStory{}, fmt.Errorf("invalid story index %q", arg)
	}
	return getEnv(cmd).state.StoryAt(cmd.Context(), rank)
}

func newDetailsCmd() *cobra.Command {
	var outline bool

	cmd := &cobra.Command{
		Use:     "details INDEX",
		Aliases: []string{"d"},
		Short:   "Print a story with its comments.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := getEnv(cmd)

			listed, err := storyAtArg(cmd, args[0])
			if err != nil {
				return err
			}
			details, err := e.client.StoryDetails(cmd.Context(), listed.StoryID)
			if err != nil {
				return err
			}
			if details == nil {
				return fmt.Errorf("story %d no longer exists", listed.StoryID)
			}

			return e.out.Print(details, func(w io.Writer) error {
				if outline {
					_, err := io.WriteString(w, format.Outline(details.Story.Title, details.Comments))
					return err
				}
				fmt.Fprintln(w, e.text.StoryDetails(details))
				_, err := io.WriteString(w, e.text.Thread(details.Comments))
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&outline, "outline", false, "Print the comment tree as an outline.")
	return cmd
}

var openUrl = browser.OpenURL

func newOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "open INDEX",
		Aliases: []string{"o"},
		Short:   "Open a story in the browser.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			listed, err := storyAtArg(cmd, args[0])
			if err != nil {
				return err
			}
			if listed.Url == "" {
				return errors.New("story has no url")
			}
			return openUrl(listed.Url)
		},
	}
}
