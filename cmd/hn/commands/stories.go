package commands

import (
	"fmt"
	"io"
	"strings"

	"hnreader/internal/scrapers/hackernews"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func newListCmd(use, alias, short string, list hackernews.StoryList) *cobra.Command {
	var page int
	var asTable bool

	cmd := &cobra.Command{
		Use:     use,
		Aliases: []string{alias},
		Short:   short,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := getEnv(cmd)
			ctx := cmd.Context()

			stories, err := e.client.Stories(ctx, list, page)
			if err != nil {
				return fmt.Errorf("fetch %s stories: %w", list, err)
			}
			err = e.state.RememberStories(ctx, stories)
			if err != nil {
				return err
			}

			return e.out.Print(stories, func(w io.Writer) error {
				if asTable {
					printStoriesTable(w, stories)
					return nil
				}
				for _, s := range stories {
					fmt.Fprintln(w, e.text.Story(s.Rank, s.Story))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number.")
	cmd.Flags().BoolVar(&asTable, "table", false, "Print stories as a table.")
	return cmd
}

func printStoriesTable(w io.Writer, stories []hackernews.RankedStory) {
	t := newTable(w)
	t.AppendHeader(table.Row{"#", "Title", "Site", "Points", "User", "Comments"})
	for _, s := range stories {
		points := ""
		if s.Score != nil {
			points = fmt.Sprint(*s.Score)
		}
		comments := ""
		if s.CommentCount != nil {
			comments = fmt.Sprint(*s.CommentCount)
		}
		t.AppendRow(table.Row{
			s.Rank,
			strings.TrimSpace(s.Title),
			s.UrlDisplayed,
			points,
			s.User,
			comments,
		})
	}
	t.Render()
}
