package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/tale/internal/output"
)

var browsePage int
var browseJSON bool

var browseCmd = &cobra.Command{
	Use:     "browse",
	Aliases: []string{"b"},
	Short:   "Browse the story feed",
	GroupID: "reading",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newClient()
		if err != nil {
			return err
		}
		if cfg.Token == "" {
			return fmt.Errorf("not logged in (run 'tale login')")
		}

		page, err := client.ListStories(browsePage)
		if err != nil {
			output.Error("list stories: %v", err)
			return err
		}

		if browseJSON {
			return output.JSON(page)
		}

		if len(page.Stories) == 0 {
			output.Info("No stories yet.")
			return nil
		}
		for i := range page.Stories {
			fmt.Println(output.FormatStoryLine(&page.Stories[i]))
		}
		if page.Pagination.HasMore {
			output.Info("")
			output.Info("More stories: tale browse --page %d", page.Pagination.Page+1)
		}
		return nil
	},
}

func init() {
	browseCmd.Flags().IntVar(&browsePage, "page", 1, "Feed page to show")
	browseCmd.Flags().BoolVar(&browseJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(browseCmd)
}
