package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/tale/internal/engage"
	"github.com/marcus/tale/internal/output"
	"github.com/marcus/tale/internal/tui/reader"
)

var readComments bool
var readTUI bool

var readCmd = &cobra.Command{
	Use:     "read STORY_ID",
	Aliases: []string{"r"},
	Short:   "Read a story",
	GroupID: "reading",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storyID := args[0]

		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		if readTUI {
			return reader.Run(svc, storyID)
		}

		story, err := svc.LoadStory(storyID)
		if err != nil {
			output.Error("load story: %v", err)
			return err
		}

		// One view per story per invocation, even with repeated renders.
		ledger := engage.NewViewLedger()
		svc.RecordView(ledger, storyID)

		rendered, err := output.RenderStory(story)
		if err != nil {
			// Fall back to the raw text when the renderer chokes.
			rendered = story.Content
		}
		fmt.Println(rendered)
		fmt.Println(output.FormatEngagement(svc.Engagement(storyID), story.Views))

		if readComments {
			comments, err := svc.LoadComments(storyID, 1)
			if err != nil {
				output.Error("load comments: %v", err)
				return err
			}
			pag := svc.CommentsPagination(storyID)
			output.Info("Comments (%d)", pag.Total)
			for i := range comments {
				fmt.Println(output.FormatComment(&comments[i]))
				fmt.Println()
			}
		}
		return nil
	},
}

func init() {
	readCmd.Flags().BoolVarP(&readComments, "comments", "c", false, "Show the comment thread")
	readCmd.Flags().BoolVar(&readTUI, "tui", false, "Open the interactive reader")
	rootCmd.AddCommand(readCmd)
}
