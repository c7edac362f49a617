package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/tale/internal/output"
)

var likeCmd = &cobra.Command{
	Use:     "like STORY_ID",
	Short:   "Toggle your like on a story",
	GroupID: "engage",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		storyID := args[0]

		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		if _, err := svc.LoadStory(storyID); err != nil {
			output.Error("load story: %v", err)
			return err
		}

		rec, err := svc.ToggleLike(storyID)
		if err != nil {
			output.Error("toggle like: %v", err)
			return err
		}

		if rec.Liked {
			output.Success("Liked (%d likes)", rec.LikesCount)
		} else {
			fmt.Printf("Unliked (%d likes)\n", rec.LikesCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(likeCmd)
}
