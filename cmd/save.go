package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/tale/internal/output"
)

var saveCmd = &cobra.Command{
	Use:     "save STORY_ID",
	Short:   "Toggle a story in your reading list",
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

		rec, err := svc.ToggleReadingList(storyID)
		if err != nil {
			output.Error("toggle reading list: %v", err)
			return err
		}

		if rec.InList {
			output.Success("Saved to reading list")
		} else {
			fmt.Println("Removed from reading list")
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Show your reading list",
	GroupID: "reading",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, cfg, err := newClient()
		if err != nil {
			return err
		}
		if cfg.Token == "" {
			return fmt.Errorf("not logged in (run 'tale login')")
		}

		stories, err := client.ReadingList()
		if err != nil {
			output.Error("reading list: %v", err)
			return err
		}

		if len(stories) == 0 {
			output.Info("Reading list is empty.")
			return nil
		}
		for i := range stories {
			fmt.Println(output.FormatStoryLine(&stories[i]))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(listCmd)
}
