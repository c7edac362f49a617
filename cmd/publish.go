package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/marcus/tale/internal/output"
)

var publishTitle string
var publishSummary string

var publishCmd = &cobra.Command{
	Use:     "publish FILE",
	Short:   "Publish a markdown file as a story",
	GroupID: "reading",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read file: %w", err)
		}
		content := string(data)
		if strings.TrimSpace(content) == "" {
			return fmt.Errorf("file is empty")
		}

		title := publishTitle
		if title == "" {
			title = titleFromMarkdown(content)
		}
		if title == "" {
			return fmt.Errorf("no title: pass --title or start the file with a # heading")
		}

		client, cfg, err := newClient()
		if err != nil {
			return err
		}
		if cfg.Token == "" {
			return fmt.Errorf("not logged in (run 'tale login')")
		}

		story, err := client.CreateStory(title, publishSummary, content)
		if err != nil {
			output.Error("publish: %v", err)
			return err
		}
		output.Success("Published %s as %s", story.Title, story.ID)
		return nil
	},
}

// titleFromMarkdown returns the first level-one heading, if any.
func titleFromMarkdown(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
	}
	return ""
}

func init() {
	publishCmd.Flags().StringVarP(&publishTitle, "title", "t", "", "Story title (defaults to the first # heading)")
	publishCmd.Flags().StringVarP(&publishSummary, "summary", "s", "", "Short summary shown in the feed")
	rootCmd.AddCommand(publishCmd)
}
