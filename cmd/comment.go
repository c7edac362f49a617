package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/marcus/tale/internal/output"
)

var commentParent string

var commentCmd = &cobra.Command{
	Use:     "comment",
	Aliases: []string{"c"},
	Short:   "Comment on stories",
	GroupID: "engage",
}

var commentAddCmd = &cobra.Command{
	Use:   "add STORY_ID [text]",
	Short: "Post a comment (or a reply with --to)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		storyID := args[0]
		var content string
		if len(args) > 1 {
			content = args[1]
		}

		if content == "" {
			if err := composeComment(&content); err != nil {
				return err
			}
		}

		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		comment, err := svc.AddComment(storyID, content, commentParent)
		if err != nil {
			output.Error("post comment: %v", err)
			return err
		}

		if comment.IsReply() {
			output.Success("Replied as %s", comment.ID)
		} else {
			output.Success("Commented as %s", comment.ID)
		}
		return nil
	},
}

var commentEditCmd = &cobra.Command{
	Use:   "edit COMMENT_ID [text]",
	Short: "Edit your comment",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		commentID := args[0]
		var content string
		if len(args) > 1 {
			content = args[1]
		}
		if content == "" {
			if err := composeComment(&content); err != nil {
				return err
			}
		}

		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := svc.EditComment(commentID, content); err != nil {
			output.Error("edit comment: %v", err)
			return err
		}
		output.Success("Edited %s", commentID)
		return nil
	},
}

var commentRmCmd = &cobra.Command{
	Use:     "rm COMMENT_ID",
	Aliases: []string{"delete"},
	Short:   "Delete your comment and its replies",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commentID := args[0]

		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := svc.DeleteComment(commentID); err != nil {
			output.Error("delete comment: %v", err)
			return err
		}
		output.Success("Deleted %s", commentID)
		return nil
	},
}

var commentLikeCmd = &cobra.Command{
	Use:   "like COMMENT_ID",
	Short: "Toggle your like on a comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		commentID := args[0]

		svc, cleanup, err := newService()
		if err != nil {
			return err
		}
		defer cleanup()

		liked, err := svc.ToggleCommentLike(commentID)
		if err != nil {
			output.Error("toggle comment like: %v", err)
			return err
		}
		if liked {
			output.Success("Liked %s", commentID)
		} else {
			fmt.Printf("Unliked %s\n", commentID)
		}
		return nil
	},
}

// composeComment opens an editor form when no text was given on the
// command line.
func composeComment(content *string) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewText().
			Title("Comment").
			CharLimit(2000).
			Value(content).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return fmt.Errorf("comment cannot be empty")
				}
				return nil
			}),
	))
	if err := form.Run(); err != nil {
		return fmt.Errorf("compose: %w", err)
	}
	*content = strings.TrimSpace(*content)
	return nil
}

func init() {
	commentAddCmd.Flags().StringVar(&commentParent, "to", "", "Parent comment ID to reply to")
	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentEditCmd)
	commentCmd.AddCommand(commentRmCmd)
	commentCmd.AddCommand(commentLikeCmd)
	rootCmd.AddCommand(commentCmd)
}
