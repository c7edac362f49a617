package models

// IntentKind identifies a mutation intent.
type IntentKind string

const (
	IntentToggleLike        IntentKind = "toggle_like"
	IntentToggleList        IntentKind = "toggle_list"
	IntentCreateComment     IntentKind = "create_comment"
	IntentEditComment       IntentKind = "edit_comment"
	IntentDeleteComment     IntentKind = "delete_comment"
	IntentToggleCommentLike IntentKind = "toggle_comment_like"
)

// Intent is a transient mutation request dispatched by a UI layer. It carries
// enough information for the optimistic pipeline to compute its own inverse.
type Intent struct {
	Kind      IntentKind
	StoryID   string
	CommentID string
	ParentID  string
	Content   string
}

// ToggleLike builds a like-toggle intent for a story.
func ToggleLike(storyID string) Intent {
	return Intent{Kind: IntentToggleLike, StoryID: storyID}
}

// ToggleList builds a reading-list-toggle intent for a story.
func ToggleList(storyID string) Intent {
	return Intent{Kind: IntentToggleList, StoryID: storyID}
}
