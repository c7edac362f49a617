package serverdb

import (
	"errors"
	"path/filepath"
	"testing"
)

func setupDB(t *testing.T) *ServerDB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "server.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func seedUserAndStory(t *testing.T, db *ServerDB) (userID, storyID string) {
	t.Helper()
	user, _, err := db.Login("reader@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	story, err := db.CreateStory(user.ID, "The Lighthouse", "a summary", "It was a dark night.")
	if err != nil {
		t.Fatalf("create story: %v", err)
	}
	return user.ID, story.ID
}

func TestLogin_FirstLoginCreatesAccount(t *testing.T) {
	db := setupDB(t)

	user, token, err := db.Login("frieda@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Name != "frieda" {
		t.Fatalf("name: got %q, want derived from email", user.Name)
	}
	if token == "" {
		t.Fatal("empty token")
	}

	got, err := db.UserByToken(token)
	if err != nil {
		t.Fatalf("by token: %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Fatalf("token lookup: got %+v", got)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	db := setupDB(t)
	if _, _, err := db.Login("a@b.c", "right"); err != nil {
		t.Fatalf("signup: %v", err)
	}
	if _, _, err := db.Login("a@b.c", "wrong"); err == nil {
		t.Fatal("expected credential failure")
	}
}

func TestUserByToken_Unknown(t *testing.T) {
	db := setupDB(t)
	user, err := db.UserByToken("tok-bogus")
	if err != nil {
		t.Fatalf("by token: %v", err)
	}
	if user != nil {
		t.Fatalf("unexpected user: %+v", user)
	}
}

func TestToggleLike_RoundTrip(t *testing.T) {
	db := setupDB(t)
	userID, storyID := seedUserAndStory(t, db)

	liked, count, err := db.ToggleLike(storyID, userID)
	if err != nil || !liked || count != 1 {
		t.Fatalf("first toggle: liked=%v count=%d err=%v", liked, count, err)
	}
	liked, count, err = db.ToggleLike(storyID, userID)
	if err != nil || liked || count != 0 {
		t.Fatalf("second toggle: liked=%v count=%d err=%v", liked, count, err)
	}

	if _, _, err := db.ToggleLike("st-bogus", userID); !errors.Is(err, ErrNoStory) {
		t.Fatalf("unknown story: got %v, want ErrNoStory", err)
	}
}

func TestStory_ViewerEngagement(t *testing.T) {
	db := setupDB(t)
	userID, storyID := seedUserAndStory(t, db)
	other, _, _ := db.Login("other@example.com", "pw")

	db.ToggleLike(storyID, other.ID)
	db.ToggleReadingList(storyID, userID)

	story, err := db.Story(storyID, userID)
	if err != nil {
		t.Fatalf("story: %v", err)
	}
	if story.Liked {
		t.Fatal("viewer has not liked the story")
	}
	if story.LikesCount != 1 {
		t.Fatalf("likes count: got %d, want 1", story.LikesCount)
	}
	if !story.InReadingList {
		t.Fatal("viewer saved the story")
	}

	missing, err := db.Story("st-bogus", userID)
	if err != nil || missing != nil {
		t.Fatalf("missing story: got (%v, %v), want (nil, nil)", missing, err)
	}
}

func TestIncrementView(t *testing.T) {
	db := setupDB(t)
	userID, storyID := seedUserAndStory(t, db)

	for i := 0; i < 3; i++ {
		if err := db.IncrementView(storyID); err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
	}
	story, _ := db.Story(storyID, userID)
	if story.Views != 3 {
		t.Fatalf("views: got %d, want 3", story.Views)
	}

	if err := db.IncrementView("st-bogus"); !errors.Is(err, ErrNoStory) {
		t.Fatalf("unknown story: got %v, want ErrNoStory", err)
	}
}

func TestComments_OrderingAndReplies(t *testing.T) {
	db := setupDB(t)
	userID, storyID := seedUserAndStory(t, db)

	a, _ := db.CreateComment(storyID, userID, "first", "")
	b, _ := db.CreateComment(storyID, userID, "second", "")
	c, _ := db.CreateComment(storyID, userID, "third", "")

	r1, err := db.CreateComment(storyID, userID, "reply one", b.ID)
	if err != nil {
		t.Fatalf("reply: %v", err)
	}
	r2, _ := db.CreateComment(storyID, userID, "reply two", b.ID)

	comments, total, err := db.Comments(storyID, 1, 10)
	if err != nil {
		t.Fatalf("comments: %v", err)
	}
	if total != 3 {
		t.Fatalf("total: got %d, want 3 (replies excluded)", total)
	}
	if len(comments) != 3 {
		t.Fatalf("top-level: got %d, want 3", len(comments))
	}
	for i, want := range []string{c.ID, b.ID, a.ID} {
		if comments[i].ID != want {
			t.Fatalf("top-level order at %d: got %s, want %s", i, comments[i].ID, want)
		}
	}

	mid := comments[1]
	if len(mid.Replies) != 2 {
		t.Fatalf("replies: got %d, want 2", len(mid.Replies))
	}
	if mid.Replies[0].ID != r1.ID || mid.Replies[1].ID != r2.ID {
		t.Fatalf("reply order: got [%s %s], want [%s %s]",
			mid.Replies[0].ID, mid.Replies[1].ID, r1.ID, r2.ID)
	}
}

func TestCreateComment_DepthEnforced(t *testing.T) {
	db := setupDB(t)
	userID, storyID := seedUserAndStory(t, db)

	top, _ := db.CreateComment(storyID, userID, "top", "")
	reply, err := db.CreateComment(storyID, userID, "reply", top.ID)
	if err != nil {
		t.Fatalf("reply: %v", err)
	}

	if _, err := db.CreateComment(storyID, userID, "too deep", reply.ID); !errors.Is(err, ErrDepth) {
		t.Fatalf("reply to reply: got %v, want ErrDepth", err)
	}
	if _, err := db.CreateComment(storyID, userID, "orphan", "cm-bogus"); !errors.Is(err, ErrNoComment) {
		t.Fatalf("unknown parent: got %v, want ErrNoComment", err)
	}
}

func TestUpdateComment_Ownership(t *testing.T) {
	db := setupDB(t)
	userID, storyID := seedUserAndStory(t, db)
	other, _, _ := db.Login("other@example.com", "pw")

	c, _ := db.CreateComment(storyID, userID, "mine", "")

	updated, err := db.UpdateComment(c.ID, userID, "edited")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Content != "edited" || !updated.Edited {
		t.Fatalf("updated: %+v", updated)
	}

	if _, err := db.UpdateComment(c.ID, other.ID, "hijack"); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("foreign edit: got %v, want ErrNotOwner", err)
	}
}

func TestDeleteComment_CascadesReplies(t *testing.T) {
	db := setupDB(t)
	userID, storyID := seedUserAndStory(t, db)

	top, _ := db.CreateComment(storyID, userID, "top", "")
	db.CreateComment(storyID, userID, "reply", top.ID)

	if err := db.DeleteComment(top.ID, userID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	comments, total, _ := db.Comments(storyID, 1, 10)
	if total != 0 || len(comments) != 0 {
		t.Fatalf("thread after cascade: %d comments, total %d", len(comments), total)
	}
}

func TestToggleCommentLike(t *testing.T) {
	db := setupDB(t)
	userID, storyID := seedUserAndStory(t, db)
	c, _ := db.CreateComment(storyID, userID, "likable", "")

	liked, err := db.ToggleCommentLike(c.ID, userID)
	if err != nil || !liked {
		t.Fatalf("first toggle: liked=%v err=%v", liked, err)
	}
	got, _ := db.Comment(c.ID)
	if len(got.Likes) != 1 || got.Likes[0] != userID {
		t.Fatalf("likes: %v", got.Likes)
	}

	liked, err = db.ToggleCommentLike(c.ID, userID)
	if err != nil || liked {
		t.Fatalf("second toggle: liked=%v err=%v", liked, err)
	}
}

func TestReadingList_Order(t *testing.T) {
	db := setupDB(t)
	userID, _ := seedUserAndStory(t, db)
	s2, _ := db.CreateStory(userID, "Second", "", "more words")

	stories, _, err := db.ListStories(userID, 1, 10)
	if err != nil || len(stories) != 2 {
		t.Fatalf("list: %d stories, err=%v", len(stories), err)
	}

	db.ToggleReadingList(s2.ID, userID)
	saved, err := db.ReadingList(userID)
	if err != nil {
		t.Fatalf("reading list: %v", err)
	}
	if len(saved) != 1 || saved[0].ID != s2.ID {
		t.Fatalf("saved: %v", saved)
	}
}
