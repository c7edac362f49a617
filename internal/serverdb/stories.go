package serverdb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/marcus/tale/internal/models"
)

// storyColumns is the SELECT list shared by every story query. The two
// EXISTS subqueries resolve the viewer's own engagement.
const storyColumns = `
	s.id, s.author_id, u.name, s.title, s.summary, s.content, s.views,
	s.created_at, s.updated_at,
	(SELECT COUNT(*) FROM story_likes sl WHERE sl.story_id = s.id),
	(SELECT COUNT(*) FROM comments c WHERE c.story_id = s.id),
	EXISTS(SELECT 1 FROM story_likes sl WHERE sl.story_id = s.id AND sl.user_id = ?),
	EXISTS(SELECT 1 FROM reading_list rl WHERE rl.story_id = s.id AND rl.user_id = ?)`

// scanStory scans one row produced with storyColumns.
func scanStory(row interface{ Scan(...any) error }) (*models.Story, error) {
	var s models.Story
	var created, updated string
	var liked, inList int
	err := row.Scan(&s.ID, &s.AuthorID, &s.AuthorName, &s.Title, &s.Summary, &s.Content,
		&s.Views, &created, &updated, &s.LikesCount, &s.CommentCount, &liked, &inList)
	if err != nil {
		return nil, err
	}
	s.Liked = liked != 0
	s.InReadingList = inList != 0
	s.CreatedAt, _ = parseTimestamp(created)
	s.UpdatedAt, _ = parseTimestamp(updated)
	return &s, nil
}

// CreateStory publishes a story and returns it.
func (db *ServerDB) CreateStory(authorID, title, summary, content string) (*models.Story, error) {
	id, err := generateID(storyIDPrefix)
	if err != nil {
		return nil, fmt.Errorf("generate story id: %w", err)
	}
	_, err = db.conn.Exec(
		`INSERT INTO stories (id, author_id, title, summary, content) VALUES (?, ?, ?, ?, ?)`,
		id, authorID, title, summary, content,
	)
	if err != nil {
		return nil, fmt.Errorf("insert story: %w", err)
	}
	return db.Story(id, authorID)
}

// Story fetches one story with the viewer's engagement. Returns nil when the
// story does not exist.
func (db *ServerDB) Story(storyID, viewerID string) (*models.Story, error) {
	row := db.conn.QueryRow(
		`SELECT `+storyColumns+` FROM stories s JOIN users u ON u.id = s.author_id WHERE s.id = ?`,
		viewerID, viewerID, storyID,
	)
	story, err := scanStory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch story %s: %w", storyID, err)
	}
	return story, nil
}

// ListStories returns one page of the feed, newest first, with the total
// story count.
func (db *ServerDB) ListStories(viewerID string, page, perPage int) ([]models.Story, int, error) {
	if page < 1 {
		page = 1
	}
	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM stories`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count stories: %w", err)
	}

	rows, err := db.conn.Query(
		`SELECT `+storyColumns+` FROM stories s JOIN users u ON u.id = s.author_id
		 ORDER BY s.created_at DESC, s.rowid DESC LIMIT ? OFFSET ?`,
		viewerID, viewerID, perPage, (page-1)*perPage,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query stories: %w", err)
	}
	defer rows.Close()

	var stories []models.Story
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan story: %w", err)
		}
		stories = append(stories, *s)
	}
	return stories, total, rows.Err()
}

// ToggleLike flips the user's like on a story and returns the resulting
// state with the fresh count.
func (db *ServerDB) ToggleLike(storyID, userID string) (liked bool, count int, err error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRow(`SELECT COUNT(*) FROM stories WHERE id = ?`, storyID).Scan(&exists)
	if err != nil {
		return false, 0, fmt.Errorf("check story: %w", err)
	}
	if exists == 0 {
		return false, 0, ErrNoStory
	}

	res, err := tx.Exec(`DELETE FROM story_likes WHERE story_id = ? AND user_id = ?`, storyID, userID)
	if err != nil {
		return false, 0, fmt.Errorf("delete like: %w", err)
	}
	deleted, _ := res.RowsAffected()
	if deleted == 0 {
		if _, err := tx.Exec(
			`INSERT INTO story_likes (story_id, user_id) VALUES (?, ?)`, storyID, userID,
		); err != nil {
			return false, 0, fmt.Errorf("insert like: %w", err)
		}
		liked = true
	}

	err = tx.QueryRow(`SELECT COUNT(*) FROM story_likes WHERE story_id = ?`, storyID).Scan(&count)
	if err != nil {
		return false, 0, fmt.Errorf("count likes: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return false, 0, fmt.Errorf("commit: %w", err)
	}
	return liked, count, nil
}

// ToggleReadingList flips the story's membership in the user's saved list.
func (db *ServerDB) ToggleReadingList(storyID, userID string) (added bool, err error) {
	var exists int
	err = db.conn.QueryRow(`SELECT COUNT(*) FROM stories WHERE id = ?`, storyID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check story: %w", err)
	}
	if exists == 0 {
		return false, ErrNoStory
	}

	res, err := db.conn.Exec(`DELETE FROM reading_list WHERE story_id = ? AND user_id = ?`, storyID, userID)
	if err != nil {
		return false, fmt.Errorf("delete list entry: %w", err)
	}
	deleted, _ := res.RowsAffected()
	if deleted > 0 {
		return false, nil
	}
	if _, err := db.conn.Exec(
		`INSERT INTO reading_list (story_id, user_id) VALUES (?, ?)`, storyID, userID,
	); err != nil {
		return false, fmt.Errorf("insert list entry: %w", err)
	}
	return true, nil
}

// IncrementView bumps the denormalized view counter.
func (db *ServerDB) IncrementView(storyID string) error {
	res, err := db.conn.Exec(`UPDATE stories SET views = views + 1 WHERE id = ?`, storyID)
	if err != nil {
		return fmt.Errorf("increment view: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNoStory
	}
	return nil
}

// ReadingList returns the user's saved stories, most recently saved first.
func (db *ServerDB) ReadingList(userID string) ([]models.Story, error) {
	rows, err := db.conn.Query(
		`SELECT `+storyColumns+` FROM reading_list rl
		 JOIN stories s ON s.id = rl.story_id
		 JOIN users u ON u.id = s.author_id
		 WHERE rl.user_id = ?
		 ORDER BY rl.created_at DESC, rl.rowid DESC`,
		userID, userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query reading list: %w", err)
	}
	defer rows.Close()

	var stories []models.Story
	for rows.Next() {
		s, err := scanStory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan story: %w", err)
		}
		stories = append(stories, *s)
	}
	return stories, rows.Err()
}

// parseTimestamp tries common SQLite timestamp formats.
func parseTimestamp(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %q", s)
}
