package serverdb

import (
	"database/sql"
	"fmt"

	"github.com/marcus/tale/internal/models"
)

// scanComments reads comment rows into models, attaching like sets.
func (db *ServerDB) scanComments(rows *sql.Rows) ([]models.Comment, error) {
	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		var parent sql.NullString
		var edited int
		var created string
		if err := rows.Scan(&c.ID, &c.StoryID, &c.AuthorID, &c.AuthorName, &parent, &c.Content, &edited, &created); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		c.ParentID = parent.String
		c.Edited = edited != 0
		c.CreatedAt, _ = parseTimestamp(created)

		likes, err := db.commentLikes(c.ID)
		if err != nil {
			return nil, err
		}
		c.Likes = likes
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (db *ServerDB) commentLikes(commentID string) ([]string, error) {
	rows, err := db.conn.Query(
		`SELECT user_id FROM comment_likes WHERE comment_id = ? ORDER BY created_at`, commentID)
	if err != nil {
		return nil, fmt.Errorf("query comment likes: %w", err)
	}
	defer rows.Close()

	var likes []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		likes = append(likes, id)
	}
	return likes, rows.Err()
}

const commentColumns = `c.id, c.story_id, c.author_id, u.name, c.parent_id, c.content, c.edited, c.created_at`

// Comments returns one page of a story's thread: top-level comments newest
// first, each carrying its replies oldest first, plus the top-level total.
func (db *ServerDB) Comments(storyID string, page, perPage int) ([]models.Comment, int, error) {
	if page < 1 {
		page = 1
	}

	var total int
	err := db.conn.QueryRow(
		`SELECT COUNT(*) FROM comments WHERE story_id = ? AND parent_id IS NULL`, storyID,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	rows, err := db.conn.Query(
		`SELECT `+commentColumns+` FROM comments c JOIN users u ON u.id = c.author_id
		 WHERE c.story_id = ? AND c.parent_id IS NULL
		 ORDER BY c.created_at DESC, c.rowid DESC LIMIT ? OFFSET ?`,
		storyID, perPage, (page-1)*perPage,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("query comments: %w", err)
	}
	topLevel, err := db.scanComments(rows)
	rows.Close()
	if err != nil {
		return nil, 0, err
	}

	for i := range topLevel {
		replyRows, err := db.conn.Query(
			`SELECT `+commentColumns+` FROM comments c JOIN users u ON u.id = c.author_id
			 WHERE c.parent_id = ? ORDER BY c.created_at ASC, c.rowid ASC`,
			topLevel[i].ID,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("query replies: %w", err)
		}
		replies, err := db.scanComments(replyRows)
		replyRows.Close()
		if err != nil {
			return nil, 0, err
		}
		topLevel[i].Replies = replies
	}

	return topLevel, total, nil
}

// CreateComment inserts a comment. Replies must target an existing
// top-level comment on the same story; the two-level thread shape is
// enforced here, not just in the client.
func (db *ServerDB) CreateComment(storyID, authorID, content, parentID string) (*models.Comment, error) {
	var exists int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM stories WHERE id = ?`, storyID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check story: %w", err)
	}
	if exists == 0 {
		return nil, ErrNoStory
	}

	if parentID != "" {
		var parentStory string
		var grandparent sql.NullString
		err := db.conn.QueryRow(
			`SELECT story_id, parent_id FROM comments WHERE id = ?`, parentID,
		).Scan(&parentStory, &grandparent)
		if err == sql.ErrNoRows {
			return nil, ErrNoComment
		}
		if err != nil {
			return nil, fmt.Errorf("check parent: %w", err)
		}
		if parentStory != storyID {
			return nil, ErrNoComment
		}
		if grandparent.Valid {
			return nil, ErrDepth
		}
	}

	id, err := generateID(commentIDPrefix)
	if err != nil {
		return nil, fmt.Errorf("generate comment id: %w", err)
	}

	var parentArg any
	if parentID != "" {
		parentArg = parentID
	}
	_, err = db.conn.Exec(
		`INSERT INTO comments (id, story_id, author_id, parent_id, content) VALUES (?, ?, ?, ?, ?)`,
		id, storyID, authorID, parentArg, content,
	)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return db.Comment(id)
}

// Comment fetches a single comment by ID (without replies).
func (db *ServerDB) Comment(commentID string) (*models.Comment, error) {
	rows, err := db.conn.Query(
		`SELECT `+commentColumns+` FROM comments c JOIN users u ON u.id = c.author_id WHERE c.id = ?`,
		commentID,
	)
	if err != nil {
		return nil, fmt.Errorf("query comment: %w", err)
	}
	comments, err := db.scanComments(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, ErrNoComment
	}
	return &comments[0], nil
}

// UpdateComment edits a comment's content. Only the author may edit.
func (db *ServerDB) UpdateComment(commentID, authorID, content string) (*models.Comment, error) {
	var owner string
	err := db.conn.QueryRow(`SELECT author_id FROM comments WHERE id = ?`, commentID).Scan(&owner)
	if err == sql.ErrNoRows {
		return nil, ErrNoComment
	}
	if err != nil {
		return nil, fmt.Errorf("check comment: %w", err)
	}
	if owner != authorID {
		return nil, ErrNotOwner
	}

	_, err = db.conn.Exec(`UPDATE comments SET content = ?, edited = 1 WHERE id = ?`, content, commentID)
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return db.Comment(commentID)
}

// DeleteComment removes a comment; replies and likes cascade.
func (db *ServerDB) DeleteComment(commentID, authorID string) error {
	var owner string
	err := db.conn.QueryRow(`SELECT author_id FROM comments WHERE id = ?`, commentID).Scan(&owner)
	if err == sql.ErrNoRows {
		return ErrNoComment
	}
	if err != nil {
		return fmt.Errorf("check comment: %w", err)
	}
	if owner != authorID {
		return ErrNotOwner
	}

	if _, err := db.conn.Exec(`DELETE FROM comments WHERE id = ? OR parent_id = ?`, commentID, commentID); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// ToggleCommentLike flips the user's like on a comment.
func (db *ServerDB) ToggleCommentLike(commentID, userID string) (liked bool, err error) {
	var exists int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM comments WHERE id = ?`, commentID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check comment: %w", err)
	}
	if exists == 0 {
		return false, ErrNoComment
	}

	res, err := db.conn.Exec(
		`DELETE FROM comment_likes WHERE comment_id = ? AND user_id = ?`, commentID, userID)
	if err != nil {
		return false, fmt.Errorf("delete comment like: %w", err)
	}
	deleted, _ := res.RowsAffected()
	if deleted > 0 {
		return false, nil
	}
	if _, err := db.conn.Exec(
		`INSERT INTO comment_likes (comment_id, user_id) VALUES (?, ?)`, commentID, userID,
	); err != nil {
		return false, fmt.Errorf("insert comment like: %w", err)
	}
	return true, nil
}
