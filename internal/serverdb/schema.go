package serverdb

// Schema is the full server schema, applied idempotently at open.
const Schema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	token         TEXT UNIQUE,
	created_at    DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS stories (
	id         TEXT PRIMARY KEY,
	author_id  TEXT NOT NULL REFERENCES users(id),
	title      TEXT NOT NULL,
	summary    TEXT NOT NULL DEFAULT '',
	content    TEXT NOT NULL,
	views      INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS story_likes (
	story_id   TEXT NOT NULL REFERENCES stories(id) ON DELETE CASCADE,
	user_id    TEXT NOT NULL REFERENCES users(id),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (story_id, user_id)
);

CREATE TABLE IF NOT EXISTS reading_list (
	user_id    TEXT NOT NULL REFERENCES users(id),
	story_id   TEXT NOT NULL REFERENCES stories(id) ON DELETE CASCADE,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (user_id, story_id)
);

CREATE TABLE IF NOT EXISTS comments (
	id         TEXT PRIMARY KEY,
	story_id   TEXT NOT NULL REFERENCES stories(id) ON DELETE CASCADE,
	author_id  TEXT NOT NULL REFERENCES users(id),
	parent_id  TEXT REFERENCES comments(id) ON DELETE CASCADE,
	content    TEXT NOT NULL,
	edited     INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS comment_likes (
	comment_id TEXT NOT NULL REFERENCES comments(id) ON DELETE CASCADE,
	user_id    TEXT NOT NULL REFERENCES users(id),
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (comment_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_stories_created ON stories(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_comments_story ON comments(story_id, parent_id);
CREATE INDEX IF NOT EXISTS idx_reading_list_user ON reading_list(user_id, created_at);
`
