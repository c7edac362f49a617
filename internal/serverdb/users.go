package serverdb

import (
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/marcus/tale/internal/models"
)

// hashPassword derives the stored password hash.
func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// generateToken generates a bearer token for a user session.
func generateToken() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return "tok-" + hex.EncodeToString(bytes), nil
}

// Login verifies credentials and returns the user with a fresh token.
// Unknown emails create an account on the spot (first-login signup), so a
// new reader can start from the CLI without a separate registration step.
func (db *ServerDB) Login(email, password string) (*models.User, string, error) {
	var (
		user models.User
		hash string
	)
	err := db.conn.QueryRow(
		`SELECT id, email, name, password_hash FROM users WHERE email = ?`, email,
	).Scan(&user.ID, &user.Email, &user.Name, &hash)

	if err == sql.ErrNoRows {
		return db.createUser(email, password)
	}
	if err != nil {
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	if hash != hashPassword(password) {
		return nil, "", fmt.Errorf("invalid credentials")
	}

	token, err := generateToken()
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}
	if _, err := db.conn.Exec(`UPDATE users SET token = ? WHERE id = ?`, token, user.ID); err != nil {
		return nil, "", fmt.Errorf("store token: %w", err)
	}
	return &user, token, nil
}

// createUser registers a new account and issues its first token.
func (db *ServerDB) createUser(email, password string) (*models.User, string, error) {
	id, err := generateID(userIDPrefix)
	if err != nil {
		return nil, "", fmt.Errorf("generate user id: %w", err)
	}
	token, err := generateToken()
	if err != nil {
		return nil, "", fmt.Errorf("generate token: %w", err)
	}

	name := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		name = email[:at]
	}

	_, err = db.conn.Exec(
		`INSERT INTO users (id, email, name, password_hash, token) VALUES (?, ?, ?, ?, ?)`,
		id, email, name, hashPassword(password), token,
	)
	if err != nil {
		return nil, "", fmt.Errorf("create user: %w", err)
	}
	return &models.User{ID: id, Email: email, Name: name}, token, nil
}

// UserByToken resolves a bearer token to its user. Returns nil when the
// token is unknown.
func (db *ServerDB) UserByToken(token string) (*models.User, error) {
	var user models.User
	err := db.conn.QueryRow(
		`SELECT id, email, name FROM users WHERE token = ?`, token,
	).Scan(&user.ID, &user.Email, &user.Name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup token: %w", err)
	}
	return &user, nil
}
