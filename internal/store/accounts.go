package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// User is a registered account. Passwords are stored as bcrypt hashes only.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// ChatMessage is one question/answer exchange kept for history.
type ChatMessage struct {
	ID        int64
	UserID    int64
	Question  string
	Answer    string
	Sources   string // comma-separated source URLs shown with the answer
	CreatedAt time.Time
}

// CreateUser inserts an account and returns its id.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) (int64, error) {
	var id int64
	err := s.DB.QueryRowContext(ctx, `
INSERT INTO users (email, password_hash) VALUES ($1,$2) RETURNING id`,
		email, passwordHash).Scan(&id)
	return id, err
}

// GetUserByEmail returns the account for email, or ErrNotFound.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.DB.QueryRowContext(ctx, `
SELECT id, email, password_hash, created_at FROM users WHERE email=$1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// InsertChatMessage appends one exchange to the user's history.
func (s *Store) InsertChatMessage(ctx context.Context, m ChatMessage) (int64, error) {
	var id int64
	err := s.DB.QueryRowContext(ctx, `
INSERT INTO chat_history (user_id, question, answer, sources) VALUES ($1,$2,$3,$4) RETURNING id`,
		m.UserID, m.Question, m.Answer, m.Sources).Scan(&id)
	return id, err
}

// RecentChatMessages returns the user's latest exchanges, newest first.
func (s *Store) RecentChatMessages(ctx context.Context, userID int64, limit int) ([]ChatMessage, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, user_id, question, answer, COALESCE(sources,''), created_at
FROM chat_history WHERE user_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Question, &m.Answer, &m.Sources, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
