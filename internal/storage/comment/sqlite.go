// internal/storage/comment/sqlite.go
package comment

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/turnDeep/chartnote/internal/core"
)

//go:embed schema.sql
var schema string

// SQLiteStore is a comment store backed by SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database at path and initializes
// the schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Save persists a comment and assigns its ID.
func (s *SQLiteStore) Save(ctx context.Context, c *core.Comment) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO comments (timestamp, price, content, emotion_icon, author_id) VALUES (?, ?, ?, ?, ?)",
		c.Timestamp, c.Price, c.Content, nullable(c.EmotionIcon), nullable(c.AuthorID),
	)
	if err != nil {
		return core.WrapError(core.ErrStorageFailed, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.WrapError(core.ErrStorageFailed, err)
	}
	c.ID = id
	return nil
}

// GetByID retrieves a comment by its ID.
func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (*core.Comment, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, timestamp, price, content, emotion_icon, author_id FROM comments WHERE id = ?", id)

	c, err := scanComment(row)
	if err == sql.ErrNoRows {
		return nil, core.ErrCommentNotFound
	}
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	return c, nil
}

// List returns comments matching the filter, oldest first.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]core.Comment, error) {
	query := "SELECT id, timestamp, price, content, emotion_icon, author_id FROM comments"
	where, args := filterClause(filter)
	query += where + " ORDER BY timestamp ASC, id ASC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	defer rows.Close()

	return collectComments(rows)
}

// Count returns the number of comments matching the filter.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := filterClause(filter)

	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM comments"+where, args...).Scan(&n)
	if err != nil {
		return 0, core.WrapError(core.ErrStorageFailed, err)
	}
	return n, nil
}

// DeleteBefore removes comments anchored strictly before cutoff and returns
// the removed rows, oldest first.
func (s *SQLiteStore) DeleteBefore(ctx context.Context, cutoff int64) ([]core.Comment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx,
		"SELECT id, timestamp, price, content, emotion_icon, author_id FROM comments WHERE timestamp < ? ORDER BY timestamp ASC, id ASC",
		cutoff)
	if err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	removed, err := collectComments(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM comments WHERE timestamp < ?", cutoff); err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	return removed, nil
}

func filterClause(filter ListFilter) (string, []any) {
	where := ""
	var args []any
	add := func(cond string, arg any) {
		if where == "" {
			where = " WHERE " + cond
		} else {
			where += " AND " + cond
		}
		args = append(args, arg)
	}

	if filter.From != 0 {
		add("timestamp >= ?", filter.From)
	}
	if filter.To != 0 {
		add("timestamp <= ?", filter.To)
	}
	return where, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(r rowScanner) (*core.Comment, error) {
	var c core.Comment
	var icon, author sql.NullString
	if err := r.Scan(&c.ID, &c.Timestamp, &c.Price, &c.Content, &icon, &author); err != nil {
		return nil, err
	}
	c.EmotionIcon = icon.String
	c.AuthorID = author.String
	return &c, nil
}

func collectComments(rows *sql.Rows) ([]core.Comment, error) {
	comments := make([]core.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, core.WrapError(core.ErrStorageFailed, err)
		}
		comments = append(comments, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, core.WrapError(core.ErrStorageFailed, err)
	}
	return comments, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
