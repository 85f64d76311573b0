package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/miskatonic/quiz-api/internal/apperr"
)

type Store interface {
	// Create assigns the id and creation time and persists the session.
	Create(ctx context.Context, s Session) (Session, error)
	Get(ctx context.Context, id string) (Session, error)
	Delete(ctx context.Context, id string) (bool, error)
	// List returns sessions newest first; empty owner means all owners.
	List(ctx context.Context, owner string, limit int) ([]Summary, error)
}

type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

func (s *SQLStore) Create(ctx context.Context, sess Session) (Session, error) {
	sess.ID = uuid.NewString()
	sess.CreatedAt = s.now().UTC()
	qj, err := json.Marshal(sess.Questions)
	if err != nil {
		return Session{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_sessions (id,owner,name,theme,requested_count,questions_json,created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		sess.ID, sess.Owner, sess.Name, sess.Theme, sess.RequestedCount, string(qj), sess.CreatedAt.UnixNano())
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Get treats a malformed id exactly like an unknown one.
func (s *SQLStore) Get(ctx context.Context, id string) (Session, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Session{}, fmt.Errorf("quiz session %q: %w", id, apperr.ErrNotFound)
	}
	row := s.db.QueryRowContext(ctx,
		`SELECT id,owner,name,theme,requested_count,questions_json,created_at FROM quiz_sessions WHERE id=$1`, id)
	sess, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("quiz session %q: %w", id, apperr.ErrNotFound)
	}
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM quiz_sessions WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (s *SQLStore) List(ctx context.Context, owner string, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = DefaultMaxItems
	}
	const cols = `id,owner,name,theme,requested_count,questions_json,created_at`
	var (
		rows *sql.Rows
		err  error
	)
	if owner == "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+cols+` FROM quiz_sessions ORDER BY created_at DESC, id DESC LIMIT $1`, limit)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+cols+` FROM quiz_sessions WHERE owner=$1 ORDER BY created_at DESC, id DESC LIMIT $2`, owner, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, summarize(sess))
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(sc scanner) (Session, error) {
	var sess Session
	var qjson string
	var created int64
	if err := sc.Scan(&sess.ID, &sess.Owner, &sess.Name, &sess.Theme, &sess.RequestedCount, &qjson, &created); err != nil {
		return Session{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &sess.Questions); err != nil {
		return Session{}, fmt.Errorf("quiz session %s: snapshot: %w", sess.ID, err)
	}
	sess.CreatedAt = time.Unix(0, created).UTC()
	return sess, nil
}
