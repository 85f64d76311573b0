package question

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/miskatonic/quiz-api/internal/apperr"
)

// Bank is the question document store.
type Bank interface {
	Sample(ctx context.Context, count int, theme string) ([]Question, error)
	ListAll(ctx context.Context, limit int) ([]Question, error)
	Insert(ctx context.Context, q Question) (Question, error)
	DeleteByText(ctx context.Context, text string) (int64, error)
	DeleteByID(ctx context.Context, id string) (bool, error)
	FindByText(ctx context.Context, text string) (Question, error)
	Count(ctx context.Context, theme string) (int, error)

	DistinctThemes(ctx context.Context) []string
	DistinctCategories(ctx context.Context) []string
	DistinctThemesForCategory(ctx context.Context, category string) []string
	DistinctCategoriesForTheme(ctx context.Context, theme string) []string
}

type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

const selectCols = `id,text,theme,category,choices_json,correct_json,created_by,created_at`

// Sample draws up to count distinct questions uniformly at random. When the
// (theme-filtered) population is smaller than count, all of it is returned.
func (s *SQLStore) Sample(ctx context.Context, count int, theme string) ([]Question, error) {
	if count <= 0 {
		return []Question{}, nil
	}
	var (
		rows *sql.Rows
		err  error
	)
	if theme == "" {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+selectCols+` FROM questions ORDER BY RANDOM() LIMIT $1`, count)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT `+selectCols+` FROM questions WHERE theme=$1 ORDER BY RANDOM() LIMIT $2`, theme, count)
	}
	if err != nil {
		return nil, err
	}
	return scanQuestions(rows)
}

func (s *SQLStore) ListAll(ctx context.Context, limit int) ([]Question, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectCols+` FROM questions ORDER BY created_at, id LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return scanQuestions(rows)
}

func (s *SQLStore) Insert(ctx context.Context, q Question) (Question, error) {
	q, err := Normalize(q)
	if err != nil {
		return Question{}, err
	}
	q.ID = uuid.NewString()
	q.CreatedAt = s.now().UnixNano()

	cj, err := json.Marshal(q.Choices)
	if err != nil {
		return Question{}, err
	}
	kj, err := json.Marshal(q.CorrectAnswers)
	if err != nil {
		return Question{}, err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO questions (`+selectCols+`) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		q.ID, q.Text, q.Theme, q.Category, string(cj), string(kj), q.CreatedBy, q.CreatedAt)
	if err != nil {
		return Question{}, err
	}
	return q, nil
}

// DeleteByText removes every question whose text matches exactly.
func (s *SQLStore) DeleteByText(ctx context.Context, text string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE text=$1`, text)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (s *SQLStore) DeleteByID(ctx context.Context, id string) (bool, error) {
	if _, err := uuid.Parse(id); err != nil {
		return false, nil
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id=$1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// FindByText returns the oldest question with exactly this text.
func (s *SQLStore) FindByText(ctx context.Context, text string) (Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectCols+` FROM questions WHERE text=$1 ORDER BY created_at, id LIMIT 1`, text)
	if err != nil {
		return Question{}, err
	}
	qs, err := scanQuestions(rows)
	if err != nil {
		return Question{}, err
	}
	if len(qs) == 0 {
		return Question{}, fmt.Errorf("question %q: %w", truncate(text, 60), apperr.ErrNotFound)
	}
	return qs[0], nil
}

func (s *SQLStore) Count(ctx context.Context, theme string) (int, error) {
	var n int
	var err error
	if theme == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM questions`).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM questions WHERE theme=$1`, theme).Scan(&n)
	}
	return n, err
}

func (s *SQLStore) DistinctThemes(ctx context.Context) []string {
	return s.distinct(ctx, "theme", "", "")
}

func (s *SQLStore) DistinctCategories(ctx context.Context) []string {
	return s.distinct(ctx, "category", "", "")
}

func (s *SQLStore) DistinctThemesForCategory(ctx context.Context, category string) []string {
	if category == "" {
		return s.DistinctThemes(ctx)
	}
	return s.distinct(ctx, "theme", "category", category)
}

func (s *SQLStore) DistinctCategoriesForTheme(ctx context.Context, theme string) []string {
	return s.distinct(ctx, "category", "theme", theme)
}

// distinct enumerates non-empty values of col, sorted. Backend errors are
// logged and degrade to an empty result. col/filterCol are never user input.
func (s *SQLStore) distinct(ctx context.Context, col, filterCol, filterVal string) []string {
	var (
		rows *sql.Rows
		err  error
	)
	if filterCol == "" {
		rows, err = s.db.QueryContext(ctx, `SELECT DISTINCT `+col+` FROM questions`)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT DISTINCT `+col+` FROM questions WHERE `+filterCol+`=$1`, filterVal)
	}
	if err != nil {
		log.Printf("question: distinct %s: %v", col, err)
		return []string{}
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			log.Printf("question: distinct %s scan: %v", col, err)
			return []string{}
		}
		if v.Valid && strings.TrimSpace(v.String) != "" {
			out = append(out, v.String)
		}
	}
	if err := rows.Err(); err != nil {
		log.Printf("question: distinct %s: %v", col, err)
		return []string{}
	}
	sort.Strings(out)
	return out
}

func scanQuestions(rows *sql.Rows) ([]Question, error) {
	defer rows.Close()
	out := []Question{}
	for rows.Next() {
		var q Question
		var cj, kj string
		if err := rows.Scan(&q.ID, &q.Text, &q.Theme, &q.Category, &cj, &kj, &q.CreatedBy, &q.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(cj), &q.Choices); err != nil {
			return nil, fmt.Errorf("question %s: choices: %w", q.ID, err)
		}
		if err := json.Unmarshal([]byte(kj), &q.CorrectAnswers); err != nil {
			return nil, fmt.Errorf("question %s: correct answers: %w", q.ID, err)
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

