package question_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/miskatonic/quiz-api/internal/apperr"
	appdb "github.com/miskatonic/quiz-api/internal/db"
	"github.com/miskatonic/quiz-api/internal/question"
)

func openBank(t *testing.T) *question.SQLStore {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dbh, err := appdb.Open(context.Background(), appdb.DriverSQLite,
		"file:"+name+"?mode=memory&cache=shared", appdb.SchemaContent)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = dbh.Close() })
	return question.NewSQLStore(dbh)
}

func seed(t *testing.T, b *question.SQLStore, theme string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := b.Insert(context.Background(), question.Question{
			Text:           fmt.Sprintf("%s question %d", theme, i),
			Theme:          theme,
			Choices:        []string{"A", "B", "C"},
			CorrectAnswers: []string{"A"},
		})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestSample_CapsAtPopulation(t *testing.T) {
	ctx := context.Background()
	b := openBank(t)
	seed(t, b, "Maths", 3)
	seed(t, b, "History", 7)

	got, err := b.Sample(ctx, 10, "Maths")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for _, q := range got {
		if q.Theme != "Maths" {
			t.Fatalf("theme filter leaked %q", q.Theme)
		}
	}
}

func TestSample_WithoutReplacement(t *testing.T) {
	ctx := context.Background()
	b := openBank(t)
	seed(t, b, "History", 12)

	for i := 0; i < 5; i++ {
		got, err := b.Sample(ctx, 5, "")
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 5 {
			t.Fatalf("len = %d, want 5", len(got))
		}
		seen := map[string]bool{}
		for _, q := range got {
			if seen[q.ID] {
				t.Fatalf("duplicate question %s in sample", q.ID)
			}
			seen[q.ID] = true
		}
	}
}

func TestSample_EmptyPopulation(t *testing.T) {
	b := openBank(t)
	got, err := b.Sample(context.Background(), 5, "Nothing")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

func TestInsert_DefaultsAndValidation(t *testing.T) {
	ctx := context.Background()
	b := openBank(t)

	q, err := b.Insert(ctx, question.Question{
		Text:           "2+2?",
		Choices:        []string{"3", "4"},
		CorrectAnswers: []string{"4"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if q.ID == "" || q.Theme != question.DefaultTheme || q.Category != question.DefaultCategory {
		t.Fatalf("defaults not applied: %+v", q)
	}

	bad := []question.Question{
		{Text: "", Choices: []string{"a"}, CorrectAnswers: []string{"a"}},
		{Text: "   ", Choices: []string{"a"}, CorrectAnswers: []string{"a"}},
		{Text: "no choices", CorrectAnswers: []string{"a"}},
		{Text: "empty choices", Choices: []string{}, CorrectAnswers: []string{"a"}},
		{Text: "no correct", Choices: []string{"a"}},
		{Text: "blank choice", Choices: []string{"a", ""}, CorrectAnswers: []string{"a"}},
		{Text: "foreign correct", Choices: []string{"a"}, CorrectAnswers: []string{"z"}},
	}
	for _, in := range bad {
		if _, err := b.Insert(ctx, in); !errors.Is(err, apperr.ErrInvalid) {
			t.Errorf("%q: err = %v, want ErrInvalid", in.Text, err)
		}
	}
}

func TestDeleteByText_AllExactMatches(t *testing.T) {
	ctx := context.Background()
	b := openBank(t)
	for i := 0; i < 2; i++ {
		if _, err := b.Insert(ctx, question.Question{Text: "dup", Choices: []string{"x"}, CorrectAnswers: []string{"x"}}); err != nil {
			t.Fatal(err)
		}
	}
	seed(t, b, "Other", 1)

	n, err := b.DeleteByText(ctx, "dup")
	if err != nil || n != 2 {
		t.Fatalf("deleted %d err=%v; want 2", n, err)
	}
	n, err = b.DeleteByText(ctx, "dup")
	if err != nil || n != 0 {
		t.Fatalf("second delete: %d err=%v; want 0, nil", n, err)
	}
	if c, _ := b.Count(ctx, ""); c != 1 {
		t.Fatalf("remaining = %d, want 1", c)
	}
}

func TestDeleteByID(t *testing.T) {
	ctx := context.Background()
	b := openBank(t)
	q, err := b.Insert(ctx, question.Question{Text: "q", Choices: []string{"x"}, CorrectAnswers: []string{"x"}})
	if err != nil {
		t.Fatal(err)
	}
	if ok, err := b.DeleteByID(ctx, "not-a-uuid"); ok || err != nil {
		t.Fatalf("malformed id: ok=%v err=%v", ok, err)
	}
	if ok, err := b.DeleteByID(ctx, q.ID); !ok || err != nil {
		t.Fatalf("delete: ok=%v err=%v", ok, err)
	}
}

func TestFindByText(t *testing.T) {
	ctx := context.Background()
	b := openBank(t)
	if _, err := b.Insert(ctx, question.Question{Text: "Capital?", Choices: []string{"Paris", "Lyon"}, CorrectAnswers: []string{"Paris"}}); err != nil {
		t.Fatal(err)
	}
	q, err := b.FindByText(ctx, "Capital?")
	if err != nil {
		t.Fatal(err)
	}
	if len(q.Choices) != 2 || q.CorrectAnswers[0] != "Paris" {
		t.Fatalf("unexpected question: %+v", q)
	}
	if _, err := b.FindByText(ctx, "capital?"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("case-different text: err = %v, want ErrNotFound", err)
	}
}

func TestListAll_Limit(t *testing.T) {
	b := openBank(t)
	seed(t, b, "T", 4)
	got, err := b.ListAll(context.Background(), 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
}

func TestDistinct(t *testing.T) {
	ctx := context.Background()
	b := openBank(t)
	add := func(theme, cat string) {
		t.Helper()
		if _, err := b.Insert(ctx, question.Question{
			Text: theme + "/" + cat, Theme: theme, Category: cat,
			Choices: []string{"a"}, CorrectAnswers: []string{"a"},
		}); err != nil {
			t.Fatal(err)
		}
	}
	add("Zoology", "Final")
	add("Algebra", "Midterm")
	add("Algebra", "Final")
	add("", "")

	if got := strings.Join(b.DistinctThemes(ctx), ","); got != "Algebra,General,Zoology" {
		t.Fatalf("themes = %s", got)
	}
	if got := strings.Join(b.DistinctCategories(ctx), ","); got != "Final,Midterm,Quiz" {
		t.Fatalf("categories = %s", got)
	}
	if got := strings.Join(b.DistinctThemesForCategory(ctx, "Final"), ","); got != "Algebra,Zoology" {
		t.Fatalf("themes for Final = %s", got)
	}
	if got := strings.Join(b.DistinctCategoriesForTheme(ctx, "Algebra"), ","); got != "Final,Midterm" {
		t.Fatalf("categories for Algebra = %s", got)
	}
	if got := b.DistinctCategoriesForTheme(ctx, "Unknown"); len(got) != 0 {
		t.Fatalf("unknown theme: %v", got)
	}
}

func TestDistinct_SwallowsBackendErrors(t *testing.T) {
	name := strings.NewReplacer("/", "_").Replace(t.Name())
	dbh, err := appdb.Open(context.Background(), appdb.DriverSQLite,
		"file:"+name+"?mode=memory&cache=shared", appdb.SchemaContent)
	if err != nil {
		t.Fatal(err)
	}
	b := question.NewSQLStore(dbh)
	_ = dbh.Close()

	got := b.DistinctThemes(context.Background())
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty slice on closed db, got %#v", got)
	}
}
