package repositories

import (
	"database/sql"
	"testing"

	"github.com/formahq/forma/internal/models"
	"github.com/formahq/forma/internal/shared"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	// A second pool connection would see a fresh in-memory database.
	shared.ConfigureDatabase(db, 1, 1)
	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

func TestTokenRepository(t *testing.T) {
	t.Run("empty store returns blank tokens without error", func(t *testing.T) {
		repo := NewTokenRepository(newTestDB(t))

		access, err := repo.AccessToken()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if access != "" {
			t.Errorf("expected empty access token, got %q", access)
		}

		refresh, err := repo.RefreshToken()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if refresh != "" {
			t.Errorf("expected empty refresh token, got %q", refresh)
		}
	})

	t.Run("stores and reads back the pair", func(t *testing.T) {
		repo := NewTokenRepository(newTestDB(t))

		if err := repo.SetTokens("access-1", "refresh-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		access, _ := repo.AccessToken()
		refresh, _ := repo.RefreshToken()
		if access != "access-1" || refresh != "refresh-1" {
			t.Errorf("unexpected pair %q / %q", access, refresh)
		}
	})

	t.Run("SetAccessToken leaves the refresh token alone", func(t *testing.T) {
		repo := NewTokenRepository(newTestDB(t))

		if err := repo.SetTokens("access-1", "refresh-1"); err != nil {
			t.Fatal(err)
		}
		if err := repo.SetAccessToken("access-2"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		access, _ := repo.AccessToken()
		refresh, _ := repo.RefreshToken()
		if access != "access-2" {
			t.Errorf("expected rotated access token, got %q", access)
		}
		if refresh != "refresh-1" {
			t.Errorf("expected refresh token untouched, got %q", refresh)
		}
	})

	t.Run("Clear removes both tokens", func(t *testing.T) {
		repo := NewTokenRepository(newTestDB(t))

		if err := repo.SetTokens("access-1", "refresh-1"); err != nil {
			t.Fatal(err)
		}
		if err := repo.Clear(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		access, _ := repo.AccessToken()
		refresh, _ := repo.RefreshToken()
		if access != "" || refresh != "" {
			t.Errorf("expected tokens cleared, got %q / %q", access, refresh)
		}
	})
}

func TestDraftRepository(t *testing.T) {
	draft := &models.Draft{
		LeadMagnetType: "guide",
		MainTopic:      "sustainable-architecture",
		TargetAudience: []string{"Homeowners"},
		PainPoints:     []string{"High costs"},
	}

	t.Run("LoadLatest returns nil when empty", func(t *testing.T) {
		repo := NewDraftRepository(newTestDB(t))

		saved, err := repo.LoadLatest()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if saved != nil {
			t.Errorf("expected nil, got %+v", saved)
		}
	})

	t.Run("round-trips the draft and stage", func(t *testing.T) {
		repo := NewDraftRepository(newTestDB(t))

		if err := repo.Save("draft-1", "audience", draft); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		saved, err := repo.LoadLatest()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if saved == nil {
			t.Fatal("expected a saved draft")
		}
		if saved.ID != "draft-1" || saved.Stage != "audience" {
			t.Errorf("unexpected metadata %+v", saved)
		}
		if saved.Draft.MainTopic != "sustainable-architecture" {
			t.Errorf("unexpected draft %+v", saved.Draft)
		}
		if len(saved.Draft.TargetAudience) != 1 || saved.Draft.TargetAudience[0] != "Homeowners" {
			t.Errorf("unexpected audience %v", saved.Draft.TargetAudience)
		}
	})

	t.Run("Save upserts under the same ID", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewDraftRepository(db)

		if err := repo.Save("draft-1", "basics", draft); err != nil {
			t.Fatal(err)
		}
		later := *draft
		later.DesiredOutcome = "Understand passive design"
		if err := repo.Save("draft-1", "content", &later); err != nil {
			t.Fatal(err)
		}

		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM wizard_drafts").Scan(&count); err != nil {
			t.Fatal(err)
		}
		if count != 1 {
			t.Errorf("expected 1 row after upsert, got %d", count)
		}

		saved, err := repo.LoadLatest()
		if err != nil {
			t.Fatal(err)
		}
		if saved.Stage != "content" || saved.Draft.DesiredOutcome != "Understand passive design" {
			t.Errorf("expected updated draft, got %+v", saved)
		}
	})

	t.Run("LoadLatest prefers the most recently updated draft", func(t *testing.T) {
		db := newTestDB(t)
		repo := NewDraftRepository(db)

		if err := repo.Save("draft-old", "basics", draft); err != nil {
			t.Fatal(err)
		}
		if err := repo.Save("draft-new", "review", draft); err != nil {
			t.Fatal(err)
		}
		// CURRENT_TIMESTAMP has second granularity; pin the ordering.
		if _, err := db.Exec("UPDATE wizard_drafts SET updated_at = datetime('now', '-1 hour') WHERE id = ?", "draft-old"); err != nil {
			t.Fatal(err)
		}

		saved, err := repo.LoadLatest()
		if err != nil {
			t.Fatal(err)
		}
		if saved.ID != "draft-new" {
			t.Errorf("expected draft-new, got %s", saved.ID)
		}
	})

	t.Run("Delete removes the draft", func(t *testing.T) {
		repo := NewDraftRepository(newTestDB(t))

		if err := repo.Save("draft-1", "review", draft); err != nil {
			t.Fatal(err)
		}
		if err := repo.Delete("draft-1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		saved, err := repo.LoadLatest()
		if err != nil {
			t.Fatal(err)
		}
		if saved != nil {
			t.Errorf("expected no drafts, got %+v", saved)
		}

		// Deleting again is a no-op.
		if err := repo.Delete("draft-1"); err != nil {
			t.Errorf("expected idempotent delete, got %v", err)
		}
	})
}
