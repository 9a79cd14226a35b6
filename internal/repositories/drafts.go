package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/formahq/forma/internal/models"
)

// SavedDraft is a wizard draft loaded from storage.
type SavedDraft struct {
	ID    string
	Stage string
	Draft models.Draft
}

// DraftRepository persists in-progress wizard drafts.
type DraftRepository struct {
	db *sql.DB
}

// NewDraftRepository creates a DraftRepository over the given database.
func NewDraftRepository(db *sql.DB) *DraftRepository {
	return &DraftRepository{db: db}
}

// Save upserts a draft under the given ID with the stage it was left on.
func (r *DraftRepository) Save(id, stage string, draft *models.Draft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to encode draft: %w", err)
	}

	_, err = r.db.Exec(`
		INSERT INTO wizard_drafts (id, stage, payload, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET stage = excluded.stage, payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
	`, id, stage, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save draft: %w", err)
	}
	return nil
}

// LoadLatest returns the most recently updated draft, or nil when none exist.
func (r *DraftRepository) LoadLatest() (*SavedDraft, error) {
	var saved SavedDraft
	var payload string
	err := r.db.QueryRow(`
		SELECT id, stage, payload FROM wizard_drafts ORDER BY updated_at DESC LIMIT 1
	`).Scan(&saved.ID, &saved.Stage, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load draft: %w", err)
	}

	if err := json.Unmarshal([]byte(payload), &saved.Draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft: %w", err)
	}
	return &saved, nil
}

// Delete removes a draft, typically after a successful generation.
func (r *DraftRepository) Delete(id string) error {
	_, err := r.db.Exec("DELETE FROM wizard_drafts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}
	return nil
}
