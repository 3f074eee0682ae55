/**
 * PostgreSQL store for saved translations
 *
 * Backs the saved-translations list with Postgres so kept translations
 * survive restarts and sync across devices sharing an account.
 */

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore persists saved translations in Postgres.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection pool and verifies connectivity.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Save upserts a saved translation by id.
func (p *PostgresStore) Save(ctx context.Context, t SavedTranslation) error {
	if t.ID == "" {
		return fmt.Errorf("translation ID is required")
	}
	if t.OriginalText == "" {
		return fmt.Errorf("original text is required")
	}

	query := `
		INSERT INTO lingolens.saved_translations (
			id, original_text, translated_text,
			source_language, target_language, is_from_speech, saved_at
		) VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			translated_text = EXCLUDED.translated_text,
			target_language = EXCLUDED.target_language,
			saved_at = EXCLUDED.saved_at
	`
	_, err := p.db.ExecContext(ctx, query,
		t.ID, t.OriginalText, t.TranslatedText,
		t.SourceLanguage, t.TargetLanguage, t.IsFromSpeech, t.SavedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save translation (id=%s): %w", t.ID, err)
	}
	return nil
}

// List returns all saved translations, newest first.
func (p *PostgresStore) List(ctx context.Context) ([]SavedTranslation, error) {
	query := `
		SELECT
			id, original_text, translated_text,
			source_language, target_language, is_from_speech, saved_at
		FROM lingolens.saved_translations
		ORDER BY saved_at DESC
	`
	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list translations: %w", err)
	}
	defer rows.Close()

	var out []SavedTranslation
	for rows.Next() {
		var t SavedTranslation
		var fromSpeech sql.NullBool
		if err := rows.Scan(
			&t.ID, &t.OriginalText, &t.TranslatedText,
			&t.SourceLanguage, &t.TargetLanguage, &fromSpeech, &t.SavedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan translation: %w", err)
		}
		t.IsFromSpeech = fromSpeech.Valid && fromSpeech.Bool
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read translations: %w", err)
	}
	return out, nil
}

// Delete removes a saved translation. Deleting a missing id is not an
// error.
func (p *PostgresStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("translation ID is required")
	}
	_, err := p.db.ExecContext(ctx,
		`DELETE FROM lingolens.saved_translations WHERE id = $1::uuid`, id)
	if err != nil {
		return fmt.Errorf("failed to delete translation (id=%s): %w", id, err)
	}
	return nil
}

// Ping checks database connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close closes the connection pool.
func (p *PostgresStore) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// Stats returns connection pool statistics.
func (p *PostgresStore) Stats() sql.DBStats {
	return p.db.Stats()
}
