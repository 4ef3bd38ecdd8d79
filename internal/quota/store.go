package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clipbrief/clipbrief/internal/identity"
)

// Store tracks upload counters per identity.
type Store interface {
	UploadCount(ctx context.Context, id identity.Identity) (int, error)
	IncrementUploads(ctx context.Context, id identity.Identity) (int, error)
}

// PGStore persists counters in the users and visitors tables. It also acts
// as the visitor directory for the auth middleware.
type PGStore struct {
	db *pgxpool.Pool
}

func NewPGStore(db *pgxpool.Pool) *PGStore {
	return &PGStore{db: db}
}

// EnsureVisitor returns the visitor ID for a fingerprint, creating the row
// on first sight and touching last_seen_at otherwise.
func (s *PGStore) EnsureVisitor(ctx context.Context, fingerprint string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.db.QueryRow(ctx, `
		INSERT INTO visitors (fingerprint) VALUES ($1)
		ON CONFLICT (fingerprint) DO UPDATE SET last_seen_at = now()
		RETURNING id`,
		fingerprint,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("ensure visitor: %w", err)
	}
	return id, nil
}

func (s *PGStore) UploadCount(ctx context.Context, id identity.Identity) (int, error) {
	table := "visitors"
	if id.IsAccount() {
		table = "users"
	}

	var count int
	err := s.db.QueryRow(ctx,
		"SELECT upload_count FROM "+table+" WHERE id = $1", id.ID,
	).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		// Unknown identity (e.g. ephemeral visitor): nothing used yet.
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get upload count: %w", err)
	}
	return count, nil
}

// IncrementUploads bumps the counter atomically and returns the new value.
func (s *PGStore) IncrementUploads(ctx context.Context, id identity.Identity) (int, error) {
	if id.IsAccount() {
		var count int
		err := s.db.QueryRow(ctx,
			"UPDATE users SET upload_count = upload_count + 1 WHERE id = $1 RETURNING upload_count",
			id.ID,
		).Scan(&count)
		if err != nil {
			return 0, fmt.Errorf("increment account uploads: %w", err)
		}
		return count, nil
	}

	// Visitors handed an ephemeral ID may have no row yet.
	var count int
	err := s.db.QueryRow(ctx, `
		INSERT INTO visitors (id, fingerprint, upload_count) VALUES ($1, 'adhoc-' || $1::text, 1)
		ON CONFLICT (id) DO UPDATE SET upload_count = visitors.upload_count + 1, last_seen_at = now()
		RETURNING upload_count`,
		id.ID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment visitor uploads: %w", err)
	}
	return count, nil
}
