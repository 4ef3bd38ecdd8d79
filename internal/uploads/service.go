// Package uploads stores per-upload job records so clients can poll status
// and fetch finished transcripts.
package uploads

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clipbrief/clipbrief/internal/identity"
	"github.com/clipbrief/clipbrief/internal/models"
)

var ErrNotFound = errors.New("upload not found")

type Service struct {
	db *pgxpool.Pool
}

func NewService(db *pgxpool.Pool) *Service {
	return &Service{db: db}
}

const uploadCols = "id, user_id, visitor_id, filename, status, transcript, error, created_at, updated_at"

func scanUpload(row pgx.Row) (*models.Upload, error) {
	var u models.Upload
	err := row.Scan(&u.ID, &u.UserID, &u.VisitorID, &u.Filename, &u.Status,
		&u.Transcript, &u.Error, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan upload: %w", err)
	}
	return &u, nil
}

func (s *Service) Create(ctx context.Context, id identity.Identity, filename string) (*models.Upload, error) {
	userCol, visitorCol := identityColumns(id)
	return scanUpload(s.db.QueryRow(ctx,
		`INSERT INTO uploads (user_id, visitor_id, filename) VALUES ($1, $2, $3)
		 RETURNING `+uploadCols,
		userCol, visitorCol, filename,
	))
}

func (s *Service) Get(ctx context.Context, uploadID uuid.UUID) (*models.Upload, error) {
	return scanUpload(s.db.QueryRow(ctx,
		"SELECT "+uploadCols+" FROM uploads WHERE id = $1", uploadID,
	))
}

// GetOwned fetches an upload only if it belongs to the given identity.
func (s *Service) GetOwned(ctx context.Context, id identity.Identity, uploadID uuid.UUID) (*models.Upload, error) {
	ownerCol := "visitor_id"
	if id.IsAccount() {
		ownerCol = "user_id"
	}
	return scanUpload(s.db.QueryRow(ctx,
		"SELECT "+uploadCols+" FROM uploads WHERE id = $1 AND "+ownerCol+" = $2",
		uploadID, id.ID,
	))
}

func (s *Service) ListByIdentity(ctx context.Context, id identity.Identity, limit, offset int) ([]*models.Upload, error) {
	ownerCol := "visitor_id"
	if id.IsAccount() {
		ownerCol = "user_id"
	}

	rows, err := s.db.Query(ctx,
		"SELECT "+uploadCols+" FROM uploads WHERE "+ownerCol+" = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3",
		id.ID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer rows.Close()

	var out []*models.Upload
	for rows.Next() {
		u, err := scanUpload(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Service) MarkProcessing(ctx context.Context, uploadID uuid.UUID) error {
	return s.setStatus(ctx, uploadID, models.UploadProcessing)
}

// Complete stores the transcript and marks the upload done.
func (s *Service) Complete(ctx context.Context, uploadID uuid.UUID, transcript string) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE uploads SET status = $2, transcript = $3, updated_at = now() WHERE id = $1",
		uploadID, models.UploadCompleted, transcript,
	)
	if err != nil {
		return fmt.Errorf("complete upload: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Fail records the failure reason and marks the upload failed.
func (s *Service) Fail(ctx context.Context, uploadID uuid.UUID, reason string) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE uploads SET status = $2, error = $3, updated_at = now() WHERE id = $1",
		uploadID, models.UploadFailed, reason,
	)
	if err != nil {
		return fmt.Errorf("fail upload: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Service) setStatus(ctx context.Context, uploadID uuid.UUID, status models.UploadStatus) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE uploads SET status = $2, updated_at = now() WHERE id = $1",
		uploadID, status,
	)
	if err != nil {
		return fmt.Errorf("set upload status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func identityColumns(id identity.Identity) (userID, visitorID *uuid.UUID) {
	if id.IsAccount() {
		v := id.ID
		return &v, nil
	}
	v := id.ID
	return nil, &v
}
