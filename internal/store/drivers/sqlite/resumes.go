package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/resumeforge/resumeforge/internal/domain"
	"github.com/resumeforge/resumeforge/internal/store"
)

type resumesRepo struct {
	db *sql.DB
}

func (r *resumesRepo) CreateResume(ctx context.Context, res domain.Resume) error {
	data, err := json.Marshal(res.Data)
	if err != nil {
		return fmt.Errorf("sqlite: marshal resume data: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO resumes (id, user_id, title, data, status, sections, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.ID, res.UserID, res.Title, string(data), res.Status, res.Sections,
		res.CreatedAt, res.UpdatedAt,
	)
	return err
}

func (r *resumesRepo) GetResume(ctx context.Context, id, userID string) (domain.Resume, error) {
	var (
		res  domain.Resume
		data string
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, data, status, sections, created_at, updated_at
		FROM resumes WHERE id = ? AND user_id = ?`,
		id, userID,
	).Scan(&res.ID, &res.UserID, &res.Title, &data, &res.Status, &res.Sections,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return domain.Resume{}, mapNotFound(err)
	}

	if err := json.Unmarshal([]byte(data), &res.Data); err != nil {
		return domain.Resume{}, fmt.Errorf("sqlite: unmarshal resume data: %w", err)
	}
	return res, nil
}

func (r *resumesRepo) ListResumesByUser(ctx context.Context, userID string) ([]domain.ResumeSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, status, sections, created_at, updated_at
		FROM resumes WHERE user_id = ?
		ORDER BY updated_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.ResumeSummary
	for rows.Next() {
		var s domain.ResumeSummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.Title, &s.Status, &s.Sections,
			&s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *resumesRepo) UpdateResume(ctx context.Context, res domain.Resume) error {
	data, err := json.Marshal(res.Data)
	if err != nil {
		return fmt.Errorf("sqlite: marshal resume data: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `
		UPDATE resumes
		SET title = ?, data = ?, status = ?, sections = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		res.Title, string(data), res.Status, res.Sections, time.Now().UTC(),
		res.ID, res.UserID,
	)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *resumesRepo) DeleteResume(ctx context.Context, id, userID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM resumes WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireRow(result)
}

func (r *resumesRepo) CountResumes(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM resumes`).Scan(&n)
	return n, err
}

func (r *resumesRepo) CountResumesByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM resumes WHERE status = ?`, status).Scan(&n)
	return n, err
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
