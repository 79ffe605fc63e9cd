package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/resumeforge/resumeforge/internal/domain"
	"github.com/resumeforge/resumeforge/internal/store"
	"github.com/resumeforge/resumeforge/pkg/idx"
)

var ErrResumeNotFound = errors.New("resume_not_found")

// ResumeService owns resume CRUD and the builder autosave document. Every
// read and write is scoped by the session's user id at the query level, so
// there is no post-fetch ownership check anywhere.
type ResumeService struct {
	Store store.Store
}

// Create stores a new resume for userID. An empty title falls back to the
// default; derived status/sections are computed before the write.
func (s *ResumeService) Create(ctx context.Context, userID, title string, data domain.ResumeData) (domain.Resume, error) {
	if title == "" {
		title = domain.DefaultTitle
	}

	now := time.Now().UTC()
	r := domain.Resume{
		ID:        idx.New().String(),
		UserID:    userID,
		Title:     title,
		Data:      data,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.Derive()

	if err := s.Store.Resumes().CreateResume(ctx, r); err != nil {
		return domain.Resume{}, fmt.Errorf("create resume: %w", err)
	}
	return r, nil
}

// List returns the caller's resumes, newest first, without documents.
func (s *ResumeService) List(ctx context.Context, userID string) ([]domain.ResumeSummary, error) {
	return s.Store.Resumes().ListResumesByUser(ctx, userID)
}

// Get fetches one owned resume with its full document.
func (s *ResumeService) Get(ctx context.Context, id, userID string) (domain.Resume, error) {
	r, err := s.Store.Resumes().GetResume(ctx, id, userID)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Resume{}, ErrResumeNotFound
	}
	return r, err
}

// Update replaces an owned resume's title and document and recomputes the
// derived fields.
func (s *ResumeService) Update(ctx context.Context, id, userID, title string, data domain.ResumeData) (domain.Resume, error) {
	existing, err := s.Get(ctx, id, userID)
	if err != nil {
		return domain.Resume{}, err
	}

	if title != "" {
		existing.Title = title
	}
	existing.Data = data
	existing.UpdatedAt = time.Now().UTC()
	existing.Derive()

	if err := s.Store.Resumes().UpdateResume(ctx, existing); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Resume{}, ErrResumeNotFound
		}
		return domain.Resume{}, fmt.Errorf("update resume: %w", err)
	}
	return existing, nil
}

// Delete removes an owned resume.
func (s *ResumeService) Delete(ctx context.Context, id, userID string) error {
	err := s.Store.Resumes().DeleteResume(ctx, id, userID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrResumeNotFound
	}
	return err
}

// BuilderData returns the caller's autosave document. A user who never
// saved gets an empty document rather than an error.
func (s *ResumeService) BuilderData(ctx context.Context, userID string) (domain.ResumeData, error) {
	raw, err := s.Store.Users().GetResumeData(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.ResumeData{}, ErrUserNotFound
		}
		return domain.ResumeData{}, err
	}
	if len(raw) == 0 {
		return domain.ResumeData{}, nil
	}

	var data domain.ResumeData
	if err := json.Unmarshal(raw, &data); err != nil {
		return domain.ResumeData{}, fmt.Errorf("decode autosave document: %w", err)
	}
	return data, nil
}

// SaveBuilderData replaces the caller's autosave document. The server
// persists whatever the builder hands it; save cadence is the client's
// business.
func (s *ResumeService) SaveBuilderData(ctx context.Context, userID string, data domain.ResumeData) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode autosave document: %w", err)
	}
	err = s.Store.Users().UpdateResumeData(ctx, userID, raw)
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

// Stats returns the public aggregate counters.
func (s *ResumeService) Stats(ctx context.Context) (domain.Stats, error) {
	users, err := s.Store.Users().CountUsers(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	resumes, err := s.Store.Resumes().CountResumes(ctx)
	if err != nil {
		return domain.Stats{}, err
	}
	complete, err := s.Store.Resumes().CountResumesByStatus(ctx, domain.StatusComplete)
	if err != nil {
		return domain.Stats{}, err
	}
	return domain.Stats{
		Users:           users,
		Resumes:         resumes,
		CompleteResumes: complete,
	}, nil
}
