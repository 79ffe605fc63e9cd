package service

import (
	"context"
	"testing"
	"time"

	"github.com/resumeforge/resumeforge/internal/domain"
	"github.com/resumeforge/resumeforge/internal/store"
	"github.com/resumeforge/resumeforge/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestResumes(t *testing.T) (*ResumeService, store.Store) {
	t.Helper()
	st := newTestStore(t)
	return &ResumeService{Store: st}, st
}

// seedUser inserts a bare user row so FK constraints are satisfied.
func seedUser(t *testing.T, st store.Store) string {
	t.Helper()

	now := time.Now().UTC()
	u := domain.User{
		ID:           idx.New().String(),
		Name:         "Owner",
		Email:        idx.New().String() + "@example.com",
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u.ID
}

func fullData() domain.ResumeData {
	return domain.ResumeData{
		PersonalInfo: domain.PersonalInfo{FullName: "Ada Lovelace", Email: "ada@example.com"},
		Experience:   []domain.Experience{{ID: "1", Company: "Analytical Engines", Position: "Engineer"}},
		Skills:       []domain.Skill{{ID: "1", Name: "Mathematics", Level: "expert"}},
	}
}

func TestResumeCreate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty title falls back to default", func(t *testing.T) {
		svc, st := newTestResumes(t)
		userID := seedUser(t, st)

		r, err := svc.Create(ctx, userID, "", domain.ResumeData{})
		require.NoError(t, err)
		require.Equal(t, domain.DefaultTitle, r.Title)
		require.Equal(t, domain.StatusDraft, r.Status)
		require.Zero(t, r.Sections)
	})

	t.Run("three populated sections mark it complete", func(t *testing.T) {
		svc, st := newTestResumes(t)
		userID := seedUser(t, st)

		r, err := svc.Create(ctx, userID, "Engineering CV", fullData())
		require.NoError(t, err)
		require.Equal(t, domain.StatusComplete, r.Status)
		require.Equal(t, 3, r.Sections)

		got, err := svc.Get(ctx, r.ID, userID)
		require.NoError(t, err)
		require.Equal(t, "Ada Lovelace", got.Data.PersonalInfo.FullName)
		require.Equal(t, domain.StatusComplete, got.Status)
	})
}

func TestResumeOwnership(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, st := newTestResumes(t)
	owner := seedUser(t, st)
	stranger := seedUser(t, st)

	r, err := svc.Create(ctx, owner, "Mine", domain.ResumeData{})
	require.NoError(t, err)

	t.Run("get scoped to owner", func(t *testing.T) {
		_, err := svc.Get(ctx, r.ID, stranger)
		require.ErrorIs(t, err, ErrResumeNotFound)
	})

	t.Run("update scoped to owner", func(t *testing.T) {
		_, err := svc.Update(ctx, r.ID, stranger, "Stolen", domain.ResumeData{})
		require.ErrorIs(t, err, ErrResumeNotFound)
	})

	t.Run("delete scoped to owner", func(t *testing.T) {
		require.ErrorIs(t, svc.Delete(ctx, r.ID, stranger), ErrResumeNotFound)

		// Still there for the owner.
		_, err := svc.Get(ctx, r.ID, owner)
		require.NoError(t, err)
	})

	t.Run("list only shows own resumes", func(t *testing.T) {
		list, err := svc.List(ctx, stranger)
		require.NoError(t, err)
		require.Empty(t, list)
	})
}

func TestResumeUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, st := newTestResumes(t)
	userID := seedUser(t, st)

	r, err := svc.Create(ctx, userID, "Draft CV", domain.ResumeData{})
	require.NoError(t, err)
	require.Equal(t, domain.StatusDraft, r.Status)

	t.Run("derived fields recomputed on update", func(t *testing.T) {
		updated, err := svc.Update(ctx, r.ID, userID, "", fullData())
		require.NoError(t, err)
		require.Equal(t, "Draft CV", updated.Title)
		require.Equal(t, domain.StatusComplete, updated.Status)
		require.Equal(t, 3, updated.Sections)
	})

	t.Run("status drops back to draft when sections are removed", func(t *testing.T) {
		updated, err := svc.Update(ctx, r.ID, userID, "Trimmed", domain.ResumeData{})
		require.NoError(t, err)
		require.Equal(t, "Trimmed", updated.Title)
		require.Equal(t, domain.StatusDraft, updated.Status)
		require.Zero(t, updated.Sections)
	})
}

func TestResumeListOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, st := newTestResumes(t)
	userID := seedUser(t, st)

	first, err := svc.Create(ctx, userID, "First", domain.ResumeData{})
	require.NoError(t, err)
	_, err = svc.Create(ctx, userID, "Second", domain.ResumeData{})
	require.NoError(t, err)

	// Touch the first resume so it becomes the most recently updated.
	time.Sleep(10 * time.Millisecond)
	_, err = svc.Update(ctx, first.ID, userID, "First Updated", domain.ResumeData{})
	require.NoError(t, err)

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "First Updated", list[0].Title)
	require.Equal(t, "Second", list[1].Title)
}

func TestResumeDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, st := newTestResumes(t)
	userID := seedUser(t, st)

	r, err := svc.Create(ctx, userID, "Doomed", domain.ResumeData{})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, r.ID, userID))
	_, err = svc.Get(ctx, r.ID, userID)
	require.ErrorIs(t, err, ErrResumeNotFound)

	require.ErrorIs(t, svc.Delete(ctx, r.ID, userID), ErrResumeNotFound)
}

func TestBuilderData(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, st := newTestResumes(t)
	userID := seedUser(t, st)

	t.Run("empty document before first save", func(t *testing.T) {
		data, err := svc.BuilderData(ctx, userID)
		require.NoError(t, err)
		require.Equal(t, domain.ResumeData{}, data)
	})

	t.Run("round trip", func(t *testing.T) {
		require.NoError(t, svc.SaveBuilderData(ctx, userID, fullData()))

		data, err := svc.BuilderData(ctx, userID)
		require.NoError(t, err)
		require.Equal(t, "Ada Lovelace", data.PersonalInfo.FullName)
		require.Len(t, data.Skills, 1)
	})

	t.Run("unknown user", func(t *testing.T) {
		require.ErrorIs(t, svc.SaveBuilderData(ctx, "nope", fullData()), ErrUserNotFound)
	})
}

func TestStats(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, st := newTestResumes(t)
	alice := seedUser(t, st)
	bob := seedUser(t, st)

	_, err := svc.Create(ctx, alice, "Complete", fullData())
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice, "Draft", domain.ResumeData{})
	require.NoError(t, err)
	_, err = svc.Create(ctx, bob, "Another Draft", domain.ResumeData{})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), stats.Users)
	require.Equal(t, int64(3), stats.Resumes)
	require.Equal(t, int64(1), stats.CompleteResumes)
}
