package mongo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/resumeforge/resumeforge/internal/domain"
	"github.com/resumeforge/resumeforge/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type resumesRepo struct {
	col *mongo.Collection
}

type resumeDoc struct {
	ID       string `bson:"_id"`
	UserID   string `bson:"user_id"`
	Title    string `bson:"title"`
	Data     []byte `bson:"data"`
	Status   string `bson:"status"`
	Sections int    `bson:"sections"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toResumeDoc(r domain.Resume) (resumeDoc, error) {
	data, err := json.Marshal(r.Data)
	if err != nil {
		return resumeDoc{}, fmt.Errorf("marshal resume data: %w", err)
	}
	return resumeDoc{
		ID:        r.ID,
		UserID:    r.UserID,
		Title:     r.Title,
		Data:      data,
		Status:    r.Status,
		Sections:  r.Sections,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}, nil
}

func (d resumeDoc) toDomain() (domain.Resume, error) {
	r := domain.Resume{
		ID:        d.ID,
		UserID:    d.UserID,
		Title:     d.Title,
		Status:    d.Status,
		Sections:  d.Sections,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if len(d.Data) > 0 {
		if err := json.Unmarshal(d.Data, &r.Data); err != nil {
			return domain.Resume{}, fmt.Errorf("unmarshal resume data: %w", err)
		}
	}
	return r, nil
}

func (r *resumesRepo) CreateResume(ctx context.Context, res domain.Resume) error {
	doc, err := toResumeDoc(res)
	if err != nil {
		return err
	}
	_, err = r.col.InsertOne(ctx, doc)
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *resumesRepo) GetResume(ctx context.Context, id, userID string) (domain.Resume, error) {
	var d resumeDoc
	err := r.col.FindOne(ctx, bson.M{"_id": id, "user_id": userID}).Decode(&d)
	if err != nil {
		return domain.Resume{}, mapNotFound(err)
	}
	return d.toDomain()
}

func (r *resumesRepo) ListResumesByUser(ctx context.Context, userID string) ([]domain.ResumeSummary, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetProjection(bson.M{"data": 0})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	summaries := make([]domain.ResumeSummary, 0)
	for cur.Next(ctx) {
		var d resumeDoc
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		summaries = append(summaries, domain.ResumeSummary{
			ID:        d.ID,
			UserID:    d.UserID,
			Title:     d.Title,
			Status:    d.Status,
			Sections:  d.Sections,
			CreatedAt: d.CreatedAt,
			UpdatedAt: d.UpdatedAt,
		})
	}
	return summaries, cur.Err()
}

func (r *resumesRepo) UpdateResume(ctx context.Context, res domain.Resume) error {
	doc, err := toResumeDoc(res)
	if err != nil {
		return err
	}
	result, err := r.col.UpdateOne(ctx,
		bson.M{"_id": res.ID, "user_id": res.UserID},
		bson.M{"$set": bson.M{
			"title":      doc.Title,
			"data":       doc.Data,
			"status":     doc.Status,
			"sections":   doc.Sections,
			"updated_at": doc.UpdatedAt,
		}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *resumesRepo) DeleteResume(ctx context.Context, id, userID string) error {
	result, err := r.col.DeleteOne(ctx, bson.M{"_id": id, "user_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *resumesRepo) CountResumes(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *resumesRepo) CountResumesByStatus(ctx context.Context, status string) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"status": status})
}
