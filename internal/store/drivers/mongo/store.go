// Package mongo is the MongoDB store driver. It mirrors the sqlite driver's
// behaviour; OTP consumption uses single-document findAndModify operations
// so the match-and-clear step stays atomic without transactions.
package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/resumeforge/resumeforge/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection   = "users"
	resumesCollection = "resumes"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewStore connects to the MongoDB deployment at uri and selects dbName.
func NewStore(ctx context.Context, uri, dbName string) (*Store, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(10).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	return &Store{client: client, db: client.Database(dbName)}, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// ApplyMigrations ensures the indexes the queries depend on. Mongo is
// schemaless, so this is the whole migration story.
func (s *Store) ApplyMigrations() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := s.db.Collection(usersCollection)
	_, err := users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	resumes := s.db.Collection(resumesCollection)
	_, err = resumes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "updated_at", Value: -1}},
	})
	return err
}

func (s *Store) Users() store.Users {
	return &usersRepo{col: s.db.Collection(usersCollection)}
}

func (s *Store) Resumes() store.Resumes {
	return &resumesRepo{col: s.db.Collection(resumesCollection)}
}

func mapNotFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}
