package mongo

import (
	"context"
	"time"

	"github.com/resumeforge/resumeforge/internal/domain"
	"github.com/resumeforge/resumeforge/internal/store"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type usersRepo struct {
	col *mongo.Collection
}

// userDoc is the persisted shape of a user record.
type userDoc struct {
	ID           string `bson:"_id"`
	Name         string `bson:"name"`
	Email        string `bson:"email"`
	PasswordHash string `bson:"password_hash"`

	IsEmailVerified bool `bson:"is_email_verified"`

	EmailVerificationOTP     *string    `bson:"email_verification_otp,omitempty"`
	EmailVerificationExpires *time.Time `bson:"email_verification_expires,omitempty"`

	PasswordResetOTP     *string    `bson:"password_reset_otp,omitempty"`
	PasswordResetExpires *time.Time `bson:"password_reset_expires,omitempty"`

	ResumeData []byte `bson:"resume_data,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toUserDoc(u domain.User) userDoc {
	return userDoc{
		ID:                       u.ID,
		Name:                     u.Name,
		Email:                    u.Email,
		PasswordHash:             u.PasswordHash,
		IsEmailVerified:          u.IsEmailVerified,
		EmailVerificationOTP:     u.EmailVerificationOTP,
		EmailVerificationExpires: u.EmailVerificationExpires,
		PasswordResetOTP:         u.PasswordResetOTP,
		PasswordResetExpires:     u.PasswordResetExpires,
		ResumeData:               u.ResumeData,
		CreatedAt:                u.CreatedAt,
		UpdatedAt:                u.UpdatedAt,
	}
}

func (d userDoc) toDomain() domain.User {
	return domain.User{
		ID:                       d.ID,
		Name:                     d.Name,
		Email:                    d.Email,
		PasswordHash:             d.PasswordHash,
		IsEmailVerified:          d.IsEmailVerified,
		EmailVerificationOTP:     d.EmailVerificationOTP,
		EmailVerificationExpires: d.EmailVerificationExpires,
		PasswordResetOTP:         d.PasswordResetOTP,
		PasswordResetExpires:     d.PasswordResetExpires,
		ResumeData:               d.ResumeData,
		CreatedAt:                d.CreatedAt,
		UpdatedAt:                d.UpdatedAt,
	}
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.col.InsertOne(ctx, toUserDoc(u))
	if mongo.IsDuplicateKeyError(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *usersRepo) findOne(ctx context.Context, filter bson.M) (domain.User, error) {
	var d userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return d.toDomain(), nil
}

func (r *usersRepo) SetEmailVerificationOTP(ctx context.Context, userID, code string, expires time.Time) error {
	return r.updateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{
			"email_verification_otp":     code,
			"email_verification_expires": expires,
			"updated_at":                 time.Now().UTC(),
		},
	})
}

func (r *usersRepo) ConsumeEmailVerificationOTP(ctx context.Context, email, code string, now time.Time) error {
	// Match email + code + unexpired and clear the pair in one
	// findAndModify, the same shape as the sqlite single UPDATE.
	return r.updateOne(ctx, bson.M{
		"email":                      email,
		"email_verification_otp":     code,
		"email_verification_expires": bson.M{"$gt": now},
	}, bson.M{
		"$set": bson.M{
			"is_email_verified": true,
			"updated_at":        now,
		},
		"$unset": bson.M{
			"email_verification_otp":     "",
			"email_verification_expires": "",
		},
	})
}

func (r *usersRepo) SetPasswordResetOTP(ctx context.Context, userID, code string, expires time.Time) error {
	return r.updateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{
			"password_reset_otp":     code,
			"password_reset_expires": expires,
			"updated_at":             time.Now().UTC(),
		},
	})
}

func (r *usersRepo) ConsumePasswordResetOTP(ctx context.Context, email, code, newPasswordHash string, now time.Time) error {
	return r.updateOne(ctx, bson.M{
		"email":                  email,
		"password_reset_otp":     code,
		"password_reset_expires": bson.M{"$gt": now},
	}, bson.M{
		"$set": bson.M{
			"password_hash": newPasswordHash,
			"updated_at":    now,
		},
		"$unset": bson.M{
			"password_reset_otp":     "",
			"password_reset_expires": "",
		},
	})
}

func (r *usersRepo) UpdateResumeData(ctx context.Context, userID string, data []byte) error {
	return r.updateOne(ctx, bson.M{"_id": userID}, bson.M{
		"$set": bson.M{
			"resume_data": data,
			"updated_at":  time.Now().UTC(),
		},
	})
}

func (r *usersRepo) GetResumeData(ctx context.Context, userID string) ([]byte, error) {
	u, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return u.ResumeData, nil
}

func (r *usersRepo) ClearExpiredOTPs(ctx context.Context, before time.Time) error {
	_, err := r.col.UpdateMany(ctx,
		bson.M{"email_verification_expires": bson.M{"$lt": before}},
		bson.M{"$unset": bson.M{
			"email_verification_otp":     "",
			"email_verification_expires": "",
		}},
	)
	if err != nil {
		return err
	}
	_, err = r.col.UpdateMany(ctx,
		bson.M{"password_reset_expires": bson.M{"$lt": before}},
		bson.M{"$unset": bson.M{
			"password_reset_otp":     "",
			"password_reset_expires": "",
		}},
	)
	return err
}

func (r *usersRepo) CountUsers(ctx context.Context) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{})
}

func (r *usersRepo) updateOne(ctx context.Context, filter, update bson.M) error {
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}
