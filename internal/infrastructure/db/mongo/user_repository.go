package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Hriday2406/NoAI-Backend/internal/core/domain"
)

const usersCollection = "users"

// UserRepository persists user records in MongoDB. The pending OTP lives in
// an embedded subdocument that default reads project away; only
// FindByEmailWithOTP retrieves it.
type UserRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{coll: db.Collection(usersCollection)}
}

type mongoOTP struct {
	Hash      string `bson:"hash"`
	ExpiresAt int64  `bson:"expires_at"`
}

type mongoUser struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Name       string             `bson:"name"`
	Email      string             `bson:"email"`
	OTP        *mongoOTP          `bson:"otp,omitempty"`
	IsVerified bool               `bson:"is_verified"`
	IsActive   bool               `bson:"is_active"`
	Role       string             `bson:"role"`
	CreatedAt  int64              `bson:"created_at"`
	UpdatedAt  int64              `bson:"updated_at"`
}

// withoutOTP is the default projection: the hashed OTP and its expiry never
// leave the database unless a verify step asks for them.
var withoutOTP = bson.M{"otp": 0}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email}, options.FindOne().SetProjection(withoutOTP))
}

func (r *UserRepository) FindByEmailWithOTP(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid}, options.FindOne().SetProjection(withoutOTP))
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toDoc(user)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	doc.ID = res.InsertedID.(primitive.ObjectID)
	return toDomain(doc), nil
}

// Update applies a partial update and returns the post-update record without
// OTP fields. Field semantics are last-write-wins; updated_at always moves.
func (r *UserRepository) Update(ctx context.Context, id string, upd domain.UserUpdate) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC().Unix()}
	unset := bson.M{}

	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Verified != nil {
		set["is_verified"] = *upd.Verified
	}
	switch {
	case upd.ClearOTP:
		unset["otp"] = ""
	case upd.OTP != nil:
		set["otp"] = mongoOTP{Hash: upd.OTP.Hash, ExpiresAt: upd.OTP.ExpiresAt.Unix()}
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutOTP)

	var mu mongoUser
	if err := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return toDomain(mu), nil
}

// EnsureIndexes creates the unique index backing email uniqueness.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.coll.FindOne(ctx, filter, opts...).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return toDomain(mu), nil
}

func toDoc(user *domain.User) mongoUser {
	mu := mongoUser{
		Name:       user.Name,
		Email:      user.Email,
		IsVerified: user.IsVerified,
		IsActive:   user.IsActive,
		Role:       user.Role,
		CreatedAt:  user.CreatedAt.Unix(),
		UpdatedAt:  user.UpdatedAt.Unix(),
	}
	if user.OTP != nil {
		mu.OTP = &mongoOTP{Hash: user.OTP.Hash, ExpiresAt: user.OTP.ExpiresAt.Unix()}
	}
	return mu
}

func toDomain(mu mongoUser) *domain.User {
	user := &domain.User{
		ID:         mu.ID.Hex(),
		Name:       mu.Name,
		Email:      mu.Email,
		IsVerified: mu.IsVerified,
		IsActive:   mu.IsActive,
		Role:       mu.Role,
		CreatedAt:  unixToTime(mu.CreatedAt),
		UpdatedAt:  unixToTime(mu.UpdatedAt),
	}
	if mu.OTP != nil {
		user.OTP = &domain.OTP{Hash: mu.OTP.Hash, ExpiresAt: unixToTime(mu.OTP.ExpiresAt)}
	}
	return user
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
