package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"clothing-store/internal/database"
	"clothing-store/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Password  string             `bson:"password"`
	Role      string             `bson:"role"`
	CreatedAt time.Time          `bson:"createdAt"`
}

type mongoUserRepository struct {
	collection *mongo.Collection
	logger     zerolog.Logger
}

// NewMongoUserRepository creates a MongoDB-backed user repository.
func NewMongoUserRepository(db *mongo.Database, logger zerolog.Logger) UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(database.UsersCollection),
		logger:     logger.With().Str("repository", "user").Str("store", "mongodb").Logger(),
	}
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, bson.M{"email": model.NormalizeEmail(email)}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		r.logger.Error().Err(err).Msg("failed to query user")
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	return &model.User{
		ID:           doc.ID.Hex(),
		Email:        doc.Email,
		PasswordHash: doc.Password,
		Role:         doc.Role,
		CreatedAt:    doc.CreatedAt,
	}, nil
}

func (r *mongoUserRepository) Create(ctx context.Context, u *model.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Email:     model.NormalizeEmail(u.Email),
		Password:  u.PasswordHash,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return model.ErrUserExists
		}
		r.logger.Error().Err(err).Msg("failed to insert user")
		return fmt.Errorf("failed to insert user: %w", err)
	}

	u.ID = doc.ID.Hex()
	u.Email = doc.Email
	return nil
}
