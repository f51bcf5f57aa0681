package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reservas/pkg/config"
	"reservas/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const SpaceCollectionName = "Spaces"

var ErrSpaceNotFound = errors.New("space not found")

type SpaceRepository interface {
	Create(ctx context.Context, space *model.Space) error
	FindByID(ctx context.Context, id string) (*model.Space, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.Space, error)
	Count(ctx context.Context) (int64, error)
}

type mongoSpaceRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSpaceRepository(cfg *config.Config) SpaceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSpaceRepository{
		cfg:        cfg,
		collection: db.Collection(SpaceCollectionName),
	}
}

func (r *mongoSpaceRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoSpaceRepository) Create(ctx context.Context, space *model.Space) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	space.CreatedAt = now
	space.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, space)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("space with code %s already exists: %w", space.Code, err)
		}
		return fmt.Errorf("failed to create space: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		space.ID = oid.Hex()
	}
	return nil
}

func (r *mongoSpaceRepository) FindByID(ctx context.Context, id string) (*model.Space, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %s", ErrSpaceNotFound, id)
	}

	var space model.Space
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&space)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrSpaceNotFound
		}
		return nil, fmt.Errorf("failed to find space: %w", err)
	}

	return &space, nil
}

func (r *mongoSpaceRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Space, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find spaces: %w", err)
	}
	defer cursor.Close(ctx)

	var spaces []*model.Space
	if err = cursor.All(ctx, &spaces); err != nil {
		return nil, fmt.Errorf("failed to decode spaces: %w", err)
	}

	return spaces, nil
}

func (r *mongoSpaceRepository) Count(ctx context.Context) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count spaces: %w", err)
	}
	return count, nil
}
