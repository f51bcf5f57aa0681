package repository

import (
	"context"
	"errors"
	"fmt"

	"reservas/pkg/config"
	"reservas/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const StateCollectionName = "Reservation_states"

var ErrStateNotFound = errors.New("reservation state not found")

type StateRepository interface {
	FindByID(ctx context.Context, id string) (*model.ReservationState, error)
	FindByName(ctx context.Context, name string) (*model.ReservationState, error)
	FindAll(ctx context.Context) ([]*model.ReservationState, error)
}

type mongoStateRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoStateRepository(cfg *config.Config) StateRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoStateRepository{
		cfg:        cfg,
		collection: db.Collection(StateCollectionName),
	}
}

func (r *mongoStateRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.cfg.ReadTimeout)
}

func (r *mongoStateRepository) FindByID(ctx context.Context, id string) (*model.ReservationState, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid id %s", ErrStateNotFound, id)
	}

	var state model.ReservationState
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&state)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to find reservation state: %w", err)
	}

	return &state, nil
}

func (r *mongoStateRepository) FindByName(ctx context.Context, name string) (*model.ReservationState, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var state model.ReservationState
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&state)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("%w: %s", ErrStateNotFound, name)
		}
		return nil, fmt.Errorf("failed to find reservation state: %w", err)
	}

	return &state, nil
}

func (r *mongoStateRepository) FindAll(ctx context.Context) ([]*model.ReservationState, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "sort_order", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find reservation states: %w", err)
	}
	defer cursor.Close(ctx)

	var states []*model.ReservationState
	if err = cursor.All(ctx, &states); err != nil {
		return nil, fmt.Errorf("failed to decode reservation states: %w", err)
	}

	return states, nil
}
