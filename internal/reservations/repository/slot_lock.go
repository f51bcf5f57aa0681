package repository

import (
	"context"
	"fmt"
	"time"

	reservationerrors "reservas/internal/reservations/errors"
	"reservas/pkg/config"
	"reservas/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const slotLockCollectionName = "Slot_locks"

// SlotLockRepository provides advisory locks keyed by (space, date). The
// lock is a document whose _id encodes the slot; the unique index on _id
// makes acquisition atomic. A TTL index on expires_at reaps locks left
// behind by crashed holders.
type SlotLockRepository interface {
	Acquire(ctx context.Context, spaceID, date string) (*model.SlotLock, error)
	Release(ctx context.Context, lockID string) error
}

type mongoSlotLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoSlotLockRepository(cfg *config.Config) SlotLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoSlotLockRepository{
		cfg:        cfg,
		collection: db.Collection(slotLockCollectionName),
	}
}

// Acquire returns reservationerrors.ErrSlotContended when another request
// already holds the lock for the same (space, date).
func (r *mongoSlotLockRepository) Acquire(ctx context.Context, spaceID, date string) (*model.SlotLock, error) {
	now := time.Now().UTC()
	lock := &model.SlotLock{
		ID:        model.SlotLockID(spaceID, date),
		ExpiresAt: now.Add(r.cfg.SlotLockTTL),
		CreatedAt: now,
	}

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, reservationerrors.ErrSlotContended
		}
		return nil, fmt.Errorf("failed to acquire slot lock: %w", err)
	}

	return lock, nil
}

func (r *mongoSlotLockRepository) Release(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	if err != nil {
		return fmt.Errorf("failed to release slot lock: %w", err)
	}
	return nil
}
