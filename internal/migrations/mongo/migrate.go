package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"reservas/internal/migrations/mongo/validators"
	"reservas/pkg/model"
)

var (
	ReservationsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "space_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "state_id", Value: 1},
			{Key: "start_time", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "date", Value: -1},
		}},
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	StatesIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	SpacesIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	NotificationsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "read", Value: 1},
			{Key: "created_at", Value: -1},
		}},
	}

	// Expired locks are reaped by Mongo so a crashed approval cannot wedge a
	// slot forever.
	SlotLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running reservations Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Reservations": {
			Indexes:   ReservationsIndexes,
			Validator: validators.ReservationValidator,
		},
		"Reservation_states": {
			Indexes:   StatesIndexes,
			Validator: validators.StateValidator,
		},
		"Spaces": {
			Indexes:   SpacesIndexes,
			Validator: validators.SpaceValidator,
		},
		"Notifications": {
			Indexes:   NotificationsIndexes,
			Validator: validators.NotificationValidator,
		},
		"Slot_locks": {
			Indexes:   SlotLocksIndexes,
			Validator: validators.SlotLockValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	if err := seedStates(ctx, db); err != nil {
		return fmt.Errorf("failed to seed reservation states: %w", err)
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

// seedStates upserts the lifecycle states the engine depends on. Existing
// documents keep their ids and any customized display fields.
func seedStates(ctx context.Context, db *mongo.Database) error {
	coll := db.Collection("Reservation_states")

	states := []model.ReservationState{
		{Name: model.StatePending, ColorHex: "#f0ad4e", AllowsEdit: true, IsFinal: false, SortOrder: 1},
		{Name: model.StateApproved, ColorHex: "#5cb85c", AllowsEdit: false, IsFinal: false, SortOrder: 2},
		{Name: model.StateRejected, ColorHex: "#d9534f", AllowsEdit: false, IsFinal: true, SortOrder: 3},
		{Name: model.StateCancelled, ColorHex: "#777777", AllowsEdit: false, IsFinal: true, SortOrder: 4},
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	for _, state := range states {
		filter := bson.M{"name": state.Name}
		update := bson.M{
			"$setOnInsert": bson.M{
				"name":        state.Name,
				"color_hex":   state.ColorHex,
				"allows_edit": state.AllowsEdit,
				"is_final":    state.IsFinal,
				"sort_order":  state.SortOrder,
				"created_at":  now,
				"updated_at":  now,
			},
		}
		opts := options.Update().SetUpsert(true)
		if _, err := coll.UpdateOne(ctx, filter, update, opts); err != nil {
			return fmt.Errorf("upserting state %s: %w", state.Name, err)
		}
	}

	fmt.Println("🌱 Seeded reservation states")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
