package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	maintenanceerrors "gearbook/internal/maintenance/errors"
	"gearbook/pkg/config"
	"gearbook/pkg/model"
)

const (
	CollectionName = "MaintenanceLogs"
)

type mongoMaintenanceRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
}

type MaintenanceRepository interface {
	Create(ctx context.Context, entry *model.MaintenanceEntry) error
	FindByID(ctx context.Context, id string) (*model.MaintenanceEntry, error)
	FindByItem(ctx context.Context, itemID string, limit int, offset int64) ([]*model.MaintenanceEntry, error)
	CountByItem(ctx context.Context, itemID string) (int64, error)
	Update(ctx context.Context, id string, entry *model.MaintenanceEntry) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
}

func NewMongoMaintenanceRepository(cfg *config.Config) MaintenanceRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMaintenanceRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoMaintenanceRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func validateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", maintenanceerrors.ErrInvalidID, id)
	}
	return nil
}

func (r *mongoMaintenanceRepository) Create(ctx context.Context, entry *model.MaintenanceEntry) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	entry.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to create maintenance entry: %w", err)
	}
	return nil
}

func (r *mongoMaintenanceRepository) FindByID(ctx context.Context, id string) (*model.MaintenanceEntry, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if err := validateID(id); err != nil {
		return nil, err
	}

	var entry model.MaintenanceEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, maintenanceerrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find maintenance entry: %w", err)
	}

	return &entry, nil
}

func (r *mongoMaintenanceRepository) FindByItem(ctx context.Context, itemID string, limit int, offset int64) ([]*model.MaintenanceEntry, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"item_id": itemID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find maintenance entries: %w", err)
	}
	defer cursor.Close(ctx)

	var entries []*model.MaintenanceEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode maintenance entries: %w", err)
	}

	return entries, nil
}

func (r *mongoMaintenanceRepository) CountByItem(ctx context.Context, itemID string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"item_id": itemID})
	if err != nil {
		return 0, fmt.Errorf("failed to count maintenance entries: %w", err)
	}
	return count, nil
}

func (r *mongoMaintenanceRepository) Update(ctx context.Context, id string, entry *model.MaintenanceEntry) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if err := validateID(id); err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": bson.M{
			"date":         entry.Date,
			"description":  entry.Description,
			"cost":         entry.Cost,
			"performed_by": entry.PerformedBy,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update maintenance entry: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, maintenanceerrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoMaintenanceRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if err := validateID(id); err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete maintenance entry: %w", err)
	}

	if result.DeletedCount == 0 {
		return maintenanceerrors.ErrNotFound
	}

	return nil
}
