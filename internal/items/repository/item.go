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

	itemserrors "gearbook/internal/items/errors"
	"gearbook/pkg/config"
	mongotx "gearbook/pkg/db/mongo"
	"gearbook/pkg/model"
)

const (
	CollectionName = "Items"
)

type mongoItemRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, id string) (*model.Item, error)
	FindAll(ctx context.Context, category, status string, limit int, offset int64) ([]*model.Item, error)
	Count(ctx context.Context, category, status string) (int64, error)
	Update(ctx context.Context, id string, item *model.Item) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id string) error
	FindBySerial(ctx context.Context, serial string) (*model.Item, error)
	FindCheckedOut(ctx context.Context) ([]*model.Item, error)
	SetCheckout(ctx context.Context, id, to, date, dueBack string) error
	ClearCheckout(ctx context.Context, id string) error
	AddReservation(ctx context.Context, itemID string, reservation *model.Reservation) error
	UpdateReservation(ctx context.Context, itemID string, reservation *model.Reservation) error
	RemoveReservation(ctx context.Context, itemID, reservationID string) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoItemRepository(cfg *config.Config) ItemRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoItemRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction. A SessionContext cannot be wrapped without breaking
// transaction semantics, so it is returned unchanged with a no-op
// cancel.
func (r *mongoItemRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
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
		return fmt.Errorf("%w: %s", itemserrors.ErrInvalidID, id)
	}
	return nil
}

func (r *mongoItemRepository) Create(ctx context.Context, item *model.Item) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	item.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

func (r *mongoItemRepository) FindByID(ctx context.Context, id string) (*model.Item, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	if err := validateID(id); err != nil {
		return nil, err
	}

	var item model.Item
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, itemserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find item: %w", err)
	}

	return &item, nil
}

func (r *mongoItemRepository) FindAll(ctx context.Context, category, status string, limit int, offset int64) ([]*model.Item, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, buildListFilter(category, status), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*model.Item
	if err = cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode items: %w", err)
	}

	return items, nil
}

func (r *mongoItemRepository) Count(ctx context.Context, category, status string) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, buildListFilter(category, status))
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

func buildListFilter(category, status string) bson.M {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}
	if status != "" {
		filter["status"] = status
	}
	return filter
}

// Update rewrites the descriptive fields only. Checkout state and
// reservations have dedicated operations so a stale PATCH can never
// clobber them.
func (r *mongoItemRepository) Update(ctx context.Context, id string, item *model.Item) (*mongo.UpdateResult, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if err := validateID(id); err != nil {
		return nil, err
	}

	update := bson.M{
		"$set": bson.M{
			"name":               item.Name,
			"category":           item.Category,
			"serial_number":      item.SerialNumber,
			"location":           item.Location,
			"status":             item.Status,
			"purchase_date":      item.PurchaseDate,
			"purchase_price":     item.PurchasePrice,
			"salvage_value":      item.SalvageValue,
			"useful_life_months": item.UsefulLifeMonths,
			"notes":              item.Notes,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	if result.MatchedCount == 0 {
		return nil, itemserrors.ErrNotFound
	}

	return result, nil
}

func (r *mongoItemRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if err := validateID(id); err != nil {
		return err
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	if result.DeletedCount == 0 {
		return itemserrors.ErrNotFound
	}

	return nil
}

// FindBySerial matches the normalized serial exactly. Serials are
// uppercased before storage, so this lookup is effectively
// case-insensitive.
func (r *mongoItemRepository) FindBySerial(ctx context.Context, serial string) (*model.Item, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var item model.Item
	err := r.collection.FindOne(ctx, bson.M{"serial_number": serial}).Decode(&item)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, itemserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find item by serial: %w", err)
	}

	return &item, nil
}

func (r *mongoItemRepository) FindCheckedOut(ctx context.Context) ([]*model.Item, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "due_back", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"status": model.StatusCheckedOut}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find checked-out items: %w", err)
	}
	defer cursor.Close(ctx)

	var items []*model.Item
	if err = cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode checked-out items: %w", err)
	}

	return items, nil
}

func (r *mongoItemRepository) SetCheckout(ctx context.Context, id, to, date, dueBack string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if err := validateID(id); err != nil {
		return err
	}

	set := bson.M{
		"status":           model.StatusCheckedOut,
		"checked_out_to":   to,
		"checked_out_date": date,
	}
	update := bson.M{"$set": set}
	if dueBack != "" {
		set["due_back"] = dueBack
	} else {
		update["$unset"] = bson.M{"due_back": ""}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set checkout: %w", err)
	}
	if result.MatchedCount == 0 {
		return itemserrors.ErrNotFound
	}
	return nil
}

func (r *mongoItemRepository) ClearCheckout(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if err := validateID(id); err != nil {
		return err
	}

	update := bson.M{
		"$set": bson.M{"status": model.StatusAvailable},
		"$unset": bson.M{
			"checked_out_to":   "",
			"checked_out_date": "",
			"due_back":         "",
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to clear checkout: %w", err)
	}
	if result.MatchedCount == 0 {
		return itemserrors.ErrNotFound
	}
	return nil
}

func (r *mongoItemRepository) AddReservation(ctx context.Context, itemID string, reservation *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if err := validateID(itemID); err != nil {
		return err
	}

	reservation.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	update := bson.M{"$push": bson.M{"reservations": reservation}}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": itemID}, update)
	if err != nil {
		return fmt.Errorf("failed to add reservation: %w", err)
	}
	if result.MatchedCount == 0 {
		return itemserrors.ErrNotFound
	}
	return nil
}

func (r *mongoItemRepository) UpdateReservation(ctx context.Context, itemID string, reservation *model.Reservation) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if err := validateID(itemID); err != nil {
		return err
	}

	filter := bson.M{"_id": itemID, "reservations.id": reservation.ID}
	update := bson.M{"$set": bson.M{"reservations.$": reservation}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	if result.MatchedCount == 0 {
		return itemserrors.ErrReservationNotFound
	}
	return nil
}

func (r *mongoItemRepository) RemoveReservation(ctx context.Context, itemID, reservationID string) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if err := validateID(itemID); err != nil {
		return err
	}

	filter := bson.M{"_id": itemID}
	update := bson.M{"$pull": bson.M{"reservations": bson.M{"id": reservationID}}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to remove reservation: %w", err)
	}
	if result.MatchedCount == 0 {
		return itemserrors.ErrNotFound
	}
	if result.ModifiedCount == 0 {
		return itemserrors.ErrReservationNotFound
	}
	return nil
}

func (r *mongoItemRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
