package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"gearbook/internal/events"
	itemserrors "gearbook/internal/items/errors"
	"gearbook/internal/items/repository"
	"gearbook/internal/items/validator"
	"gearbook/pkg/conflict"
	"gearbook/pkg/config"
	apperrors "gearbook/pkg/errors"
	"gearbook/pkg/model"
	"gearbook/pkg/sanitizer"
)

type ItemService interface {
	Create(ctx context.Context, item *model.Item) error
	GetByID(ctx context.Context, id string) (*model.Item, error)
	GetAll(ctx context.Context, category, status string, limit int, offset int64) ([]*model.Item, int64, error)
	Update(ctx context.Context, id string, updates *model.ItemUpdate) error
	Delete(ctx context.Context, id string) error
	CheckAvailability(ctx context.Context, id, start, end, excludeReservationID string) (model.ConflictResult, error)
	Checkout(ctx context.Context, id string, req *model.CheckoutRequest) (*model.Item, error)
	Checkin(ctx context.Context, id string) (*model.Item, error)
	Overdue(ctx context.Context, asOf string) ([]*model.Item, error)
}

type itemService struct {
	repo      repository.ItemRepository
	validator *validator.ItemValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewItemService(
	repo repository.ItemRepository,
	validator *validator.ItemValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ItemService {
	return &itemService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *itemService) Create(ctx context.Context, item *model.Item) error {
	s.applyDefaults(item)
	s.sanitize(item)
	if err := s.validate(item); err != nil {
		return err
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifySerialUnique(sessCtx, item); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, item); err != nil {
			return apperrors.Internal("Failed to create item", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create item", "error", err)
		return err
	}

	s.cfg.Log.Info("Item created successfully",
		"id", item.ID,
		"name", item.Name,
		"serial_number", item.SerialNumber,
	)
	return nil
}

func (s *itemService) GetByID(ctx context.Context, id string) (*model.Item, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Item ID cannot be empty")
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id)
	}

	return item, nil
}

func (s *itemService) GetAll(ctx context.Context, category, status string, limit int, offset int64) ([]*model.Item, int64, error) {
	var count int64
	var items []*model.Item
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, category, status)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count items", "error", errCount)
			errCount = apperrors.Internal("Failed to count items", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		items, errFind = s.repo.FindAll(ctx, category, status, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list items", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve items", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return items, count, nil
}

func (s *itemService) Update(ctx context.Context, id string, updates *model.ItemUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Item ID cannot be empty")
	}
	if updates.Status == model.StatusCheckedOut {
		return apperrors.InvalidInput("Checkout status is managed by the checkout and checkin endpoints")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.translateRepoError(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Item update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeItemUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifySerialUnique(sessCtx, merged); err != nil {
			return err
		}
		if _, err := s.repo.Update(sessCtx, id, merged); err != nil {
			return apperrors.Internal("Failed to update item", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update item", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Item updated successfully", "id", id)
	return nil
}

func (s *itemService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Item ID cannot be empty")
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.repo.Delete(sessCtx, id); err != nil {
			return s.translateRepoError(err, id)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cfg.Log.Info("Item deleted successfully", "id", id)
	return nil
}

// CheckAvailability runs the conflict check against the item's current
// state. The result is advisory: it reports every colliding reservation
// plus any checkout collision, and never fails on a conflict.
func (s *itemService) CheckAvailability(ctx context.Context, id, start, end, excludeReservationID string) (model.ConflictResult, error) {
	if id == "" {
		return model.ConflictResult{}, apperrors.InvalidInput("Item ID cannot be empty")
	}
	if err := s.validator.ValidateDateRange(start, end); err != nil {
		return model.ConflictResult{}, apperrors.Validation("Invalid date range", map[string]any{"error": err.Error()})
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return model.ConflictResult{}, s.translateRepoError(err, id)
	}

	return conflict.Check(item, start, end, excludeReservationID), nil
}

func (s *itemService) Checkout(ctx context.Context, id string, req *model.CheckoutRequest) (*model.Item, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Item ID cannot be empty")
	}

	req.To = sanitizer.NormalizeName(req.To)
	if err := s.validator.ValidateCheckout(req); err != nil {
		s.cfg.Log.Warn("Checkout validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid checkout request", map[string]any{"error": err.Error()})
	}

	var itemName string
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		item, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.translateRepoError(err, id)
		}
		itemName = item.Name

		if item.Status == model.StatusCheckedOut {
			return apperrors.Conflict(fmt.Sprintf("Item is already checked out to %s", item.CheckedOutTo))
		}
		if item.Status == model.StatusRetired {
			return apperrors.Conflict("Retired items cannot be checked out")
		}

		// An open-ended checkout blocks the item indefinitely, so it is
		// checked against reservations from the checkout date alone.
		windowEnd := req.DueBack
		if windowEnd == "" {
			windowEnd = req.Date
		}
		if collisions := conflict.ConflictingReservations(item.Reservations, req.Date, windowEnd, ""); len(collisions) > 0 {
			return apperrors.Conflict("Checkout period collides with existing reservations").
				WithDetails(map[string]any{"reservations": collisions})
		}

		if err := s.repo.SetCheckout(sessCtx, id, req.To, req.Date, req.DueBack); err != nil {
			return apperrors.Internal("Failed to check out item", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to check out item", "id", id, "error", err)
		return nil, err
	}

	s.publish(ctx, model.EventItemCheckedOut, id, model.CheckoutEvent{
		ItemID:   id,
		ItemName: itemName,
		To:       req.To,
		Date:     req.Date,
		DueBack:  req.DueBack,
	})

	s.cfg.Log.Info("Item checked out",
		"id", id,
		"to", req.To,
		"date", req.Date,
		"due_back", req.DueBack,
	)
	return s.GetByID(ctx, id)
}

func (s *itemService) Checkin(ctx context.Context, id string) (*model.Item, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Item ID cannot be empty")
	}

	var previous model.CheckoutEvent
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		item, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.translateRepoError(err, id)
		}
		if item.Status != model.StatusCheckedOut {
			return apperrors.Conflict("Item is not checked out")
		}

		previous = model.CheckoutEvent{
			ItemID:   id,
			ItemName: item.Name,
			To:       item.CheckedOutTo,
			Date:     item.CheckedOutDate,
			DueBack:  item.DueBack,
		}

		if err := s.repo.ClearCheckout(sessCtx, id); err != nil {
			return apperrors.Internal("Failed to check in item", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to check in item", "id", id, "error", err)
		return nil, err
	}

	s.publish(ctx, model.EventItemCheckedIn, id, previous)

	s.cfg.Log.Info("Item checked in", "id", id, "was_checked_out_to", previous.To)
	return s.GetByID(ctx, id)
}

// Overdue lists checked-out items whose due-back date has passed as of
// the given date. An empty asOf means today.
func (s *itemService) Overdue(ctx context.Context, asOf string) ([]*model.Item, error) {
	if asOf == "" {
		asOf = time.Now().UTC().Format("2006-01-02")
	} else if err := s.validator.ValidateDateRange(asOf, asOf); err != nil {
		return nil, apperrors.Validation("Invalid as_of date", map[string]any{"error": err.Error()})
	}

	checkedOut, err := s.repo.FindCheckedOut(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list checked-out items", "error", err)
		return nil, apperrors.Internal("Failed to retrieve checked-out items", err)
	}

	overdue := []*model.Item{}
	for _, item := range checkedOut {
		if conflict.IsOverdue(item, asOf) {
			overdue = append(overdue, item)
		}
	}
	return overdue, nil
}

// --- Helpers ---

func (s *itemService) applyDefaults(item *model.Item) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.Status == "" {
		item.Status = model.StatusAvailable
	}
	if item.Reservations == nil {
		item.Reservations = []model.Reservation{}
	}
	if item.PurchasePrice != "" && item.UsefulLifeMonths == 0 {
		item.UsefulLifeMonths = s.cfg.DefaultUsefulLifeMonths
	}
}

func (s *itemService) sanitize(item *model.Item) {
	item.Name = sanitizer.NormalizeName(item.Name)
	item.Category = sanitizer.NormalizeName(item.Category)
	item.SerialNumber = sanitizer.NormalizeSerial(item.SerialNumber)
	item.Location = sanitizer.NormalizeName(item.Location)
	item.CheckedOutTo = sanitizer.NormalizeName(item.CheckedOutTo)
	for i := range item.Reservations {
		item.Reservations[i].Project = sanitizer.NormalizeName(item.Reservations[i].Project)
		item.Reservations[i].User = sanitizer.NormalizeName(item.Reservations[i].User)
		item.Reservations[i].Location = sanitizer.NormalizeName(item.Reservations[i].Location)
	}
}

func (s *itemService) mergeItemUpdates(existing *model.Item, updates *model.ItemUpdate) *model.Item {
	merged := *existing

	if updates.Name != "" {
		merged.Name = updates.Name
	}
	if updates.Category != "" {
		merged.Category = updates.Category
	}
	if updates.SerialNumber != "" {
		merged.SerialNumber = updates.SerialNumber
	}
	if updates.Location != "" {
		merged.Location = updates.Location
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.PurchaseDate != "" {
		merged.PurchaseDate = updates.PurchaseDate
	}
	if updates.PurchasePrice != "" {
		merged.PurchasePrice = updates.PurchasePrice
	}
	if updates.SalvageValue != "" {
		merged.SalvageValue = updates.SalvageValue
	}
	if updates.UsefulLifeMonths != nil {
		merged.UsefulLifeMonths = *updates.UsefulLifeMonths
	}
	if updates.Notes != nil {
		merged.Notes = *updates.Notes
	}

	return &merged
}

func (s *itemService) validate(item *model.Item) error {
	if err := s.validator.Validate(item); err != nil {
		s.cfg.Log.Warn("Item validation failed", "error", err)
		return apperrors.Validation("Item validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// verifySerialUnique guards the serial number against duplicates. It
// runs inside the same transaction as the write so two concurrent
// creates cannot both pass the check.
func (s *itemService) verifySerialUnique(ctx context.Context, item *model.Item) error {
	existing, err := s.repo.FindBySerial(ctx, item.SerialNumber)
	if err != nil {
		if errors.Is(err, itemserrors.ErrNotFound) {
			return nil
		}
		return apperrors.Internal("Failed to check serial number uniqueness", err)
	}
	if existing.ID != item.ID {
		return apperrors.Conflict(fmt.Sprintf("Serial number %s is already registered", item.SerialNumber))
	}
	return nil
}

func (s *itemService) translateRepoError(err error, id string) error {
	if errors.Is(err, itemserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Item", id)
	}
	if errors.Is(err, itemserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid item ID format")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to retrieve item", err)
}

func (s *itemService) publish(ctx context.Context, eventType, key string, payload any) {
	if err := s.publisher.Publish(ctx, eventType, key, payload); err != nil {
		s.cfg.Log.Error("Failed to publish event", "event_type", eventType, "key", key, "error", err)
	}
}
