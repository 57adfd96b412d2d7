package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gearbook/internal/events"
	itemserrors "gearbook/internal/items/errors"
	itemsrepo "gearbook/internal/items/repository"
	maintenanceerrors "gearbook/internal/maintenance/errors"
	"gearbook/internal/maintenance/repository"
	"gearbook/internal/maintenance/validator"
	"gearbook/pkg/config"
	apperrors "gearbook/pkg/errors"
	"gearbook/pkg/model"
	"gearbook/pkg/sanitizer"
)

type MaintenanceService interface {
	Create(ctx context.Context, entry *model.MaintenanceEntry) error
	GetByID(ctx context.Context, id string) (*model.MaintenanceEntry, error)
	GetByItem(ctx context.Context, itemID string, limit int, offset int64) ([]*model.MaintenanceEntry, int64, error)
	Update(ctx context.Context, id string, updates *model.MaintenanceUpdate) error
	Delete(ctx context.Context, id string) error
	TotalCost(ctx context.Context, itemID string) (string, error)
}

type maintenanceService struct {
	repo      repository.MaintenanceRepository
	itemRepo  itemsrepo.ItemRepository
	validator *validator.MaintenanceValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewMaintenanceService(
	repo repository.MaintenanceRepository,
	itemRepo itemsrepo.ItemRepository,
	validator *validator.MaintenanceValidator,
	publisher events.Publisher,
	cfg *config.Config,
) MaintenanceService {
	return &maintenanceService{
		repo:      repo,
		itemRepo:  itemRepo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *maintenanceService) Create(ctx context.Context, entry *model.MaintenanceEntry) error {
	s.applyDefaults(entry)
	s.sanitize(entry)
	if err := s.validate(entry); err != nil {
		return err
	}

	// Maintenance logs must point at a real item; a typo'd item_id
	// would otherwise produce an orphaned log.
	if _, err := s.itemRepo.FindByID(ctx, entry.ItemID); err != nil {
		if errors.Is(err, itemserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Item", entry.ItemID)
		}
		if errors.Is(err, itemserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid item ID format")
		}
		return apperrors.Internal("Failed to verify item existence", err)
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.cfg.Log.Error("Failed to create maintenance entry", "item_id", entry.ItemID, "error", err)
		return apperrors.Internal("Failed to create maintenance entry", err)
	}

	s.publish(ctx, model.EventMaintenanceLogged, entry.ItemID, model.MaintenanceEvent{
		ItemID:      entry.ItemID,
		EntryID:     entry.ID,
		Date:        entry.Date,
		Description: entry.Description,
		Cost:        entry.Cost,
	})

	s.cfg.Log.Info("Maintenance entry created successfully",
		"id", entry.ID,
		"item_id", entry.ItemID,
		"date", entry.Date,
	)
	return nil
}

func (s *maintenanceService) GetByID(ctx context.Context, id string) (*model.MaintenanceEntry, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Maintenance entry ID cannot be empty")
	}

	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.translateRepoError(err, id)
	}

	return entry, nil
}

func (s *maintenanceService) GetByItem(ctx context.Context, itemID string, limit int, offset int64) ([]*model.MaintenanceEntry, int64, error) {
	if itemID == "" {
		return nil, 0, apperrors.InvalidInput("Item ID cannot be empty")
	}

	var count int64
	var entries []*model.MaintenanceEntry
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByItem(ctx, itemID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count maintenance entries", "item_id", itemID, "error", errCount)
			errCount = apperrors.Internal("Failed to count maintenance entries", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		entries, errFind = s.repo.FindByItem(ctx, itemID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list maintenance entries", "item_id", itemID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve maintenance entries", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return entries, count, nil
}

func (s *maintenanceService) Update(ctx context.Context, id string, updates *model.MaintenanceUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Maintenance entry ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return s.translateRepoError(err, id)
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Maintenance update validation failed", "id", id, "error", err)
		return apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return err
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		s.cfg.Log.Error("Failed to update maintenance entry", "id", id, "error", err)
		return s.translateRepoError(err, id)
	}

	s.cfg.Log.Info("Maintenance entry updated successfully", "id", id)
	return nil
}

func (s *maintenanceService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Maintenance entry ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.translateRepoError(err, id)
	}

	s.cfg.Log.Info("Maintenance entry deleted successfully", "id", id)
	return nil
}

// TotalCost sums the item's maintenance costs as a decimal string.
// Entries without a cost count as zero.
func (s *maintenanceService) TotalCost(ctx context.Context, itemID string) (string, error) {
	if itemID == "" {
		return "", apperrors.InvalidInput("Item ID cannot be empty")
	}

	count, err := s.repo.CountByItem(ctx, itemID)
	if err != nil {
		return "", apperrors.Internal("Failed to count maintenance entries", err)
	}

	entries, err := s.repo.FindByItem(ctx, itemID, int(count), 0)
	if err != nil {
		return "", apperrors.Internal("Failed to retrieve maintenance entries", err)
	}

	total := decimal.Zero
	for _, entry := range entries {
		if entry.Cost == "" {
			continue
		}
		cost, err := decimal.NewFromString(entry.Cost)
		if err != nil {
			s.cfg.Log.Warn("Skipping unparseable maintenance cost",
				"entry_id", entry.ID,
				"cost", entry.Cost,
			)
			continue
		}
		total = total.Add(cost)
	}

	return total.StringFixed(2), nil
}

// --- Helpers ---

func (s *maintenanceService) applyDefaults(entry *model.MaintenanceEntry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
}

func (s *maintenanceService) sanitize(entry *model.MaintenanceEntry) {
	entry.Description = sanitizer.TrimAndNormalize(entry.Description)
	entry.PerformedBy = sanitizer.NormalizeName(entry.PerformedBy)
}

func (s *maintenanceService) mergeUpdates(existing *model.MaintenanceEntry, updates *model.MaintenanceUpdate) *model.MaintenanceEntry {
	merged := *existing

	if updates.Date != "" {
		merged.Date = updates.Date
	}
	if updates.Description != "" {
		merged.Description = updates.Description
	}
	if updates.Cost != nil {
		merged.Cost = *updates.Cost
	}
	if updates.PerformedBy != nil {
		merged.PerformedBy = *updates.PerformedBy
	}

	return &merged
}

func (s *maintenanceService) validate(entry *model.MaintenanceEntry) error {
	if err := s.validator.Validate(entry); err != nil {
		s.cfg.Log.Warn("Maintenance entry validation failed", "error", err)
		return apperrors.Validation("Maintenance entry validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

func (s *maintenanceService) translateRepoError(err error, id string) error {
	if errors.Is(err, maintenanceerrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Maintenance entry", id)
	}
	if errors.Is(err, maintenanceerrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid maintenance entry ID format")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to retrieve maintenance entry", err)
}

func (s *maintenanceService) publish(ctx context.Context, eventType, key string, payload any) {
	if err := s.publisher.Publish(ctx, eventType, key, payload); err != nil {
		s.cfg.Log.Error("Failed to publish event", "event_type", eventType, "key", key, "error", err)
	}
}
