package service

import (
	"context"
	"errors"
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

// ReservationService manages the reservations embedded in item
// documents. Every write re-runs the conflict check inside the same
// transaction as the mutation, so two racing requests cannot both pass
// the check and double-book an item.
type ReservationService interface {
	Create(ctx context.Context, itemID string, reservation *model.Reservation) error
	Update(ctx context.Context, itemID, reservationID string, updates *model.ReservationUpdate) (*model.Reservation, error)
	Delete(ctx context.Context, itemID, reservationID string) error
	List(ctx context.Context, itemID string) ([]model.Reservation, error)
}

type reservationService struct {
	repo      repository.ItemRepository
	validator *validator.ItemValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ItemRepository,
	validator *validator.ItemValidator,
	publisher events.Publisher,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, itemID string, reservation *model.Reservation) error {
	if itemID == "" {
		return apperrors.InvalidInput("Item ID cannot be empty")
	}

	s.applyDefaults(reservation)
	s.sanitize(reservation)
	if err := s.validator.ValidateReservation(reservation); err != nil {
		s.cfg.Log.Warn("Reservation validation failed", "item_id", itemID, "error", err)
		return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
	}
	if err := s.checkDurationPolicy(reservation.Start, reservation.End); err != nil {
		return err
	}

	var itemName string
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		item, err := s.repo.FindByID(sessCtx, itemID)
		if err != nil {
			return s.translateRepoError(err, itemID, "")
		}
		itemName = item.Name

		if result := conflict.Check(item, reservation.Start, reservation.End, ""); result.HasConflicts {
			return conflictError(result)
		}

		if err := s.repo.AddReservation(sessCtx, itemID, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create reservation", "item_id", itemID, "error", err)
		return err
	}

	s.publish(ctx, model.EventReservationCreated, itemID, model.ReservationEvent{
		ItemID:        itemID,
		ItemName:      itemName,
		ReservationID: reservation.ID,
		Start:         reservation.Start,
		End:           reservation.End,
		Project:       reservation.Project,
		User:          reservation.User,
	})

	s.cfg.Log.Info("Reservation created successfully",
		"item_id", itemID,
		"reservation_id", reservation.ID,
		"start", reservation.Start,
		"end", reservation.End,
	)
	return nil
}

func (s *reservationService) Update(ctx context.Context, itemID, reservationID string, updates *model.ReservationUpdate) (*model.Reservation, error) {
	if itemID == "" || reservationID == "" {
		return nil, apperrors.InvalidInput("Item ID and reservation ID cannot be empty")
	}

	if err := s.validator.ValidateReservationUpdate(updates); err != nil {
		s.cfg.Log.Warn("Reservation update validation failed",
			"item_id", itemID,
			"reservation_id", reservationID,
			"error", err,
		)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	var merged model.Reservation
	var itemName string
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		item, err := s.repo.FindByID(sessCtx, itemID)
		if err != nil {
			return s.translateRepoError(err, itemID, reservationID)
		}
		itemName = item.Name

		existing := findReservation(item.Reservations, reservationID)
		if existing == nil {
			return apperrors.NotFoundWithID("Reservation", reservationID)
		}

		merged = s.mergeReservationUpdates(existing, updates)
		if err := s.validator.ValidateReservation(&merged); err != nil {
			return apperrors.Validation("Reservation validation failed", map[string]any{"error": err.Error()})
		}
		if err := s.checkDurationPolicy(merged.Start, merged.End); err != nil {
			return err
		}

		// The reservation being edited is excluded so it never
		// conflicts with itself.
		if result := conflict.Check(item, merged.Start, merged.End, reservationID); result.HasConflicts {
			return conflictError(result)
		}

		if err := s.repo.UpdateReservation(sessCtx, itemID, &merged); err != nil {
			return s.translateRepoError(err, itemID, reservationID)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update reservation",
			"item_id", itemID,
			"reservation_id", reservationID,
			"error", err,
		)
		return nil, err
	}

	s.publish(ctx, model.EventReservationUpdated, itemID, model.ReservationEvent{
		ItemID:        itemID,
		ItemName:      itemName,
		ReservationID: reservationID,
		Start:         merged.Start,
		End:           merged.End,
		Project:       merged.Project,
		User:          merged.User,
	})

	s.cfg.Log.Info("Reservation updated successfully", "item_id", itemID, "reservation_id", reservationID)
	return &merged, nil
}

func (s *reservationService) Delete(ctx context.Context, itemID, reservationID string) error {
	if itemID == "" || reservationID == "" {
		return apperrors.InvalidInput("Item ID and reservation ID cannot be empty")
	}

	var itemName string
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		item, err := s.repo.FindByID(sessCtx, itemID)
		if err != nil {
			return s.translateRepoError(err, itemID, reservationID)
		}
		itemName = item.Name

		if err := s.repo.RemoveReservation(sessCtx, itemID, reservationID); err != nil {
			return s.translateRepoError(err, itemID, reservationID)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete reservation",
			"item_id", itemID,
			"reservation_id", reservationID,
			"error", err,
		)
		return err
	}

	s.publish(ctx, model.EventReservationCancelled, itemID, model.ReservationEvent{
		ItemID:        itemID,
		ItemName:      itemName,
		ReservationID: reservationID,
	})

	s.cfg.Log.Info("Reservation deleted successfully", "item_id", itemID, "reservation_id", reservationID)
	return nil
}

func (s *reservationService) List(ctx context.Context, itemID string) ([]model.Reservation, error) {
	if itemID == "" {
		return nil, apperrors.InvalidInput("Item ID cannot be empty")
	}

	item, err := s.repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, s.translateRepoError(err, itemID, "")
	}

	if item.Reservations == nil {
		return []model.Reservation{}, nil
	}
	return item.Reservations, nil
}

// --- Helpers ---

func (s *reservationService) applyDefaults(r *model.Reservation) {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
}

func (s *reservationService) sanitize(r *model.Reservation) {
	r.Project = sanitizer.NormalizeName(r.Project)
	r.User = sanitizer.NormalizeName(r.User)
	r.Location = sanitizer.NormalizeName(r.Location)
}

func (s *reservationService) mergeReservationUpdates(existing *model.Reservation, updates *model.ReservationUpdate) model.Reservation {
	merged := *existing

	if updates.Start != "" {
		merged.Start = updates.Start
	}
	if updates.End != "" {
		merged.End = updates.End
	}
	if updates.Project != nil {
		merged.Project = sanitizer.NormalizeName(*updates.Project)
	}
	if updates.User != nil {
		merged.User = sanitizer.NormalizeName(*updates.User)
	}
	if updates.Location != nil {
		merged.Location = sanitizer.NormalizeName(*updates.Location)
	}

	return merged
}

// checkDurationPolicy caps reservation length. The core conflict check
// has no opinion on duration; this is booking policy.
func (s *reservationService) checkDurationPolicy(start, end string) error {
	startDate, err := time.Parse("2006-01-02", start)
	if err != nil {
		return apperrors.Validation("Invalid start date", map[string]any{"start": start})
	}
	endDate, err := time.Parse("2006-01-02", end)
	if err != nil {
		return apperrors.Validation("Invalid end date", map[string]any{"end": end})
	}

	days := int(endDate.Sub(startDate).Hours()/24) + 1
	if days > s.cfg.MaxReservationDays {
		return apperrors.Validation("Reservation exceeds the maximum allowed duration", map[string]any{
			"days":     days,
			"max_days": s.cfg.MaxReservationDays,
		})
	}
	return nil
}

func conflictError(result model.ConflictResult) error {
	details := map[string]any{
		"reservation_conflicts": result.ReservationConflicts,
	}
	if result.CheckoutConflict != nil {
		details["checkout_conflict"] = result.CheckoutConflict
	}
	return apperrors.Conflict("Requested dates conflict with the item's schedule").WithDetails(details)
}

func findReservation(reservations []model.Reservation, id string) *model.Reservation {
	for i := range reservations {
		if reservations[i].ID == id {
			return &reservations[i]
		}
	}
	return nil
}

func (s *reservationService) translateRepoError(err error, itemID, reservationID string) error {
	if errors.Is(err, itemserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Item", itemID)
	}
	if errors.Is(err, itemserrors.ErrReservationNotFound) {
		return apperrors.NotFoundWithID("Reservation", reservationID)
	}
	if errors.Is(err, itemserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid item ID format")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to access item", err)
}

func (s *reservationService) publish(ctx context.Context, eventType, key string, payload any) {
	if err := s.publisher.Publish(ctx, eventType, key, payload); err != nil {
		s.cfg.Log.Error("Failed to publish event", "event_type", eventType, "key", key, "error", err)
	}
}
