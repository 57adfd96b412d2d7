package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	itemserrors "gearbook/internal/items/errors"
	"gearbook/internal/items/validator"
	"gearbook/pkg/config"
	mongotx "gearbook/pkg/db/mongo"
	apperrors "gearbook/pkg/errors"
	"gearbook/pkg/logger"
	"gearbook/pkg/model"
)

// Mock repository for testing
type mockItemRepository struct {
	findByIDFunc          func(ctx context.Context, id string) (*model.Item, error)
	addReservationFunc    func(ctx context.Context, itemID string, r *model.Reservation) error
	updateReservationFunc func(ctx context.Context, itemID string, r *model.Reservation) error
	removeReservationFunc func(ctx context.Context, itemID, reservationID string) error
}

func (m *mockItemRepository) Create(ctx context.Context, item *model.Item) error { return nil }

func (m *mockItemRepository) FindByID(ctx context.Context, id string) (*model.Item, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, itemserrors.ErrNotFound
}

func (m *mockItemRepository) FindAll(ctx context.Context, category, status string, limit int, offset int64) ([]*model.Item, error) {
	return []*model.Item{}, nil
}

func (m *mockItemRepository) Count(ctx context.Context, category, status string) (int64, error) {
	return 0, nil
}

func (m *mockItemRepository) Update(ctx context.Context, id string, item *model.Item) (*mongo.UpdateResult, error) {
	return &mongo.UpdateResult{MatchedCount: 1}, nil
}

func (m *mockItemRepository) Delete(ctx context.Context, id string) error { return nil }

func (m *mockItemRepository) FindBySerial(ctx context.Context, serial string) (*model.Item, error) {
	return nil, itemserrors.ErrNotFound
}

func (m *mockItemRepository) FindCheckedOut(ctx context.Context) ([]*model.Item, error) {
	return []*model.Item{}, nil
}

func (m *mockItemRepository) SetCheckout(ctx context.Context, id, to, date, dueBack string) error {
	return nil
}

func (m *mockItemRepository) ClearCheckout(ctx context.Context, id string) error { return nil }

func (m *mockItemRepository) AddReservation(ctx context.Context, itemID string, r *model.Reservation) error {
	if m.addReservationFunc != nil {
		return m.addReservationFunc(ctx, itemID, r)
	}
	return nil
}

func (m *mockItemRepository) UpdateReservation(ctx context.Context, itemID string, r *model.Reservation) error {
	if m.updateReservationFunc != nil {
		return m.updateReservationFunc(ctx, itemID, r)
	}
	return nil
}

func (m *mockItemRepository) RemoveReservation(ctx context.Context, itemID, reservationID string) error {
	if m.removeReservationFunc != nil {
		return m.removeReservationFunc(ctx, itemID, reservationID)
	}
	return nil
}

func (m *mockItemRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type capturedEvent struct {
	eventType string
	key       string
}

type capturingPublisher struct {
	events []capturedEvent
}

func (p *capturingPublisher) Publish(ctx context.Context, eventType, key string, payload any) error {
	p.events = append(p.events, capturedEvent{eventType: eventType, key: key})
	return nil
}

func (p *capturingPublisher) Close() error { return nil }

func newTestService(repo *mockItemRepository, pub *capturingPublisher) *reservationService {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{
		Log:                log,
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       5 * time.Second,
		MaxReservationDays: 365,
	}
	return &reservationService{
		repo:      repo,
		validator: validator.NewItemValidator(log),
		publisher: pub,
		cfg:       cfg,
	}
}

func itemWithReservations(id string, reservations ...model.Reservation) *model.Item {
	return &model.Item{
		ID:           id,
		Name:         "Camera A",
		Category:     "camera",
		SerialNumber: "SN-1",
		Status:       model.StatusAvailable,
		Reservations: reservations,
	}
}

func TestCreate_Success(t *testing.T) {
	itemID := uuid.New().String()
	var added *model.Reservation
	repo := &mockItemRepository{
		findByIDFunc: func(ctx context.Context, _ string) (*model.Item, error) {
			return itemWithReservations(itemID), nil
		},
		addReservationFunc: func(ctx context.Context, _ string, r *model.Reservation) error {
			added = r
			return nil
		},
	}
	pub := &capturingPublisher{}
	svc := newTestService(repo, pub)

	res := &model.Reservation{Start: "2025-03-01", End: "2025-03-05", Project: " Shoot  A ", User: "Dana"}
	if err := svc.Create(context.Background(), itemID, res); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if added == nil {
		t.Fatal("expected reservation to be persisted")
	}
	if _, err := uuid.Parse(added.ID); err != nil {
		t.Errorf("expected generated uuid ID, got %q", added.ID)
	}
	if added.Project != "Shoot A" {
		t.Errorf("expected normalized project, got %q", added.Project)
	}
	if len(pub.events) != 1 || pub.events[0].eventType != model.EventReservationCreated {
		t.Errorf("expected one %s event, got %v", model.EventReservationCreated, pub.events)
	}
}

func TestCreate_ConflictWithExistingReservation(t *testing.T) {
	itemID := uuid.New().String()
	repo := &mockItemRepository{
		findByIDFunc: func(ctx context.Context, _ string) (*model.Item, error) {
			return itemWithReservations(itemID,
				model.Reservation{ID: uuid.New().String(), Start: "2025-03-03", End: "2025-03-08"},
			), nil
		},
	}
	svc := newTestService(repo, &capturingPublisher{})

	err := svc.Create(context.Background(), itemID, &model.Reservation{Start: "2025-03-01", End: "2025-03-05"})
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got %s", appErr.Code)
	}
	if appErr.Details["reservation_conflicts"] == nil {
		t.Error("expected conflicting reservations in error details")
	}
}

func TestCreate_TouchingEndpointsConflict(t *testing.T) {
	// Inclusive intervals: ending on a day and starting on that same
	// day is a collision, not an adjacency.
	itemID := uuid.New().String()
	repo := &mockItemRepository{
		findByIDFunc: func(ctx context.Context, _ string) (*model.Item, error) {
			return itemWithReservations(itemID,
				model.Reservation{ID: uuid.New().String(), Start: "2025-03-01", End: "2025-03-05"},
			), nil
		},
	}
	svc := newTestService(repo, &capturingPublisher{})

	err := svc.Create(context.Background(), itemID, &model.Reservation{Start: "2025-03-05", End: "2025-03-09"})
	if err == nil {
		t.Fatal("expected conflict for touching endpoints, got nil")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestCreate_BlockedByOpenEndedCheckout(t *testing.T) {
	itemID := uuid.New().String()
	repo := &mockItemRepository{
		findByIDFunc: func(ctx context.Context, _ string) (*model.Item, error) {
			item := itemWithReservations(itemID)
			item.Status = model.StatusCheckedOut
			item.CheckedOutTo = "John"
			item.CheckedOutDate = "2025-01-01"
			return item, nil
		},
	}
	svc := newTestService(repo, &capturingPublisher{})

	// Far in the future, still blocked: no return date is set.
	err := svc.Create(context.Background(), itemID, &model.Reservation{Start: "2030-01-01", End: "2030-01-05"})
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got %s", appErr.Code)
	}
	if appErr.Details["checkout_conflict"] == nil {
		t.Error("expected checkout conflict in error details")
	}
}

func TestCreate_ExceedsDurationPolicy(t *testing.T) {
	itemID := uuid.New().String()
	repo := &mockItemRepository{
		findByIDFunc: func(ctx context.Context, _ string) (*model.Item, error) {
			return itemWithReservations(itemID), nil
		},
	}
	svc := newTestService(repo, &capturingPublisher{})

	err := svc.Create(context.Background(), itemID, &model.Reservation{Start: "2025-01-01", End: "2026-06-01"})
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestUpdate_DoesNotConflictWithItself(t *testing.T) {
	itemID := uuid.New().String()
	resID := uuid.New().String()
	var updated *model.Reservation
	repo := &mockItemRepository{
		findByIDFunc: func(ctx context.Context, _ string) (*model.Item, error) {
			return itemWithReservations(itemID,
				model.Reservation{ID: resID, Start: "2025-01-03", End: "2025-01-10", Project: "Shoot A"},
			), nil
		},
		updateReservationFunc: func(ctx context.Context, _ string, r *model.Reservation) error {
			updated = r
			return nil
		},
	}
	pub := &capturingPublisher{}
	svc := newTestService(repo, pub)

	// New window still overlaps the old one; only the exclusion rule
	// lets this edit through.
	result, err := svc.Update(context.Background(), itemID, resID, &model.ReservationUpdate{
		Start: "2025-01-01",
		End:   "2025-01-05",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated == nil {
		t.Fatal("expected reservation to be persisted")
	}
	if result.Start != "2025-01-01" || result.End != "2025-01-05" {
		t.Errorf("expected merged window, got %s..%s", result.Start, result.End)
	}
	if result.Project != "Shoot A" {
		t.Errorf("expected untouched project, got %q", result.Project)
	}
	if len(pub.events) != 1 || pub.events[0].eventType != model.EventReservationUpdated {
		t.Errorf("expected one %s event, got %v", model.EventReservationUpdated, pub.events)
	}
}

func TestUpdate_ConflictsWithOtherReservation(t *testing.T) {
	itemID := uuid.New().String()
	resID := uuid.New().String()
	repo := &mockItemRepository{
		findByIDFunc: func(ctx context.Context, _ string) (*model.Item, error) {
			return itemWithReservations(itemID,
				model.Reservation{ID: resID, Start: "2025-01-03", End: "2025-01-10"},
				model.Reservation{ID: uuid.New().String(), Start: "2025-01-15", End: "2025-01-20"},
			), nil
		},
	}
	svc := newTestService(repo, &capturingPublisher{})

	_, err := svc.Update(context.Background(), itemID, resID, &model.ReservationUpdate{
		Start: "2025-01-14",
		End:   "2025-01-16",
	})
	if err == nil {
		t.Fatal("expected conflict error, got nil")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Errorf("expected conflict, got %v", err)
	}
}

func TestUpdate_ReservationNotFound(t *testing.T) {
	itemID := uuid.New().String()
	repo := &mockItemRepository{
		findByIDFunc: func(ctx context.Context, _ string) (*model.Item, error) {
			return itemWithReservations(itemID), nil
		},
	}
	svc := newTestService(repo, &capturingPublisher{})

	_, err := svc.Update(context.Background(), itemID, uuid.New().String(), &model.ReservationUpdate{
		Start: "2025-01-01",
		End:   "2025-01-05",
	})
	if err == nil {
		t.Fatal("expected not found error, got nil")
	}
	if apperrors.AsAppError(err).Code != apperrors.CodeNotFound {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestDelete_PublishesCancellation(t *testing.T) {
	itemID := uuid.New().String()
	resID := uuid.New().String()
	removed := false
	repo := &mockItemRepository{
		findByIDFunc: func(ctx context.Context, _ string) (*model.Item, error) {
			return itemWithReservations(itemID,
				model.Reservation{ID: resID, Start: "2025-01-03", End: "2025-01-10"},
			), nil
		},
		removeReservationFunc: func(ctx context.Context, _, _ string) error {
			removed = true
			return nil
		},
	}
	pub := &capturingPublisher{}
	svc := newTestService(repo, pub)

	if err := svc.Delete(context.Background(), itemID, resID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !removed {
		t.Error("expected reservation to be removed")
	}
	if len(pub.events) != 1 || pub.events[0].eventType != model.EventReservationCancelled {
		t.Errorf("expected one %s event, got %v", model.EventReservationCancelled, pub.events)
	}
}

func TestList_EmptyIsNotNil(t *testing.T) {
	itemID := uuid.New().String()
	repo := &mockItemRepository{
		findByIDFunc: func(ctx context.Context, _ string) (*model.Item, error) {
			item := itemWithReservations(itemID)
			item.Reservations = nil
			return item, nil
		},
	}
	svc := newTestService(repo, &capturingPublisher{})

	reservations, err := svc.List(context.Background(), itemID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reservations == nil {
		t.Error("expected empty slice, got nil")
	}
	if len(reservations) != 0 {
		t.Errorf("expected no reservations, got %d", len(reservations))
	}
}
