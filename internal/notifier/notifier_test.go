package notifier

import (
	"context"
	"encoding/json"
	"testing"

	"gearbook/pkg/kafka"
	"gearbook/pkg/logger"
	"gearbook/pkg/model"
)

func testNotifier() *Notifier {
	return New(logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	}))
}

func message(eventType string, payload any) kafka.Message {
	value, _ := json.Marshal(payload)
	return kafka.Message{
		Value: value,
		Headers: map[string]string{
			kafka.HeaderEventID:   "test-event",
			kafka.HeaderEventType: eventType,
		},
	}
}

func TestHandle_KnownEvents(t *testing.T) {
	n := testNotifier()

	tests := []struct {
		name string
		msg  kafka.Message
	}{
		{"checked out", message(model.EventItemCheckedOut, model.CheckoutEvent{ItemID: "1", ItemName: "Camera A", To: "Dana", Date: "2025-03-01", DueBack: "2025-03-05"})},
		{"checked out open-ended", message(model.EventItemCheckedOut, model.CheckoutEvent{ItemID: "1", ItemName: "Camera A", To: "Dana", Date: "2025-03-01"})},
		{"checked in", message(model.EventItemCheckedIn, model.CheckoutEvent{ItemID: "1", ItemName: "Camera A", To: "Dana"})},
		{"reservation created", message(model.EventReservationCreated, model.ReservationEvent{ItemID: "1", ReservationID: "r1", Start: "2025-03-10", End: "2025-03-12"})},
		{"reservation updated", message(model.EventReservationUpdated, model.ReservationEvent{ItemID: "1", ReservationID: "r1"})},
		{"reservation cancelled", message(model.EventReservationCancelled, model.ReservationEvent{ItemID: "1", ReservationID: "r1"})},
		{"maintenance logged", message(model.EventMaintenanceLogged, model.MaintenanceEvent{ItemID: "1", EntryID: "m1", Date: "2025-03-01", Description: "Cleaning"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := n.Handle(context.Background(), tt.msg); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestHandle_UndecodablePayloadIsPermanent(t *testing.T) {
	n := testNotifier()

	msg := kafka.Message{
		Value: []byte("not json"),
		Headers: map[string]string{
			kafka.HeaderEventType: model.EventItemCheckedOut,
		},
	}

	err := n.Handle(context.Background(), msg)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
		t.Errorf("expected permanent classification, got %v", kafka.ClassifyError(err))
	}
}

func TestHandle_UnknownEventTypeIsTolerated(t *testing.T) {
	n := testNotifier()

	msg := kafka.Message{
		Value: []byte("{}"),
		Headers: map[string]string{
			kafka.HeaderEventType: "item.renamed",
		},
	}

	if err := n.Handle(context.Background(), msg); err != nil {
		t.Errorf("expected unknown event to be skipped, got %v", err)
	}
}
