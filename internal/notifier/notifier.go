package notifier

import (
	"context"
	"encoding/json"

	"gearbook/pkg/kafka"
	"gearbook/pkg/logger"
	"gearbook/pkg/model"
)

// Notifier consumes inventory events and surfaces the facts a studio
// manager acts on: who took what, when it is due back, and which
// reservations were booked or dropped. Delivery to external channels
// (mail, chat) hangs off the log for now; the consumer plumbing and the
// event taxonomy are the contract.
type Notifier struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Notifier {
	return &Notifier{log: log}
}

// Handle is the kafka consumer entry point. Undecodable payloads are
// permanent failures: retrying a malformed message cannot fix it, so it
// is parked on the DLQ instead.
func (n *Notifier) Handle(ctx context.Context, msg kafka.Message) error {
	eventType := msg.GetEventType()

	switch eventType {
	case model.EventItemCheckedOut:
		return n.handleCheckedOut(msg)
	case model.EventItemCheckedIn:
		return n.handleCheckedIn(msg)
	case model.EventReservationCreated, model.EventReservationUpdated:
		return n.handleReservationUpserted(eventType, msg)
	case model.EventReservationCancelled:
		return n.handleReservationCancelled(msg)
	case model.EventMaintenanceLogged:
		return n.handleMaintenanceLogged(msg)
	default:
		// Unknown event types are tolerated so the producer can grow
		// its vocabulary without breaking deployed notifiers.
		n.log.Warn("Skipping unknown event type",
			"event_type", eventType,
			"event_id", msg.GetEventID(),
		)
		return nil
	}
}

func (n *Notifier) handleCheckedOut(msg kafka.Message) error {
	var event model.CheckoutEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return kafka.Permanent("failed to decode checkout event", err)
	}

	if event.DueBack == "" {
		n.log.Info("Item checked out with no return date",
			"item_id", event.ItemID,
			"item_name", event.ItemName,
			"to", event.To,
			"date", event.Date,
		)
		return nil
	}

	n.log.Info("Item checked out",
		"item_id", event.ItemID,
		"item_name", event.ItemName,
		"to", event.To,
		"date", event.Date,
		"due_back", event.DueBack,
	)
	return nil
}

func (n *Notifier) handleCheckedIn(msg kafka.Message) error {
	var event model.CheckoutEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return kafka.Permanent("failed to decode checkin event", err)
	}

	n.log.Info("Item returned",
		"item_id", event.ItemID,
		"item_name", event.ItemName,
		"was_checked_out_to", event.To,
	)
	return nil
}

func (n *Notifier) handleReservationUpserted(eventType string, msg kafka.Message) error {
	var event model.ReservationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return kafka.Permanent("failed to decode reservation event", err)
	}

	n.log.Info("Reservation scheduled",
		"event_type", eventType,
		"item_id", event.ItemID,
		"item_name", event.ItemName,
		"reservation_id", event.ReservationID,
		"start", event.Start,
		"end", event.End,
		"project", event.Project,
		"user", event.User,
	)
	return nil
}

func (n *Notifier) handleReservationCancelled(msg kafka.Message) error {
	var event model.ReservationEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return kafka.Permanent("failed to decode reservation event", err)
	}

	n.log.Info("Reservation cancelled",
		"item_id", event.ItemID,
		"item_name", event.ItemName,
		"reservation_id", event.ReservationID,
	)
	return nil
}

func (n *Notifier) handleMaintenanceLogged(msg kafka.Message) error {
	var event model.MaintenanceEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		return kafka.Permanent("failed to decode maintenance event", err)
	}

	n.log.Info("Maintenance logged",
		"item_id", event.ItemID,
		"entry_id", event.EntryID,
		"date", event.Date,
		"description", event.Description,
		"cost", event.Cost,
	)
	return nil
}
