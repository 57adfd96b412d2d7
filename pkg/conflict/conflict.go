// Package conflict decides whether a proposed reservation interval is
// usable for an inventory item. Every function is pure and total:
// missing or malformed input degrades to "no conflict" instead of
// returning an error, because the results are advisory warnings for
// interactive booking flows, not hard failures.
//
// Dates are inclusive YYYY-MM-DD strings, so lexical comparison equals
// calendar comparison. The package never reads a clock; callers that
// need "today" pass it in explicitly.
package conflict

import (
	"fmt"

	"gearbook/pkg/model"
)

// Overlaps reports whether two inclusive date intervals share at least
// one calendar day. Touching endpoints count: an interval ending on a
// day and another starting on that same day overlap. Returns false if
// any endpoint is empty.
func Overlaps(start1, end1, start2, end2 string) bool {
	if start1 == "" || end1 == "" || start2 == "" || end2 == "" {
		return false
	}
	return start1 <= end2 && start2 <= end1
}

// ConflictingReservations filters reservations down to those whose
// interval overlaps [start, end]. The reservation whose ID equals
// excludeID is skipped, so an edit never conflicts with itself.
// Input order is preserved and the input slice is not mutated.
func ConflictingReservations(reservations []model.Reservation, start, end, excludeID string) []model.Reservation {
	if len(reservations) == 0 || start == "" || end == "" {
		return []model.Reservation{}
	}

	conflicts := []model.Reservation{}
	for _, r := range reservations {
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if Overlaps(start, end, r.Start, r.End) {
			conflicts = append(conflicts, r)
		}
	}
	return conflicts
}

// CheckCheckout reports whether the proposed interval collides with the
// item's current checkout. Nil when the item is absent, not checked
// out, or has no recorded checkout date.
//
// A checkout without a due-back date conflicts with every proposed
// interval, however far in the future: the return date is unknown, so
// no interval can be promised.
func CheckCheckout(item *model.Item, start, end string) *model.CheckoutConflict {
	if item == nil || item.Status != model.StatusCheckedOut || item.CheckedOutDate == "" {
		return nil
	}

	if item.DueBack == "" {
		return &model.CheckoutConflict{
			Type:           model.CheckoutConflictType,
			Message:        fmt.Sprintf("Item is checked out to %s with no return date set", item.CheckedOutTo),
			CheckedOutTo:   item.CheckedOutTo,
			CheckedOutDate: item.CheckedOutDate,
		}
	}

	if !Overlaps(start, end, item.CheckedOutDate, item.DueBack) {
		return nil
	}

	return &model.CheckoutConflict{
		Type:           model.CheckoutConflictType,
		Message:        fmt.Sprintf("Item is checked out to %s until %s", item.CheckedOutTo, item.DueBack),
		CheckedOutTo:   item.CheckedOutTo,
		CheckedOutDate: item.CheckedOutDate,
		DueBack:        item.DueBack,
	}
}

// Check is the entry point composing the reservation and checkout
// checks. A nil item yields the zero result, which carries
// HasConflicts=false.
func Check(item *model.Item, start, end, excludeID string) model.ConflictResult {
	if item == nil {
		return model.ConflictResult{ReservationConflicts: []model.Reservation{}}
	}

	reservationConflicts := ConflictingReservations(item.Reservations, start, end, excludeID)
	checkoutConflict := CheckCheckout(item, start, end)

	return model.ConflictResult{
		ReservationConflicts: reservationConflicts,
		CheckoutConflict:     checkoutConflict,
		HasConflicts:         len(reservationConflicts) > 0 || checkoutConflict != nil,
	}
}

// IsOverdue reports whether the item is checked out with a due-back
// date strictly before today. Open-ended checkouts are never overdue;
// there is no date to be late against.
func IsOverdue(item *model.Item, today string) bool {
	if item == nil || item.Status != model.StatusCheckedOut {
		return false
	}
	if item.DueBack == "" || today == "" {
		return false
	}
	return item.DueBack < today
}
