package conflict

import (
	"testing"

	"gearbook/pkg/model"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name   string
		start1 string
		end1   string
		start2 string
		end2   string
		want   bool
	}{
		{"disjoint before", "2024-01-01", "2024-01-03", "2024-01-05", "2024-01-10", false},
		{"disjoint after", "2024-01-11", "2024-01-15", "2024-01-05", "2024-01-10", false},
		{"touching endpoints count", "2024-01-01", "2024-01-05", "2024-01-05", "2024-01-10", true},
		{"contained", "2024-01-06", "2024-01-07", "2024-01-05", "2024-01-10", true},
		{"containing", "2024-01-01", "2024-01-31", "2024-01-05", "2024-01-10", true},
		{"partial overlap", "2024-01-08", "2024-01-12", "2024-01-05", "2024-01-10", true},
		{"identical", "2024-01-05", "2024-01-10", "2024-01-05", "2024-01-10", true},
		{"single day both", "2024-01-05", "2024-01-05", "2024-01-05", "2024-01-05", true},
		{"empty start1", "", "2024-01-05", "2024-01-05", "2024-01-10", false},
		{"empty end1", "2024-01-01", "", "2024-01-05", "2024-01-10", false},
		{"empty start2", "2024-01-01", "2024-01-05", "", "2024-01-10", false},
		{"empty end2", "2024-01-01", "2024-01-05", "2024-01-05", "", false},
		{"all empty", "", "", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.start1, tt.end1, tt.start2, tt.end2); got != tt.want {
				t.Errorf("Overlaps(%q, %q, %q, %q) = %v, want %v",
					tt.start1, tt.end1, tt.start2, tt.end2, got, tt.want)
			}
		})
	}
}

func TestOverlaps_Symmetry(t *testing.T) {
	intervals := [][2]string{
		{"2024-01-01", "2024-01-05"},
		{"2024-01-05", "2024-01-10"},
		{"2024-01-06", "2024-01-07"},
		{"2024-02-01", "2024-02-28"},
		{"", "2024-01-05"},
		{"2024-01-01", ""},
	}

	for _, a := range intervals {
		for _, b := range intervals {
			ab := Overlaps(a[0], a[1], b[0], b[1])
			ba := Overlaps(b[0], b[1], a[0], a[1])
			if ab != ba {
				t.Errorf("Overlaps(%v, %v) = %v but Overlaps(%v, %v) = %v", a, b, ab, b, a, ba)
			}
		}
	}
}

func reservations() []model.Reservation {
	return []model.Reservation{
		{ID: "r1", Start: "2025-01-03", End: "2025-01-10", Project: "Shoot A"},
		{ID: "r2", Start: "2025-02-01", End: "2025-02-05", Project: "Shoot B"},
		{ID: "r3", Start: "2025-01-09", End: "2025-01-12", Project: "Shoot C"},
	}
}

func TestConflictingReservations(t *testing.T) {
	tests := []struct {
		name      string
		list      []model.Reservation
		start     string
		end       string
		excludeID string
		wantIDs   []string
	}{
		{"empty list", nil, "2025-01-01", "2025-01-05", "", []string{}},
		{"missing start", reservations(), "", "2025-01-05", "", []string{}},
		{"missing end", reservations(), "2025-01-01", "", "", []string{}},
		{"no overlap", reservations(), "2025-03-01", "2025-03-05", "", []string{}},
		{"one overlap", reservations(), "2025-01-01", "2025-01-05", "", []string{"r1"}},
		{"two overlaps keep input order", reservations(), "2025-01-09", "2025-01-20", "", []string{"r1", "r3"}},
		{"exclude removes self", reservations(), "2025-01-01", "2025-01-05", "r1", []string{}},
		{"exclude leaves others", reservations(), "2025-01-09", "2025-01-20", "r1", []string{"r3"}},
		{"unknown exclude id is ignored", reservations(), "2025-01-01", "2025-01-05", "nope", []string{"r1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConflictingReservations(tt.list, tt.start, tt.end, tt.excludeID)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d conflicts, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("conflict[%d].ID = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestConflictingReservations_DoesNotMutateInput(t *testing.T) {
	list := reservations()
	_ = ConflictingReservations(list, "2025-01-01", "2025-12-31", "")

	want := reservations()
	for i := range want {
		if list[i].ID != want[i].ID || list[i].Start != want[i].Start {
			t.Fatalf("input list mutated at index %d: %+v", i, list[i])
		}
	}
}

func TestCheckCheckout(t *testing.T) {
	tests := []struct {
		name         string
		item         *model.Item
		start        string
		end          string
		wantConflict bool
		wantDueBack  string
	}{
		{
			name:  "nil item",
			item:  nil,
			start: "2025-01-01", end: "2025-01-05",
		},
		{
			name:  "not checked out",
			item:  &model.Item{Status: model.StatusAvailable},
			start: "2025-01-01", end: "2025-01-05",
		},
		{
			name:  "checked out without checkout date",
			item:  &model.Item{Status: model.StatusCheckedOut, CheckedOutTo: "John"},
			start: "2025-01-01", end: "2025-01-05",
		},
		{
			name: "open-ended checkout conflicts with far future",
			item: &model.Item{
				Status:         model.StatusCheckedOut,
				CheckedOutTo:   "John",
				CheckedOutDate: "2024-01-01",
			},
			start: "2030-01-01", end: "2030-01-05",
			wantConflict: true,
		},
		{
			name: "dated checkout overlapping",
			item: &model.Item{
				Status:         model.StatusCheckedOut,
				CheckedOutTo:   "John",
				CheckedOutDate: "2025-01-01",
				DueBack:        "2025-01-10",
			},
			start: "2025-01-05", end: "2025-01-15",
			wantConflict: true,
			wantDueBack:  "2025-01-10",
		},
		{
			name: "dated checkout touching due date",
			item: &model.Item{
				Status:         model.StatusCheckedOut,
				CheckedOutTo:   "John",
				CheckedOutDate: "2025-01-01",
				DueBack:        "2025-01-10",
			},
			start: "2025-01-10", end: "2025-01-15",
			wantConflict: true,
			wantDueBack:  "2025-01-10",
		},
		{
			name: "dated checkout after due date",
			item: &model.Item{
				Status:         model.StatusCheckedOut,
				CheckedOutTo:   "John",
				CheckedOutDate: "2025-01-01",
				DueBack:        "2025-01-10",
			},
			start: "2025-01-11", end: "2025-01-15",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckCheckout(tt.item, tt.start, tt.end)
			if (got != nil) != tt.wantConflict {
				t.Fatalf("CheckCheckout() = %+v, want conflict=%v", got, tt.wantConflict)
			}
			if got == nil {
				return
			}
			if got.Type != model.CheckoutConflictType {
				t.Errorf("Type = %q, want %q", got.Type, model.CheckoutConflictType)
			}
			if got.CheckedOutTo != tt.item.CheckedOutTo {
				t.Errorf("CheckedOutTo = %q, want %q", got.CheckedOutTo, tt.item.CheckedOutTo)
			}
			if got.DueBack != tt.wantDueBack {
				t.Errorf("DueBack = %q, want %q", got.DueBack, tt.wantDueBack)
			}
		})
	}
}

func TestCheck_NilItem(t *testing.T) {
	result := Check(nil, "2025-01-01", "2025-01-05", "")

	if result.HasConflicts {
		t.Error("nil item must not report conflicts")
	}
	if result.CheckoutConflict != nil {
		t.Errorf("CheckoutConflict = %+v, want nil", result.CheckoutConflict)
	}
	if result.ReservationConflicts == nil || len(result.ReservationConflicts) != 0 {
		t.Errorf("ReservationConflicts = %v, want empty slice", result.ReservationConflicts)
	}
}

func TestCheck_ExclusionAgainstSelf(t *testing.T) {
	item := &model.Item{
		Status: model.StatusAvailable,
		Reservations: []model.Reservation{
			{ID: "r1", Start: "2025-01-03", End: "2025-01-10"},
		},
	}

	with := Check(item, "2025-01-01", "2025-01-05", "")
	if len(with.ReservationConflicts) != 1 || !with.HasConflicts {
		t.Fatalf("without exclusion: got %d conflicts, want 1", len(with.ReservationConflicts))
	}

	without := Check(item, "2025-01-01", "2025-01-05", "r1")
	if len(without.ReservationConflicts) != 0 || without.HasConflicts {
		t.Fatalf("with exclusion: got %d conflicts, want 0", len(without.ReservationConflicts))
	}
}

func TestCheck_HasConflictsDerivation(t *testing.T) {
	items := []*model.Item{
		{Status: model.StatusAvailable},
		{Status: model.StatusAvailable, Reservations: []model.Reservation{
			{ID: "r1", Start: "2025-01-01", End: "2025-01-31"},
		}},
		{Status: model.StatusCheckedOut, CheckedOutTo: "Ana", CheckedOutDate: "2025-01-01"},
		{
			Status: model.StatusCheckedOut, CheckedOutTo: "Ana",
			CheckedOutDate: "2025-01-01", DueBack: "2025-01-02",
			Reservations: []model.Reservation{{ID: "r1", Start: "2025-01-10", End: "2025-01-20"}},
		},
	}

	for i, item := range items {
		result := Check(item, "2025-01-05", "2025-01-15", "")
		derived := len(result.ReservationConflicts) > 0 || result.CheckoutConflict != nil
		if result.HasConflicts != derived {
			t.Errorf("item %d: HasConflicts = %v, derived %v", i, result.HasConflicts, derived)
		}
	}
}

func TestCheck_CheckedOutItemEndToEnd(t *testing.T) {
	item := &model.Item{
		Status:         model.StatusCheckedOut,
		CheckedOutTo:   "John",
		CheckedOutDate: "2025-01-01",
		DueBack:        "2025-01-10",
		Reservations:   []model.Reservation{},
	}

	result := Check(item, "2025-01-05", "2025-01-15", "")

	if result.CheckoutConflict == nil {
		t.Fatal("expected a checkout conflict")
	}
	if result.CheckoutConflict.Type != "checked-out" {
		t.Errorf("Type = %q, want %q", result.CheckoutConflict.Type, "checked-out")
	}
	if !result.HasConflicts {
		t.Error("HasConflicts = false, want true")
	}
	if len(result.ReservationConflicts) != 0 {
		t.Errorf("ReservationConflicts = %v, want empty", result.ReservationConflicts)
	}
}

func TestIsOverdue(t *testing.T) {
	tests := []struct {
		name  string
		item  *model.Item
		today string
		want  bool
	}{
		{"nil item", nil, "2025-01-15", false},
		{"available item", &model.Item{Status: model.StatusAvailable, DueBack: "2025-01-01"}, "2025-01-15", false},
		{"open-ended checkout", &model.Item{Status: model.StatusCheckedOut, CheckedOutDate: "2025-01-01"}, "2025-01-15", false},
		{"due in future", &model.Item{Status: model.StatusCheckedOut, CheckedOutDate: "2025-01-01", DueBack: "2025-01-20"}, "2025-01-15", false},
		{"due today is not overdue", &model.Item{Status: model.StatusCheckedOut, CheckedOutDate: "2025-01-01", DueBack: "2025-01-15"}, "2025-01-15", false},
		{"past due", &model.Item{Status: model.StatusCheckedOut, CheckedOutDate: "2025-01-01", DueBack: "2025-01-10"}, "2025-01-15", true},
		{"empty today", &model.Item{Status: model.StatusCheckedOut, CheckedOutDate: "2025-01-01", DueBack: "2025-01-10"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsOverdue(tt.item, tt.today); got != tt.want {
				t.Errorf("IsOverdue() = %v, want %v", got, tt.want)
			}
		})
	}
}
