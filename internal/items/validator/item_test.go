package validator

import (
	"testing"

	"gearbook/pkg/logger"
	"gearbook/pkg/model"
)

func testValidator() *ItemValidator {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return NewItemValidator(log)
}

func validItem() *model.Item {
	return &model.Item{
		Name:         "Canon C70",
		Category:     "camera",
		SerialNumber: "SN-0042",
		Status:       model.StatusAvailable,
	}
}

func TestValidate_CalendarDateTag(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name    string
		date    string
		wantErr bool
	}{
		{"valid date", "2025-01-31", false},
		{"missing leading zeros", "2025-1-3", true},
		{"slashes", "2025/01/31", true},
		{"datetime", "2025-01-31T10:00:00Z", true},
		{"garbage", "not-a-date", true},
		{"empty is allowed by omitempty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			item.PurchaseDate = tt.date
			err := v.Validate(item)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate with purchase_date=%q: err=%v, wantErr=%v", tt.date, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_MoneyTag(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name    string
		price   string
		wantErr bool
	}{
		{"integer", "4200", false},
		{"two decimals", "4200.50", false},
		{"one decimal", "4200.5", false},
		{"three decimals", "4200.505", true},
		{"negative", "-10.00", true},
		{"currency symbol", "$4200", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := validItem()
			item.PurchasePrice = tt.price
			err := v.Validate(item)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate with purchase_price=%q: err=%v, wantErr=%v", tt.price, err, tt.wantErr)
			}
		})
	}
}

func TestValidate_CheckedOutRequiresState(t *testing.T) {
	v := testValidator()

	item := validItem()
	item.Status = model.StatusCheckedOut
	if err := v.Validate(item); err == nil {
		t.Error("expected error for checked-out item without checkout state")
	}

	item.CheckedOutTo = "Dana"
	item.CheckedOutDate = "2025-01-01"
	if err := v.Validate(item); err != nil {
		t.Errorf("unexpected error for complete checkout state: %v", err)
	}

	item.DueBack = "2024-12-31"
	if err := v.Validate(item); err == nil {
		t.Error("expected error when due_back precedes checked_out_date")
	}
}

func TestValidate_ReservationOrdering(t *testing.T) {
	v := testValidator()

	item := validItem()
	item.Reservations = []model.Reservation{
		{Start: "2025-01-10", End: "2025-01-05"},
	}
	if err := v.Validate(item); err == nil {
		t.Error("expected error for reservation ending before it starts")
	}
}

func TestValidateCheckout(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name    string
		req     model.CheckoutRequest
		wantErr bool
	}{
		{"valid with due back", model.CheckoutRequest{To: "John", Date: "2025-03-01", DueBack: "2025-03-05"}, false},
		{"valid open-ended", model.CheckoutRequest{To: "John", Date: "2025-03-01"}, false},
		{"due back before date", model.CheckoutRequest{To: "John", Date: "2025-03-05", DueBack: "2025-03-01"}, true},
		{"missing borrower", model.CheckoutRequest{Date: "2025-03-01"}, true},
		{"bad date", model.CheckoutRequest{To: "John", Date: "03/01/2025"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateCheckout(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCheckout(%+v): err=%v, wantErr=%v", tt.req, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDateRange(t *testing.T) {
	v := testValidator()

	tests := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{"valid range", "2025-01-01", "2025-01-31", false},
		{"single day", "2025-01-01", "2025-01-01", false},
		{"inverted", "2025-01-31", "2025-01-01", true},
		{"missing start", "", "2025-01-31", true},
		{"missing end", "2025-01-01", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateDateRange(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDateRange(%q, %q): err=%v, wantErr=%v", tt.start, tt.end, err, tt.wantErr)
			}
		})
	}
}
