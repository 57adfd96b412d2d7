package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"gearbook/internal/items/repository"
	"gearbook/internal/items/validator"
	"gearbook/pkg/config"
	apperrors "gearbook/pkg/errors"
	"gearbook/pkg/model"
)

const dateLayout = "2006-01-02"

// ReportService computes fleet valuation reports. Money never touches
// float64: every amount is parsed into a decimal and rendered back to a
// two-digit string.
type ReportService interface {
	Depreciation(ctx context.Context, asOf string) (*model.DepreciationReport, error)
}

type reportService struct {
	repo      repository.ItemRepository
	validator *validator.ItemValidator
	cfg       *config.Config
}

func NewReportService(repo repository.ItemRepository, validator *validator.ItemValidator, cfg *config.Config) ReportService {
	return &reportService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

// Depreciation values every item with purchase data using straight-line
// depreciation: (price - salvage) / useful_life_months per month, for
// the number of whole months between the purchase date and asOf,
// clamped to the useful life. An empty asOf means today.
func (s *reportService) Depreciation(ctx context.Context, asOf string) (*model.DepreciationReport, error) {
	if asOf == "" {
		asOf = time.Now().UTC().Format(dateLayout)
	} else if err := s.validator.ValidateDateRange(asOf, asOf); err != nil {
		return nil, apperrors.Validation("Invalid as_of date", map[string]any{"error": err.Error()})
	}

	count, err := s.repo.Count(ctx, "", "")
	if err != nil {
		s.cfg.Log.Error("Failed to count items for depreciation report", "error", err)
		return nil, apperrors.Internal("Failed to count items", err)
	}

	items, err := s.repo.FindAll(ctx, "", "", int(count), 0)
	if err != nil {
		s.cfg.Log.Error("Failed to list items for depreciation report", "error", err)
		return nil, apperrors.Internal("Failed to retrieve items", err)
	}

	report := &model.DepreciationReport{
		AsOf:  asOf,
		Items: []model.ItemDepreciation{},
	}
	totalPurchase := decimal.Zero
	totalAccumulated := decimal.Zero

	for _, item := range items {
		row, price, accumulated, ok := s.depreciateItem(item, asOf)
		if !ok {
			continue
		}
		report.Items = append(report.Items, row)
		totalPurchase = totalPurchase.Add(price)
		totalAccumulated = totalAccumulated.Add(accumulated)
	}

	report.TotalPurchase = totalPurchase.StringFixed(2)
	report.TotalAccumulated = totalAccumulated.StringFixed(2)
	report.TotalBookValue = totalPurchase.Sub(totalAccumulated).StringFixed(2)
	return report, nil
}

func (s *reportService) depreciateItem(item *model.Item, asOf string) (model.ItemDepreciation, decimal.Decimal, decimal.Decimal, bool) {
	if item.PurchasePrice == "" || item.PurchaseDate == "" {
		return model.ItemDepreciation{}, decimal.Zero, decimal.Zero, false
	}

	price, err := decimal.NewFromString(item.PurchasePrice)
	if err != nil {
		s.cfg.Log.Warn("Skipping item with unparseable purchase price",
			"item_id", item.ID,
			"purchase_price", item.PurchasePrice,
		)
		return model.ItemDepreciation{}, decimal.Zero, decimal.Zero, false
	}

	salvage := decimal.Zero
	if item.SalvageValue != "" {
		salvage, err = decimal.NewFromString(item.SalvageValue)
		if err != nil {
			s.cfg.Log.Warn("Skipping item with unparseable salvage value",
				"item_id", item.ID,
				"salvage_value", item.SalvageValue,
			)
			return model.ItemDepreciation{}, decimal.Zero, decimal.Zero, false
		}
	}

	life := item.UsefulLifeMonths
	if life <= 0 {
		life = s.cfg.DefaultUsefulLifeMonths
	}

	elapsed := monthsBetween(item.PurchaseDate, asOf)
	if elapsed > life {
		elapsed = life
	}

	monthly := price.Sub(salvage).Div(decimal.NewFromInt(int64(life)))
	accumulated := monthly.Mul(decimal.NewFromInt(int64(elapsed)))
	// Rounding drift must never depreciate below salvage.
	if depreciable := price.Sub(salvage); accumulated.GreaterThan(depreciable) {
		accumulated = depreciable
	}

	row := model.ItemDepreciation{
		ItemID:           item.ID,
		Name:             item.Name,
		PurchaseDate:     item.PurchaseDate,
		PurchasePrice:    price.StringFixed(2),
		SalvageValue:     salvage.StringFixed(2),
		UsefulLifeMonths: life,
		MonthsElapsed:    elapsed,
		MonthlyAmount:    monthly.StringFixed(2),
		Accumulated:      accumulated.StringFixed(2),
		BookValue:        price.Sub(accumulated).StringFixed(2),
	}
	return row, price, accumulated, true
}

// monthsBetween counts whole months from one date to another. A month
// only counts once its day-of-month has been reached; negative spans
// clamp to zero.
func monthsBetween(from, to string) int {
	start, err := time.Parse(dateLayout, from)
	if err != nil {
		return 0
	}
	end, err := time.Parse(dateLayout, to)
	if err != nil {
		return 0
	}
	if end.Before(start) {
		return 0
	}

	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}
