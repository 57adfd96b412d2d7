package service

import (
	"context"
	"fmt"
	"net/http"

	"gearbook/pkg/calendar"
	"gearbook/pkg/client"
	"gearbook/pkg/config"
	apperrors "gearbook/pkg/errors"
	"gearbook/pkg/model"
)

// ItemFetcher pulls the inventory the schedule is computed from.
type ItemFetcher interface {
	FetchAll(ctx context.Context) ([]model.Item, error)
}

// ScheduleService renders the aggregated calendar. Everything here is
// computed on demand from the inventory service's items; the schedule
// service owns no storage.
type ScheduleService interface {
	Events(ctx context.Context, from, to string) ([]model.ScheduleEvent, error)
	View(ctx context.Context, anchor string, mode calendar.ViewMode) (*model.ScheduleView, error)
	Navigate(anchor string, mode calendar.ViewMode, direction int) (string, error)
}

type scheduleService struct {
	fetcher ItemFetcher
	cfg     *config.Config
}

func NewScheduleService(fetcher ItemFetcher, cfg *config.Config) ScheduleService {
	return &scheduleService{
		fetcher: fetcher,
		cfg:     cfg,
	}
}

// Events returns the grouped events whose interval intersects
// [from, to], both inclusive.
func (s *scheduleService) Events(ctx context.Context, from, to string) ([]model.ScheduleEvent, error) {
	if err := validateRange(from, to); err != nil {
		return nil, err
	}

	events, err := s.aggregate(ctx)
	if err != nil {
		return nil, err
	}

	matched := []model.ScheduleEvent{}
	for _, e := range events {
		if overlapsWindow(e, from, to) {
			matched = append(matched, e)
		}
	}
	return matched, nil
}

func (s *scheduleService) View(ctx context.Context, anchor string, mode calendar.ViewMode) (*model.ScheduleView, error) {
	if err := validateMode(mode); err != nil {
		return nil, err
	}

	dates := calendar.ViewDates(anchor, mode)
	if dates == nil {
		return nil, apperrors.InvalidInput("date must be a YYYY-MM-DD date")
	}

	events, err := s.aggregate(ctx)
	if err != nil {
		return nil, err
	}

	cells := make([]model.ViewCell, len(dates))
	for i, date := range dates {
		inMonth := true
		if mode == calendar.ViewMonth {
			inMonth = calendar.SameMonth(date, anchor)
		}
		cells[i] = model.ViewCell{
			Date:    date,
			InMonth: inMonth,
			Events:  calendar.EventsOn(events, date),
		}
	}

	return &model.ScheduleView{
		Anchor: anchor,
		Mode:   string(mode),
		Cells:  cells,
	}, nil
}

func (s *scheduleService) Navigate(anchor string, mode calendar.ViewMode, direction int) (string, error) {
	if err := validateMode(mode); err != nil {
		return "", err
	}
	if direction != 1 && direction != -1 {
		return "", apperrors.InvalidInput("direction must be 'next' or 'prev'")
	}

	next := calendar.Navigate(anchor, mode, direction)
	if next == anchor {
		// Navigate echoes the anchor back only when it could not parse it.
		return "", apperrors.InvalidInput("date must be a YYYY-MM-DD date")
	}
	return next, nil
}

func (s *scheduleService) aggregate(ctx context.Context) ([]model.ScheduleEvent, error) {
	items, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to fetch inventory for schedule", "error", err)
		return nil, apperrors.Unavailable("Inventory service")
	}
	return calendar.Group(calendar.Flatten(items)), nil
}

func overlapsWindow(e model.ScheduleEvent, from, to string) bool {
	return e.Start <= to && from <= e.End
}

func validateRange(from, to string) error {
	if !calendar.ValidDate(from) || !calendar.ValidDate(to) {
		return apperrors.InvalidInput("from and to must be YYYY-MM-DD dates")
	}
	if to < from {
		return apperrors.InvalidInput("to cannot be before from")
	}
	return nil
}

func validateMode(mode calendar.ViewMode) error {
	switch mode {
	case calendar.ViewDay, calendar.ViewWeek, calendar.ViewMonth:
		return nil
	default:
		return apperrors.InvalidInput("mode must be one of: day, week, month")
	}
}

// inventoryFetcher pages through the inventory service's item list.
type inventoryFetcher struct {
	client *client.InventoryClient
}

func NewInventoryFetcher(baseURL string) ItemFetcher {
	return &inventoryFetcher{client: client.NewInventoryClient(baseURL)}
}

func (f *inventoryFetcher) FetchAll(ctx context.Context) ([]model.Item, error) {
	const pageSize = 100

	var all []model.Item
	var offset int64
	for {
		resp, err := f.client.GetAll(ctx, pageSize, offset)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("inventory service returned status %d", resp.StatusCode)
		}

		items, meta, err := f.client.DecodeItems(resp)
		if err != nil {
			return nil, err
		}

		all = append(all, items...)
		offset += int64(len(items))
		if len(items) == 0 || offset >= meta.TotalCount {
			return all, nil
		}
	}
}
