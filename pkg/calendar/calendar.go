// Package calendar turns per-item reservations into groupable schedule
// events and computes the date grids behind day, week, and month views.
// Like the conflict package it is pure: no clock, no I/O, and invalid
// input degrades to an empty result instead of an error.
//
// Conventions: weeks start on Sunday, and a month view is always a
// fixed 6x7 grid of 42 dates beginning on the Sunday on or before the
// first of the month.
package calendar

import (
	"sort"
	"time"

	"gearbook/pkg/conflict"
	"gearbook/pkg/model"
)

const dateLayout = "2006-01-02"

// UnnamedProject is the grouping label for reservations without a
// project, so items reserved together under no name still form one event.
const UnnamedProject = "unnamed"

// ViewMode selects the calendar granularity.
type ViewMode string

const (
	ViewDay   ViewMode = "day"
	ViewWeek  ViewMode = "week"
	ViewMonth ViewMode = "month"
)

// Entry pairs a reservation with its owning item.
type Entry struct {
	Reservation model.Reservation
	ItemID      string
	ItemName    string
}

// Flatten emits one Entry per (item, reservation) pair, in item order
// then per-item reservation order, then stable-sorted ascending by
// start date so ties keep their original relative order.
func Flatten(items []model.Item) []Entry {
	entries := []Entry{}
	for _, item := range items {
		for _, r := range item.Reservations {
			entries = append(entries, Entry{
				Reservation: r,
				ItemID:      item.ID,
				ItemName:    item.Name,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Reservation.Start < entries[j].Reservation.Start
	})
	return entries
}

type groupKey struct {
	project string
	start   string
	end     string
}

// Group buckets entries by (project, start, end) into ScheduleEvents.
// A missing project is normalized to UnnamedProject. Contributing items
// accumulate in encounter order; the output is stable-sorted ascending
// by start date only, so events sharing a start keep first-occurrence
// order.
func Group(entries []Entry) []model.ScheduleEvent {
	index := map[groupKey]int{}
	events := []model.ScheduleEvent{}

	for _, e := range entries {
		project := e.Reservation.Project
		if project == "" {
			project = UnnamedProject
		}

		key := groupKey{project: project, start: e.Reservation.Start, end: e.Reservation.End}
		item := model.EventItem{
			ItemID:        e.ItemID,
			ItemName:      e.ItemName,
			ReservationID: e.Reservation.ID,
			User:          e.Reservation.User,
			Location:      e.Reservation.Location,
		}

		if i, ok := index[key]; ok {
			events[i].Items = append(events[i].Items, item)
			events[i].ItemCount = len(events[i].Items)
			continue
		}

		index[key] = len(events)
		events = append(events, model.ScheduleEvent{
			Project:   project,
			Start:     e.Reservation.Start,
			End:       e.Reservation.End,
			Items:     []model.EventItem{item},
			ItemCount: 1,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start < events[j].Start
	})
	return events
}

// ViewDates returns the dates a view renders around anchor: one date
// for day view, 7 from the Sunday of the anchor's week, or a fixed 42
// (six full weeks) from the Sunday on or before the first of the
// anchor's month. Nil for an unparseable anchor or unknown mode.
func ViewDates(anchor string, mode ViewMode) []string {
	t, err := time.Parse(dateLayout, anchor)
	if err != nil {
		return nil
	}

	switch mode {
	case ViewDay:
		return []string{anchor}
	case ViewWeek:
		return consecutive(sundayOnOrBefore(t), 7)
	case ViewMonth:
		first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
		return consecutive(sundayOnOrBefore(first), 42)
	default:
		return nil
	}
}

// EventsOn returns every event whose inclusive interval contains date.
// The predicate is the single-day specialization of conflict.Overlaps,
// so day, week, and month views agree on which events a date holds.
func EventsOn(events []model.ScheduleEvent, date string) []model.ScheduleEvent {
	matched := []model.ScheduleEvent{}
	for _, e := range events {
		if conflict.Overlaps(e.Start, e.End, date, date) {
			matched = append(matched, e)
		}
	}
	return matched
}

// Navigate shifts anchor one view-page in direction (+1 or -1): a day,
// a week, or a calendar month. Month steps clamp the day-of-month to
// the target month's length, so Jan 31 forward lands on Feb 28/29
// rather than rolling into March. An unparseable anchor is returned
// unchanged.
func Navigate(anchor string, mode ViewMode, direction int) string {
	t, err := time.Parse(dateLayout, anchor)
	if err != nil {
		return anchor
	}

	switch mode {
	case ViewDay:
		return t.AddDate(0, 0, direction).Format(dateLayout)
	case ViewWeek:
		return t.AddDate(0, 0, 7*direction).Format(dateLayout)
	case ViewMonth:
		return addMonthClamped(t, direction).Format(dateLayout)
	default:
		return anchor
	}
}

// SameMonth reports whether two dates fall in the same calendar month.
// Callers use it to dim out-of-month cells in the 42-day grid.
func SameMonth(a, b string) bool {
	ta, errA := time.Parse(dateLayout, a)
	tb, errB := time.Parse(dateLayout, b)
	if errA != nil || errB != nil {
		return false
	}
	return ta.Year() == tb.Year() && ta.Month() == tb.Month()
}

// ValidDate reports whether s is a parseable YYYY-MM-DD date.
func ValidDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

func sundayOnOrBefore(t time.Time) time.Time {
	return t.AddDate(0, 0, -int(t.Weekday()))
}

func consecutive(from time.Time, n int) []string {
	dates := make([]string, n)
	for i := 0; i < n; i++ {
		dates[i] = from.AddDate(0, 0, i).Format(dateLayout)
	}
	return dates
}

func addMonthClamped(t time.Time, months int) time.Time {
	// Day 0 of month m+1 is the last day of month m.
	firstOfTarget := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, time.UTC)
	lastDay := time.Date(firstOfTarget.Year(), firstOfTarget.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()

	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, time.UTC)
}
