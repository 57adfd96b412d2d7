//go:build integration

package schedule

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"gearbook/pkg/model"
	"gearbook/test/integration/testutil"
)

var (
	inventoryClient *testutil.Client
	scheduleClient  *testutil.Client
)

func TestMain(m *testing.M) {
	inventoryClient = testutil.InventoryClient()
	scheduleClient = testutil.ScheduleClient()
	m.Run()
}

func seedReservedItem(t *testing.T, serial, project, start, end string) model.Item {
	t.Helper()

	resp := inventoryClient.POST(t, "/api/v1/items", map[string]any{
		"name":          "Aputure 600d",
		"category":      "lighting",
		"serial_number": serial,
		"status":        model.StatusAvailable,
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var created struct {
		Data model.Item `json:"data"`
	}
	if err := resp.DecodeJSON(&created); err != nil {
		t.Fatalf("failed to decode created item: %v", err)
	}

	resp = inventoryClient.POST(t, fmt.Sprintf("/api/v1/items/id/%s/reservations", created.Data.ID), map[string]any{
		"start":   start,
		"end":     end,
		"project": project,
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	return created.Data
}

func TestScheduleAggregation(t *testing.T) {
	inventoryClient.WaitForHealthy(t, 30*time.Second)
	scheduleClient.WaitForHealthy(t, 30*time.Second)

	// Two items booked for the same project window must aggregate into
	// one event; a third on another project stays separate.
	seedReservedItem(t, "LGT-100", "Night Shoot", "2025-06-10", "2025-06-12")
	seedReservedItem(t, "LGT-101", "Night Shoot", "2025-06-10", "2025-06-12")
	seedReservedItem(t, "LGT-102", "Day Shoot", "2025-06-20", "2025-06-21")

	t.Run("events groups by project and window", func(t *testing.T) {
		resp := scheduleClient.GET(t, "/api/v1/schedule/events?from=2025-06-01&to=2025-06-30")
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var result struct {
			Data []model.ScheduleEvent `json:"data"`
		}
		if err := resp.DecodeJSON(&result); err != nil {
			t.Fatalf("failed to decode events: %v", err)
		}

		byProject := map[string]model.ScheduleEvent{}
		for _, e := range result.Data {
			byProject[e.Project] = e
		}
		if e, ok := byProject["Night Shoot"]; !ok || e.ItemCount != 2 {
			t.Errorf("expected Night Shoot with 2 items, got %+v", byProject["Night Shoot"])
		}
		if e, ok := byProject["Day Shoot"]; !ok || e.ItemCount != 1 {
			t.Errorf("expected Day Shoot with 1 item, got %+v", byProject["Day Shoot"])
		}
	})

	t.Run("events respects the window", func(t *testing.T) {
		resp := scheduleClient.GET(t, "/api/v1/schedule/events?from=2025-06-13&to=2025-06-19")
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var result struct {
			Data []model.ScheduleEvent `json:"data"`
		}
		if err := resp.DecodeJSON(&result); err != nil {
			t.Fatalf("failed to decode events: %v", err)
		}
		for _, e := range result.Data {
			if e.Project == "Night Shoot" || e.Project == "Day Shoot" {
				t.Errorf("event %q leaked into an empty window", e.Project)
			}
		}
	})

	t.Run("month view marks reserved days", func(t *testing.T) {
		resp := scheduleClient.GET(t, "/api/v1/schedule/view?date=2025-06-15&mode=month")
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var result struct {
			Data model.ScheduleView `json:"data"`
		}
		if err := resp.DecodeJSON(&result); err != nil {
			t.Fatalf("failed to decode view: %v", err)
		}
		if len(result.Data.Cells) != 42 {
			t.Fatalf("expected 42 month cells, got %d", len(result.Data.Cells))
		}

		found := false
		for _, cell := range result.Data.Cells {
			if cell.Date == "2025-06-11" {
				for _, e := range cell.Events {
					if e.Project == "Night Shoot" {
						found = true
					}
				}
			}
		}
		if !found {
			t.Error("expected Night Shoot on 2025-06-11 in the month view")
		}
	})

	t.Run("navigate advances the anchor", func(t *testing.T) {
		resp := scheduleClient.GET(t, "/api/v1/schedule/navigate?date=2025-06-15&mode=month&direction=next")
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var result struct {
			Data map[string]string `json:"data"`
		}
		if err := resp.DecodeJSON(&result); err != nil {
			t.Fatalf("failed to decode navigate response: %v", err)
		}
		if result.Data["date"] != "2025-07-15" {
			t.Errorf("expected 2025-07-15, got %s", result.Data["date"])
		}
	})

	t.Run("invalid window rejected", func(t *testing.T) {
		resp := scheduleClient.GET(t, "/api/v1/schedule/events?from=2025-06-30&to=2025-06-01")
		testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
	})
}
