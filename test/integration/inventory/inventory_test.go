//go:build integration

package inventory

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"gearbook/pkg/model"
	"gearbook/test/integration/testutil"
)

var httpClient *testutil.Client

func TestMain(m *testing.M) {
	httpClient = testutil.InventoryClient()
	m.Run()
}

func clearItems(t *testing.T) {
	t.Helper()

	for {
		resp := httpClient.GET(t, "/api/v1/items?limit=100&offset=0")
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var result struct {
			Data       []model.Item `json:"data"`
			TotalCount int64        `json:"total_count"`
		}
		if err := resp.DecodeJSON(&result); err != nil {
			t.Fatalf("failed to decode item list: %v", err)
		}
		if len(result.Data) == 0 {
			return
		}

		for _, item := range result.Data {
			httpClient.DELETE(t, "/api/v1/items/id/"+item.ID)
		}
	}
}

func validItem(serial string) map[string]any {
	return map[string]any{
		"name":          "Sony FX6",
		"category":      "camera",
		"serial_number": serial,
		"status":        model.StatusAvailable,
		"location":      "Shelf A3",
	}
}

func createItem(t *testing.T, body map[string]any) model.Item {
	t.Helper()

	resp := httpClient.POST(t, "/api/v1/items", body)
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var result struct {
		Data model.Item `json:"data"`
	}
	if err := resp.DecodeJSON(&result); err != nil {
		t.Fatalf("failed to decode created item: %v", err)
	}
	if result.Data.ID == "" {
		t.Fatal("expected created item to carry a generated ID")
	}
	return result.Data
}

func TestItemLifecycle(t *testing.T) {
	httpClient.WaitForHealthy(t, 30*time.Second)
	clearItems(t)

	item := createItem(t, validItem("FX6-001"))

	t.Run("get by id", func(t *testing.T) {
		resp := httpClient.GET(t, "/api/v1/items/id/"+item.ID)
		testutil.AssertStatusCode(t, resp, http.StatusOK)
		testutil.AssertContains(t, resp, "FX6-001")
	})

	t.Run("duplicate serial rejected", func(t *testing.T) {
		resp := httpClient.POST(t, "/api/v1/items", validItem("FX6-001"))
		testutil.AssertStatusCode(t, resp, http.StatusConflict)
	})

	t.Run("update merges fields", func(t *testing.T) {
		resp := httpClient.PATCH(t, "/api/v1/items/id/"+item.ID, map[string]any{
			"location": "Cage 2",
		})
		testutil.AssertStatusCode(t, resp, http.StatusNoContent)

		resp = httpClient.GET(t, "/api/v1/items/id/"+item.ID)
		testutil.AssertStatusCode(t, resp, http.StatusOK)
		testutil.AssertContains(t, resp, "Cage 2")
		testutil.AssertContains(t, resp, "FX6-001")
	})

	t.Run("list filters by category", func(t *testing.T) {
		resp := httpClient.GET(t, "/api/v1/items?category=camera")
		testutil.AssertStatusCode(t, resp, http.StatusOK)

		var result struct {
			Data       []model.Item `json:"data"`
			TotalCount int64        `json:"total_count"`
		}
		if err := resp.DecodeJSON(&result); err != nil {
			t.Fatalf("failed to decode item list: %v", err)
		}
		if result.TotalCount != 1 {
			t.Errorf("expected 1 camera, got %d", result.TotalCount)
		}
	})

	t.Run("delete", func(t *testing.T) {
		resp := httpClient.DELETE(t, "/api/v1/items/id/"+item.ID)
		testutil.AssertStatusCode(t, resp, http.StatusNoContent)

		resp = httpClient.GET(t, "/api/v1/items/id/"+item.ID)
		testutil.AssertStatusCode(t, resp, http.StatusNotFound)
	})
}

func TestCheckoutFlow(t *testing.T) {
	httpClient.WaitForHealthy(t, 30*time.Second)
	clearItems(t)

	item := createItem(t, validItem("FX6-002"))

	checkout := map[string]any{
		"to":       "Dana",
		"date":     "2025-03-01",
		"due_back": "2025-03-05",
	}
	resp := httpClient.POST(t, fmt.Sprintf("/api/v1/items/id/%s/checkout", item.ID), checkout)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertContains(t, resp, model.StatusCheckedOut)

	t.Run("double checkout rejected", func(t *testing.T) {
		resp := httpClient.POST(t, fmt.Sprintf("/api/v1/items/id/%s/checkout", item.ID), checkout)
		testutil.AssertStatusCode(t, resp, http.StatusConflict)
	})

	t.Run("reservation blocked while checked out open-ended", func(t *testing.T) {
		// Not open-ended here, but a reservation inside the checkout
		// window must still collide.
		resp := httpClient.POST(t, fmt.Sprintf("/api/v1/items/id/%s/reservations", item.ID), map[string]any{
			"start":   "2025-03-04",
			"end":     "2025-03-06",
			"project": "Shoot A",
		})
		testutil.AssertStatusCode(t, resp, http.StatusConflict)
	})

	t.Run("checkin releases the item", func(t *testing.T) {
		resp := httpClient.POST(t, fmt.Sprintf("/api/v1/items/id/%s/checkin", item.ID), nil)
		testutil.AssertStatusCode(t, resp, http.StatusOK)
		testutil.AssertContains(t, resp, model.StatusAvailable)
	})

	t.Run("checkin twice rejected", func(t *testing.T) {
		resp := httpClient.POST(t, fmt.Sprintf("/api/v1/items/id/%s/checkin", item.ID), nil)
		testutil.AssertStatusCode(t, resp, http.StatusConflict)
	})
}

func TestReservationConflicts(t *testing.T) {
	httpClient.WaitForHealthy(t, 30*time.Second)
	clearItems(t)

	item := createItem(t, validItem("FX6-003"))
	path := fmt.Sprintf("/api/v1/items/id/%s/reservations", item.ID)

	resp := httpClient.POST(t, path, map[string]any{
		"start":   "2025-04-10",
		"end":     "2025-04-12",
		"project": "Shoot A",
		"user":    "Dana",
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var created struct {
		Data model.Reservation `json:"data"`
	}
	if err := resp.DecodeJSON(&created); err != nil {
		t.Fatalf("failed to decode created reservation: %v", err)
	}

	t.Run("overlap rejected", func(t *testing.T) {
		resp := httpClient.POST(t, path, map[string]any{
			"start":   "2025-04-12",
			"end":     "2025-04-14",
			"project": "Shoot B",
		})
		testutil.AssertStatusCode(t, resp, http.StatusConflict)
	})

	t.Run("adjacent day accepted", func(t *testing.T) {
		resp := httpClient.POST(t, path, map[string]any{
			"start":   "2025-04-13",
			"end":     "2025-04-14",
			"project": "Shoot B",
		})
		testutil.AssertStatusCode(t, resp, http.StatusCreated)
	})

	t.Run("availability reports the collision", func(t *testing.T) {
		resp := httpClient.GET(t, fmt.Sprintf(
			"/api/v1/items/id/%s/availability?start=2025-04-11&end=2025-04-11", item.ID))
		testutil.AssertStatusCode(t, resp, http.StatusOK)
		testutil.AssertContains(t, resp, "Shoot A")
	})

	t.Run("update can extend within its own slot", func(t *testing.T) {
		resp := httpClient.PATCH(t, fmt.Sprintf("%s/%s", path, created.Data.ID), map[string]any{
			"end": "2025-04-11",
		})
		testutil.AssertStatusCode(t, resp, http.StatusOK)
	})

	t.Run("update colliding with neighbor rejected", func(t *testing.T) {
		resp := httpClient.PATCH(t, fmt.Sprintf("%s/%s", path, created.Data.ID), map[string]any{
			"end": "2025-04-13",
		})
		testutil.AssertStatusCode(t, resp, http.StatusConflict)
	})

	t.Run("cancel frees the window", func(t *testing.T) {
		resp := httpClient.DELETE(t, fmt.Sprintf("%s/%s", path, created.Data.ID))
		testutil.AssertStatusCode(t, resp, http.StatusNoContent)

		resp = httpClient.POST(t, path, map[string]any{
			"start":   "2025-04-10",
			"end":     "2025-04-12",
			"project": "Shoot C",
		})
		testutil.AssertStatusCode(t, resp, http.StatusCreated)
	})
}
