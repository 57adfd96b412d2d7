package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"gearbook/pkg/model"
)

// InventoryClient calls the inventory service. The schedule service
// uses it to pull items before flattening them into calendar events.
type InventoryClient struct {
	httpClient *HttpClient
}

func NewInventoryClient(baseURL string) *InventoryClient {
	return &InventoryClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *InventoryClient) Create(ctx context.Context, body any) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/items", body)
}

func (c *InventoryClient) GetAll(ctx context.Context, limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/items?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(ctx, path)
}

func (c *InventoryClient) GetByID(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/v1/items/id/"+url.PathEscape(id))
}

func (c *InventoryClient) Update(ctx context.Context, id string, body any) (*Response, error) {
	return c.httpClient.PATCH(ctx, "/api/v1/items/id/"+url.PathEscape(id), body)
}

func (c *InventoryClient) Delete(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.DELETE(ctx, "/api/v1/items/id/"+url.PathEscape(id))
}

func (c *InventoryClient) Checkout(ctx context.Context, id string, body any) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/items/id/"+url.PathEscape(id)+"/checkout", body)
}

func (c *InventoryClient) Checkin(ctx context.Context, id string) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/items/id/"+url.PathEscape(id)+"/checkin", nil)
}

func (c *InventoryClient) CheckAvailability(ctx context.Context, id, start, end, excludeID string) (*Response, error) {
	q := url.Values{}
	q.Set("start", start)
	q.Set("end", end)
	if excludeID != "" {
		q.Set("exclude_reservation_id", excludeID)
	}
	path := "/api/v1/items/id/" + url.PathEscape(id) + "/availability?" + q.Encode()
	return c.httpClient.GET(ctx, path)
}

func (c *InventoryClient) CreateReservation(ctx context.Context, itemID string, body any) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/v1/items/id/"+url.PathEscape(itemID)+"/reservations", body)
}

// DecodeItem unwraps a single-item success envelope.
func (c *InventoryClient) DecodeItem(resp *Response) (*model.Item, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode item wrapper:\n%s\n%w", resp.String(), err)
	}

	var item model.Item
	if err := json.Unmarshal(wrapper.Data, &item); err != nil {
		return nil, fmt.Errorf("could not decode item json:\n%s\n%w", resp.String(), err)
	}
	return &item, nil
}

// Metadata carries the pagination fields of a list response.
type Metadata struct {
	TotalCount int64
	Limit      int
	Offset     int64
}

// DecodeItems unwraps a paginated item list.
func (c *InventoryClient) DecodeItems(resp *Response) ([]model.Item, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated response:\n%s\n%w", resp.String(), err)
	}

	var items []model.Item
	if len(wrapper.Data) > 0 {
		if err := json.Unmarshal(wrapper.Data, &items); err != nil {
			return nil, nil, fmt.Errorf("could not decode item list:\n%s\n%w", resp.String(), err)
		}
	}

	return items, &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}, nil
}
