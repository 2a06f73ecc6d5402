package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/recyloop/gateway/internal/points"
	"github.com/recyloop/gateway/internal/status"
)

// Client talks to the authoritative marketplace backend. Every mutation is a
// single round trip with no automatic retries; callers surface the outcome
// to the UI.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) newRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, dest interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("unexpected status: %d, body: %s", resp.StatusCode, string(body))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// ListOrders returns the caller's orders. Statuses arrive in whatever
// spelling the backend uses and are normalized here so the rest of the
// gateway only sees canonical values.
func (c *Client) ListOrders(ctx context.Context, userID string) ([]Order, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/orders?user_id="+userID, nil)
	if err != nil {
		return nil, err
	}

	var res struct {
		Orders []Order `json:"orders"`
	}
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	for i := range res.Orders {
		res.Orders[i].Status = status.Normalize(string(res.Orders[i].Status))
		for j := range res.Orders[i].History {
			res.Orders[i].History[j].Status = status.Normalize(string(res.Orders[i].History[j].Status))
		}
	}
	return res.Orders, nil
}

func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/orders/"+orderID, nil)
	if err != nil {
		return nil, err
	}

	var order Order
	if err := c.do(req, &order); err != nil {
		return nil, err
	}
	order.Status = status.Normalize(string(order.Status))
	for i := range order.History {
		order.History[i].Status = status.Normalize(string(order.History[i].Status))
	}
	return &order, nil
}

// CancelOrder uses the backend's dedicated cancel endpoint. The backend
// decides whether the cancellation is legal regardless of what the local
// transition table said.
func (c *Client) CancelOrder(ctx context.Context, orderID, note string) error {
	req, err := c.newRequest(ctx, http.MethodPatch, "/orders/"+orderID+"/cancel", map[string]string{
		"note": note,
	})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// UpdateOrderStatus submits a non-cancel transition.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID string, to status.Status, note string) error {
	req, err := c.newRequest(ctx, http.MethodPut, "/orders/"+orderID+"/status", map[string]string{
		"status": string(to),
		"note":   note,
	})
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

// GetItemsByID performs the backend batch availability lookup keyed by item
// id list and requesting role. Its result feeds the batch cache.
func (c *Client) GetItemsByID(ctx context.Context, itemIDs []string, role status.Role) ([]ItemStock, error) {
	req, err := c.newRequest(ctx, http.MethodPost, "/items/get-by-id", map[string]interface{}{
		"item_ids": itemIDs,
		"role":     string(role),
	})
	if err != nil {
		return nil, err
	}

	var res struct {
		Items []ItemStock `json:"items"`
	}
	if err := c.do(req, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

// GetUserPoints fetches the total balance and one page of the ledger. Total
// and entries are two independently served fields; the gateway never derives
// one from the other.
func (c *Client) GetUserPoints(ctx context.Context, userID string, page, limit int) (*points.Summary, error) {
	path := fmt.Sprintf("/users/%s/points?page=%d&limit=%d", userID, page, limit)
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var summary points.Summary
	if err := c.do(req, &summary); err != nil {
		return nil, err
	}
	summary.UserID = userID
	return &summary, nil
}
