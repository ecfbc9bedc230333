package gateway

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"resto_pos_terminal/internal/models"
	"resto_pos_terminal/pkg/utils"
)

type wireTable struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Capacity int     `json:"capacity"`
	Status   string  `json:"status"`
	OrderID  *string `json:"order_id"`
}

func (w wireTable) toModel() models.Table {
	status, ok := NormalizeTableStatus(w.Status)
	if !ok {
		// Fall back to whatever keeps the occupied/order invariant intact.
		status = models.TableStatusAvailable
		if w.OrderID != nil {
			status = models.TableStatusOccupied
		}
		utils.LogWarn("Unrecognized table status from backend", map[string]interface{}{
			"table_id": w.ID, "status": w.Status, "mapped_to": string(status),
		})
	}
	t := models.Table{ID: w.ID, Name: w.Name, Capacity: w.Capacity, Status: status}
	if status == models.TableStatusOccupied {
		t.OrderID = utils.NilIfBlank(w.OrderID)
	}
	return t
}

// ListTables returns every configured table.
func (c *Client) ListTables(ctx context.Context) ([]models.Table, error) {
	var wire []wireTable
	if err := c.do(ctx, request{method: http.MethodGet, path: "/tables"}, &wire); err != nil {
		return nil, err
	}
	tables := make([]models.Table, 0, len(wire))
	for _, w := range wire {
		tables = append(tables, w.toModel())
	}
	return tables, nil
}

type wireAvailability struct {
	wireTable
	Available bool `json:"available"`
}

// ListTablesByTime returns table availability for a booking at the given time.
func (c *Client) ListTablesByTime(ctx context.Context, at time.Time, partySize int, customerID *string) ([]models.TableAvailability, error) {
	q := url.Values{}
	q.Set("datetime", at.UTC().Format(time.RFC3339))
	q.Set("party_size", strconv.Itoa(partySize))
	if customerID != nil {
		q.Set("customer_id", *customerID)
	}
	var wire []wireAvailability
	if err := c.do(ctx, request{method: http.MethodGet, path: "/tables/availability", query: q}, &wire); err != nil {
		return nil, err
	}
	out := make([]models.TableAvailability, 0, len(wire))
	for _, w := range wire {
		out = append(out, models.TableAvailability{Table: w.toModel(), Available: w.Available})
	}
	return out, nil
}

// UpdateTableStatus persists a table's status and its bound order, if any.
func (c *Client) UpdateTableStatus(ctx context.Context, tableID string, status models.TableStatus, orderID *string) error {
	body := map[string]interface{}{"status": status, "order_id": orderID}
	return c.do(ctx, request{method: http.MethodPatch, path: "/tables/" + url.PathEscape(tableID) + "/status", body: body}, nil)
}
