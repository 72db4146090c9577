package priority

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"binapp/internal/domain"
	"binapp/internal/priority/service"
)

type NotificationReader interface {
	Count(ctx context.Context) (int, error)
	List(ctx context.Context) ([]service.FlaggedCustomer, error)
}

type Controller struct {
	notifications NotificationReader
	logger        *zap.Logger
}

func NewController(notifications NotificationReader, logger *zap.Logger) *Controller {
	return &Controller{notifications: notifications, logger: logger}
}

func (c *Controller) Register(r chi.Router) {
	r.Get("/api/notifications/count", c.GetCount)
	r.Get("/api/notifications", c.List)
}

func (c *Controller) GetCount(w http.ResponseWriter, r *http.Request) {
	count, err := c.notifications.Count(r.Context())
	if err != nil {
		c.logger.Error("reading notification count failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
		})
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

type flaggedCustomerResponse struct {
	CustomerID         string               `json:"customerId"`
	Name               string               `json:"name"`
	Phone              string               `json:"phone"`
	DaysSinceLastOrder int                  `json:"daysSinceLastOrder"`
	FrequencyDays      int                  `json:"frequencyDays"`
	PriorityClass      domain.PriorityClass `json:"priorityClass"`
	LastOrderDate      string               `json:"lastOrderDate"`
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	flagged, err := c.notifications.List(r.Context())
	if err != nil {
		c.logger.Error("listing flagged customers failed", zap.Error(err))
		c.writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   "INTERNAL_ERROR",
			"message": "an unexpected error occurred",
		})
		return
	}

	out := make([]flaggedCustomerResponse, 0, len(flagged))
	for _, f := range flagged {
		out = append(out, flaggedCustomerResponse{
			CustomerID:         f.CustomerID,
			Name:               f.Name,
			Phone:              f.Phone,
			DaysSinceLastOrder: f.DaysSinceLastOrder,
			FrequencyDays:      f.FrequencyDays,
			PriorityClass:      f.PriorityClass,
			LastOrderDate:      f.LastOrderDate.Format("2006-01-02"),
		})
	}

	c.writeJSON(w, http.StatusOK, out)
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
