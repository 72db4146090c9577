package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"binapp/internal/domain"
	apperrors "binapp/internal/errors"
)

type OrderRepository interface {
	Insert(ctx context.Context, order domain.Order) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindAll(ctx context.Context) ([]domain.Order, error)
	FindByCustomerID(ctx context.Context, customerID string) ([]domain.Order, error)
	UpdatePayment(ctx context.Context, id string, totalPrice float64, status string) error
	Delete(ctx context.Context, id string) error
}

type FrequencyRecomputer interface {
	RecomputeAsync(ctx context.Context, customerID string)
}

// CreatedNotifier receives order-created signals after a successful insert.
// Implementations publish to Kafka and poke the priority scheduler; both are
// fire-and-forget from the controller's point of view.
type CreatedNotifier interface {
	OrderCreated(orderID, customerID string, orderDate time.Time)
}

type OrderController struct {
	repo      OrderRepository
	frequency FrequencyRecomputer
	notifier  CreatedNotifier
	logger    *zap.Logger
}

func NewOrderController(repo OrderRepository, frequency FrequencyRecomputer, notifier CreatedNotifier, logger *zap.Logger) *OrderController {
	return &OrderController{
		repo:      repo,
		frequency: frequency,
		notifier:  notifier,
		logger:    logger,
	}
}

func (c *OrderController) Register(r chi.Router) {
	r.Post("/api/orders", c.Create)
	r.Get("/api/orders", c.List)
	r.Get("/api/orders/{orderId}", c.Get)
	r.Patch("/api/orders/{orderId}/payment", c.UpdatePayment)
	r.Delete("/api/orders/{orderId}", c.Delete)
}

type orderItemRequest struct {
	Category    string  `json:"category"`
	SubCategory string  `json:"subCategory"`
	Weight      float64 `json:"weight"`
	PricePerKg  float64 `json:"pricePerKg"`
}

type createOrderRequest struct {
	CustomerID string             `json:"customerId"`
	OrderDate  string             `json:"orderDate"`
	Items      []orderItemRequest `json:"orderItems"`
	Status     string             `json:"status"`
}

type orderItemResponse struct {
	Category    string  `json:"category"`
	SubCategory string  `json:"subCategory"`
	Weight      float64 `json:"weight"`
	PricePerKg  float64 `json:"pricePerKg"`
}

type orderResponse struct {
	ID         string              `json:"id"`
	CustomerID string              `json:"customerId"`
	OrderDate  string              `json:"orderDate"`
	Items      []orderItemResponse `json:"orderItems,omitempty"`
	Status     string              `json:"status"`
	TotalPrice float64             `json:"orderPayment"`
}

func toOrderResponse(order domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemResponse{
			Category:    item.Category,
			SubCategory: item.SubCategory,
			Weight:      item.WeightKg,
			PricePerKg:  item.PricePerKg,
		})
	}
	return orderResponse{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		OrderDate:  order.OrderDate.Format("2006-01-02"),
		Items:      items,
		Status:     order.Status,
		TotalPrice: order.TotalPrice,
	}
}

func (c *OrderController) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	orderDate, validationErr := c.validateCreateRequest(req)
	if validationErr != nil {
		ve, _ := apperrors.IsValidationError(validationErr)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = domain.OrderStatusPending
	}

	items := make([]domain.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.OrderItem{
			Category:    item.Category,
			SubCategory: item.SubCategory,
			WeightKg:    item.Weight,
			PricePerKg:  item.PricePerKg,
		}
	}

	order := domain.Order{
		CustomerID: req.CustomerID,
		OrderDate:  orderDate,
		Items:      items,
		Status:     status,
	}

	id, err := c.repo.Insert(r.Context(), order)
	if err != nil {
		logger.Error("creating order failed", zap.Error(err))
		c.writeInternalError(w)
		return
	}

	logger.Info("order created",
		zap.String("orderId", id),
		zap.String("customerId", req.CustomerID),
		zap.Int("itemCount", len(items)))

	// Best-effort follow-ups. The order is already committed; recompute and
	// notification failures must not surface to the submitter.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		c.frequency.RecomputeAsync(ctx, req.CustomerID)
	}()
	c.notifier.OrderCreated(id, req.CustomerID, orderDate)

	c.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":           id,
		"orderPayment": order.ComputeTotal(),
	})
}

func (c *OrderController) validateCreateRequest(req createOrderRequest) (time.Time, error) {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(req.CustomerID) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "customerId",
			Message: "customerId is required",
		})
	}

	var orderDate time.Time
	if strings.TrimSpace(req.OrderDate) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "orderDate",
			Message: "orderDate is required",
		})
	} else {
		parsed, err := domain.ParseOrderDate(req.OrderDate)
		if err != nil {
			details = append(details, apperrors.ValidationDetail{
				Field:   "orderDate",
				Message: "orderDate must be a calendar date (YYYY-MM-DD)",
			})
		} else {
			orderDate = parsed
		}
	}

	if len(req.Items) == 0 {
		details = append(details, apperrors.ValidationDetail{
			Field:   "orderItems",
			Message: "orderItems must not be empty",
		})
	}

	for idx, item := range req.Items {
		if strings.TrimSpace(item.Category) == "" {
			details = append(details, apperrors.ValidationDetail{
				Field:   "orderItems[" + strconv.Itoa(idx) + "].category",
				Message: "category is required",
			})
		}
		if item.Weight <= 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "orderItems[" + strconv.Itoa(idx) + "].weight",
				Message: "weight must be positive",
			})
		}
		if item.PricePerKg < 0 {
			details = append(details, apperrors.ValidationDetail{
				Field:   "orderItems[" + strconv.Itoa(idx) + "].pricePerKg",
				Message: "pricePerKg must be non-negative",
			})
		}
	}

	if len(details) > 0 {
		return time.Time{}, apperrors.NewValidationError("validation failed", details...)
	}

	return orderDate, nil
}

func (c *OrderController) List(w http.ResponseWriter, r *http.Request) {
	var (
		orders []domain.Order
		err    error
	)

	if customerID := r.URL.Query().Get("customerId"); customerID != "" {
		orders, err = c.repo.FindByCustomerID(r.Context(), customerID)
	} else {
		orders, err = c.repo.FindAll(r.Context())
	}
	if err != nil {
		c.logger.Error("listing orders failed", zap.Error(err))
		c.writeInternalError(w)
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderResponse(order))
	}

	c.writeJSON(w, http.StatusOK, out)
}

func (c *OrderController) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderId")

	order, err := c.repo.FindByID(r.Context(), id)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, toOrderResponse(*order))
}

type updatePaymentRequest struct {
	OrderPayment float64 `json:"orderPayment"`
	Status       string  `json:"status"`
}

func (c *OrderController) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderId")

	var req updatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if req.OrderPayment < 0 {
		c.writeValidationError(w, "validation failed", apperrors.ValidationDetail{
			Field:   "orderPayment",
			Message: "orderPayment must be non-negative",
		})
		return
	}

	status := strings.TrimSpace(req.Status)
	if status == "" {
		status = domain.OrderStatusPending
	}

	if err := c.repo.UpdatePayment(r.Context(), id, req.OrderPayment, status); err != nil {
		c.handleError(w, err)
		return
	}

	c.logger.Info("order payment updated", zap.String("orderId", id), zap.String("status", status))
	c.writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (c *OrderController) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderId")

	if err := c.repo.Delete(r.Context(), id); err != nil {
		c.handleError(w, err)
		return
	}

	c.logger.Info("order deleted", zap.String("orderId", id))
	w.WriteHeader(http.StatusNoContent)
}

func (c *OrderController) handleError(w http.ResponseWriter, err error) {
	if nfe, ok := apperrors.IsNotFoundError(err); ok {
		c.writeJSON(w, http.StatusNotFound, map[string]string{
			"error":   "NOT_FOUND",
			"message": nfe.Message,
		})
		return
	}

	c.logger.Error("unexpected error", zap.Error(err))
	c.writeInternalError(w)
}

type validationErrorResponse struct {
	Error   string                       `json:"error"`
	Message string                       `json:"message"`
	Details []apperrors.ValidationDetail `json:"details"`
}

func (c *OrderController) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *OrderController) writeInternalError(w http.ResponseWriter) {
	c.writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "INTERNAL_ERROR",
		"message": "an unexpected error occurred",
	})
}

func (c *OrderController) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
