package customer

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"binapp/internal/domain"
	apperrors "binapp/internal/errors"
)

type Repository interface {
	Insert(ctx context.Context, customer domain.Customer) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	FindAll(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, customer domain.Customer) error
	Delete(ctx context.Context, id string) error
}

type Controller struct {
	repo   Repository
	logger *zap.Logger
}

func NewController(repo Repository, logger *zap.Logger) *Controller {
	return &Controller{repo: repo, logger: logger}
}

func (c *Controller) Register(r chi.Router) {
	r.Post("/api/customers", c.Create)
	r.Get("/api/customers", c.List)
	r.Get("/api/customers/{customerId}", c.Get)
	r.Put("/api/customers/{customerId}", c.Update)
	r.Delete("/api/customers/{customerId}", c.Delete)
}

type customerRequest struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	Phone     string  `json:"phone"`
	Email     *string `json:"email"`
	Address   *string `json:"address"`
	Frequency string  `json:"frequency"`
}

type customerResponse struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Phone         string    `json:"phone"`
	Email         *string   `json:"email"`
	Address       *string   `json:"address"`
	Frequency     string    `json:"frequency"`
	FrequencyDays int       `json:"frequencyDays"`
	Created       time.Time `json:"created"`
}

func toResponse(customer domain.Customer) customerResponse {
	return customerResponse{
		ID:            customer.ID,
		FirstName:     customer.FirstName,
		LastName:      customer.LastName,
		Phone:         customer.Phone,
		Email:         customer.Email,
		Address:       customer.Address,
		Frequency:     customer.Frequency,
		FrequencyDays: customer.FrequencyDays(),
		Created:       customer.CreatedAt,
	}
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))

	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateCustomerRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	id, err := c.repo.Insert(r.Context(), domain.Customer{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     req.Email,
		Address:   req.Address,
		Frequency: req.Frequency,
	})
	if err != nil {
		logger.Error("creating customer failed", zap.Error(err))
		c.writeInternalError(w)
		return
	}

	logger.Info("customer created", zap.String("customerId", id))
	c.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	customers, err := c.repo.FindAll(r.Context())
	if err != nil {
		c.logger.Error("listing customers failed", zap.Error(err))
		c.writeInternalError(w)
		return
	}

	// Empty list is a legitimate result, not an error.
	out := make([]customerResponse, 0, len(customers))
	for _, customer := range customers {
		out = append(out, toResponse(customer))
	}

	c.writeJSON(w, http.StatusOK, out)
}

func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "customerId")

	customer, err := c.repo.FindByID(r.Context(), id)
	if err != nil {
		c.handleError(w, err)
		return
	}

	c.writeJSON(w, http.StatusOK, toResponse(*customer))
}

func (c *Controller) Update(w http.ResponseWriter, r *http.Request) {
	traceID := uuid.New().String()
	logger := c.logger.With(zap.String("traceId", traceID))
	id := chi.URLParam(r, "customerId")

	var req customerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid JSON body", zap.Error(err))
		c.writeValidationError(w, "invalid JSON body", apperrors.ValidationDetail{
			Field:   "body",
			Message: "request body must be valid JSON",
		})
		return
	}

	if err := validateCustomerRequest(req); err != nil {
		ve, _ := apperrors.IsValidationError(err)
		c.writeValidationError(w, ve.Message, ve.Details...)
		return
	}

	err := c.repo.Update(r.Context(), domain.Customer{
		ID:        id,
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Phone:     strings.TrimSpace(req.Phone),
		Email:     req.Email,
		Address:   req.Address,
		Frequency: req.Frequency,
	})
	if err != nil {
		c.handleError(w, err)
		return
	}

	logger.Info("customer updated", zap.String("customerId", id))
	c.writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "customerId")

	if err := c.repo.Delete(r.Context(), id); err != nil {
		c.handleError(w, err)
		return
	}

	c.logger.Info("customer deleted", zap.String("customerId", id))
	w.WriteHeader(http.StatusNoContent)
}

func validateCustomerRequest(req customerRequest) error {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(req.FirstName) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "firstName",
			Message: "firstName is required",
		})
	}

	if strings.TrimSpace(req.Phone) == "" {
		details = append(details, apperrors.ValidationDetail{
			Field:   "phone",
			Message: "phone is required",
		})
	}

	if len(details) > 0 {
		return apperrors.NewValidationError("validation failed", details...)
	}

	return nil
}

func (c *Controller) handleError(w http.ResponseWriter, err error) {
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

func (c *Controller) writeValidationError(w http.ResponseWriter, message string, details ...apperrors.ValidationDetail) {
	c.writeJSON(w, http.StatusBadRequest, validationErrorResponse{
		Error:   "VALIDATION_ERROR",
		Message: message,
		Details: details,
	})
}

func (c *Controller) writeInternalError(w http.ResponseWriter) {
	c.writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error":   "INTERNAL_ERROR",
		"message": "an unexpected error occurred",
	})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
