package gateway

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "binapp/internal/errors"
)

// Controller exposes the outbound messaging endpoints consumed by the
// front-end. Endpoint names mirror the deployed API contract, spelling
// quirks included; renaming them breaks the client.
type Controller struct {
	sender Sender
	bulk   *BulkSender
	logger *zap.Logger
}

func NewController(sender Sender, bulk *BulkSender, logger *zap.Logger) *Controller {
	return &Controller{sender: sender, bulk: bulk, logger: logger}
}

func (c *Controller) Register(r chi.Router) {
	r.Post("/api/sendMessage", c.SendMessage)
	r.Post("/api/sendGroupaMessage", c.SendGroupMessage)
	r.Post("/api/makeCall", c.MakeCall)
	r.Post("/api/groupCall", c.GroupCall)
	r.Post("/api/sendMessageTwilio", c.SendMessageTwilio)
	r.Post("/api/groupWattsappMessage", c.GroupWhatsAppMessage)
}

type sendMessageRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

func (c *Controller) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if !c.decode(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Body) == "" {
		c.writeError(w, http.StatusBadRequest, "message body must not be empty")
		return
	}

	to, err := NormalizePhone(req.To)
	if err != nil {
		c.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sid, err := c.sender.SendSMS(r.Context(), to, req.Body)
	if err != nil {
		c.handleSendError(w, err)
		return
	}

	c.logger.Info("message sent", zap.String("to", to), zap.String("messageId", sid))
	c.writeJSON(w, http.StatusOK, map[string]string{"message": "Message sent successfully"})
}

type groupMessageRequest struct {
	Recipients []string `json:"recipients"`
	Body       string   `json:"body"`
}

func (c *Controller) SendGroupMessage(w http.ResponseWriter, r *http.Request) {
	var req groupMessageRequest
	if !c.decode(w, r, &req) {
		return
	}

	if !c.validateGroup(w, req.Recipients, req.Body) {
		return
	}

	result := c.bulk.Send(r.Context(), KindSMS, req.Recipients, req.Body)
	c.writeJSON(w, http.StatusOK, result)
}

type makeCallRequest struct {
	To string `json:"to"`
}

func (c *Controller) MakeCall(w http.ResponseWriter, r *http.Request) {
	var req makeCallRequest
	if !c.decode(w, r, &req) {
		return
	}

	to, err := NormalizePhone(req.To)
	if err != nil {
		c.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sid, err := c.sender.StartCall(r.Context(), to)
	if err != nil {
		c.handleSendError(w, err)
		return
	}

	c.logger.Info("call started", zap.String("to", to), zap.String("callId", sid))
	c.writeJSON(w, http.StatusOK, map[string]string{"message": "Call initiated successfully"})
}

type groupCallRequest struct {
	ToNumbers []string `json:"toNumbers"`
}

func (c *Controller) GroupCall(w http.ResponseWriter, r *http.Request) {
	var req groupCallRequest
	if !c.decode(w, r, &req) {
		return
	}

	if len(req.ToNumbers) == 0 {
		c.writeError(w, http.StatusBadRequest, "toNumbers must not be empty")
		return
	}

	result := c.bulk.Send(r.Context(), KindCall, req.ToNumbers, "")
	c.writeJSON(w, http.StatusOK, result)
}

type sendMessageTwilioRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

func (c *Controller) SendMessageTwilio(w http.ResponseWriter, r *http.Request) {
	var req sendMessageTwilioRequest
	if !c.decode(w, r, &req) {
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		c.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "message must not be empty",
		})
		return
	}

	to, err := NormalizePhone(req.To)
	if err != nil {
		c.writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	sid, err := c.sender.SendSMS(r.Context(), to, req.Message)
	if err != nil {
		status := http.StatusInternalServerError
		if ge, ok := apperrors.IsGatewayError(err); ok && ge.Kind == apperrors.GatewayInvalidNumber {
			status = http.StatusBadRequest
		}
		c.writeJSON(w, status, map[string]interface{}{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"response": sid,
	})
}

type groupWhatsAppRequest struct {
	Recipients []string `json:"recipients"`
	Message    string   `json:"message"`
}

func (c *Controller) GroupWhatsAppMessage(w http.ResponseWriter, r *http.Request) {
	var req groupWhatsAppRequest
	if !c.decode(w, r, &req) {
		return
	}

	if !c.validateGroup(w, req.Recipients, req.Message) {
		return
	}

	result := c.bulk.Send(r.Context(), KindWhatsApp, req.Recipients, req.Message)
	c.writeJSON(w, http.StatusOK, result)
}

func (c *Controller) validateGroup(w http.ResponseWriter, recipients []string, body string) bool {
	if len(recipients) == 0 {
		c.writeError(w, http.StatusBadRequest, "recipients must not be empty")
		return false
	}
	if strings.TrimSpace(body) == "" {
		c.writeError(w, http.StatusBadRequest, "message body must not be empty")
		return false
	}
	return true
}

func (c *Controller) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		c.writeError(w, http.StatusBadRequest, "request body must be valid JSON")
		return false
	}
	return true
}

func (c *Controller) handleSendError(w http.ResponseWriter, err error) {
	if ge, ok := apperrors.IsGatewayError(err); ok {
		status := http.StatusInternalServerError
		if ge.Kind == apperrors.GatewayInvalidNumber {
			status = http.StatusBadRequest
		}
		c.writeError(w, status, ge.Message)
		return
	}

	c.logger.Error("send failed", zap.Error(err))
	c.writeError(w, http.StatusInternalServerError, "an unexpected error occurred")
}

func (c *Controller) writeError(w http.ResponseWriter, status int, message string) {
	c.writeJSON(w, status, map[string]string{"error": message})
}

func (c *Controller) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		c.logger.Error("failed to encode response", zap.Error(err))
	}
}
