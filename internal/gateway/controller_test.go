package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(sender Sender) *chi.Mux {
	ctrl := NewController(sender, NewBulkSender(sender, zap.NewNop()), zap.NewNop())
	r := chi.NewRouter()
	ctrl.Register(r)
	return r
}

func postJSON(t *testing.T, router http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSendMessage_Success(t *testing.T) {
	sender := newMockSender()
	router := newTestRouter(sender)

	rec := postJSON(t, router, "/api/sendMessage", `{"to":"0412345678","body":"bin day tomorrow"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"+61412345678"}, sender.smsCalls)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["message"])
}

func TestSendMessage_EmptyBodyRejectedBeforeProviderCall(t *testing.T) {
	sender := newMockSender()
	router := newTestRouter(sender)

	rec := postJSON(t, router, "/api/sendMessage", `{"to":"0412345678","body":"  "}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, sender.smsCalls)
}

func TestSendMessage_MalformedNumberRejected(t *testing.T) {
	sender := newMockSender()
	router := newTestRouter(sender)

	rec := postJSON(t, router, "/api/sendMessage", `{"to":"not-a-number","body":"hello"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, sender.smsCalls)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestSendGroupMessage_AggregatesResults(t *testing.T) {
	sender := newMockSender()
	router := newTestRouter(sender)

	rec := postJSON(t, router, "/api/sendGroupaMessage",
		`{"recipients":["0412345678","bad","0498765432"],"body":"hello"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var result BulkResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Successful)
	assert.Equal(t, 1, result.Failed)
	assert.Len(t, result.Details, 3)
}

func TestSendGroupMessage_MissingRecipients(t *testing.T) {
	router := newTestRouter(newMockSender())

	rec := postJSON(t, router, "/api/sendGroupaMessage", `{"recipients":[],"body":"hello"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMakeCall_Success(t *testing.T) {
	sender := newMockSender()
	router := newTestRouter(sender)

	rec := postJSON(t, router, "/api/makeCall", `{"to":"0412345678"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"+61412345678"}, sender.calls)
}

func TestGroupCall_AggregatesResults(t *testing.T) {
	sender := newMockSender()
	router := newTestRouter(sender)

	rec := postJSON(t, router, "/api/groupCall", `{"toNumbers":["0412345678","0498765432"]}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var result BulkResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Successful)
	assert.Zero(t, result.Failed)
}

func TestSendMessageTwilio_SuccessShape(t *testing.T) {
	sender := newMockSender()
	router := newTestRouter(sender)

	rec := postJSON(t, router, "/api/sendMessageTwilio", `{"to":"0412345678","message":"hi"}`)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.NotEmpty(t, resp["response"])
}

func TestSendMessageTwilio_FailureShape(t *testing.T) {
	router := newTestRouter(newMockSender())

	rec := postJSON(t, router, "/api/sendMessageTwilio", `{"to":"garbage","message":"hi"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["success"])
	assert.NotEmpty(t, resp["error"])
}

func TestGroupWhatsAppMessage_UsesWhatsAppChannel(t *testing.T) {
	sender := newMockSender()
	router := newTestRouter(sender)

	rec := postJSON(t, router, "/api/groupWattsappMessage",
		`{"recipients":["0412345678"],"message":"hello"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"+61412345678"}, sender.waCalls)
	assert.Empty(t, sender.smsCalls)
}

func TestEndpoints_InvalidJSON(t *testing.T) {
	router := newTestRouter(newMockSender())

	for _, path := range []string{
		"/api/sendMessage",
		"/api/sendGroupaMessage",
		"/api/makeCall",
		"/api/groupCall",
		"/api/sendMessageTwilio",
		"/api/groupWattsappMessage",
	} {
		rec := postJSON(t, router, path, `{broken`)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}
