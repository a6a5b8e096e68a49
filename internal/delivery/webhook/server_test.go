package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prana-whatsapp-bot/internal/domain/entity"
	"github.com/yourusername/prana-whatsapp-bot/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type call struct {
	userID  string
	message string
}

type fakeDispatcher struct {
	mu    sync.Mutex
	calls []call
	panic bool
}

func (f *fakeDispatcher) Process(ctx context.Context, userID, message string) string {
	if f.panic {
		panic("boom")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{userID, message})
	return "eco: " + message
}

func (f *fakeDispatcher) History(ctx context.Context, userID string) ([]entity.ConversationTurn, error) {
	return nil, nil
}

func (f *fakeDispatcher) ClearHistory(ctx context.Context, userID string) error { return nil }

func (f *fakeDispatcher) GenerativeAvailable() bool { return false }

func serve(t *testing.T, d usecase.Dispatcher, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	NewServer(":0", d, "secreto", nil).Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(t, &fakeDispatcher{}, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","bot":"running"}`, rec.Body.String())
}

func TestHome(t *testing.T) {
	rec := serve(t, &fakeDispatcher{}, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Prana Juice Bar WhatsApp Bot")
}

func TestTwilioWebhook(t *testing.T) {
	d := &fakeDispatcher{}
	form := url.Values{"Body": {"  hola  "}, "From": {"whatsapp:+58412"}}
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := serve(t, d, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "<Response><Message>eco:   hola  </Message></Response>", rec.Body.String())
	require.Len(t, d.calls, 1)
	assert.Equal(t, call{"whatsapp:+58412", "  hola  "}, d.calls[0])
}

func TestTwilioWebhook_Panic(t *testing.T) {
	form := url.Values{"Body": {"hola"}, "From": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := serve(t, &fakeDispatcher{panic: true}, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), usecase.ErrorReply)
}

func TestMetaWebhook(t *testing.T) {
	d := &fakeDispatcher{}
	body := `{"entry":[{"changes":[{"value":{"messages":[{"from":"58412","text":{"body":"que shots tienen"}}]}}]}]}`
	rec := serve(t, d, httptest.NewRequest(http.MethodPost, "/webhook/meta", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var got map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "success", got["status"])
	assert.Equal(t, "58412", got["to"])
	assert.Equal(t, "eco: que shots tienen", got["response"])
}

func TestMetaWebhook_NoMessage(t *testing.T) {
	d := &fakeDispatcher{}
	rec := serve(t, d, httptest.NewRequest(http.MethodPost, "/webhook/meta", strings.NewReader(`{"entry":[{"changes":[{"value":{}}]}]}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"no message found"}`, rec.Body.String())
	assert.Empty(t, d.calls)
}

func TestMetaVerify(t *testing.T) {
	ok := serve(t, &fakeDispatcher{}, httptest.NewRequest(http.MethodGet,
		"/webhook/meta?hub.mode=subscribe&hub.verify_token=secreto&hub.challenge=42", nil))
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Equal(t, "42", ok.Body.String())

	bad := serve(t, &fakeDispatcher{}, httptest.NewRequest(http.MethodGet,
		"/webhook/meta?hub.mode=subscribe&hub.verify_token=otro&hub.challenge=42", nil))
	assert.Equal(t, http.StatusForbidden, bad.Code)
}

func TestTestEndpoint(t *testing.T) {
	d := &fakeDispatcher{}
	rec := serve(t, d, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"message":"hola"}`)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","message":"hola","response":"eco: hola"}`, rec.Body.String())
	require.Len(t, d.calls, 1)
	assert.Equal(t, "test_user", d.calls[0].userID)
}

func TestTestEndpoint_BadJSON(t *testing.T) {
	rec := serve(t, &fakeDispatcher{}, httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := NewServer("127.0.0.1:0", &fakeDispatcher{}, "", nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	assert.NoError(t, <-done)
}
