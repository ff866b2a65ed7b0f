package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/service/whatsapp"
)

type mockMessaging struct {
	mock.Mock
}

func (m *mockMessaging) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	args := m.Called(mode, verifyToken, challenge)
	return args.String(0), args.Error(1)
}

func (m *mockMessaging) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	return m.Called(ctx, payload).Error(0)
}

func (m *mockMessaging) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	return m.Called(ctx, req).Error(0)
}

func newWebhookEngine(svc *mockMessaging) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewWebhookHandler(svc, nil)
	r := gin.New()
	r.GET("/webhook", h.Verify)
	r.POST("/webhook", h.Receive)
	r.POST("/send-message", h.SendMessage)
	return r
}

func TestVerify(t *testing.T) {
	// Arrange
	svc := new(mockMessaging)
	svc.On("VerifyWebhookToken", "subscribe", "good", "42").Return("42", nil)
	svc.On("VerifyWebhookToken", "subscribe", "bad", "42").Return("", whatsapp.ErrInvalidVerifyToken)
	r := newWebhookEngine(svc)

	// Act
	ok := httptest.NewRecorder()
	r.ServeHTTP(ok, httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=good&hub.challenge=42", nil))
	denied := httptest.NewRecorder()
	r.ServeHTTP(denied, httptest.NewRequest(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=bad&hub.challenge=42", nil))

	// Assert
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Equal(t, "42", ok.Body.String())
	assert.Equal(t, http.StatusForbidden, denied.Code)
}

func TestReceive_AcknowledgesProcessingFailures(t *testing.T) {
	// Arrange
	svc := new(mockMessaging)
	svc.On("HandleWebhook", mock.Anything, mock.Anything).Return(errors.New("send failed"))
	r := newWebhookEngine(svc)

	// Act
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"object":"whatsapp_business_account","entry":[]}`)))

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestReceive_RejectsMalformedJSON(t *testing.T) {
	// Arrange
	svc := new(mockMessaging)
	r := newWebhookEngine(svc)

	// Act
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{`)))

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "HandleWebhook", mock.Anything, mock.Anything)
}

func TestSendMessage(t *testing.T) {
	// Arrange
	svc := new(mockMessaging)
	svc.On("SendOutbound", mock.Anything, models.OutboundMessageRequest{To: "224600000001", Message: "hi"}).Return(nil)
	r := newWebhookEngine(svc)

	// Act
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/send-message", strings.NewReader(`{"to":"224600000001","message":"hi"}`)))
	missing := httptest.NewRecorder()
	r.ServeHTTP(missing, httptest.NewRequest(http.MethodPost, "/send-message", strings.NewReader(`{"to":"224600000001"}`)))

	// Assert
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, http.StatusBadRequest, missing.Code)
}
