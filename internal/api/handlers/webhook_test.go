package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wakatake-dev/faqbot/internal/models"
	"github.com/wakatake-dev/faqbot/internal/services"
)

func newWebhookRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler, err := NewWebhookHandler("test-secret", "test-token", &stubResolver{}, quietLogger())
	require.NoError(t, err)
	router := gin.New()
	router.POST("/callback", handler.HandleCallback)
	return router
}

func TestHandleCallbackRejectsBadSignature(t *testing.T) {
	router := newWebhookRouter(t)

	body := `{"destination":"xxx","events":[]}`
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Line-Signature", "not-a-valid-signature")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReplyTextAppendsURL(t *testing.T) {
	text := replyText(services.Resolution{
		Answer: models.Answer{Text: "こちらが参考になるかもしれません: 返品ポリシー", URL: "https://example.com/returns"},
		Source: models.SourceDocument,
	}, nil)

	assert.Equal(t, "こちらが参考になるかもしれません: 返品ポリシー\nhttps://example.com/returns", text)
}

func TestReplyTextResolutionFailureIsNotFallback(t *testing.T) {
	text := replyText(services.Resolution{}, fmt.Errorf("faq table load failed"))

	assert.Equal(t, internalErrorReply, text)
	assert.NotEqual(t, services.FallbackMessage, text)
}

func TestHandleCallbackRejectsMissingSignature(t *testing.T) {
	router := newWebhookRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(`{"events":[]}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
