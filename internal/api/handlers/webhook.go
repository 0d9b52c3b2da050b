package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/line/line-bot-sdk-go/v7/linebot"
	"github.com/sirupsen/logrus"

	"github.com/wakatake-dev/faqbot/internal/services"
)

// WebhookHandler bridges LINE messaging events to the question resolver.
type WebhookHandler struct {
	bot      *linebot.Client
	resolver QuestionResolver
	logger   *logrus.Logger
}

func NewWebhookHandler(channelSecret, channelToken string, resolver QuestionResolver, logger *logrus.Logger) (*WebhookHandler, error) {
	bot, err := linebot.New(channelSecret, channelToken)
	if err != nil {
		return nil, err
	}
	return &WebhookHandler{bot: bot, resolver: resolver, logger: logger}, nil
}

// HandleCallback verifies the webhook signature and answers every text
// message in the batch. Non-text events are ignored.
func (h *WebhookHandler) HandleCallback(c *gin.Context) {
	events, err := h.bot.ParseRequest(c.Request)
	if err != nil {
		if err == linebot.ErrInvalidSignature {
			h.logger.Warn("Webhook signature verification failed")
			c.Status(http.StatusBadRequest)
			return
		}
		h.logger.WithError(err).Error("Failed to parse webhook request")
		c.Status(http.StatusInternalServerError)
		return
	}

	for _, event := range events {
		if event.Type != linebot.EventTypeMessage {
			continue
		}
		message, ok := event.Message.(*linebot.TextMessage)
		if !ok {
			continue
		}
		h.replyToQuestion(c.Request.Context(), event.ReplyToken, message.Text)
	}

	c.Status(http.StatusOK)
}

// internalErrorReply is sent when resolution itself fails, e.g. the answer
// table is unreachable. Distinct from the no-match fallback so an outage
// does not read as "no answer exists".
const internalErrorReply = "Sorry, an internal error occurred. Please try again in a moment."

func (h *WebhookHandler) replyToQuestion(ctx context.Context, replyToken, question string) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	resolution, err := h.resolver.ResolveDetailed(ctx, question)
	if err != nil {
		h.logger.WithError(err).Error("Question resolution failed")
	}
	text := replyText(resolution, err)

	if _, err := h.bot.ReplyMessage(replyToken, linebot.NewTextMessage(text)).Do(); err != nil {
		h.logger.WithError(err).WithField("reply_token", replyToken).Error("Failed to send reply")
	}
}

// replyText flattens a resolution into one outgoing message.
func replyText(resolution services.Resolution, err error) string {
	if err != nil {
		return internalErrorReply
	}
	text := resolution.Answer.Text
	if resolution.Answer.URL != "" && !strings.Contains(text, resolution.Answer.URL) {
		text = text + "\n" + resolution.Answer.URL
	}
	return text
}
