package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/wakatake-dev/faqbot/internal/database"
	"github.com/wakatake-dev/faqbot/internal/models"
	"github.com/wakatake-dev/faqbot/internal/repository"
	"github.com/wakatake-dev/faqbot/internal/services"
	"github.com/wakatake-dev/faqbot/pkg/utils"
)

var errCacheUnavailable = errors.New("answer cache unavailable")

// QuestionResolver answers a free-form question.
type QuestionResolver interface {
	ResolveDetailed(ctx context.Context, question string) (services.Resolution, error)
}

type AskHandler struct {
	resolver    QuestionResolver
	repoManager *repository.Manager
	cache       *database.Cache
	logger      *logrus.Logger
}

func NewAskHandler(
	resolver QuestionResolver,
	repoManager *repository.Manager,
	cache *database.Cache,
	logger *logrus.Logger,
) *AskHandler {
	return &AskHandler{
		resolver:    resolver,
		repoManager: repoManager,
		cache:       cache,
		logger:      logger,
	}
}

// HandleAsk processes question requests.
func (h *AskHandler) HandleAsk(c *gin.Context) {
	startTime := time.Now()

	var req models.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.WithError(err).Error("Invalid ask request")
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Question cannot be empty", nil)
		return
	}
	if len(question) > 2000 {
		utils.ErrorResponse(c, http.StatusBadRequest, "Question too long (max 2000 characters)", nil)
		return
	}

	userSession := h.getUserSession(c)

	h.logger.WithFields(logrus.Fields{
		"question":     question,
		"user_session": userSession,
		"ip_address":   c.ClientIP(),
	}).Info("Processing question")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	cacheKey := h.cacheKey(question)
	var resolution services.Resolution

	if err := h.getCachedResolution(ctx, cacheKey, &resolution); err == nil {
		h.logger.Debug("Answer served from cache")
	} else {
		resolution, err = h.resolver.ResolveDetailed(ctx, question)
		if err != nil {
			h.logger.WithError(err).Error("Question resolution failed")
			go h.trackQuestion(userSession, question, resolution, time.Since(startTime), c)
			utils.ErrorResponse(c, http.StatusInternalServerError, "Internal error", nil)
			return
		}
		if err := h.cacheResolution(ctx, cacheKey, resolution); err != nil {
			h.logger.WithError(err).Warn("Failed to cache answer")
		}
	}

	responseTime := time.Since(startTime)

	go h.trackQuestion(userSession, question, resolution, responseTime, c)
	go h.updatePopularQuestions(question, responseTime)

	response := models.AskResponse{
		Answer:       resolution.Answer,
		Source:       resolution.Source,
		ResponseTime: int(responseTime.Milliseconds()),
	}
	utils.SuccessResponse(c, http.StatusOK, "Question answered", response)
}

// HandlePopular returns the most-asked questions, optionally filtered by a
// `q` substring so clients can offer completion-style suggestions.
func (h *AskHandler) HandlePopular(c *gin.Context) {
	if h.repoManager == nil || h.repoManager.PopularQuestion == nil {
		utils.ErrorResponse(c, http.StatusServiceUnavailable, "Analytics are not configured", nil)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))
	if limit < 1 {
		limit = 5
	}
	if limit > 10 {
		limit = 10
	}

	popular, err := h.repoManager.PopularQuestion.GetTop(limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get popular questions")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to get popular questions", err)
		return
	}

	if filter := strings.ToLower(strings.TrimSpace(c.Query("q"))); filter != "" {
		filtered := make([]models.PopularQuestion, 0, len(popular))
		for _, q := range popular {
			if strings.Contains(strings.ToLower(q.QuestionText), filter) {
				filtered = append(filtered, q)
			}
		}
		popular = filtered
	}

	utils.SuccessResponse(c, http.StatusOK, "Popular questions retrieved", popular)
}

func (h *AskHandler) cacheKey(question string) string {
	return utils.MD5Hash(strings.ToLower(strings.TrimSpace(question)))
}

func (h *AskHandler) getCachedResolution(ctx context.Context, key string, out *services.Resolution) error {
	if h.cache == nil {
		return errCacheUnavailable
	}
	return h.cache.GetCachedAnswer(ctx, key, out)
}

func (h *AskHandler) cacheResolution(ctx context.Context, key string, resolution services.Resolution) error {
	if h.cache == nil {
		return nil
	}
	return h.cache.CacheAnswer(ctx, key, resolution, 5*time.Minute)
}

func (h *AskHandler) getUserSession(c *gin.Context) string {
	if session := c.GetHeader("X-Session-ID"); session != "" {
		return session
	}
	return utils.SessionID(c.ClientIP() + c.GetHeader("User-Agent"))
}

func (h *AskHandler) trackQuestion(session, question string, resolution services.Resolution, elapsed time.Duration, c *gin.Context) {
	if h.repoManager == nil || h.repoManager.QuestionLog == nil {
		return
	}
	source := resolution.Source
	if source == "" {
		source = models.SourceFallback
	}
	log := &models.QuestionLog{
		QuestionText:   question,
		Source:         source,
		Score:          resolution.Score,
		MatchedURL:     resolution.Answer.URL,
		UserSession:    session,
		ResponseTimeMs: int(elapsed.Milliseconds()),
		UserAgent:      c.GetHeader("User-Agent"),
		IPAddress:      c.ClientIP(),
	}
	if err := h.repoManager.QuestionLog.Create(log); err != nil {
		h.logger.WithError(err).Warn("Failed to record question log")
	}
}

func (h *AskHandler) updatePopularQuestions(question string, elapsed time.Duration) {
	if h.repoManager == nil || h.repoManager.PopularQuestion == nil {
		return
	}
	if err := h.repoManager.PopularQuestion.IncrementCount(question, int(elapsed.Milliseconds())); err != nil {
		h.logger.WithError(err).Warn("Failed to update popular questions")
	}
}
