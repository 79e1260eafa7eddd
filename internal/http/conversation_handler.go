package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"triage-assist/internal/domain"
	"triage-assist/internal/service"
)

// StatsProvider expone los conteos agregados del registro de triage.
type StatsProvider interface {
	DepartmentStats(ctx context.Context, since time.Time) ([]domain.DepartmentCount, error)
}

// ConversationHandler atiende los endpoints de sesiones y turnos.
type ConversationHandler struct {
	logger   *zap.Logger
	sessions *service.SessionManager
	tokens   *service.SessionTokenService
	limiter  service.SubmitRateLimiter
	stats    StatsProvider
}

func NewConversationHandler(
	logger *zap.Logger,
	sessions *service.SessionManager,
	tokens *service.SessionTokenService,
	limiter service.SubmitRateLimiter,
	stats StatsProvider,
) *ConversationHandler {
	return &ConversationHandler{
		logger:   logger,
		sessions: sessions,
		tokens:   tokens,
		limiter:  limiter,
		stats:    stats,
	}
}

type createdSessionResponse struct {
	domain.Session
	Messages []domain.Message `json:"messages"`
}

type conversationView struct {
	SessionID       string                     `json:"session_id"`
	Messages        []domain.Message           `json:"messages"`
	RequestInFlight bool                       `json:"request_in_flight"`
	Status          service.ConversationStatus `json:"status"`
	LastOutcome     service.ConversationStatus `json:"last_outcome,omitempty"`
	Draft           string                     `json:"draft"`
}

func viewOf(conv *service.Conversation) conversationView {
	return conversationView{
		SessionID:       conv.ID(),
		Messages:        conv.Messages(),
		RequestInFlight: conv.InFlight(),
		Status:          conv.Status(),
		LastOutcome:     conv.LastOutcome(),
		Draft:           conv.Draft(),
	}
}

// CreateSession maneja POST /sessions.
func (h *ConversationHandler) CreateSession(c *gin.Context) {
	conv, session := h.sessions.Create()

	token, err := h.tokens.Issue(session)
	if err != nil {
		h.logger.Error("issue session token failed", zap.Error(err))
		_ = h.sessions.Close(conv.ID())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}
	session.Token = token

	c.JSON(http.StatusCreated, createdSessionResponse{
		Session:  session,
		Messages: conv.Messages(),
	})
}

// GetSession maneja GET /sessions/:id.
func (h *ConversationHandler) GetSession(c *gin.Context) {
	conv, ok := h.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, viewOf(conv))
}

// UpdateDraft maneja PUT /sessions/:id/draft.
func (h *ConversationHandler) UpdateDraft(c *gin.Context) {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid draft request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	conv, ok := h.lookup(c)
	if !ok {
		return
	}
	conv.SetDraft(req.Text)
	c.Status(http.StatusNoContent)
}

// PostMessage maneja POST /sessions/:id/messages. Sin "text" se envia el
// borrador pendiente.
func (h *ConversationHandler) PostMessage(c *gin.Context) {
	var req struct {
		Text *string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("invalid post message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	conv, ok := h.lookup(c)
	if !ok {
		return
	}

	// Solo se cobra cuota a envios que la conversacion aceptaria.
	pending := conv.Draft()
	if req.Text != nil {
		pending = *req.Text
	}
	if strings.TrimSpace(pending) == "" {
		h.writeSubmitError(c, conv, service.ErrEmptySubmission)
		return
	}
	if conv.InFlight() {
		h.writeSubmitError(c, conv, service.ErrRequestInFlight)
		return
	}

	if h.limiter != nil && !h.limiter.Allow(c.ClientIP()) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many submissions"})
		return
	}

	var (
		turn service.Turn
		err  error
	)
	if req.Text == nil {
		turn, err = conv.SubmitDraft(c.Request.Context())
	} else {
		turn, err = conv.Submit(c.Request.Context(), *req.Text)
	}
	if err != nil {
		h.writeSubmitError(c, conv, err)
		return
	}

	c.JSON(http.StatusCreated, turn)
}

func (h *ConversationHandler) writeSubmitError(c *gin.Context, conv *service.Conversation, err error) {
	switch {
	case errors.Is(err, service.ErrEmptySubmission):
		c.JSON(http.StatusBadRequest, gin.H{"error": "text cannot be empty"})
	case errors.Is(err, service.ErrRequestInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "a request is already in flight"})
	default:
		h.logger.Error("submit failed", zap.Error(err), zap.String("session_id", conv.ID()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not submit message"})
	}
}

// CloseSession maneja DELETE /sessions/:id.
func (h *ConversationHandler) CloseSession(c *gin.Context) {
	if err := h.sessions.Close(sessionIDFrom(c)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// DepartmentStats maneja GET /stats/departments?since=RFC3339.
func (h *ConversationHandler) DepartmentStats(c *gin.Context) {
	if h.stats == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stats not configured"})
		return
	}

	since := time.Now().UTC().Add(-24 * time.Hour)
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid since"})
			return
		}
		since = parsed
	}

	counts, err := h.stats.DepartmentStats(c.Request.Context(), since)
	if err != nil {
		if errors.Is(err, service.ErrStatsUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "stats not configured"})
			return
		}
		h.logger.Error("department stats failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"since": since, "departments": counts})
}

func (h *ConversationHandler) lookup(c *gin.Context) (*service.Conversation, bool) {
	conv, err := h.sessions.Get(sessionIDFrom(c))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return conv, true
}

// sessionIDFrom prefiere la sesion del token validado sobre el parametro.
func sessionIDFrom(c *gin.Context) string {
	if claims, ok := GetSessionClaims(c); ok {
		return claims.SessionID
	}
	return c.Param("id")
}
