package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"triage-assist/internal/service"
)

// OracleHandler expone el clasificador de sintomas en POST /api/predict.
// Los errores usan {"detail": ...}, que es lo que el cliente sabe leer.
type OracleHandler struct {
	logger *zap.Logger
	triage *service.TriageService
}

func NewOracleHandler(logger *zap.Logger, triage *service.TriageService) *OracleHandler {
	return &OracleHandler{logger: logger, triage: triage}
}

// Root maneja GET /.
func (h *OracleHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "MedAssist API is running"})
}

// Predict maneja POST /api/predict.
func (h *OracleHandler) Predict(c *gin.Context) {
	var req struct {
		Question *string `json:"question"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Question == nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Missing question in request body"})
		return
	}

	h.logger.Info("question received", zap.Int("question_len", len(*req.Question)))
	answer, err := h.triage.Advise(c.Request.Context(), *req.Question)
	if err != nil {
		if errors.Is(err, service.ErrEmptyQuestion) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Question cannot be empty"})
			return
		}
		h.logger.Error("predict failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to process request: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"answer": answer})
}
