package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"triage-assist/internal/service"
)

// NewRouter configura el router del API del asistente.
func NewRouter(
	logger *zap.Logger,
	convH *ConversationHandler,
	tokens *service.SessionTokenService,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/sessions", convH.CreateSession)

	session := r.Group("/sessions/:id", SessionAuthMiddleware(tokens))
	session.GET("", convH.GetSession)
	session.PUT("/draft", convH.UpdateDraft)
	session.POST("/messages", convH.PostMessage)
	session.DELETE("", convH.CloseSession)

	r.GET("/stats/departments", convH.DepartmentStats)

	return r
}

// NewOracleRouter configura el router del servicio clasificador.
func NewOracleRouter(logger *zap.Logger, oracleH *OracleHandler) *gin.Engine {
	r := gin.New()
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/", oracleH.Root)
	r.POST("/api/predict", oracleH.Predict)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
