package middleware

import (
	"context"
	"net/http"
	"time"

	"gestor-urbano/internal/persistence"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthChecker verifica a saúde do backend de persistência do snapshot
type HealthChecker struct {
	snapshots        *persistence.Adapter
	storageBackend   string
	assistantEnabled bool
	logger           *zap.Logger
}

func NewHealthChecker(snapshots *persistence.Adapter, storageBackend string, assistantEnabled bool, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		snapshots:        snapshots,
		storageBackend:   storageBackend,
		assistantEnabled: assistantEnabled,
		logger:           logger,
	}
}

func (h *HealthChecker) HealthCheck(c *gin.Context) {
	status := gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"services":  make(map[string]interface{}),
	}

	// Verificar o slot de snapshot
	storageStatus := "healthy"
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.snapshots.Ping(ctx); err != nil {
		storageStatus = "unhealthy"
		status["status"] = "unhealthy"
		h.logger.Error("Snapshot storage health check failed", zap.Error(err))
	}

	status["services"].(map[string]interface{})["storage"] = gin.H{
		"status":  storageStatus,
		"backend": h.storageBackend,
	}

	// O assistente é informativo: sem chave configurada o serviço continua
	// saudável, só responde com a mensagem de contingência
	assistantStatus := "configured"
	if !h.assistantEnabled {
		assistantStatus = "fallback-only"
	}
	status["services"].(map[string]interface{})["assistant"] = gin.H{
		"status": assistantStatus,
	}

	httpStatus := http.StatusOK
	if status["status"] == "unhealthy" {
		httpStatus = http.StatusServiceUnavailable
	}

	c.JSON(httpStatus, status)
}
