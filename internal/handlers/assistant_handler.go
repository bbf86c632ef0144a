package handlers

import (
	"net/http"

	"gestor-urbano/internal/assistant"
	"gestor-urbano/internal/models"
	"gestor-urbano/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AssistantHandler expõe o chat com o Fera Bot
type AssistantHandler struct {
	baseHandler
	store   *store.Store
	gateway *assistant.Gateway
}

func NewAssistantHandler(st *store.Store, gateway *assistant.Gateway, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{
		baseHandler: newBaseHandler(logger),
		store:       st,
		gateway:     gateway,
	}
}

// Chat responde {reply} em caso de sucesso ou {error} com status não-2xx.
// O snapshot de contexto é tirado no momento da chamada: mutações feitas
// enquanto o provedor responde não invalidam a pergunta em andamento.
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mensagem vazia"})
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.logError("Validation error", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Mensagem vazia"})
		return
	}

	h.logInfo("Pergunta ao assistente",
		zap.Int("history_len", len(req.History)),
		zap.Int("message_len", len(req.Message)))

	snap := h.store.Snapshot()
	reply := h.gateway.Ask(c.Request.Context(), req.Message, req.History, snap)

	respondChatOK(c, reply)
}

func respondChatOK(c *gin.Context, reply string) {
	c.JSON(http.StatusOK, models.ChatResponse{Reply: reply})
}
