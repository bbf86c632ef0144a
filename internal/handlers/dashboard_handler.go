package handlers

import (
	"net/http"
	"sync"
	"time"

	"gestor-urbano/internal/models"
	"gestor-urbano/internal/state"
	"gestor-urbano/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// upgrader configuração para WebSocket
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Permitir todas as conexões para desenvolvimento
	},
}

// DashboardHandler expõe os agregados do painel, a meta mensal, a tabela de
// taxas e o push de resumo via WebSocket após cada mutação
type DashboardHandler struct {
	baseHandler
	store *store.Store

	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func NewDashboardHandler(st *store.Store, logger *zap.Logger) *DashboardHandler {
	h := &DashboardHandler{
		baseHandler: newBaseHandler(logger),
		store:       st,
		clients:     make(map[*websocket.Conn]bool),
	}
	// Cada mutação efetiva empurra o resumo novo para os clientes conectados
	st.Subscribe(h.broadcast)
	return h
}

// Summary agregados do painel executivo
func (h *DashboardHandler) Summary(c *gin.Context) {
	snap := h.store.Snapshot()
	respondOK(c, "Resumo do painel", state.Summary(snap, time.Now().Format(time.RFC3339)))
}

// SetGoal substitui a meta mensal de m²
func (h *DashboardHandler) SetGoal(c *gin.Context) {
	var req models.SetGoalRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		return state.SetMonthlyGoal(s, req.ValueM2)
	})
	if !changed {
		respondConflict(c, "Meta inválida")
		return
	}

	h.logSuccess("Meta mensal atualizada", zap.Float64("goal_m2", req.ValueM2))
	respondOK(c, "Meta atualizada", gin.H{"monthlyGoalM2": req.ValueM2})
}

// Rates devolve a tabela de taxas por tipo de serviço
func (h *DashboardHandler) Rates(c *gin.Context) {
	snap := h.store.Snapshot()
	respondOK(c, "Tabela de taxas", snap.ServiceRates)
}

// UpdateRate atualiza a taxa de um tipo de serviço
func (h *DashboardHandler) UpdateRate(c *gin.Context) {
	var req models.UpdateRateRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		return state.UpdateServiceRate(s, models.ServiceType(req.Type), req.Rate)
	})
	if !changed {
		respondConflict(c, "Tipo de serviço desconhecido ou taxa inválida")
		return
	}

	h.logSuccess("Taxa atualizada", zap.String("type", req.Type), zap.Float64("rate", req.Rate))
	respondOK(c, "Taxa atualizada", gin.H{"type": req.Type, "rate": req.Rate})
}

// WebSocket assina o resumo do painel em tempo real. O cliente recebe o
// resumo atual na conexão e um novo a cada mutação de estado.
func (h *DashboardHandler) WebSocket(c *gin.Context) {
	logger := h.logger.With(zap.String("handler", "dashboard_ws"))

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error("Erro atualizando para WebSocket", zap.Error(err))
		return
	}

	logger.Info("Conexão WebSocket estabelecida")

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	snap := h.store.Snapshot()
	summary := state.Summary(snap, time.Now().Format(time.RFC3339))

	h.mu.Lock()
	h.clients[conn] = true
	if err := conn.WriteJSON(summary); err != nil {
		delete(h.clients, conn)
		h.mu.Unlock()
		conn.Close()
		logger.Error("Erro enviando resumo inicial", zap.Error(err))
		return
	}
	h.mu.Unlock()

	// Loop de leitura apenas para detectar o fechamento da conexão
	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, conn)
			h.mu.Unlock()
			conn.Close()
			logger.Info("Conexão WebSocket encerrada")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// broadcast empurra o resumo derivado do snapshot para todos os clientes
func (h *DashboardHandler) broadcast(snap models.AppState) {
	summary := state.Summary(snap, time.Now().Format(time.RFC3339))

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteJSON(summary); err != nil {
			h.logger.Debug("Removendo cliente WebSocket após erro de escrita", zap.Error(err))
			delete(h.clients, conn)
			conn.Close()
		}
	}
}
