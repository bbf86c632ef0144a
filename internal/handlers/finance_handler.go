package handlers

import (
	"gestor-urbano/internal/models"
	"gestor-urbano/internal/state"
	"gestor-urbano/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FinanceHandler controla os livros de caixa (entradas e saídas)
type FinanceHandler struct {
	baseHandler
	store *store.Store
}

func NewFinanceHandler(st *store.Store, logger *zap.Logger) *FinanceHandler {
	return &FinanceHandler{
		baseHandler: newBaseHandler(logger),
		store:       st,
	}
}

// Balance devolve entradas, saídas e o saldo
func (h *FinanceHandler) Balance(c *gin.Context) {
	snap := h.store.Snapshot()

	var in, out float64
	for _, entry := range snap.CashIn {
		in += entry.Value
	}
	for _, entry := range snap.CashOut {
		out += entry.Value
	}

	respondOK(c, "Saldo calculado", gin.H{
		"cashIn":  in,
		"cashOut": out,
		"balance": state.CashBalance(snap),
	})
}

// ListEntries devolve os dois livros na ordem de lançamento
func (h *FinanceHandler) ListEntries(c *gin.Context) {
	snap := h.store.Snapshot()
	respondOK(c, "Lançamentos listados", gin.H{
		"cashIn":  snap.CashIn,
		"cashOut": snap.CashOut,
	})
}

// AddCashIn lança entrada de caixa
func (h *FinanceHandler) AddCashIn(c *gin.Context) {
	var req models.CashInRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	var created models.CashIn
	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		next, ok := state.AddCashIn(s, req.Date, req.Value, req.Reference, req.Type)
		if ok {
			created = next.CashIn[len(next.CashIn)-1]
		}
		return next, ok
	})
	if !changed {
		respondConflict(c, "Lançamento inválido")
		return
	}

	h.logSuccess("Entrada lançada", zap.String("id", created.ID), zap.Float64("value", created.Value))
	respondCreated(c, "Entrada lançada", created)
}

// AddCashOut lança saída de caixa
func (h *FinanceHandler) AddCashOut(c *gin.Context) {
	var req models.CashOutRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	var created models.CashOut
	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		next, ok := state.AddCashOut(s, req.Date, req.Value, req.Type, req.ProofURL)
		if ok {
			created = next.CashOut[len(next.CashOut)-1]
		}
		return next, ok
	})
	if !changed {
		respondConflict(c, "Lançamento inválido")
		return
	}

	h.logSuccess("Saída lançada", zap.String("id", created.ID), zap.Float64("value", created.Value))
	respondCreated(c, "Saída lançada", created)
}

// DeleteCashIn remove uma entrada
func (h *FinanceHandler) DeleteCashIn(c *gin.Context) {
	id := c.Param("id")
	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		return state.DeleteCashIn(s, id)
	})
	if !changed {
		respondNotFound(c, "Lançamento não encontrado")
		return
	}
	h.logSuccess("Entrada removida", zap.String("id", id))
	respondOK(c, "Entrada removida", gin.H{"id": id})
}

// DeleteCashOut remove uma saída
func (h *FinanceHandler) DeleteCashOut(c *gin.Context) {
	id := c.Param("id")
	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		return state.DeleteCashOut(s, id)
	})
	if !changed {
		respondNotFound(c, "Lançamento não encontrado")
		return
	}
	h.logSuccess("Saída removida", zap.String("id", id))
	respondOK(c, "Saída removida", gin.H{"id": id})
}
