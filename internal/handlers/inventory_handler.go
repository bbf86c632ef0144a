package handlers

import (
	"gestor-urbano/internal/models"
	"gestor-urbano/internal/state"
	"gestor-urbano/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RemovedItemName exibido quando um movimento referencia item já excluído
const RemovedItemName = "item removido"

// InventoryHandler controla o almoxarifado e o livro de movimentos
type InventoryHandler struct {
	baseHandler
	store *store.Store
}

func NewInventoryHandler(st *store.Store, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		baseHandler: newBaseHandler(logger),
		store:       st,
	}
}

// ListItems lista o estoque na ordem de cadastro
func (h *InventoryHandler) ListItems(c *gin.Context) {
	snap := h.store.Snapshot()
	respondOK(c, "Estoque listado", snap.Inventory)
}

// LowStock lista itens no nível mínimo ou abaixo
func (h *InventoryHandler) LowStock(c *gin.Context) {
	snap := h.store.Snapshot()
	respondOK(c, "Itens críticos", state.LowStockItems(snap))
}

// AddItem cadastra um item do almoxarifado
func (h *InventoryHandler) AddItem(c *gin.Context) {
	var req models.AddInventoryItemRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	var created models.InventoryItem
	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		next, ok := state.AddInventoryItem(s, req.Name, models.InventoryCategory(req.Category), req.CurrentQty, req.MinQty, req.UnitValue)
		if ok {
			created = next.Inventory[len(next.Inventory)-1]
		}
		return next, ok
	})
	if !changed {
		respondConflict(c, "Não foi possível cadastrar o item")
		return
	}

	h.logSuccess("Item cadastrado", zap.String("item_id", created.ID), zap.String("name", created.Name))
	respondCreated(c, "Item cadastrado", created)
}

// ListMovements lista o livro de movimentos resolvendo o nome do item.
// Movimentos de itens excluídos aparecem como "item removido".
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	snap := h.store.Snapshot()

	names := make(map[string]string, len(snap.Inventory))
	for _, item := range snap.Inventory {
		names[item.ID] = item.Name
	}

	views := []models.MovementView{}
	for _, exit := range snap.InventoryExits {
		name, ok := names[exit.ItemID]
		if !ok {
			name = RemovedItemName
		}
		views = append(views, models.MovementView{
			InventoryExit: exit,
			ItemName:      name,
			Inbound:       exit.Inbound(),
		})
	}
	respondOK(c, "Movimentos listados", views)
}

// RegisterMovement registra entrada/saída de estoque. Saída pode deixar o
// saldo negativo; qualquer confirmação é política do cliente.
func (h *InventoryHandler) RegisterMovement(c *gin.Context) {
	var req models.InventoryMovementRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	h.logDebug("Movimento de estoque recebido",
		zap.String("item_id", req.ItemID),
		zap.Float64("quantity", req.Quantity),
		zap.String("direction", req.Direction))

	var newQty float64
	var movement models.InventoryExit
	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		next, ok := state.RegisterInventoryMovement(s, req.ItemID, req.Quantity,
			state.MovementDirection(req.Direction), req.Destination, req.Observation, req.Date)
		if ok {
			movement = next.InventoryExits[len(next.InventoryExits)-1]
			for _, item := range next.Inventory {
				if item.ID == req.ItemID {
					newQty = item.CurrentQty
				}
			}
		}
		return next, ok
	})
	if !changed {
		respondNotFound(c, "Item não encontrado")
		return
	}

	if newQty < 0 {
		h.logInfo("Saldo negativo após retirada",
			zap.String("item_id", req.ItemID),
			zap.Float64("current_qty", newQty))
	}
	h.logSuccess("Movimento registrado",
		zap.String("movement_id", movement.ID),
		zap.String("destination", movement.Destination),
		zap.Float64("new_qty", newQty))
	respondCreated(c, "Movimento registrado", gin.H{
		"movement":   movement,
		"currentQty": newQty,
	})
}

// ReverseMovement desfaz um lançamento aplicando o ajuste inverso e
// removendo a linha do livro
func (h *InventoryHandler) ReverseMovement(c *gin.Context) {
	movementID := c.Param("id")

	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		return state.ReverseInventoryMovement(s, movementID)
	})
	if !changed {
		respondNotFound(c, "Movimento não encontrado")
		return
	}

	h.logSuccess("Movimento estornado", zap.String("movement_id", movementID))
	respondOK(c, "Movimento estornado", gin.H{"movementId": movementID})
}
