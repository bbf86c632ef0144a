package handlers

import (
	"gestor-urbano/internal/models"
	"gestor-urbano/internal/state"
	"gestor-urbano/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductionHandler controla O.S. (áreas) e seus serviços
type ProductionHandler struct {
	baseHandler
	store *store.Store
}

func NewProductionHandler(st *store.Store, logger *zap.Logger) *ProductionHandler {
	return &ProductionHandler{
		baseHandler: newBaseHandler(logger),
		store:       st,
	}
}

// ListAreas lista O.S. com filtro open|closed|all (padrão all)
func (h *ProductionHandler) ListAreas(c *gin.Context) {
	snap := h.store.Snapshot()
	filter := c.DefaultQuery("filter", "all")

	areas := []models.Area{}
	for _, area := range snap.Areas {
		switch filter {
		case "open":
			if area.Open() {
				areas = append(areas, area)
			}
		case "closed":
			if !area.Open() {
				areas = append(areas, area)
			}
		default:
			areas = append(areas, area)
		}
	}
	respondOK(c, "O.S. listadas", areas)
}

// AddArea abre uma nova O.S.
func (h *ProductionHandler) AddArea(c *gin.Context) {
	var req models.AddAreaRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	var created models.Area
	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		next, ok := state.AddArea(s, req.Name, req.StartDate, req.StartReference, req.EndReference, req.Observations)
		if ok {
			created = next.Areas[len(next.Areas)-1]
		}
		return next, ok
	})
	if !changed {
		respondConflict(c, "Não foi possível abrir a O.S.")
		return
	}

	h.logSuccess("O.S. aberta", zap.String("area_id", created.ID), zap.String("name", created.Name))
	respondCreated(c, "O.S. aberta com sucesso", created)
}

// FinalizeArea fecha a O.S., congelando os serviços
func (h *ProductionHandler) FinalizeArea(c *gin.Context) {
	areaID := c.Param("id")
	var req models.FinalizeAreaRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	if !h.areaExists(areaID) {
		respondNotFound(c, "O.S. não encontrada")
		return
	}
	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		return state.FinalizeArea(s, areaID, req.EndDate)
	})
	if !changed {
		respondConflict(c, "O.S. já está finalizada")
		return
	}

	h.logSuccess("O.S. finalizada", zap.String("area_id", areaID), zap.String("end_date", req.EndDate))
	respondOK(c, "O.S. finalizada", gin.H{"areaId": areaID, "endDate": req.EndDate})
}

// ReopenArea limpa a data de conclusão, reabrindo a O.S.
func (h *ProductionHandler) ReopenArea(c *gin.Context) {
	areaID := c.Param("id")

	if !h.areaExists(areaID) {
		respondNotFound(c, "O.S. não encontrada")
		return
	}
	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		return state.ReopenArea(s, areaID)
	})
	if !changed {
		respondConflict(c, "O.S. já está aberta")
		return
	}

	h.logSuccess("O.S. reaberta", zap.String("area_id", areaID))
	respondOK(c, "O.S. reaberta", gin.H{"areaId": areaID})
}

// DeleteArea remove a O.S. e seus serviços. Irreversível.
func (h *ProductionHandler) DeleteArea(c *gin.Context) {
	areaID := c.Param("id")

	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		return state.DeleteArea(s, areaID)
	})
	if !changed {
		respondNotFound(c, "O.S. não encontrada")
		return
	}

	h.logSuccess("O.S. excluída", zap.String("area_id", areaID))
	respondOK(c, "O.S. excluída", gin.H{"areaId": areaID})
}

// AddService anexa um serviço padrão a uma O.S. aberta
func (h *ProductionHandler) AddService(c *gin.Context) {
	areaID := c.Param("id")

	if !h.areaExists(areaID) {
		respondNotFound(c, "O.S. não encontrada")
		return
	}

	var created models.Service
	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		next, ok := state.AddService(s, areaID)
		if ok {
			for _, area := range next.Areas {
				if area.ID == areaID {
					created = area.Services[len(area.Services)-1]
				}
			}
		}
		return next, ok
	})
	if !changed {
		respondConflict(c, "O.S. finalizada não aceita novos serviços")
		return
	}

	h.logSuccess("Serviço adicionado", zap.String("area_id", areaID), zap.String("service_id", created.ID))
	respondCreated(c, "Serviço adicionado", created)
}

// UpdateService edita um campo do serviço mantendo totalValue consistente
func (h *ProductionHandler) UpdateService(c *gin.Context) {
	areaID := c.Param("id")
	serviceID := c.Param("serviceId")

	var req models.UpdateServiceRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	if !h.areaExists(areaID) {
		respondNotFound(c, "O.S. não encontrada")
		return
	}

	var updated models.Service
	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		next, ok := state.UpdateService(s, areaID, serviceID, req.Field, req.Value)
		if ok {
			for _, area := range next.Areas {
				if area.ID != areaID {
					continue
				}
				for _, svc := range area.Services {
					if svc.ID == serviceID {
						updated = svc
					}
				}
			}
		}
		return next, ok
	})
	if !changed {
		respondConflict(c, "Serviço não pôde ser editado (O.S. finalizada ou valor inválido)")
		return
	}

	h.logSuccess("Serviço atualizado",
		zap.String("area_id", areaID),
		zap.String("service_id", serviceID),
		zap.String("field", req.Field))
	respondOK(c, "Serviço atualizado", updated)
}

// DeleteService remove um serviço de uma O.S. aberta
func (h *ProductionHandler) DeleteService(c *gin.Context) {
	areaID := c.Param("id")
	serviceID := c.Param("serviceId")

	if !h.areaExists(areaID) {
		respondNotFound(c, "O.S. não encontrada")
		return
	}
	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		return state.DeleteService(s, areaID, serviceID)
	})
	if !changed {
		respondConflict(c, "Serviço não pôde ser removido (O.S. finalizada ou serviço inexistente)")
		return
	}

	h.logSuccess("Serviço removido", zap.String("area_id", areaID), zap.String("service_id", serviceID))
	respondOK(c, "Serviço removido", gin.H{"areaId": areaID, "serviceId": serviceID})
}

// AddProductionRecord vincula valor executado a um funcionário
func (h *ProductionHandler) AddProductionRecord(c *gin.Context) {
	var req models.ProductionRecordRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		return state.AddProductionRecord(s, req.EmployeeID, req.ServiceID, req.AssociatedValue, req.Date)
	})
	if !changed {
		respondNotFound(c, "Funcionário não encontrado")
		return
	}

	h.logSuccess("Produção registrada",
		zap.String("employee_id", req.EmployeeID),
		zap.Float64("associated_value", req.AssociatedValue))
	respondCreated(c, "Produção registrada", req)
}

func (h *ProductionHandler) areaExists(areaID string) bool {
	snap := h.store.Snapshot()
	for _, area := range snap.Areas {
		if area.ID == areaID {
			return true
		}
	}
	return false
}
