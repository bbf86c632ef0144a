package handlers

import (
	"gestor-urbano/internal/models"
	"gestor-urbano/internal/state"
	"gestor-urbano/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// EmployeeHandler controla funcionários e registros de presença
type EmployeeHandler struct {
	baseHandler
	store *store.Store
}

func NewEmployeeHandler(st *store.Store, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		baseHandler: newBaseHandler(logger),
		store:       st,
	}
}

// List lista funcionários, com filtro opcional por nome
func (h *EmployeeHandler) List(c *gin.Context) {
	snap := h.store.Snapshot()
	respondOK(c, "Funcionários listados", snap.Employees)
}

// Add cadastra funcionário ativo
func (h *EmployeeHandler) Add(c *gin.Context) {
	var req models.AddEmployeeRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	var created models.Employee
	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		next, ok := state.AddEmployee(s, req.Name, req.Role, req.DefaultDailyRate)
		if ok {
			created = next.Employees[len(next.Employees)-1]
		}
		return next, ok
	})
	if !changed {
		respondConflict(c, "Não foi possível cadastrar o funcionário")
		return
	}

	h.logSuccess("Funcionário cadastrado", zap.String("employee_id", created.ID), zap.String("name", created.Name))
	respondCreated(c, "Funcionário cadastrado", created)
}

// ToggleStatus alterna active/inactive
func (h *EmployeeHandler) ToggleStatus(c *gin.Context) {
	employeeID := c.Param("id")

	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		return state.ToggleEmployeeStatus(s, employeeID)
	})
	if !changed {
		respondNotFound(c, "Funcionário não encontrado")
		return
	}

	h.logSuccess("Status alternado", zap.String("employee_id", employeeID))
	respondOK(c, "Status alternado", gin.H{"employeeId": employeeID})
}

// ToggleAttendance alterna a presença do funcionário na data: cria presente
// com a diária, ou inverte present/absent em registro existente
func (h *EmployeeHandler) ToggleAttendance(c *gin.Context) {
	employeeID := c.Param("id")
	var req models.AttendanceRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	var record models.AttendanceRecord
	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		next, ok := state.SetAttendance(s, employeeID, req.Date)
		if ok {
			for _, rec := range next.AttendanceRecords {
				if rec.EmployeeID == employeeID && rec.Date == req.Date {
					record = rec
				}
			}
		}
		return next, ok
	})
	if !changed {
		respondNotFound(c, "Funcionário não encontrado")
		return
	}

	h.logSuccess("Presença alternada",
		zap.String("employee_id", employeeID),
		zap.String("date", req.Date),
		zap.String("status", string(record.Status)))
	respondOK(c, "Presença registrada", record)
}

// SetAttendanceValue sobrescreve o valor da diária sem mexer no status
func (h *EmployeeHandler) SetAttendanceValue(c *gin.Context) {
	employeeID := c.Param("id")
	var req models.AttendanceValueRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		return state.SetAttendanceValue(s, employeeID, req.Date, req.Value)
	})
	if !changed {
		respondNotFound(c, "Registro de presença não encontrado")
		return
	}

	h.logSuccess("Valor da diária atualizado",
		zap.String("employee_id", employeeID),
		zap.String("date", req.Date),
		zap.Float64("value", req.Value))
	respondOK(c, "Valor atualizado", gin.H{"employeeId": employeeID, "date": req.Date, "value": req.Value})
}

// DeleteAttendance remove o registro do par (funcionário, data)
func (h *EmployeeHandler) DeleteAttendance(c *gin.Context) {
	employeeID := c.Param("id")
	date := c.Query("date")
	if date == "" {
		respondNotFound(c, "Data não informada")
		return
	}

	changed := h.store.Apply(c.Request.Context(), func(s models.AppState) (models.AppState, bool) {
		return state.DeleteAttendance(s, employeeID, date)
	})
	if !changed {
		respondNotFound(c, "Registro de presença não encontrado")
		return
	}

	h.logSuccess("Presença removida", zap.String("employee_id", employeeID), zap.String("date", date))
	respondOK(c, "Presença removida", gin.H{"employeeId": employeeID, "date": date})
}

// MonthStats estatísticas de presença do funcionário no mês (YYYY-MM)
func (h *EmployeeHandler) MonthStats(c *gin.Context) {
	employeeID := c.Param("id")
	month := c.Query("month")
	if len(month) != 7 {
		c.JSON(400, gin.H{
			"success": false,
			"message": "❌ Parâmetro month deve estar no formato YYYY-MM",
		})
		return
	}

	snap := h.store.Snapshot()
	stats := state.EmployeeMonthStats(snap, employeeID, month)
	respondOK(c, "Estatísticas do mês", stats)
}
