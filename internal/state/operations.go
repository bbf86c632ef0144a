// Package state contém as transições e derivações puras sobre o AppState.
// Toda operação recebe o estado atual e devolve (novo estado, mudou): nunca
// modifica a entrada e nunca falha — precondição violada vira no-op.
package state

import (
	"math"
	"time"

	"gestor-urbano/internal/models"

	"github.com/google/uuid"
)

// Op é uma transição de estado aplicável pelo store
type Op func(models.AppState) (models.AppState, bool)

func today() string {
	return time.Now().Format("2006-01-02")
}

func findArea(s *models.AppState, areaID string) *models.Area {
	for i := range s.Areas {
		if s.Areas[i].ID == areaID {
			return &s.Areas[i]
		}
	}
	return nil
}

func findEmployee(s *models.AppState, employeeID string) *models.Employee {
	for i := range s.Employees {
		if s.Employees[i].ID == employeeID {
			return &s.Employees[i]
		}
	}
	return nil
}

func findItem(s *models.AppState, itemID string) *models.InventoryItem {
	for i := range s.Inventory {
		if s.Inventory[i].ID == itemID {
			return &s.Inventory[i]
		}
	}
	return nil
}

// AddArea abre uma nova O.S. Nome e ponto de início são obrigatórios;
// ponto final ausente recebe o sentinela "Não informado".
func AddArea(s models.AppState, name, startDate, startReference, endReference, observations string) (models.AppState, bool) {
	if name == "" || startReference == "" {
		return s, false
	}
	if startDate == "" {
		startDate = today()
	}
	if endReference == "" {
		endReference = models.EndReferenceNotInformed
	}

	next := s.Clone()
	next.Areas = append(next.Areas, models.Area{
		ID:             uuid.NewString(),
		Name:           name,
		StartDate:      startDate,
		StartReference: startReference,
		EndReference:   endReference,
		Observations:   observations,
		Services:       []models.Service{},
	})
	return next, true
}

// FinalizeArea fecha a O.S. congelando seus serviços. Transição Open → Finalized.
func FinalizeArea(s models.AppState, areaID, endDate string) (models.AppState, bool) {
	if endDate == "" {
		return s, false
	}
	next := s.Clone()
	area := findArea(&next, areaID)
	if area == nil || !area.Open() {
		return s, false
	}
	area.EndDate = endDate
	return next, true
}

// ReopenArea limpa a data de conclusão, reabilitando edição de serviços
func ReopenArea(s models.AppState, areaID string) (models.AppState, bool) {
	next := s.Clone()
	area := findArea(&next, areaID)
	if area == nil || area.Open() {
		return s, false
	}
	area.EndDate = ""
	return next, true
}

// DeleteArea remove a O.S. e todos os seus serviços. Irreversível.
func DeleteArea(s models.AppState, areaID string) (models.AppState, bool) {
	next := s.Clone()
	for i := range next.Areas {
		if next.Areas[i].ID == areaID {
			next.Areas = append(next.Areas[:i], next.Areas[i+1:]...)
			return next, true
		}
	}
	return s, false
}

// AddService anexa um serviço padrão a uma O.S. aberta: tipo capina manual,
// metragem zero, valor unitário vindo da tabela de taxas.
func AddService(s models.AppState, areaID string) (models.AppState, bool) {
	next := s.Clone()
	area := findArea(&next, areaID)
	if area == nil || !area.Open() {
		return s, false
	}
	defaultType := models.ServiceCapinaManual
	area.Services = append(area.Services, models.Service{
		ID:          uuid.NewString(),
		AreaID:      areaID,
		Type:        defaultType,
		AreaM2:      0,
		UnitValue:   next.ServiceRates[defaultType],
		TotalValue:  0,
		ServiceDate: today(),
	})
	return next, true
}

// UpdateService edita um campo do serviço mantendo o invariante
// totalValue == areaM2 * unitValue. Trocar o tipo redefine o valor unitário
// pela tabela de taxas. No-op se a O.S. estiver finalizada.
func UpdateService(s models.AppState, areaID, serviceID, field string, value interface{}) (models.AppState, bool) {
	next := s.Clone()
	area := findArea(&next, areaID)
	if area == nil || !area.Open() {
		return s, false
	}

	for i := range area.Services {
		svc := &area.Services[i]
		if svc.ID != serviceID {
			continue
		}

		switch field {
		case "type":
			t, ok := value.(string)
			if !ok || !models.ValidServiceType(models.ServiceType(t)) {
				return s, false
			}
			svc.Type = models.ServiceType(t)
			svc.UnitValue = next.ServiceRates[svc.Type]
		case "areaM2":
			v, ok := toFloat(value)
			if !ok {
				return s, false
			}
			svc.AreaM2 = v
		case "unitValue":
			v, ok := toFloat(value)
			if !ok {
				return s, false
			}
			svc.UnitValue = v
		case "serviceDate":
			v, ok := value.(string)
			if !ok {
				return s, false
			}
			svc.ServiceDate = v
		default:
			return s, false
		}

		if field == "type" || field == "areaM2" || field == "unitValue" {
			svc.TotalValue = svc.AreaM2 * svc.UnitValue
		}
		return next, true
	}
	return s, false
}

// DeleteService remove um serviço de uma O.S. aberta
func DeleteService(s models.AppState, areaID, serviceID string) (models.AppState, bool) {
	next := s.Clone()
	area := findArea(&next, areaID)
	if area == nil || !area.Open() {
		return s, false
	}
	for i := range area.Services {
		if area.Services[i].ID == serviceID {
			area.Services = append(area.Services[:i], area.Services[i+1:]...)
			return next, true
		}
	}
	return s, false
}

// AddEmployee cadastra funcionário ativo
func AddEmployee(s models.AppState, name, role string, defaultDailyRate float64) (models.AppState, bool) {
	if name == "" || role == "" || defaultDailyRate < 0 {
		return s, false
	}
	next := s.Clone()
	next.Employees = append(next.Employees, models.Employee{
		ID:               uuid.NewString(),
		Name:             name,
		Role:             role,
		Status:           models.EmployeeActive,
		DefaultDailyRate: defaultDailyRate,
	})
	return next, true
}

// ToggleEmployeeStatus alterna active/inactive. Duas chamadas seguidas
// restauram o status original.
func ToggleEmployeeStatus(s models.AppState, employeeID string) (models.AppState, bool) {
	next := s.Clone()
	emp := findEmployee(&next, employeeID)
	if emp == nil {
		return s, false
	}
	if emp.Status == models.EmployeeActive {
		emp.Status = models.EmployeeInactive
	} else {
		emp.Status = models.EmployeeActive
	}
	return next, true
}

func dailyRate(emp *models.Employee) float64 {
	if emp.DefaultDailyRate > 0 {
		return emp.DefaultDailyRate
	}
	return models.DefaultDailyRate
}

// SetAttendance alterna a presença do par (funcionário, data): sem registro
// cria presente com a diária; com registro inverte present/absent, repondo a
// diária ao voltar para presente e zerando o valor ao faltar.
func SetAttendance(s models.AppState, employeeID, date string) (models.AppState, bool) {
	if date == "" {
		return s, false
	}
	next := s.Clone()
	emp := findEmployee(&next, employeeID)
	if emp == nil {
		return s, false
	}

	for i := range next.AttendanceRecords {
		rec := &next.AttendanceRecords[i]
		if rec.EmployeeID != employeeID || rec.Date != date {
			continue
		}
		if rec.Status == models.AttendancePresent {
			rec.Status = models.AttendanceAbsent
			rec.Value = 0
		} else {
			rec.Status = models.AttendancePresent
			rec.Value = dailyRate(emp)
		}
		return next, true
	}

	next.AttendanceRecords = append(next.AttendanceRecords, models.AttendanceRecord{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Date:       date,
		Status:     models.AttendancePresent,
		Value:      dailyRate(emp),
	})
	return next, true
}

// SetAttendanceValue sobrescreve o valor de um registro existente sem mexer
// no status
func SetAttendanceValue(s models.AppState, employeeID, date string, value float64) (models.AppState, bool) {
	if value < 0 {
		return s, false
	}
	next := s.Clone()
	for i := range next.AttendanceRecords {
		rec := &next.AttendanceRecords[i]
		if rec.EmployeeID == employeeID && rec.Date == date {
			rec.Value = value
			return next, true
		}
	}
	return s, false
}

// DeleteAttendance remove o registro do par (funcionário, data)
func DeleteAttendance(s models.AppState, employeeID, date string) (models.AppState, bool) {
	next := s.Clone()
	for i := range next.AttendanceRecords {
		rec := next.AttendanceRecords[i]
		if rec.EmployeeID == employeeID && rec.Date == date {
			next.AttendanceRecords = append(next.AttendanceRecords[:i], next.AttendanceRecords[i+1:]...)
			return next, true
		}
	}
	return s, false
}

// AddInventoryItem cadastra item do almoxarifado
func AddInventoryItem(s models.AppState, name string, category models.InventoryCategory, currentQty, minQty, unitValue float64) (models.AppState, bool) {
	if name == "" || !models.ValidInventoryCategory(category) {
		return s, false
	}
	next := s.Clone()
	next.Inventory = append(next.Inventory, models.InventoryItem{
		ID:         uuid.NewString(),
		Name:       name,
		Category:   category,
		CurrentQty: currentQty,
		MinQty:     minQty,
		UnitValue:  unitValue,
	})
	return next, true
}

// MovementDirection direção de um movimento de estoque
type MovementDirection string

const (
	MovementIn  MovementDirection = "in"
	MovementOut MovementDirection = "out"
)

// RegisterInventoryMovement ajusta o saldo do item e registra o movimento no
// livro. Entrada força destino "Reposição". Saída pode deixar o saldo
// negativo; a confirmação é política do chamador.
func RegisterInventoryMovement(s models.AppState, itemID string, quantity float64, direction MovementDirection, destination, observation, date string) (models.AppState, bool) {
	if quantity <= 0 || math.IsNaN(quantity) {
		return s, false
	}
	next := s.Clone()
	item := findItem(&next, itemID)
	if item == nil {
		return s, false
	}
	if date == "" {
		date = today()
	}

	switch direction {
	case MovementIn:
		item.CurrentQty += quantity
		destination = models.DestinationRestock
	case MovementOut:
		item.CurrentQty -= quantity
		if destination == "" || destination == models.DestinationRestock {
			// saída nunca pode se disfarçar de reposição no livro
			destination = "Saída"
		}
	default:
		return s, false
	}

	next.InventoryExits = append(next.InventoryExits, models.InventoryExit{
		ID:          uuid.NewString(),
		ItemID:      itemID,
		Quantity:    quantity,
		Date:        date,
		Destination: destination,
		Observation: observation,
	})
	return next, true
}

// ReverseInventoryMovement desfaz um lançamento: aplica o ajuste inverso no
// item e remove a linha do livro. A direção vem do destino gravado, nunca do
// sinal da quantidade (que é sempre positiva). Se o item foi excluído, só a
// linha do livro é removida.
func ReverseInventoryMovement(s models.AppState, movementID string) (models.AppState, bool) {
	next := s.Clone()
	for i := range next.InventoryExits {
		exit := next.InventoryExits[i]
		if exit.ID != movementID {
			continue
		}
		if item := findItem(&next, exit.ItemID); item != nil {
			if exit.Inbound() {
				item.CurrentQty -= exit.Quantity
			} else {
				item.CurrentQty += exit.Quantity
			}
		}
		next.InventoryExits = append(next.InventoryExits[:i], next.InventoryExits[i+1:]...)
		return next, true
	}
	return s, false
}

// AddCashIn lança entrada de caixa
func AddCashIn(s models.AppState, date string, value float64, reference, cashType string) (models.AppState, bool) {
	if date == "" || value <= 0 || math.IsNaN(value) {
		return s, false
	}
	next := s.Clone()
	next.CashIn = append(next.CashIn, models.CashIn{
		ID:        uuid.NewString(),
		Date:      date,
		Value:     value,
		Reference: reference,
		Type:      cashType,
	})
	return next, true
}

// AddCashOut lança saída de caixa
func AddCashOut(s models.AppState, date string, value float64, cashType, proofURL string) (models.AppState, bool) {
	if date == "" || value <= 0 || math.IsNaN(value) {
		return s, false
	}
	next := s.Clone()
	next.CashOut = append(next.CashOut, models.CashOut{
		ID:       uuid.NewString(),
		Date:     date,
		Value:    value,
		Type:     cashType,
		ProofURL: proofURL,
	})
	return next, true
}

// DeleteCashIn remove uma entrada de caixa
func DeleteCashIn(s models.AppState, id string) (models.AppState, bool) {
	next := s.Clone()
	for i := range next.CashIn {
		if next.CashIn[i].ID == id {
			next.CashIn = append(next.CashIn[:i], next.CashIn[i+1:]...)
			return next, true
		}
	}
	return s, false
}

// DeleteCashOut remove uma saída de caixa
func DeleteCashOut(s models.AppState, id string) (models.AppState, bool) {
	next := s.Clone()
	for i := range next.CashOut {
		if next.CashOut[i].ID == id {
			next.CashOut = append(next.CashOut[:i], next.CashOut[i+1:]...)
			return next, true
		}
	}
	return s, false
}

// AddProductionRecord vincula o valor executado ao funcionário (append-only)
func AddProductionRecord(s models.AppState, employeeID, serviceID string, associatedValue float64, date string) (models.AppState, bool) {
	if associatedValue < 0 {
		return s, false
	}
	next := s.Clone()
	if findEmployee(&next, employeeID) == nil {
		return s, false
	}
	if date == "" {
		date = today()
	}
	next.ProductionRecords = append(next.ProductionRecords, models.ProductionRecord{
		ID:              uuid.NewString(),
		EmployeeID:      employeeID,
		ServiceID:       serviceID,
		AssociatedValue: associatedValue,
		Date:            date,
	})
	return next, true
}

// SetMonthlyGoal substitui a meta mensal de m²
func SetMonthlyGoal(s models.AppState, valueM2 float64) (models.AppState, bool) {
	if valueM2 < 0 || math.IsNaN(valueM2) {
		return s, false
	}
	next := s.Clone()
	next.MonthlyGoalM2 = valueM2
	return next, true
}

// UpdateServiceRate atualiza a taxa (R$/m²) de um tipo de serviço. Não altera
// serviços já lançados; a nova taxa vale para os próximos.
func UpdateServiceRate(s models.AppState, serviceType models.ServiceType, rate float64) (models.AppState, bool) {
	if !models.ValidServiceType(serviceType) || rate < 0 || math.IsNaN(rate) {
		return s, false
	}
	next := s.Clone()
	next.ServiceRates[serviceType] = rate
	return next, true
}

// toFloat aceita os tipos numéricos que chegam de JSON decodificado
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, !math.IsNaN(n)
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
