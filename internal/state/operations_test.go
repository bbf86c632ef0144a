package state

import (
	"testing"

	"gestor-urbano/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func emptyState() models.AppState {
	s := models.AppState{}
	s.Normalize()
	return s
}

func TestAddAreaDefaults(t *testing.T) {
	s := emptyState()

	next, changed := AddArea(s, "OS-1", "2024-01-01", "Km0", "", "")
	require.True(t, changed)
	require.Len(t, next.Areas, 1)

	area := next.Areas[0]
	assert.NotEmpty(t, area.ID)
	assert.Equal(t, "OS-1", area.Name)
	assert.Equal(t, models.EndReferenceNotInformed, area.EndReference)
	assert.Empty(t, area.EndDate)
	assert.Empty(t, area.Services)

	// estado original intocado
	assert.Empty(t, s.Areas)
}

func TestAddAreaRequiresNameAndStartReference(t *testing.T) {
	s := emptyState()

	_, changed := AddArea(s, "", "2024-01-01", "Km0", "", "")
	assert.False(t, changed)

	_, changed = AddArea(s, "OS-1", "2024-01-01", "", "", "")
	assert.False(t, changed)
}

// Cenário: nova O.S. com serviço tipo corte costal (taxa 2.0) e 100 m²
// fatura 200.
func TestServiceTotalValueFollowsAreaAndRate(t *testing.T) {
	s := emptyState()
	s.ServiceRates = map[models.ServiceType]float64{
		models.ServiceCorteCostal:  2.0,
		models.ServiceCapinaManual: 2.5,
	}

	s, changed := AddArea(s, "OS-1", "2024-01-01", "Km0", "Km5", "")
	require.True(t, changed)
	areaID := s.Areas[0].ID

	s, changed = AddService(s, areaID)
	require.True(t, changed)
	svc := s.Areas[0].Services[0]
	assert.Equal(t, models.ServiceCapinaManual, svc.Type)
	assert.Equal(t, 2.5, svc.UnitValue)
	assert.Zero(t, svc.TotalValue)

	s, changed = UpdateService(s, areaID, svc.ID, "type", string(models.ServiceCorteCostal))
	require.True(t, changed)
	assert.Equal(t, 2.0, s.Areas[0].Services[0].UnitValue)

	s, changed = UpdateService(s, areaID, svc.ID, "areaM2", float64(100))
	require.True(t, changed)

	got := s.Areas[0].Services[0]
	assert.InDelta(t, 100.0, got.AreaM2, 1e-9)
	assert.InDelta(t, 200.0, got.TotalValue, 1e-9)
	assert.InDelta(t, got.AreaM2*got.UnitValue, got.TotalValue, 1e-9)
}

func TestUpdateServiceRecomputesOnUnitValue(t *testing.T) {
	s := emptyState()
	s, _ = AddArea(s, "OS-1", "2024-01-01", "Km0", "", "")
	areaID := s.Areas[0].ID
	s, _ = AddService(s, areaID)
	svcID := s.Areas[0].Services[0].ID

	s, _ = UpdateService(s, areaID, svcID, "areaM2", float64(50))
	s, changed := UpdateService(s, areaID, svcID, "unitValue", float64(3))
	require.True(t, changed)

	svc := s.Areas[0].Services[0]
	assert.InDelta(t, 150.0, svc.TotalValue, 1e-9)
}

func TestUpdateServiceRejectsUnknownFieldAndType(t *testing.T) {
	s := emptyState()
	s, _ = AddArea(s, "OS-1", "2024-01-01", "Km0", "", "")
	areaID := s.Areas[0].ID
	s, _ = AddService(s, areaID)
	svcID := s.Areas[0].Services[0].ID

	_, changed := UpdateService(s, areaID, svcID, "totalValue", float64(999))
	assert.False(t, changed)

	_, changed = UpdateService(s, areaID, svcID, "type", "pintura de meio-fio")
	assert.False(t, changed)

	_, changed = UpdateService(s, areaID, svcID, "areaM2", "cem")
	assert.False(t, changed)
}

func TestFinalizedAreaFreezesServices(t *testing.T) {
	s := emptyState()
	s, _ = AddArea(s, "OS-1", "2024-01-01", "Km0", "", "")
	areaID := s.Areas[0].ID
	s, _ = AddService(s, areaID)
	svcID := s.Areas[0].Services[0].ID

	s, changed := FinalizeArea(s, areaID, "2024-02-01")
	require.True(t, changed)
	assert.Equal(t, "2024-02-01", s.Areas[0].EndDate)

	// todas as mutações de serviço viram no-op
	_, changed = AddService(s, areaID)
	assert.False(t, changed)
	_, changed = UpdateService(s, areaID, svcID, "areaM2", float64(10))
	assert.False(t, changed)
	_, changed = DeleteService(s, areaID, svcID)
	assert.False(t, changed)

	// finalizar de novo também é no-op
	_, changed = FinalizeArea(s, areaID, "2024-03-01")
	assert.False(t, changed)

	// reabrir libera a edição
	s, changed = ReopenArea(s, areaID)
	require.True(t, changed)
	assert.True(t, s.Areas[0].Open())

	_, changed = UpdateService(s, areaID, svcID, "areaM2", float64(10))
	assert.True(t, changed)
}

func TestFinalizeAreaRequiresEndDate(t *testing.T) {
	s := emptyState()
	s, _ = AddArea(s, "OS-1", "2024-01-01", "Km0", "", "")

	_, changed := FinalizeArea(s, s.Areas[0].ID, "")
	assert.False(t, changed)
}

func TestDeleteAreaRemovesServices(t *testing.T) {
	s := emptyState()
	s, _ = AddArea(s, "OS-1", "2024-01-01", "Km0", "", "")
	areaID := s.Areas[0].ID
	s, _ = AddService(s, areaID)

	s, changed := DeleteArea(s, areaID)
	require.True(t, changed)
	assert.Empty(t, s.Areas)

	_, changed = DeleteArea(s, areaID)
	assert.False(t, changed)
}

func TestToggleEmployeeStatusIsIdempotentInPairs(t *testing.T) {
	s := emptyState()
	s, changed := AddEmployee(s, "João Silva", "Operador", 0)
	require.True(t, changed)
	empID := s.Employees[0].ID
	original := s.Employees[0].Status

	s, _ = ToggleEmployeeStatus(s, empID)
	assert.Equal(t, models.EmployeeInactive, s.Employees[0].Status)

	s, _ = ToggleEmployeeStatus(s, empID)
	assert.Equal(t, original, s.Employees[0].Status)
}

// Cenário: dois toggles de presença no mesmo par (funcionário, data):
// o primeiro cria presente com a diária, o segundo vira falta com valor 0.
func TestSetAttendanceToggles(t *testing.T) {
	s := emptyState()
	s, _ = AddEmployee(s, "Maria Santos", "Ajudante Geral", 120)
	empID := s.Employees[0].ID

	s, changed := SetAttendance(s, empID, "2024-03-10")
	require.True(t, changed)
	require.Len(t, s.AttendanceRecords, 1)
	rec := s.AttendanceRecords[0]
	assert.Equal(t, models.AttendancePresent, rec.Status)
	assert.Equal(t, 120.0, rec.Value)

	s, changed = SetAttendance(s, empID, "2024-03-10")
	require.True(t, changed)
	require.Len(t, s.AttendanceRecords, 1, "toggle não pode duplicar o par (funcionário, data)")
	rec = s.AttendanceRecords[0]
	assert.Equal(t, models.AttendanceAbsent, rec.Status)
	assert.Zero(t, rec.Value)

	// terceiro toggle volta para presente com a diária reposta
	s, _ = SetAttendance(s, empID, "2024-03-10")
	rec = s.AttendanceRecords[0]
	assert.Equal(t, models.AttendancePresent, rec.Status)
	assert.Equal(t, 120.0, rec.Value)
}

func TestSetAttendanceUsesFallbackRate(t *testing.T) {
	s := emptyState()
	s, _ = AddEmployee(s, "Sem Diária", "Ajudante", 0)
	empID := s.Employees[0].ID

	s, _ = SetAttendance(s, empID, "2024-03-11")
	assert.Equal(t, models.DefaultDailyRate, s.AttendanceRecords[0].Value)
}

func TestSetAttendanceValueKeepsStatus(t *testing.T) {
	s := emptyState()
	s, _ = AddEmployee(s, "Maria", "Ajudante", 100)
	empID := s.Employees[0].ID
	s, _ = SetAttendance(s, empID, "2024-03-12")

	s, changed := SetAttendanceValue(s, empID, "2024-03-12", 85)
	require.True(t, changed)
	rec := s.AttendanceRecords[0]
	assert.Equal(t, models.AttendancePresent, rec.Status)
	assert.Equal(t, 85.0, rec.Value)

	// sem registro para o par, no-op
	_, changed = SetAttendanceValue(s, empID, "2024-03-13", 85)
	assert.False(t, changed)
}

func TestDeleteAttendance(t *testing.T) {
	s := emptyState()
	s, _ = AddEmployee(s, "Maria", "Ajudante", 100)
	empID := s.Employees[0].ID
	s, _ = SetAttendance(s, empID, "2024-03-12")

	s, changed := DeleteAttendance(s, empID, "2024-03-12")
	require.True(t, changed)
	assert.Empty(t, s.AttendanceRecords)

	_, changed = DeleteAttendance(s, empID, "2024-03-12")
	assert.False(t, changed)
}

// Cenário: item com 10 em estoque e mínimo 5; saída de 6 deixa 4 e o item
// aparece na lista de estoque baixo.
func TestRegisterInventoryMovementOut(t *testing.T) {
	s := emptyState()
	s, _ = AddInventoryItem(s, "Fio de Nylon", models.CategoryInsumos, 10, 5, 45)
	itemID := s.Inventory[0].ID

	s, changed := RegisterInventoryMovement(s, itemID, 6, MovementOut, "Equipe A", "", "2024-03-15")
	require.True(t, changed)
	assert.Equal(t, 4.0, s.Inventory[0].CurrentQty)
	require.Len(t, s.InventoryExits, 1)
	assert.Equal(t, "Equipe A", s.InventoryExits[0].Destination)
	assert.False(t, s.InventoryExits[0].Inbound())

	low := LowStockItems(s)
	require.Len(t, low, 1)
	assert.Equal(t, itemID, low[0].ID)
}

func TestRegisterInventoryMovementInForcesRestockDestination(t *testing.T) {
	s := emptyState()
	s, _ = AddInventoryItem(s, "Óleo 2T", models.CategoryInsumos, 3, 10, 35)
	itemID := s.Inventory[0].ID

	s, changed := RegisterInventoryMovement(s, itemID, 7, MovementIn, "qualquer coisa", "", "")
	require.True(t, changed)
	assert.Equal(t, 10.0, s.Inventory[0].CurrentQty)
	assert.Equal(t, models.DestinationRestock, s.InventoryExits[0].Destination)
	assert.True(t, s.InventoryExits[0].Inbound())
}

func TestRegisterInventoryMovementAllowsNegative(t *testing.T) {
	s := emptyState()
	s, _ = AddInventoryItem(s, "Fio", models.CategoryInsumos, 2, 1, 0)
	itemID := s.Inventory[0].ID

	s, changed := RegisterInventoryMovement(s, itemID, 5, MovementOut, "Obra", "", "")
	require.True(t, changed)
	assert.Equal(t, -3.0, s.Inventory[0].CurrentQty)
}

func TestRegisterInventoryMovementRejectsNonPositive(t *testing.T) {
	s := emptyState()
	s, _ = AddInventoryItem(s, "Fio", models.CategoryInsumos, 2, 1, 0)
	itemID := s.Inventory[0].ID

	_, changed := RegisterInventoryMovement(s, itemID, 0, MovementOut, "Obra", "", "")
	assert.False(t, changed)
	_, changed = RegisterInventoryMovement(s, itemID, -2, MovementIn, "", "", "")
	assert.False(t, changed)
}

// Estornar imediatamente após registrar restaura o saldo exato, nas duas
// direções — a direção vem do destino gravado, não do sinal da quantidade.
func TestReverseInventoryMovementRestoresQty(t *testing.T) {
	s := emptyState()
	s, _ = AddInventoryItem(s, "Fio", models.CategoryInsumos, 10, 5, 0)
	itemID := s.Inventory[0].ID

	s, _ = RegisterInventoryMovement(s, itemID, 6, MovementOut, "Equipe A", "", "")
	outID := s.InventoryExits[0].ID
	s, changed := ReverseInventoryMovement(s, outID)
	require.True(t, changed)
	assert.Equal(t, 10.0, s.Inventory[0].CurrentQty)
	assert.Empty(t, s.InventoryExits)

	s, _ = RegisterInventoryMovement(s, itemID, 4, MovementIn, "", "", "")
	inID := s.InventoryExits[0].ID
	s, _ = ReverseInventoryMovement(s, inID)
	assert.Equal(t, 10.0, s.Inventory[0].CurrentQty)

	_, changed = ReverseInventoryMovement(s, "inexistente")
	assert.False(t, changed)
}

func TestReverseMovementWithDeletedItemOnlyDropsLedgerRow(t *testing.T) {
	s := emptyState()
	s.InventoryExits = []models.InventoryExit{
		{ID: "m1", ItemID: "fantasma", Quantity: 3, Destination: "Obra"},
	}

	s, changed := ReverseInventoryMovement(s, "m1")
	require.True(t, changed)
	assert.Empty(t, s.InventoryExits)
}

func TestAddInventoryItemValidatesCategory(t *testing.T) {
	s := emptyState()
	_, changed := AddInventoryItem(s, "Luva", "ferramentas", 1, 1, 0)
	assert.False(t, changed)

	s, changed = AddInventoryItem(s, "Luva", models.CategoryEPIs, 1, 1, 0)
	assert.True(t, changed)
	assert.Equal(t, models.CategoryEPIs, s.Inventory[0].Category)
}

func TestSetMonthlyGoalRejectsNegative(t *testing.T) {
	s := emptyState()

	_, changed := SetMonthlyGoal(s, -1)
	assert.False(t, changed)

	s, changed = SetMonthlyGoal(s, 42000)
	require.True(t, changed)
	assert.Equal(t, 42000.0, s.MonthlyGoalM2)
}

func TestUpdateServiceRate(t *testing.T) {
	s := emptyState()

	s, changed := UpdateServiceRate(s, models.ServiceVarricao, 1.1)
	require.True(t, changed)
	assert.Equal(t, 1.1, s.ServiceRates[models.ServiceVarricao])

	_, changed = UpdateServiceRate(s, "pintura", 1.0)
	assert.False(t, changed)
	_, changed = UpdateServiceRate(s, models.ServiceVarricao, -1)
	assert.False(t, changed)
}

func TestCashLedgerOps(t *testing.T) {
	s := emptyState()

	s, changed := AddCashIn(s, "2024-03-05", 15000, "Fatura Fevereiro", "1ª parcela")
	require.True(t, changed)
	s, changed = AddCashOut(s, "2024-03-02", 2000, "Pagamento Funcionários", "")
	require.True(t, changed)
	assert.Equal(t, 13000.0, CashBalance(s))

	_, changed = AddCashIn(s, "", 100, "", "x")
	assert.False(t, changed)
	_, changed = AddCashOut(s, "2024-03-02", 0, "x", "")
	assert.False(t, changed)

	inID := s.CashIn[0].ID
	s, changed = DeleteCashIn(s, inID)
	require.True(t, changed)
	assert.Empty(t, s.CashIn)
}

func TestAddProductionRecordRequiresEmployee(t *testing.T) {
	s := emptyState()

	_, changed := AddProductionRecord(s, "ninguem", "s1", 100, "")
	assert.False(t, changed)

	s, _ = AddEmployee(s, "João", "Operador", 0)
	s, changed = AddProductionRecord(s, s.Employees[0].ID, "s1", 100, "2024-03-01")
	require.True(t, changed)
	require.Len(t, s.ProductionRecords, 1)
	assert.Equal(t, 100.0, s.ProductionRecords[0].AssociatedValue)
}

// Operações nunca tocam o estado de entrada, mesmo quando mudam algo
func TestOperationsDoNotMutateInput(t *testing.T) {
	s := models.DefaultState()
	areaID := s.Areas[0].ID
	svcID := s.Areas[0].Services[0].ID

	before := s.Areas[0].Services[0].AreaM2
	next, changed := UpdateService(s, areaID, svcID, "areaM2", float64(9999))
	require.True(t, changed)
	assert.Equal(t, before, s.Areas[0].Services[0].AreaM2)
	assert.Equal(t, 9999.0, next.Areas[0].Services[0].AreaM2)
}
