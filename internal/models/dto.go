package models

// ===== REQUEST DTOs =====

// AddAreaRequest abertura de nova O.S.
type AddAreaRequest struct {
	Name           string `json:"name" validate:"required"`
	StartDate      string `json:"startDate"`
	StartReference string `json:"startReference" validate:"required"`
	EndReference   string `json:"endReference"`
	Observations   string `json:"observations"`
}

// FinalizeAreaRequest finalização de O.S. (exige data de conclusão)
type FinalizeAreaRequest struct {
	EndDate string `json:"endDate" validate:"required"`
}

// UpdateServiceRequest edição de um campo do serviço. Value chega como JSON
// livre: número para areaM2/unitValue, string para type/serviceDate.
type UpdateServiceRequest struct {
	Field string      `json:"field" validate:"required,oneof=type areaM2 unitValue serviceDate"`
	Value interface{} `json:"value" validate:"required"`
}

// AddEmployeeRequest cadastro de funcionário
type AddEmployeeRequest struct {
	Name             string  `json:"name" validate:"required"`
	Role             string  `json:"role" validate:"required"`
	DefaultDailyRate float64 `json:"defaultDailyRate" validate:"gte=0"`
}

// AttendanceRequest alterna presença do funcionário na data
type AttendanceRequest struct {
	Date string `json:"date" validate:"required"`
}

// AttendanceValueRequest sobrescreve o valor da diária de um registro existente
type AttendanceValueRequest struct {
	Date  string  `json:"date" validate:"required"`
	Value float64 `json:"value" validate:"gte=0"`
}

// AddInventoryItemRequest cadastro de item do almoxarifado
type AddInventoryItemRequest struct {
	Name       string  `json:"name" validate:"required"`
	Category   string  `json:"category" validate:"required,oneof=peças insumos EPIs outros"`
	CurrentQty float64 `json:"currentQty" validate:"gte=0"`
	MinQty     float64 `json:"minQty" validate:"gte=0"`
	UnitValue  float64 `json:"unitValue" validate:"gte=0"`
}

// InventoryMovementRequest entrada/saída de estoque
type InventoryMovementRequest struct {
	ItemID      string  `json:"itemId" validate:"required"`
	Quantity    float64 `json:"quantity" validate:"required,gt=0"`
	Direction   string  `json:"direction" validate:"required,oneof=in out"`
	Destination string  `json:"destination"`
	Observation string  `json:"observation"`
	Date        string  `json:"date"`
}

// CashInRequest lançamento de entrada de caixa
type CashInRequest struct {
	Date      string  `json:"date" validate:"required"`
	Value     float64 `json:"value" validate:"required,gt=0"`
	Reference string  `json:"reference"`
	Type      string  `json:"type" validate:"required"`
}

// CashOutRequest lançamento de saída de caixa
type CashOutRequest struct {
	Date     string  `json:"date" validate:"required"`
	Value    float64 `json:"value" validate:"required,gt=0"`
	Type     string  `json:"type" validate:"required"`
	ProofURL string  `json:"proofUrl"`
}

// ProductionRecordRequest vincula valor executado a um funcionário
type ProductionRecordRequest struct {
	EmployeeID      string  `json:"employeeId" validate:"required"`
	ServiceID       string  `json:"serviceId" validate:"required"`
	AssociatedValue float64 `json:"associatedValue" validate:"gte=0"`
	Date            string  `json:"date"`
}

// SetGoalRequest nova meta mensal em m². Negativo é rejeitado na borda.
type SetGoalRequest struct {
	ValueM2 float64 `json:"valueM2" validate:"gte=0"`
}

// UpdateRateRequest atualiza o valor unitário de um tipo de serviço
type UpdateRateRequest struct {
	Type string  `json:"type" validate:"required"`
	Rate float64 `json:"rate" validate:"gte=0"`
}

// ChatMessage mensagem do histórico da conversa com o assistente
type ChatMessage struct {
	Role string `json:"role" validate:"required,oneof=user bot"`
	Text string `json:"text" validate:"required"`
}

// ChatRequest pergunta ao assistente com histórico opcional
type ChatRequest struct {
	Message string        `json:"message" validate:"required"`
	History []ChatMessage `json:"history" validate:"dive"`
}

// ===== RESPONSE DTOs =====

// ChatResponse resposta do assistente
type ChatResponse struct {
	Reply string `json:"reply"`
}

// DashboardSummary agregados exibidos no painel e enviados pelo WebSocket
type DashboardSummary struct {
	TotalProductionM2    float64     `json:"totalProductionM2"`
	TotalProductionValue float64     `json:"totalProductionValue"`
	CashBalance          float64     `json:"cashBalance"`
	GoalM2               float64     `json:"goalM2"`
	GoalProgressPercent  float64     `json:"goalProgressPercent"`
	LowStockCount        int         `json:"lowStockCount"`
	ActiveAreas          int         `json:"activeAreas"`
	ActiveEmployees      int         `json:"activeEmployees"`
	ProductionByType     []TypeTotal `json:"productionByType"`
	Timestamp            string      `json:"timestamp"`
}

// TypeTotal total de m² por tipo de serviço, na ordem de primeira ocorrência
type TypeTotal struct {
	Type    ServiceType `json:"type"`
	TotalM2 float64     `json:"totalM2"`
}

// EmployeeMonthStats estatísticas de presença de um funcionário no mês
type EmployeeMonthStats struct {
	PresentDays  int     `json:"presentDays"`
	TotalValue   float64 `json:"totalValue"`
	TotalRecords int     `json:"totalRecords"`
}

// MovementView movimento do livro com o nome do item resolvido; itens
// excluídos aparecem como "item removido" em vez de erro.
type MovementView struct {
	InventoryExit
	ItemName string `json:"itemName"`
	Inbound  bool   `json:"inbound"`
}
