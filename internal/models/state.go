package models

// ServiceType tipos de serviço de manutenção urbana faturáveis
type ServiceType string

const (
	ServiceCorteCostal      ServiceType = "corte costal"
	ServiceCorteTrator      ServiceType = "corte com trator"
	ServiceCapinaManual     ServiceType = "capina manual"
	ServiceCapinaMecanizada ServiceType = "capina mecanizada"
	ServiceVarricao         ServiceType = "varrição"
)

// ServiceTypes lista ordenada dos tipos de serviço (ordem de exibição)
var ServiceTypes = []ServiceType{
	ServiceCorteCostal,
	ServiceCorteTrator,
	ServiceCapinaManual,
	ServiceCapinaMecanizada,
	ServiceVarricao,
}

// ValidServiceType verifica se o tipo pertence ao enum
func ValidServiceType(t ServiceType) bool {
	for _, st := range ServiceTypes {
		if st == t {
			return true
		}
	}
	return false
}

// InventoryCategory categorias fixas do almoxarifado
type InventoryCategory string

const (
	CategoryPecas   InventoryCategory = "peças"
	CategoryInsumos InventoryCategory = "insumos"
	CategoryEPIs    InventoryCategory = "EPIs"
	CategoryOutros  InventoryCategory = "outros"
)

// ValidInventoryCategory verifica se a categoria pertence ao enum
func ValidInventoryCategory(c InventoryCategory) bool {
	switch c {
	case CategoryPecas, CategoryInsumos, CategoryEPIs, CategoryOutros:
		return true
	}
	return false
}

// EmployeeStatus situação do funcionário
type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
)

// AttendanceStatus presença do dia
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
)

const (
	// DestinationRestock marca um movimento de estoque como entrada (Reposição);
	// qualquer outro destino é saída. Convenção herdada do formato persistido.
	DestinationRestock = "Reposição"

	// EndReferenceNotInformed valor sentinela quando a O.S. não informa o ponto final
	EndReferenceNotInformed = "Não informado"

	// DefaultDailyRate diária padrão quando o funcionário não tem valor cadastrado
	DefaultDailyRate = 100.0
)

// Area representa uma Ordem de Serviço (O.S.): trecho com serviços faturáveis.
// EndDate vazio = O.S. aberta; preenchido = finalizada (serviços congelados).
type Area struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	StartDate      string    `json:"startDate"`
	EndDate        string    `json:"endDate,omitempty"`
	StartReference string    `json:"startReference"`
	EndReference   string    `json:"endReference"`
	Observations   string    `json:"observations"`
	Services       []Service `json:"services"`
}

// Open indica se a O.S. ainda aceita edição de serviços
func (a Area) Open() bool {
	return a.EndDate == ""
}

// Service item faturável dentro de uma O.S.
// Invariante: TotalValue == AreaM2 * UnitValue após qualquer edição.
type Service struct {
	ID          string      `json:"id"`
	AreaID      string      `json:"areaId"`
	Type        ServiceType `json:"type"`
	AreaM2      float64     `json:"areaM2"`
	UnitValue   float64     `json:"unitValue"`
	TotalValue  float64     `json:"totalValue"`
	ServiceDate string      `json:"serviceDate,omitempty"`
}

// Employee funcionário da operação
type Employee struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Role             string         `json:"role"`
	Status           EmployeeStatus `json:"status"`
	DefaultDailyRate float64        `json:"defaultDailyRate,omitempty"`
}

// AttendanceRecord registro de presença por funcionário/dia.
// Value só é significativo com status present (ausente = 0).
type AttendanceRecord struct {
	ID         string           `json:"id"`
	EmployeeID string           `json:"employeeId"`
	Date       string           `json:"date"`
	Status     AttendanceStatus `json:"status"`
	Value      float64          `json:"value"`
}

// InventoryItem item do almoxarifado. CurrentQty pode ficar negativo se uma
// retirada acima do saldo for confirmada pelo chamador.
type InventoryItem struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Category   InventoryCategory `json:"category"`
	CurrentQty float64           `json:"currentQty"`
	MinQty     float64           `json:"minQty"`
	UnitValue  float64           `json:"unitValue,omitempty"`
}

// LowStock indica item no nível mínimo ou abaixo
func (i InventoryItem) LowStock() bool {
	return i.CurrentQty <= i.MinQty
}

// InventoryExit lançamento do livro de movimentos de estoque (append-only).
// Quantity é sempre positiva; a direção vem do Destination.
type InventoryExit struct {
	ID          string  `json:"id"`
	ItemID      string  `json:"itemId"`
	Quantity    float64 `json:"quantity"`
	Date        string  `json:"date"`
	Destination string  `json:"destination"`
	Observation string  `json:"observation"`
}

// Inbound indica movimento de entrada (Reposição)
func (e InventoryExit) Inbound() bool {
	return e.Destination == DestinationRestock
}

// CashIn entrada de caixa
type CashIn struct {
	ID        string  `json:"id"`
	Date      string  `json:"date"`
	Value     float64 `json:"value"`
	Reference string  `json:"reference"`
	Type      string  `json:"type"`
}

// CashOut saída de caixa
type CashOut struct {
	ID       string  `json:"id"`
	Date     string  `json:"date"`
	Value    float64 `json:"value"`
	Type     string  `json:"type"`
	ProofURL string  `json:"proofUrl,omitempty"`
}

// ProductionRecord vincula o valor de um serviço ao funcionário que o executou
type ProductionRecord struct {
	ID              string  `json:"id"`
	EmployeeID      string  `json:"employeeId"`
	ServiceID       string  `json:"serviceId"`
	AssociatedValue float64 `json:"associatedValue"`
	Date            string  `json:"date"`
}

// AppState agregado único da aplicação. Os nomes JSON preservam o formato do
// snapshot persistido; as coleções mantêm a ordem de inserção para exibição.
type AppState struct {
	Areas             []Area                  `json:"areas"`
	Employees         []Employee              `json:"employees"`
	ProductionRecords []ProductionRecord      `json:"productionRecords"`
	AttendanceRecords []AttendanceRecord      `json:"attendanceRecords"`
	Inventory         []InventoryItem         `json:"inventory"`
	InventoryExits    []InventoryExit         `json:"inventoryExits"`
	CashIn            []CashIn                `json:"cashIn"`
	CashOut           []CashOut               `json:"cashOut"`
	ServiceRates      map[ServiceType]float64 `json:"serviceRates"`
	MonthlyGoalM2     float64                 `json:"monthlyGoalM2"`
}

// cloneSlice copia preservando a distinção nil/vazio: uma coleção vazia
// continua serializando como [] e não como null
func cloneSlice[T any](src []T) []T {
	if src == nil {
		return nil
	}
	out := make([]T, len(src))
	copy(out, src)
	return out
}

// Clone devolve uma cópia profunda do estado. As operações de mutação clonam
// antes de editar para nunca tocarem o valor observado pelos leitores.
func (s AppState) Clone() AppState {
	out := s

	out.Areas = cloneSlice(s.Areas)
	for i := range out.Areas {
		out.Areas[i].Services = cloneSlice(out.Areas[i].Services)
	}
	out.Employees = cloneSlice(s.Employees)
	out.ProductionRecords = cloneSlice(s.ProductionRecords)
	out.AttendanceRecords = cloneSlice(s.AttendanceRecords)
	out.Inventory = cloneSlice(s.Inventory)
	out.InventoryExits = cloneSlice(s.InventoryExits)
	out.CashIn = cloneSlice(s.CashIn)
	out.CashOut = cloneSlice(s.CashOut)

	out.ServiceRates = make(map[ServiceType]float64, len(s.ServiceRates))
	for k, v := range s.ServiceRates {
		out.ServiceRates[k] = v
	}
	return out
}

// Normalize garante coleções não-nulas após um snapshot parcial ou antigo
func (s *AppState) Normalize() {
	if s.Areas == nil {
		s.Areas = []Area{}
	}
	for i := range s.Areas {
		if s.Areas[i].Services == nil {
			s.Areas[i].Services = []Service{}
		}
	}
	if s.Employees == nil {
		s.Employees = []Employee{}
	}
	if s.ProductionRecords == nil {
		s.ProductionRecords = []ProductionRecord{}
	}
	if s.AttendanceRecords == nil {
		s.AttendanceRecords = []AttendanceRecord{}
	}
	if s.Inventory == nil {
		s.Inventory = []InventoryItem{}
	}
	if s.InventoryExits == nil {
		s.InventoryExits = []InventoryExit{}
	}
	if s.CashIn == nil {
		s.CashIn = []CashIn{}
	}
	if s.CashOut == nil {
		s.CashOut = []CashOut{}
	}
	if s.ServiceRates == nil {
		s.ServiceRates = DefaultServiceRates()
	}
}

// DefaultServiceRates tabela padrão de valores unitários (R$/m²) por tipo
func DefaultServiceRates() map[ServiceType]float64 {
	return map[ServiceType]float64{
		ServiceCorteCostal:      2.0,
		ServiceCorteTrator:      1.5,
		ServiceCapinaManual:     2.5,
		ServiceCapinaMecanizada: 1.8,
		ServiceVarricao:         0.8,
	}
}

// DefaultState estado inicial usado quando não existe snapshot salvo e como
// fonte dos valores de preenchimento na migração aditiva do load
func DefaultState() AppState {
	return AppState{
		Areas: []Area{
			{
				ID:             "a1",
				Name:           "Avenida Principal",
				StartDate:      "2024-03-01",
				StartReference: "Km 0",
				EndReference:   "Km 10",
				Observations:   "Trecho de alta visibilidade",
				Services: []Service{
					{
						ID:         "s1",
						AreaID:     "a1",
						Type:       ServiceCorteTrator,
						AreaM2:     5000,
						UnitValue:  1.5,
						TotalValue: 7500,
					},
				},
			},
		},
		Employees: []Employee{
			{ID: "e1", Name: "João Silva", Role: "Operador de Roçadeira", Status: EmployeeActive},
			{ID: "e2", Name: "Maria Santos", Role: "Ajudante Geral", Status: EmployeeActive},
		},
		ProductionRecords: []ProductionRecord{},
		AttendanceRecords: []AttendanceRecord{},
		Inventory: []InventoryItem{
			{ID: "i1", Name: "Fio de Nylon", Category: CategoryInsumos, CurrentQty: 10, MinQty: 5, UnitValue: 45.0},
			{ID: "i2", Name: "Óleo 2T", Category: CategoryInsumos, CurrentQty: 3, MinQty: 10, UnitValue: 35.0},
		},
		InventoryExits: []InventoryExit{},
		CashIn: []CashIn{
			{ID: "c1", Date: "2024-03-05", Value: 15000, Reference: "Fatura Fevereiro", Type: "1ª parcela"},
		},
		CashOut: []CashOut{
			{ID: "o1", Date: "2024-03-02", Value: 2000, Type: "Pagamento Funcionários"},
		},
		ServiceRates:  DefaultServiceRates(),
		MonthlyGoalM2: 50000,
	}
}
