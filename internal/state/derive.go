package state

import (
	"gestor-urbano/internal/models"
)

// Derivações puras sobre um snapshot do AppState. Nenhuma função deste
// arquivo modifica a entrada.

// TotalProductionM2 soma a metragem de todos os serviços de todas as O.S.
func TotalProductionM2(s models.AppState) float64 {
	var total float64
	for _, area := range s.Areas {
		for _, svc := range area.Services {
			total += svc.AreaM2
		}
	}
	return total
}

// TotalProductionValue soma o faturamento de todos os serviços
func TotalProductionValue(s models.AppState) float64 {
	var total float64
	for _, area := range s.Areas {
		for _, svc := range area.Services {
			total += svc.TotalValue
		}
	}
	return total
}

// CashBalance saldo de caixa: entradas menos saídas
func CashBalance(s models.AppState) float64 {
	var in, out float64
	for _, c := range s.CashIn {
		in += c.Value
	}
	for _, c := range s.CashOut {
		out += c.Value
	}
	return in - out
}

// LowStockItems itens com saldo no mínimo ou abaixo, na ordem do estoque
func LowStockItems(s models.AppState) []models.InventoryItem {
	items := []models.InventoryItem{}
	for _, item := range s.Inventory {
		if item.LowStock() {
			items = append(items, item)
		}
	}
	return items
}

// GoalProgressPercent percentual da meta mensal atingido, limitado a 100.
// Meta zero (ou negativa) devolve 0: sem meta definida não há progresso a
// reportar, e reportar 100 anunciaria uma meta cumprida que nunca existiu.
func GoalProgressPercent(s models.AppState) float64 {
	if s.MonthlyGoalM2 <= 0 {
		return 0
	}
	pct := TotalProductionM2(s) / s.MonthlyGoalM2 * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// ProductionByType metragem agregada por tipo de serviço, na ordem em que
// cada tipo aparece pela primeira vez
func ProductionByType(s models.AppState) []models.TypeTotal {
	totals := map[models.ServiceType]int{}
	result := []models.TypeTotal{}
	for _, area := range s.Areas {
		for _, svc := range area.Services {
			if idx, ok := totals[svc.Type]; ok {
				result[idx].TotalM2 += svc.AreaM2
				continue
			}
			totals[svc.Type] = len(result)
			result = append(result, models.TypeTotal{Type: svc.Type, TotalM2: svc.AreaM2})
		}
	}
	return result
}

// EmployeeMonthStats estatísticas de presença do funcionário no mês.
// monthPrefix é "YYYY-MM" e casa por prefixo com a data do registro.
func EmployeeMonthStats(s models.AppState, employeeID, monthPrefix string) models.EmployeeMonthStats {
	var stats models.EmployeeMonthStats
	for _, rec := range s.AttendanceRecords {
		if rec.EmployeeID != employeeID || !hasMonthPrefix(rec.Date, monthPrefix) {
			continue
		}
		stats.TotalRecords++
		if rec.Status == models.AttendancePresent {
			stats.PresentDays++
			stats.TotalValue += rec.Value
		}
	}
	return stats
}

func hasMonthPrefix(date, prefix string) bool {
	return len(prefix) == 7 && len(date) >= 7 && date[:7] == prefix
}

// ActiveAreas O.S. ainda abertas (sem data de conclusão)
func ActiveAreas(s models.AppState) int {
	count := 0
	for _, a := range s.Areas {
		if a.Open() {
			count++
		}
	}
	return count
}

// ActiveEmployees funcionários com status active
func ActiveEmployees(s models.AppState) int {
	count := 0
	for _, e := range s.Employees {
		if e.Status == models.EmployeeActive {
			count++
		}
	}
	return count
}

// Summary monta os agregados do painel a partir de um snapshot
func Summary(s models.AppState, timestamp string) models.DashboardSummary {
	return models.DashboardSummary{
		TotalProductionM2:    TotalProductionM2(s),
		TotalProductionValue: TotalProductionValue(s),
		CashBalance:          CashBalance(s),
		GoalM2:               s.MonthlyGoalM2,
		GoalProgressPercent:  GoalProgressPercent(s),
		LowStockCount:        len(LowStockItems(s)),
		ActiveAreas:          ActiveAreas(s),
		ActiveEmployees:      ActiveEmployees(s),
		ProductionByType:     ProductionByType(s),
		Timestamp:            timestamp,
	}
}
