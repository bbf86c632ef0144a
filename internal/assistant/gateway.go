// Package assistant encapsula toda a conversa com o provedor de linguagem
// generativa. O resto do sistema só conhece: contexto determinístico entra,
// texto livre sai. Tipos do provedor não vazam desta fronteira.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"gestor-urbano/internal/models"
	"gestor-urbano/internal/state"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

// FallbackReply resposta fixa exibida ao usuário quando o provedor falha.
// Nunca propagamos o erro bruto para a conversa.
const FallbackReply = "Tive um problema ao processar seus dados operacionais. " +
	"Por favor, verifique sua conexão ou tente novamente em instantes."

// ContextSnapshot é o objeto de contexto embutido na instrução de sistema.
// Construído de forma determinística a partir de um snapshot do AppState.
type ContextSnapshot struct {
	TotalAreas      int                            `json:"totalAreas"`
	ActiveOS        int                            `json:"activeOS"`
	ProductionM2    float64                        `json:"productionM2"`
	TotalRevenue    float64                        `json:"totalRevenue"`
	CashBalance     float64                        `json:"cashBalance"`
	LowStockItems   []string                       `json:"lowStockItems"`
	GoalM2          float64                        `json:"goalM2"`
	ActiveEmployees int                            `json:"activeEmployees"`
	ServiceRates    map[models.ServiceType]float64 `json:"serviceRates"`
}

// BuildContext compila o contexto operacional a partir do snapshot
func BuildContext(snap models.AppState) ContextSnapshot {
	low := []string{}
	for _, item := range state.LowStockItems(snap) {
		low = append(low, fmt.Sprintf("%s (%g/%g)", item.Name, item.CurrentQty, item.MinQty))
	}
	return ContextSnapshot{
		TotalAreas:      len(snap.Areas),
		ActiveOS:        state.ActiveAreas(snap),
		ProductionM2:    state.TotalProductionM2(snap),
		TotalRevenue:    state.TotalProductionValue(snap),
		CashBalance:     state.CashBalance(snap),
		LowStockItems:   low,
		GoalM2:          snap.MonthlyGoalM2,
		ActiveEmployees: state.ActiveEmployees(snap),
		ServiceRates:    snap.ServiceRates,
	}
}

// Gateway é o cliente do assistente Fera Bot
type Gateway struct {
	model  llms.LLM
	logger *zap.Logger
}

// NewGateway cria o gateway. model pode ser nil quando não há chave de API
// configurada; nesse caso toda pergunta recebe a resposta de contingência.
func NewGateway(model llms.LLM, logger *zap.Logger) *Gateway {
	return &Gateway{model: model, logger: logger}
}

// Ask envia a pergunta com o histórico e o contexto do snapshot ao provedor
// e devolve o texto da resposta. Qualquer falha (rede, provedor, resposta
// vazia) degrada para FallbackReply — a sessão nunca quebra por causa do
// assistente.
func (g *Gateway) Ask(ctx context.Context, message string, history []models.ChatMessage, snap models.AppState) string {
	if g.model == nil {
		g.logger.Warn("Assistente sem provedor configurado, usando resposta de contingência")
		return FallbackReply
	}

	contextJSON, err := json.Marshal(BuildContext(snap))
	if err != nil {
		g.logger.Error("Erro serializando contexto do assistente", zap.Error(err))
		return FallbackReply
	}

	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, systemInstruction(string(contextJSON))),
	}
	for _, msg := range history {
		role := schema.ChatMessageTypeHuman
		if msg.Role == "bot" {
			role = schema.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, msg.Text))
	}
	messages = append(messages, llms.TextParts(schema.ChatMessageTypeHuman, message))

	resp, err := g.model.GenerateContent(ctx, messages,
		llms.WithTemperature(0.3),
		llms.WithMaxTokens(2048),
	)
	if err != nil {
		g.logger.Error("Erro crítico no Fera Bot", zap.Error(err))
		return FallbackReply
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		g.logger.Warn("Provedor devolveu resposta vazia")
		return FallbackReply
	}
	return resp.Choices[0].Content
}

func systemInstruction(contextJSON string) string {
	return fmt.Sprintf(`Você é o Fera Bot, o Consultor de Operações de Elite da Fera Service.

CONTEXTO ATUAL DO SISTEMA: %s.

SUAS DIRETRIZES:
1. PERSONALIDADE: Você é direto, analítico e focado em eficiência operacional.
2. ANÁLISE DE DADOS: Sempre que perguntado sobre estoque, produção ou finanças, use os números reais do contexto acima.
3. INSIGHTS: Se identificar que a produção está abaixo de 50%% da meta mensal, sugira proativamente aumentar o ritmo.
4. ESTOQUE: Alerte se houver itens críticos no estoque.
5. FORMATO: Use Markdown para estruturar respostas complexas. Use negrito para valores monetários R$.

Não peça a chave de API ao usuário. Responda apenas em Português do Brasil.`, contextJSON)
}
