package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"gestor-urbano/internal/assistant"
	"gestor-urbano/internal/handlers"
	"gestor-urbano/internal/middleware"
	"gestor-urbano/internal/persistence"
	"gestor-urbano/internal/routes"
	"gestor-urbano/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	fs, err := persistence.NewFileStore(filepath.Join(t.TempDir(), "state.json"))
	require.NoError(t, err)
	adapter := persistence.NewAdapter(fs, logger)
	st := store.New(context.Background(), adapter, logger)

	// sem chave de API: o assistente responde sempre com a contingência
	gateway := assistant.NewGateway(nil, logger)

	router := gin.New()
	routes.SetupRoutes(router,
		handlers.NewProductionHandler(st, logger),
		handlers.NewInventoryHandler(st, logger),
		handlers.NewFinanceHandler(st, logger),
		handlers.NewEmployeeHandler(st, logger),
		handlers.NewDashboardHandler(st, logger),
		handlers.NewAssistantHandler(st, gateway, logger),
		middleware.NewHealthChecker(adapter, "file", false, logger),
	)
	return router, st
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// ===== Produção =====

func TestAddAreaValidationFails(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/areas", gin.H{
		"startReference": "Km 0",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, false, resp["success"])
}

func TestAddAreaCreated(t *testing.T) {
	router, st := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/areas", gin.H{
		"name":           "Rua das Flores",
		"startReference": "Esquina com a Av. Central",
	})

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, true, resp["success"])

	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "Rua das Flores", data["name"])
	// referência final ausente recebe o marcador padrão
	assert.Equal(t, "Não informado", data["endReference"])

	assert.Len(t, st.Snapshot().Areas, 2)
}

func TestFinalizeAreaLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	// data de conclusão obrigatória
	w := doJSON(t, router, http.MethodPost, "/api/v1/areas/a1/finalize", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// O.S. inexistente
	w = doJSON(t, router, http.MethodPost, "/api/v1/areas/nope/finalize", gin.H{"endDate": "2024-03-10"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/areas/a1/finalize", gin.H{"endDate": "2024-03-10"})
	assert.Equal(t, http.StatusOK, w.Code)

	// finalizar de novo é no-op
	w = doJSON(t, router, http.MethodPost, "/api/v1/areas/a1/finalize", gin.H{"endDate": "2024-03-11"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// O.S. finalizada congela os serviços
	w = doJSON(t, router, http.MethodPost, "/api/v1/areas/a1/services", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/areas/a1/reopen", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/areas/a1/services", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestListAreasFilter(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/v1/areas/a1/finalize", gin.H{"endDate": "2024-03-10"})

	w := doJSON(t, router, http.MethodGet, "/api/v1/areas?filter=open", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Empty(t, resp["data"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/areas?filter=closed", nil)
	resp = decodeEnvelope(t, w)
	assert.Len(t, resp["data"], 1)
}

func TestUpdateServiceRejectsUnknownField(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPut, "/api/v1/areas/a1/services/s1", gin.H{
		"field": "totalValue",
		"value": 123,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateServiceRecomputesTotal(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPut, "/api/v1/areas/a1/services/s1", gin.H{
		"field": "areaM2",
		"value": 100,
	})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.InDelta(t, 150.0, data["totalValue"], 0.001)
}

// ===== Almoxarifado =====

func TestRegisterMovementOut(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/inventory/movements", gin.H{
		"itemId":      "i1",
		"quantity":    6,
		"direction":   "out",
		"destination": "Equipe A",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.InDelta(t, 4.0, data["currentQty"], 0.001)
}

func TestRegisterMovementUnknownItem(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/inventory/movements", gin.H{
		"itemId":    "nope",
		"quantity":  1,
		"direction": "out",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRegisterMovementRejectsNonPositiveQuantity(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/inventory/movements", gin.H{
		"itemId":    "i1",
		"quantity":  0,
		"direction": "out",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddItemRejectsUnknownCategory(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/inventory", gin.H{
		"name":     "Chave Inglesa",
		"category": "ferramentas",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLowStockEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/inventory/low", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	items := resp["data"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "Óleo 2T", item["name"])
}

// ===== Caixa =====

func TestFinanceBalance(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/finance/balance", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.InDelta(t, 15000.0, data["cashIn"], 0.001)
	assert.InDelta(t, 2000.0, data["cashOut"], 0.001)
	assert.InDelta(t, 13000.0, data["balance"], 0.001)
}

func TestAddCashOutRequiresPositiveValue(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/finance/out", gin.H{
		"date":  "2024-03-10",
		"value": -50,
		"type":  "Combustível",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ===== Funcionários =====

func TestToggleAttendanceFlow(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/employees/e1/attendance", gin.H{"date": "2024-03-08"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	record := resp["data"].(map[string]interface{})
	assert.Equal(t, "present", record["status"])
	assert.InDelta(t, 100.0, record["value"], 0.001)

	// segundo toggle vira ausência com valor zero
	w = doJSON(t, router, http.MethodPost, "/api/v1/employees/e1/attendance", gin.H{"date": "2024-03-08"})
	require.Equal(t, http.StatusOK, w.Code)
	resp = decodeEnvelope(t, w)
	record = resp["data"].(map[string]interface{})
	assert.Equal(t, "absent", record["status"])
	assert.InDelta(t, 0.0, record["value"], 0.001)
}

func TestToggleAttendanceUnknownEmployee(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/employees/nope/attendance", gin.H{"date": "2024-03-08"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMonthStatsRejectsBadMonth(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/employees/e1/stats?month=2024-3", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// ===== Painel =====

func TestSetGoalRejectsNegative(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPut, "/api/v1/dashboard/goal", gin.H{"valueM2": -100})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetGoalUpdatesSummary(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPut, "/api/v1/dashboard/goal", gin.H{"valueM2": 10000})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/dashboard/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	data := resp["data"].(map[string]interface{})
	assert.InDelta(t, 10000.0, data["goalM2"], 0.001)
	// 5000 m² executados sobre meta de 10000
	assert.InDelta(t, 50.0, data["goalProgressPercent"], 0.001)
}

func TestUpdateRateUnknownType(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPut, "/api/v1/dashboard/rates", gin.H{
		"type": "poda de árvore",
		"rate": 3.0,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

// ===== Assistente =====

func TestChatRejectsEmptyMessage(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/assistant/chat", gin.H{"message": ""})
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Mensagem vazia", resp["error"])
}

func TestChatWithoutProviderReturnsFallback(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/assistant/chat", gin.H{"message": "Como está a produção?"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, assistant.FallbackReply, resp["reply"])
}

// ===== Saúde =====

func TestHealthCheck(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeEnvelope(t, w)
	assert.Equal(t, "healthy", resp["status"])
}
