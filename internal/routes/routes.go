package routes

import (
	"gestor-urbano/internal/handlers"
	"gestor-urbano/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configura todas as rotas da aplicação
func SetupRoutes(
	router *gin.Engine,
	productionHandler *handlers.ProductionHandler,
	inventoryHandler *handlers.InventoryHandler,
	financeHandler *handlers.FinanceHandler,
	employeeHandler *handlers.EmployeeHandler,
	dashboardHandler *handlers.DashboardHandler,
	assistantHandler *handlers.AssistantHandler,
	healthChecker *middleware.HealthChecker,
) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Produção (O.S. e serviços)
		areas := v1.Group("/areas")
		{
			areas.GET("", productionHandler.ListAreas)
			areas.POST("", productionHandler.AddArea)
			areas.POST("/:id/finalize", productionHandler.FinalizeArea)
			areas.POST("/:id/reopen", productionHandler.ReopenArea)
			areas.DELETE("/:id", productionHandler.DeleteArea)

			areas.POST("/:id/services", productionHandler.AddService)
			areas.PUT("/:id/services/:serviceId", productionHandler.UpdateService)
			areas.DELETE("/:id/services/:serviceId", productionHandler.DeleteService)
		}
		v1.POST("/production-records", productionHandler.AddProductionRecord)

		// Almoxarifado
		inventory := v1.Group("/inventory")
		{
			inventory.GET("", inventoryHandler.ListItems)
			inventory.POST("", inventoryHandler.AddItem)
			inventory.GET("/low", inventoryHandler.LowStock)
			inventory.GET("/movements", inventoryHandler.ListMovements)
			inventory.POST("/movements", inventoryHandler.RegisterMovement)
			inventory.DELETE("/movements/:id", inventoryHandler.ReverseMovement)
		}

		// Caixa
		finance := v1.Group("/finance")
		{
			finance.GET("/balance", financeHandler.Balance)
			finance.GET("/entries", financeHandler.ListEntries)
			finance.POST("/in", financeHandler.AddCashIn)
			finance.POST("/out", financeHandler.AddCashOut)
			finance.DELETE("/in/:id", financeHandler.DeleteCashIn)
			finance.DELETE("/out/:id", financeHandler.DeleteCashOut)
		}

		// Funcionários e presença
		employees := v1.Group("/employees")
		{
			employees.GET("", employeeHandler.List)
			employees.POST("", employeeHandler.Add)
			employees.POST("/:id/toggle", employeeHandler.ToggleStatus)
			employees.POST("/:id/attendance", employeeHandler.ToggleAttendance)
			employees.PUT("/:id/attendance/value", employeeHandler.SetAttendanceValue)
			employees.DELETE("/:id/attendance", employeeHandler.DeleteAttendance)
			employees.GET("/:id/stats", employeeHandler.MonthStats)
		}

		// Painel executivo
		dashboard := v1.Group("/dashboard")
		{
			dashboard.GET("/summary", dashboardHandler.Summary)
			dashboard.PUT("/goal", dashboardHandler.SetGoal)
			dashboard.GET("/rates", dashboardHandler.Rates)
			dashboard.PUT("/rates", dashboardHandler.UpdateRate)
			dashboard.GET("/ws", dashboardHandler.WebSocket)
		}

		// Assistente
		v1.POST("/assistant/chat", assistantHandler.Chat)
	}

	// Health check (manter na raiz para compatibilidade)
	router.GET("/health", healthChecker.HealthCheck)

	// API info na raiz
	router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Gestor Urbano API",
			"version": "1.0.0",
			"status":  "running",
			"endpoints": gin.H{
				"health": "/health",
				"api":    "/api/v1",
				"production": gin.H{
					"areas":    "GET|POST /api/v1/areas",
					"finalize": "POST /api/v1/areas/:id/finalize",
					"services": "POST /api/v1/areas/:id/services",
				},
				"inventory": gin.H{
					"items":     "GET|POST /api/v1/inventory",
					"low_stock": "GET /api/v1/inventory/low",
					"movements": "GET|POST /api/v1/inventory/movements",
				},
				"finance":   "GET /api/v1/finance/balance",
				"employees": "GET|POST /api/v1/employees",
				"dashboard": "GET /api/v1/dashboard/summary",
				"assistant": "POST /api/v1/assistant/chat",
			},
		})
	})
}
