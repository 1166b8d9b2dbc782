package handler

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes. exportMiddleware wraps the export endpoint only.
func RegisterRoutes(e *echo.Echo, taskHandler *TaskHandler, budgetHandler *BudgetHandler, expenseHandler *ExpenseHandler, dashboardHandler *DashboardHandler, exportMiddleware ...echo.MiddlewareFunc) {
	// API version 1
	api := e.Group("/api/v1")

	// Task routes
	tasks := api.Group("/tasks/:year/:month")
	tasks.GET("", taskHandler.ListTasks)
	tasks.POST("", taskHandler.CreateTask)
	tasks.GET("/status-summary", taskHandler.GetStatusSummary)
	tasks.PUT("/:id", taskHandler.UpdateTask)
	tasks.DELETE("/:id", taskHandler.DeleteTask)
	tasks.PATCH("/:id/toggle", taskHandler.ToggleTask)

	// Budget plan routes
	budgets := api.Group("/budgets/:year/:month")
	budgets.GET("", budgetHandler.GetPlan)
	budgets.PUT("/:id", budgetHandler.UpdateAmounts)
	budgets.DELETE("/:id", budgetHandler.DeleteItem)
	budgets.POST("/:id/attachment", budgetHandler.AttachFile)
	budgets.DELETE("/:id/attachment", budgetHandler.RemoveFile)
	budgets.GET("/:id/attachment", budgetHandler.FileURL)

	// Expense report routes
	expenses := api.Group("/expenses/:year/:month")
	expenses.GET("", expenseHandler.GetReport)
	expenses.PUT("/:id", expenseHandler.UpdateAmounts)
	expenses.DELETE("/:id", expenseHandler.DeleteItem)
	expenses.POST("/:id/attachment", expenseHandler.AttachFile)
	expenses.DELETE("/:id/attachment", expenseHandler.RemoveFile)
	expenses.GET("/:id/attachment", expenseHandler.FileURL)

	// Dashboard routes
	dashboard := api.Group("/dashboard")
	dashboard.GET("/:year", dashboardHandler.GetDashboard)
	dashboard.GET("/:year/export", dashboardHandler.Export, exportMiddleware...)
}
