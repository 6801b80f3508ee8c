package routes

import (
	"local-butler-api/handlers"
	"local-butler-api/middleware"
	"local-butler-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/register", h.Register)
		public.POST("/auth/login", h.Login)

		// Provider catalog (no auth needed)
		public.GET("/providers", h.ListProviders)
		public.GET("/providers/:ref", h.GetProvider)

		// State machine info (great for docs/Postman)
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes ───────────────────────────────────────
	auth := r.Group("/api")
	auth.Use(middleware.AuthRequired())
	{
		auth.GET("/profile", h.GetProfile)
	}

	// ── Customer routes ────────────────────────────────────────────
	customer := r.Group("/api/customer")
	customer.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleCustomer))
	{
		customer.POST("/orders", h.PlaceOrder)
		customer.GET("/orders", h.GetMyOrders)
		customer.GET("/orders/:id", h.GetOrderDetail)
		customer.PUT("/orders/:id/cancel", h.CancelOrder)
	}

	// ── Driver (butler) routes ─────────────────────────────────────
	driver := r.Group("/api/driver")
	driver.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleDriver))
	{
		driver.GET("/orders/available", h.GetAvailableOrders)
		driver.GET("/orders/mine", h.GetMyDeliveries)
		driver.PUT("/orders/:id/claim", h.ClaimOrder)
		driver.PUT("/orders/:id/depart", h.DepartOrder)
		driver.PUT("/orders/:id/deliver", h.DeliverOrder)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/orders", h.AdminGetAllOrders)
		admin.GET("/users", h.AdminGetAllUsers)
		admin.GET("/schedule", h.AdminGetSchedule)
		admin.PUT("/orders/:id/cancel", h.AdminCancelOrder)
		admin.PUT("/orders/:id/status", h.AdminAdvanceOrder)
	}
}
