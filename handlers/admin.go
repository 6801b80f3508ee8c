package handlers

import (
	"net/http"

	"local-butler-api/middleware"
	"local-butler-api/models"

	"github.com/gin-gonic/gin"
)

// AdminGetAllOrders returns all orders with a status summary — admin only
func (h *Handlers) AdminGetAllOrders(c *gin.Context) {
	var customerID uint
	if s := c.Query("customer_id"); s != "" {
		id, err := parseID(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer_id"})
			return
		}
		customerID = id
	}

	list, err := h.Orders.List(models.OrderStatus(c.Query("status")), customerID)
	if err != nil {
		serviceError(c, err)
		return
	}

	summary := map[string]int{}
	for _, o := range list {
		summary[string(o.Status)]++
	}
	c.JSON(http.StatusOK, gin.H{
		"order_summary": summary,
		"count":         len(list),
		"orders":        list,
	})
}

// AdminGetAllUsers returns all accounts — admin only
func (h *Handlers) AdminGetAllUsers(c *gin.Context) {
	users, err := h.Auth.ListUsers(models.UserRole(c.Query("role")))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(users), "users": users})
}

// AdminGetSchedule returns a day's materialized slots, booked or free
func (h *Handlers) AdminGetSchedule(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query parameter required (YYYY-MM-DD)"})
		return
	}
	units, err := h.Sched.UnitsForDate(date)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "count": len(units), "units": units})
}

// AdminCancelOrder cancels any non-terminal order on a customer's behalf
func (h *Handlers) AdminCancelOrder(c *gin.Context) {
	adminID := middleware.GetUserID(c)
	orderID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	if err := h.Orders.Cancel(orderID, adminID, models.RoleAdmin); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled by admin", "order_id": orderID})
}

type AdminAdvanceRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// AdminAdvanceOrder advances an order's status without being its driver.
// The transition table still applies; there is no state jumping.
func (h *Handlers) AdminAdvanceOrder(c *gin.Context) {
	adminID := middleware.GetUserID(c)
	orderID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	var req AdminAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.Orders.Advance(orderID, req.Status, adminID, models.RoleAdmin)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Order status updated",
		"order_id": order.ID,
		"status":   order.Status,
	})
}
