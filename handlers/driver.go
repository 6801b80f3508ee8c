package handlers

import (
	"net/http"

	"local-butler-api/middleware"
	"local-butler-api/models"

	"github.com/gin-gonic/gin"
)

// GetAvailableOrders shows PENDING orders with no driver assigned
func (h *Handlers) GetAvailableOrders(c *gin.Context) {
	list, err := h.Dispatch.ListPending()
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "orders": list})
}

// GetMyDeliveries returns all orders assigned to the logged-in driver
func (h *Handlers) GetMyDeliveries(c *gin.Context) {
	driverID := middleware.GetUserID(c)
	list, err := h.Dispatch.ListByDriver(driverID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "orders": list})
}

// ClaimOrder takes ownership of a pending order: PENDING → ASSIGNED
func (h *Handlers) ClaimOrder(c *gin.Context) {
	driverID := middleware.GetUserID(c)
	orderID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := h.Dispatch.Claim(orderID, driverID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "Order claimed successfully",
		"order_id": order.ID,
		"status":   order.Status,
	})
}

// DepartOrder transitions ASSIGNED → ON_THE_WAY
func (h *Handlers) DepartOrder(c *gin.Context) {
	h.advance(c, models.StatusOnTheWay, "Order on the way")
}

// DeliverOrder transitions ON_THE_WAY → DELIVERED
func (h *Handlers) DeliverOrder(c *gin.Context) {
	h.advance(c, models.StatusDelivered, "Order delivered successfully")
}

func (h *Handlers) advance(c *gin.Context, to models.OrderStatus, message string) {
	driverID := middleware.GetUserID(c)
	orderID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := h.Orders.Advance(orderID, to, driverID, middleware.GetRole(c))
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  message,
		"order_id": order.ID,
		"status":   order.Status,
	})
}
