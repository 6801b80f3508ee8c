package handlers

import (
	"net/http"
	"strconv"

	"local-butler-api/middleware"
	"local-butler-api/models"

	"github.com/gin-gonic/gin"
)

type PlaceOrderRequest struct {
	ProviderRef string `json:"provider_ref" binding:"required"`
	Date        string `json:"date" binding:"required"`
	TimeOfDay   string `json:"time" binding:"required"`
	Notes       string `json:"notes"`
}

// PlaceOrder books a pickup slot and creates the order (customer only)
func (h *Handlers) PlaceOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The core treats the ref as opaque; the catalog check only saves
	// customers from typos.
	var provider models.Provider
	if err := h.DB.Where("ref = ?", req.ProviderRef).First(&provider).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown provider: " + req.ProviderRef})
		return
	}

	order, err := h.Orders.Create(customerID, req.ProviderRef, req.Date, req.TimeOfDay, req.Notes)
	if err != nil {
		serviceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order":   order,
	})
}

// GetMyOrders returns all orders for the logged-in customer
func (h *Handlers) GetMyOrders(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	list, err := h.Orders.ByCustomer(customerID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(list), "orders": list})
}

// GetOrderDetail returns a single order's full detail with history
func (h *Handlers) GetOrderDetail(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	orderID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	order, err := h.Orders.Get(orderID)
	if err != nil {
		serviceError(c, err)
		return
	}
	if order.CustomerID != customerID {
		c.JSON(http.StatusForbidden, gin.H{"error": "This order does not belong to you"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// CancelOrder cancels the customer's own order from any non-terminal state
func (h *Handlers) CancelOrder(c *gin.Context) {
	customerID := middleware.GetUserID(c)
	orderID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	if err := h.Orders.Cancel(orderID, customerID, models.RoleCustomer); err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order cancelled successfully", "order_id": orderID})
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	return uint(id), err
}
