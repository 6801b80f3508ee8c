package handlers

import (
	"net/http"

	"local-butler-api/models"
	"local-butler-api/statemachine"

	"github.com/gin-gonic/gin"
)

// ListProviders returns the provider catalog (public)
func (h *Handlers) ListProviders(c *gin.Context) {
	var providers []models.Provider
	query := h.DB

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	query.Order("category asc, name asc").Find(&providers)
	c.JSON(http.StatusOK, gin.H{"count": len(providers), "providers": providers})
}

// GetProvider returns one provider with its pickup instructions
func (h *Handlers) GetProvider(c *gin.Context) {
	var provider models.Provider
	if err := h.DB.Where("ref = ?", c.Param("ref")).First(&provider).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"provider": provider})
}

// GetStateMachineInfo documents the order state machine
func (h *Handlers) GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.GetAllTransitions()
	out := make([]gin.H, 0, len(transitions))
	for _, t := range transitions {
		out = append(out, gin.H{"from": t.From, "to": t.To, "actor": t.Actor})
	}
	c.JSON(http.StatusOK, gin.H{
		"states": []models.OrderStatus{
			models.StatusPending,
			models.StatusAssigned,
			models.StatusOnTheWay,
			models.StatusDelivered,
			models.StatusCancelled,
		},
		"terminal":    []models.OrderStatus{models.StatusDelivered, models.StatusCancelled},
		"transitions": out,
	})
}
