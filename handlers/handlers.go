package handlers

import (
	"errors"
	"net/http"

	"local-butler-api/auth"
	"local-butler-api/dispatch"
	"local-butler-api/orders"
	"local-butler-api/scheduler"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handlers bundles the core services behind the HTTP layer. Handlers
// never write User/ScheduleUnit/Order rows themselves; every mutation
// goes through a service call.
type Handlers struct {
	DB       *gorm.DB // read-only here: provider catalog lookups
	Auth     *auth.Service
	Orders   *orders.Service
	Dispatch *dispatch.Service
	Sched    *scheduler.Scheduler
}

func New(db *gorm.DB, a *auth.Service, o *orders.Service, d *dispatch.Service, s *scheduler.Scheduler) *Handlers {
	return &Handlers{DB: db, Auth: a, Orders: o, Dispatch: d, Sched: s}
}

// serviceError maps domain sentinels onto HTTP responses. Conflicts and
// validation failures are the caller's to recover from; anything
// unrecognized is an infrastructure fault reported generically.
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scheduler.ErrInvalidSlot):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, scheduler.ErrSlotConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Requested slot is already booked, pick another time"})
	case errors.Is(err, orders.ErrNotFound), errors.Is(err, dispatch.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
	case errors.Is(err, orders.ErrAlreadyTerminal):
		c.JSON(http.StatusConflict, gin.H{"error": "Order is already delivered or cancelled"})
	case errors.Is(err, dispatch.ErrAlreadyClaimed):
		c.JSON(http.StatusConflict, gin.H{"error": "Order has already been claimed by another driver"})
	case errors.Is(err, orders.ErrInvalidTransition):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, orders.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to do that"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, auth.ErrLocked):
		c.JSON(http.StatusLocked, gin.H{"error": "Account temporarily locked, try again later"})
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
	case errors.Is(err, auth.ErrBadRole):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role. Must be: customer, driver, merchant, or admin"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
