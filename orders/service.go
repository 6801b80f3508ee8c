// Package orders owns the order lifecycle: creation against a bookable
// slot, cancellation, and forward status transitions. All status writes
// are guarded single-statement updates keyed on the status the caller
// observed, so concurrent transitions on the same order serialize and
// at most one wins.
package orders

import (
	"errors"
	"fmt"

	"local-butler-api/models"
	"local-butler-api/notify"
	"local-butler-api/scheduler"
	"local-butler-api/statemachine"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrAlreadyTerminal means the order is delivered or cancelled and
	// accepts no further transition.
	ErrAlreadyTerminal = errors.New("order already in a terminal state")
	ErrForbidden       = errors.New("not allowed for this account")
	// ErrInvalidTransition means the requested status change is outside
	// the transition table (or the order moved concurrently).
	ErrInvalidTransition = errors.New("invalid status transition")
)

// cancelAttempts bounds the retry loop when a cancel races another
// transition on the same order.
const cancelAttempts = 3

type Service struct {
	db       *gorm.DB
	slots    *scheduler.Scheduler
	notifier notify.Notifier
}

func NewService(db *gorm.DB, slots *scheduler.Scheduler, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{db: db, slots: slots, notifier: notifier}
}

// Create reserves the requested slot and, only on success, materializes
// the order in PENDING. A failed reserve creates nothing; a failed
// insert gives the slot back, so no partial state is ever observable.
func (s *Service) Create(customerID uint, providerRef, date, timeOfDay, notes string) (*models.Order, error) {
	if err := s.slots.Reserve(date, timeOfDay); err != nil {
		return nil, err
	}

	order := models.Order{
		CustomerID:  customerID,
		ProviderRef: providerRef,
		Status:      models.StatusPending,
		Date:        date,
		TimeOfDay:   timeOfDay,
		Notes:       notes,
	}
	if err := s.db.Create(&order).Error; err != nil {
		if relErr := s.slots.Release(date, timeOfDay); relErr != nil {
			return nil, fmt.Errorf("create order: %v (slot release also failed: %w)", err, relErr)
		}
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.recordHistory(order.ID, "", models.StatusPending, customerID, "Order placed by customer")
	s.notifier.Notify(notify.Event{
		Type:    notify.EventOrderCreated,
		OrderID: order.ID,
		ActorID: customerID,
		To:      models.StatusPending,
	})
	return &order, nil
}

// Cancel moves a non-terminal order to CANCELLED and releases its slot.
// Only the owning customer or an admin may cancel. The status write is
// the primary double-cancel guard; the slot release runs exactly once,
// on the attempt that wins the write.
func (s *Service) Cancel(orderID, byUser uint, byRole models.UserRole) error {
	actor, err := cancelActor(byRole)
	if err != nil {
		return err
	}

	for attempt := 0; attempt < cancelAttempts; attempt++ {
		var order models.Order
		if err := s.db.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load order: %w", err)
		}
		if byRole != models.RoleAdmin && order.CustomerID != byUser {
			return ErrForbidden
		}
		if order.Status.Terminal() {
			return ErrAlreadyTerminal
		}
		if err := statemachine.CanTransition(order.Status, models.StatusCancelled, actor); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}

		res := s.db.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, order.Status).
			Updates(map[string]interface{}{
				"status":    models.StatusCancelled,
				"driver_id": nil,
			})
		if res.Error != nil {
			return fmt.Errorf("cancel order: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			// lost a race with another transition; re-read and retry
			continue
		}

		if err := s.slots.Release(order.Date, order.TimeOfDay); err != nil {
			return err
		}
		s.recordHistory(orderID, order.Status, models.StatusCancelled, byUser, "Order cancelled")
		s.notifier.Notify(notify.Event{
			Type:    notify.EventOrderCancelled,
			OrderID: orderID,
			ActorID: byUser,
			From:    order.Status,
			To:      models.StatusCancelled,
		})
		return nil
	}
	return fmt.Errorf("cancel order %d: too much contention", orderID)
}

// Advance moves an order forward along ASSIGNED -> ON_THE_WAY ->
// DELIVERED. Only the assigned driver or an admin may advance;
// cancellation goes through Cancel, not here. The update is a
// compare-and-set on the observed status, so a stale caller gets
// ErrInvalidTransition instead of silently skipping states.
func (s *Service) Advance(orderID uint, to models.OrderStatus, byUser uint, byRole models.UserRole) (*models.Order, error) {
	if to == models.StatusCancelled {
		return nil, fmt.Errorf("%w: cancellation has its own operation", ErrInvalidTransition)
	}

	var actor string
	switch byRole {
	case models.RoleAdmin:
		actor = statemachine.ActorAdmin
	case models.RoleDriver:
		actor = statemachine.ActorDriver
	default:
		return nil, ErrForbidden
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}
	if byRole == models.RoleDriver && (order.DriverID == nil || *order.DriverID != byUser) {
		return nil, ErrForbidden
	}
	if err := statemachine.CanTransition(order.Status, to, actor); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	res := s.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, order.Status).
		Update("status", to)
	if res.Error != nil {
		return nil, fmt.Errorf("advance order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("%w: order moved concurrently", ErrInvalidTransition)
	}

	s.recordHistory(orderID, order.Status, to, byUser, "")
	s.notifier.Notify(notify.Event{
		Type:    notify.EventOrderStatusChanged,
		OrderID: orderID,
		ActorID: byUser,
		From:    order.Status,
		To:      to,
	})

	order.Status = to
	return &order, nil
}

// Get loads one order with its driver and history.
func (s *Service) Get(orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Driver").Preload("StatusHistory").First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load order: %w", err)
	}
	return &order, nil
}

// ByCustomer lists a customer's orders, newest first.
func (s *Service) ByCustomer(customerID uint) ([]models.Order, error) {
	var list []models.Order
	err := s.db.Preload("Driver").
		Where("customer_id = ?", customerID).
		Order("created_at desc").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return list, nil
}

// List returns all orders, optionally filtered by status and customer.
func (s *Service) List(status models.OrderStatus, customerID uint) ([]models.Order, error) {
	query := s.db.Preload("Customer").Preload("Driver")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID != 0 {
		query = query.Where("customer_id = ?", customerID)
	}
	var list []models.Order
	if err := query.Order("created_at desc").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return list, nil
}

func (s *Service) recordHistory(orderID uint, from, to models.OrderStatus, by uint, note string) {
	h := models.OrderStatusHistory{
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
		ChangedBy:  by,
		Note:       note,
	}
	s.db.Create(&h)
}

func cancelActor(role models.UserRole) (string, error) {
	switch role {
	case models.RoleAdmin:
		return statemachine.ActorAdmin, nil
	case models.RoleCustomer:
		return statemachine.ActorCustomer, nil
	default:
		return "", ErrForbidden
	}
}
