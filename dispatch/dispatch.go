// Package dispatch gives drivers first-claim semantics over pending
// orders. Claim is the synchronization point: a single guarded update
// flips PENDING to ASSIGNED and stamps the driver in the same
// statement, so of N racing drivers exactly one wins.
//
// A driver may hold any number of ASSIGNED/ON_THE_WAY orders at once;
// callers that want a cap can count ListByDriver before claiming.
package dispatch

import (
	"errors"
	"fmt"

	"local-butler-api/models"
	"local-butler-api/notify"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrAlreadyClaimed means another driver won the claim, or the order
	// has left PENDING some other way.
	ErrAlreadyClaimed = errors.New("order already claimed")
)

type Service struct {
	db       *gorm.DB
	notifier notify.Notifier
}

func NewService(db *gorm.DB, notifier notify.Notifier) *Service {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Service{db: db, notifier: notifier}
}

// ListPending returns unclaimed orders, oldest first. The read is not
// locked against concurrent claims; a listed order can be gone by the
// time a driver tries to claim it, and Claim reports that.
func (s *Service) ListPending() ([]models.Order, error) {
	var list []models.Order
	err := s.db.Preload("Customer").
		Where("status = ? AND driver_id IS NULL", models.StatusPending).
		Order("created_at asc, id asc").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list pending: %w", err)
	}
	return list, nil
}

// Claim assigns the order to the driver. Succeeds only if the order is
// still exactly PENDING with no driver; the losing callers get
// ErrAlreadyClaimed.
func (s *Service) Claim(orderID, driverID uint) (*models.Order, error) {
	res := s.db.Model(&models.Order{}).
		Where("id = ? AND status = ? AND driver_id IS NULL", orderID, models.StatusPending).
		Updates(map[string]interface{}{
			"status":    models.StatusAssigned,
			"driver_id": driverID,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("claim order: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var order models.Order
		if err := s.db.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("load order: %w", err)
		}
		return nil, ErrAlreadyClaimed
	}

	history := models.OrderStatusHistory{
		OrderID:    orderID,
		FromStatus: models.StatusPending,
		ToStatus:   models.StatusAssigned,
		ChangedBy:  driverID,
		Note:       "Driver claimed the order",
	}
	s.db.Create(&history)

	s.notifier.Notify(notify.Event{
		Type:    notify.EventOrderAssigned,
		OrderID: orderID,
		ActorID: driverID,
		From:    models.StatusPending,
		To:      models.StatusAssigned,
	})

	var order models.Order
	if err := s.db.Preload("Customer").First(&order, orderID).Error; err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	return &order, nil
}

// ListByDriver returns the driver's orders, most recently touched first.
func (s *Service) ListByDriver(driverID uint) ([]models.Order, error) {
	var list []models.Order
	err := s.db.Preload("Customer").
		Where("driver_id = ?", driverID).
		Order("updated_at desc").
		Find(&list).Error
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return list, nil
}
