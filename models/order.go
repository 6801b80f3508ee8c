package models

import "time"

// OrderStatus represents all possible states of a delivery order
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusAssigned  OrderStatus = "ASSIGNED"
	StatusOnTheWay  OrderStatus = "ON_THE_WAY"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Terminal reports whether no further transition is valid from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

type Order struct {
	ID          uint        `json:"id" gorm:"primaryKey"`
	CustomerID  uint        `json:"customer_id" gorm:"not null;index"`
	Customer    User        `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
	ProviderRef string      `json:"provider_ref" gorm:"not null"`
	DriverID    *uint       `json:"driver_id" gorm:"index"`
	Driver      *User       `json:"driver,omitempty" gorm:"foreignKey:DriverID"`
	Status      OrderStatus `json:"status" gorm:"not null;default:'PENDING';index"`

	// Requested pickup slot. The order owns the reservation on the
	// matching ScheduleUnit for its whole lifetime; date and time are
	// kept on the order so Cancel can release without a join.
	Date      string `json:"date" gorm:"not null"`
	TimeOfDay string `json:"time_of_day" gorm:"not null"`

	Notes         string               `json:"notes"`
	StatusHistory []OrderStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// OrderStatusHistory tracks every status change — audit trail
type OrderStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	OrderID    uint        `json:"order_id" gorm:"not null;index"`
	FromStatus OrderStatus `json:"from_status"`
	ToStatus   OrderStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
