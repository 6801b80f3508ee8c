// Package notify carries order lifecycle events to external senders.
// Email, SMS and chat delivery live outside this service; the core only
// emits events and the default sender writes them to the log.
package notify

import (
	"log"

	"local-butler-api/models"
)

type EventType string

const (
	EventOrderCreated       EventType = "OrderCreated"
	EventOrderAssigned      EventType = "OrderAssigned"
	EventOrderStatusChanged EventType = "OrderStatusChanged"
	EventOrderCancelled     EventType = "OrderCancelled"
)

// Event describes one successful lifecycle transition.
type Event struct {
	Type    EventType
	OrderID uint
	ActorID uint
	From    models.OrderStatus
	To      models.OrderStatus
	Note    string
}

type Notifier interface {
	Notify(Event)
}

// LogNotifier is the default sender: one log line per event.
type LogNotifier struct{}

func (LogNotifier) Notify(e Event) {
	if e.From == "" {
		log.Printf("event %s: order=%d actor=%d status=%s", e.Type, e.OrderID, e.ActorID, e.To)
		return
	}
	log.Printf("event %s: order=%d actor=%d %s -> %s", e.Type, e.OrderID, e.ActorID, e.From, e.To)
}

// Nop discards events.
type Nop struct{}

func (Nop) Notify(Event) {}
