package models

import "time"

// ProviderCategory groups providers the way the service menu does
type ProviderCategory string

const (
	CategoryGrocery  ProviderCategory = "grocery"
	CategoryMeal     ProviderCategory = "meal"
	CategoryLaundry  ProviderCategory = "laundry"
	CategoryErrand   ProviderCategory = "errand"
	CategoryPharmacy ProviderCategory = "pharmacy"
	CategoryPetCare  ProviderCategory = "pet_care"
	CategoryCarWash  ProviderCategory = "car_wash"
)

// Provider is a local merchant or service a butler can pick up from.
// Orders reference providers by Ref only; the booking core never joins
// on this table, it exists for the catalog endpoints.
type Provider struct {
	ID           uint             `json:"id" gorm:"primaryKey"`
	Ref          string           `json:"ref" gorm:"uniqueIndex;not null"`
	Name         string           `json:"name" gorm:"not null"`
	Category     ProviderCategory `json:"category" gorm:"not null"`
	Instructions string           `json:"instructions"`
	OrderURL     string           `json:"order_url"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
