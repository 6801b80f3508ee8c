package models

import "time"

// ScheduleUnit is the smallest bookable (date, time) cell. Rows are
// created lazily on the first booking attempt for that cell and are
// never deleted, so the table doubles as a booking audit trail.
// Available flips to false exactly while one non-cancelled order holds
// the cell.
type ScheduleUnit struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Date      string    `json:"date" gorm:"not null;uniqueIndex:idx_schedule_slot"`
	TimeOfDay string    `json:"time_of_day" gorm:"not null;uniqueIndex:idx_schedule_slot"`
	Available bool      `json:"available" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
