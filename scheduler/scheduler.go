// Package scheduler owns the calendar of bookable pickup slots. It
// guarantees at most one active booking per (date, time) unit: Reserve
// is a compare-and-set on the unit's availability bit, so of N
// concurrent callers for the same slot exactly one succeeds.
package scheduler

import (
	"errors"
	"fmt"
	"time"

	"local-butler-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrSlotConflict means the slot is already held by another order.
	ErrSlotConflict = errors.New("slot already booked")
	// ErrInvalidSlot means the requested (date, time) is outside working
	// hours or not aligned to the booking granularity.
	ErrInvalidSlot = errors.New("invalid slot")
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Config bounds the bookable calendar.
type Config struct {
	OpenTime  string        // first bookable time of day, e.g. "07:00"
	CloseTime string        // end of working hours (exclusive), e.g. "22:00"
	Slot      time.Duration // booking granularity, e.g. 15 minutes
}

// DefaultConfig matches the Local Butler working hours.
var DefaultConfig = Config{
	OpenTime:  "07:00",
	CloseTime: "22:00",
	Slot:      15 * time.Minute,
}

type Scheduler struct {
	db  *gorm.DB
	cfg Config
}

func New(db *gorm.DB, cfg Config) *Scheduler {
	if cfg.OpenTime == "" {
		cfg.OpenTime = DefaultConfig.OpenTime
	}
	if cfg.CloseTime == "" {
		cfg.CloseTime = DefaultConfig.CloseTime
	}
	if cfg.Slot <= 0 {
		cfg.Slot = DefaultConfig.Slot
	}
	return &Scheduler{db: db, cfg: cfg}
}

// ValidateSlot checks date/time syntax, working-hours bounds and
// granularity alignment. It never touches the database.
func (s *Scheduler) ValidateSlot(date, timeOfDay string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return fmt.Errorf("%w: bad date %q", ErrInvalidSlot, date)
	}
	tod, err := time.Parse(timeLayout, timeOfDay)
	if err != nil {
		return fmt.Errorf("%w: bad time %q", ErrInvalidSlot, timeOfDay)
	}
	open, err := time.Parse(timeLayout, s.cfg.OpenTime)
	if err != nil {
		return fmt.Errorf("bad open time in config: %w", err)
	}
	closeT, err := time.Parse(timeLayout, s.cfg.CloseTime)
	if err != nil {
		return fmt.Errorf("bad close time in config: %w", err)
	}
	if tod.Before(open) || !tod.Before(closeT) {
		return fmt.Errorf("%w: %s outside working hours %s-%s",
			ErrInvalidSlot, timeOfDay, s.cfg.OpenTime, s.cfg.CloseTime)
	}
	if tod.Sub(open)%s.cfg.Slot != 0 {
		return fmt.Errorf("%w: %s not aligned to %s slots", ErrInvalidSlot, timeOfDay, s.cfg.Slot)
	}
	return nil
}

// Reserve atomically takes the slot. The unit row is materialized
// lazily on the first attempt for that (date, time); the availability
// flip is a guarded update so concurrent callers cannot both win.
func (s *Scheduler) Reserve(date, timeOfDay string) error {
	if err := s.ValidateSlot(date, timeOfDay); err != nil {
		return err
	}

	unit := models.ScheduleUnit{Date: date, TimeOfDay: timeOfDay, Available: true}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&unit).Error; err != nil {
		return fmt.Errorf("materialize slot: %w", err)
	}

	res := s.db.Model(&models.ScheduleUnit{}).
		Where("date = ? AND time_of_day = ? AND available = ?", date, timeOfDay, true).
		Update("available", false)
	if res.Error != nil {
		return fmt.Errorf("reserve slot: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSlotConflict
	}
	return nil
}

// Release marks the slot available again. Releasing a slot that is
// already available (or was never materialized) is a no-op success so
// retried cancellations stay safe.
func (s *Scheduler) Release(date, timeOfDay string) error {
	res := s.db.Model(&models.ScheduleUnit{}).
		Where("date = ? AND time_of_day = ?", date, timeOfDay).
		Update("available", true)
	if res.Error != nil {
		return fmt.Errorf("release slot: %w", res.Error)
	}
	return nil
}

// UnitsForDate lists every materialized unit of a day, booked or not.
// Units are never deleted, so this is also the booking audit trail.
func (s *Scheduler) UnitsForDate(date string) ([]models.ScheduleUnit, error) {
	var units []models.ScheduleUnit
	err := s.db.Where("date = ?", date).Order("time_of_day asc").Find(&units).Error
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	return units, nil
}
