package scheduler

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"local-butler-api/config"
	"local-butler-api/models"

	"gorm.io/gorm"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	return db
}

func TestValidateSlot(t *testing.T) {
	s := New(testDB(t), DefaultConfig)

	cases := []struct {
		date, tod string
		wantErr   bool
	}{
		{"2024-07-01", "14:00", false},
		{"2024-07-01", "07:00", false},
		{"2024-07-01", "21:45", false},
		{"2024-07-01", "22:00", true},  // close is exclusive
		{"2024-07-01", "06:45", true},  // before open
		{"2024-07-01", "14:07", true},  // off-grid
		{"2024-13-40", "14:00", true},  // bad date
		{"2024-07-01", "2 pm", true},   // bad time
	}
	for _, c := range cases {
		err := s.ValidateSlot(c.date, c.tod)
		if c.wantErr && !errors.Is(err, ErrInvalidSlot) {
			t.Errorf("ValidateSlot(%s %s) = %v, want ErrInvalidSlot", c.date, c.tod, err)
		}
		if !c.wantErr && err != nil {
			t.Errorf("ValidateSlot(%s %s) = %v, want nil", c.date, c.tod, err)
		}
	}
}

func TestInvalidSlotTouchesNoState(t *testing.T) {
	db := testDB(t)
	s := New(db, DefaultConfig)

	if err := s.Reserve("2024-07-01", "23:30"); !errors.Is(err, ErrInvalidSlot) {
		t.Fatalf("Reserve out of hours = %v, want ErrInvalidSlot", err)
	}
	var count int64
	db.Model(&models.ScheduleUnit{}).Count(&count)
	if count != 0 {
		t.Errorf("invalid reserve materialized %d units", count)
	}
}

func TestReserveReleaseCycle(t *testing.T) {
	s := New(testDB(t), DefaultConfig)

	if err := s.Reserve("2024-07-01", "14:00"); err != nil {
		t.Fatalf("first reserve: %v", err)
	}
	if err := s.Reserve("2024-07-01", "14:00"); !errors.Is(err, ErrSlotConflict) {
		t.Fatalf("second reserve = %v, want ErrSlotConflict", err)
	}
	// a different slot is independent
	if err := s.Reserve("2024-07-01", "14:15"); err != nil {
		t.Fatalf("reserve other slot: %v", err)
	}
	if err := s.Release("2024-07-01", "14:00"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if err := s.Reserve("2024-07-01", "14:00"); err != nil {
		t.Fatalf("reserve after release: %v", err)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	db := testDB(t)
	s := New(db, DefaultConfig)

	if err := s.Reserve("2024-07-02", "09:00"); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := s.Release("2024-07-02", "09:00"); err != nil {
			t.Fatalf("release #%d: %v", i+1, err)
		}
	}
	// releasing a never-materialized slot is also fine
	if err := s.Release("2024-07-02", "09:15"); err != nil {
		t.Fatalf("release unmaterialized: %v", err)
	}

	var unit models.ScheduleUnit
	db.Where("date = ? AND time_of_day = ?", "2024-07-02", "09:00").First(&unit)
	if !unit.Available {
		t.Error("unit should be available after release")
	}
}

func TestConcurrentReserveSingleWinner(t *testing.T) {
	s := New(testDB(t), DefaultConfig)

	const callers = 16
	var wg sync.WaitGroup
	results := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- s.Reserve("2024-07-03", "10:30")
		}()
	}
	wg.Wait()
	close(results)

	var ok, conflict int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrSlotConflict):
			conflict++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if ok != 1 || conflict != callers-1 {
		t.Errorf("got %d Ok / %d Conflict, want 1 / %d", ok, conflict, callers-1)
	}
}

func TestUnitsForDateRetainsHistory(t *testing.T) {
	s := New(testDB(t), DefaultConfig)

	if err := s.Reserve("2024-07-04", "11:00"); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	if err := s.Release("2024-07-04", "11:00"); err != nil {
		t.Fatalf("release: %v", err)
	}
	units, err := s.UnitsForDate("2024-07-04")
	if err != nil {
		t.Fatalf("units: %v", err)
	}
	if len(units) != 1 {
		t.Fatalf("got %d units, want 1 (released units are kept)", len(units))
	}
	if !units[0].Available {
		t.Error("released unit should read available")
	}
}

func TestConfigDefaults(t *testing.T) {
	s := New(testDB(t), Config{})
	if s.cfg.Slot != 15*time.Minute {
		t.Errorf("default slot = %v, want 15m", s.cfg.Slot)
	}
	if err := s.ValidateSlot("2024-07-01", "07:00"); err != nil {
		t.Errorf("default open time should admit 07:00: %v", err)
	}
}
