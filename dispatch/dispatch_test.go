package dispatch

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"

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

func seedOrder(t *testing.T, db *gorm.DB, status models.OrderStatus) *models.Order {
	t.Helper()
	customer := models.User{Name: "cust", Email: "cust@example.com", PasswordHash: "x", Role: models.RoleCustomer}
	if err := db.Where("email = ?", customer.Email).FirstOrCreate(&customer).Error; err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	order := models.Order{
		CustomerID:  customer.ID,
		ProviderRef: "weis-markets",
		Status:      status,
		Date:        "2024-07-01",
		TimeOfDay:   "14:00",
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return &order
}

func seedDriver(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	d := models.User{Name: "driver", Email: email, PasswordHash: "x", Role: models.RoleDriver}
	if err := db.Create(&d).Error; err != nil {
		t.Fatalf("seed driver: %v", err)
	}
	return &d
}

func TestClaimHappyPath(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	order := seedOrder(t, db, models.StatusPending)
	driver := seedDriver(t, db, "d1@example.com")

	got, err := svc.Claim(order.ID, driver.ID)
	if err != nil {
		t.Fatalf("claim: %v", err)
	}
	if got.Status != models.StatusAssigned {
		t.Errorf("status = %s, want ASSIGNED", got.Status)
	}
	if got.DriverID == nil || *got.DriverID != driver.ID {
		t.Error("driver id not stamped on the order")
	}
}

func TestClaimTwice(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	order := seedOrder(t, db, models.StatusPending)
	a := seedDriver(t, db, "a@example.com")
	b := seedDriver(t, db, "b@example.com")

	if _, err := svc.Claim(order.ID, a.ID); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if _, err := svc.Claim(order.ID, b.ID); !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("second claim = %v, want ErrAlreadyClaimed", err)
	}

	var got models.Order
	db.First(&got, order.ID)
	if got.DriverID == nil || *got.DriverID != a.ID {
		t.Error("loser must not overwrite the winner's claim")
	}
}

func TestClaimNotFound(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	driver := seedDriver(t, db, "d@example.com")

	if _, err := svc.Claim(9999, driver.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("claim unknown = %v, want ErrNotFound", err)
	}
}

func TestClaimNonPending(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	order := seedOrder(t, db, models.StatusCancelled)
	driver := seedDriver(t, db, "d@example.com")

	if _, err := svc.Claim(order.ID, driver.ID); !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("claim cancelled order = %v, want ErrAlreadyClaimed", err)
	}
}

func TestConcurrentClaimSingleWinner(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	order := seedOrder(t, db, models.StatusPending)

	const drivers = 12
	ids := make([]uint, drivers)
	for i := 0; i < drivers; i++ {
		d := seedDriver(t, db, "race"+string(rune('a'+i))+"@example.com")
		ids[i] = d.ID
	}

	var wg sync.WaitGroup
	type result struct {
		driver uint
		err    error
	}
	results := make(chan result, drivers)
	for _, id := range ids {
		wg.Add(1)
		go func(driverID uint) {
			defer wg.Done()
			_, err := svc.Claim(order.ID, driverID)
			results <- result{driverID, err}
		}(id)
	}
	wg.Wait()
	close(results)

	var winner uint
	var ok, lost int
	for r := range results {
		switch {
		case r.err == nil:
			ok++
			winner = r.driver
		case errors.Is(r.err, ErrAlreadyClaimed):
			lost++
		default:
			t.Errorf("unexpected error: %v", r.err)
		}
	}
	if ok != 1 || lost != drivers-1 {
		t.Fatalf("got %d winners / %d losers, want 1 / %d", ok, lost, drivers-1)
	}

	var got models.Order
	db.First(&got, order.ID)
	if got.DriverID == nil || *got.DriverID != winner {
		t.Errorf("order driver = %v, want winner %d", got.DriverID, winner)
	}

	pending, err := svc.ListPending()
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	for _, o := range pending {
		if o.ID == order.ID {
			t.Error("claimed order still listed as pending")
		}
	}
}

func TestListPendingOrderedOldestFirst(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)

	first := seedOrder(t, db, models.StatusPending)
	second := seedOrder(t, db, models.StatusPending)
	seedOrder(t, db, models.StatusDelivered)

	pending, err := svc.ListPending()
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending count = %d, want 2", len(pending))
	}
	if pending[0].ID != first.ID || pending[1].ID != second.ID {
		t.Error("pending orders not oldest first")
	}
}

func TestListByDriver(t *testing.T) {
	db := testDB(t)
	svc := NewService(db, nil)
	driver := seedDriver(t, db, "mine@example.com")

	o1 := seedOrder(t, db, models.StatusPending)
	o2 := seedOrder(t, db, models.StatusPending)
	seedOrder(t, db, models.StatusPending) // unclaimed

	if _, err := svc.Claim(o1.ID, driver.ID); err != nil {
		t.Fatalf("claim o1: %v", err)
	}
	if _, err := svc.Claim(o2.ID, driver.ID); err != nil {
		t.Fatalf("claim o2: %v", err)
	}

	mine, err := svc.ListByDriver(driver.ID)
	if err != nil {
		t.Fatalf("list by driver: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("deliveries = %d, want 2 (drivers may hold several active orders)", len(mine))
	}
}
