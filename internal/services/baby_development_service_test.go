package services

import (
	"testing"

	"nurture/internal/models"
	"nurture/internal/testutil"
)

func TestBabyDevelopmentGetByWeek(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewBabyDevelopmentService(db)

	dev, err := svc.GetByWeek(20)
	testutil.AssertNoError(t, err)
	if dev.Week != 20 || dev.Comparison == "" || dev.BabyDevelopment == "" {
		t.Errorf("unexpected week 20 data: %+v", dev)
	}

	_, err = svc.GetByWeek(3)
	testutil.AssertAppError(t, err, "BABY_DEVELOPMENT_NOT_FOUND")

	_, err = svc.GetByWeek(43)
	testutil.AssertFieldError(t, err, "week")
	_, err = svc.GetByWeek(0)
	testutil.AssertFieldError(t, err, "week")
}

func TestBabyDevelopmentSeedsOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewBabyDevelopmentService(db)

	all, err := svc.GetAll()
	testutil.AssertNoError(t, err)
	if len(all) == 0 {
		t.Fatal("expected seeded reference data")
	}
	for i := 1; i < len(all); i++ {
		if all[i].Week <= all[i-1].Week {
			t.Fatalf("expected ascending weeks, got %d after %d", all[i].Week, all[i-1].Week)
		}
	}

	// A second service over the same database must not duplicate rows.
	again, err := NewBabyDevelopmentService(db).GetAll()
	testutil.AssertNoError(t, err)
	var count int64
	db.Model(&models.BabyDevelopment{}).Count(&count)
	if len(again) != len(all) || int(count) != len(all) {
		t.Errorf("expected %d rows after reseeding, got %d", len(all), count)
	}
}
