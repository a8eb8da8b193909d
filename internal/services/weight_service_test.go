package services

import (
	"math"
	"testing"
	"time"

	"nurture/internal/testutil"
)

func TestWeightEntries(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewWeightService(db)
	user := testutil.CreateTestUser(t, db)
	pregnancy := testutil.CreateTestPregnancy(t, db, user.ID)

	_, err := svc.GetLatestWeight(user.ID, pregnancy.ID)
	testutil.AssertAppError(t, err, "WEIGHT_ENTRY_NOT_FOUND")

	base := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	_, err = svc.CreateWeightEntry(user.ID, pregnancy.ID, WeightInput{Weight: 64.2, Date: base.AddDate(0, 0, 14)})
	testutil.AssertNoError(t, err)
	_, err = svc.CreateWeightEntry(user.ID, pregnancy.ID, WeightInput{Weight: 62.5, Date: base})
	testutil.AssertNoError(t, err)

	latest, err := svc.GetLatestWeight(user.ID, pregnancy.ID)
	testutil.AssertNoError(t, err)
	if latest.Weight != 64.2 {
		t.Errorf("expected latest by date to be 64.2, got %v", latest.Weight)
	}

	entries, err := svc.GetWeightEntries(user.ID, pregnancy.ID, DateRange{})
	testutil.AssertNoError(t, err)
	if len(entries) != 2 || entries[0].Weight != 64.2 {
		t.Errorf("expected entries newest first, got %+v", entries)
	}
}

func TestCreateWeightEntryValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewWeightService(db)
	user := testutil.CreateTestUser(t, db)
	pregnancy := testutil.CreateTestPregnancy(t, db, user.ID)

	for _, w := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := svc.CreateWeightEntry(user.ID, pregnancy.ID, WeightInput{Weight: w})
		testutil.AssertFieldError(t, err, "weight")
	}

	entry, err := svc.CreateWeightEntry(user.ID, pregnancy.ID, WeightInput{Weight: 63.456})
	testutil.AssertNoError(t, err)
	if entry.Weight != 63.46 {
		t.Errorf("expected weight rounded to 63.46, got %v", entry.Weight)
	}
}

func TestUpdateWeightEntry(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewWeightService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	pregnancy := testutil.CreateTestPregnancy(t, db, user.ID)

	notes := "after breakfast"
	entry, err := svc.CreateWeightEntry(user.ID, pregnancy.ID, WeightInput{Weight: 60, Notes: &notes})
	testutil.AssertNoError(t, err)

	weight := 60.8
	updated, err := svc.UpdateWeightEntry(user.ID, entry.ID, WeightUpdate{Weight: &weight, Notes: SetTo[string](nil)})
	testutil.AssertNoError(t, err)
	if updated.Weight != 60.8 || updated.Notes != nil {
		t.Errorf("expected weight 60.8 and cleared notes, got %v %v", updated.Weight, updated.Notes)
	}

	negative := -1.0
	_, err = svc.UpdateWeightEntry(user.ID, entry.ID, WeightUpdate{Weight: &negative})
	testutil.AssertFieldError(t, err, "weight")

	_, err = svc.UpdateWeightEntry(other.ID, entry.ID, WeightUpdate{Weight: &weight})
	testutil.AssertAppError(t, err, "WEIGHT_ENTRY_NOT_FOUND")

	testutil.AssertNoError(t, svc.DeleteWeightEntry(user.ID, entry.ID))
}
