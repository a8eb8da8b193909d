package services

import (
	"testing"
	"time"

	"nurture/internal/testutil"
)

func TestCreateMedication(t *testing.T) {
	t.Run("defaults_to_active", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewMedicationService(db)
		user := testutil.CreateTestUser(t, db)
		pregnancy := testutil.CreateTestPregnancy(t, db, user.ID)

		med, err := svc.CreateMedication(user.ID, pregnancy.ID, MedicationInput{
			Name: "Folic acid", Dosage: "400mcg", Frequency: "daily", StartDate: time.Now(),
		})
		testutil.AssertNoError(t, err)
		if !med.IsActive {
			t.Error("expected medication to default to active")
		}
	})

	t.Run("end_before_start", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewMedicationService(db)
		user := testutil.CreateTestUser(t, db)
		pregnancy := testutil.CreateTestPregnancy(t, db, user.ID)

		start := time.Now()
		end := start.AddDate(0, 0, -1)
		_, err := svc.CreateMedication(user.ID, pregnancy.ID, MedicationInput{
			Name: "Iron", Dosage: "65mg", Frequency: "daily", StartDate: start, EndDate: &end,
		})
		testutil.AssertFieldError(t, err, "end_date")
	})

	t.Run("missing_fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := NewMedicationService(db)
		user := testutil.CreateTestUser(t, db)
		pregnancy := testutil.CreateTestPregnancy(t, db, user.ID)

		_, err := svc.CreateMedication(user.ID, pregnancy.ID, MedicationInput{Name: "Iron"})
		for _, field := range []string{"dosage", "frequency", "start_date"} {
			testutil.AssertFieldError(t, err, field)
		}
	})
}

func TestGetMedicationsActiveOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewMedicationService(db)
	user := testutil.CreateTestUser(t, db)
	pregnancy := testutil.CreateTestPregnancy(t, db, user.ID)

	inactive := false
	_, err := svc.CreateMedication(user.ID, pregnancy.ID, MedicationInput{Name: "Vitamin D", Dosage: "10mcg", Frequency: "daily", StartDate: time.Now()})
	testutil.AssertNoError(t, err)
	_, err = svc.CreateMedication(user.ID, pregnancy.ID, MedicationInput{Name: "Antacid", Dosage: "1 tab", Frequency: "as needed", StartDate: time.Now(), IsActive: &inactive})
	testutil.AssertNoError(t, err)

	all, err := svc.GetMedications(user.ID, pregnancy.ID, false)
	testutil.AssertNoError(t, err)
	active, err := svc.GetMedications(user.ID, pregnancy.ID, true)
	testutil.AssertNoError(t, err)

	if len(all) != 2 || len(active) != 1 || active[0].Name != "Vitamin D" {
		t.Errorf("expected 2 total and 1 active, got %d and %+v", len(all), active)
	}
}

func TestUpdateMedication(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewMedicationService(db)
	user := testutil.CreateTestUser(t, db)
	pregnancy := testutil.CreateTestPregnancy(t, db, user.ID)
	med, _ := svc.CreateMedication(user.ID, pregnancy.ID, MedicationInput{Name: "Iron", Dosage: "65mg", Frequency: "daily", StartDate: time.Now()})

	dosage := "100mg"
	inactive := false
	end := time.Now().AddDate(0, 1, 0)
	updated, err := svc.UpdateMedication(user.ID, med.ID, MedicationUpdate{Dosage: &dosage, IsActive: &inactive, EndDate: SetTo(&end)})
	testutil.AssertNoError(t, err)
	if updated.Dosage != "100mg" || updated.IsActive || updated.EndDate == nil {
		t.Errorf("unexpected medication after update: %+v", updated)
	}
	if updated.Name != "Iron" {
		t.Errorf("name should be untouched, got %q", updated.Name)
	}

	blank := " "
	_, err = svc.UpdateMedication(user.ID, med.ID, MedicationUpdate{Name: &blank})
	testutil.AssertFieldError(t, err, "name")

	testutil.AssertNoError(t, svc.DeleteMedication(user.ID, med.ID))
	_, err = svc.UpdateMedication(user.ID, med.ID, MedicationUpdate{Dosage: &dosage})
	testutil.AssertAppError(t, err, "MEDICATION_NOT_FOUND")
}
