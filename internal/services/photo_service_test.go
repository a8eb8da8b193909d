package services

import (
	"testing"
	"time"

	"nurture/internal/testutil"
)

func TestPhotoAlbum(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewPhotoService(db)
	user := testutil.CreateTestUser(t, db)
	pregnancy := testutil.CreateTestPregnancy(t, db, user.ID)

	week := 12
	older, err := svc.CreatePhoto(user.ID, pregnancy.ID, PhotoInput{
		ObjectPath: "uploads/u/2025/01/scan.jpg", Week: &week, Date: time.Now().AddDate(0, 0, -30),
	})
	testutil.AssertNoError(t, err)
	newer, err := svc.CreatePhoto(user.ID, pregnancy.ID, PhotoInput{
		ObjectPath: "uploads/u/2025/02/bump.jpg", IsFavorite: true,
	})
	testutil.AssertNoError(t, err)

	all, err := svc.GetPhotos(user.ID, pregnancy.ID, false)
	testutil.AssertNoError(t, err)
	if len(all) != 2 || all[0].ID != newer.ID {
		t.Fatalf("expected newest photo first, got %+v", all)
	}

	favorites, err := svc.GetPhotos(user.ID, pregnancy.ID, true)
	testutil.AssertNoError(t, err)
	if len(favorites) != 1 || favorites[0].ID != newer.ID {
		t.Errorf("expected only the favorite, got %+v", favorites)
	}

	caption := "First scan"
	fav := true
	updated, err := svc.UpdatePhoto(user.ID, older.ID, PhotoUpdate{Caption: SetTo(&caption), IsFavorite: &fav, Week: SetTo[int](nil)})
	testutil.AssertNoError(t, err)
	if updated.Caption == nil || *updated.Caption != caption || !updated.IsFavorite || updated.Week != nil {
		t.Errorf("unexpected photo after update: %+v", updated)
	}
}

func TestPhotoValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewPhotoService(db)
	user := testutil.CreateTestUser(t, db)
	pregnancy := testutil.CreateTestPregnancy(t, db, user.ID)

	week := 43
	_, err := svc.CreatePhoto(user.ID, pregnancy.ID, PhotoInput{Week: &week})
	testutil.AssertFieldError(t, err, "object_path")
	testutil.AssertFieldError(t, err, "week")

	photo, _ := svc.CreatePhoto(user.ID, pregnancy.ID, PhotoInput{ObjectPath: "uploads/a.jpg"})
	zero := 0
	_, err = svc.UpdatePhoto(user.ID, photo.ID, PhotoUpdate{Week: SetTo(&zero)})
	testutil.AssertFieldError(t, err, "week")
}

func TestDeletePhotoOwnership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewPhotoService(db)
	user := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	pregnancy := testutil.CreateTestPregnancy(t, db, user.ID)
	photo, _ := svc.CreatePhoto(user.ID, pregnancy.ID, PhotoInput{ObjectPath: "uploads/a.jpg"})

	testutil.AssertAppError(t, svc.DeletePhoto(other.ID, photo.ID), "PHOTO_NOT_FOUND")
	testutil.AssertNoError(t, svc.DeletePhoto(user.ID, photo.ID))
	testutil.AssertAppError(t, svc.DeletePhoto(user.ID, photo.ID), "PHOTO_NOT_FOUND")
}
