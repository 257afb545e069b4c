package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/daily-diet-api/internal/apperror"
	"github.com/sakif/daily-diet-api/internal/model"
)

// createTestMeal creates a meal for the given owner and fails the test if
// it errors.
func createTestMeal(t *testing.T, db *DB, userID, name, date string, onDiet bool) *model.Meal {
	t.Helper()
	meal := &model.Meal{
		Name:        name,
		Description: "test meal",
		OnDiet:      onDiet,
		Date:        date,
		UserID:      userID,
	}
	if err := db.Create(context.Background(), meal); err != nil {
		t.Fatalf("failed to create test meal: %v", err)
	}
	return meal
}

func TestMealCreateAndGetByID(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "owner", "owner@mail.com")

	meal := createTestMeal(t, db, user.ID, "Banana", "2024-08-13 10:25:55", true)
	if meal.ID == "" {
		t.Fatal("Create() did not set meal.ID")
	}

	found, err := db.GetByID(context.Background(), user.ID, meal.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}

	// Round-trip: the stored fields come back exactly as written.
	if found.Name != "Banana" {
		t.Errorf("Name = %q, want %q", found.Name, "Banana")
	}
	if found.Description != "test meal" {
		t.Errorf("Description = %q, want %q", found.Description, "test meal")
	}
	if !found.OnDiet {
		t.Error("OnDiet = false, want true")
	}
	if found.Date != "2024-08-13 10:25:55" {
		t.Errorf("Date = %q, want %q", found.Date, "2024-08-13 10:25:55")
	}
	if found.UserID != user.ID {
		t.Errorf("UserID = %q, want %q", found.UserID, user.ID)
	}
}

func TestMealGetByID_OtherUsersMealIsNotFound(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice", "alice@mail.com")
	bob := createTestUser(t, db, "bob", "bob@mail.com")

	meal := createTestMeal(t, db, alice.ID, "Alice's salad", "2024-01-01 12:00:00", true)

	_, err := db.GetByID(context.Background(), bob.ID, meal.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() with wrong owner = %v, want ErrNotFound", err)
	}
}

func TestMealListByUser_OrderedByDate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "lister", "lister@mail.com")

	// Inserted out of order on purpose.
	createTestMeal(t, db, user.ID, "second", "2024-02-01 08:00:00", true)
	createTestMeal(t, db, user.ID, "third", "2024-03-01 08:00:00", false)
	createTestMeal(t, db, user.ID, "first", "2024-01-01 08:00:00", true)

	meals, err := db.ListByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}

	if len(meals) != 3 {
		t.Fatalf("len(meals) = %d, want 3", len(meals))
	}
	for i, want := range []string{"first", "second", "third"} {
		if meals[i].Name != want {
			t.Errorf("meals[%d].Name = %q, want %q", i, meals[i].Name, want)
		}
	}
}

func TestMealListByUser_Empty(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "empty", "empty@mail.com")

	meals, err := db.ListByUser(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if meals == nil {
		t.Fatal("ListByUser() should return an empty slice, not nil")
	}
	if len(meals) != 0 {
		t.Errorf("len(meals) = %d, want 0", len(meals))
	}
}

func TestMealListByUser_DoesNotLeakOtherUsers(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice2", "alice2@mail.com")
	bob := createTestUser(t, db, "bob2", "bob2@mail.com")

	createTestMeal(t, db, alice.ID, "alice meal", "2024-01-01 09:00:00", true)
	createTestMeal(t, db, bob.ID, "bob meal", "2024-01-01 10:00:00", true)

	meals, err := db.ListByUser(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(meals) != 1 || meals[0].Name != "alice meal" {
		t.Errorf("ListByUser() = %+v, want only alice's meal", meals)
	}
}

func TestMealUpdate(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "updater", "updater@mail.com")
	meal := createTestMeal(t, db, user.ID, "before", "2024-01-01 12:00:00", true)

	meal.Name = "after"
	meal.OnDiet = false
	if err := db.Update(context.Background(), meal); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, err := db.GetByID(context.Background(), user.ID, meal.ID)
	if err != nil {
		t.Fatalf("GetByID() after update: %v", err)
	}
	if found.Name != "after" {
		t.Errorf("Name = %q, want %q", found.Name, "after")
	}
	if found.OnDiet {
		t.Error("OnDiet = true, want false")
	}
}

func TestMealUpdate_WrongOwnerIsNotFound(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice3", "alice3@mail.com")
	bob := createTestUser(t, db, "bob3", "bob3@mail.com")

	meal := createTestMeal(t, db, alice.ID, "protected", "2024-01-01 12:00:00", true)

	hijacked := *meal
	hijacked.UserID = bob.ID
	hijacked.Name = "stolen"

	err := db.Update(context.Background(), &hijacked)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("Update() with wrong owner = %v, want ErrNotFound", err)
	}

	// Alice's meal is untouched.
	found, err := db.GetByID(context.Background(), alice.ID, meal.ID)
	if err != nil {
		t.Fatalf("GetByID(): %v", err)
	}
	if found.Name != "protected" {
		t.Errorf("Name = %q, want %q", found.Name, "protected")
	}
}

func TestMealDelete(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "deleter", "deleter@mail.com")
	meal := createTestMeal(t, db, user.ID, "doomed", "2024-01-01 12:00:00", true)

	if err := db.Delete(context.Background(), user.ID, meal.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	_, err := db.GetByID(context.Background(), user.ID, meal.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() after delete = %v, want ErrNotFound", err)
	}
}

func TestMealDelete_NonexistentIsNoError(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "idem", "idem@mail.com")

	if err := db.Delete(context.Background(), user.ID, "never-existed"); err != nil {
		t.Errorf("Delete() of a nonexistent meal = %v, want nil (idempotent)", err)
	}
}

func TestMealDelete_WrongOwnerLeavesMeal(t *testing.T) {
	db := newTestDB(t)
	alice := createTestUser(t, db, "alice4", "alice4@mail.com")
	bob := createTestUser(t, db, "bob4", "bob4@mail.com")

	meal := createTestMeal(t, db, alice.ID, "survivor", "2024-01-01 12:00:00", true)

	if err := db.Delete(context.Background(), bob.ID, meal.ID); err != nil {
		t.Fatalf("Delete() with wrong owner = %v, want nil", err)
	}

	if _, err := db.GetByID(context.Background(), alice.ID, meal.ID); err != nil {
		t.Errorf("alice's meal should survive bob's delete, got %v", err)
	}
}

func TestMealCount(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "counter", "counter@mail.com")

	createTestMeal(t, db, user.ID, "m1", "2024-01-01 08:00:00", true)
	createTestMeal(t, db, user.ID, "m2", "2024-01-02 08:00:00", true)
	createTestMeal(t, db, user.ID, "m3", "2024-01-03 08:00:00", false)

	total, err := db.Count(context.Background(), user.ID, nil)
	if err != nil {
		t.Fatalf("Count(nil) error = %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}

	onDiet := true
	diets, err := db.Count(context.Background(), user.ID, &onDiet)
	if err != nil {
		t.Fatalf("Count(true) error = %v", err)
	}
	if diets != 2 {
		t.Errorf("on-diet = %d, want 2", diets)
	}

	offDiet := false
	free, err := db.Count(context.Background(), user.ID, &offDiet)
	if err != nil {
		t.Fatalf("Count(false) error = %v", err)
	}
	if free != 1 {
		t.Errorf("off-diet = %d, want 1", free)
	}
}
