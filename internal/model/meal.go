// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other
// languages, but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Meal represents a single logged meal, owned by exactly one user.
//
// OnDiet flags whether the meal complies with the user's diet — it drives
// the quantity breakdowns and the streak computation.
//
// Date is the moment the meal was eaten, stored as a normalized
// "YYYY-MM-DD HH:MM:SS" string. Keeping it as a string (rather than
// time.Time) preserves exactly what the client logged, and the normalized
// form sorts lexicographically in chronological order — the streak scan
// depends on that.
type Meal struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OnDiet      bool      `json:"onDiet"`
	Date        string    `json:"date"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
