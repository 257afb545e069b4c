package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sakif/daily-diet-api/internal/auth"
	"github.com/sakif/daily-diet-api/internal/service"
)

// MealHandler manages the meal CRUD and aggregate endpoints.
//
// Every route here sits behind auth.RequireSession, so the authenticated
// user is always available from the request context. The handler only ever
// passes that user's ID to the service — ownership scoping starts here.
type MealHandler struct {
	mealService *service.MealService
	logger      *slog.Logger
}

// NewMealHandler creates a MealHandler.
func NewMealHandler(mealService *service.MealService, logger *slog.Logger) *MealHandler {
	return &MealHandler{
		mealService: mealService,
		logger:      logger,
	}
}

type createMealRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	OnDiet      bool   `json:"onDiet"`
	Date        string `json:"date"`
}

// quantityResponse is the body of the three counting endpoints.
type quantityResponse struct {
	Quantity int64 `json:"quantity"`
}

type streakResponse struct {
	Streak int `json:"streak"`
}

// principal pulls the authenticated user out of the context. Behind
// RequireSession this always succeeds; the fallback 401 covers a route
// wired without the middleware.
func (h *MealHandler) principal(w http.ResponseWriter, r *http.Request) (string, bool) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "a valid session is required",
		})
		return "", false
	}
	return user.ID, true
}

// HandleCreate logs a new meal for the authenticated user.
//
// HTTP: POST /meals
// Body: {"name": "...", "description": "...", "onDiet": true, "date": "2024-08-13 10:25:55"}
// Success: 201, no body. A date outside the accepted layouts is a 400.
func (h *MealHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req createMealRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("create meal: invalid JSON body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	if _, err := h.mealService.Create(r.Context(), userID, req.Name, req.Description, req.OnDiet, req.Date); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// HandleList returns all of the user's meals, oldest first.
//
// HTTP: GET /meals
// An empty collection is a 200 with [] — not an error.
func (h *MealHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.principal(w, r)
	if !ok {
		return
	}

	meals, err := h.mealService.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, meals)
}

// HandleGetByID returns a single owned meal.
//
// HTTP: GET /meals/{id}
// A miss (including someone else's meal) is a 404.
func (h *MealHandler) HandleGetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.principal(w, r)
	if !ok {
		return
	}

	meal, err := h.mealService.GetByID(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, meal)
}

// HandleUpdate applies a partial update to an owned meal.
//
// HTTP: PATCH /meals/{id}
// Body: any subset of {"name","description","onDiet","date"} — absent keys
// leave the stored values untouched.
func (h *MealHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.principal(w, r)
	if !ok {
		return
	}

	var patch service.MealPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logger.Warn("update meal: invalid JSON body", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	if _, err := h.mealService.Update(r.Context(), userID, chi.URLParam(r, "id"), patch); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes an owned meal.
//
// HTTP: DELETE /meals/{id}
// Always 204, whether or not the meal existed.
func (h *MealHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.principal(w, r)
	if !ok {
		return
	}

	if err := h.mealService.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleQuantity returns the total meal count.
//
// HTTP: GET /meals/quantity
func (h *MealHandler) HandleQuantity(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.principal(w, r)
	if !ok {
		return
	}

	count, err := h.mealService.CountAll(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quantityResponse{Quantity: count})
}

// HandleQuantityOnDiet returns the on-diet meal count.
//
// HTTP: GET /meals/quantity/diets
func (h *MealHandler) HandleQuantityOnDiet(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.principal(w, r)
	if !ok {
		return
	}

	count, err := h.mealService.CountOnDiet(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quantityResponse{Quantity: count})
}

// HandleQuantityOffDiet returns the off-diet meal count.
//
// HTTP: GET /meals/quantity/free
func (h *MealHandler) HandleQuantityOffDiet(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.principal(w, r)
	if !ok {
		return
	}

	count, err := h.mealService.CountOffDiet(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quantityResponse{Quantity: count})
}

// HandleStreak returns the longest run of consecutive on-diet meals.
//
// HTTP: GET /meals/quantity/diets/streak
func (h *MealHandler) HandleStreak(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.principal(w, r)
	if !ok {
		return
	}

	streak, err := h.mealService.Streak(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, streakResponse{Streak: streak})
}
