package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/akihiro4321/favefit-sub001/entity"
	"github.com/akihiro4321/favefit-sub001/service"
	"github.com/akihiro4321/favefit-sub001/shopping"

	"github.com/go-chi/chi/v5"
)

type PlanHandler interface {
	CreatePlan(w http.ResponseWriter, r *http.Request)
	GetPlan(w http.ResponseWriter, r *http.Request)
	GetLatestPlan(w http.ResponseWriter, r *http.Request)
	GetShoppingList(w http.ResponseWriter, r *http.Request)
	UpdateShoppingItem(w http.ResponseWriter, r *http.Request)
	CookMeal(w http.ResponseWriter, r *http.Request)
	SwapMeal(w http.ResponseWriter, r *http.Request)
}

type planHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) PlanHandler {
	return &planHandler{
		planService: planService,
	}
}

// CreatePlan generates and stores a new 14-day plan. The body is optional.
func (h *planHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var opts service.CreatePlanOptions
	if r.ContentLength > 0 {
		if err := decodeBody(r, &opts); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	plan, err := h.planService.CreatePlan(r.Context(), userID, opts)
	if err != nil {
		writeError(w, r, "create plan", err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

func (h *planHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	plan, err := h.planService.GetPlan(r.Context(), userID, chi.URLParam(r, "plan_id"))
	if err != nil {
		writeError(w, r, "get plan", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *planHandler) GetLatestPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	plan, err := h.planService.LatestPlan(r.Context(), userID)
	if err != nil {
		writeError(w, r, "get latest plan", err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// GetShoppingList returns the flat list, or the category view with ?view=grouped
func (h *planHandler) GetShoppingList(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	plan, err := h.planService.GetPlan(r.Context(), userID, chi.URLParam(r, "plan_id"))
	if err != nil {
		writeError(w, r, "get shopping list", err)
		return
	}

	if r.URL.Query().Get("view") == "grouped" {
		writeJSON(w, http.StatusOK, map[string]any{"groups": shopping.GroupByCategory(plan.ShoppingList)})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": plan.ShoppingList})
}

type checkRequest struct {
	Checked *bool `json:"checked"`
}

func (h *planHandler) UpdateShoppingItem(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid item index")
		return
	}
	var req checkRequest
	if err := decodeBody(r, &req); err != nil || req.Checked == nil {
		writeMessage(w, http.StatusBadRequest, "Request body must contain checked")
		return
	}

	item, err := h.planService.SetShoppingItemChecked(r.Context(), userID, chi.URLParam(r, "plan_id"), index, *req.Checked)
	if err != nil {
		writeError(w, r, "update shopping item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *planHandler) CookMeal(w http.ResponseWriter, r *http.Request) {
	h.mealAction(w, r, "cook meal", h.planService.MarkCooked)
}

func (h *planHandler) SwapMeal(w http.ResponseWriter, r *http.Request) {
	h.mealAction(w, r, "swap meal", h.planService.SwapMeal)
}

type mealActionFunc func(ctx context.Context, userID, planID, date string, slot entity.SlotName) (*entity.MealSlot, error)

func (h *planHandler) mealAction(w http.ResponseWriter, r *http.Request, action string, fn mealActionFunc) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	slot, err := entity.ParseSlotName(chi.URLParam(r, "slot"))
	if err != nil {
		writeError(w, r, action, err)
		return
	}

	meal, err := fn(r.Context(), userID, chi.URLParam(r, "plan_id"), chi.URLParam(r, "date"), slot)
	if err != nil {
		writeError(w, r, action, err)
		return
	}
	writeJSON(w, http.StatusOK, meal)
}
