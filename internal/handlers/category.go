package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/expensevista/expensevista-backend/internal/dto"
	"github.com/expensevista/expensevista-backend/internal/errs"
	"github.com/expensevista/expensevista-backend/internal/middleware"
	"github.com/expensevista/expensevista-backend/internal/models"
	"github.com/expensevista/expensevista-backend/internal/response"
)

type categoryService interface {
	ListForUser(ctx context.Context, uid string) ([]models.Category, error)
	GetByID(ctx context.Context, categoryID, uid string) (*models.Category, error)
	Create(ctx context.Context, uid string, req dto.CreateCategoryRequest) (*models.Category, error)
	Update(ctx context.Context, categoryID, uid string, req dto.UpdateCategoryRequest) (*models.Category, error)
	Delete(ctx context.Context, categoryID, uid string) error
}

type categoryHandlers struct {
	ResponseHandler response.ResponseHandler
	CategorySvc     categoryService
}

func NewCategoryHandlers(deps *Deps) *categoryHandlers {
	return &categoryHandlers{
		ResponseHandler: deps.ResponseHandler,
		CategorySvc:     deps.CategorySvc,
	}
}

func (h *categoryHandlers) CategoryRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListCategories)
	r.Post("/", h.CreateCategory)
	r.Get("/{categoryId}", h.GetCategory)
	r.Put("/{categoryId}", h.UpdateCategory)
	r.Delete("/{categoryId}", h.DeleteCategory)
	return r
}

func (h *categoryHandlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	uid := middleware.UID(r.Context())
	categories, err := h.CategorySvc.ListForUser(r.Context(), uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, categories)
}

func (h *categoryHandlers) GetCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")
	uid := middleware.UID(r.Context())
	category, err := h.CategorySvc.GetByID(r.Context(), categoryID, uid)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, category)
}

func (h *categoryHandlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	category, err := h.CategorySvc.Create(r.Context(), uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, category)
}

func (h *categoryHandlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")
	var req dto.UpdateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.ResponseHandler.HandleError(w, r, errs.NewValidationError("invalid request body"))
		return
	}
	uid := middleware.UID(r.Context())
	category, err := h.CategorySvc.Update(r.Context(), categoryID, uid, req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, category)
}

func (h *categoryHandlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID := chi.URLParam(r, "categoryId")
	uid := middleware.UID(r.Context())
	if err := h.CategorySvc.Delete(r.Context(), categoryID, uid); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}
