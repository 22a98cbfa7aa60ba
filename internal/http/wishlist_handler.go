package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/catalog"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/domain"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/repository"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/wishlist"
)

type WishlistHandler struct {
	store   wishlist.Store
	catalog *catalog.Service
}

func NewWishlistHandler(store wishlist.Store, c *catalog.Service) *WishlistHandler {
	return &WishlistHandler{store: store, catalog: c}
}

type WishlistResponseDTO struct {
	Products []*domain.Product `json:"products"`
}

// GET /api/v1/wishlist
func (h *WishlistHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	wl, err := h.store.Get(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load wishlist")
		return
	}

	// join against the catalog; products that vanished since being wished for
	// are silently dropped from the view
	products := make([]*domain.Product, 0, len(wl.Entries))
	for _, entry := range wl.Entries {
		p, err := h.catalog.GetProduct(r.Context(), entry.ProductID)
		if errors.Is(err, repository.ErrProductNotFound) {
			continue
		}
		if err != nil {
			respondError(w, http.StatusInternalServerError, "internal_error", "failed to load wishlist")
			return
		}
		products = append(products, p)
	}

	respondJSON(w, http.StatusOK, WishlistResponseDTO{Products: products})
}

type AddWishlistRequestDTO struct {
	ProductID string `json:"product_id"`
}

// POST /api/v1/wishlist
func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())

	var req AddWishlistRequestDTO
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	if _, err := h.catalog.GetProduct(r.Context(), req.ProductID); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	if err := h.store.Add(r.Context(), userID, req.ProductID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update wishlist")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// DELETE /api/v1/wishlist/{product_id}
func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	productID := chi.URLParam(r, "product_id")

	err := h.store.Remove(r.Context(), userID, productID)
	if errors.Is(err, wishlist.ErrNotInWishlist) {
		respondError(w, http.StatusNotFound, "not_found", "product not in wishlist")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update wishlist")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
