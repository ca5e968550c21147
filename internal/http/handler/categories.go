package handler

import (
	"net/http"
	"net/url"

	"babelbox/internal/category"

	"github.com/go-chi/chi/v5"
)

type CategoryHandler struct {
	Svc *category.Service
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	all, err := h.Svc.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

func (h *CategoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type categoryReq struct {
	Name      *string `json:"name"`
	ColorType *string `json:"color_type"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.Svc.Create(r.Context(), deref(req.Name), req.ColorType)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req categoryReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.Svc.Update(r.Context(), id, category.UpdateInput{Name: req.Name, ColorType: req.ColorType})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteByName serves DELETE /categories/{id}, where the segment is the
// category's display name rather than its id.
func (h *CategoryHandler) DeleteByName(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	name, err := url.PathUnescape(raw)
	if err != nil {
		name = raw
	}
	if err := h.Svc.DeleteByName(r.Context(), name); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "category deleted")
}
