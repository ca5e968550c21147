package handler

import (
	"net/http"
	"strings"

	"babelbox/internal/review"
)

type ValidateHandler struct {
	Gateway *review.Gateway
}

type validateReq struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Content  string `json:"content"`
}

// Content serves POST /validate/content. Upstream AI failures never reach the
// caller; the gateway substitutes a canned verdict.
func (h *ValidateHandler) Content(w http.ResponseWriter, r *http.Request) {
	var req validateReq
	if err := decodeJSON(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": err.Error()})
		return
	}
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Category) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"message": "title and category are required",
		})
		return
	}

	res := h.Gateway.Review(r.Context(), review.Input{
		Title:    req.Title,
		Category: req.Category,
		Content:  req.Content,
	})
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": res})
}
