package handler

import (
	"net/http"

	"babelbox/internal/item"
)

type ItemHandler struct {
	Svc *item.Service
}

type pagination struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
}

type listResp struct {
	Items      []item.Item `json:"items"`
	Pagination pagination  `json:"pagination"`
}

// List serves GET /items with optional search and category filters.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	h.list(w, r, item.NewFilter(q.Get("category"), q.Get("search")))
}

// All serves GET /items/all, which ignores search.
func (h *ItemHandler) All(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, item.NewFilter(r.URL.Query().Get("category"), ""))
}

func (h *ItemHandler) list(w http.ResponseWriter, r *http.Request, f item.Filter) {
	q := r.URL.Query()
	p := item.ParsePaging(q.Get("page"), q.Get("pageSize"))

	page, err := h.Svc.List(r.Context(), f, p)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, listResp{
		Items: page.Items,
		Pagination: pagination{
			CurrentPage: page.Page,
			PageSize:    page.PageSize,
			TotalItems:  page.Total,
			TotalPages:  page.TotalPages(),
		},
	})
}

func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	it, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

type itemReq struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	Example  *string `json:"example"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req itemReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	it, err := h.Svc.Create(r.Context(), item.CreateInput{
		Title:    deref(req.Title),
		Content:  deref(req.Content),
		Category: deref(req.Category),
		Example:  req.Example,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req itemReq
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	it, err := h.Svc.Update(r.Context(), id, item.UpdateInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Example:  req.Example,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, "item deleted")
}
