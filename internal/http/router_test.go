package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"babelbox/internal/config"
	"babelbox/internal/db"
	"babelbox/internal/review"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubAI struct{ reply string }

func (s stubAI) Complete(context.Context, string) (string, error) { return s.reply, nil }

func testConfig(t *testing.T) config.Config {
	return config.Config{
		DBProbeTimeout: time.Second,
		EnvFile:        filepath.Join(t.TempDir(), "test.env"),
	}
}

func openDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.Connect("sqlite", filepath.Join(t.TempDir(), "babelbox.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return gdb
}

func newServer(t *testing.T, cfg config.Config, gdb *gorm.DB, ai review.Completer) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(cfg, gdb, ai))
	t.Cleanup(srv.Close)
	return srv
}

// call sends a JSON request and decodes the JSON reply into out when non-nil.
func call(t *testing.T, method, u string, body any, out any) int {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, u, rdr)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out), "%s %s", method, u)
	}
	return resp.StatusCode
}

type itemJSON struct {
	ID            uint64    `json:"id"`
	Title         string    `json:"title"`
	Content       string    `json:"content"`
	Category      string    `json:"category"`
	Example       *string   `json:"example"`
	CategoryColor string    `json:"category_color"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type listJSON struct {
	Items      []itemJSON `json:"items"`
	Pagination struct {
		CurrentPage int `json:"currentPage"`
		PageSize    int `json:"pageSize"`
		TotalItems  int `json:"totalItems"`
		TotalPages  int `json:"totalPages"`
	} `json:"pagination"`
}

type categoryJSON struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	ColorType string `json:"color_type"`
}

type messageJSON struct {
	Message string `json:"message"`
}

func TestHealth(t *testing.T) {
	srv := newServer(t, testConfig(t), nil, nil)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(b))
}

func TestUnknownRoute(t *testing.T) {
	srv := newServer(t, testConfig(t), nil, nil)

	var msg messageJSON
	assert.Equal(t, http.StatusNotFound, call(t, http.MethodGet, srv.URL+"/nope", nil, &msg))
	assert.Equal(t, "route not found", msg.Message)
}

func TestCategoryColorFollowsCategory(t *testing.T) {
	srv := newServer(t, testConfig(t), openDB(t), nil)

	var cat categoryJSON
	require.Equal(t, http.StatusCreated, call(t, http.MethodPost, srv.URL+"/categories",
		map[string]any{"name": "Algorithms"}, &cat))
	assert.Equal(t, "primary", cat.ColorType)

	var created itemJSON
	require.Equal(t, http.StatusCreated, call(t, http.MethodPost, srv.URL+"/items",
		map[string]any{"title": "Binary Search", "content": "O(log n) lookup", "category": "Algorithms"}, &created))

	var got itemJSON
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, fmt.Sprintf("%s/items/%d", srv.URL, created.ID), nil, &got))
	assert.Equal(t, "primary", got.CategoryColor)

	require.Equal(t, http.StatusOK, call(t, http.MethodPut, fmt.Sprintf("%s/categories/%d", srv.URL, cat.ID),
		map[string]any{"color_type": "warning"}, &cat))
	assert.Equal(t, "Algorithms", cat.Name)
	assert.Equal(t, "warning", cat.ColorType)

	require.Equal(t, http.StatusOK, call(t, http.MethodGet, fmt.Sprintf("%s/items/%d", srv.URL, created.ID), nil, &got))
	assert.Equal(t, "warning", got.CategoryColor)

	var list listJSON
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/items", nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "warning", list.Items[0].CategoryColor)
}

func TestCategoryCRUD(t *testing.T) {
	srv := newServer(t, testConfig(t), openDB(t), nil)
	var msg messageJSON

	assert.Equal(t, http.StatusNotFound, call(t, http.MethodDelete, srv.URL+"/categories/NonExistent123", nil, &msg))

	assert.Equal(t, http.StatusBadRequest, call(t, http.MethodPost, srv.URL+"/categories",
		map[string]any{"name": "  "}, &msg))

	var fe categoryJSON
	require.Equal(t, http.StatusCreated, call(t, http.MethodPost, srv.URL+"/categories",
		map[string]any{"name": "前端 框架", "color_type": "success"}, &fe))
	assert.Equal(t, http.StatusBadRequest, call(t, http.MethodPost, srv.URL+"/categories",
		map[string]any{"name": "前端 框架"}, &msg))
	assert.Contains(t, msg.Message, "already in use")

	var dbCat categoryJSON
	require.Equal(t, http.StatusCreated, call(t, http.MethodPost, srv.URL+"/categories",
		map[string]any{"name": "Databases"}, &dbCat))
	assert.Equal(t, http.StatusBadRequest, call(t, http.MethodPut, fmt.Sprintf("%s/categories/%d", srv.URL, dbCat.ID),
		map[string]any{"name": "前端 框架"}, &msg))
	assert.Equal(t, http.StatusNotFound, call(t, http.MethodPut, srv.URL+"/categories/9999",
		map[string]any{"name": "Other"}, &msg))
	assert.Equal(t, http.StatusBadRequest, call(t, http.MethodGet, srv.URL+"/categories/abc", nil, &msg))

	var got categoryJSON
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, fmt.Sprintf("%s/categories/%d", srv.URL, fe.ID), nil, &got))
	assert.Equal(t, "前端 框架", got.Name)

	assert.Equal(t, http.StatusOK, call(t, http.MethodDelete,
		srv.URL+"/categories/"+url.PathEscape("前端 框架"), nil, &msg))

	var all []categoryJSON
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/categories", nil, &all))
	require.Len(t, all, 1)
	assert.Equal(t, "Databases", all[0].Name)
}

func TestItemListing(t *testing.T) {
	srv := newServer(t, testConfig(t), openDB(t), nil)

	titles := []string{"Binary Search", "Quick Sort", "Merge Sort", "Hash Map", "B-Tree", "Trie", "Heap"}
	for i, title := range titles {
		cat := "Algorithms"
		if i%2 == 1 {
			cat = "Data Structures"
		}
		require.Equal(t, http.StatusCreated, call(t, http.MethodPost, srv.URL+"/items",
			map[string]any{"title": title, "content": "body of " + title, "category": cat}, nil))
	}

	var list listJSON
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/items?search=Binary", nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Binary Search", list.Items[0].Title)

	require.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/items?page=2&pageSize=3", nil, &list))
	assert.Len(t, list.Items, 3)
	assert.Equal(t, 2, list.Pagination.CurrentPage)
	assert.Equal(t, 3, list.Pagination.PageSize)
	assert.Equal(t, 7, list.Pagination.TotalItems)
	assert.Equal(t, 3, list.Pagination.TotalPages)
	assert.Equal(t, "Hash Map", list.Items[0].Title, "newest first")

	require.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/items?page=0&pageSize=abc", nil, &list))
	assert.Equal(t, 1, list.Pagination.CurrentPage)
	assert.Equal(t, 6, list.Pagination.PageSize)
	assert.Len(t, list.Items, 6)

	require.Equal(t, http.StatusOK, call(t, http.MethodGet,
		srv.URL+"/items?category="+url.QueryEscape("Data Structures"), nil, &list))
	assert.Equal(t, 3, list.Pagination.TotalItems)

	require.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/items?category=all", nil, &list))
	assert.Equal(t, 7, list.Pagination.TotalItems)

	require.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/items/all?search=Binary&pageSize=100", nil, &list))
	assert.Equal(t, 7, list.Pagination.TotalItems, "/items/all ignores search")
	assert.Equal(t, 1, list.Pagination.TotalPages)
}

func TestItemCRUD(t *testing.T) {
	srv := newServer(t, testConfig(t), openDB(t), nil)
	var msg messageJSON

	assert.Equal(t, http.StatusBadRequest, call(t, http.MethodPost, srv.URL+"/items",
		map[string]any{"title": "T", "content": " ", "category": "C"}, &msg))
	assert.Equal(t, "content is required", msg.Message)

	resp, err := http.Post(srv.URL+"/items", "application/json", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var it itemJSON
	require.Equal(t, http.StatusCreated, call(t, http.MethodPost, srv.URL+"/items",
		map[string]any{"title": "Closures", "content": "v1", "category": "Go", "example": "func() {}"}, &it))
	require.NotNil(t, it.Example)

	var upd itemJSON
	require.Equal(t, http.StatusOK, call(t, http.MethodPut, fmt.Sprintf("%s/items/%d", srv.URL, it.ID),
		map[string]any{"content": "v2"}, &upd))
	assert.Equal(t, "Closures", upd.Title)
	assert.Equal(t, "Go", upd.Category)
	assert.Equal(t, "v2", upd.Content)
	assert.True(t, upd.CreatedAt.Equal(it.CreatedAt))
	assert.True(t, upd.UpdatedAt.After(it.UpdatedAt))

	assert.Equal(t, http.StatusBadRequest, call(t, http.MethodPut, fmt.Sprintf("%s/items/%d", srv.URL, it.ID),
		map[string]any{"title": ""}, &msg))

	assert.Equal(t, http.StatusOK, call(t, http.MethodDelete, fmt.Sprintf("%s/items/%d", srv.URL, it.ID), nil, &msg))
	assert.NotEmpty(t, msg.Message)
	assert.Equal(t, http.StatusNotFound, call(t, http.MethodGet, fmt.Sprintf("%s/items/%d", srv.URL, it.ID), nil, &msg))
	assert.Equal(t, http.StatusNotFound, call(t, http.MethodDelete, fmt.Sprintf("%s/items/%d", srv.URL, it.ID), nil, &msg))
	assert.Equal(t, http.StatusBadRequest, call(t, http.MethodGet, srv.URL+"/items/xyz", nil, &msg))
}

func TestDegradedMode(t *testing.T) {
	srv := newServer(t, testConfig(t), nil, nil)
	var msg messageJSON

	var list listJSON
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/items", nil, &list))
	assert.Equal(t, 4, list.Pagination.TotalItems)
	for _, it := range list.Items {
		assert.Equal(t, "primary", it.CategoryColor)
	}

	require.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/items?search=Binary", nil, &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Binary Search", list.Items[0].Title)

	var it itemJSON
	require.Equal(t, http.StatusCreated, call(t, http.MethodPost, srv.URL+"/items",
		map[string]any{"title": "Scratch", "content": "kept in memory", "category": "Misc"}, &it))
	require.Equal(t, http.StatusOK, call(t, http.MethodGet, fmt.Sprintf("%s/items/%d", srv.URL, it.ID), nil, &it))
	assert.Equal(t, "Scratch", it.Title)

	assert.Equal(t, http.StatusServiceUnavailable, call(t, http.MethodGet, srv.URL+"/categories", nil, &msg))
	assert.Equal(t, "database not connected", msg.Message)
	assert.Equal(t, http.StatusServiceUnavailable, call(t, http.MethodPost, srv.URL+"/categories",
		map[string]any{"name": "Algorithms"}, &msg))
	assert.Equal(t, http.StatusServiceUnavailable, call(t, http.MethodDelete, srv.URL+"/categories/Algorithms", nil, &msg))
}

type validateJSON struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data"`
}

func TestValidateContent(t *testing.T) {
	srv := newServer(t, testConfig(t), nil, nil)

	var res validateJSON
	assert.Equal(t, http.StatusBadRequest, call(t, http.MethodPost, srv.URL+"/validate/content",
		map[string]any{"title": "Binary Search"}, &res))
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)

	res = validateJSON{}
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, srv.URL+"/validate/content",
		map[string]any{"title": "Binary Search", "category": "Algorithms", "content": "halve the range"}, &res))
	assert.True(t, res.Success)
	assert.Equal(t, float64(70), res.Data["categoryScore"])
	assert.Equal(t, "fresh", res.Data["contentStatus"])
	for _, k := range []string{"suggestedCategory", "suggestedContent", "suggestedTitle"} {
		v, ok := res.Data[k]
		assert.True(t, ok, "%s present", k)
		assert.Nil(t, v, k)
	}

	res = validateJSON{}
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, srv.URL+"/validate/content",
		map[string]any{"title": "Binary Search", "category": "Algorithms"}, &res))
	assert.Equal(t, "perfect", res.Data["contentStatus"])
	assert.NotNil(t, res.Data["suggestedContent"])
}

func TestValidateContentWithUpstream(t *testing.T) {
	ai := stubAI{reply: "```json\n{\"categoryScore\": 35, \"contentStatus\": \"needs-update\", " +
		"\"shouldUpdate\": true, \"suggestedCategory\": \"Searching\"}\n```"}
	srv := newServer(t, testConfig(t), nil, ai)

	var res validateJSON
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, srv.URL+"/validate/content",
		map[string]any{"title": "Binary Search", "category": "Sorting", "content": "halve the range"}, &res))
	assert.Equal(t, float64(35), res.Data["categoryScore"])
	assert.Equal(t, "needs-update", res.Data["contentStatus"])
	assert.Equal(t, true, res.Data["shouldUpdate"])
	assert.Equal(t, "Searching", res.Data["suggestedCategory"])
}

func TestConfigAPI(t *testing.T) {
	cfg := testConfig(t)
	var msg messageJSON
	assert.Equal(t, http.StatusNotFound, call(t, http.MethodGet, newServer(t, cfg, nil, nil).URL+"/config", nil, &msg))

	cfg.ConfigAPI = true
	srv := newServer(t, cfg, nil, nil)

	var res struct {
		Success bool              `json:"success"`
		Message string            `json:"message"`
		Config  map[string]string `json:"config"`
		Updated []string          `json:"updated"`
		Created []string          `json:"created"`
	}
	assert.Equal(t, http.StatusNotFound, call(t, http.MethodGet, srv.URL+"/config", nil, &res))

	require.Equal(t, http.StatusOK, call(t, http.MethodPost, srv.URL+"/config",
		map[string]any{"key": "AI_API_KEY", "value": "sk-1234567890"}, &res))
	assert.True(t, res.Success)

	assert.Equal(t, http.StatusBadRequest, call(t, http.MethodPost, srv.URL+"/config",
		map[string]any{"key": "lower-case", "value": "x"}, &res))
	assert.Equal(t, http.StatusBadRequest, call(t, http.MethodPost, srv.URL+"/config",
		map[string]any{"key": "AI_MODEL"}, &res))

	res.Updated, res.Created = nil, nil
	require.Equal(t, http.StatusOK, call(t, http.MethodPost, srv.URL+"/config/batch",
		map[string]any{"configs": map[string]string{"AI_API_KEY": "sk-abcdefwxyz", "AI_MODEL": "m1"}}, &res))
	assert.Equal(t, []string{"AI_API_KEY"}, res.Updated)
	assert.Equal(t, []string{"AI_MODEL"}, res.Created)

	require.Equal(t, http.StatusOK, call(t, http.MethodGet, srv.URL+"/config", nil, &res))
	assert.Equal(t, "***wxyz", res.Config["AI_API_KEY"])
	assert.Equal(t, "m1", res.Config["AI_MODEL"])

	raw, err := os.ReadFile(cfg.EnvFile)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "sk-abcdefwxyz")
}

func TestHugePageIsEmpty(t *testing.T) {
	for name, gdb := range map[string]*gorm.DB{"store": openDB(t), "fallback": nil} {
		t.Run(name, func(t *testing.T) {
			srv := newServer(t, testConfig(t), gdb, nil)

			var list listJSON
			require.Equal(t, http.StatusOK, call(t, http.MethodGet,
				srv.URL+"/items?page=9223372036854775807&pageSize=2", nil, &list))
			assert.Empty(t, list.Items)
		})
	}
}

func TestCORSAndRequestID(t *testing.T) {
	cfg := testConfig(t)
	cfg.CORSAllowedOrigins = []string{"http://front.test"}
	srv := newServer(t, cfg, nil, nil)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/items/1", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://front.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type, X-Request-Id")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://front.test", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), http.MethodPut)
	assert.Contains(t, strings.ToLower(resp.Header.Get("Access-Control-Allow-Headers")), "x-request-id")

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://front.test")
	req.Header.Set("X-Request-Id", "trace-42")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "trace-42", resp.Header.Get("X-Request-Id"))
	assert.Contains(t, resp.Header.Get("Access-Control-Expose-Headers"), "X-Request-Id")
}
