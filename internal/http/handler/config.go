package handler

import (
	"errors"
	"log"
	"net/http"
	"sort"

	"babelbox/internal/apperr"
	"babelbox/internal/config"
)

// ConfigHandler exposes the env file for reading and editing. Secret-looking
// values are masked on read.
type ConfigHandler struct {
	File *config.EnvFile
}

func configFail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}

func (h *ConfigHandler) Get(w http.ResponseWriter, r *http.Request) {
	env, err := h.File.All()
	if errors.Is(err, config.ErrEnvFileMissing) {
		configFail(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		log.Printf("config: %v", err)
		configFail(w, http.StatusInternalServerError, "failed to read config")
		return
	}

	masked := make(map[string]string, len(env))
	for k, v := range env {
		masked[k] = config.Mask(k, v)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "config": masked})
}

type setConfigReq struct {
	Key   string  `json:"key"`
	Value *string `json:"value"`
}

func (h *ConfigHandler) Set(w http.ResponseWriter, r *http.Request) {
	var req setConfigReq
	if err := decodeJSON(r, &req); err != nil {
		configFail(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Key == "" || req.Value == nil {
		configFail(w, http.StatusBadRequest, "key and value are required")
		return
	}
	h.write(w, map[string]string{req.Key: *req.Value})
}

type batchConfigReq struct {
	Configs map[string]string `json:"configs"`
}

func (h *ConfigHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req batchConfigReq
	if err := decodeJSON(r, &req); err != nil {
		configFail(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Configs) == 0 {
		configFail(w, http.StatusBadRequest, "configs is required")
		return
	}
	h.write(w, req.Configs)
}

func (h *ConfigHandler) write(w http.ResponseWriter, pairs map[string]string) {
	existing, err := h.File.SetMany(pairs)
	if apperr.IsValidation(err) {
		configFail(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		log.Printf("config: %v", err)
		configFail(w, http.StatusInternalServerError, "failed to update config")
		return
	}

	updated := make(map[string]bool, len(existing))
	for _, k := range existing {
		updated[k] = true
	}
	created := []string{}
	for k := range pairs {
		if !updated[k] {
			created = append(created, k)
		}
	}
	sort.Strings(created)
	if existing == nil {
		existing = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"updated": existing,
		"created": created,
	})
}
