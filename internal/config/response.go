package config

import (
	"encoding/json"
	"net/http"

	util "github.com/saulo-duarte/mockprep/internal/utils"
)

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, err error) {
	JSON(w, util.StatusFor(err), map[string]string{"error": err.Error()})
}
