package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

// displayTimeFormat is how order timestamps are rendered for customers and
// the counter dashboard.
const displayTimeFormat = "2006-01-02 15:04:05"

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func displayTime(t time.Time) string {
	return t.Local().Format(displayTimeFormat)
}
