package httpx

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/dastkar/rugshop/internal/apperr"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// ok writes the success envelope with extra payload fields merged in.
func ok(w http.ResponseWriter, code int, fields map[string]any) {
	body := map[string]any{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	writeJSON(w, code, body)
}

func failMsg(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{"success": false, "message": msg})
}

// fail maps a service error onto the envelope: specific message for
// validation/not-found/conflict, fallback message with server-side logging
// for everything else.
func fail(w http.ResponseWriter, err error, fallback string) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation, apperr.KindConflict:
		failMsg(w, http.StatusBadRequest, apperr.MessageOf(err, fallback))
	case apperr.KindNotFound:
		failMsg(w, http.StatusNotFound, apperr.MessageOf(err, fallback))
	default:
		log.Printf("%s: %v", fallback, err)
		failMsg(w, http.StatusInternalServerError, fallback)
	}
}
