package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"leetstreak/service"

	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("Failed to encode response")
	}
}

func respondWithError(w http.ResponseWriter, detail string, status int) {
	respondJSON(w, status, errorResponse{Detail: detail})
}

// respondWithServiceError maps service error classes onto status codes
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case service.IsConflict(err):
		respondWithError(w, err.Error(), http.StatusConflict)
	case service.IsValidation(err):
		respondWithError(w, err.Error(), http.StatusBadRequest)
	case service.IsNotFound(err):
		respondWithError(w, err.Error(), http.StatusNotFound)
	default:
		log.WithFields(log.Fields{
			"method":    r.Method,
			"path":      r.URL.Path,
			"requestID": middleware.GetReqID(r.Context()),
		}).WithError(err).Error("Request failed")
		respondWithError(w, "internal server error", http.StatusInternalServerError)
	}
}

// decodeBody reads a JSON body into dst. An empty body leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	respondWithError(w, "invalid request body", http.StatusBadRequest)
	return false
}

// accessLog logs one line per request
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		entry := log.WithFields(log.Fields{
			"method":    r.Method,
			"path":      r.URL.Path,
			"status":    status,
			"bytes":     ww.BytesWritten(),
			"duration":  time.Since(start).String(),
			"requestID": middleware.GetReqID(r.Context()),
		})
		if status >= http.StatusInternalServerError {
			entry.Warn("Handled request")
		} else {
			entry.Debug("Handled request")
		}
	})
}
