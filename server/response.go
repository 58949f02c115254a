package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"musicstore/logger"
	"musicstore/repository"

	"github.com/gorilla/mux"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", logger.ErrorField(err))
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"success": status < http.StatusBadRequest,
		"message": msg,
	})
}

// parseID 解析路径中的 {id}
func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// writeStoreError 把存储层错误映射为状态码
func writeStoreError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrConstraintViolation), errors.Is(err, repository.ErrValidation):
		logger.Warn(op+" rejected",
			logger.String("requestId", RequestIDFromContext(r.Context())),
			logger.ErrorField(err),
		)
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error(op+" failed",
			logger.String("requestId", RequestIDFromContext(r.Context())),
			logger.ErrorField(err),
		)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
