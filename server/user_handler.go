package server

import (
	"encoding/json"
	"net/http"

	"musicstore/logger"
	"musicstore/model"
)

// CreateUserHandler handles POST /users.
func (h *APIHandler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var in model.UserInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userRepo.Create(r.Context(), in)
	if err != nil {
		writeStoreError(w, r, "Create user", err)
		return
	}

	writeJSON(w, http.StatusCreated, user)
}

// ListUsersHandler handles GET /users.
func (h *APIHandler) ListUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.userRepo.List(r.Context())
	if err != nil {
		writeStoreError(w, r, "List users", err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// FindUserHandler 按 phone / email 精确查找用户
// 空值参数视为未提供
func (h *APIHandler) FindUserHandler(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	var phone, email *string
	if v := query.Get("phone"); v != "" {
		phone = &v
	}
	if v := query.Get("email"); v != "" {
		email = &v
	}

	logger.Debug("Handling user lookup request",
		logger.Bool("byPhone", phone != nil),
		logger.Bool("byEmail", email != nil),
	)

	if phone == nil && email == nil {
		writeMessage(w, http.StatusBadRequest, "phone or email query parameter is required")
		return
	}

	user, err := h.userRepo.FindByAlternateKey(r.Context(), phone, email)
	if err != nil {
		writeStoreError(w, r, "Find user", err)
		return
	}
	if user == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// GetUserHandler handles GET /users/{id}.
func (h *APIHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	user, err := h.userRepo.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, "Get user", err)
		return
	}
	if user == nil {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateUserHandler 只覆盖请求体中出现的字段
func (h *APIHandler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var patch model.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	found, err := h.userRepo.Update(r.Context(), id, patch)
	if err != nil {
		writeStoreError(w, r, "Update user", err)
		return
	}
	if !found {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	writeMessage(w, http.StatusOK, "User updated")
}

// DeleteUserHandler handles DELETE /users/{id}.
func (h *APIHandler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	found, err := h.userRepo.Delete(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, "Delete user", err)
		return
	}
	if !found {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}

	writeMessage(w, http.StatusOK, "User deleted")
}
