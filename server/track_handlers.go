package server

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"musicstore/logger"
	"musicstore/model"
)

// trackRequest accepts the legacy "inPlaylist" key alongside "playlistName".
type trackRequest struct {
	model.TrackInput
	InPlaylist *string `json:"inPlaylist"`
}

func (req trackRequest) input() model.TrackInput {
	in := req.TrackInput
	if in.PlaylistName == nil {
		in.PlaylistName = req.InPlaylist
	}
	return in
}

func decodeTrackInput(body io.Reader) (model.TrackInput, error) {
	var req trackRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		return model.TrackInput{}, err
	}
	return req.input(), nil
}

// decodeTrackPatch 解析 PATCH 请求体
// 未出现的字段保持不变，playlistName 为 null 时清空，其他键被忽略
func decodeTrackPatch(body io.Reader) (model.TrackPatch, error) {
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return model.TrackPatch{}, err
	}

	var patch model.TrackPatch
	for key, value := range raw {
		switch key {
		case "downloaded", "favorite":
			var b *bool
			if err := json.Unmarshal(value, &b); err != nil {
				return model.TrackPatch{}, fmt.Errorf("%s must be a boolean", key)
			}
			if b == nil {
				continue
			}
			if key == "downloaded" {
				patch.Downloaded = b
			} else {
				patch.Favorite = b
			}
		case "playlistName", "inPlaylist":
			if key == "inPlaylist" && raw["playlistName"] != nil {
				continue
			}
			if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
				patch.PlaylistName = &sql.NullString{}
				continue
			}
			var name string
			if err := json.Unmarshal(value, &name); err != nil {
				return model.TrackPatch{}, fmt.Errorf("%s must be a string or null", key)
			}
			patch.PlaylistName = &sql.NullString{String: name, Valid: true}
		}
	}
	return patch, nil
}

// ListTracksHandler handles GET /tracks.
func (h *APIHandler) ListTracksHandler(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.trackRepo.List(r.Context())
	if err != nil {
		writeStoreError(w, r, "List tracks", err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// SearchTracksHandler 按标题子串搜索，不区分大小写
func (h *APIHandler) SearchTracksHandler(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")

	logger.Debug("Handling track search request", logger.String("title", title))

	tracks, err := h.trackRepo.SearchByTitle(r.Context(), title)
	if err != nil {
		writeStoreError(w, r, "Search tracks", err)
		return
	}
	writeJSON(w, http.StatusOK, tracks)
}

// GetTrackHandler handles GET /tracks/{id}.
func (h *APIHandler) GetTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid track ID")
		return
	}

	track, err := h.trackRepo.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, "Get track", err)
		return
	}
	if track == nil {
		writeMessage(w, http.StatusNotFound, "Track not found")
		return
	}
	writeJSON(w, http.StatusOK, track)
}

// TrackMediaHandler 返回曲目音频与封面的预签名地址
func (h *APIHandler) TrackMediaHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid track ID")
		return
	}
	if h.media == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Media storage is not configured")
		return
	}

	track, err := h.trackRepo.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, "Get track", err)
		return
	}
	if track == nil {
		writeMessage(w, http.StatusNotFound, "Track not found")
		return
	}

	media, err := h.media.Resolve(r.Context(), track)
	if err != nil {
		writeStoreError(w, r, "Resolve track media", err)
		return
	}
	writeJSON(w, http.StatusOK, media)
}

// CreateTrackHandler handles POST /tracks.
func (h *APIHandler) CreateTrackHandler(w http.ResponseWriter, r *http.Request) {
	in, err := decodeTrackInput(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	track, err := h.trackRepo.Create(r.Context(), in)
	if err != nil {
		writeStoreError(w, r, "Create track", err)
		return
	}

	writeJSON(w, http.StatusCreated, track)
}

// UpdateTrackHandler 用请求体整体替换曲目
func (h *APIHandler) UpdateTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid track ID")
		return
	}

	in, err := decodeTrackInput(r.Body)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	found, err := h.trackRepo.Update(r.Context(), id, in)
	if err != nil {
		writeStoreError(w, r, "Update track", err)
		return
	}
	if !found {
		writeMessage(w, http.StatusNotFound, "Track not found")
		return
	}
	writeMessage(w, http.StatusOK, "Track updated")
}

// PatchTrackHandler 只更新 downloaded / favorite / playlistName
// 不存在的 id 同样返回 200
func (h *APIHandler) PatchTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid track ID")
		return
	}

	patch, err := decodeTrackPatch(r.Body)
	if err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) {
			writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		writeMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.trackRepo.Patch(r.Context(), id, patch); err != nil {
		writeStoreError(w, r, "Patch track", err)
		return
	}
	writeMessage(w, http.StatusOK, "Track updated")
}

// DeleteTrackHandler handles DELETE /tracks/{id}.
func (h *APIHandler) DeleteTrackHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid track ID")
		return
	}

	found, err := h.trackRepo.Delete(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, "Delete track", err)
		return
	}
	if !found {
		writeMessage(w, http.StatusNotFound, "Track not found")
		return
	}

	writeMessage(w, http.StatusOK, "Track deleted")
}
