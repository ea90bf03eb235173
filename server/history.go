package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/existflow/weektrack/internal/wire"
	"github.com/labstack/echo/v4"
)

// handleListHistory returns the caller's archived weeks, most recent first
func (s *Server) handleListHistory(c echo.Context) error {
	records, err := s.store.ListHistory(c.Request().Context(), currentUser(c))
	if err != nil {
		return internalError(c, "Failed to list history", err)
	}
	return c.JSON(http.StatusOK, records)
}

// handleAppendHistory stores an archived week for the caller
func (s *Server) handleAppendHistory(c echo.Context) error {
	var r wire.HistoryRecord
	if err := c.Bind(&r); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}

	if r.ID == "" || r.WeekStart.IsZero() {
		return errorJSON(c, http.StatusBadRequest, "id and week_start required")
	}

	var entries []json.RawMessage
	if len(r.SnapshotJSON) > 0 {
		if err := json.Unmarshal(r.SnapshotJSON, &entries); err != nil {
			return errorJSON(c, http.StatusBadRequest, "snapshot_json must be an array")
		}
	}
	if entries == nil {
		r.SnapshotJSON = json.RawMessage("[]")
	}
	r.UserID = currentUser(c)

	err := s.store.InsertHistory(c.Request().Context(), r)
	if errors.Is(err, ErrConflict) {
		return errorJSON(c, http.StatusConflict, "history record already exists")
	}
	if err != nil {
		return internalError(c, "Failed to store history", err)
	}
	return c.JSON(http.StatusOK, r)
}
