package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/existflow/weektrack/internal/model"
	"github.com/existflow/weektrack/internal/wire"
	"github.com/labstack/echo/v4"
)

// handleListTimers returns the caller's timers in creation order
func (s *Server) handleListTimers(c echo.Context) error {
	records, err := s.store.ListTimers(c.Request().Context(), currentUser(c))
	if err != nil {
		return internalError(c, "Failed to list timers", err)
	}
	return c.JSON(http.StatusOK, records)
}

// handleSaveTimer creates or replaces one of the caller's timers
func (s *Server) handleSaveTimer(c echo.Context) error {
	var r wire.TimerRecord
	if err := c.Bind(&r); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}

	if r.ID == "" {
		return errorJSON(c, http.StatusBadRequest, "id required")
	}
	if !model.TimerType(r.Type).Valid() {
		return errorJSON(c, http.StatusBadRequest, "type must be goal or stopwatch")
	}
	if r.LastTickAt != nil && *r.LastTickAt <= 0 {
		r.LastTickAt = nil
	}
	// ownership always comes from the session
	r.UserID = currentUser(c)

	err := s.store.UpsertTimer(c.Request().Context(), r)
	if errors.Is(err, ErrConflict) {
		return errorJSON(c, http.StatusConflict, "timer id already in use")
	}
	if err != nil {
		return internalError(c, "Failed to save timer", err)
	}
	return c.JSON(http.StatusOK, r)
}

// handlePatchTimer updates whitelisted fields of one of the caller's timers
func (s *Server) handlePatchTimer(c echo.Context) error {
	dec := json.NewDecoder(c.Request().Body)
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}

	fields, err := decodePatch(raw)
	if err != nil {
		return errorJSON(c, http.StatusBadRequest, err.Error())
	}
	if len(fields) == 0 {
		return errorJSON(c, http.StatusBadRequest, "no fields to update")
	}

	err = s.store.PatchTimer(c.Request().Context(), currentUser(c), c.Param("id"), fields)
	if errors.Is(err, ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, "timer not found")
	}
	if err != nil {
		return internalError(c, "Failed to patch timer", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// handleDeleteTimer removes one of the caller's timers
func (s *Server) handleDeleteTimer(c echo.Context) error {
	err := s.store.DeleteTimer(c.Request().Context(), currentUser(c), c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, "timer not found")
	}
	if err != nil {
		return internalError(c, "Failed to delete timer", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// decodePatch checks keys against wire.PatchableKeys and converts values to
// their column types
func decodePatch(raw map[string]any) (map[string]any, error) {
	fields := make(map[string]any, len(raw))
	for k, v := range raw {
		if !wire.PatchableKeys[k] {
			return nil, fmt.Errorf("field %q cannot be updated", k)
		}

		switch k {
		case wire.KeyTitle, wire.KeyColor, wire.KeySize:
			s, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("field %q must be a string", k)
			}
			fields[k] = s

		case wire.KeyIsRunning:
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("field %q must be a boolean", k)
			}
			fields[k] = b

		case wire.KeyLastTickAt:
			if v == nil {
				fields[k] = nil
				continue
			}
			n, err := toInt64(k, v)
			if err != nil {
				return nil, err
			}
			if n <= 0 {
				fields[k] = nil
			} else {
				fields[k] = n
			}

		default:
			n, err := toInt64(k, v)
			if err != nil {
				return nil, err
			}
			if n < 0 {
				return nil, fmt.Errorf("field %q must not be negative", k)
			}
			fields[k] = n
		}
	}
	return fields, nil
}

func toInt64(key string, v any) (int64, error) {
	num, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("field %q must be an integer", key)
	}
	n, err := num.Int64()
	if err != nil {
		return 0, fmt.Errorf("field %q must be an integer", key)
	}
	return n, nil
}
