package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AntonEmtsov/foodgram-project-react/internal/http/response"
)

const (
	defaultPageSize = 6
	maxPageSize     = 100
)

var errNotFound = errors.New("not found")

// pathID parses a uuid path param. A malformed id cannot name anything, so
// it is answered like a missing one.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusNotFound, "not_found", errNotFound)
		return uuid.Nil, false
	}
	return id, true
}

// pagination reads ?limit= and ?page= (1-based) into limit/offset.
func pagination(c *gin.Context) (limit, offset int, ok bool) {
	limit = defaultPageSize
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.RespondError(c, http.StatusBadRequest, "validation", errors.New("limit must be a positive integer"))
			return 0, 0, false
		}
		limit = min(n, maxPageSize)
	}
	page := 1
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			response.RespondError(c, http.StatusBadRequest, "validation", errors.New("page must be a positive integer"))
			return 0, 0, false
		}
		page = n
	}
	return limit, (page - 1) * limit, true
}

// optionalInt reads a non-negative integer query param; absent means nil.
func optionalInt(c *gin.Context, key string) (*int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		response.RespondError(c, http.StatusBadRequest, "validation", errors.New(key+" must be a non-negative integer"))
		return nil, false
	}
	return &n, true
}

func queryBool(c *gin.Context, key string) bool {
	switch strings.ToLower(strings.TrimSpace(c.Query(key))) {
	case "1", "true", "yes":
		return true
	}
	return false
}
