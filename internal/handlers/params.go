package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sabbirahmed/eventhub-backend/internal/query"
)

// queryParams flattens the request's query string into the mapping the query
// translator consumes. Repeated keys keep their first value.
func queryParams(c *gin.Context) query.Params {
	params := query.Params{}
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			params[key] = values[0]
		}
	}
	return params
}

// actorID returns the authenticated identity set by the auth middleware.
func actorID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := value.(uuid.UUID)
	return id, ok
}
