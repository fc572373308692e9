package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sabbirahmed/eventhub-backend/internal/helpers"
	"github.com/sabbirahmed/eventhub-backend/internal/services"
)

type EventHandler struct {
	events *services.EventService
}

func NewEventHandler(events *services.EventService) *EventHandler {
	return &EventHandler{events: events}
}

type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required,max=100"`
	Name        string    `json:"name" binding:"required,max=50"`
	DateTime    time.Time `json:"dateTime" binding:"required,futuredate"`
	Location    string    `json:"location" binding:"required,max=200"`
	Description string    `json:"description" binding:"required,max=1000"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,max=100"`
	Name        *string    `json:"name" binding:"omitempty,max=50"`
	DateTime    *time.Time `json:"dateTime" binding:"omitempty,futuredate"`
	Location    *string    `json:"location" binding:"omitempty,max=200"`
	Description *string    `json:"description" binding:"omitempty,max=1000"`
}

func (h *EventHandler) Create(c *gin.Context) {
	id, ok := actorID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	event, err := h.events.Create(id, services.CreateEventInput{
		Title:       req.Title,
		Name:        req.Name,
		DateTime:    req.DateTime,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Event created successfully.",
		"event":   event,
	})
}

func (h *EventHandler) List(c *gin.Context) {
	events, meta, err := h.events.List(queryParams(c))
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": events,
		"meta": meta,
	})
}

func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.events.Get(c.Param("id"))
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Update(c *gin.Context) {
	id, ok := actorID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	event, err := h.events.Update(c.Param("id"), id, services.UpdateEventInput{
		Title:       req.Title,
		Name:        req.Name,
		DateTime:    req.DateTime,
		Location:    req.Location,
		Description: req.Description,
	})
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := actorID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	if err := h.events.Delete(c.Param("id"), id); err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully."})
}

func (h *EventHandler) Join(c *gin.Context) {
	id, ok := actorID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	event, err := h.events.Join(c.Param("id"), id)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Joined event successfully.",
		"event":   event,
	})
}

func (h *EventHandler) MyEvents(c *gin.Context) {
	id, ok := actorID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	events, meta, err := h.events.ListMine(id, queryParams(c))
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": events,
		"meta": meta,
	})
}

func (h *EventHandler) JoinedEvents(c *gin.Context) {
	id, ok := actorID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	events, meta, err := h.events.ListJoined(id, queryParams(c))
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": events,
		"meta": meta,
	})
}
