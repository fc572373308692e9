package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sabbirahmed/eventhub-backend/internal/helpers"
	"github.com/sabbirahmed/eventhub-backend/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdateProfileRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=50"`
	PhotoURL *string `json:"photoUrl" binding:"omitempty,url"`
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	user, err := h.users.Register(services.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully.",
		"user":    user,
	})
}

func (h *UserHandler) Profile(c *gin.Context) {
	id, ok := actorID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	user, err := h.users.Profile(id)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// UpdateProfile accepts either a JSON body or a multipart form with an
// optional photo file, which is stored and recorded as the photo URL.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id, ok := actorID(c)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	var input services.UpdateProfileInput

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if name := c.PostForm("name"); name != "" {
			input.Name = &name
		}
		if photoFile, err := c.FormFile("photo"); err == nil {
			photoPath, err := helpers.UploadFile(c, photoFile, "profile_photos")
			if err != nil {
				helpers.RespondWithError(c, http.StatusBadRequest, err.Error())
				return
			}

			if current, err := h.users.Profile(id); err == nil && strings.HasPrefix(current.PhotoURL, "uploads") {
				if err := helpers.DeleteFile(current.PhotoURL); err != nil {
					fmt.Printf("Error deleting old photo: %v\n", err)
				}
			}
			input.PhotoURL = &photoPath
		}
	} else {
		var req UpdateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
			return
		}
		input.Name = req.Name
		input.PhotoURL = req.PhotoURL
	}

	user, err := h.users.UpdateProfile(id, input)
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile updated successfully.",
		"user":    user,
	})
}

func (h *UserHandler) List(c *gin.Context) {
	users, meta, err := h.users.List(queryParams(c))
	if err != nil {
		helpers.RespondWithAppError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": users,
		"meta": meta,
	})
}
