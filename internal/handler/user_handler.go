package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"parley/internal/model"
	"parley/internal/service"
	"parley/pkg/logger"
)

// UserHandler serves chat-user lookups and the dev-only provisioning endpoint.
type UserHandler struct {
	userService *service.UserService
	log         *logger.Logger
}

func NewUserHandler(userService *service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{userService: userService, log: log}
}

// CreateUser godoc
// @Summary Create a chat user directly (development only)
// @Tags Users
// @Accept json
// @Produce json
// @Param body body model.CreateUserRequest true "User details"
// @Success 201 {object} model.User
// @Failure 400 {object} model.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: err.Error()})
		return
	}

	user, err := h.userService.CreateUser(req)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser godoc
// @Summary Get a chat user by id
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} model.User
// @Failure 404 {object} model.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Message: "Invalid user ID"})
		return
	}

	user, err := h.userService.GetUser(id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// AliasAvailable godoc
// @Summary Check whether a public alias is free
// @Tags Users
// @Produce json
// @Param alias path string true "Alias to check"
// @Success 200 {object} model.AliasAvailableResponse
// @Router /users/alias/{alias}/available [get]
func (h *UserHandler) AliasAvailable(c *gin.Context) {
	alias := c.Param("alias")

	available, err := h.userService.IsIDAliasAvailable(alias)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, model.AliasAvailableResponse{Alias: alias, Available: available})
}
