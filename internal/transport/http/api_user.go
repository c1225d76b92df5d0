package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usersdomain "github.com/shopora/shop-api/internal/domains/users/domain"
	usersports "github.com/shopora/shop-api/internal/domains/users/ports"
)

// UserAPI exposes account management over HTTP.
type UserAPI struct {
	service usersports.Service
}

// NewUserAPI wires dependencies.
func NewUserAPI(service usersports.Service) UserAPI {
	return UserAPI{service: service}
}

// User is the transport shape of an account. The password never leaves the
// server.
type User struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Email  string  `json:"email"`
	Phone  string  `json:"phone,omitempty"`
	Role   string  `json:"role"`
	Orders []int64 `json:"orders"`
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone,omitempty"`
}

// LoginRequest exchanges credentials for a session token.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Post /v1/users
// Register an account
func (api *UserAPI) Register(c *gin.Context) {
	var payload RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	user, err := usersdomain.NewUser(0, payload.Name, payload.Email, payload.Password)
	if err != nil {
		userResponder.RespondError(c, err)
		return
	}
	user.Phone = payload.Phone
	saved, err := api.service.Register(c.Request.Context(), user)
	if err != nil {
		userResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fromDomainUser(saved))
}

// Get /v1/users/:userId
// Get an account by ID
func (api *UserAPI) GetUserByID(c *gin.Context) {
	id, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	user, err := api.service.GetUserByID(c.Request.Context(), id)
	if err != nil {
		userResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainUser(user))
}

// UpdateProfileRequest changes mutable profile fields. A blank name keeps
// the current one.
type UpdateProfileRequest struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Put /v1/users/:userId
// Update profile fields
func (api *UserAPI) UpdateProfile(c *gin.Context) {
	id, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	var payload UpdateProfileRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	user, err := api.service.UpdateProfile(c.Request.Context(), id, payload.Name, payload.Phone)
	if err != nil {
		userResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fromDomainUser(user))
}

// Delete /v1/users/:userId
// Delete an account
func (api *UserAPI) DeleteUser(c *gin.Context) {
	id, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	if err := api.service.Delete(c.Request.Context(), id); err != nil {
		userResponder.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Post /v1/users/login
// Exchange credentials for a session token
func (api *UserAPI) Login(c *gin.Context) {
	var payload LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	token, err := api.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		userResponder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": token})
}

// Post /v1/users/logout
// Drop the current session
func (api *UserAPI) Logout(c *gin.Context) {
	email := c.Query("email")
	if email != "" {
		api.service.Logout(c.Request.Context(), email)
	}
	c.JSON(http.StatusOK, gin.H{"message": "logout successful"})
}

func fromDomainUser(user *usersdomain.User) User {
	if user == nil {
		return User{}
	}
	return User{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Phone:  user.Phone,
		Role:   string(user.Role),
		Orders: append([]int64{}, user.Orders...),
	}
}
