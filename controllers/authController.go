package controllers

import (
	"errors"
	"net/http"

	"setshaba-be/apperror"
	"setshaba-be/middlewares"
	"setshaba-be/models"
	"setshaba-be/store"
	authUtils "setshaba-be/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type authInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func userJSON(u models.User) gin.H {
	return gin.H{
		"id":        u.ID,
		"name":      u.Name,
		"email":     u.Email,
		"role":      u.Role,
		"createdAt": u.CreatedAt,
	}
}

// RegisterUser handles citizen registration
func (h *Handler) RegisterUser(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}

	user := models.User{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     models.RoleCitizen,
	}
	if err := user.HashPassword(); err != nil {
		respondError(c, err)
		return
	}

	created, err := h.store.CreateUser(c.Request.Context(), user)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, userJSON(created))
}

// LoginUser handles login for citizens and administrators alike
func (h *Handler) LoginUser(c *gin.Context) {
	h.login(c, false)
}

// AdminLogin only admits administrators
func (h *Handler) AdminLogin(c *gin.Context) {
	h.login(c, true)
}

func (h *Handler) login(c *gin.Context, adminOnly bool) {
	var input authInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}

	user, err := h.store.FindUserByEmail(c.Request.Context(), input.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			respondError(c, apperror.ErrInvalidCredentials)
			return
		}
		respondError(c, err)
		return
	}
	if !user.ComparePassword(input.Password) {
		respondError(c, apperror.ErrInvalidCredentials)
		return
	}
	if adminOnly && !user.IsAdmin() {
		respondError(c, apperror.ErrForbidden)
		return
	}

	token, err := authUtils.GenerateToken(h.cfg.JWTSecret, authUtils.Claims{
		UserID: user.ID,
		Name:   user.Name,
		Role:   string(user.Role),
	}, h.now())
	if err != nil {
		middlewares.RequestLogger(c).Error("error generating token", zap.Error(err))
		respondError(c, err)
		return
	}

	// production serves the client cross-origin; browsers only accept
	// SameSite=None on Secure cookies, so local HTTP stays on Lax
	sameSite := http.SameSiteLaxMode
	if h.cfg.IsProduction() {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.AuthCookie,
		Value:    token,
		MaxAge:   int(authUtils.TokenTTL.Seconds()),
		Path:     "/",
		Secure:   h.cfg.IsProduction(),
		HttpOnly: true,
		SameSite: sameSite,
	})

	body := userJSON(user)
	body["token"] = token
	c.JSON(http.StatusOK, body)
}

// GetMe retrieves the authenticated user's information
func (h *Handler) GetMe(c *gin.Context) {
	who, ok := currentCaller(c)
	if !ok {
		respondError(c, apperror.ErrUnauthorized)
		return
	}

	user, err := h.store.FindUserByID(c.Request.Context(), who.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, userJSON(user))
}

// LogoutUser clears the auth_token cookie
func (h *Handler) LogoutUser(c *gin.Context) {
	c.SetCookie(middlewares.AuthCookie, "", -1, "/", "", h.cfg.IsProduction(), true)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
