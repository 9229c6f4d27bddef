package controllers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"setshaba-be/apperror"
	"setshaba-be/config"
	"setshaba-be/middlewares"
	"setshaba-be/store"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// Handler serves the portal API from a single Store.
type Handler struct {
	store   store.Store
	cfg     config.Config
	now     func() time.Time
	version string
}

type Option func(*Handler)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) { h.now = now }
}

// WithVersion sets the version reported by /api/meta.
func WithVersion(v string) Option {
	return func(h *Handler) { h.version = v }
}

func NewHandler(s store.Store, cfg config.Config, opts ...Option) *Handler {
	h := &Handler{store: s, cfg: cfg, now: time.Now, version: "dev"}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// respondError logs internal failures and writes err as JSON.
func respondError(c *gin.Context, err error) {
	appErr := apperror.From(err)
	if appErr.Status() >= 500 {
		middlewares.RequestLogger(c).Error(appErr.Message, zap.Error(err))
		_ = c.Error(err)
	}
	c.JSON(appErr.Status(), appErr.JSON())
}

// bindError turns a ShouldBindJSON failure into an AppError. A missing required
// field reads the same as the form's "fill in all fields" prompt.
func bindError(err error) *apperror.AppError {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		for _, fe := range verrs {
			if fe.Tag() == "required" {
				return apperror.From(store.ErrMissingFields)
			}
		}
		fe := verrs[0]
		return apperror.Wrap(apperror.CodeInvalidInput, fmt.Sprintf("Invalid %s", strings.ToLower(fe.Field())), err)
	}
	return apperror.Wrap(apperror.CodeInvalidInput, "Invalid request body", err)
}

type caller struct {
	ID   string
	Name string
	Role string
}

func currentCaller(c *gin.Context) (caller, bool) {
	id := c.GetString(middlewares.UserIDKey)
	if id == "" {
		return caller{}, false
	}
	return caller{
		ID:   id,
		Name: c.GetString(middlewares.UserNameKey),
		Role: c.GetString(middlewares.RoleKey),
	}, true
}
