package controllers

import (
	"net/http"
	"time"

	"setshaba-be/models"
	"setshaba-be/views"

	"github.com/gin-gonic/gin"
)

// GetDashboard returns the admin dashboard
func (h *Handler) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	issues, err := h.store.ListIssues(ctx, models.IssueFilter{})
	if err != nil {
		respondError(c, err)
		return
	}
	feedback, err := h.store.ListFeedback(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	events, err := h.store.ListEvents(ctx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, views.NewDashboard(issues, feedback, events, h.now()))
}

// GetAdminNav returns the sidebar with ?path= marked active
func (h *Handler) GetAdminNav(c *gin.Context) {
	c.JSON(http.StatusOK, views.NewAdminSidebar(c.Query("path")))
}

func (h *Handler) GetHome(c *gin.Context) {
	c.JSON(http.StatusOK, views.NewHome())
}

func (h *Handler) GetMeta(c *gin.Context) {
	c.JSON(http.StatusOK, views.NewSplash(h.version))
}

// GetIssueFormOptions lists the categories, urgencies and statuses forms offer
func (h *Handler) GetIssueFormOptions(c *gin.Context) {
	c.JSON(http.StatusOK, views.IssueFormOptions())
}

func (h *Handler) GetFeedback(c *gin.Context) {
	feedback, err := h.store.ListFeedback(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}

// SubmitFeedback records citizen feedback in review
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var input struct {
		Name    string `json:"name" binding:"required,max=100"`
		Message string `json:"message" binding:"required,max=2000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}

	fb, err := h.store.AddFeedback(c.Request.Context(), input.Name, input.Message)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}

// UpdateFeedbackStatus moves feedback between In Review, Acknowledged and Resolved
func (h *Handler) UpdateFeedbackStatus(c *gin.Context) {
	var input struct {
		Status string `json:"status" binding:"required,feedbackstatus"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}

	fb, err := h.store.UpdateFeedbackStatus(c.Request.Context(), c.Param("id"), models.FeedbackStatus(input.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Feedback updated", "feedback": fb})
}

func (h *Handler) GetAnnouncements(c *gin.Context) {
	list, err := h.store.ListAnnouncements(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// PostAnnouncement publishes an announcement under the admin's name
func (h *Handler) PostAnnouncement(c *gin.Context) {
	var input struct {
		Title   string `json:"title" binding:"required,max=200"`
		Message string `json:"message" binding:"required,max=2000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}

	author := "Admin"
	if who, ok := currentCaller(c); ok && who.Name != "" {
		author = who.Name
	}
	a, err := h.store.AddAnnouncement(c.Request.Context(), models.Announcement{
		Title:    input.Title,
		Message:  input.Message,
		Author:   author,
		PostedAt: h.now(),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

// GetEvents lists events. ?upcoming=true keeps only future ones.
func (h *Handler) GetEvents(c *gin.Context) {
	events, err := h.store.ListEvents(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if c.Query("upcoming") == "true" {
		now := h.now()
		upcoming := make([]models.Event, 0, len(events))
		for _, e := range events {
			if e.Upcoming(now) {
				upcoming = append(upcoming, e)
			}
		}
		events = upcoming
	}
	c.JSON(http.StatusOK, events)
}

func (h *Handler) PostEvent(c *gin.Context) {
	var input struct {
		Title    string    `json:"title" binding:"required,max=200"`
		Location string    `json:"location" binding:"max=200"`
		Date     time.Time `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}

	e, err := h.store.AddEvent(c.Request.Context(), models.Event{
		Title:    input.Title,
		Location: input.Location,
		Date:     input.Date,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}
