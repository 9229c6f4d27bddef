package controllers

import (
	"net/http"

	"setshaba-be/apperror"
	"setshaba-be/middlewares"
	"setshaba-be/models"
	"setshaba-be/views"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createIssueInput struct {
	Title       string `json:"title" binding:"required,max=200"`
	Category    string `json:"category" binding:"required,issuecategory"`
	Urgency     string `json:"urgency" binding:"required,issueurgency"`
	Location    string `json:"location" binding:"required,max=200"`
	Description string `json:"description" binding:"required,max=1000"`
}

func (in createIssueInput) newIssue() models.NewIssue {
	return models.NewIssue{
		Title:       in.Title,
		Category:    in.Category,
		Urgency:     in.Urgency,
		Location:    in.Location,
		Description: in.Description,
	}
}

// CreateIssue lets an authenticated citizen report an issue
func (h *Handler) CreateIssue(c *gin.Context) {
	who, ok := currentCaller(c)
	if !ok {
		respondError(c, apperror.ErrUnauthorized)
		return
	}

	var input createIssueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}

	n := input.newIssue()
	n.ReportedBy = who.Name
	issue, err := h.store.AddIssue(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}

	middlewares.RequestLogger(c).Info("issue reported",
		zap.String("issue_id", issue.ID), zap.String("user_id", who.ID), zap.String("urgency", string(issue.Urgency)))
	c.JSON(http.StatusCreated, issue)
}

// AdminCreateIssue is the Manage Issues "Add New Issue" dialog
func (h *Handler) AdminCreateIssue(c *gin.Context) {
	var input createIssueInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}

	n := input.newIssue()
	n.ByAdmin = true
	n.ReportedBy = "Admin"
	issue, err := h.store.AddIssue(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "New issue has been created successfully.",
		"issue":   issue,
	})
}

// issueFilter reads status, urgency, category and sort from the query. "all"
// and empty mean no constraint.
func issueFilter(c *gin.Context) (models.IssueFilter, error) {
	var f models.IssueFilter
	if s := c.Query("status"); s != "" && s != "all" {
		st, err := models.ParseStatus(s)
		if err != nil {
			return f, err
		}
		f.Status = st
	}
	if u := c.Query("urgency"); u != "" && u != "all" {
		urg, err := models.ParseUrgency(u)
		if err != nil {
			return f, err
		}
		f.Urgency = urg
	}
	if cat := c.Query("category"); cat != "" && cat != "all" {
		parsed, err := models.ParseCategory(cat)
		if err != nil {
			return f, err
		}
		f.Category = parsed
	}
	f.Oldest = c.DefaultQuery("sort", "newest") == "oldest"
	return f, nil
}

// GetAllIssues lists issues as cards for the citizen tracking page
func (h *Handler) GetAllIssues(c *gin.Context) {
	f, err := issueFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	issues, err := h.store.ListIssues(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}

	cards := make([]views.IssueCard, 0, len(issues))
	for _, issue := range issues {
		cards = append(cards, views.NewIssueCard(issue, true, h.now().Location()))
	}
	c.JSON(http.StatusOK, gin.H{
		"issues":      cards,
		"totalIssues": len(cards),
	})
}

// GetIssue returns one issue with its full timeline
func (h *Handler) GetIssue(c *gin.Context) {
	issue, err := h.store.GetIssue(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

// GetIssueCard renders one issue as a card. ?progress=false hides the bar.
func (h *Handler) GetIssueCard(c *gin.Context) {
	issue, err := h.store.GetIssue(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	showProgress := c.DefaultQuery("progress", "true") != "false"
	c.JSON(http.StatusOK, views.NewIssueCard(issue, showProgress, h.now().Location()))
}

// ManageIssues is the admin issue table
func (h *Handler) ManageIssues(c *gin.Context) {
	f, err := issueFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	issues, err := h.store.ListIssues(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, views.NewIssueTable(issues, h.now().Location()))
}

// UpdateIssue lets an administrator change an issue. Progress is derived from
// status and never read from the request.
func (h *Handler) UpdateIssue(c *gin.Context) {
	var input struct {
		Status      *string `json:"status" binding:"omitempty,issuestatus"`
		Urgency     *string `json:"urgency" binding:"omitempty,issueurgency"`
		Title       *string `json:"title" binding:"omitempty,max=200"`
		Location    *string `json:"location" binding:"omitempty,max=200"`
		Description *string `json:"description" binding:"omitempty,max=1000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, bindError(err))
		return
	}

	u := models.IssueUpdate{
		Title:       input.Title,
		Location:    input.Location,
		Description: input.Description,
	}
	if input.Status != nil {
		st := models.IssueStatus(*input.Status)
		u.Status = &st
	}
	if input.Urgency != nil {
		urg := models.IssueUrgency(*input.Urgency)
		u.Urgency = &urg
	}

	issue, err := h.store.UpdateIssue(c.Request.Context(), c.Param("id"), u)
	if err != nil {
		respondError(c, err)
		return
	}

	middlewares.RequestLogger(c).Info("issue updated",
		zap.String("issue_id", issue.ID), zap.String("status", string(issue.Status)), zap.Int("progress", issue.Progress))
	c.JSON(http.StatusOK, gin.H{
		"message": "Issue status has been updated successfully.",
		"issue":   issue,
	})
}
