// Package seed loads the administrator account and the demo data the portal
// starts with.
package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"setshaba-be/models"
	"setshaba-be/store"
)

// EnsureAdmin creates the administrator account unless the email is already registered.
func EnsureAdmin(ctx context.Context, users store.UserStore, email, password string) (models.User, error) {
	existing, err := users.FindUserByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return models.User{}, err
	}
	if password == "" {
		return models.User{}, fmt.Errorf("ADMIN_PASSWORD is required to create admin %s", email)
	}

	admin := models.User{Name: "Admin", Email: email, Password: password, Role: models.RoleAdmin}
	if err := admin.HashPassword(); err != nil {
		return models.User{}, err
	}
	return users.CreateUser(ctx, admin)
}

var demoIssues = []models.NewIssue{
	{Title: "Burst water main", Category: "Water", Urgency: "Emergency", Location: "Church St & 5th Ave", Description: "Water flooding the intersection", ReportedBy: "Naledi M."},
	{Title: "Streetlights out", Category: "Electricity", Urgency: "Medium", Location: "Mandela Park", Description: "Four lights along the footpath are dark", ReportedBy: "Pieter V."},
	{Title: "Pothole on Main St", Category: "Roads", Urgency: "High", Location: "Main St", Description: "Large pothole", ByAdmin: true},
	{Title: "Missed refuse collection", Category: "Waste", Urgency: "Low", Location: "Extension 4", Description: "Bins not collected on Thursday", ReportedBy: "Sipho K."},
}

// Demo adds sample issues, feedback, announcements and events.
func Demo(ctx context.Context, s store.Store, now time.Time) error {
	for _, n := range demoIssues {
		if _, err := s.AddIssue(ctx, n); err != nil {
			return fmt.Errorf("seeding issue %q: %w", n.Title, err)
		}
	}

	feedback := [][2]string{
		{"Thandi N.", "The new reporting page is easy to use."},
		{"Johan B.", "Please add updates by SMS."},
	}
	for _, fb := range feedback {
		if _, err := s.AddFeedback(ctx, fb[0], fb[1]); err != nil {
			return fmt.Errorf("seeding feedback: %w", err)
		}
	}

	if _, err := s.AddAnnouncement(ctx, models.Announcement{
		Title:   "Scheduled water maintenance",
		Message: "Water supply in Wards 3 and 4 will be interrupted on Saturday from 08:00 to 14:00.",
		Author:  "Admin",
	}); err != nil {
		return fmt.Errorf("seeding announcement: %w", err)
	}

	events := []models.Event{
		{Title: "Community clean-up day", Location: "Mandela Park", Date: now.AddDate(0, 0, 7)},
		{Title: "Ward council meeting", Location: "Civic Centre", Date: now.AddDate(0, 0, 14)},
	}
	for _, e := range events {
		if _, err := s.AddEvent(ctx, e); err != nil {
			return fmt.Errorf("seeding event: %w", err)
		}
	}
	return nil
}
