package models

import (
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the enum tags used in request bindings:
// issuecategory, issueurgency, issuestatus and feedbackstatus.
func RegisterValidators(v *validator.Validate) error {
	tags := map[string]func(string) error{
		"issuecategory": func(s string) error { _, err := ParseCategory(s); return err },
		"issueurgency":  func(s string) error { _, err := ParseUrgency(s); return err },
		"issuestatus":   func(s string) error { _, err := ParseStatus(s); return err },
		"feedbackstatus": func(s string) error {
			_, err := ParseFeedbackStatus(s)
			return err
		},
	}
	for tag, parse := range tags {
		parse := parse // per-iteration copy; go directive is 1.21
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return parse(fl.Field().String()) == nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
