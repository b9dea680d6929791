package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"civicsync-dashboard/models"
	"civicsync-dashboard/query"
)

// RegisterValidators adds the enum tags used in request bindings to gin's
// validator.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	validations := map[string]validator.Func{
		"issue_status": func(fl validator.FieldLevel) bool {
			return models.IssueStatus(fl.Field().String()).Valid()
		},
		"issue_category": func(fl validator.FieldLevel) bool {
			return models.IssueCategory(fl.Field().String()).Valid()
		},
		"issue_priority": func(fl validator.FieldLevel) bool {
			return models.IssuePriority(fl.Field().String()).Valid()
		},
		"filter_dimension": func(fl validator.FieldLevel) bool {
			switch query.Dimension(fl.Field().String()) {
			case query.DimensionCategory, query.DimensionPriority, query.DimensionStatus:
				return true
			}
			return false
		},
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// validDimensionValue reports whether value belongs to dim's enum.
func validDimensionValue(dim query.Dimension, value string) bool {
	switch dim {
	case query.DimensionCategory:
		return models.IssueCategory(value).Valid()
	case query.DimensionPriority:
		return models.IssuePriority(value).Valid()
	case query.DimensionStatus:
		return models.IssueStatus(value).Valid()
	}
	return false
}
