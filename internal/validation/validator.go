// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package validation checks request structs with go-playground/validator and
// converts failures into apperr errors keyed by JSON field name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"folio/internal/apperr"
)

// usernamePattern is the accepted shape of usernames: a letter followed by
// letters, digits, dots or underscores.
var usernamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.]*$`)

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator with the "username" tag registered and JSON tag
// names used in error details.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate checks s. A failed "required" rule yields a MissingArgument error
// naming the first missing field; any other failure yields a Validation
// error. Both carry a field → message map as details.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperr.Validation(err.Error())
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	missing := ""
	for _, e := range validationErrs {
		fieldErrors[e.Field()] = friendlyMessage(e)
		if e.Tag() == "required" && missing == "" {
			missing = e.Field()
		}
	}

	if missing != "" {
		return apperr.MissingArgument(missing).WithDetails(fieldErrors)
	}
	return apperr.ValidationWithDetails("validation failed", fieldErrors)
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "url":
		return "must be a valid URL"
	case "username":
		return "must start with a letter and contain only letters, numbers, dots or underscores"
	case "eqfield":
		return "must match " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	default:
		return "is invalid"
	}
}
