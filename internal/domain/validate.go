package domain

import (
	"errors"
	"strings"

	"github.com/robfig/cron/v3"
)

// ErrValidation matches any ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError names the first constraint a record failed.
type ValidationError struct {
	Entity string
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return e.Entity + " " + e.Field + " " + e.Reason
}

func (e ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError builds a ValidationError for callers outside the entity model.
func NewValidationError(entity, field, reason string) error {
	return ValidationError{Entity: entity, Field: field, Reason: reason}
}

// rule checks one constraint of an entity; rules run in declaration order.
type rule func(entity string) error

func validate(entity string, rules ...rule) error {
	for _, r := range rules {
		if err := r(entity); err != nil {
			return err
		}
	}
	return nil
}

func required(field, value string) rule {
	return func(entity string) error {
		if strings.TrimSpace(value) == "" {
			return ValidationError{Entity: entity, Field: field, Reason: "is required"}
		}
		return nil
	}
}

func oneOf(field, value string, allowed []string) rule {
	return func(entity string) error {
		if contains(allowed, value) {
			return nil
		}
		return ValidationError{Entity: entity, Field: field, Reason: "must be " + humanList(allowed, false)}
	}
}

// nullableOneOf accepts nil or empty as absent.
func nullableOneOf(field string, value *string, allowed []string) rule {
	return func(entity string) error {
		if value == nil || *value == "" || contains(allowed, *value) {
			return nil
		}
		return ValidationError{Entity: entity, Field: field, Reason: "must be " + humanList(allowed, true)}
	}
}

func distinct(field string, values []string) rule {
	return func(entity string) error {
		seen := make(map[string]struct{}, len(values))
		for _, v := range values {
			if _, ok := seen[v]; ok {
				return ValidationError{Entity: entity, Field: field, Reason: "must not contain duplicates"}
			}
			seen[v] = struct{}{}
		}
		return nil
	}
}

// Schedules use the classic five fields: minute hour day-of-month month day-of-week.
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

func cronExpression(field string, value *string) rule {
	return func(entity string) error {
		if value == nil || *value == "" {
			return nil
		}
		if _, err := scheduleParser.Parse(*value); err != nil {
			return ValidationError{Entity: entity, Field: field, Reason: "is not a valid 5-field cron expression"}
		}
		return nil
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// humanList renders "a, b, or c", appending null for nullable fields.
func humanList(values []string, nullable bool) string {
	items := append([]string{}, values...)
	if nullable {
		items = append(items, "null")
	}
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	}
	return strings.Join(items[:len(items)-1], ", ") + ", or " + items[len(items)-1]
}
