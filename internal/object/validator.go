package object

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Validator validates drawing props against their per-type schema and
// strips HTML/scripts out of every string field.
type Validator struct {
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
}

func NewValidator() *Validator {
	return &Validator{
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// ValidateProps checks props against the schema for objType and returns a
// sanitized copy. Used on object:added, where the full property set is
// required.
func (v *Validator) ValidateProps(objType string, props map[string]interface{}) (map[string]interface{}, error) {
	if !AllowedObjectTypes[objType] {
		return nil, fmt.Errorf("invalid object type: %s", objType)
	}

	schema := schemaForType(objType)
	if schema == nil {
		return nil, fmt.Errorf("no schema for object type: %s", objType)
	}

	if err := mapToStruct(props, schema); err != nil {
		return nil, fmt.Errorf("parse object props: %w", err)
	}

	if err := v.validate.Struct(schema); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			return nil, fmt.Errorf("validation failed: %s", formatFieldError(verrs[0]))
		}
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return v.SanitizeMap(props), nil
}

// SanitizeString strips HTML/scripts from a single client-supplied string.
func (v *Validator) SanitizeString(s string) string {
	return v.sanitizer.Sanitize(s)
}

// SanitizeMap recursively sanitizes all string values in a map. Partial
// property sets on object:modified go through this without schema
// validation, since a partial set cannot satisfy required fields.
func (v *Validator) SanitizeMap(data map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(data))
	for key, value := range data {
		result[key] = v.sanitizeValue(value)
	}
	return result
}

func (v *Validator) sanitizeValue(value interface{}) interface{} {
	switch val := value.(type) {
	case string:
		return v.sanitizer.Sanitize(val)
	case map[string]interface{}:
		return v.SanitizeMap(val)
	case []interface{}:
		result := make([]interface{}, len(val))
		for i, item := range val {
			result[i] = v.sanitizeValue(item)
		}
		return result
	default:
		return value
	}
}

// mapToStruct converts a map to a typed schema struct via JSON round-trip.
func mapToStruct(data map[string]interface{}, target interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, target)
}

func formatFieldError(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", err.Field())
	case "min", "max":
		return fmt.Sprintf("'%s' value out of allowed range", err.Field())
	default:
		return fmt.Sprintf("'%s' is invalid", err.Field())
	}
}
