// Package validation checks custom-field values and field definitions.
//
// Every function here is pure: it reads the field definition and the candidate
// value and returns either the coerced models.Value or an *apperr.ValidationError.
// The same checks run on create and update paths.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"asset-catalog/internal/apperr"
	"asset-catalog/internal/models"

	"github.com/go-playground/validator/v10"
)

var (
	slugRegex  = regexp.MustCompile(`^[a-z][a-z0-9_]{0,99}$`)
	phoneRegex = regexp.MustCompile(`^\+?[\d\s\-\(\)\.]{7,20}$`)
)

// Validator validates values against AssetTypeField definitions.
type Validator struct {
	formats *validator.Validate
}

func New() *Validator {
	formats := validator.New(validator.WithRequiredStructEnabled())
	formats.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{formats: formats}
}

// Struct checks the `validate` tags of a request struct and reports failures
// under their JSON names.
func (v *Validator) Struct(s any) error {
	err := v.formats.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	verr := &apperr.ValidationError{}
	for _, fe := range fieldErrs {
		verr.Add(fe.Field(), describe(fe))
	}
	return verr
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "ip":
		return "invalid ip address"
	case "mac":
		return "invalid mac address"
	case "hostname_rfc1123":
		return "invalid hostname"
	case "min", "gte":
		return "must be at least " + fe.Param()
	case "max", "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return fmt.Sprintf("failed %s check", fe.Tag())
}

// Validate checks one raw value against def and returns the coerced value.
// The required flag is not checked here; see ValidateValues.
func (v *Validator) Validate(def models.AssetTypeField, raw any) (models.Value, error) {
	val, msg := v.coerce(def, raw)
	if msg != "" {
		return models.Value{}, apperr.Invalid(def.Slug, "%s", msg)
	}
	return val, nil
}

func (v *Validator) coerce(def models.AssetTypeField, raw any) (models.Value, string) {
	switch def.Kind {
	case models.KindText, models.KindTextarea:
		s, ok := raw.(string)
		if !ok {
			return models.Value{}, "expected a string"
		}
		if def.Pattern != "" {
			re, err := fullMatch(def.Pattern)
			if err != nil {
				return models.Value{}, "field pattern is invalid"
			}
			if !re.MatchString(s) {
				return models.Value{}, fmt.Sprintf("value does not match pattern %q", def.Pattern)
			}
		}
		return models.StringValue(def.Kind, s), ""

	case models.KindNumber, models.KindDecimal:
		f, ok := toFloat(raw)
		if !ok {
			return models.Value{}, "expected a number"
		}
		if def.Kind == models.KindNumber && f != math.Trunc(f) {
			return models.Value{}, "expected a whole number"
		}
		if def.MinValue != nil && f < *def.MinValue {
			return models.Value{}, fmt.Sprintf("must be at least %s", formatFloat(*def.MinValue))
		}
		if def.MaxValue != nil && f > *def.MaxValue {
			return models.Value{}, fmt.Sprintf("must be at most %s", formatFloat(*def.MaxValue))
		}
		return models.NumberValue(def.Kind, f), ""

	case models.KindDate, models.KindDateTime:
		layout, want := models.DateTimeLayout, "an RFC 3339 datetime"
		if def.Kind == models.KindDate {
			layout, want = models.DateLayout, "a date formatted YYYY-MM-DD"
		}
		switch t := raw.(type) {
		case time.Time:
			return models.TimeValue(def.Kind, t), ""
		case string:
			parsed, err := time.Parse(layout, strings.TrimSpace(t))
			if err != nil {
				return models.Value{}, "expected " + want
			}
			return models.TimeValue(def.Kind, parsed), ""
		}
		return models.Value{}, "expected " + want

	case models.KindBoolean:
		switch b := raw.(type) {
		case bool:
			return models.BoolValue(b), ""
		case string:
			switch b {
			case "true":
				return models.BoolValue(true), ""
			case "false":
				return models.BoolValue(false), ""
			}
		}
		return models.Value{}, "expected true or false"

	case models.KindDropdown:
		s, ok := raw.(string)
		if !ok {
			return models.Value{}, "expected one of the configured options"
		}
		for _, opt := range def.Options {
			if opt == s {
				return models.StringValue(def.Kind, s), ""
			}
		}
		return models.Value{}, fmt.Sprintf("%q is not one of the configured options", s)

	case models.KindURL, models.KindEmail, models.KindIP, models.KindMAC, models.KindPhone:
		s, ok := raw.(string)
		if !ok {
			return models.Value{}, "expected a string"
		}
		s = strings.TrimSpace(s)
		if !v.validFormat(def.Kind, s) {
			return models.Value{}, fmt.Sprintf("invalid %s format", def.Kind)
		}
		return models.StringValue(def.Kind, s), ""
	}

	return models.Value{}, fmt.Sprintf("unsupported field kind %q", def.Kind)
}

func (v *Validator) validFormat(kind models.FieldKind, s string) bool {
	var tag string
	switch kind {
	case models.KindPhone:
		return phoneRegex.MatchString(s)
	case models.KindURL:
		tag = "url"
	case models.KindEmail:
		tag = "email"
	case models.KindIP:
		tag = "ip"
	case models.KindMAC:
		tag = "mac"
	}
	return v.formats.Var(s, "required,"+tag) == nil
}

// ValidateValues applies a payload to current and returns the resulting mapping.
// current is the stored mapping (nil on create). A nil or blank payload value
// removes the key. Keys of fields that no longer exist may stay in current but
// cannot be written. Required fields are checked against the merged result.
func (v *Validator) ValidateValues(defs []models.AssetTypeField, payload map[string]any, current models.FieldValues) (models.FieldValues, error) {
	result := current.Clone()
	bySlug := make(map[string]models.AssetTypeField, len(defs))
	for _, d := range defs {
		bySlug[d.Slug] = d
	}

	verr := &apperr.ValidationError{}
	for _, slug := range sortedKeys(payload) {
		raw := payload[slug]
		def, ok := bySlug[slug]
		if !ok {
			// Leftovers of a deleted field can still be cleared.
			if _, stored := result[slug]; stored && isBlank(raw) {
				delete(result, slug)
				continue
			}
			verr.Add(slug, "unknown field")
			continue
		}
		if isBlank(raw) {
			delete(result, slug)
			continue
		}
		val, msg := v.coerce(def, raw)
		if msg != "" {
			verr.Add(slug, msg)
			continue
		}
		result[slug] = val
	}

	for _, d := range defs {
		if !d.Required {
			continue
		}
		if _, ok := result[d.Slug]; !ok {
			if _, failed := payload[d.Slug]; failed && !isBlank(payload[d.Slug]) {
				continue
			}
			verr.Add(d.Slug, "required field is missing")
		}
	}

	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}
	return result, nil
}

// ValidateDefinition checks that a field definition is well formed and that only
// the constraint block of its kind is populated.
func (v *Validator) ValidateDefinition(def models.AssetTypeField) error {
	verr := &apperr.ValidationError{}

	if strings.TrimSpace(def.Name) == "" {
		verr.Add("name", "name is required")
	}
	if !slugRegex.MatchString(def.Slug) {
		verr.Add("slug", "slug must start with a letter and contain only lowercase letters, digits and underscores")
	}
	if !def.Kind.Valid() {
		verr.Addf("kind", "unknown field kind %q", def.Kind)
		return verr
	}

	hasOptions := len(def.Options) > 0
	hasBounds := def.MinValue != nil || def.MaxValue != nil
	hasPattern := def.Pattern != ""

	switch {
	case def.Kind == models.KindDropdown:
		if !hasOptions {
			verr.Add("options", "dropdown fields need at least one option")
		}
		seen := make(map[string]struct{}, len(def.Options))
		for _, opt := range def.Options {
			if strings.TrimSpace(opt) == "" {
				verr.Add("options", "options must not be blank")
				break
			}
			if _, dup := seen[opt]; dup {
				verr.Addf("options", "duplicate option %q", opt)
				break
			}
			seen[opt] = struct{}{}
		}
	case hasOptions:
		verr.Addf("options", "options are only allowed on dropdown fields")
	}

	switch {
	case def.Kind.Numeric():
		if def.MinValue != nil && def.MaxValue != nil && *def.MinValue > *def.MaxValue {
			verr.Add("min_value", "min_value must not exceed max_value")
		}
	case hasBounds:
		verr.Add("min_value", "bounds are only allowed on number and decimal fields")
	}

	switch {
	case def.Kind.TextLike():
		if hasPattern {
			if _, err := fullMatch(def.Pattern); err != nil {
				verr.Addf("pattern", "invalid pattern: %v", err)
			}
		}
	case hasPattern:
		verr.Add("pattern", "patterns are only allowed on text fields")
	}

	return verr.ErrOrNil()
}

// ValidSlug reports whether s can be used as a field or asset type slug.
func ValidSlug(s string) bool { return slugRegex.MatchString(s) }

func fullMatch(pattern string) (*regexp.Regexp, error) {
	return regexp.Compile(`^(?:` + pattern + `)$`)
}

func toFloat(raw any) (float64, bool) {
	var f float64
	switch n := raw.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case int32:
		f = float64(n)
	case uint:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func isBlank(raw any) bool {
	if raw == nil {
		return true
	}
	s, ok := raw.(string)
	return ok && strings.TrimSpace(s) == ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
