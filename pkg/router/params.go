package router

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

// ParamParser decodes captured parameters into typed struct fields.
type ParamParser struct{}

// NewParamParser creates a new parameter parser.
func NewParamParser() *ParamParser {
	return &ParamParser{}
}

// Parse populates a struct with values captured by a match. The target
// must be a pointer to a struct with `param` tags naming pattern
// parameters. A []string field tagged with the catch-all name receives
// the splat components.
func (p *ParamParser) Parse(res *MatchResult, target any) error {
	if res == nil || target == nil {
		return nil
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("target must be a pointer, got %s", v.Kind())
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("target must be a pointer to struct, got pointer to %s", v.Kind())
	}

	catchAll := ""
	if res.Route != nil {
		catchAll = res.Route.Pattern.CatchAllName()
	}

	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		paramName := field.Tag.Get("param")
		if paramName == "" {
			continue
		}

		value, ok := res.Params[paramName]
		if !ok {
			continue
		}

		fieldValue := v.Field(i)
		if !fieldValue.CanSet() {
			continue
		}

		if fieldValue.Kind() == reflect.Slice && paramName == catchAll {
			if fieldValue.Type().Elem().Kind() != reflect.String {
				return fmt.Errorf("parsing param %q: unsupported slice element type: %s", paramName, fieldValue.Type().Elem().Kind())
			}
			fieldValue.Set(reflect.ValueOf(append([]string(nil), res.Splat...)))
			continue
		}

		if err := p.setField(fieldValue, value); err != nil {
			return fmt.Errorf("parsing param %q: %w", paramName, err)
		}
	}

	return nil
}

// setField sets a field value from a string.
func (p *ParamParser) setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %s", value)
		}
		field.SetInt(n)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", value)
		}
		field.SetUint(n)

	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float: %s", value)
		}
		field.SetFloat(n)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %s", value)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice element type: %s", field.Type().Elem().Kind())
		}
		var parts []string
		if value != "" {
			parts = strings.Split(value, "/")
		}
		field.Set(reflect.ValueOf(parts))

	default:
		return fmt.Errorf("unsupported type: %s", field.Kind())
	}

	return nil
}

// InferParamType guesses a Go type for a parameter from its name,
// following common naming conventions. The generator uses this to type
// the emitted params structs.
func InferParamType(name string) string {
	lower := strings.ToLower(name)

	// UUID names stay strings; checked before the id suffix rules
	// since "uuid" ends in "id".
	if lower == "uuid" || strings.HasSuffix(lower, "uuid") {
		return "string"
	}

	if lower == "id" || strings.HasSuffix(lower, "id") || strings.HasSuffix(lower, "_id") {
		return "int"
	}

	switch lower {
	case "page", "limit", "offset", "count", "index", "num", "number", "year", "month", "day":
		return "int"
	}

	return "string"
}

// uuidRegex matches canonical 8-4-4-4-12 UUIDs.
var uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

// ValidateUUID validates that a string is a valid UUID.
func ValidateUUID(value string) error {
	if !uuidRegex.MatchString(value) {
		return fmt.Errorf("invalid UUID: %s", value)
	}
	return nil
}

// ValidateInt validates that a string is a valid integer.
func ValidateInt(value string) error {
	if _, err := strconv.ParseInt(value, 10, 64); err != nil {
		return fmt.Errorf("invalid integer: %s", value)
	}
	return nil
}

// ValidateParam validates a captured value against an expected type
// name. Unknown types accept any value.
func ValidateParam(value, paramType string) error {
	switch paramType {
	case "int", "int64", "int32", "int16", "int8":
		return ValidateInt(value)
	case "uint", "uint64", "uint32", "uint16", "uint8":
		if _, err := strconv.ParseUint(value, 10, 64); err != nil {
			return fmt.Errorf("invalid unsigned integer: %s", value)
		}
	case "uuid":
		return ValidateUUID(value)
	}
	return nil
}
