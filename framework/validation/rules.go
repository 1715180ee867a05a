package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var alphaDash = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validate is shared; validator/v10 caches parsed tags per instance.
var validate = newValidate()

var truthy = map[string]bool{"true": true, "false": true, "1": true, "0": true, "yes": true, "no": true}

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	custom := map[string]validator.Func{
		"alpha_dash": func(fl validator.FieldLevel) bool {
			return alphaDash.MatchString(fl.Field().String())
		},
		// Signed whole numbers, as strings or integer kinds.
		"integer": func(fl validator.FieldLevel) bool {
			f := fl.Field()
			switch {
			case f.CanInt(), f.CanUint():
				return true
			case f.Kind() == reflect.String:
				_, err := strconv.Atoi(f.String())
				return err == nil
			}
			return false
		},
		// true/false/1/0/yes/no in any case, or a bool.
		"truthy": func(fl validator.FieldLevel) bool {
			f := fl.Field()
			if f.Kind() == reflect.Bool {
				return true
			}
			return f.Kind() == reflect.String && truthy[strings.ToLower(f.String())]
		},
	}
	for tag, fn := range custom {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return v
}

// ruleTags maps a rule name to its validator/v10 tag. Rules with a ":param"
// suffix keep the parameter as "=param".
var ruleTags = map[string]string{
	"required":   "required",
	"numeric":    "numeric",
	"integer":    "integer",
	"boolean":    "truthy",
	"email":      "email",
	"url":        "url",
	"uuid":       "uuid",
	"ip":         "ip",
	"json":       "json",
	"semver":     "semver",
	"alpha":      "alpha",
	"alpha_num":  "alphanum",
	"alpha_dash": "alpha_dash",
	"min":        "min",
	"max":        "max",
	"size":       "len",
	"gt":         "gt",
	"gte":        "gte",
	"lt":         "lt",
	"lte":        "lte",
}

// Translate turns a pipe separated rule string such as
// "required|email|min:2" into a validator/v10 tag ("required,email,min=2").
func Translate(rules string) (string, error) {
	var tags []string
	optional := false

	for _, rule := range strings.Split(rules, "|") {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		name, param, _ := strings.Cut(rule, ":")

		switch name {
		case "string":
			// Go values are already typed.
		case "nullable", "sometimes":
			optional = true
		case "between":
			lo, hi, ok := strings.Cut(param, ",")
			if !ok {
				return "", fmt.Errorf("validation: between needs two parameters, got %q", param)
			}
			tags = append(tags, "min="+strings.TrimSpace(lo), "max="+strings.TrimSpace(hi))
		case "in":
			tags = append(tags, "oneof="+strings.Join(splitList(param), " "))
		case "not_in":
			for _, p := range splitList(param) {
				tags = append(tags, "ne="+p)
			}
		default:
			tag, ok := ruleTags[name]
			if !ok {
				return "", fmt.Errorf("validation: unsupported rule %q", name)
			}
			if param != "" {
				tag += "=" + param
			}
			tags = append(tags, tag)
		}
	}

	if optional {
		tags = append([]string{"omitempty"}, tags...)
	}
	return strings.Join(tags, ","), nil
}

func splitList(param string) []string {
	parts := strings.Split(param, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// message renders a failed validator/v10 check the Laravel way.
func message(field string, fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "numeric", "number":
		return fmt.Sprintf("The %s must be a number.", field)
	case "integer":
		return fmt.Sprintf("The %s must be an integer.", field)
	case "truthy":
		return fmt.Sprintf("The %s field must be true or false.", field)
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", field)
	case "url":
		return fmt.Sprintf("The %s must be a valid URL.", field)
	case "uuid":
		return fmt.Sprintf("The %s must be a valid UUID.", field)
	case "ip":
		return fmt.Sprintf("The %s must be a valid IP address.", field)
	case "json":
		return fmt.Sprintf("The %s must be a valid JSON string.", field)
	case "semver":
		return fmt.Sprintf("The %s must be a valid semantic version.", field)
	case "min":
		return fmt.Sprintf("The %s must be at least %s%s.", field, fe.Param(), unit)
	case "max":
		return fmt.Sprintf("The %s may not be greater than %s%s.", field, fe.Param(), unit)
	case "len":
		return fmt.Sprintf("The %s must be %s%s.", field, fe.Param(), unit)
	case "oneof", "ne":
		return fmt.Sprintf("The selected %s is invalid.", field)
	case "alpha":
		return fmt.Sprintf("The %s may only contain letters.", field)
	case "alphanum":
		return fmt.Sprintf("The %s may only contain letters and numbers.", field)
	case "alpha_dash":
		return fmt.Sprintf("The %s may only contain letters, numbers, dashes and underscores.", field)
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", field, fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be greater than or equal to %s.", field, fe.Param())
	case "lt":
		return fmt.Sprintf("The %s must be less than %s.", field, fe.Param())
	case "lte":
		return fmt.Sprintf("The %s must be less than or equal to %s.", field, fe.Param())
	default:
		return fmt.Sprintf("The %s format is invalid.", field)
	}
}

// check runs tag against value and records every failure under field.
func check(errs *Errors, field string, value any, tag string) {
	if tag == "" {
		return
	}
	if s, ok := value.(string); ok {
		value = strings.TrimSpace(s)
	}
	err := validate.Var(value, tag)
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.add(field, fmt.Sprintf("The %s format is invalid.", field))
		return
	}
	for _, fe := range verrs {
		errs.add(field, message(field, fe))
	}
}
