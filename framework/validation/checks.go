package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/km-arc/go-objectfactory/framework/metadata"
)

// Check builds a validator function from a predicate. The value is kept
// as is when pred holds; otherwise msg is the error.
func Check(pred func(any) bool, msg string) metadata.ValidatorFunc {
	return func(value any) (any, error) {
		if !pred(value) {
			return nil, errors.New(msg)
		}
		return value, nil
	}
}

// Rule builds a validator function from a rule string.
//
//	metadata.For[User](nil).Validator("Email", validation.Rule("email|max:255"))
func Rule(rules string) metadata.ValidatorFunc {
	tag, err := Translate(rules)
	return func(value any) (any, error) {
		if err != nil {
			return nil, err
		}
		if validate.Var(value, tag) != nil {
			return nil, fmt.Errorf("Value does not satisfy %s.", rules)
		}
		return value, nil
	}
}

func tagCheck(tag, msg string) metadata.ValidatorFunc {
	return func(value any) (any, error) {
		if validate.Var(value, tag) != nil {
			return nil, errors.New(msg)
		}
		return value, nil
	}
}

var (
	// CheckUUID accepts any UUID version.
	CheckUUID = tagCheck("uuid", "Value is not a UUID.")

	CheckIP     = tagCheck("ip", "Value is not an IP address.")
	CheckJSON   = tagCheck("json", "Value is not valid JSON.")
	CheckSemVer = tagCheck("semver", "Value is not a semantic version.")
	CheckURL    = tagCheck("url", "Value is not a URL.")
)

// CheckEmail accepts an email address and returns it trimmed and lower
// cased.
func CheckEmail(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("Value is a %T, not a string.", value)
	}
	s = strings.ToLower(strings.TrimSpace(s))
	if validate.Var(s, "email") != nil {
		return nil, errors.New("Value is not an email address.")
	}
	return s, nil
}

// CheckNotEmpty rejects blank strings and returns the value trimmed.
func CheckNotEmpty(value any) (any, error) {
	s, ok := value.(string)
	if !ok {
		return value, nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("Value cannot be blank.")
	}
	return s, nil
}
