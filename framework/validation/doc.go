// Package validation checks values against Laravel style rule strings and
// against the nullable and validator annotations of package metadata.
//
// # Basic Usage
//
//	v := validation.Make(map[string]any{
//	    "name":  "Alice",
//	    "email": "alice@example.com",
//	}, validation.Rules{
//	    "name":  "required|min:2|max:100",
//	    "email": "required|email",
//	})
//
//	if v.Fails() {
//	    // v.Errors() returns *Errors with Bag map[string][]string
//	    // JSON: {"errors": {"field": ["message1", "message2"]}}
//	}
//
// Rules are translated to go-playground/validator tags and executed by it.
//
// # Annotated Objects
//
//	type Release struct {
//	    ID      string  `validate:"uuid"`
//	    Version string
//	    Notes   *string `nullable:""`
//	}
//
//	metadata.For[Release](nil).Validator("Version", validation.CheckSemVer)
//
//	err := validation.Validate(nil, &release)
//
// Every exported field must hold a value unless marked nullable; zero
// numbers and false count as values. Validator functions may rewrite the
// value they check.
//
// # Available Rules
//
// String rules:
//   - required: field must be present and non-empty
//   - string: passes (Go values are already typed)
//   - min:n: at least n characters (strings) or n (numbers)
//   - max:n: at most n characters (strings) or n (numbers)
//   - size:n: exactly n characters
//   - between:min,max: min and max together
//   - alpha: letters only [a-zA-Z]
//   - alpha_num: letters and numbers [a-zA-Z0-9]
//   - alpha_dash: letters, numbers, dashes, underscores
//
// Format rules:
//   - email, url, uuid, ip, json, semver
//
// Numeric rules:
//   - numeric: a number or a numeric string
//   - integer: a whole number or a whole-number string
//   - gt:n, gte:n, lt:n, lte:n
//
// Type rules:
//   - boolean: true/false/1/0/yes/no (case-insensitive)
//   - in:a,b,c: value must be in the comma-separated list
//   - not_in:a,b,c: value must NOT be in the comma-separated list
//
// Control rules:
//   - nullable, sometimes: empty or missing values skip the other rules
//
// # Error Bag
//
// Errors are stored in a MessageBag that serialises to the same JSON structure
// as Laravel's validation errors:
//
//	{
//	  "errors": {
//	    "email": ["The email field is required."],
//	    "age":   ["The age must be greater than or equal to 18."]
//	  }
//	}
package validation
