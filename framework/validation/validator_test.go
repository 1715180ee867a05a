package validation_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/km-arc/go-objectfactory/framework/validation"
)

// ── helpers ──────────────────────────────────────────────────────────────────

// pass asserts the validator passes for the given data/rules.
func pass(t *testing.T, label string, data map[string]any, rules validation.Rules) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		v := validation.Make(data, rules)
		if v.Fails() {
			t.Errorf("expected PASS, got FAIL, errors: %+v", v.Errors().Bag)
		}
	})
}

// fail asserts the validator fails with an error on the given field.
func fail(t *testing.T, label, field string, data map[string]any, rules validation.Rules) {
	t.Helper()
	t.Run(label, func(t *testing.T) {
		v := validation.Make(data, rules)
		if v.Passes() {
			t.Errorf("expected FAIL on field %q, but validator PASSED", field)
		}
		if v.Errors().First(field) == "" {
			t.Errorf("expected error on field %q, but none found. Errors: %+v", field, v.Errors().Bag)
		}
	})
}

// ── Translate ────────────────────────────────────────────────────────────────

func TestTranslate(t *testing.T) {
	cases := map[string]string{
		"required|email|min:2":   "required,email,min=2",
		"nullable|in:a, b":       "omitempty,oneof=a b",
		"between:4,6":            "min=4,max=6",
		"string|not_in:x,y":      "ne=x,ne=y",
		"integer|boolean|size:3": "integer,truthy,len=3",
	}
	for in, want := range cases {
		got, err := validation.Translate(in)
		if err != nil {
			t.Errorf("Translate(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("Translate(%q): got %q, want %q", in, got, want)
		}
	}
}

func TestTranslate_Unsupported(t *testing.T) {
	if _, err := validation.Translate(`regex:^\d+$`); err == nil {
		t.Error("expected error for unsupported rule")
	}
	if _, err := validation.Translate("between:4"); err == nil {
		t.Error("expected error for between with one parameter")
	}
}

// ── required ─────────────────────────────────────────────────────────────────

func TestValidation_Required(t *testing.T) {
	r := validation.Rules{"name": "required"}

	pass(t, "non-empty value", map[string]any{"name": "Alice"}, r)
	fail(t, "empty string", "name", map[string]any{"name": ""}, r)
	fail(t, "whitespace only", "name", map[string]any{"name": "   "}, r)
	fail(t, "missing key", "name", map[string]any{}, r)
}

func TestValidation_Required_MessageFormat(t *testing.T) {
	v := validation.Make(map[string]any{"name": ""}, validation.Rules{"name": "required"})
	_ = v.Fails()
	msg := v.Errors().First("name")
	expected := "The name field is required."
	if msg != expected {
		t.Errorf("message: got %q want %q", msg, expected)
	}
}

// ── email ─────────────────────────────────────────────────────────────────────

func TestValidation_Email(t *testing.T) {
	r := validation.Rules{"email": "email"}

	pass(t, "valid email", map[string]any{"email": "user@example.com"}, r)
	pass(t, "valid email with subdomain", map[string]any{"email": "user@mail.example.co.uk"}, r)
	fail(t, "no @ sign", "email", map[string]any{"email": "notanemail"}, r)
	fail(t, "no domain", "email", map[string]any{"email": "user@"}, r)
}

// ── min / max / size / between ───────────────────────────────────────────────

func TestValidation_Min(t *testing.T) {
	r := validation.Rules{"name": "min:3"}

	pass(t, "exactly 3", map[string]any{"name": "abc"}, r)
	pass(t, "more than 3", map[string]any{"name": "abcde"}, r)
	fail(t, "less than 3", "name", map[string]any{"name": "ab"}, r)
	fail(t, "empty", "name", map[string]any{"name": ""}, r)
}

func TestValidation_Min_MessageFormat(t *testing.T) {
	v := validation.Make(map[string]any{"name": "ab"}, validation.Rules{"name": "min:3"})
	_ = v.Fails()
	if got, want := v.Errors().First("name"), "The name must be at least 3 characters."; got != want {
		t.Errorf("message: got %q want %q", got, want)
	}
}

func TestValidation_Max(t *testing.T) {
	r := validation.Rules{"bio": "max:5"}

	pass(t, "exactly 5", map[string]any{"bio": "hello"}, r)
	pass(t, "less than 5", map[string]any{"bio": "hi"}, r)
	fail(t, "more than 5", "bio", map[string]any{"bio": "toolong"}, r)
}

func TestValidation_Size(t *testing.T) {
	r := validation.Rules{"code": "size:4"}

	pass(t, "exactly 4", map[string]any{"code": "1234"}, r)
	fail(t, "too short", "code", map[string]any{"code": "123"}, r)
	fail(t, "too long", "code", map[string]any{"code": "12345"}, r)
}

func TestValidation_Between(t *testing.T) {
	r := validation.Rules{"pin": "between:4,6"}

	pass(t, "min boundary", map[string]any{"pin": "1234"}, r)
	pass(t, "max boundary", map[string]any{"pin": "123456"}, r)
	pass(t, "middle", map[string]any{"pin": "12345"}, r)
	fail(t, "too short", "pin", map[string]any{"pin": "123"}, r)
	fail(t, "too long", "pin", map[string]any{"pin": "1234567"}, r)
}

// ── Unicode character counting ────────────────────────────────────────────────

func TestValidation_Min_Unicode(t *testing.T) {
	// "日本語" = 3 runes, min:3 should pass
	pass(t, "unicode rune count", map[string]any{"name": "日本語"}, validation.Rules{"name": "min:3"})
	fail(t, "unicode rune count too short", "name", map[string]any{"name": "日本"}, validation.Rules{"name": "min:3"})
}

// ── numeric / integer / boolean ───────────────────────────────────────────────

func TestValidation_Numeric(t *testing.T) {
	r := validation.Rules{"amount": "numeric"}

	pass(t, "integer", map[string]any{"amount": "42"}, r)
	pass(t, "float", map[string]any{"amount": "3.14"}, r)
	pass(t, "negative", map[string]any{"amount": "-5.5"}, r)
	pass(t, "number value", map[string]any{"amount": 2.5}, r)
	fail(t, "string", "amount", map[string]any{"amount": "abc"}, r)
	fail(t, "mixed", "amount", map[string]any{"amount": "12abc"}, r)
}

func TestValidation_Integer(t *testing.T) {
	r := validation.Rules{"count": "integer"}

	pass(t, "positive int", map[string]any{"count": "10"}, r)
	pass(t, "negative int", map[string]any{"count": "-3"}, r)
	pass(t, "int value", map[string]any{"count": 7}, r)
	fail(t, "float", "count", map[string]any{"count": "3.14"}, r)
	fail(t, "string", "count", map[string]any{"count": "abc"}, r)
}

func TestValidation_Boolean(t *testing.T) {
	r := validation.Rules{"active": "boolean"}

	for _, v := range []string{"true", "false", "1", "0", "yes", "no", "True", "False"} {
		pass(t, "boolean "+v, map[string]any{"active": v}, r)
	}
	pass(t, "bool value", map[string]any{"active": false}, r)
	fail(t, "invalid bool", "active", map[string]any{"active": "maybe"}, r)
}

// ── in / not_in ───────────────────────────────────────────────────────────────

func TestValidation_In(t *testing.T) {
	r := validation.Rules{"role": "in:admin,editor,viewer"}

	pass(t, "admin", map[string]any{"role": "admin"}, r)
	pass(t, "editor", map[string]any{"role": "editor"}, r)
	fail(t, "superuser not in list", "role", map[string]any{"role": "superuser"}, r)
	fail(t, "empty not in list", "role", map[string]any{"role": ""}, r)
}

func TestValidation_NotIn(t *testing.T) {
	r := validation.Rules{"status": "not_in:banned,suspended"}

	pass(t, "active", map[string]any{"status": "active"}, r)
	fail(t, "banned", "status", map[string]any{"status": "banned"}, r)
	fail(t, "suspended", "status", map[string]any{"status": "suspended"}, r)
}

// ── alpha / alpha_num / alpha_dash ────────────────────────────────────────────

func TestValidation_Alpha(t *testing.T) {
	r := validation.Rules{"name": "alpha"}

	pass(t, "letters only", map[string]any{"name": "HelloWorld"}, r)
	fail(t, "with numbers", "name", map[string]any{"name": "hello123"}, r)
	fail(t, "with spaces", "name", map[string]any{"name": "hello world"}, r)
}

func TestValidation_AlphaNum(t *testing.T) {
	r := validation.Rules{"slug": "alpha_num"}

	pass(t, "letters and numbers", map[string]any{"slug": "user123"}, r)
	fail(t, "with dash", "slug", map[string]any{"slug": "user-123"}, r)
	fail(t, "with space", "slug", map[string]any{"slug": "user 123"}, r)
}

func TestValidation_AlphaDash(t *testing.T) {
	r := validation.Rules{"slug": "alpha_dash"}

	pass(t, "letters-numbers_underscore", map[string]any{"slug": "user_name-123"}, r)
	fail(t, "with space", "slug", map[string]any{"slug": "user name"}, r)
	fail(t, "with dot", "slug", map[string]any{"slug": "user.name"}, r)
}

// ── url ───────────────────────────────────────────────────────────────────────

func TestValidation_URL(t *testing.T) {
	r := validation.Rules{"website": "url"}

	pass(t, "http", map[string]any{"website": "http://example.com"}, r)
	pass(t, "https", map[string]any{"website": "https://example.com/path?q=1"}, r)
	fail(t, "no protocol", "website", map[string]any{"website": "example.com"}, r)
}

// ── gt / gte / lt / lte ───────────────────────────────────────────────────────

func TestValidation_GT(t *testing.T) {
	r := validation.Rules{"age": "gt:18"}

	pass(t, "19 > 18", map[string]any{"age": 19}, r)
	fail(t, "18 not > 18", "age", map[string]any{"age": 18}, r)
	fail(t, "17 not > 18", "age", map[string]any{"age": 17}, r)
}

func TestValidation_GTE(t *testing.T) {
	r := validation.Rules{"age": "gte:18"}

	pass(t, "18 >= 18", map[string]any{"age": 18}, r)
	pass(t, "19 >= 18", map[string]any{"age": 19}, r)
	fail(t, "17 not >= 18", "age", map[string]any{"age": 17}, r)
}

func TestValidation_LT(t *testing.T) {
	r := validation.Rules{"score": "lt:100"}

	pass(t, "99 < 100", map[string]any{"score": 99}, r)
	fail(t, "100 not < 100", "score", map[string]any{"score": 100}, r)
}

func TestValidation_LTE(t *testing.T) {
	r := validation.Rules{"score": "lte:100"}

	pass(t, "100 <= 100", map[string]any{"score": 100}, r)
	pass(t, "99 <= 100", map[string]any{"score": 99}, r)
	fail(t, "101 not <= 100", "score", map[string]any{"score": 101}, r)
}

// ── nullable / sometimes ──────────────────────────────────────────────────────

func TestValidation_Nullable(t *testing.T) {
	r := validation.Rules{"bio": "nullable|min:10"}
	pass(t, "empty with nullable", map[string]any{"bio": ""}, r)
	fail(t, "short with nullable", "bio", map[string]any{"bio": "short"}, r)
}

func TestValidation_Sometimes(t *testing.T) {
	r := validation.Rules{"nickname": "sometimes|min:3"}
	// field absent, should not produce errors
	pass(t, "absent field with sometimes", map[string]any{}, r)
	// field present and valid
	pass(t, "present and valid", map[string]any{"nickname": "coolname"}, r)
}

// ── Unsupported rules ─────────────────────────────────────────────────────────

func TestValidation_UnsupportedRuleFails(t *testing.T) {
	v := validation.Make(map[string]any{"zip": "12345"}, validation.Rules{"zip": `regex:^\d{5}$`})
	if v.Passes() {
		t.Fatal("expected unsupported rule to fail")
	}
	if msg := v.Errors().First("zip"); !strings.Contains(msg, "unsupported rule") {
		t.Errorf("message: got %q", msg)
	}
}

// ── Chained / multiple rules ──────────────────────────────────────────────────

func TestValidation_Chained(t *testing.T) {
	rules := validation.Rules{
		"email":    "required|email",
		"password": "required|min:8",
		"age":      "required|integer|gte:18",
	}

	pass(t, "all valid", map[string]any{
		"email":    "user@example.com",
		"password": "secret123",
		"age":      25,
	}, rules)

	v := validation.Make(map[string]any{
		"email":    "not-an-email",
		"password": "short",
		"age":      16,
	}, rules)

	if v.Passes() {
		t.Error("expected validation to fail")
	}

	errs := v.Errors()
	for _, field := range []string{"email", "password", "age"} {
		if errs.First(field) == "" {
			t.Errorf("expected error on %s", field)
		}
	}
	if got, want := errs.First("age"), "The age must be greater than or equal to 18."; got != want {
		t.Errorf("age message: got %q want %q", got, want)
	}
}

// ── Errors bag ────────────────────────────────────────────────────────────────

func TestErrors_Has(t *testing.T) {
	v := validation.Make(map[string]any{"name": ""}, validation.Rules{"name": "required"})
	if !v.Fails() {
		t.Fatal("expected fails")
	}
	if !v.Errors().Has() {
		t.Error("Has() should be true when there are errors")
	}
}

func TestErrors_First(t *testing.T) {
	v := validation.Make(
		map[string]any{"email": "bad"},
		validation.Rules{"email": "required|email"},
	)
	_ = v.Fails()
	if v.Errors().First("email") == "" {
		t.Error("First('email') should return error message")
	}
	if v.Errors().First("nonexistent") != "" {
		t.Error("First('nonexistent') should return empty string")
	}
}

func TestErrors_Passes(t *testing.T) {
	v := validation.Make(
		map[string]any{"name": "Alice"},
		validation.Rules{"name": "required|min:2"},
	)
	if !v.Passes() {
		t.Errorf("expected Passes(), errors: %+v", v.Errors().Bag)
	}
}

// ── JSON output shape ─────────────────────────────────────────────────────────

func TestErrors_JSONShape(t *testing.T) {
	v := validation.Make(
		map[string]any{"email": ""},
		validation.Rules{"email": "required"},
	)
	_ = v.Fails()

	raw, err := json.Marshal(v.Errors())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"errors":{"email":["The email field is required."]}}`
	if string(raw) != want {
		t.Errorf("json: got %s want %s", raw, want)
	}
}
