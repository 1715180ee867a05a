package validation_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-objectfactory/framework/metadata"
	"github.com/km-arc/go-objectfactory/framework/validation"
)

type release struct {
	ID      string `validate:"uuid"`
	Version string
	Owner   string
	Notes   *string `nullable:""`
	Build   int
	Stable  bool
}

type bundle struct {
	Name  string
	Main  *release
	Parts []release `nullable:""`
}

type baseDoc struct {
	Title string `validate:"min:3"`
}

type doc struct {
	baseDoc
	Body *string `nullable:""`
}

type node struct {
	Name string
	Next *node `nullable:""`
}

type counter struct {
	Count int
	Label string
}

func releaseStore() *metadata.Store {
	s := metadata.NewStore()
	metadata.For[release](s).
		Validator("Version", validation.CheckSemVer).
		Validator("Owner", validation.CheckEmail)
	return s
}

func validRelease() *release {
	return &release{ID: uuid.NewString(), Version: "1.0.0", Owner: "ops@example.com"}
}

func bag(t *testing.T, err error) *validation.Errors {
	t.Helper()
	require.Error(t, err)
	errs, ok := err.(*validation.Errors)
	require.True(t, ok, "want *validation.Errors, got %T", err)
	return errs
}

// ── Validate ──────────────────────────────────────────────────────────────────

func TestValidate_Passes(t *testing.T) {
	r := validRelease()
	r.Owner = "  Alice@Example.com "

	require.NoError(t, validation.Validate(releaseStore(), r))
	assert.Equal(t, "alice@example.com", r.Owner, "validator result is assigned back")
}

func TestValidate_StructValue(t *testing.T) {
	r := *validRelease()
	r.Owner = " Alice@Example.com "

	require.NoError(t, validation.Validate(releaseStore(), r))
	assert.Equal(t, " Alice@Example.com ", r.Owner, "a value copy is left untouched")

	r.Owner = "not-an-email"
	errs := bag(t, validation.Validate(releaseStore(), r))
	assert.NotEmpty(t, errs.First("Owner"))
}

func TestValidate_MissingValue(t *testing.T) {
	r := validRelease()
	r.Version = ""

	errs := bag(t, validation.Validate(releaseStore(), r))
	assert.Equal(t, "The Version field is required.", errs.First("Version"))
	assert.Len(t, errs.Bag, 1)
}

func TestValidate_RuleSet(t *testing.T) {
	r := validRelease()
	r.ID = "blah-blah"

	errs := bag(t, validation.Validate(releaseStore(), r))
	assert.Equal(t, "The ID must be a valid UUID.", errs.First("ID"))
}

func TestValidate_ValidatorFunc(t *testing.T) {
	r := validRelease()
	r.Version = "abc"

	errs := bag(t, validation.Validate(releaseStore(), r))
	assert.Equal(t, "The Version is invalid. Value is not a semantic version.", errs.First("Version"))
}

func TestValidate_CollectsEveryField(t *testing.T) {
	errs := bag(t, validation.Validate(releaseStore(), &release{ID: "x"}))

	assert.NotEmpty(t, errs.First("ID"))
	assert.NotEmpty(t, errs.First("Version"))
	assert.NotEmpty(t, errs.First("Owner"))
	assert.Empty(t, errs.First("Notes"))
	assert.Empty(t, errs.First("Build"))
}

func TestValidate_Slice(t *testing.T) {
	bad := validRelease()
	bad.Version = ""

	errs := bag(t, validation.Validate(releaseStore(), []*release{validRelease(), bad}))
	assert.Equal(t, []string{"The 1.Version field is required."}, errs.Bag["1.Version"])
}

func TestValidate_EmbeddedAnnotations(t *testing.T) {
	s := metadata.NewStore()

	errs := bag(t, validation.Validate(s, &doc{baseDoc: baseDoc{Title: "ab"}}))
	assert.Equal(t, "The Title must be at least 3 characters.", errs.First("Title"))

	assert.NoError(t, validation.Validate(s, &doc{baseDoc: baseDoc{Title: "abc"}}))
}

func TestValidate_Recurse(t *testing.T) {
	s := releaseStore()
	primary := validRelease()
	primary.Version = ""
	b := &bundle{Name: "b", Main: primary, Parts: []release{*validRelease()}}

	assert.NoError(t, validation.Validate(s, b))

	errs := bag(t, validation.Validate(s, b, validation.Recurse()))
	assert.NotEmpty(t, errs.First("Main.Version"))
	assert.Len(t, errs.Bag, 1)
}

func TestValidate_RecurseTerminatesOnCycles(t *testing.T) {
	n := &node{Name: "a"}
	n.Next = n

	assert.NoError(t, validation.Validate(metadata.NewStore(), n, validation.Recurse()))
}

func TestValidate_RejectsNonStructs(t *testing.T) {
	s := metadata.NewStore()

	assert.Error(t, validation.Validate(s, nil))
	assert.Error(t, validation.Validate(s, 42))
	assert.Error(t, validation.Validate(s, (*release)(nil)))
}

// ── ValidateMap ───────────────────────────────────────────────────────────────

func TestValidateMap(t *testing.T) {
	s := releaseStore()

	require.NoError(t, validation.ValidateMap(s, map[string]any{
		"ID":      uuid.NewString(),
		"Version": "1.0.0",
	}, release{}))

	errs := bag(t, validation.ValidateMap(s, map[string]any{
		"Udi":     uuid.NewString(),
		"Version": "",
	}, release{}))
	assert.Equal(t, "The Version field is required.", errs.First("Version"))
	assert.Empty(t, errs.First("Udi"))

	data := map[string]any{"Owner": "BOB@example.io"}
	require.NoError(t, validation.ValidateMap(s, data, &release{}))
	assert.Equal(t, "bob@example.io", data["Owner"])

	errs = bag(t, validation.ValidateMap(s, map[string]any{"ID": 5}, release{}))
	assert.Contains(t, errs.First("ID"), "not assignable")
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func TestCheckAndRule(t *testing.T) {
	s := metadata.NewStore()
	metadata.For[counter](s).
		Validator("Count", validation.Check(func(v any) bool { return v.(int) > 0 }, "Value must be positive.")).
		Validator("Label", validation.Rule("alpha|max:5"))

	require.NoError(t, validation.Validate(s, &counter{Count: 3, Label: "abc"}))

	errs := bag(t, validation.Validate(s, &counter{Count: -1, Label: "abc123"}))
	assert.Equal(t, "The Count is invalid. Value must be positive.", errs.First("Count"))
	assert.Equal(t, "The Label is invalid. Value does not satisfy alpha|max:5.", errs.First("Label"))
}

func TestCheckHelpers(t *testing.T) {
	cases := []struct {
		name string
		fn   metadata.ValidatorFunc
		good any
		bad  any
	}{
		{"uuid", validation.CheckUUID, uuid.NewString(), "nope"},
		{"ip", validation.CheckIP, "10.0.0.1", "10.0.0"},
		{"json", validation.CheckJSON, `{"a":1}`, `{a:1}`},
		{"semver", validation.CheckSemVer, "1.2.3-rc.1", "1.2"},
		{"url", validation.CheckURL, "https://example.com", "example"},
		{"email", validation.CheckEmail, "a@b.io", "a@"},
		{"not empty", validation.CheckNotEmpty, " x ", "   "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.fn(tc.good)
			assert.NoError(t, err)
			_, err = tc.fn(tc.bad)
			assert.Error(t, err)
		})
	}

	out, err := validation.CheckNotEmpty(" x ")
	require.NoError(t, err)
	assert.Equal(t, "x", out)
}
