package inspect_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/km-arc/go-objectfactory/framework/container"
	"github.com/km-arc/go-objectfactory/framework/inspect"
	"github.com/km-arc/go-objectfactory/framework/metadata"
)

type gadget struct{}

type sprocket struct{}

func newHandler(t *testing.T) (*container.Container, http.Handler) {
	t.Helper()
	c := container.New(nil, zaptest.NewLogger(t), container.WithMetadata(metadata.NewStore()))
	c.Register(container.ClassOf[gadget]())
	c.Register(container.ClassOf[sprocket]())
	return c, inspect.NewHandler(c)
}

func do(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestClasses(t *testing.T) {
	_, h := newHandler(t)

	rec, body := do(t, h, http.MethodGet, "/classes", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, []any{"gadget", "sprocket"}, body["data"])
}

func TestInstances(t *testing.T) {
	c, h := newHandler(t)
	_, err := c.NewInstance(context.Background(), "gadget", container.WithName("main"))
	require.NoError(t, err)

	rec, body := do(t, h, http.MethodGet, "/instances", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{
		map[string]any{"class": "Container", "name": container.SelfName},
		map[string]any{"class": "gadget", "name": "gadget:main"},
	}, body["data"])
}

func TestInstance(t *testing.T) {
	c, h := newHandler(t)
	_, err := c.NewInstance(context.Background(), "gadget", container.WithName("main"))
	require.NoError(t, err)

	rec, body := do(t, h, http.MethodGet, "/instances/gadget:main", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"class": "gadget", "name": "gadget:main"}, body["data"])

	// Class name falls back to the first instance of that class.
	rec, body = do(t, h, http.MethodGet, "/instances/gadget", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "gadget:main", body["data"].(map[string]any)["name"])

	rec, body = do(t, h, http.MethodGet, "/instances/gadget:other", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No instance named gadget:other.", body["message"])
}

func TestCreate(t *testing.T) {
	c, h := newHandler(t)

	rec, body := do(t, h, http.MethodPost, "/instances", `{"class":"sprocket","name":"s1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, map[string]any{"class": "sprocket", "name": "sprocket:s1"}, body["data"])

	_, ok, err := c.GetInstance("sprocket:s1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreate_Errors(t *testing.T) {
	_, h := newHandler(t)

	rec, body := do(t, h, http.MethodPost, "/instances", `{"name":"x"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, map[string]any{"class": []any{"The class field is required."}}, body["errors"])

	rec, body = do(t, h, http.MethodPost, "/instances", `{"class":"ghost"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "No class named ghost.", body["message"])

	rec, _ = do(t, h, http.MethodPost, "/instances", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreate_RefusesServerClass(t *testing.T) {
	c, h := newHandler(t)
	c.Register(container.ClassOf[inspect.Server](), "InspectServer")

	rec, body := do(t, h, http.MethodPost, "/instances", `{"class":"InspectServer"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "The InspectServer class cannot be created over HTTP.", body["message"])
	assert.Equal(t, []string{container.SelfName}, c.Names())
}
