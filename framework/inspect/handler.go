// Package inspect exposes a read-mostly HTTP view of a container: the
// registered classes and the tracked instances.
//
//	GET  /classes            sorted class names
//	GET  /instances          every instance, in creation order
//	GET  /instances/{name}   one instance, by full name or class name
//	POST /instances          {"class": "Widget", "name": "main"}
package inspect

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"sort"

	"github.com/km-arc/go-objectfactory/framework/container"
	"github.com/km-arc/go-objectfactory/framework/validation"
)

type handler struct {
	c *container.Container
}

// createRequest is the body of POST /instances.
type createRequest struct {
	Class string `json:"class"`
	Name  string `json:"name"`
}

// serverType is refused by POST /instances: a second server would try to
// bind the port the first one holds.
var serverType = reflect.TypeOf((*Server)(nil))

var createRules = validation.Rules{
	"class": "required|max:255",
	"name":  "nullable|max:255",
}

// NewHandler returns the routes for c.
func NewHandler(c *container.Container) http.Handler {
	h := &handler{c: c}
	r := NewRouter(c.Logger())
	r.Get("/classes", h.classes)
	r.Prefix("/instances", func(r *Router) {
		r.Get("/", h.instances)
		r.Post("/", h.create)
		r.Get("/{name}", h.instance)
	})
	return r
}

func (h *handler) classes(w http.ResponseWriter, _ *http.Request) {
	names := make([]string, 0)
	for name := range h.c.Registry().GetClasses() {
		names = append(names, name)
	}
	sort.Strings(names)
	NewResponse(w).Success(names)
}

func (h *handler) instances(w http.ResponseWriter, _ *http.Request) {
	NewResponse(w).Success(h.c.Instances())
}

func (h *handler) instance(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)
	name := Param(r, "name")

	inst, ok, err := h.c.GetInstance(name)
	if err != nil || !ok {
		res.NotFound("No instance named " + name + ".")
		return
	}
	res.Success(h.identity(inst, name))
}

func (h *handler) create(w http.ResponseWriter, r *http.Request) {
	res := NewResponse(w)

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		res.Error(http.StatusBadRequest, "Malformed JSON body.")
		return
	}
	v := validation.Make(map[string]any{"class": req.Class, "name": req.Name}, createRules)
	if v.Fails() {
		res.ValidationError(v.Errors())
		return
	}

	if class, ok := h.c.Registry().GetClass(req.Class); ok && class.Type() == serverType {
		res.Error(http.StatusForbidden, "The "+req.Class+" class cannot be created over HTTP.")
		return
	}

	var opts []container.InstanceOption
	if req.Name != "" {
		opts = append(opts, container.WithName(req.Name))
	}
	inst, err := h.c.NewInstance(r.Context(), req.Class, opts...)
	switch {
	case errors.Is(err, container.ErrClassNotFound):
		res.NotFound("No class named " + req.Class + ".")
		return
	case err != nil:
		res.ServerError(err.Error())
		return
	}
	res.Created(h.identity(inst, req.Name))
}

func (h *handler) identity(inst any, fallback string) container.Identity {
	if id, ok := h.c.Identity(inst); ok {
		return id
	}
	return container.Identity{InstanceName: fallback}
}
