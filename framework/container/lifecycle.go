package container

import (
	"context"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/km-arc/go-objectfactory/framework/metadata"
)

// Destroy calls the destructor of each object in objs, or of every tracked
// instance (in creation order) when objs is empty. Only the first method
// marked as destructor along an object's chain runs. A failing or panicking
// destructor is logged and does not stop the others.
//
// Destroy does not untrack anything; follow it with Clear to forget the
// instances.
func (c *Container) Destroy(ctx context.Context, objs ...any) {
	var names []string
	if len(objs) == 0 {
		c.mu.RLock()
		for _, name := range c.order {
			objs = append(objs, c.instances[name])
			names = append(names, name)
		}
		c.mu.RUnlock()
	}

	for i, obj := range objs {
		name := ""
		if id, ok := c.Identity(obj); ok {
			name = id.InstanceName
		} else if i < len(names) {
			name = names[i]
		}

		method, ok := c.destructorOf(obj)
		if !ok {
			continue
		}

		c.logger.Debug("Destroying object", zap.String("name", name))
		if err := safeHook(ctx, reflect.ValueOf(obj), method); err != nil {
			c.logger.Error("Failed to destroy object", zap.String("name", name), zap.Error(err))
		}
	}
}

// destructorOf returns the first destructor declared along obj's chain.
func (c *Container) destructorOf(obj any) (string, bool) {
	if obj == nil {
		return "", false
	}
	for _, level := range c.store.Chain(reflect.TypeOf(obj)) {
		for _, member := range c.store.Members(level) {
			if _, ok := c.store.Lookup(level, member, metadata.Destroy); ok {
				return member, true
			}
		}
	}
	return "", false
}

// safeHook is callHook with panics turned into errors.
func safeHook(ctx context.Context, obj reflect.Value, method string) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in %s: %v", method, rec)
		}
	}()
	return callHook(ctx, obj, method)
}
