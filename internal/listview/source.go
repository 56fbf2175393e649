package listview

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrSkipObject may be returned by ListDataSource.Model to drop a result without logging it.
var ErrSkipObject = errors.New("listview: skip object")

// Object is implemented by every model a list holds.
type Object interface {
	// ObjectID identifies the object in detail URLs.
	ObjectID() string
}

// Reloader is the list reference handed to every model on construction.
type Reloader interface {
	Reload(ctx context.Context, firstTime bool)
}

// ListDataSource is the capability a concrete list screen provides to a Controller.
type ListDataSource[T Object] interface {
	// Model builds one list object from a raw API result.
	Model(raw json.RawMessage, list Reloader) (T, error)
	// BaseURL is the detail page prefix; the detail URL of an object is BaseURL()+id+"/".
	BaseURL() string
	// InitialURL is the first page of the list.
	InitialURL() string

	// ProcessObject runs after an object is constructed and kept by FilterObject.
	ProcessObject(ctx context.Context, obj T) T
	// ExtraReloadSteps runs after the loaded objects were replaced.
	ExtraReloadSteps(ctx context.Context, objects []T)
	// FilterObject reports whether a constructed object is kept.
	FilterObject(obj T) bool
}

// NopHooks provides the default hook behaviour. Embed it in a data source
// that only needs Model, BaseURL and InitialURL.
type NopHooks[T Object] struct{}

// ProcessObject returns obj unchanged.
func (NopHooks[T]) ProcessObject(_ context.Context, obj T) T { return obj }

// ExtraReloadSteps does nothing.
func (NopHooks[T]) ExtraReloadSteps(context.Context, []T) {}

// FilterObject keeps every object.
func (NopHooks[T]) FilterObject(T) bool { return true }
