// Package referenceframe tracks rigid body poses across a tree of named
// reference frames and does the math of translating motion data between them.
// Useful if you have an eye tracker mounted on a head tracker mounted in a
// room, and need everything expressed in the room frame.
package referenceframe

import (
	"sort"

	"github.com/edaniels/golog"
)

// Registry maps unique names to reference frames. Frames registered here can
// be referred to by name anywhere a FrameRef is accepted.
//
// A Registry is not safe for concurrent mutation. Transform lookups are pure
// reads over the frame tree and may run concurrently with each other, but not
// with Register, Deregister, Clear or Close of a frame on the path being
// walked. Callers needing concurrent mutation must synchronize externally.
type Registry struct {
	logger golog.Logger
	frames map[string]*Frame
}

// NewRegistry returns an empty frame registry.
func NewRegistry(logger golog.Logger) *Registry {
	if logger == nil {
		logger = golog.NewLogger("referenceframe")
	}
	return &Registry{
		logger: logger,
		frames: map[string]*Frame{},
	}
}

// Register adds a frame to the registry under its name. The registry is left
// unchanged if the name is already taken.
func (reg *Registry) Register(frame *Frame) error {
	if frame == nil {
		return NewParentFrameMissingError()
	}
	if _, ok := reg.frames[frame.name]; ok {
		return NewDuplicateFrameNameError(frame.name)
	}
	reg.frames[frame.name] = frame
	frame.registered = true
	reg.logger.Debugw("registered frame", "name", frame.name)
	return nil
}

// Deregister removes the frame with the given name from the registry.
func (reg *Registry) Deregister(name string) error {
	frame, ok := reg.frames[name]
	if !ok {
		return NewFrameNotFoundError(name)
	}
	delete(reg.frames, name)
	frame.registered = false
	reg.logger.Debugw("deregistered frame", "name", name)
	return nil
}

// Resolve accepts either a *Frame, which it returns unchanged, or a string,
// which it looks up in the registry.
func (reg *Registry) Resolve(ref interface{}) (*Frame, error) {
	switch v := ref.(type) {
	case *Frame:
		if v == nil {
			return nil, NewParentFrameMissingError()
		}
		return v, nil
	case string:
		frame, ok := reg.frames[v]
		if !ok {
			return nil, NewFrameNotFoundError(v)
		}
		return frame, nil
	case nil:
		return nil, NewParentFrameMissingError()
	default:
		return nil, errorsWrapBadRef(ref)
	}
}

// Clear empties the registry unconditionally. Frame handles held elsewhere
// remain linked to their parents but can no longer be resolved by name.
func (reg *Registry) Clear() {
	for _, frame := range reg.frames {
		frame.registered = false
	}
	reg.frames = map[string]*Frame{}
	reg.logger.Debug("cleared frame registry")
}

// FrameNames returns the sorted names of all registered frames.
func (reg *Registry) FrameNames() []string {
	names := make([]string, 0, len(reg.frames))
	for name := range reg.frames {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
