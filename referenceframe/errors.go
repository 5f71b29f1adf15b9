package referenceframe

import "github.com/pkg/errors"

var (
	// ErrDuplicateFrameName is returned when registering a frame under a name
	// that is already taken.
	ErrDuplicateFrameName = errors.New("frame name already registered")

	// ErrFrameNotFound is returned when resolving a name with no registered frame.
	ErrFrameNotFound = errors.New("frame not found in registry")

	// ErrDisconnectedFrames is returned when two frames belong to disjoint
	// trees and no transform between them exists.
	ErrDisconnectedFrames = errors.New("frames do not share a common ancestor")

	// ErrInvalidArgument is returned for malformed construction or transform
	// arguments.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrShapeMismatch is returned when input series have inconsistent lengths.
	ErrShapeMismatch = errors.New("mismatched input lengths")
)

// NewDuplicateFrameNameError returns an error for a name collision in the registry.
func NewDuplicateFrameNameError(name string) error {
	return errors.Wrapf(ErrDuplicateFrameName, "frame %q", name)
}

// NewFrameNotFoundError returns an error for an unknown frame name.
func NewFrameNotFoundError(name string) error {
	return errors.Wrapf(ErrFrameNotFound, "frame %q", name)
}

// NewDisconnectedFramesError returns an error for two frames with no common ancestor.
func NewDisconnectedFramesError(from, to string) error {
	return errors.Wrapf(ErrDisconnectedFrames, "no path from %q to %q", from, to)
}

// NewParentFrameMissingError returns an error indicating that a frame reference is nil.
func NewParentFrameMissingError() error {
	return errors.Wrap(ErrInvalidArgument, "frame is nil")
}

func errorsWrapBadRef(ref interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, "frame reference must be *Frame or string, got %T", ref)
}
