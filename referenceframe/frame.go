package referenceframe

import (
	"sort"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gonum.org/v1/gonum/num/quat"

	"github.com/motionlab/rigidmotion/spatialmath"
)

// A Frame is a node in a tree of reference frames. Every frame except a root
// owns the pose that places it relative to its parent. The parent/children
// relation always forms a forest: a frame has at most one parent, set once at
// construction, and children are tracked as non-owning back-references.
type Frame struct {
	name       string
	parent     *Frame
	pose       *spatialmath.Pose // nil iff the frame is a root
	children   map[string]*Frame
	reg        *Registry
	registered bool
}

// Name returns the name of the frame.
func (f *Frame) Name() string {
	return f.name
}

// Parent returns the parent frame, nil for a root.
func (f *Frame) Parent() *Frame {
	return f.parent
}

// Pose returns the pose of the frame relative to its parent. The second return
// is false for a root frame, whose pose relative to anything is undefined.
func (f *Frame) Pose() (spatialmath.Pose, bool) {
	if f.pose == nil {
		return spatialmath.Pose{}, false
	}
	return *f.pose, true
}

// ChildNames returns the sorted names of the frame's children.
func (f *Frame) ChildNames() []string {
	names := make([]string, 0, len(f.children))
	for name := range f.children {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close deregisters the frame if it is still registered, making its name
// available again. Safe to call more than once. The frame stays linked in its
// tree so that transforms through it keep working for handles held elsewhere.
func (f *Frame) Close() error {
	if !f.registered || f.reg == nil {
		return nil
	}
	return f.reg.Deregister(f.name)
}

type frameConfig struct {
	translation *r3.Vector
	rotation    *quat.Number
	register    bool
}

// FrameOption configures frame construction.
type FrameOption func(*frameConfig)

// WithTranslation sets the translation of the new frame relative to its
// parent. Only valid together with a parent.
func WithTranslation(t r3.Vector) FrameOption {
	return func(cfg *frameConfig) {
		cfg.translation = &t
	}
}

// WithRotation sets the rotation of the new frame relative to its parent.
// Only valid together with a parent.
func WithRotation(r quat.Number) FrameOption {
	return func(cfg *frameConfig) {
		cfg.rotation = &r
	}
}

// WithoutRegistration creates the frame without adding it to the registry.
// The frame is still linked into the tree and can be registered later.
func WithoutRegistration() FrameOption {
	return func(cfg *frameConfig) {
		cfg.register = false
	}
}

// NewFrame creates a frame, links it under parent and, unless
// WithoutRegistration is given, registers it. parent may be a *Frame, the name
// of a registered frame, or nil for a root frame. A root frame carries no
// pose, so translation and rotation are rejected without a parent; with a
// parent they default to identity. On any error the registry and the tree are
// left unchanged.
func (reg *Registry) NewFrame(name string, parent interface{}, opts ...FrameOption) (*Frame, error) {
	cfg := frameConfig{register: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	var err error
	if name == "" {
		multierr.AppendInto(&err, errors.Wrap(ErrInvalidArgument, "frame name must not be empty"))
	}
	if parent == nil {
		if cfg.translation != nil {
			multierr.AppendInto(&err, errors.Wrap(ErrInvalidArgument, "translation specified without parent frame"))
		}
		if cfg.rotation != nil {
			multierr.AppendInto(&err, errors.Wrap(ErrInvalidArgument, "rotation specified without parent frame"))
		}
	}
	if err != nil {
		return nil, err
	}

	frame := &Frame{
		name:     name,
		children: map[string]*Frame{},
		reg:      reg,
	}

	var parentFrame *Frame
	if parent != nil {
		parentFrame, err = reg.Resolve(parent)
		if err != nil {
			return nil, err
		}
		translation := r3.Vector{}
		if cfg.translation != nil {
			translation = *cfg.translation
		}
		rotation := quat.Number{Real: 1}
		if cfg.rotation != nil {
			rotation = *cfg.rotation
		}
		pose := spatialmath.NewPose(translation, rotation)
		frame.pose = &pose
	}

	// Register before linking so a name collision cannot leave a half-linked node.
	if cfg.register {
		if err := reg.Register(frame); err != nil {
			return nil, err
		}
	}
	if parentFrame != nil {
		frame.parent = parentFrame
		parentFrame.children[name] = frame
	}
	return frame, nil
}

// ancestry returns the chain from the frame up to its root, frame first.
func (f *Frame) ancestry() []*Frame {
	var chain []*Frame
	for node := f; node != nil; node = node.parent {
		chain = append(chain, node)
	}
	return chain
}

// walkPath finds the route between two frames through their nearest common
// ancestor. up runs from `from` toward the ancestor, excluding it; down runs
// from just below the ancestor out to `to`.
func walkPath(from, to *Frame) (up, down []*Frame, err error) {
	fromChain := from.ancestry()
	toChain := to.ancestry()

	// The shared ancestor path is the longest common suffix of the two chains.
	i, j := len(fromChain)-1, len(toChain)-1
	if fromChain[i] != toChain[j] {
		return nil, nil, NewDisconnectedFramesError(from.name, to.name)
	}
	for i > 0 && j > 0 && fromChain[i-1] == toChain[j-1] {
		i--
		j--
	}

	up = fromChain[:i]
	down = make([]*Frame, 0, j)
	for k := j - 1; k >= 0; k-- {
		down = append(down, toChain[k])
	}
	return up, down, nil
}
