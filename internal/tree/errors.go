package tree

import "errors"

var (
	// ErrNilOwner is returned when a reference or container node is built without its owner.
	ErrNilOwner = errors.New("tree: owner node is nil")
	// ErrOwnerKind is returned when the owner node is of a kind that cannot own the new node.
	ErrOwnerKind = errors.New("tree: owner node has the wrong kind")
	// ErrNilResolver is returned when a Registry is created without a resolver.
	ErrNilResolver = errors.New("tree: resolver is nil")
	// ErrNilEntity is returned when registering a nil entity.
	ErrNilEntity = errors.New("tree: entity is nil")
	// ErrAlreadyRegistered is returned when an entity already has a canonical node.
	ErrAlreadyRegistered = errors.New("tree: entity already registered")
)

// must unwraps constructor results inside the package, where a failure means
// a broken invariant rather than bad input.
func must(n *Node, err error) *Node {
	if err != nil {
		panic(err)
	}
	return n
}
