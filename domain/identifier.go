package domain

import (
	"github.com/pkg/errors"
)

// IdentifierAccessor attempts to retrieve an entity's unique identifier.
// The identifier may be absent for transient (not yet persisted) entities.
type IdentifierAccessor interface {
	// Identifier returns the entity's identifier and whether it is present.
	Identifier() (interface{}, bool)
}

// RequiredIdentifier returns the identifier obtained from accessor,
// or an error when the identifier is absent.
//
// The target function provides the owning object for the error message.
// It is called only on the failure path, so obtaining a printable
// representation of the target costs nothing when the identifier is present.
func RequiredIdentifier(accessor IdentifierAccessor, target func() interface{}) (interface{}, error) {
	if accessor == nil {
		return nil, errors.New("missing accessor")
	}

	if id, ok := accessor.Identifier(); ok {
		return id, nil
	}

	var described interface{} = "<unknown>"
	if target != nil {
		described = target()
	}

	return nil, errors.Errorf("could not obtain identifier from %v", described)
}
