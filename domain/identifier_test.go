package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThreeDotsLabs/eventful/domain"
)

type staticAccessor struct {
	id interface{}
	ok bool
}

func (a staticAccessor) Identifier() (interface{}, bool) {
	return a.id, a.ok
}

func TestRequiredIdentifier(t *testing.T) {
	id, err := domain.RequiredIdentifier(staticAccessor{id: "order-1", ok: true}, func() interface{} {
		t.Fatal("target must not be evaluated when the identifier is present")
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "order-1", id)
}

func TestRequiredIdentifier_absent(t *testing.T) {
	targetCalled := false

	_, err := domain.RequiredIdentifier(staticAccessor{}, func() interface{} {
		targetCalled = true
		return "Order{ID: <empty>}"
	})

	require.Error(t, err)
	assert.True(t, targetCalled)
	assert.Contains(t, err.Error(), "could not obtain identifier from Order{ID: <empty>}")
}

func TestRequiredIdentifier_missing_accessor(t *testing.T) {
	_, err := domain.RequiredIdentifier(nil, nil)
	require.Error(t, err)
}
