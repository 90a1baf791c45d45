package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryRejectsBuiltinShadow(t *testing.T) {
	r := NewRegistry()
	err := r.Register("UINT64", nil, nil)
	assert.Error(t, err)
}

func TestRegistryRejectsDuplicate(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Register("point", nil, nil))
	assert.Error(t, r.Register("point", nil, nil))
}

func TestRegistryDetectsDirectCycle(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Register("a", nil, []string{"b"}))
	err := r.Register("b", nil, []string{"a"})
	assert.Error(t, err)
}

func TestRegistryAllowsDiamond(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.Register("leaf", nil, nil))
	assert.NoError(t, r.Register("left", nil, []string{"leaf"}))
	assert.NoError(t, r.Register("right", nil, []string{"leaf"}))
	assert.NoError(t, r.Register("top", nil, []string{"left", "right"}))
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	fields := []*Descriptor{{Name: "x", Type: Uint32}}
	assert.NoError(t, r.Register("point", fields, nil))

	ct, ok := r.Get("point")
	assert.True(t, ok)
	assert.Equal(t, "point", ct.Name)
	assert.Len(t, ct.Fields, 1)

	_, ok = r.Get("missing")
	assert.False(t, ok)
}
