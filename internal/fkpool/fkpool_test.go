package fkpool

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kclaka/seedkit/internal/value"
)

func TestRecordAndPick(t *testing.T) {
	p := New()
	rng := rand.New(rand.NewPCG(42, 7))

	p.Record("users", "id", value.Int(1))
	p.Record("users", "id", value.Int(2))
	p.Record("users", "id", value.Int(3))

	got, ok := p.PickReference("users", "id", rng)
	require.True(t, ok)
	i, _ := got.AsInt()
	assert.True(t, i >= 1 && i <= 3)
	assert.Equal(t, 3, p.Size("users", "id"))
}

func TestEmptyPool(t *testing.T) {
	p := New()
	rng := rand.New(rand.NewPCG(1, 1))
	_, ok := p.PickReference("users", "id", rng)
	assert.False(t, ok)
}
