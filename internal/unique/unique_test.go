package unique

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kclaka/seedkit/internal/value"
)

func TestSingleColumnUniqueness(t *testing.T) {
	tr := New()
	tr.Register("users", []string{"email"})

	v1 := value.String("test@example.com")
	assert.True(t, tr.TryInsertSingle("users", "email", v1))
	assert.False(t, tr.TryInsertSingle("users", "email", v1))

	v2 := value.String("other@example.com")
	assert.True(t, tr.TryInsertSingle("users", "email", v2))
	assert.Equal(t, 2, tr.Count("users", []string{"email"}))
}

func TestCompositeUniqueness(t *testing.T) {
	tr := New()
	cols := []string{"first_name", "last_name"}
	tr.Register("users", cols)

	v1, v2 := value.String("John"), value.String("Doe")
	assert.True(t, tr.TryInsert("users", cols, []value.Value{v1, v2}))
	assert.False(t, tr.TryInsert("users", cols, []value.Value{v1, v2}))

	v3 := value.String("Jane")
	assert.True(t, tr.TryInsert("users", cols, []value.Value{v3, v2}))
}

func TestUnregisteredConstraintAllowsAnything(t *testing.T) {
	tr := New()
	v := value.String("x")
	assert.True(t, tr.TryInsertSingle("users", "email", v))
	assert.True(t, tr.TryInsertSingle("users", "email", v))
}
