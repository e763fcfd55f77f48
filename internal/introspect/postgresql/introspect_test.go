package postgresql

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kclaka/seedkit/internal/schema"
)

func TestParseReferentialAction(t *testing.T) {
	assert.Equal(t, schema.RefActionCascade, parseReferentialAction("CASCADE"))
	assert.Equal(t, schema.RefActionSetNull, parseReferentialAction("SET NULL"))
	assert.Equal(t, schema.RefActionNoAction, parseReferentialAction("NO ACTION"))
	assert.Equal(t, schema.RefActionNoAction, parseReferentialAction("unrecognized"))
}
