package correlate

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kclaka/seedkit/internal/classify"
	"github.com/kclaka/seedkit/internal/genplan"
)

func testBaseTime() time.Time {
	return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
}

func findValue(values []ColumnValue, column string) (ColumnValue, bool) {
	for _, v := range values {
		if v.Column == column {
			return v, true
		}
	}
	return ColumnValue{}, false
}

func TestAddressCorrelationAllNonNullStrings(t *testing.T) {
	plan := &genplan.CorrelationGroupPlan{
		Group: classify.GroupAddress,
		Columns: []classify.ColumnClassification{
			{Column: "city", SemanticType: classify.City},
			{Column: "state", SemanticType: classify.State},
			{Column: "zip", SemanticType: classify.ZipCode},
		},
	}
	rng := rand.New(rand.NewPCG(42, 42))
	values := Generate(plan, 0, rng, testBaseTime())

	require.Len(t, values, 3)
	for _, v := range values {
		assert.False(t, v.Value.IsNull())
	}
}

func TestPersonCorrelationEmailContainsNameParts(t *testing.T) {
	plan := &genplan.CorrelationGroupPlan{
		Group: classify.GroupPersonIdentity,
		Columns: []classify.ColumnClassification{
			{Column: "first_name", SemanticType: classify.FirstName},
			{Column: "last_name", SemanticType: classify.LastName},
			{Column: "email", SemanticType: classify.Email},
		},
	}
	rng := rand.New(rand.NewPCG(42, 42))
	values := Generate(plan, 0, rng, testBaseTime())

	email, ok := findValue(values, "email")
	require.True(t, ok)
	s := email.Value.ToCSVScalar()
	assert.Contains(t, s, "@")
	assert.Contains(t, s, ".")
}

func TestUsernameMeetsMinimumLength(t *testing.T) {
	plan := &genplan.CorrelationGroupPlan{
		Group: classify.GroupPersonIdentity,
		Columns: []classify.ColumnClassification{
			{Column: "first_name", SemanticType: classify.FirstName},
			{Column: "last_name", SemanticType: classify.LastName},
			{Column: "username", SemanticType: classify.Username},
		},
	}
	rng := rand.New(rand.NewPCG(42, 42))
	values := Generate(plan, 3, rng, testBaseTime())

	username, ok := findValue(values, "username")
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(username.Value.ToCSVScalar()), 5)
}

func TestTemporalDeterminism(t *testing.T) {
	plan := &genplan.CorrelationGroupPlan{
		Group: classify.GroupTemporal,
		Columns: []classify.ColumnClassification{
			{Column: "created_at", SemanticType: classify.CreatedAt},
			{Column: "updated_at", SemanticType: classify.UpdatedAt},
		},
	}
	bt := testBaseTime()
	v1 := Generate(plan, 0, rand.New(rand.NewPCG(42, 42)), bt)
	v2 := Generate(plan, 0, rand.New(rand.NewPCG(42, 42)), bt)

	for i := range v1 {
		assert.Equal(t, v1[i].Value.ToCSVScalar(), v2[i].Value.ToCSVScalar())
	}
}

func TestUnmatchedColumnFallsBackToProviderNotNull(t *testing.T) {
	plan := &genplan.CorrelationGroupPlan{
		Group: classify.GroupAddress,
		Columns: []classify.ColumnClassification{
			{Column: "city", SemanticType: classify.City},
			{Column: "notes", SemanticType: classify.Paragraph},
		},
	}
	rng := rand.New(rand.NewPCG(42, 42))
	values := Generate(plan, 0, rng, testBaseTime())

	notes, ok := findValue(values, "notes")
	require.True(t, ok)
	assert.False(t, notes.Value.IsNull(), "unmatched column in correlation group must not be Null")
}

func TestTemporalRangeStartBeforeEnd(t *testing.T) {
	plan := &genplan.CorrelationGroupPlan{
		Group: classify.GroupTemporalRange,
		Columns: []classify.ColumnClassification{
			{Column: "start_date", SemanticType: classify.StartDate},
			{Column: "end_date", SemanticType: classify.EndDate},
		},
	}
	rng := rand.New(rand.NewPCG(1, 2))
	values := Generate(plan, 0, rng, testBaseTime())

	start, _ := findValue(values, "start_date")
	end, _ := findValue(values, "end_date")
	assert.Less(t, start.Value.ToCSVScalar(), end.Value.ToCSVScalar())
}
