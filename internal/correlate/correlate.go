// Package correlate generates one row's worth of values for a correlation
// group jointly, so columns like city/state/zip or first_name/email come
// from the same sampled entity instead of being independently randomized.
package correlate

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/kclaka/seedkit/internal/classify"
	"github.com/kclaka/seedkit/internal/genplan"
	"github.com/kclaka/seedkit/internal/provider"
	"github.com/kclaka/seedkit/internal/value"
)

// usLocations is a built-in city/state/zip sample for address correlation.
// TODO: swap for a fuller US zip code dataset; at this size every ~50th row
// repeats a location, which skews distributions for very large row counts.
var usLocations = [][3]string{
	{"New York", "New York", "10001"},
	{"Los Angeles", "California", "90001"},
	{"Chicago", "Illinois", "60601"},
	{"Houston", "Texas", "77001"},
	{"Phoenix", "Arizona", "85001"},
	{"Philadelphia", "Pennsylvania", "19101"},
	{"San Antonio", "Texas", "78201"},
	{"San Diego", "California", "92101"},
	{"Dallas", "Texas", "75201"},
	{"San Jose", "California", "95101"},
	{"Austin", "Texas", "73301"},
	{"Jacksonville", "Florida", "32099"},
	{"Fort Worth", "Texas", "76101"},
	{"Columbus", "Ohio", "43085"},
	{"Charlotte", "North Carolina", "28201"},
	{"San Francisco", "California", "94101"},
	{"Indianapolis", "Indiana", "46201"},
	{"Seattle", "Washington", "98101"},
	{"Denver", "Colorado", "80201"},
	{"Nashville", "Tennessee", "37201"},
	{"Portland", "Oregon", "97201"},
	{"Las Vegas", "Nevada", "89101"},
	{"Memphis", "Tennessee", "38101"},
	{"Louisville", "Kentucky", "40201"},
	{"Baltimore", "Maryland", "21201"},
	{"Milwaukee", "Wisconsin", "53201"},
	{"Albuquerque", "New Mexico", "87101"},
	{"Tucson", "Arizona", "85701"},
	{"Fresno", "California", "93650"},
	{"Sacramento", "California", "95814"},
	{"Mesa", "Arizona", "85201"},
	{"Atlanta", "Georgia", "30301"},
	{"Kansas City", "Missouri", "64101"},
	{"Omaha", "Nebraska", "68101"},
	{"Miami", "Florida", "33101"},
	{"Minneapolis", "Minnesota", "55401"},
	{"Cleveland", "Ohio", "44101"},
	{"Raleigh", "North Carolina", "27601"},
	{"Tampa", "Florida", "33601"},
	{"New Orleans", "Louisiana", "70112"},
	{"Pittsburgh", "Pennsylvania", "15201"},
	{"Cincinnati", "Ohio", "45201"},
	{"St. Louis", "Missouri", "63101"},
	{"Orlando", "Florida", "32801"},
	{"Boston", "Massachusetts", "02101"},
	{"Detroit", "Michigan", "48201"},
	{"Honolulu", "Hawaii", "96801"},
	{"Salt Lake City", "Utah", "84101"},
	{"Anchorage", "Alaska", "99501"},
	{"Richmond", "Virginia", "23219"},
}

var streetNames = []string{
	"Main St", "Oak Ave", "Elm St", "Park Blvd", "Cedar Ln",
	"Maple Dr", "Pine St", "Washington Ave", "Lake Rd", "Hill St",
}

var firstNames = []string{
	"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda",
	"David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
	"Thomas", "Sarah", "Charles", "Karen",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
	"Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez", "Wilson", "Anderson",
	"Thomas", "Taylor", "Moore", "Jackson", "Martin",
}

// ColumnValue is one generated (column name, value) pair.
type ColumnValue struct {
	Column string
	Value  value.Value
}

// Generate produces one row's worth of values for a correlation group.
// baseTime anchors temporal groups so regeneration from the same seed and
// base_time reproduces identical dates regardless of wall-clock time.
func Generate(plan *genplan.CorrelationGroupPlan, rowIndex int, rng *rand.Rand, baseTime time.Time) []ColumnValue {
	switch plan.Group {
	case classify.GroupAddress:
		return generateAddress(plan, rng, baseTime)
	case classify.GroupGeoCoordinates:
		return generateGeo(plan, rng, baseTime)
	case classify.GroupPersonIdentity:
		return generatePerson(plan, rowIndex, rng, baseTime)
	case classify.GroupTemporal:
		return generateTemporal(plan, rng, baseTime)
	case classify.GroupTemporalRange:
		return generateTemporalRange(plan, rng, baseTime)
	default:
		return fallbackAll(plan, rowIndex, rng, baseTime)
	}
}

func fallbackAll(plan *genplan.CorrelationGroupPlan, rowIndex int, rng *rand.Rand, baseTime time.Time) []ColumnValue {
	values := make([]ColumnValue, 0, len(plan.Columns))
	for _, c := range plan.Columns {
		values = append(values, ColumnValue{Column: c.Column, Value: provider.Generate(c.SemanticType, rng, rowIndex, nil, baseTime)})
	}
	return values
}

func generateAddress(plan *genplan.CorrelationGroupPlan, rng *rand.Rand, baseTime time.Time) []ColumnValue {
	loc := usLocations[rng.IntN(len(usLocations))]
	streetNum := 100 + rng.IntN(9899)
	street := streetNames[rng.IntN(len(streetNames))]

	values := make([]ColumnValue, 0, len(plan.Columns))
	for _, c := range plan.Columns {
		var v value.Value
		switch c.SemanticType {
		case classify.StreetAddress:
			v = value.String(fmt.Sprintf("%d %s", streetNum, street))
		case classify.City:
			v = value.String(loc[0])
		case classify.State:
			v = value.String(loc[1])
		case classify.ZipCode, classify.PostalCode:
			v = value.String(loc[2])
		case classify.Country:
			v = value.String("United States")
		case classify.CountryCode:
			v = value.String("US")
		default:
			// Swept into this group by classification but not an address
			// sub-type. Fall back so NOT NULL columns don't end up Null.
			v = provider.Generate(c.SemanticType, rng, 0, nil, baseTime)
		}
		values = append(values, ColumnValue{Column: c.Column, Value: v})
	}
	return values
}

func generateGeo(plan *genplan.CorrelationGroupPlan, rng *rand.Rand, baseTime time.Time) []ColumnValue {
	lat := 25.0 + rng.Float64()*(48.0-25.0)
	lng := -125.0 + rng.Float64()*(-70.0-(-125.0))

	values := make([]ColumnValue, 0, len(plan.Columns))
	for _, c := range plan.Columns {
		var v value.Value
		switch c.SemanticType {
		case classify.Latitude:
			v = value.Float(roundTo(lat, 6))
		case classify.Longitude:
			v = value.Float(roundTo(lng, 6))
		default:
			v = provider.Generate(c.SemanticType, rng, 0, nil, baseTime)
		}
		values = append(values, ColumnValue{Column: c.Column, Value: v})
	}
	return values
}

func generatePerson(plan *genplan.CorrelationGroupPlan, rowIndex int, rng *rand.Rand, baseTime time.Time) []ColumnValue {
	first := firstNames[rng.IntN(len(firstNames))]
	last := lastNames[rng.IntN(len(lastNames))]
	fullName := first + " " + last

	emailSuffix := ""
	if rowIndex > 0 {
		emailSuffix = fmt.Sprintf(".%d", rowIndex)
	}
	email := fmt.Sprintf("%s.%s%s@example.com", strings.ToLower(first), strings.ToLower(last), emailSuffix)

	// first.last followed directly by the row index (e.g. "ada.lovelace7")
	// clears common LENGTH(username) >= 5 constraints.
	username := fmt.Sprintf("%s.%s%d", strings.ToLower(first), strings.ToLower(last), rowIndex)

	values := make([]ColumnValue, 0, len(plan.Columns))
	for _, c := range plan.Columns {
		var v value.Value
		switch c.SemanticType {
		case classify.FirstName:
			v = value.String(first)
		case classify.LastName:
			v = value.String(last)
		case classify.FullName, classify.DisplayName:
			v = value.String(fullName)
		case classify.Email:
			v = value.String(email)
		case classify.Username:
			v = value.String(username)
		default:
			v = provider.Generate(c.SemanticType, rng, rowIndex, nil, baseTime)
		}
		values = append(values, ColumnValue{Column: c.Column, Value: v})
	}
	return values
}

func generateTemporal(plan *genplan.CorrelationGroupPlan, rng *rand.Rand, baseTime time.Time) []ColumnValue {
	createdDaysAgo := 30 + rng.IntN(335)
	created := baseTime.AddDate(0, 0, -createdDaysAgo)
	updated := created.AddDate(0, 0, 1+rng.IntN(createdDaysAgo))
	hasDeleted := rng.Float64() < 0.1
	var deleted time.Time
	if hasDeleted {
		deleted = updated.AddDate(0, 0, 1+rng.IntN(29))
	}

	values := make([]ColumnValue, 0, len(plan.Columns))
	for _, c := range plan.Columns {
		var v value.Value
		switch c.SemanticType {
		case classify.CreatedAt:
			v = value.Timestamp(created)
		case classify.UpdatedAt:
			v = value.Timestamp(updated)
		case classify.DeletedAt:
			if hasDeleted {
				v = value.Timestamp(deleted)
			} else {
				v = value.Null()
			}
		default:
			v = provider.Generate(c.SemanticType, rng, 0, nil, baseTime)
		}
		values = append(values, ColumnValue{Column: c.Column, Value: v})
	}
	return values
}

func generateTemporalRange(plan *genplan.CorrelationGroupPlan, rng *rand.Rand, baseTime time.Time) []ColumnValue {
	startOffset := -30 + rng.IntN(90)
	start := baseTime.AddDate(0, 0, startOffset)
	duration := 1 + rng.IntN(89)
	end := start.AddDate(0, 0, duration)

	values := make([]ColumnValue, 0, len(plan.Columns))
	for _, c := range plan.Columns {
		var v value.Value
		switch c.SemanticType {
		case classify.StartDate:
			v = value.Date(start)
		case classify.EndDate:
			v = value.Date(end)
		default:
			v = provider.Generate(c.SemanticType, rng, 0, nil, baseTime)
		}
		values = append(values, ColumnValue{Column: c.Column, Value: v})
	}
	return values
}

func roundTo(f float64, decimals int) float64 {
	mult := 1.0
	for i := 0; i < decimals; i++ {
		mult *= 10
	}
	return float64(int64(f*mult+0.5)) / mult
}
