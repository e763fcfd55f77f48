// Package provider is the SemanticProvider: given a classified semantic
// type, it produces one realistic value for a single column. Price,
// Amount, Quantity and Age narrow their numeric range by the applicable
// column-versus-literal CHECK bounds (>=, >, <=, <); other check shapes
// and other semantic types do not consult the checks.
package provider

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"

	"github.com/kclaka/seedkit/internal/classify"
	"github.com/kclaka/seedkit/internal/schema"
	"github.com/kclaka/seedkit/internal/value"
)

const alphanumeric = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomAlphanumeric(rng *rand.Rand, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(alphanumeric[rng.IntN(len(alphanumeric))])
	}
	return b.String()
}

func pick[T any](rng *rand.Rand, options []T) T {
	return options[rng.IntN(len(options))]
}

// Generate produces a value for semantic type st. rowIndex feeds
// row-scoped suffixes (usernames, SKUs, sequence-like identifiers).
// checks narrows the numeric range of the types named in the package doc.
// baseTime anchors every temporal value so regeneration from a lockfile's
// stored base_time reproduces identical dates.
//
// Text realism (names, sentences, emails) is delegated to go-faker, whose
// global RNG is not seeded by this call — only numeric, temporal, and
// fixed-choice values are drawn from rng and are therefore fully
// deterministic given the same seed and base_time.
func Generate(st classify.SemanticType, rng *rand.Rand, rowIndex int, checks []*schema.ParsedCheck, baseTime time.Time) value.Value {
	switch st {
	// Identity
	case classify.FirstName:
		return value.String(faker.FirstName())
	case classify.LastName:
		return value.String(faker.LastName())
	case classify.FullName, classify.DisplayName:
		return value.String(faker.Name())
	case classify.Username:
		return value.String(fmt.Sprintf("%s%d", strings.ToLower(faker.Username()), rowIndex))

	// Contact
	case classify.Email:
		return value.String(faker.Email())
	case classify.Phone:
		return value.String(faker.Phonenumber())
	case classify.PhoneCountryCode:
		codes := []string{"+1", "+44", "+49", "+33", "+81", "+86", "+91", "+61", "+55"}
		return value.String(pick(rng, codes))

	// Address (standalone; joint generation lives in internal/correlate)
	case classify.StreetAddress:
		return value.String(fmt.Sprintf("%d %s", rng.IntN(9899)+100, faker.GetRealAddress().City))
	case classify.City:
		return value.String(faker.GetRealAddress().City)
	case classify.State:
		return value.String(faker.GetRealAddress().State)
	case classify.ZipCode, classify.PostalCode:
		return value.String(faker.GetRealAddress().PostalCode)
	case classify.Country:
		return value.String("United States")
	case classify.CountryCode:
		return value.String("US")
	case classify.Latitude:
		lat := 25.0 + rng.Float64()*(48.0-25.0)
		return value.Float(roundTo(lat, 6))
	case classify.Longitude:
		lng := -125.0 + rng.Float64()*(-70.0-(-125.0))
		return value.Float(roundTo(lng, 6))

	// Company
	case classify.CompanyName:
		return value.String(faker.GetCompany().Name)
	case classify.JobTitle:
		return value.String(faker.GetPerson().Title)
	case classify.Department:
		depts := []string{"Engineering", "Sales", "Marketing", "Support", "Finance", "HR", "Legal", "Operations", "Product", "Design"}
		return value.String(pick(rng, depts))
	case classify.Industry:
		industries := []string{"Technology", "Healthcare", "Finance", "Retail", "Manufacturing", "Education", "Hospitality", "Logistics"}
		return value.String(pick(rng, industries))

	// Internet
	case classify.URL:
		return value.String(fmt.Sprintf("https://example-%d.%s", rowIndex, pick(rng, []string{"com", "io", "dev", "net"})))
	case classify.DomainName:
		return value.String(faker.DomainName())
	case classify.IPAddress:
		return value.String(faker.IPv4())
	case classify.MacAddress:
		return value.String(faker.MacAddress())
	case classify.UserAgent:
		return value.String("Mozilla/5.0 (compatible; seedkit/1.0)")
	case classify.Slug:
		words := strings.Fields(faker.Sentence())
		n := 2 + rng.IntN(3)
		if n > len(words) {
			n = len(words)
		}
		return value.String(strings.ToLower(strings.Join(words[:n], "-")))

	// Content / media
	case classify.Title:
		return value.String(titleCase(faker.Word()) + " " + titleCase(faker.Word()) + " " + titleCase(faker.Word()))
	case classify.Description, classify.Bio:
		return value.String(faker.Sentence())
	case classify.Paragraph:
		return value.String(faker.Paragraph())
	case classify.Sentence:
		return value.String(faker.Sentence())
	case classify.HTMLContent:
		return value.String(fmt.Sprintf("<p>%s</p>", faker.Sentence()))
	case classify.MarkdownContent:
		return value.String(fmt.Sprintf("# %s\n\n%s", faker.Word(), faker.Sentence()))
	case classify.ImageURL:
		return value.String(fmt.Sprintf("https://picsum.photos/seed/%d/800/600", rowIndex))
	case classify.AvatarURL:
		return value.String(fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%d", rowIndex))
	case classify.ThumbnailURL:
		return value.String(fmt.Sprintf("https://picsum.photos/seed/%d/200/200", rowIndex))
	case classify.FileURL:
		exts := []string{"pdf", "docx", "xlsx", "png", "jpg"}
		return value.String(fmt.Sprintf("https://cdn.example.com/files/file_%d.%s", rowIndex, pick(rng, exts)))
	case classify.FileName:
		exts := []string{"pdf", "docx", "xlsx", "png", "jpg", "csv", "txt"}
		return value.String(fmt.Sprintf("%s.%s", strings.ToLower(faker.Word()), pick(rng, exts)))
	case classify.FilePath:
		return value.String(fmt.Sprintf("/files/%s", strings.ToLower(faker.Word())))
	case classify.MimeType:
		types := []string{"application/pdf", "image/png", "image/jpeg", "text/plain", "application/json", "text/html", "application/xml"}
		return value.String(pick(rng, types))
	case classify.FileSize:
		return value.Int(int64(1024 + rng.IntN(10_485_760-1024)))

	// Financial
	case classify.Price, classify.Amount:
		min, max := numericBoundsFloat(0.01, 999.99, checks)
		v := min + rng.Float64()*(max-min)
		return value.Float(roundTo(v, 2))
	case classify.Currency, classify.CurrencyCode:
		currencies := []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD", "CHF"}
		return value.String(pick(rng, currencies))
	case classify.TaxRate:
		return value.Float(roundTo(rng.Float64()*0.15, 4))
	case classify.Percentage:
		return value.Float(roundTo(rng.Float64()*100.0, 2))
	case classify.Discount:
		return value.Float(roundTo(rng.Float64()*0.5, 2))

	// Temporal
	case classify.CreatedAt, classify.Timestamp:
		daysAgo := 1 + rng.IntN(364)
		hours := rng.IntN(24)
		minutes := rng.IntN(60)
		t := baseTime.AddDate(0, 0, -daysAgo).Add(time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute)
		return value.Timestamp(t)
	case classify.UpdatedAt:
		daysAgo := rng.IntN(30)
		return value.Timestamp(baseTime.AddDate(0, 0, -daysAgo))
	case classify.DeletedAt:
		daysAgo := rng.IntN(7)
		return value.Timestamp(baseTime.AddDate(0, 0, -daysAgo))
	case classify.StartDate:
		offset := -30 + rng.IntN(120)
		return value.Date(baseTime.AddDate(0, 0, offset))
	case classify.EndDate:
		offset := 30 + rng.IntN(150)
		return value.Date(baseTime.AddDate(0, 0, offset))
	case classify.BirthDate:
		yearsAgo := 18 + rng.IntN(62)
		extraDays := rng.IntN(365)
		return value.Date(baseTime.AddDate(-yearsAgo, 0, -extraDays))
	case classify.DateOnly:
		offset := -365 + rng.IntN(730)
		return value.Date(baseTime.AddDate(0, 0, offset))
	case classify.TimeOnly:
		h, m, s := rng.IntN(24), rng.IntN(60), rng.IntN(60)
		t := time.Date(0, 1, 1, h, m, s, 0, time.UTC)
		return value.Time(t)

	// Auth / security
	case classify.PasswordHash:
		return value.String("$2b$12$" + randomAlphanumeric(rng, 53))
	case classify.APIToken, classify.Token, classify.SecretKey:
		return value.String(randomAlphanumeric(rng, 32))

	// Identifiers
	case classify.UUID:
		return value.UUID(uuid.New())
	case classify.AutoIncrement:
		return value.Int(int64(rowIndex) + 1)
	case classify.ExternalID:
		return value.String("ext_" + randomAlphanumeric(rng, 12))
	case classify.SKU:
		return value.String(fmt.Sprintf("SKU-%06d", rowIndex+1))
	case classify.OrderNumber:
		return value.String(fmt.Sprintf("ORD-%08d", rowIndex+1))
	case classify.InvoiceNumber:
		return value.String(fmt.Sprintf("INV-%08d", rowIndex+1))
	case classify.TrackingNumber:
		return value.String("TRK" + strings.ToUpper(randomAlphanumeric(rng, 16)))
	case classify.Barcode:
		return value.String(randomAlphanumeric(rng, 13))

	// Status / enum-like
	case classify.Status:
		statuses := []string{"active", "inactive", "pending", "suspended"}
		return value.String(pick(rng, statuses))
	case classify.Role:
		roles := []string{"admin", "user", "moderator", "editor", "viewer"}
		return value.String(pick(rng, roles))
	case classify.Priority:
		priorities := []string{"low", "medium", "high", "critical"}
		return value.String(pick(rng, priorities))
	case classify.Category:
		return value.String(strings.ToLower(faker.Word()))
	case classify.Tag:
		return value.String(strings.ToLower(faker.Word()) + "-" + strings.ToLower(faker.Word()))
	case classify.EnumValue:
		return value.String("unknown")

	// Numeric
	case classify.Quantity:
		min, max := numericBoundsInt(1, 100, checks)
		return value.Int(min + int64(rng.IntN(int(max-min+1))))
	case classify.Rating:
		return value.Float(roundTo(1.0+rng.Float64()*4.0, 1))
	case classify.Score:
		return value.Int(int64(rng.IntN(101)))
	case classify.Weight:
		return value.Float(roundTo(0.1+rng.Float64()*99.9, 2))
	case classify.Height:
		return value.Float(roundTo(50.0+rng.Float64()*200.0, 1))
	case classify.Count:
		return value.Int(int64(rng.IntN(1000)))
	case classify.Age:
		min, max := numericBoundsInt(18, 89, checks)
		return value.Int(min + int64(rng.IntN(int(max-min+1))))
	case classify.Duration:
		return value.Int(int64(1 + rng.IntN(3599)))
	case classify.SortOrder:
		return value.Int(int64(rowIndex))

	// Data
	case classify.BooleanFlag:
		return value.Bool(rng.Float64() < 0.7)
	case classify.JSONData:
		keys := []string{"metadata", "preferences", "flags", "raw_payload"}
		key := pick(rng, keys)
		raw := fmt.Sprintf(`{"%s":"%s","processed":%t,"retries":%d}`,
			key, randomAlphanumeric(rng, 8), rng.Float64() < 0.8, rng.IntN(5))
		return value.JSON([]byte(raw))
	case classify.Color:
		colors := []string{"red", "blue", "green", "yellow", "purple", "orange", "pink", "black", "white", "gray", "brown", "cyan", "magenta", "teal"}
		return value.String(pick(rng, colors))
	case classify.HexColor:
		return value.String(fmt.Sprintf("#%02x%02x%02x", rng.IntN(256), rng.IntN(256), rng.IntN(256)))
	case classify.Locale:
		locales := []string{"en_US", "en_GB", "de_DE", "fr_FR", "es_ES", "ja_JP", "zh_CN", "pt_BR"}
		return value.String(pick(rng, locales))
	case classify.Timezone:
		tzs := []string{"America/New_York", "America/Chicago", "America/Los_Angeles", "Europe/London", "Europe/Berlin", "Asia/Tokyo", "Asia/Shanghai", "Australia/Sydney", "America/Sao_Paulo"}
		return value.String(pick(rng, tzs))
	case classify.Notes:
		return value.String(faker.Sentence())

	default: // classify.Unknown and anything not matched above
		return value.String(strings.ToLower(faker.Word()))
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func roundTo(f float64, decimals int) float64 {
	mult := 1.0
	for i := 0; i < decimals; i++ {
		mult *= 10
	}
	return float64(int64(f*mult+0.5)) / mult
}

// numericBoundsFloat narrows [defaultMin, defaultMax] by any
// GreaterThan(OrEqual)/LessThan(OrEqual) checks that apply, widening past
// a conflicting bound rather than returning an empty range.
func numericBoundsFloat(defaultMin, defaultMax float64, checks []*schema.ParsedCheck) (float64, float64) {
	min, max := defaultMin, defaultMax
	for _, c := range checks {
		if c.Kind != schema.ParsedCheckColumnOpLiteral {
			continue
		}
		switch c.Op {
		case schema.OpGE:
			if c.Literal > min {
				min = c.Literal
			}
		case schema.OpGT:
			if c.Literal+0.01 > min {
				min = c.Literal + 0.01
			}
		case schema.OpLE:
			if c.Literal < max {
				max = c.Literal
			}
		case schema.OpLT:
			if c.Literal-0.01 < max {
				max = c.Literal - 0.01
			}
		}
	}
	if min > max {
		max = min + 100.0
	}
	return min, max
}

func numericBoundsInt(defaultMin, defaultMax int64, checks []*schema.ParsedCheck) (int64, int64) {
	min, max := defaultMin, defaultMax
	for _, c := range checks {
		if c.Kind != schema.ParsedCheckColumnOpLiteral {
			continue
		}
		lit := int64(c.Literal)
		switch c.Op {
		case schema.OpGE:
			if lit > min {
				min = lit
			}
		case schema.OpGT:
			if lit+1 > min {
				min = lit + 1
			}
		case schema.OpLE:
			if lit < max {
				max = lit
			}
		case schema.OpLT:
			if lit-1 < max {
				max = lit - 1
			}
		}
	}
	if min > max {
		max = min + 100
	}
	return min, max
}
