package classify

import (
	"regexp"
	"strings"

	"github.com/kclaka/seedkit/internal/schema"
)

// rule is one compiled name-matching rule. TablePattern, when non-nil,
// restricts the rule to tables whose name matches it (table-context
// rules); general rules leave it nil.
type rule struct {
	pattern      *regexp.Regexp
	tablePattern *regexp.Regexp
	dataTypes    []schema.DataType // empty means "any"
	semanticType SemanticType
}

func (r *rule) typeMatches(dt schema.DataType) bool {
	if len(r.dataTypes) == 0 {
		return true
	}
	for _, d := range r.dataTypes {
		if d == dt {
			return true
		}
	}
	return false
}

func mustCompile(pattern string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + pattern)
}

// tableContextRules match a column name only within tables whose name
// matches tablePattern; they run before the general rules, since a
// table-scoped hint (e.g. "orders.total" vs a bare "total") is more
// specific.
var tableContextRules = []rule{
	{pattern: mustCompile(`^(total|subtotal|grand_total)$`), tablePattern: mustCompile(`order|invoice|cart`), semanticType: Amount},
	{pattern: mustCompile(`^name$`), tablePattern: mustCompile(`compan(y|ies)|organization`), semanticType: CompanyName},
	{pattern: mustCompile(`^name$`), tablePattern: mustCompile(`product|item|sku`), semanticType: Title},
	{pattern: mustCompile(`^title$`), tablePattern: mustCompile(`job|position|employment`), semanticType: JobTitle},
}

// generalRules match a column name regardless of table, in priority order.
var generalRules = []rule{
	{pattern: mustCompile(`^(first_?name|fname|given_?name)$`), semanticType: FirstName},
	{pattern: mustCompile(`^(last_?name|lname|surname|family_?name)$`), semanticType: LastName},
	{pattern: mustCompile(`^(full_?name|display_?name)$`), semanticType: FullName},
	{pattern: mustCompile(`^username$`), semanticType: Username},
	{pattern: mustCompile(`^(email|email_?address)$`), semanticType: Email},
	{pattern: mustCompile(`^(phone|phone_?number|mobile|telephone)$`), semanticType: Phone},
	{pattern: mustCompile(`^(phone_?country_?code|dial_?code)$`), semanticType: PhoneCountryCode},

	{pattern: mustCompile(`^(street|street_?address|address_?line_?1|addr1)$`), semanticType: StreetAddress},
	{pattern: mustCompile(`^city$`), semanticType: City},
	{pattern: mustCompile(`^(state|province|region)$`), semanticType: State},
	{pattern: mustCompile(`^(zip|zip_?code)$`), semanticType: ZipCode},
	{pattern: mustCompile(`^postal_?code$`), semanticType: PostalCode},
	{pattern: mustCompile(`^country$`), semanticType: Country},
	{pattern: mustCompile(`^country_?code$`), semanticType: CountryCode},
	{pattern: mustCompile(`^(lat|latitude)$`), semanticType: Latitude},
	{pattern: mustCompile(`^(lng|lon|long|longitude)$`), semanticType: Longitude},

	{pattern: mustCompile(`^(company|company_?name)$`), semanticType: CompanyName},
	{pattern: mustCompile(`^(job_?title|position)$`), semanticType: JobTitle},
	{pattern: mustCompile(`^department$`), semanticType: Department},
	{pattern: mustCompile(`^industry$`), semanticType: Industry},

	{pattern: mustCompile(`^(url|website|link)$`), semanticType: URL},
	{pattern: mustCompile(`^(domain|domain_?name)$`), semanticType: DomainName},
	{pattern: mustCompile(`^(ip|ip_?address)$`), semanticType: IPAddress},
	{pattern: mustCompile(`^(mac|mac_?address)$`), semanticType: MacAddress},
	{pattern: mustCompile(`^user_?agent$`), semanticType: UserAgent},
	{pattern: mustCompile(`^slug$`), semanticType: Slug},

	{pattern: mustCompile(`^title$`), semanticType: Title},
	{pattern: mustCompile(`^(description|desc|summary)$`), semanticType: Description},
	{pattern: mustCompile(`^(image_?url|avatar_?url|photo_?url|thumbnail)$`), semanticType: ImageURL},
	{pattern: mustCompile(`^(file_?path|path)$`), semanticType: FilePath},
	{pattern: mustCompile(`^mime_?type$`), semanticType: MimeType},
	{pattern: mustCompile(`^file_?size$`), semanticType: FileSize},

	{pattern: mustCompile(`^created_?(at|on)?$`), semanticType: CreatedAt},
	{pattern: mustCompile(`^updated_?(at|on)?$`), semanticType: UpdatedAt},
	{pattern: mustCompile(`^deleted_?(at|on)?$`), semanticType: DeletedAt},
	{pattern: mustCompile(`^(birth_?date|date_?of_?birth|dob)$`), semanticType: BirthDate},
	{pattern: mustCompile(`^(start_?date|starts_?at|begin_?date)$`), semanticType: StartDate},
	{pattern: mustCompile(`^(end_?date|ends_?at|finish_?date)$`), semanticType: EndDate},

	{pattern: mustCompile(`^(price|unit_?price)$`), semanticType: Price},
	{pattern: mustCompile(`^amount$`), semanticType: Amount},
	{pattern: mustCompile(`^currency$`), semanticType: Currency},
	{pattern: mustCompile(`^tax_?rate$`), semanticType: TaxRate},
	{pattern: mustCompile(`^quantity$`), semanticType: Quantity},
	{pattern: mustCompile(`^discount$`), semanticType: Discount},

	{pattern: mustCompile(`^(external_?id|ext_?ref)$`), semanticType: ExternalID},
	{pattern: mustCompile(`^sku$`), semanticType: SKU},
	{pattern: mustCompile(`^barcode$`), semanticType: Barcode},

	{pattern: mustCompile(`^(percentage|percent|pct)$`), semanticType: Percentage},
	{pattern: mustCompile(`^rating$`), semanticType: Rating},
	{pattern: mustCompile(`^(count|total_?count)$`), semanticType: Count},
	{pattern: mustCompile(`^age$`), semanticType: Age},

	{pattern: mustCompile(`^(password_?hash|password)$`), semanticType: PasswordHash},
	{pattern: mustCompile(`^(api_?token|access_?token|token)$`), semanticType: APIToken},
	{pattern: mustCompile(`^(secret_?key|secret)$`), semanticType: SecretKey},

	{pattern: mustCompile(`^notes?$`), semanticType: Notes},
	{pattern: mustCompile(`^color$`), semanticType: Color},
}

// Classify chooses a SemanticType for a column. Order of precedence:
//  1. auto-increment/serial PK -> AutoIncrement
//  2. UUID-typed PK -> UUID
//  3. declared enum values present -> classifyEnumByName, else generic EnumValue
//  4. table-context rules (most specific)
//  5. general name-based rules
//  6. type-based fallback
func Classify(col *schema.Column, tableName string, isPK bool) SemanticType {
	if isPK && (col.AutoIncrement || col.Type.IsSerial()) {
		return AutoIncrement
	}
	if isPK && col.Type == schema.DataTypeUUID {
		return UUID
	}
	if len(col.EnumValues) > 0 {
		if st := classifyEnumByName(col.Name); st != Unknown {
			return st
		}
		return EnumValue
	}

	normalized := normalizeColumnName(col.Name)

	for _, r := range tableContextRules {
		if r.tablePattern != nil && !r.tablePattern.MatchString(tableName) {
			continue
		}
		if r.pattern.MatchString(normalized) && r.typeMatches(col.Type) {
			return r.semanticType
		}
	}
	for _, r := range generalRules {
		if r.pattern.MatchString(normalized) && r.typeMatches(col.Type) {
			return r.semanticType
		}
	}
	return typeBasedFallback(col.Type)
}

func classifyEnumByName(columnName string) SemanticType {
	lower := strings.ToLower(columnName)
	switch {
	case strings.Contains(lower, "status") || strings.Contains(lower, "state"):
		return Status
	case strings.Contains(lower, "role"):
		return Role
	case strings.Contains(lower, "priority"):
		return Priority
	case strings.Contains(lower, "category") || strings.Contains(lower, "type"):
		return Category
	default:
		return Unknown
	}
}

func typeBasedFallback(dt schema.DataType) SemanticType {
	switch dt {
	case schema.DataTypeUUID:
		return UUID
	case schema.DataTypeBoolean:
		return BooleanFlag
	case schema.DataTypeJSON, schema.DataTypeJSONB:
		return JSONData
	case schema.DataTypeTimestamp, schema.DataTypeTimestampTz:
		return Timestamp
	case schema.DataTypeDate:
		return DateOnly
	case schema.DataTypeTime:
		return TimeOnly
	case schema.DataTypeInet:
		return IPAddress
	case schema.DataTypeMacAddr:
		return MacAddress
	default:
		return Unknown
	}
}

// normalizeColumnName converts CamelCase to snake_case and hyphens to
// underscores, so rules written for snake_case names also match columns
// introspected from CamelCase-styled schemas.
func normalizeColumnName(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if r == '-' {
			b.WriteByte('_')
			continue
		}
		if i > 0 && isUpper(r) && !isUpper(runes[i-1]) {
			b.WriteByte('_')
		}
		b.WriteRune(toLower(r))
	}
	return b.String()
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }
func toLower(r rune) rune {
	if isUpper(r) {
		return r + ('a' - 'A')
	}
	return r
}
