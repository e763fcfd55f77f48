// Package classify maps (table, column) pairs to a closed SemanticType
// enum by regex/name-based rule matching, and groups jointly-meaningful
// columns within a table into correlation groups.
package classify

// SemanticType is the closed classification of a column's real-world
// meaning. It drives both value generation strategy selection and
// correlation grouping.
type SemanticType int

const (
	Unknown SemanticType = iota

	// Identity
	FirstName
	LastName
	FullName
	Username
	DisplayName

	// Contact
	Email
	Phone
	PhoneCountryCode

	// Address
	StreetAddress
	City
	State
	ZipCode
	PostalCode
	Country
	CountryCode
	Latitude
	Longitude

	// Company
	CompanyName
	JobTitle
	Department
	Industry

	// Internet
	URL
	DomainName
	IPAddress
	MacAddress
	UserAgent
	Slug

	// Content / media
	Title
	Description
	Bio
	Paragraph
	Sentence
	HTMLContent
	MarkdownContent
	ImageURL
	AvatarURL
	ThumbnailURL
	FileURL
	FileName
	FilePath
	MimeType
	FileSize

	// Status / enum-like
	Status
	Role
	Priority
	Category
	Tag
	EnumValue

	// Temporal
	CreatedAt
	UpdatedAt
	DeletedAt
	Timestamp
	DateOnly
	TimeOnly
	BirthDate
	StartDate
	EndDate

	// Financial
	Price
	Amount
	Currency
	CurrencyCode
	TaxRate
	Quantity
	Discount

	// Identifiers
	AutoIncrement
	UUID
	ExternalID
	SKU
	Barcode
	OrderNumber
	InvoiceNumber
	TrackingNumber

	// Numeric (generic, no stronger semantic match)
	Percentage
	Rating
	Score
	Weight
	Height
	Count
	Age
	Duration
	SortOrder

	// Auth / security
	PasswordHash
	APIToken
	Token
	SecretKey

	// Data
	BooleanFlag
	JSONData
	Notes
	Color
	HexColor
	Locale
	Timezone
)

// CorrelationGroup tags the cluster of columns a semantic type should be
// generated alongside, so e.g. city/state/zip for one row come from the
// same sampled place rather than being independently randomized.
type CorrelationGroup int

const (
	NoCorrelationGroup CorrelationGroup = iota
	GroupAddress
	GroupGeoCoordinates
	GroupPersonIdentity
	GroupTemporal
	GroupTemporalRange
)

// correlationGroups maps each semantic type that participates in joint
// generation to its group. Semantic types absent from this map return
// NoCorrelationGroup.
var correlationGroups = map[SemanticType]CorrelationGroup{
	StreetAddress: GroupAddress,
	City:          GroupAddress,
	State:         GroupAddress,
	ZipCode:       GroupAddress,
	PostalCode:    GroupAddress,
	Country:       GroupAddress,
	CountryCode:   GroupAddress,

	Latitude:  GroupGeoCoordinates,
	Longitude: GroupGeoCoordinates,

	FirstName:   GroupPersonIdentity,
	LastName:    GroupPersonIdentity,
	FullName:    GroupPersonIdentity,
	Email:       GroupPersonIdentity,
	Username:    GroupPersonIdentity,
	DisplayName: GroupPersonIdentity,

	CreatedAt: GroupTemporal,
	UpdatedAt: GroupTemporal,
	DeletedAt: GroupTemporal,

	StartDate: GroupTemporalRange,
	EndDate:   GroupTemporalRange,
}

// CorrelationGroupOf returns the correlation group st participates in, or
// NoCorrelationGroup if it stands alone.
func CorrelationGroupOf(st SemanticType) CorrelationGroup {
	if g, ok := correlationGroups[st]; ok {
		return g
	}
	return NoCorrelationGroup
}
