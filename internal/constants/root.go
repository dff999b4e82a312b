package constants

// PlanType is the category tag of a reading plan
type PlanType string

// Shape identifies the structural variant of a persisted progress record
type Shape int

const (
	AppName            = "lectio"
	DefaultKeyringUser = "database-connection"
	Version            = "v0.3.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// DisplayDateFormat matches the long form shown to readers, e.g. "March 4, 2025"
	DisplayDateFormat = "January 2, 2006"

	// Storage keys. The values are kept from the browser build so exported
	// bundles and legacy records stay readable.
	KeyProgress    = "bible-reading-progress"
	KeyNotes       = "bible-reading-notes"
	KeyStudyFocus  = "bible-reading-study-focus"
	KeyCustomPlans = "bible-reading-custom-plans"

	// ProgressSchemaVersion is written into every MultiPlanProgress record
	ProgressSchemaVersion = 2

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "lectio-"

	// Plan types
	PlanTypeChronological PlanType = "chronological"
	PlanTypeThematic      PlanType = "thematic"
	PlanTypeBookByBook    PlanType = "book-by-book"
	PlanTypeCustom        PlanType = "custom"

	// ID prefixes
	CustomPlanIDPrefix = "custom-"
	ReadingIDPrefix    = "reading-"
)

// Persisted progress shapes
const (
	ShapeUnknown Shape = iota
	ShapeLegacy
	ShapeCurrent
)

func (s Shape) String() string {
	switch s {
	case ShapeLegacy:
		return "legacy"
	case ShapeCurrent:
		return "current"
	default:
		return "unknown"
	}
}

// ValidPlanType reports whether t is one of the closed set of plan categories
func ValidPlanType(t PlanType) bool {
	switch t {
	case PlanTypeChronological, PlanTypeThematic, PlanTypeBookByBook, PlanTypeCustom:
		return true
	}
	return false
}
