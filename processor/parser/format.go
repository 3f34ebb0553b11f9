package parser

// Format names reported by parsers and conversion results.
const (
	FormatJSON    = "json"
	FormatJavaMap = "javamap"
)

// FormatParser turns raw bytes of one notation into a value tree.
type FormatParser interface {
	Format() string
	Parse(data []byte) (*Value, error)
	Validate(data []byte) error
}

var (
	_ FormatParser = (*JSONParser)(nil)
	_ FormatParser = (*JavaMapParser)(nil)
)
