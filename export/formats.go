package export

import (
	"fmt"
	"sort"
	"strings"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatXML produces one combined rules.xml document.
	FormatXML Format = "xml"

	// FormatJSONHTML produces a rules/ directory with a .json and .html file per rule.
	FormatJSONHTML Format = "json-html"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type of the primary artifact.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatXML: {
		Name:        FormatXML,
		MIMEType:    "application/xml",
		Extension:   ".xml",
		Description: "Combined rule definitions document",
	},
	FormatJSONHTML: {
		Name:        FormatJSONHTML,
		MIMEType:    "application/json",
		Extension:   ".json",
		Description: "One JSON metadata file and one HTML description per rule",
	},
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := FormatRegistry[f]; !ok {
		return "", fmt.Errorf("unsupported format: %s (supported: %s)", name, strings.Join(FormatNames(), ", "))
	}
	return f, nil
}

// FormatNames returns the supported format names, sorted.
func FormatNames() []string {
	names := make([]string, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}
