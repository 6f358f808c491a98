package rule

import (
	"sort"
	"strings"
)

// DefaultTag is used when no classification applies.
const DefaultTag = "bug"

// categoryTags maps a check package segment to its tag.
var categoryTags = map[string]string{
	"unnecessary": "clumsy",
	"formatting":  "convention",
	"naming":      "convention",
	"concurrency": "multi-threading",
	"exceptions":  "error-handling",
	"grails":      "grails",
	"groovyism":   "groovyism",
	"junit":       "junit",
	"design":      "design",
}

// basicTags classifies specific checks of the "basic" category by internal key.
var basicTags = map[string][]string{
	"DeadCode":                      {"unused"},
	"ExplicitGarbageCollection":     {"unpredictable"},
	"HardCodedWindowsFileSeparator": {"pitfall"},
	"HardCodedWindowsRootDirectory": {"pitfall"},
	"ForLoopShouldBeWhileLoop":      {"clumsy"},
	"ClassForName":                  {"leak", "owasp-a1"},
}

// Category returns the package segment preceding the class name in a qualified key.
func Category(key string) string {
	parts := strings.Split(key, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}

// Tags derives the sorted tag set of a check from its category and internal key.
func Tags(key, internalKey string) []string {
	category := Category(key)
	if category == "basic" {
		return basicCategoryTags(internalKey)
	}
	if tag, ok := categoryTags[category]; ok {
		return []string{tag}
	}
	return []string{DefaultTag}
}

func basicCategoryTags(internalKey string) []string {
	switch {
	case strings.HasPrefix(internalKey, "Empty"):
		return []string{"unused"}
	case strings.HasPrefix(internalKey, "Broken"):
		return []string{"bug"}
	case strings.HasPrefix(internalKey, "Equals"):
		return []string{"pitfall"}
	case strings.Contains(internalKey, "Get") && !strings.HasPrefix(internalKey, "Get"):
		return []string{"bug"}
	case strings.HasSuffix(internalKey, "FinallyBlock"):
		return []string{"error-handling"}
	}
	if tags, ok := basicTags[internalKey]; ok {
		out := append([]string(nil), tags...)
		sort.Strings(out)
		return out
	}
	return []string{DefaultTag}
}
