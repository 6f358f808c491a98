package rule

import (
	"strings"
	"unicode"
)

// classSuffix is removed from check class names to form internal keys.
const classSuffix = "Rule"

// namePatches fix words the camel-case split breaks apart.
var namePatches = strings.NewReplacer("J Unit", "JUnit")

// InternalKey derives the short identifier from a qualified class name.
func InternalKey(className string) string {
	simple := className
	if i := strings.LastIndexByte(simple, '.'); i >= 0 {
		simple = simple[i+1:]
	}
	return strings.TrimSuffix(simple, classSuffix)
}

// DisplayName turns an internal key into a human-readable name.
func DisplayName(internalKey string) string {
	return namePatches.Replace(strings.Join(splitCamelCase(internalKey), " "))
}

type charClass int

const (
	classUpper charClass = iota
	classLower
	classDigit
	classOther
)

func classify(r rune) charClass {
	switch {
	case unicode.IsUpper(r):
		return classUpper
	case unicode.IsLower(r):
		return classLower
	case unicode.IsDigit(r):
		return classDigit
	default:
		return classOther
	}
}

// splitCamelCase splits on character class changes. In a run of upper-case
// letters followed by lower-case ones, the last upper-case letter starts the
// next word: "JUnitTest" -> ["J", "Unit", "Test"], "Md5Sum" -> ["Md", "5", "Sum"].
func splitCamelCase(s string) []string {
	runes := []rune(s)
	if len(runes) == 0 {
		return nil
	}

	var words []string
	start := 0
	prev := classify(runes[0])
	for i := 1; i < len(runes); i++ {
		cur := classify(runes[i])
		if cur == prev {
			continue
		}
		if cur == classLower && prev == classUpper {
			if i-1 > start {
				words = append(words, string(runes[start:i-1]))
				start = i - 1
			}
		} else {
			words = append(words, string(runes[start:i]))
			start = i
		}
		prev = cur
	}
	return append(words, string(runes[start:]))
}
