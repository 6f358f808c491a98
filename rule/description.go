package rule

import (
	"strings"
)

// DefaultBaseURL resolves relative documentation links.
const DefaultBaseURL = "http://codenarc.sourceforge.net/"

const (
	placeholderOpen  = " (${rule."
	placeholderClose = "})"
)

// CleanDescription strips parameter placeholders and rewrites APT link markers into anchors.
func CleanDescription(description, baseURL string) string {
	return RewriteLinks(StripPlaceholders(description), baseURL)
}

// StripPlaceholders removes " (${rule.NAME})" references.
func StripPlaceholders(description string) string {
	for _, ref := range substringsBetween(description, placeholderOpen, placeholderClose) {
		description = strings.ReplaceAll(description, placeholderOpen+ref+placeholderClose, "")
	}
	return description
}

// RewriteLinks converts link markers to HTML anchors:
//
//	{{url}}             -> <a href="url">url</a>
//	{{{url}}}           -> <a href="url">url</a>
//	{{{url}}            -> <a href="url">url</a>
//	{{{url}label}}      -> <a href="url">label</a>
//	{{{./page}label}}   -> <a href="BASE/page">label</a>
//
// Markers without a closing sequence are left untouched.
func RewriteLinks(description, baseURL string) string {
	if !strings.Contains(description, "{{") {
		return description
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	var b strings.Builder
	rest := description
	for {
		start := strings.Index(rest, "{{")
		if start < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:start])
		anchor, consumed, ok := parseLink(rest[start:], baseURL)
		if !ok {
			// Not a link: emit one brace and rescan from the next.
			b.WriteByte('{')
			rest = rest[start+1:]
			continue
		}
		b.WriteString(anchor)
		rest = rest[start+consumed:]
	}
	return b.String()
}

// parseLink parses a marker at the start of s and returns the anchor and the
// number of bytes consumed.
func parseLink(s, baseURL string) (string, int, bool) {
	if strings.HasPrefix(s, "{{{") {
		body := s[3:]
		end := strings.IndexByte(body, '}')
		if end <= 0 {
			return "", 0, false
		}
		url := body[:end]
		if strings.Contains(url, "{") {
			return "", 0, false
		}
		tail := body[end:]
		switch {
		case strings.HasPrefix(tail, "}}}"):
			return anchor(url, url, baseURL), 3 + end + 3, true
		case strings.HasPrefix(tail, "}}"):
			return anchor(url, url, baseURL), 3 + end + 2, true
		}
		labelEnd := strings.Index(tail[1:], "}}")
		if labelEnd < 0 {
			return "", 0, false
		}
		label := tail[1 : 1+labelEnd]
		return anchor(url, label, baseURL), 3 + end + 1 + labelEnd + 2, true
	}

	body := s[2:]
	end := strings.Index(body, "}}")
	if end <= 0 {
		return "", 0, false
	}
	url := body[:end]
	if strings.ContainsAny(url, "{}") {
		return "", 0, false
	}
	return anchor(url, url, baseURL), 2 + end + 2, true
}

func anchor(url, label, baseURL string) string {
	href := url
	if rel, ok := strings.CutPrefix(url, "./"); ok {
		href = strings.TrimSuffix(baseURL, "/") + "/" + rel
	}
	return `<a href="` + href + `">` + label + `</a>`
}

// substringsBetween returns every substring delimited by open and close,
// scanning left to right without overlap.
func substringsBetween(s, open, closing string) []string {
	var out []string
	for {
		i := strings.Index(s, open)
		if i < 0 {
			return out
		}
		s = s[i+len(open):]
		j := strings.Index(s, closing)
		if j < 0 {
			return out
		}
		out = append(out, s[:j])
		s = s[j+len(closing):]
	}
}
