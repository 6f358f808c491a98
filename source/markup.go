package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// balancedTags are the block elements the APT scan opens and must close.
var balancedTags = []string{"p", "pre"}

// CheckMarkup verifies that every <p> and <pre> opened in a description is closed.
// It returns an error naming the first unbalanced element.
func CheckMarkup(description string) error {
	depth := make(map[string]int, len(balancedTags))
	z := html.NewTokenizer(strings.NewReader(description))

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return fmt.Errorf("tokenize description: %w", z.Err())
			}
			for _, tag := range balancedTags {
				if depth[tag] > 0 {
					return fmt.Errorf("unterminated <%s> element", tag)
				}
			}
			return nil
		case html.StartTagToken, html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if !isBalancedTag(tag) {
				continue
			}
			if tt == html.StartTagToken {
				depth[tag]++
				continue
			}
			depth[tag]--
			if depth[tag] < 0 {
				return fmt.Errorf("unexpected </%s> element", tag)
			}
		}
	}
}

func isBalancedTag(tag string) bool {
	for _, t := range balancedTags {
		if t == tag {
			return true
		}
	}
	return false
}
