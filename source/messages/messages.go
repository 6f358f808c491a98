// Package messages loads the properties resource holding base rule descriptions.
package messages

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/magiconair/properties"
)

// DescriptionSuffix is appended to an internal key to find its description.
const DescriptionSuffix = ".description.html"

// Catalog is a read-only view over a properties resource.
type Catalog struct {
	props *properties.Properties
}

// Empty returns a catalog without entries.
func Empty() *Catalog {
	return &Catalog{props: properties.NewProperties()}
}

// LoadFile reads a properties file. Placeholder expansion is disabled so that
// "${rule.x}" references survive for later cleanup.
func LoadFile(path string) (*Catalog, error) {
	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := l.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load messages %s: %w", path, err)
	}
	return &Catalog{props: p}, nil
}

// LoadString parses properties text.
func LoadString(text string) (*Catalog, error) {
	l := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := l.LoadBytes([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("parse messages: %w", err)
	}
	return &Catalog{props: p}, nil
}

// Open loads path when set and present, otherwise returns an empty catalog.
// A missing file is logged, not fatal.
func Open(path string, logger *slog.Logger) (*Catalog, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return Empty(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logger.Warn("Messages file not found, using documentation text only", "path", path)
		return Empty(), nil
	}
	return LoadFile(path)
}

// Get returns the raw value stored under key.
func (c *Catalog) Get(key string) (string, bool) {
	return c.props.Get(key)
}

// Description returns the base HTML description for an internal key.
func (c *Catalog) Description(internalKey string) string {
	v, _ := c.props.Get(internalKey + DescriptionSuffix)
	return v
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return c.props.Len()
}
