package models

import "fmt"

// Category is one of the three update categories an agent can apply.
type Category string

const (
	CategoryCore    Category = "core"
	CategoryPlugins Category = "plugins"
	CategoryThemes  Category = "themes"
)

// ParseCategory accepts only core, plugins and themes.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("category must be one of: core plugins themes, got %q", s)
	}
	return c, nil
}

func (c Category) Valid() bool {
	switch c {
	case CategoryCore, CategoryPlugins, CategoryThemes:
		return true
	}
	return false
}

// Singular is the wording used in agent messages ("No plugin updates available").
func (c Category) Singular() string {
	switch c {
	case CategoryPlugins:
		return "plugin"
	case CategoryThemes:
		return "theme"
	default:
		return string(c)
	}
}
