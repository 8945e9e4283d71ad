// Package catalog loads the job role catalog: roles grouped by category, each
// with a description and the skills it requires.
package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// ErrRoleNotFound is returned by Lookup for unknown roles.
var ErrRoleNotFound = errors.New("role not found")

// Role describes one job role.
type Role struct {
	Name           string   `mapstructure:"-" json:"name"`
	Category       string   `mapstructure:"-" json:"category"`
	Description    string   `mapstructure:"description" json:"description"`
	RequiredSkills []string `mapstructure:"required_skills" json:"required_skills"`
}

// Catalog is an immutable set of roles.
type Catalog struct {
	categories []string
	roles      map[string]Role
	byCategory map[string][]string
}

// Load reads a catalog from a JSON or YAML file. A missing file yields an
// empty catalog.
func Load(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Empty(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Empty(), nil
		}
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	return c, nil
}

// Empty returns a catalog without roles.
func Empty() *Catalog {
	return &Catalog{roles: map[string]Role{}, byCategory: map[string][]string{}}
}

// Parse decodes a category → role → details document.
func Parse(data []byte) (*Catalog, error) {
	var raw map[string]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}

	c := Empty()
	for category, roles := range raw {
		for name, details := range roles {
			var role Role
			cfg := &mapstructure.DecoderConfig{
				Result:           &role,
				TagName:          "mapstructure",
				WeaklyTypedInput: true,
			}
			decoder, err := mapstructure.NewDecoder(cfg)
			if err != nil {
				return nil, err
			}
			if err := decoder.Decode(details); err != nil {
				return nil, fmt.Errorf("decode role %s/%s: %w", category, name, err)
			}

			role.Name = strings.TrimSpace(name)
			role.Category = strings.TrimSpace(category)
			role.RequiredSkills = cleanSkills(role.RequiredSkills)

			key := strings.ToLower(role.Name)
			if existing, ok := c.roles[key]; ok {
				return nil, fmt.Errorf("role %q listed in both %q and %q", role.Name, existing.Category, role.Category)
			}
			c.roles[key] = role
			c.byCategory[role.Category] = append(c.byCategory[role.Category], role.Name)
		}
	}

	for category, names := range c.byCategory {
		sort.Strings(names)
		c.categories = append(c.categories, category)
	}
	sort.Strings(c.categories)

	return c, nil
}

func cleanSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, skill := range skills {
		if skill = strings.TrimSpace(skill); skill != "" {
			out = append(out, skill)
		}
	}
	return out
}

// Lookup finds a role by name, ignoring case.
func (c *Catalog) Lookup(name string) (Role, error) {
	role, ok := c.roles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Role{}, fmt.Errorf("%w: %s", ErrRoleNotFound, name)
	}
	role.RequiredSkills = append([]string(nil), role.RequiredSkills...)
	return role, nil
}

// RequiredSkills returns the skills of the named role, or nil when it is unknown.
func (c *Catalog) RequiredSkills(name string) []string {
	role, err := c.Lookup(name)
	if err != nil {
		return nil
	}
	return role.RequiredSkills
}

// Categories returns the category names in sorted order.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

// RolesIn returns the sorted role names of one category.
func (c *Catalog) RolesIn(category string) []string {
	return append([]string(nil), c.byCategory[category]...)
}

// Roles returns every role name in sorted order.
func (c *Catalog) Roles() []string {
	names := make([]string, 0, len(c.roles))
	for _, role := range c.roles {
		names = append(names, role.Name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of roles.
func (c *Catalog) Len() int { return len(c.roles) }
