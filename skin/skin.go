package skin

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"set-game-server/game"
)

// Skin is a named set of attribute labels. The engine only sees the
// Domains; the name travels to clients so they can pick art.
type Skin struct {
	Name        string       `yaml:"name" json:"name"`
	Description string       `yaml:"description" json:"description"`
	Domains     game.Domains `yaml:"domains" json:"domains"`
}

// File is the top-level YAML structure of a skins file.
type File struct {
	Skins []Skin `yaml:"skins"`
}

var ErrUnknownSkin = errors.New("unknown skin")

// Builtin returns the skins compiled into the binary.
func Builtin() []Skin {
	return []Skin{
		{
			Name:        "vector",
			Description: "Outlined shapes drawn with lines",
			Domains:     game.StandardDomains(),
		},
		{
			Name:        "pixel",
			Description: "Sprite art on a low resolution grid",
			Domains: game.Domains{
				Shape: []string{"heart", "star", "moon"},
				Color: []string{"magenta", "cyan", "yellow"},
				Count: []string{"1", "2", "3"},
				Fill:  []string{"solid", "dotted", "outline"},
			},
		},
	}
}

// Registry holds skins by name.
type Registry struct {
	skins map[string]Skin
}

// NewRegistry returns a registry seeded with the built-in skins.
func NewRegistry() *Registry {
	r := &Registry{skins: make(map[string]Skin)}
	for _, s := range Builtin() {
		r.skins[s.Name] = s
	}
	return r
}

// Parse decodes a skins YAML document.
func Parse(data []byte) ([]Skin, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse skins YAML: %w", err)
	}
	for i, s := range f.Skins {
		if s.Name == "" {
			return nil, fmt.Errorf("skin %d has no name", i+1)
		}
		if err := s.Domains.Validate(); err != nil {
			return nil, fmt.Errorf("skin %q: %w", s.Name, err)
		}
	}
	return f.Skins, nil
}

// Load returns the built-in skins plus those in path. Skins in the file
// replace built-ins of the same name. A missing file is not an error.
func Load(path string) (*Registry, error) {
	r := NewRegistry()
	if path == "" {
		return r, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, err
	}
	skins, err := Parse(data)
	if err != nil {
		return nil, err
	}
	for _, s := range skins {
		r.skins[s.Name] = s
	}
	return r, nil
}

// Get looks up a skin by name.
func (r *Registry) Get(name string) (Skin, error) {
	s, ok := r.skins[name]
	if !ok {
		return Skin{}, fmt.Errorf("%w: %q", ErrUnknownSkin, name)
	}
	return s, nil
}

// List returns all skins sorted by name.
func (r *Registry) List() []Skin {
	out := make([]Skin, 0, len(r.skins))
	for _, s := range r.skins {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
