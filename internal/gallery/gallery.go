// Package gallery loads the portfolio's project records.
//
// Records are read once, from JSON or YAML, and handed out as copies; the
// Gallery itself never changes after Load returns.
package gallery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ErrNoProjects is returned when a source decodes to an empty list.
var ErrNoProjects = errors.New("gallery: no projects")

// Project is one card in the gallery.
type Project struct {
	Name        string `json:"name,omitempty" yaml:"name,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description" yaml:"description"`
	Link        string `json:"link,omitempty" yaml:"link,omitempty"`
}

// DisplayName is the card heading: the title when set, otherwise the name.
func (p Project) DisplayName() string {
	if t := strings.TrimSpace(p.Title); t != "" {
		return t
	}
	return strings.TrimSpace(p.Name)
}

// HasLink reports whether the card should render a "View Project" link.
func (p Project) HasLink() bool {
	return strings.TrimSpace(p.Link) != ""
}

// Gallery is a read-only list of projects.
type Gallery struct {
	projects []Project
}

// New builds a Gallery from already-decoded records.
func New(projects []Project) (*Gallery, error) {
	if len(projects) == 0 {
		return nil, ErrNoProjects
	}
	for i, p := range projects {
		if p.DisplayName() == "" {
			return nil, fmt.Errorf("gallery: project %d has neither name nor title", i)
		}
	}
	cp := make([]Project, len(projects))
	copy(cp, projects)
	return &Gallery{projects: cp}, nil
}

// Projects returns a copy of the records in source order.
func (g *Gallery) Projects() []Project {
	out := make([]Project, len(g.projects))
	copy(out, g.projects)
	return out
}

// Len is the number of projects.
func (g *Gallery) Len() int {
	return len(g.projects)
}

// Load decodes data. The decoder is picked from name's extension: .yaml and
// .yml are YAML, anything else is JSON. Both a bare list and an object with a
// "projects" key are accepted.
func Load(name string, data []byte) (*Gallery, error) {
	var (
		list    []Project
		wrapped struct {
			Projects []Project `json:"projects" yaml:"projects"`
		}
	)

	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &list); err != nil {
			if err := yaml.Unmarshal(data, &wrapped); err != nil {
				return nil, fmt.Errorf("gallery: decode %s: %w", name, err)
			}
			list = wrapped.Projects
		}
	default:
		trimmed := strings.TrimSpace(string(data))
		if strings.HasPrefix(trimmed, "{") {
			if err := json.Unmarshal(data, &wrapped); err != nil {
				return nil, fmt.Errorf("gallery: decode %s: %w", name, err)
			}
			list = wrapped.Projects
		} else if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("gallery: decode %s: %w", name, err)
		}
	}

	g, err := New(list)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return g, nil
}

// LoadFile reads and decodes the file at path.
func LoadFile(path string) (*Gallery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gallery: %w", err)
	}
	return Load(path, data)
}

// LoadFS reads and decodes name from fsys.
func LoadFS(fsys fs.FS, name string) (*Gallery, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("gallery: %w", err)
	}
	return Load(name, data)
}
