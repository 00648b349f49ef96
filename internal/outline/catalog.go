package outline

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalog holds named section templates loaded from a YAML file:
//
//	templates:
//	  horizon_ria:
//	    - label: Excellence
//	      subsections:
//	        - label: Objectives
//	  interreg:
//	    - label: Project Summary
type Catalog struct {
	byID map[string][]TemplateNode
}

type catalogFile struct {
	Templates map[string][]TemplateNode `yaml:"templates"`
}

// LoadCatalog reads a template catalog. A missing path yields an empty
// catalog, so deployments without custom templates fall through to the
// default outline.
func LoadCatalog(path string) (*Catalog, error) {
	cat := &Catalog{byID: map[string][]TemplateNode{}}
	if path == "" {
		return cat, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cat, nil
		}
		return nil, fmt.Errorf("read template catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse template catalog: %w", err)
	}
	for id, nodes := range f.Templates {
		cat.byID[id] = nodes
	}
	return cat, nil
}

// Get returns the template for id, or nil when unknown (callers fall
// back to the default outline via Resolve).
func (c *Catalog) Get(id string) []TemplateNode {
	if c == nil || id == "" {
		return nil
	}
	return c.byID[id]
}

// IDs lists the known template ids.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, 0, len(c.byID))
	for id := range c.byID {
		ids = append(ids, id)
	}
	return ids
}
