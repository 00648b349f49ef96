package proposal

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Catalogs for the candidate pools. Partners and knowledge chunks are
// curated data shipped alongside the service; they change by
// redeployment, not through the API, so flat YAML files are enough.

type partnerFile struct {
	Partners []Partner `yaml:"partners"`
}

type knowledgeFile struct {
	Chunks []KnowledgeChunk `yaml:"chunks"`
}

// LoadPartners reads the partner catalog. A missing file yields an
// empty pool.
func LoadPartners(path string) ([]Partner, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read partner catalog: %w", err)
	}
	var f partnerFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse partner catalog: %w", err)
	}
	return f.Partners, nil
}

// LoadChunks reads the knowledge fragment catalog. A missing file
// yields an empty pool.
func LoadChunks(path string) ([]KnowledgeChunk, error) {
	if path == "" {
		return nil, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read knowledge catalog: %w", err)
	}
	var f knowledgeFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse knowledge catalog: %w", err)
	}
	return f.Chunks, nil
}
