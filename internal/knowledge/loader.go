package knowledge

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

const maxTableFileSize = 1024 * 1024 // 1MB

// tableFiles are the required knowledge table files, one per table.
var tableFiles = []string{
	"scopes.yaml",
	"tools.yaml",
	"errors.yaml",
	"tasks.yaml",
	"solutions.yaml",
}

// Load reads the knowledge base from a directory of YAML files.
//
// The directory must contain all five table files (scopes.yaml,
// tools.yaml, errors.yaml, tasks.yaml, solutions.yaml). When dir is
// empty, the embedded default knowledge base is loaded instead.
//
// Any missing or malformed table fails the load with an error wrapping
// ErrInvalidKnowledge. A failed load is fatal; there is no partial
// base and no retry.
func Load(dir string) (*Base, error) {
	if dir == "" {
		return LoadDefault()
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrKnowledgeNotFound, dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrKnowledgeNotFound, dir)
	}

	k := koanf.New(".")
	for _, name := range tableFiles {
		path := filepath.Join(dir, name)
		fi, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: missing table file %s", ErrInvalidKnowledge, name)
		}
		if fi.Size() > maxTableFileSize {
			return nil, fmt.Errorf("%w: table file %s too large: %d bytes (max %d)",
				ErrInvalidKnowledge, name, fi.Size(), maxTableFileSize)
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidKnowledge, name, err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalidKnowledge, name, err)
		}
	}

	return buildBase(k)
}

// LoadDefault loads the embedded default knowledge base.
func LoadDefault() (*Base, error) {
	k := koanf.New(".")
	for _, name := range tableFiles {
		content, err := defaultsFS.ReadFile("defaults/" + name)
		if err != nil {
			return nil, fmt.Errorf("%w: embedded table %s: %v", ErrInvalidKnowledge, name, err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: parsing embedded %s: %v", ErrInvalidKnowledge, name, err)
		}
	}
	return buildBase(k)
}

// buildBase unmarshals, validates, and indexes the merged tables.
func buildBase(k *koanf.Koanf) (*Base, error) {
	var base Base
	if err := k.Unmarshal("", &base); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKnowledge, err)
	}

	if err := base.validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKnowledge, err)
	}

	base.buildIndexes()
	return &base, nil
}
