package parsers

import (
	"fmt"
	"path/filepath"

	"github.com/ethanolivertroy/modinstall/internal/models"
)

// Parser is the interface for dependency file parsers
type Parser interface {
	// CanParse returns true if this parser can handle the given filename
	CanParse(filename string) bool

	// Parse extracts dependencies from the file content
	Parse(filepath string, content []byte) ([]models.Dependency, error)
}

// GetAllParsers returns all available dependency parsers
func GetAllParsers() []Parser {
	return []Parser{
		&PackagesParser{},
	}
}

// ParseFile parses content with the first parser accepting the file's base name
func ParseFile(path string, content []byte) ([]models.Dependency, error) {
	filename := filepath.Base(path)
	for _, parser := range GetAllParsers() {
		if parser.CanParse(filename) {
			return parser.Parse(path, content)
		}
	}
	return nil, fmt.Errorf("no parser for %s (expected packages.toml or <name>.packages.toml)", path)
}
