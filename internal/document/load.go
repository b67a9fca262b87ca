package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a document from disk. YAML listings are decoded directly; any
// other file is compiled as markup.
func Load(path string) (*Program, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	var prog *Program
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		prog, err = DecodeYAML(f)
	default:
		prog, err = Compile(f)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	return prog, nil
}
