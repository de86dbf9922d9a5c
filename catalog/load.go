package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/monochromegane/go-gitignore"
	"gopkg.in/yaml.v3"
)

// IgnoreFile lists paths to skip when loading a catalog directory, in gitignore syntax.
const IgnoreFile = ".catalogignore"

var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// document is the object form of a catalog file. A bare list of products is accepted too.
type document struct {
	Products []Product `json:"products" yaml:"products"`
}

// Load reads a catalog from a file or from every catalog file under a directory.
func Load(path string) (*Catalog, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat catalog: %w", err)
	}

	var files []string
	if info.IsDir() {
		files, err = Walk(path)
		if err != nil {
			return nil, err
		}
	} else {
		files = []string{path}
	}

	var products []Product
	for _, f := range files {
		ps, err := ReadFile(f)
		if err != nil {
			return nil, err
		}
		products = append(products, ps...)
	}
	return New(products)
}

// Walk returns the catalog files under root in lexical order.
// It skips hidden directories and respects .catalogignore if found in root.
func Walk(root string) ([]string, error) {
	var files []string
	var ignoreMatcher gitignore.IgnoreMatcher

	ignorePath := filepath.Join(root, IgnoreFile)
	if _, err := os.Stat(ignorePath); err == nil {
		ignoreMatcher, err = gitignore.NewGitIgnore(ignorePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", IgnoreFile, err)
		}
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		if d.IsDir() && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}

		if ignoreMatcher != nil && ignoreMatcher.Match(path, d.IsDir()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.IsDir() && IsCatalogFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk catalog dir: %w", err)
	}
	return files, nil
}

// IsCatalogFile reports whether path has a catalog file extension.
func IsCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// ReadFile decodes the products in a single JSON or YAML catalog file.
func ReadFile(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	products, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return products, nil
}

// Decode parses catalog data. ext selects the format (".json", ".yaml" or ".yml").
func Decode(data []byte, ext string) ([]Product, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	switch strings.ToLower(ext) {
	case ".json":
		if trimmed[0] == '[' {
			var products []Product
			if err := json.Unmarshal(trimmed, &products); err != nil {
				return nil, fmt.Errorf("failed to decode json catalog: %w", err)
			}
			return products, nil
		}
		var doc document
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode json catalog: %w", err)
		}
		return doc.Products, nil
	case ".yaml", ".yml":
		var node yaml.Node
		if err := yaml.Unmarshal(trimmed, &node); err != nil {
			return nil, fmt.Errorf("failed to decode yaml catalog: %w", err)
		}
		if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
			var products []Product
			if err := node.Decode(&products); err != nil {
				return nil, fmt.Errorf("failed to decode yaml catalog: %w", err)
			}
			return products, nil
		}
		var doc document
		if err := node.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode yaml catalog: %w", err)
		}
		return doc.Products, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}
