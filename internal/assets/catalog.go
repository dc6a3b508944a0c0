package assets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"nfd/internal/generator"
)

// ErrCatalogUnavailable is returned when the fragment directory cannot be read.
var ErrCatalogUnavailable = errors.New("fragment catalog unavailable")

// Kind selects one of the three fragment catalogs by its filename tag.
type Kind string

const (
	KindBody  Kind = generator.SuffixBody
	KindMouth Kind = generator.SuffixMouth
	KindEyes  Kind = generator.SuffixEyes
)

// Catalog lists the available fragment identifiers for a part kind.
type Catalog interface {
	List(kind Kind) ([]string, error)
}

// DirCatalog serves fragments from a flat directory, filtering by the kind
// tag embedded in each filename.
type DirCatalog struct {
	dir string
}

// NewDirCatalog creates a catalog over the given fragment directory.
func NewDirCatalog(dir string) *DirCatalog {
	return &DirCatalog{dir: dir}
}

// List returns the filenames of all fragments of the given kind, in
// directory order.
func (c *DirCatalog) List(kind Kind) ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("reading fragment dir %s: %w", c.dir, ErrCatalogUnavailable)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.Contains(entry.Name(), string(kind)) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
