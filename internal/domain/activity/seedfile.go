package activity

import (
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// seedDocument is the on-disk shape of a seed file:
//
//	activities:
//	  Chess Club:
//	    description: ...
//	    schedule: ...
//	    max_participants: 12
//	    participants: [a@example.com]
type seedDocument struct {
	Activities map[string]Activity `koanf:"activities"`
}

// LoadCatalogFile reads a YAML seed file and returns its validated catalog.
func LoadCatalogFile(path string) (Catalog, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidSeed, path, err)
	}

	var doc seedDocument
	if err := k.UnmarshalWithConf("", &doc, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrInvalidSeed, path, err)
	}
	if len(doc.Activities) == 0 {
		return nil, fmt.Errorf("%w: %s defines no activities", ErrInvalidSeed, path)
	}

	c := make(Catalog, len(doc.Activities))
	for name, a := range doc.Activities {
		c[name] = a.Clone()
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
