// internal/catalog/catalog.go
//
// Loads the Pokémon catalog the guesser plays over.
//
// Responsibilities:
//   - Parse the pokedex JSON ({"pokemon": [...]}) into pokemon.Pokemon values.
//   - Load from a file (CATALOG_FILE) or fall back to the embedded default.
//   - Provide number lookups and a stable number-sorted listing.
//
// Constraints:
//   • Every record needs a numeric "num"; a bad record fails the whole load.
//   • Numbers are unique across the catalog.
//   • The embedded default is parsed once (sync.Once).

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/robalobadob/pokeguess/assets"
	"github.com/robalobadob/pokeguess/internal/pokemon"
)

var (
	ErrDuplicateNumber = errors.New("catalog: duplicate pokemon number")
	ErrEmpty           = errors.New("catalog: no pokemon")
)

// Catalog is an immutable, number-sorted set of Pokémon.
type Catalog struct {
	all   []pokemon.Pokemon
	byNum map[int]pokemon.Pokemon
}

type document struct {
	Pokemon []pokemon.Record `json:"pokemon"`
}

// Parse decodes catalog JSON.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	return FromRecords(doc.Pokemon)
}

// FromRecords builds a catalog from raw records.
func FromRecords(records []pokemon.Record) (*Catalog, error) {
	if len(records) == 0 {
		return nil, ErrEmpty
	}
	c := &Catalog{
		all:   make([]pokemon.Pokemon, 0, len(records)),
		byNum: make(map[int]pokemon.Pokemon, len(records)),
	}
	for i, r := range records {
		p, err := pokemon.New(r)
		if err != nil {
			return nil, fmt.Errorf("catalog: record %d: %w", i, err)
		}
		if _, dup := c.byNum[p.Num()]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateNumber, p.Num())
		}
		c.byNum[p.Num()] = p
		c.all = append(c.all, p)
	}
	sort.Slice(c.all, func(i, j int) bool { return c.all[i].Num() < c.all[j].Num() })
	return c, nil
}

// LoadFile reads a catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return Parse(data)
}

// Load reads path when set, otherwise returns the embedded default.
func Load(path string) (*Catalog, error) {
	if path != "" {
		return LoadFile(path)
	}
	return Default()
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		data, err := assets.Catalog()
		if err != nil {
			defaultErr = err
			return
		}
		defaultCat, defaultErr = Parse(data)
	})
	return defaultCat, defaultErr
}

// All returns every Pokémon sorted by number.
func (c *Catalog) All() []pokemon.Pokemon {
	return append([]pokemon.Pokemon(nil), c.all...)
}

// ByNumber looks a Pokémon up by pokedex number.
func (c *Catalog) ByNumber(n int) (pokemon.Pokemon, bool) {
	p, ok := c.byNum[n]
	return p, ok
}

// Len is the number of Pokémon in the catalog.
func (c *Catalog) Len() int { return len(c.all) }
