// Package catalog provides the built-in reference list of common laboratory
// reagents used to pre-fill new chemical records.
package catalog

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"sync"

	"labstock/internal/inventory"
)

//go:embed catalog.csv
var builtin string

// Entry is one catalog reagent.
type Entry struct {
	Name      string                  `json:"name"`
	Formula   string                  `json:"formula"`
	CASNumber string                  `json:"casNumber"`
	State     inventory.PhysicalState `json:"state"`
	Category  string                  `json:"category"`
	NFPA      inventory.NFPARating    `json:"nfpa"`
	Location  string                  `json:"location"`
	Packaging string                  `json:"packaging,omitempty"`
}

// Chemical turns the entry into a master record ready to be created.
func (e Entry) Chemical() inventory.Chemical {
	return inventory.Chemical{
		Name:      e.Name,
		Formula:   e.Formula,
		CASNumber: e.CASNumber,
		Category:  e.Category,
		State:     e.State,
		NFPA:      e.NFPA,
		Location:  e.Location,
		Lots:      []inventory.Lot{},
	}
}

// Catalog is an immutable, name-indexed list of entries.
type Catalog struct {
	entries []Entry
	byName  map[string]int
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		var entries []Entry
		entries, defaultErr = Read(strings.NewReader(builtin))
		if defaultErr == nil {
			defaultCat = New(entries)
		}
	})
	return defaultCat, defaultErr
}

// New indexes entries. Later duplicates of a name replace earlier ones.
func New(entries []Entry) *Catalog {
	c := &Catalog{byName: make(map[string]int, len(entries))}
	for _, entry := range entries {
		key := strings.ToLower(strings.TrimSpace(entry.Name))
		if i, ok := c.byName[key]; ok {
			c.entries[i] = entry
			continue
		}
		c.byName[key] = len(c.entries)
		c.entries = append(c.entries, entry)
	}
	return c
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns every entry in catalog order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Lookup finds an entry by case-insensitive name.
func (c *Catalog) Lookup(name string) (Entry, bool) {
	i, ok := c.byName[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// Search returns up to limit entries whose name, formula or CAS number
// contains q. Name-prefix matches sort first.
func (c *Catalog) Search(q string, limit int) []Entry {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return nil
	}
	type hit struct {
		entry  Entry
		prefix bool
	}
	var hits []hit
	for _, entry := range c.entries {
		name := strings.ToLower(entry.Name)
		switch {
		case strings.HasPrefix(name, q):
			hits = append(hits, hit{entry, true})
		case strings.Contains(name, q),
			strings.Contains(strings.ToLower(entry.Formula), q),
			strings.Contains(entry.CASNumber, q):
			hits = append(hits, hit{entry, false})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].prefix && !hits[j].prefix })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]Entry, len(hits))
	for i, h := range hits {
		out[i] = h.entry
	}
	return out
}

// Read parses catalog CSV with a header row. Column order is free; unknown
// columns are ignored.
func Read(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("catalog: read csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, errors.New("catalog: csv is empty")
	}

	header := make(map[string]int, len(rows[0]))
	for i, key := range rows[0] {
		header[strings.ToLower(strings.TrimSpace(key))] = i
	}
	if _, ok := header["name"]; !ok {
		return nil, errors.New("catalog: csv has no name column")
	}

	entries := make([]Entry, 0, len(rows)-1)
	for line, row := range rows[1:] {
		get := func(key string) string {
			i, ok := header[key]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		name := get("name")
		if name == "" {
			continue
		}
		state, ok := inventory.ParsePhysicalState(get("state"))
		if !ok {
			state = inventory.StateLiquid
		}
		nfpa, err := parseNFPA(get("nfpa_health"), get("nfpa_flammability"), get("nfpa_instability"))
		if err != nil {
			return nil, fmt.Errorf("catalog: line %d (%s): %w", line+2, name, err)
		}
		nfpa.Special = get("nfpa_special")
		entries = append(entries, Entry{
			Name:      name,
			Formula:   get("formula"),
			CASNumber: get("cas_number"),
			State:     state,
			Category:  inventory.NormalizeCategory(get("category")),
			NFPA:      nfpa.Clamp(),
			Location:  get("location"),
			Packaging: get("packaging"),
		})
	}
	return entries, nil
}

func parseNFPA(health, flammability, instability string) (inventory.NFPARating, error) {
	var out inventory.NFPARating
	targets := []struct {
		raw string
		dst *int
	}{
		{health, &out.Health},
		{flammability, &out.Flammability},
		{instability, &out.Instability},
	}
	for _, t := range targets {
		if t.raw == "" {
			continue
		}
		v, err := strconv.Atoi(t.raw)
		if err != nil {
			return out, fmt.Errorf("nfpa rating %q: %w", t.raw, err)
		}
		*t.dst = v
	}
	return out, nil
}
