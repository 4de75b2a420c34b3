// Package backup encodes and decodes the JSON backup document.
package backup

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"labstock/internal/inventory"
)

// Version is written into every exported document.
const Version = "1.0"

// MaxSize bounds accepted backup uploads.
const MaxSize = 20 << 20

var (
	ErrMalformed         = errors.New("backup: malformed document")
	ErrMissingChemicals  = errors.New("backup: chemicals list is missing")
	ErrChemicalsNotArray = errors.New("backup: chemicals must be an array")
)

// Document is the on-disk backup layout.
type Document struct {
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Chemicals []inventory.Chemical   `json:"chemicals"`
	AuditLogs []inventory.AuditEntry `json:"auditLogs"`
}

// New builds a document for the given snapshot.
func New(state inventory.State, audit []inventory.AuditEntry, now time.Time) Document {
	chemicals := state.Chemicals
	if chemicals == nil {
		chemicals = []inventory.Chemical{}
	}
	if audit == nil {
		audit = []inventory.AuditEntry{}
	}
	return Document{
		Version:   Version,
		Timestamp: now.UTC(),
		Chemicals: chemicals,
		AuditLogs: audit,
	}
}

// Encode writes doc as indented JSON.
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("backup: encode: %w", err)
	}
	return nil
}

// Decode reads a backup document. The chemicals key must be present and hold
// an array; anything else is rejected without a partial result. A missing
// audit log decodes as empty.
func Decode(r io.Reader) (Document, error) {
	raw, err := io.ReadAll(io.LimitReader(r, MaxSize+1))
	if err != nil {
		return Document{}, fmt.Errorf("backup: read: %w", err)
	}
	if len(raw) > MaxSize {
		return Document{}, fmt.Errorf("%w: document exceeds %d bytes", ErrMalformed, MaxSize)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	chemicals, ok := envelope["chemicals"]
	if !ok {
		return Document{}, ErrMissingChemicals
	}
	if trimmed := bytes.TrimSpace(chemicals); len(trimmed) == 0 || trimmed[0] != '[' {
		return Document{}, ErrChemicalsNotArray
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.AuditLogs == nil {
		doc.AuditLogs = []inventory.AuditEntry{}
	}
	for i := range doc.Chemicals {
		if doc.Chemicals[i].Lots == nil {
			doc.Chemicals[i].Lots = []inventory.Lot{}
		}
	}
	if err := validate(doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// State returns the inventory carried by doc.
func (d Document) State() inventory.State {
	return inventory.State{Chemicals: d.Chemicals}
}

func validate(doc Document) error {
	chemicalIDs := make(map[string]struct{}, len(doc.Chemicals))
	lotIDs := make(map[string]struct{})
	for i, chem := range doc.Chemicals {
		if chem.ID == "" {
			return fmt.Errorf("%w: chemical %d has no id", ErrMalformed, i)
		}
		if _, dup := chemicalIDs[chem.ID]; dup {
			return fmt.Errorf("%w: duplicate chemical id %q", ErrMalformed, chem.ID)
		}
		chemicalIDs[chem.ID] = struct{}{}
		for _, lot := range chem.Lots {
			if lot.ID == "" {
				return fmt.Errorf("%w: lot %q of %q has no id", ErrMalformed, lot.LotNumber, chem.Name)
			}
			if _, dup := lotIDs[lot.ID]; dup {
				return fmt.Errorf("%w: duplicate lot id %q", ErrMalformed, lot.ID)
			}
			lotIDs[lot.ID] = struct{}{}
			if !lot.Status.Valid() {
				return fmt.Errorf("%w: lot %q has unknown status %q", ErrMalformed, lot.LotNumber, lot.Status)
			}
			if lot.Quantity < 0 {
				return fmt.Errorf("%w: lot %q has negative quantity", ErrMalformed, lot.LotNumber)
			}
		}
	}
	auditIDs := make(map[string]struct{}, len(doc.AuditLogs))
	for i, entry := range doc.AuditLogs {
		if entry.ID == "" {
			return fmt.Errorf("%w: audit entry %d has no id", ErrMalformed, i)
		}
		if _, dup := auditIDs[entry.ID]; dup {
			return fmt.Errorf("%w: duplicate audit id %q", ErrMalformed, entry.ID)
		}
		auditIDs[entry.ID] = struct{}{}
	}
	return nil
}
