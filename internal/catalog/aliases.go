package catalog

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"procurement/internal"
	"procurement/internal/util"
)

// AliasTable maps abbreviations and alternate spellings to canonical vendor
// names. Keys are normalized, so lookups ignore case and punctuation. The table
// is never mutated after NewAliasTable returns.
type AliasTable struct {
	byKey   map[string]string
	entries []internal.AliasEntry
}

var defaultAliases = []internal.AliasEntry{
	{Alias: "IBM", Canonical: "INTERNATIONAL BUSINESS MACHINES"},
	{Alias: "I.B.M.", Canonical: "INTERNATIONAL BUSINESS MACHINES"},
	{Alias: "Big Blue", Canonical: "INTERNATIONAL BUSINESS MACHINES"},
	{Alias: "Dell", Canonical: "DELL INC"},
	{Alias: "Dell Computer Corp", Canonical: "DELL INC"},
	{Alias: "Dell Technologies", Canonical: "DELL INC"},
	{Alias: "MSFT", Canonical: "MICROSOFT CORPORATION"},
	{Alias: "HP", Canonical: "HEWLETT PACKARD COMPANY"},
	{Alias: "HPE", Canonical: "HEWLETT PACKARD ENTERPRISE COMPANY"},
	{Alias: "Oracle", Canonical: "ORACLE AMERICA, INC."},
	{Alias: "AWS", Canonical: "AMAZON WEB SERVICES, INC."},
	{Alias: "Amazon Web Services", Canonical: "AMAZON WEB SERVICES, INC."},
	{Alias: "Cisco", Canonical: "CISCO SYSTEMS, INC."},
	{Alias: "CDW", Canonical: "CDW GOVERNMENT LLC"},
	{Alias: "CDW-G", Canonical: "CDW GOVERNMENT LLC"},
	{Alias: "Xerox", Canonical: "XEROX CORPORATION"},
	{Alias: "Staples", Canonical: "STAPLES CONTRACT & COMMERCIAL LLC"},
	{Alias: "Office Depot", Canonical: "OFFICE DEPOT, INC."},
	{Alias: "Grainger", Canonical: "W.W. GRAINGER, INC."},
}

// DefaultAliases returns a copy of the built-in alias entries.
func DefaultAliases() []internal.AliasEntry {
	out := make([]internal.AliasEntry, len(defaultAliases))
	copy(out, defaultAliases)
	return out
}

// NewAliasTable indexes entries by normalized alias. On a key collision the
// earlier entry wins.
func NewAliasTable(entries []internal.AliasEntry) *AliasTable {
	t := &AliasTable{byKey: make(map[string]string, len(entries))}
	for _, e := range entries {
		key := util.Normalize(e.Alias)
		canonical := strings.TrimSpace(e.Canonical)
		if key == "" || canonical == "" {
			continue
		}
		if existing, ok := t.byKey[key]; ok {
			if existing != canonical {
				slog.Debug("alias collision, keeping first entry",
					"component", "aliases", "alias", e.Alias, "kept", existing, "dropped", canonical)
			}
			continue
		}
		t.byKey[key] = canonical
		t.entries = append(t.entries, internal.AliasEntry{Alias: e.Alias, Canonical: canonical})
	}
	return t
}

// Lookup returns the canonical name registered for name.
func (t *AliasTable) Lookup(name string) (string, bool) {
	if t == nil {
		return "", false
	}
	canonical, ok := t.byKey[util.Normalize(name)]
	return canonical, ok
}

func (t *AliasTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns the accepted entries in insertion order.
func (t *AliasTable) Entries() []internal.AliasEntry {
	if t == nil {
		return nil
	}
	out := make([]internal.AliasEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// LoadAliasFile reads a YAML mapping of alias to canonical name, keeping
// document order.
func LoadAliasFile(path string) ([]internal.AliasEntry, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseAliasYAML(blob)
}

func ParseAliasYAML(blob []byte) ([]internal.AliasEntry, error) {
	if len(bytes.TrimSpace(blob)) == 0 {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(blob, &doc); err != nil {
		return nil, fmt.Errorf("parse alias yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("alias yaml: expected a mapping at line %d", root.Line)
	}

	out := make([]internal.AliasEntry, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("alias yaml: entry at line %d must map a string to a string", k.Line)
		}
		out = append(out, internal.AliasEntry{Alias: k.Value, Canonical: v.Value})
	}
	return out, nil
}

// BuildAliasTable combines the built-in aliases with the entries of path, if
// any. File entries take precedence over built-in ones with the same key.
func BuildAliasTable(path string) (*AliasTable, error) {
	if strings.TrimSpace(path) == "" {
		return NewAliasTable(DefaultAliases()), nil
	}
	fromFile, err := LoadAliasFile(path)
	if err != nil {
		return nil, err
	}
	entries := make([]internal.AliasEntry, 0, len(fromFile)+len(defaultAliases))
	entries = append(entries, fromFile...)
	entries = append(entries, defaultAliases...)
	return NewAliasTable(entries), nil
}
