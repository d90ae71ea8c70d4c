package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// EnumCatalog maps an enum name to its numeric-value -> symbolic-name
// table, as dumped by the engine's reflection tooling. It is immutable
// once loaded.
type EnumCatalog struct {
	enums map[string]map[string]string
}

// LoadEnumCatalog parses the external enum-dump JSON, shaped
// {"<enum name>": {"<decimal value>": "<symbol>", ...}, ...}. As with the
// type dump, the input may be a stream of top-level objects; entries from
// later objects are merged in.
func LoadEnumCatalog(r io.Reader) (*EnumCatalog, error) {
	dec := json.NewDecoder(r)
	enums := make(map[string]map[string]string)

	for {
		var obj map[string]map[string]string
		if err := dec.Decode(&obj); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("catalog: decode enum dump: %w", err)
		}
		for name, values := range obj {
			existing, ok := enums[name]
			if !ok {
				enums[name] = values
				continue
			}
			for k, v := range values {
				existing[k] = v
			}
		}
	}

	return &EnumCatalog{enums: enums}, nil
}

// Normalize maps an enum name as it appears in a field's original_type
// (possibly array-suffixed or using the "_Serializable" spelling) to the
// name used as a key in the dump, which always uses the "_Fixed" spelling.
func Normalize(name string) string {
	name = strings.TrimSuffix(name, "[]")
	if strings.HasSuffix(name, "_Serializable") {
		name = strings.TrimSuffix(name, "_Serializable") + "_Fixed"
	}
	return name
}

// Lookup resolves a symbolic name for value (a decimal string) under the
// enum named name. The name is normalized first. ok is false both when the
// enum itself is not in the catalog and when the value has no symbol; the
// two cases are not distinguished.
func (c *EnumCatalog) Lookup(name, value string) (symbol string, ok bool) {
	values, found := c.enums[Normalize(name)]
	if !found {
		return "", false
	}
	symbol, ok = values[value]
	return symbol, ok
}

// Len returns the number of enums in the catalog.
func (c *EnumCatalog) Len() int {
	return len(c.enums)
}
