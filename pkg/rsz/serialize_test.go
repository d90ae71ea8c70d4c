package rsz

import (
	"strings"
	"testing"
)

func TestSerializeEnumFallbackWhenSymbolMissing(t *testing.T) {
	const dump = `{
  "00000001": {"name": "Foo", "crc": "1", "fields": [
    {"align": 4, "array": false, "name": "kind", "native": false, "original_type": "Bar_Fixed", "size": 0, "type": "S32"}
  ]}
}`
	cat := mustLoadCatalog(t, dump)
	enums := mustLoadEnums(t, `{"Bar_Fixed": {"0": "Zero"}}`)

	data := []byte{0x09, 0x00, 0x00, 0x00} // value 9, not in the enum map
	block := buildRSZ([]uint32{1}, [][2]uint32{{0, 0}, {1, 1}}, nil, data)

	c, err := Decode(block, cat, DefaultOptions)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	out, err := c.Serialize(enums)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	foo := out["Foo"].(map[string]any)
	got, ok := foo["kind"].(string)
	if !ok || !strings.Contains(got, "9") || !strings.Contains(got, "Could not find enum value in map") {
		t.Fatalf("kind = %#v, want fallback text", foo["kind"])
	}
}

func TestSerializeEnumWithNilCatalogAlwaysFallsBack(t *testing.T) {
	const dump = `{
  "00000001": {"name": "Foo", "crc": "1", "fields": [
    {"align": 4, "array": false, "name": "kind", "native": false, "original_type": "Bar_Fixed", "size": 0, "type": "S32"}
  ]}
}`
	cat := mustLoadCatalog(t, dump)
	data := []byte{0x00, 0x00, 0x00, 0x00}
	block := buildRSZ([]uint32{1}, [][2]uint32{{0, 0}, {1, 1}}, nil, data)

	c, err := Decode(block, cat, DefaultOptions)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	out, err := c.Serialize(nil)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	foo := out["Foo"].(map[string]any)
	if !strings.Contains(foo["kind"].(string), "Could not find enum value in map") {
		t.Fatalf("kind = %#v", foo["kind"])
	}
}

func TestSerializeEnumViaObjectRefIndirection(t *testing.T) {
	const dump = `{
  "00000001": {"name": "Bar_Fixed", "crc": "1", "fields": [
    {"align": 4, "array": false, "name": "raw", "native": false, "original_type": "System.Int32", "size": 0, "type": "S32"}
  ]},
  "00000002": {"name": "Foo", "crc": "1", "fields": [
    {"align": 4, "array": false, "name": "kind", "native": false, "original_type": "Bar_Fixed", "size": 0, "type": "Object"}
  ]}
}`
	cat := mustLoadCatalog(t, dump)
	enums := mustLoadEnums(t, `{"Bar_Fixed": {"1": "One"}}`)

	data := []byte{
		0x01, 0x00, 0x00, 0x00, // Bar_Fixed.raw = 1
		0x01, 0x00, 0x00, 0x00, // Foo.kind -> record index 1
	}
	block := buildRSZ([]uint32{2}, [][2]uint32{{0, 0}, {1, 1}, {2, 1}}, nil, data)

	c, err := Decode(block, cat, DefaultOptions)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	out, err := c.Serialize(enums)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	foo := out["Foo"].(map[string]any)
	if foo["kind"] != "One" {
		t.Fatalf("kind = %#v, want One", foo["kind"])
	}
}

func TestSerializeRootRefOutOfBoundsIsWarningNotFatal(t *testing.T) {
	cat := mustLoadCatalog(t, `{}`)
	block := buildRSZ([]uint32{99}, [][2]uint32{{0, 0}}, nil, nil)

	c, err := Decode(block, cat, DefaultOptions)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	out, err := c.Serialize(nil)
	if err != nil {
		t.Fatalf("Serialize should not return an error for a bad root: %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("out = %v, want empty (root skipped)", out)
	}
	if len(c.Warnings()) == 0 {
		t.Fatal("expected a warning for the out-of-bounds root")
	}
}

func TestFormatGUIDShape(t *testing.T) {
	var g GUID
	got := formatGUID(g)
	if len(got) != 36 {
		t.Fatalf("len(formatGUID) = %d, want 36", len(got))
	}
	want := "00000000-0000-0000-0000-000000000000"
	if got != want {
		t.Fatalf("formatGUID(zero) = %q, want %q", got, want)
	}
}
