package catalog

import (
	"strings"
	"testing"
)

const sampleEnumDump = `{
  "app.ItemKind_Fixed": {
    "0": "Weapon",
    "1": "Armor"
  }
}`

func TestLoadEnumCatalogBasic(t *testing.T) {
	cat, err := LoadEnumCatalog(strings.NewReader(sampleEnumDump))
	if err != nil {
		t.Fatalf("LoadEnumCatalog: %v", err)
	}
	if cat.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", cat.Len())
	}

	sym, ok := cat.Lookup("app.ItemKind_Fixed", "1")
	if !ok || sym != "Armor" {
		t.Fatalf("Lookup = %q, %v; want Armor, true", sym, ok)
	}
}

func TestLoadEnumCatalogNormalizesLookupName(t *testing.T) {
	cat, err := LoadEnumCatalog(strings.NewReader(sampleEnumDump))
	if err != nil {
		t.Fatalf("LoadEnumCatalog: %v", err)
	}

	cases := []string{
		"app.ItemKind_Fixed[]",
		"app.ItemKind_Serializable",
		"app.ItemKind_Serializable[]",
	}
	for _, name := range cases {
		sym, ok := cat.Lookup(name, "0")
		if !ok || sym != "Weapon" {
			t.Fatalf("Lookup(%q) = %q, %v; want Weapon, true", name, sym, ok)
		}
	}
}

func TestLoadEnumCatalogUnknownEnumOrValue(t *testing.T) {
	cat, err := LoadEnumCatalog(strings.NewReader(sampleEnumDump))
	if err != nil {
		t.Fatalf("LoadEnumCatalog: %v", err)
	}
	if _, ok := cat.Lookup("app.NoSuchEnum_Fixed", "0"); ok {
		t.Fatal("Lookup on unknown enum should report ok=false")
	}
	if _, ok := cat.Lookup("app.ItemKind_Fixed", "99"); ok {
		t.Fatal("Lookup on unknown value should report ok=false")
	}
}

func TestLoadEnumCatalogMergesStreamedObjects(t *testing.T) {
	dump := `{"app.A_Fixed": {"0": "Zero"}}
{"app.A_Fixed": {"1": "One"}}`
	cat, err := LoadEnumCatalog(strings.NewReader(dump))
	if err != nil {
		t.Fatalf("LoadEnumCatalog: %v", err)
	}
	if cat.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 (merged, not duplicated)", cat.Len())
	}
	if sym, ok := cat.Lookup("app.A_Fixed", "0"); !ok || sym != "Zero" {
		t.Fatalf("Lookup(0) = %q, %v", sym, ok)
	}
	if sym, ok := cat.Lookup("app.A_Fixed", "1"); !ok || sym != "One" {
		t.Fatalf("Lookup(1) = %q, %v", sym, ok)
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"app.Foo_Fixed":          "app.Foo_Fixed",
		"app.Foo_Fixed[]":        "app.Foo_Fixed",
		"app.Foo_Serializable":   "app.Foo_Fixed",
		"app.Foo_Serializable[]": "app.Foo_Fixed",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}
