package catalog

import (
	"errors"
	"strings"
	"testing"
)

const sampleDump = `{
  "0001e240": {
    "name": "app.Foo",
    "crc": "deadbeef",
    "fields": [
      {"align": 4, "array": false, "name": "x", "native": false, "original_type": "System.Int32", "size": 0, "type": "S32"}
    ]
  },
  "0001e241": {
    "name": "app.ExcelRow",
    "crc": "cafef00d",
    "fields": [
      {"align": 4, "array": true, "name": "cData", "native": false, "original_type": "ace.user_data.ExcelUserData.cData[]", "size": 0, "type": "U32"}
    ]
  }
}`

func TestLoadTypeCatalogBasic(t *testing.T) {
	cat, err := LoadTypeCatalog(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("LoadTypeCatalog: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", cat.Len())
	}

	s, ok := cat.ByHash(0x0001e240)
	if !ok {
		t.Fatal("ByHash(0x1e240) not found")
	}
	if s.Name != "app.Foo" || s.CRC != 0xdeadbeef {
		t.Fatalf("unexpected schema: %+v", s)
	}

	byName, ok := cat.ByName("app.Foo")
	if !ok || byName != s {
		t.Fatalf("ByName(\"app.Foo\") = %v, %v; want the same schema pointer", byName, ok)
	}

	byNameArr, ok := cat.ByName("app.Foo[]")
	if !ok || byNameArr != s {
		t.Fatal("ByName should strip a trailing [] suffix")
	}
}

func TestLoadTypeCatalogRewritesExcelSentinel(t *testing.T) {
	cat, err := LoadTypeCatalog(strings.NewReader(sampleDump))
	if err != nil {
		t.Fatalf("LoadTypeCatalog: %v", err)
	}
	s, ok := cat.ByHash(0x0001e241)
	if !ok {
		t.Fatal("struct not found")
	}
	got := s.Fields[0].OriginalType
	want := "app.ExcelRow.cData[]"
	if got != want {
		t.Fatalf("OriginalType = %q, want %q", got, want)
	}
}

func TestLoadTypeCatalogDuplicateHash(t *testing.T) {
	dump := `{"00000001": {"name": "a.A", "crc": "1", "fields": []}}
{"00000001": {"name": "a.B", "crc": "2", "fields": []}}`
	_, err := LoadTypeCatalog(strings.NewReader(dump))
	if !errors.Is(err, ErrDuplicateTypeHash) {
		t.Fatalf("err = %v, want ErrDuplicateTypeHash", err)
	}
}

func TestLoadTypeCatalogStreamOfObjects(t *testing.T) {
	dump := `{"00000001": {"name": "a.A", "crc": "1", "fields": []}}
{"00000002": {"name": "a.B", "crc": "2", "fields": []}}`
	cat, err := LoadTypeCatalog(strings.NewReader(dump))
	if err != nil {
		t.Fatalf("LoadTypeCatalog: %v", err)
	}
	if cat.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 (two streamed top-level objects)", cat.Len())
	}
}

func TestLoadTypeCatalogBadHashKey(t *testing.T) {
	dump := `{"not-hex": {"name": "a.A", "crc": "1", "fields": []}}`
	_, err := LoadTypeCatalog(strings.NewReader(dump))
	if !errors.Is(err, ErrInvalidTypeHashKey) {
		t.Fatalf("err = %v, want ErrInvalidTypeHashKey", err)
	}
}
