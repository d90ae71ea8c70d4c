package codegen

import (
	"strings"
	"testing"

	"github.com/thornberry/rszkit/pkg/catalog"
)

func TestGenerateStructSimple(t *testing.T) {
	schema := &catalog.StructSchema{
		Name:     "app.ItemDef",
		TypeHash: 0xdeadbeef,
		CRC:      1,
		Fields: []catalog.FieldSchema{
			{Name: "item_id", Align: 4, TypeTag: "U32"},
			{Name: "display_name", Align: 4, TypeTag: "String"},
			{Name: "tags", Align: 4, Array: true, TypeTag: "S32"},
		},
	}

	out, err := GenerateStruct(schema, Options{Package: "rszgen"})
	if err != nil {
		t.Fatalf("GenerateStruct: %v", err)
	}
	src := string(out)

	if !strings.Contains(src, "package rszgen") {
		t.Errorf("expected package clause, got:\n%s", src)
	}
	if !strings.Contains(src, "type AppItemDef struct") {
		t.Errorf("expected AppItemDef struct, got:\n%s", src)
	}
	// Field name/type assertions use separate Contains checks rather than
	// one joined substring: gofmt may re-pad the column between a field's
	// name and type to align the struct, so the exact whitespace run
	// between them isn't stable.
	for _, want := range []string{"ItemId", "uint32", "DisplayName", "string", "Tags", "[]int32"} {
		if !strings.Contains(src, want) {
			t.Errorf("expected generated source to contain %q, got:\n%s", want, src)
		}
	}
	if !strings.Contains(src, `json:"item_id"`) {
		t.Errorf("expected json tag for item_id, got:\n%s", src)
	}
}

func TestGenerateStructWithTypeSuffix(t *testing.T) {
	schema := &catalog.StructSchema{
		Name: "app.Foo",
		Fields: []catalog.FieldSchema{
			{Name: "x", Align: 4, TypeTag: "F32"},
		},
	}
	out, err := GenerateStruct(schema, Options{Package: "rszgen", TypeSuffix: "Native"})
	if err != nil {
		t.Fatalf("GenerateStruct: %v", err)
	}
	if !strings.Contains(string(out), "type AppFooNative struct") {
		t.Errorf("expected suffixed type name, got:\n%s", out)
	}
}

func TestToPascalCase(t *testing.T) {
	cases := map[string]string{
		"item_id":       "ItemId",
		"app.ItemDef":   "AppItemDef",
		"tags[]":        "Tags",
		"already_Mixed": "AlreadyMixed",
	}
	for in, want := range cases {
		if got := ToPascalCase(in); got != want {
			t.Errorf("ToPascalCase(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExportedFieldNameFallback(t *testing.T) {
	if got := exportedFieldName("", 3); got != "Field3" {
		t.Errorf("exportedFieldName(\"\", 3) = %q, want Field3", got)
	}
}
