// Package codegen turns type-catalog entries into native Go struct
// declarations. It is a convenience tool separate from, and never required
// by, the runtime deserializer in pkg/rsz — the catalog carries on the
// order of ten thousand entries and evolves across engine versions, so
// pkg/rsz keeps schemas as runtime data; codegen exists for callers who
// want compile-time-checked structs for a handful of known record types.
package codegen

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/tools/imports"

	"github.com/thornberry/rszkit/pkg/catalog"
)

var titleCaser = cases.Title(language.English)

// ToPascalCase converts a catalog identifier (snake_case, dotted, or
// already-mixed-case) to an exported Go identifier.
func ToPascalCase(s string) string {
	parts := splitName(s)
	for i, p := range parts {
		parts[i] = titleCaser.String(strings.ToLower(p))
	}
	return strings.Join(parts, "")
}

// splitName breaks a raw field or type name into casing-independent
// segments on '_', '.', '[', ']' and camelCase transitions.
func splitName(s string) []string {
	var parts []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch r {
		case '_', '.', '[', ']':
			flush()
			continue
		}
		if i > 0 && isUpper(r) && !isUpper(runes[i-1]) {
			flush()
		}
		cur.WriteRune(r)
	}
	flush()
	return parts
}

func isUpper(r rune) bool { return r >= 'A' && r <= 'Z' }

// GoIdentName derives the exported Go type name to use for a struct
// schema's fully-qualified, dotted engine name, e.g. "via.ItemDef" ->
// "ViaItemDef".
func GoIdentName(qualifiedName string) string {
	return ToPascalCase(qualifiedName)
}

// goFieldType maps one field's closed-vocabulary type tag to the Go type
// emitted for that field.
func goFieldType(f catalog.FieldSchema) string {
	base := scalarGoType(f.TypeTag)
	if f.Array {
		return "[]" + base
	}
	return base
}

func scalarGoType(tag string) string {
	switch tag {
	case "S8":
		return "int8"
	case "S16":
		return "int16"
	case "S32":
		return "int32"
	case "S64":
		return "int64"
	case "U8":
		return "uint8"
	case "U16":
		return "uint16"
	case "U32":
		return "uint32"
	case "U64":
		return "uint64"
	case "F8":
		return "uint8"
	case "F16":
		return "uint16"
	case "F32":
		return "float32"
	case "F64":
		return "float64"
	case "Bool":
		return "bool"
	case "String", "Resource":
		return "string"
	case "Guid":
		return "rsz.GUID"
	case "Object", "UserData", "RuntimeType":
		return "*rsz.ObjectRef"
	case "Data", "OBB":
		return "[]byte"
	case "UInt2":
		return "rsz.Uint2"
	case "UInt3":
		return "rsz.Uint3"
	case "UInt4":
		return "rsz.Uint4"
	case "Int2":
		return "rsz.Int2"
	case "Int3":
		return "rsz.Int3"
	case "Int4":
		return "rsz.Int4"
	case "Float2":
		return "rsz.Float2"
	case "Float3":
		return "rsz.Float3"
	case "Float4":
		return "rsz.Float4"
	case "Vec2":
		return "rsz.Vec2"
	case "Vec3":
		return "rsz.Vec3"
	case "Vec4":
		return "rsz.Vec4"
	case "Mat4":
		return "rsz.Mat4"
	case "Range":
		return "rsz.Range"
	case "RangeI":
		return "rsz.RangeI"
	case "AABB":
		return "rsz.AABB"
	case "Capsule":
		return "rsz.Capsule"
	case "Rect":
		return "rsz.Rect"
	default:
		return "any"
	}
}

// Options configures struct generation.
type Options struct {
	// Package names the generated file's package clause.
	Package string

	// TypeSuffix is appended to every generated struct's name, e.g. "Go".
	TypeSuffix string
}

// DefaultOptions is "package rszgen, no suffix".
var DefaultOptions = Options{Package: "rszgen"}

const structTemplate = `// Code generated from the type catalog by pkg/codegen. DO NOT EDIT.
package {{.Package}}

import "github.com/thornberry/rszkit/pkg/rsz"

// {{.TypeName}} is generated from the catalog entry {{.Schema.Name}}
// (type hash {{printf "%#08x" .Schema.TypeHash}}).
type {{.TypeName}} struct {
{{- range .Fields}}
	{{.GoName}} {{.GoType}} ` + "`" + `json:"{{.JSONName}}"` + "`" + `
{{- end}}
}
`

type fieldView struct {
	GoName   string
	GoType   string
	JSONName string
}

type structView struct {
	Package  string
	TypeName string
	Schema   *catalog.StructSchema
	Fields   []fieldView
}

// GenerateStruct renders a native Go struct declaration for schema, then
// gofmt's and import-fixes the result via golang.org/x/tools/imports. The
// struct has one field per FieldSchema, in catalog order, with a Go-cased
// exported name and a json tag carrying the original catalog field name so
// the type can round-trip against pkg/rsz's JSON output.
func GenerateStruct(schema *catalog.StructSchema, opts Options) ([]byte, error) {
	tmpl, err := template.New("struct").Parse(structTemplate)
	if err != nil {
		return nil, fmt.Errorf("codegen: parse template: %w", err)
	}

	view := structView{
		Package:  opts.Package,
		TypeName: GoIdentName(schema.Name) + opts.TypeSuffix,
		Schema:   schema,
		Fields:   make([]fieldView, len(schema.Fields)),
	}
	for i, f := range schema.Fields {
		view.Fields[i] = fieldView{
			GoName:   exportedFieldName(f.Name, i),
			GoType:   goFieldType(f),
			JSONName: f.Name,
		}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("codegen: execute template for %s: %w", schema.Name, err)
	}

	formatted, err := imports.Process("", buf.Bytes(), nil)
	if err != nil {
		return nil, fmt.Errorf("codegen: gofmt/goimports %s: %w", schema.Name, err)
	}
	return formatted, nil
}

// exportedFieldName Go-cases a catalog field name, falling back to a
// positional name ("Field3") for the pathological case of an empty or
// all-punctuation field name.
func exportedFieldName(name string, index int) string {
	pascal := ToPascalCase(name)
	if pascal == "" {
		return fmt.Sprintf("Field%d", index)
	}
	return pascal
}
