// Command rszdump deserializes engine record files into JSON.
//
// Usage:
//
//	rszdump dump [options] <file>...
//	rszdump dump [options] -list <listing-file> -root <dir>
//	rszdump gen [options] -struct <name> <type-dump.json>
//	rszdump version
//
// Dump Command:
//
//	Deserialize one or more files, dispatching on extension:
//	".user"-suffixed files are read as USER containers, ".msg.N" files are
//	decoded as localized message tables, and known texture extensions are
//	logged and skipped. Output is one JSON document per input file, written
//	next to the input with a ".json" suffix unless -stdout is given.
//
//	Options:
//	  -types string    Path to the type catalog JSON dump (required for .user files)
//	  -enums string    Path to the enum catalog JSON dump (optional)
//	  -list string     Listing file of input paths, one per line
//	  -root string     Root directory input paths in -list are relative to
//	  -stdout          Write every file's JSON to stdout instead of alongside the input
//	  -secure          Use conservative decode limits for untrusted input
//	  -j int           Maximum concurrent files in -list/multi-file mode (default 8)
//
// Gen Command:
//
//	Generate a native Go struct declaration for one catalog entry.
//
//	Options:
//	  -struct string   Fully qualified catalog struct name to generate
//	  -package string  Generated file's package clause (default "rszgen")
//	  -suffix string   Suffix appended to the generated type name
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/thornberry/rszkit/pkg/catalog"
	"github.com/thornberry/rszkit/pkg/codegen"
	"github.com/thornberry/rszkit/pkg/msgdec"
	"github.com/thornberry/rszkit/pkg/rsz"
	"github.com/thornberry/rszkit/pkg/userfile"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "dump", "d":
		cmdDump(os.Args[2:])
	case "gen", "g":
		cmdGen(os.Args[2:])
	case "version":
		fmt.Printf("rszdump version %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`rszdump - typed record deserializer

Usage:
  rszdump <command> [options] <files>...

Commands:
  dump       Deserialize files to JSON
  gen        Generate a native Go struct from the type catalog
  version    Print version information
  help       Print this help message

Run 'rszdump <command> -h' for command-specific help.`)
}

// fileKind classifies an input path by the dispatch rules: a ".user"
// suffix (before any trailing numeric variant) routes to the USER
// container reader, a ".msg" component routes to the message decoder, a
// recognized texture extension is acknowledged and skipped, and anything
// else is reported as unrecognized.
type fileKind int

const (
	kindUnknown fileKind = iota
	kindUser
	kindMsg
	kindTexture
)

var textureExtensions = map[string]bool{
	".tex": true, ".dds": true,
}

func classify(path string) fileKind {
	base := filepath.Base(path)
	// Strip a trailing numeric revision component, e.g. "foo.user.2" or
	// "foo.msg.17", before inspecting the extension that actually
	// determines the format.
	trimmed := base
	if ext := filepath.Ext(trimmed); ext != "" && isAllDigits(ext[1:]) {
		trimmed = strings.TrimSuffix(trimmed, ext)
	}
	switch {
	case strings.HasSuffix(trimmed, ".user"):
		return kindUser
	case strings.Contains(trimmed, ".msg"):
		return kindMsg
	case textureExtensions[strings.ToLower(filepath.Ext(trimmed))]:
		return kindTexture
	default:
		return kindUnknown
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func cmdDump(args []string) {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	typesPath := fs.String("types", "", "Path to the type catalog JSON dump (required for .user files)")
	enumsPath := fs.String("enums", "", "Path to the enum catalog JSON dump (optional)")
	listPath := fs.String("list", "", "Listing file of input paths, one per line")
	rootDir := fs.String("root", "", "Root directory input paths in -list are relative to")
	toStdout := fs.Bool("stdout", false, "Write every file's JSON to stdout instead of alongside the input")
	secure := fs.Bool("secure", false, "Use conservative decode limits for untrusted input")
	concurrency := fs.Int("j", 8, "Maximum concurrent files in -list/multi-file mode")

	fs.Usage = func() {
		fmt.Println(`Usage: rszdump dump [options] <file>...

Deserialize engine record files to JSON.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	opts := rsz.DefaultOptions
	if *secure {
		opts = rsz.SecureOptions
	}

	var types *catalog.TypeCatalog
	if *typesPath != "" {
		var err error
		types, err = loadTypeCatalog(*typesPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading type catalog: %v\n", err)
			os.Exit(1)
		}
	}

	var enums *catalog.EnumCatalog
	if *enumsPath != "" {
		var err error
		enums, err = loadEnumCatalog(*enumsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading enum catalog: %v\n", err)
			os.Exit(1)
		}
	}

	paths, err := collectInputs(fs.Args(), *listPath, *rootDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no input files")
		fs.Usage()
		os.Exit(1)
	}

	// Per-file failures are logged by dumpAll and skipped; they do not
	// change the exit status.
	dumpAll(paths, types, enums, opts, *toStdout, *concurrency)
}

func collectInputs(direct []string, listPath, rootDir string) ([]string, error) {
	paths := append([]string(nil), direct...)
	if listPath == "" {
		return paths, nil
	}
	f, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("reading listing file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if rootDir != "" && !filepath.IsAbs(line) {
			line = filepath.Join(rootDir, line)
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading listing file: %w", err)
	}
	return paths, nil
}

// dumpAll processes every path concurrently, one goroutine per file, each
// owning its own decode state; only the read-only catalogs are shared. A
// per-file failure is logged and skipped rather than aborting the batch;
// the return value reports whether any file failed.
func dumpAll(paths []string, types *catalog.TypeCatalog, enums *catalog.EnumCatalog, opts rsz.Options, toStdout bool, concurrency int) bool {
	if concurrency < 1 {
		concurrency = 1
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(concurrency)

	results := make([]error, len(paths))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			results[i] = dumpOne(path, types, enums, opts, toStdout)
			return nil
		})
	}
	_ = g.Wait()

	hasErrors := false
	for i, err := range results {
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", paths[i], err)
			hasErrors = true
		}
	}
	return hasErrors
}

func dumpOne(path string, types *catalog.TypeCatalog, enums *catalog.EnumCatalog, opts rsz.Options, toStdout bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	var tree any
	switch classify(path) {
	case kindUser:
		if types == nil {
			return fmt.Errorf("no -types catalog given, cannot decode USER container")
		}
		u, err := userfile.Open(data, types, opts)
		if err != nil {
			return fmt.Errorf("opening USER file: %w", err)
		}
		serialized, err := u.Container.Serialize(enums)
		if err != nil {
			return fmt.Errorf("serializing RSZ content: %w", err)
		}
		for _, w := range u.Container.Warnings() {
			fmt.Fprintln(os.Stderr, w.String())
		}
		children := make([]map[string]any, len(u.Children))
		for i, c := range u.Children {
			children[i] = map[string]any{"hash": c.Hash, "name": c.Name}
		}
		tree = map[string]any{
			"resources": u.ResourceNames,
			"children":  children,
			"rsz":       serialized,
		}
	case kindMsg:
		msg, err := msgdec.Decode(data)
		if err != nil {
			return fmt.Errorf("decoding message table: %w", err)
		}
		tree = msg.Entries
	case kindTexture:
		fmt.Fprintf(os.Stderr, "%s: texture decoding is unsupported, skipping\n", path)
		return nil
	default:
		return fmt.Errorf("unrecognized file type")
	}

	out, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}

	if toStdout {
		fmt.Println(string(out))
		return nil
	}
	outPath := path + ".json"
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	fmt.Printf("Wrote: %s\n", outPath)
	return nil
}

func loadTypeCatalog(path string) (*catalog.TypeCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.LoadTypeCatalog(f)
}

func loadEnumCatalog(path string) (*catalog.EnumCatalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return catalog.LoadEnumCatalog(f)
}

func cmdGen(args []string) {
	fs := flag.NewFlagSet("gen", flag.ExitOnError)
	structName := fs.String("struct", "", "Fully qualified catalog struct name to generate")
	pkg := fs.String("package", "rszgen", "Generated file's package clause")
	suffix := fs.String("suffix", "", "Suffix appended to the generated type name")
	out := fs.String("out", "", "Output file (default: stdout)")

	fs.Usage = func() {
		fmt.Println(`Usage: rszdump gen [options] <type-dump.json>

Generate a native Go struct declaration for one catalog entry.

Options:`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one type-dump.json argument")
		fs.Usage()
		os.Exit(1)
	}
	if *structName == "" {
		fmt.Fprintln(os.Stderr, "Error: -struct is required")
		fs.Usage()
		os.Exit(1)
	}

	types, err := loadTypeCatalog(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading type catalog: %v\n", err)
		os.Exit(1)
	}
	schema, ok := types.ByName(*structName)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: struct %q not found in catalog\n", *structName)
		os.Exit(1)
	}

	src, err := codegen.GenerateStruct(schema, codegen.Options{Package: *pkg, TypeSuffix: *suffix})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating struct: %v\n", err)
		os.Exit(1)
	}

	if *out == "" {
		fmt.Print(string(src))
		return
	}
	if err := os.WriteFile(*out, src, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("Generated: %s\n", *out)
}
