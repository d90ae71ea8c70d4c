// Package userfile reads the engine's USER container header: a thin
// wrapper that records a file's resource names and child USER-file
// references and delimits the embedded RSZ block. Everything past the
// header is handed to pkg/rsz unchanged.
package userfile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/thornberry/rszkit/internal/cursor"
	"github.com/thornberry/rszkit/pkg/catalog"
	"github.com/thornberry/rszkit/pkg/rsz"
)

const headerMagic = "USR\x00"

// Sentinel errors. Check with errors.Is.
var (
	// ErrBadMagic indicates the file did not start with "USR\0".
	ErrBadMagic = errors.New("userfile: bad magic")

	// ErrBadPadding indicates a mandatory zero-padding word was nonzero.
	ErrBadPadding = errors.New("userfile: non-zero padding")

	// ErrResourceIsUser indicates a resource-list entry ended in ".user",
	// which would make it indistinguishable from a child reference.
	ErrResourceIsUser = errors.New("userfile: resource name ends in .user")

	// ErrChildNotUser indicates a child-list entry did not end in ".user".
	ErrChildNotUser = errors.New("userfile: child name missing .user suffix")
)

// OpenError wraps a structural failure encountered while reading a USER
// header, with a byte offset for diagnostics.
type OpenError struct {
	Offset  int
	Message string
	Cause   error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("userfile: %s (offset 0x%x)", e.Message, e.Offset)
}

func (e *OpenError) Unwrap() error { return e.Cause }

// Child is one entry of the child list: a reference to another USER file,
// named by a path that always ends in ".user" and tagged with a hash the
// source also records for it (the hash's own semantics are the engine's;
// this reader only carries it through).
type Child struct {
	Hash uint32
	Name string
}

// User is a parsed USER container: its resource and child name tables plus
// the RSZ container embedded at rsz_offset.
type User struct {
	ResourceNames []string
	Children      []Child
	Container     *rsz.Container
}

// Open parses a USER file's header and its embedded RSZ block, then
// decodes every record using types. opts controls RSZ decode limits and
// warning collection; see rsz.Options.
func Open(data []byte, types *catalog.TypeCatalog, opts rsz.Options) (*User, error) {
	cur := cursor.New(data)

	magic := cur.RawBytes(4)
	if cur.Err() != nil {
		return nil, &OpenError{Offset: cur.Offset(), Message: "truncated header", Cause: cur.Err()}
	}
	if string(magic) != headerMagic {
		return nil, &OpenError{Offset: 0, Message: fmt.Sprintf("bad magic %q", magic), Cause: ErrBadMagic}
	}

	resourceCount := cur.U32()
	childCount := cur.U32()
	padding := cur.U32()
	if cur.Err() != nil {
		return nil, &OpenError{Offset: cur.Offset(), Message: "truncated counts", Cause: cur.Err()}
	}
	if padding != 0 {
		return nil, &OpenError{Offset: 12, Message: "padding word", Cause: ErrBadPadding}
	}

	resourceListOffset := cur.U64()
	childListOffset := cur.U64()
	rszOffset := cur.U64()
	if cur.Err() != nil {
		return nil, &OpenError{Offset: cur.Offset(), Message: "truncated offsets", Cause: cur.Err()}
	}

	cur.SeekAssertAlignUp(int(resourceListOffset), 16)
	if cur.Err() != nil {
		return nil, &OpenError{Offset: cur.Offset(), Message: "undiscovered data before resource list", Cause: cur.Err()}
	}
	resourceNameOffsets := make([]uint64, resourceCount)
	for i := range resourceNameOffsets {
		resourceNameOffsets[i] = cur.U64()
	}
	if cur.Err() != nil {
		return nil, &OpenError{Offset: cur.Offset(), Message: "truncated resource list", Cause: cur.Err()}
	}

	cur.SeekAssertAlignUp(int(childListOffset), 16)
	if cur.Err() != nil {
		return nil, &OpenError{Offset: cur.Offset(), Message: "undiscovered data before child list", Cause: cur.Err()}
	}
	type childInfo struct {
		hash       uint32
		nameOffset uint64
	}
	childInfos := make([]childInfo, childCount)
	for i := range childInfos {
		hash := cur.U32()
		pad := cur.U32()
		if cur.Err() != nil {
			return nil, &OpenError{Offset: cur.Offset(), Message: "truncated child list", Cause: cur.Err()}
		}
		if pad != 0 {
			return nil, &OpenError{Offset: cur.Offset(), Message: "child info padding word", Cause: ErrBadPadding}
		}
		nameOffset := cur.U64()
		childInfos[i] = childInfo{hash: hash, nameOffset: nameOffset}
	}
	if cur.Err() != nil {
		return nil, &OpenError{Offset: cur.Offset(), Message: "truncated child list", Cause: cur.Err()}
	}

	resourceNames := make([]string, len(resourceNameOffsets))
	for i, off := range resourceNameOffsets {
		cur.SeekNoop(int(off))
		if cur.Err() != nil {
			return nil, &OpenError{Offset: cur.Offset(), Message: "undiscovered data in resource names", Cause: cur.Err()}
		}
		name := cur.UTF16NUL()
		if cur.Err() != nil {
			return nil, &OpenError{Offset: cur.Offset(), Message: "truncated resource name", Cause: cur.Err()}
		}
		if strings.HasSuffix(name, ".user") {
			return nil, &OpenError{Offset: cur.Offset(), Message: fmt.Sprintf("resource name %q", name), Cause: ErrResourceIsUser}
		}
		resourceNames[i] = name
	}

	children := make([]Child, len(childInfos))
	for i, ci := range childInfos {
		cur.SeekNoop(int(ci.nameOffset))
		if cur.Err() != nil {
			return nil, &OpenError{Offset: cur.Offset(), Message: "undiscovered data in child names", Cause: cur.Err()}
		}
		name := cur.UTF16NUL()
		if cur.Err() != nil {
			return nil, &OpenError{Offset: cur.Offset(), Message: "truncated child name", Cause: cur.Err()}
		}
		if !strings.HasSuffix(name, ".user") {
			return nil, &OpenError{Offset: cur.Offset(), Message: fmt.Sprintf("child name %q", name), Cause: ErrChildNotUser}
		}
		children[i] = Child{Hash: ci.hash, Name: name}
	}

	if int(rszOffset) > len(data) {
		return nil, &OpenError{Offset: int(rszOffset), Message: "rsz offset past end of file"}
	}
	container, err := rsz.Decode(data[rszOffset:], types, opts)
	if err != nil {
		return nil, fmt.Errorf("userfile: embedded rsz block: %w", err)
	}

	return &User{
		ResourceNames: resourceNames,
		Children:      children,
		Container:     container,
	}, nil
}
