package asset

import "fmt"

// TypeTag is the 4-byte type identifier of an asset kind, e.g. "shds".
type TypeTag [4]byte

// Known asset type tags.
var (
	TypeShaderSet = TypeTag{'s', 'h', 'd', 's'}
	TypeShader    = TypeTag{'s', 'h', 'd', 'r'}
)

// ParseTypeTag converts a 4-character string into a TypeTag.
func ParseTypeTag(s string) (TypeTag, error) {
	var tag TypeTag
	if len(s) != len(tag) {
		return tag, fmt.Errorf("type tag %q: must be exactly 4 bytes", s)
	}
	copy(tag[:], s)
	return tag, nil
}

func (t TypeTag) String() string {
	return string(t[:])
}

// Version is an asset's declared (major, minor) schema version.
type Version struct {
	Major uint16 `json:"major"`
	Minor uint16 `json:"minor"`
}

func (v Version) String() string {
	return fmt.Sprintf("v%d.%d", v.Major, v.Minor)
}

// PagePtr addresses data inside a container page.
// The zero value is the null pointer.
type PagePtr struct {
	Index  uint32
	Offset uint32
}

// IsNull reports whether p is the null pointer.
func (p PagePtr) IsNull() bool {
	return p.Index == 0 && p.Offset == 0
}

func (p PagePtr) String() string {
	return fmt.Sprintf("page %d+0x%X", p.Index, p.Offset)
}

// RawRecord is one undecoded asset record as handed over by the container.
// The core never mutates Header or Pages.
type RawRecord struct {
	GUID       GUID
	Type       TypeTag
	Version    Version
	HeaderSize uint32 // declared header struct size
	Header     []byte
	Pages      PageReader
}
