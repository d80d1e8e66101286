package shaderset

import (
	"errors"
	"fmt"

	"github.com/roach88/pakview/internal/asset"
)

// SchemaVariant identifies one fixed binary layout of the shaderset header.
type SchemaVariant int

const (
	VariantUnknown SchemaVariant = iota
	V8
	V11
	V12
	V13
)

func (v SchemaVariant) String() string {
	switch v {
	case V8:
		return "v8"
	case V11:
		return "v11"
	case V12:
		return "v12"
	case V13:
		return "v13"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// HeaderSize returns the fixed header size of the variant, or 0 for an
// unknown variant.
func (v SchemaVariant) HeaderSize() int {
	l, ok := layoutFor(v)
	if !ok {
		return 0
	}
	return l.size
}

// field is a fixed-width unsigned integer at a fixed offset.
type field struct {
	off   int
	width int
}

// layout is the field map of one header variant.
type layout struct {
	size           int
	name           int // page pointer: index u32, offset u32
	vertexTextures field
	pixelTextures  field
	samplers       field
	bindPoint      field
	resources      field
	vertexShader   int // u64 GUID
	pixelShader    int // u64 GUID
}

var (
	layoutV8 = layout{
		size:           0x48,
		name:           0x08,
		vertexTextures: field{0x18, 2},
		pixelTextures:  field{0x1A, 2},
		samplers:       field{0x1C, 2},
		bindPoint:      field{0x1E, 1},
		resources:      field{0x1F, 1},
		vertexShader:   0x38,
		pixelShader:    0x40,
	}
	layoutV11 = layout{
		size:           0x40,
		name:           0x00,
		vertexTextures: field{0x10, 2},
		pixelTextures:  field{0x12, 2},
		samplers:       field{0x14, 2},
		bindPoint:      field{0x16, 1},
		resources:      field{0x17, 1},
		vertexShader:   0x30,
		pixelShader:    0x38,
	}
	layoutV12 = layout{
		size:           0x38,
		name:           0x00,
		vertexTextures: field{0x08, 2},
		pixelTextures:  field{0x0A, 2},
		samplers:       field{0x0C, 2},
		bindPoint:      field{0x0E, 2},
		resources:      field{0x10, 2},
		vertexShader:   0x28,
		pixelShader:    0x30,
	}
	layoutV13 = layout{
		size:           0x30,
		name:           0x00,
		vertexTextures: field{0x08, 2},
		pixelTextures:  field{0x0A, 2},
		samplers:       field{0x0C, 2},
		bindPoint:      field{0x0E, 1},
		resources:      field{0x0F, 1},
		vertexShader:   0x20,
		pixelShader:    0x28,
	}
)

func layoutFor(v SchemaVariant) (layout, bool) {
	switch v {
	case V8:
		return layoutV8, true
	case V11:
		return layoutV11, true
	case V12:
		return layoutV12, true
	case V13:
		return layoutV13, true
	default:
		return layout{}, false
	}
}

var (
	// ErrUnknownVersion means the declared major version has no layout.
	ErrUnknownVersion = errors.New("unaccounted asset version")

	// ErrIncorrectHeader means the declared header size matches no layout
	// of an overloaded version.
	ErrIncorrectHeader = errors.New("incorrect header size")
)

// DispatchError reports a record whose layout cannot be determined. It is
// fatal for the record: no field offsets are safe to assume.
type DispatchError struct {
	Version    asset.Version
	HeaderSize uint32
	Err        error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("shaderset %s (header size 0x%X): %v", e.Version, e.HeaderSize, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// Dispatch selects the schema variant for a declared version and header
// size. It returns the version the asset should carry afterwards.
//
// Version 13 is overloaded: a v12-sized header selects V12 and the version
// becomes 13.1; a v13-sized header selects V13 and the version is kept. The
// v12 size is checked first.
func Dispatch(v asset.Version, headerSize uint32) (SchemaVariant, asset.Version, error) {
	switch v.Major {
	case 8:
		return V8, v, nil
	case 11:
		return V11, v, nil
	case 12:
		return V12, v, nil
	case 13:
		if headerSize == uint32(layoutV12.size) {
			return V12, asset.Version{Major: 13, Minor: 1}, nil
		}
		if headerSize == uint32(layoutV13.size) {
			return V13, v, nil
		}
		return VariantUnknown, v, &DispatchError{Version: v, HeaderSize: headerSize, Err: ErrIncorrectHeader}
	default:
		return VariantUnknown, v, &DispatchError{Version: v, HeaderSize: headerSize, Err: ErrUnknownVersion}
	}
}
