// Package shader decodes shader assets ("shdr"), the targets of shaderset
// dependencies. Its payload is the shader bytecode, which packed shaderset
// exports inline.
package shader

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/pakview/internal/asset"
	"github.com/roach88/pakview/internal/binfield"
	"github.com/roach88/pakview/internal/registry"
)

// Header layout (little-endian), shared by every supported version:
//
//	0x00 name      page ptr
//	0x08 bytecode  page ptr
//	0x10 size      u32
//	0x14 kind      u8
//	0x15 reserved  3 bytes
const HeaderSize = 0x18

// HeaderAlignment is the required alignment of shader headers.
const HeaderAlignment = 8

// ErrUnknownVersion means the declared major version is not supported.
var ErrUnknownVersion = errors.New("unaccounted asset version")

// Kind is the pipeline stage a shader runs in.
type Kind uint8

const (
	KindPixel  Kind = 0
	KindVertex Kind = 1
)

func (k Kind) String() string {
	switch k {
	case KindPixel:
		return "pixel"
	case KindVertex:
		return "vertex"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Shader is a decoded shader asset.
type Shader struct {
	Name     string
	Kind     Kind
	Bytecode []byte
}

func supported(v asset.Version) bool {
	switch v.Major {
	case 8, 12, 13, 14, 15:
		return true
	default:
		return false
	}
}

// Decode reads a shader header and copies its bytecode out of pages.
func Decode(header []byte, pages asset.PageReader) (*Shader, error) {
	r := binfield.NewReader(header)
	if err := r.Require(HeaderSize); err != nil {
		return nil, fmt.Errorf("decode shader: %w", err)
	}

	namePtr := asset.PagePtr{Index: r.U32(0x00), Offset: r.U32(0x04)}
	codePtr := asset.PagePtr{Index: r.U32(0x08), Offset: r.U32(0x0C)}
	size := int(r.U32(0x10))
	s := &Shader{Kind: Kind(r.U8(0x14))}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("decode shader: %w", err)
	}

	if (!namePtr.IsNull() || size > 0) && pages == nil {
		return nil, fmt.Errorf("decode shader: header points into pages but no page reader")
	}
	if !namePtr.IsNull() {
		name, err := pages.CString(namePtr)
		if err != nil {
			return nil, fmt.Errorf("decode shader: name: %w", err)
		}
		s.Name = name
	}
	if size > 0 {
		code, err := pages.Bytes(codePtr, size)
		if err != nil {
			return nil, fmt.Errorf("decode shader: bytecode: %w", err)
		}
		s.Bytecode = code
	}
	return s, nil
}

// NormalizeName adds the "shader/" prefix and ".rpak" suffix when missing.
func NormalizeName(raw string) string {
	name := norm.NFC.String(raw)
	if !strings.HasPrefix(name, "shader/") {
		name = "shader/" + name
	}
	if !strings.HasSuffix(name, ".rpak") {
		name += ".rpak"
	}
	return name
}

// Load decodes the asset and assigns its explicit name.
func Load(a *asset.Asset) error {
	if !supported(a.Version()) {
		return fmt.Errorf("load %s: %s: %w", a, a.Version(), ErrUnknownVersion)
	}
	s, err := Decode(a.Header(), a.Pages())
	if err != nil {
		return fmt.Errorf("load %s: %w", a, err)
	}
	if s.Name != "" {
		if err := a.SetName(NormalizeName(s.Name)); err != nil {
			return fmt.Errorf("load %s: %w", a, err)
		}
	}
	a.SetExtraData(s)
	return nil
}

// PostLoad falls back to the name cache for unnamed shaders.
func PostLoad(env registry.Env, a *asset.Asset) {
	mustShader(a, "post-load")
	if _, named := a.Name(); !named {
		a.SetNameFromCache(env.Names)
	}
}

// Payload returns a copy of the shader bytecode.
func Payload(a *asset.Asset) ([]byte, error) {
	s := mustShader(a, "payload")
	out := make([]byte, len(s.Bytecode))
	copy(out, s.Bytecode)
	return out, nil
}

// Summary is the preview of a shader.
type Summary struct {
	Kind          string `json:"kind"`
	BytecodeBytes int    `json:"bytecode_bytes"`
}

// WriteText writes the preview as text lines.
func (s Summary) WriteText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Shader type: %s\nBytecode size: %d\n", s.Kind, s.BytecodeBytes)
	return err
}

// Summarize builds the preview of a loaded shader.
func Summarize(a *asset.Asset) Summary {
	s := mustShader(a, "preview")
	return Summary{Kind: s.Kind.String(), BytecodeBytes: len(s.Bytecode)}
}

// FromAsset returns the Shader attached to a loaded asset.
func FromAsset(a *asset.Asset) (*Shader, bool) {
	s, ok := a.ExtraData().(*Shader)
	return s, ok && s != nil
}

func mustShader(a *asset.Asset, phase string) *Shader {
	s, ok := FromAsset(a)
	if !ok {
		panic(fmt.Sprintf("shader %s: %s without decoded state; load must run first", a, phase))
	}
	return s
}

// Register adds the shader binding to r.
func Register(r *registry.Registry) error {
	return r.Register(registry.Binding{
		Type:            asset.TypeShader,
		HeaderAlignment: HeaderAlignment,
		Load:            Load,
		PostLoad:        PostLoad,
		Preview: func(a *asset.Asset) registry.Preview {
			return Summarize(a)
		},
		Payload: Payload,
	})
}
