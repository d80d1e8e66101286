package shaderset

import (
	"fmt"

	"github.com/roach88/pakview/internal/asset"
	"github.com/roach88/pakview/internal/binfield"
)

// ShaderSet is the decoded form of a shaderset header.
type ShaderSet struct {
	Variant SchemaVariant

	// Name is the explicit name stored in the record, empty if none.
	Name string

	NumVertexShaderTextures uint16
	NumPixelShaderTextures  uint16
	NumSamplers             uint16
	FirstResourceBindPoint  uint16
	NumResources            uint16

	VertexShader asset.DependencyRef
	PixelShader  asset.DependencyRef
}

// Decode reads a shaderset header laid out as variant. The buffer length is
// validated against the variant's header size before any field is read.
// Dependency targets are left unresolved.
func Decode(header []byte, variant SchemaVariant, pages asset.PageReader) (*ShaderSet, error) {
	l, ok := layoutFor(variant)
	if !ok {
		return nil, fmt.Errorf("decode shaderset: unknown variant %s", variant)
	}

	r := binfield.NewReader(header)
	if err := r.Require(l.size); err != nil {
		return nil, fmt.Errorf("decode shaderset %s: %w", variant, err)
	}

	namePtr := asset.PagePtr{Index: r.U32(l.name), Offset: r.U32(l.name + 4)}
	set := &ShaderSet{
		Variant:                 variant,
		NumVertexShaderTextures: uint16(r.Uint(l.vertexTextures.off, l.vertexTextures.width)),
		NumPixelShaderTextures:  uint16(r.Uint(l.pixelTextures.off, l.pixelTextures.width)),
		NumSamplers:             uint16(r.Uint(l.samplers.off, l.samplers.width)),
		FirstResourceBindPoint:  uint16(r.Uint(l.bindPoint.off, l.bindPoint.width)),
		NumResources:            uint16(r.Uint(l.resources.off, l.resources.width)),
		VertexShader:            asset.DependencyRef{GUID: asset.GUID(r.U64(l.vertexShader))},
		PixelShader:             asset.DependencyRef{GUID: asset.GUID(r.U64(l.pixelShader))},
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("decode shaderset %s: %w", variant, err)
	}

	if !namePtr.IsNull() {
		if pages == nil {
			return nil, fmt.Errorf("decode shaderset %s: name at %s but no page reader", variant, namePtr)
		}
		name, err := pages.CString(namePtr)
		if err != nil {
			return nil, fmt.Errorf("decode shaderset %s: name: %w", variant, err)
		}
		set.Name = name
	}

	return set, nil
}

// FromAsset returns the ShaderSet attached to a loaded asset.
func FromAsset(a *asset.Asset) (*ShaderSet, bool) {
	set, ok := a.ExtraData().(*ShaderSet)
	return set, ok && set != nil
}

// mustShaderSet panics when called on an asset that was never loaded. That
// is a sequencing bug in the caller, not a data problem.
func mustShaderSet(a *asset.Asset, phase string) *ShaderSet {
	set, ok := FromAsset(a)
	if !ok {
		panic(fmt.Sprintf("shaderset %s: %s without decoded state; load must run first", a, phase))
	}
	return set
}
