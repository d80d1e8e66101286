package testutil

import (
	"encoding/binary"

	"github.com/roach88/pakview/internal/asset"
)

// ShaderSetFields are the values written into a raw shaderset header.
type ShaderSetFields struct {
	Name           asset.PagePtr
	VertexTextures uint16
	PixelTextures  uint16
	Samplers       uint16
	BindPoint      uint16
	Resources      uint16
	VertexShader   asset.GUID
	PixelShader    asset.GUID
}

// Shaderset header sizes per layout.
const (
	ShaderSetV8Size  = 0x48
	ShaderSetV11Size = 0x40
	ShaderSetV12Size = 0x38
	ShaderSetV13Size = 0x30
)

func putPtr(b []byte, off int, p asset.PagePtr) {
	binary.LittleEndian.PutUint32(b[off:], p.Index)
	binary.LittleEndian.PutUint32(b[off+4:], p.Offset)
}

// ShaderSetV8 encodes a v8 header.
func ShaderSetV8(f ShaderSetFields) []byte {
	b := make([]byte, ShaderSetV8Size)
	binary.LittleEndian.PutUint64(b[0x00:], 0xDEADC0DE) // vtable slot, ignored
	putPtr(b, 0x08, f.Name)
	binary.LittleEndian.PutUint16(b[0x18:], f.VertexTextures)
	binary.LittleEndian.PutUint16(b[0x1A:], f.PixelTextures)
	binary.LittleEndian.PutUint16(b[0x1C:], f.Samplers)
	b[0x1E] = uint8(f.BindPoint)
	b[0x1F] = uint8(f.Resources)
	binary.LittleEndian.PutUint64(b[0x38:], uint64(f.VertexShader))
	binary.LittleEndian.PutUint64(b[0x40:], uint64(f.PixelShader))
	return b
}

// ShaderSetV11 encodes a v11 header.
func ShaderSetV11(f ShaderSetFields) []byte {
	b := make([]byte, ShaderSetV11Size)
	putPtr(b, 0x00, f.Name)
	binary.LittleEndian.PutUint16(b[0x10:], f.VertexTextures)
	binary.LittleEndian.PutUint16(b[0x12:], f.PixelTextures)
	binary.LittleEndian.PutUint16(b[0x14:], f.Samplers)
	b[0x16] = uint8(f.BindPoint)
	b[0x17] = uint8(f.Resources)
	binary.LittleEndian.PutUint64(b[0x30:], uint64(f.VertexShader))
	binary.LittleEndian.PutUint64(b[0x38:], uint64(f.PixelShader))
	return b
}

// ShaderSetV12 encodes a v12 header. Version 13 records with a v12-sized
// header use this layout too.
func ShaderSetV12(f ShaderSetFields) []byte {
	b := make([]byte, ShaderSetV12Size)
	putPtr(b, 0x00, f.Name)
	binary.LittleEndian.PutUint16(b[0x08:], f.VertexTextures)
	binary.LittleEndian.PutUint16(b[0x0A:], f.PixelTextures)
	binary.LittleEndian.PutUint16(b[0x0C:], f.Samplers)
	binary.LittleEndian.PutUint16(b[0x0E:], f.BindPoint)
	binary.LittleEndian.PutUint16(b[0x10:], f.Resources)
	binary.LittleEndian.PutUint64(b[0x28:], uint64(f.VertexShader))
	binary.LittleEndian.PutUint64(b[0x30:], uint64(f.PixelShader))
	return b
}

// ShaderSetV13 encodes a v13 header.
func ShaderSetV13(f ShaderSetFields) []byte {
	b := make([]byte, ShaderSetV13Size)
	putPtr(b, 0x00, f.Name)
	binary.LittleEndian.PutUint16(b[0x08:], f.VertexTextures)
	binary.LittleEndian.PutUint16(b[0x0A:], f.PixelTextures)
	binary.LittleEndian.PutUint16(b[0x0C:], f.Samplers)
	b[0x0E] = uint8(f.BindPoint)
	b[0x0F] = uint8(f.Resources)
	binary.LittleEndian.PutUint64(b[0x20:], uint64(f.VertexShader))
	binary.LittleEndian.PutUint64(b[0x28:], uint64(f.PixelShader))
	return b
}

// ShaderFields are the values written into a raw shader header.
type ShaderFields struct {
	Name         asset.PagePtr
	Bytecode     asset.PagePtr
	BytecodeSize uint32
	Kind         uint8
}

// ShaderHeaderSize is the size of a shader header.
const ShaderHeaderSize = 0x18

// Shader encodes a shader header.
func Shader(f ShaderFields) []byte {
	b := make([]byte, ShaderHeaderSize)
	putPtr(b, 0x00, f.Name)
	putPtr(b, 0x08, f.Bytecode)
	binary.LittleEndian.PutUint32(b[0x10:], f.BytecodeSize)
	b[0x14] = f.Kind
	return b
}
