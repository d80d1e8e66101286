package msw

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHeader() ShaderSetHeader {
	return ShaderSetHeader{
		PixelShader:             0x2222,
		VertexShader:            0x1111,
		NumPixelShaderTextures:  3,
		NumVertexShaderTextures: 2,
		NumSamplers:             1,
		FirstResourceBindPoint:  4,
		NumResources:            5,
	}
}

func TestWriter_ShaderSetWithPayloads(t *testing.T) {
	w := NewWriter(FileTypeShaderSet)
	w.AddShader(Shader{GUID: 0x2222, Data: []byte("pixel")})
	w.AddShader(Shader{GUID: 0x1111, Data: []byte("vertex")})
	w.SetShaderSetHeader(testHeader())

	data, err := w.Encode()
	require.NoError(t, err)

	f, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, FileTypeShaderSet, f.Type)
	require.NotNil(t, f.ShaderSet)
	assert.Equal(t, testHeader(), *f.ShaderSet)
	require.Len(t, f.Shaders, 2)
	assert.Equal(t, uint64(0x2222), f.Shaders[0].GUID)
	assert.Equal(t, []byte("pixel"), f.Shaders[0].Data)
	assert.Equal(t, []byte("vertex"), f.Shaders[1].Data)
}

func TestWriter_BareShaderSetSize(t *testing.T) {
	w := NewWriter(FileTypeShaderSet)
	w.SetShaderSetHeader(testHeader())

	data, err := w.Encode()
	require.NoError(t, err)
	assert.Len(t, data, preambleSize+shaderSetHdrSize+checksumSize)

	f, err := Decode(data)
	require.NoError(t, err)
	assert.Empty(t, f.Shaders)
}

func TestWriter_ShaderSetRequiresHeader(t *testing.T) {
	_, err := NewWriter(FileTypeShaderSet).Encode()
	assert.Error(t, err)

	w := NewWriter(FileTypeShader)
	w.SetShaderSetHeader(testHeader())
	_, err = w.Encode()
	assert.Error(t, err)
}

func TestDecode_DetectsCorruption(t *testing.T) {
	w := NewWriter(FileTypeShaderSet)
	w.SetShaderSetHeader(testHeader())
	data, err := w.Encode()
	require.NoError(t, err)

	data[10] ^= 0xFF
	_, err = Decode(data)
	assert.ErrorIs(t, err, ErrChecksum)

	_, err = Decode(data[:10])
	assert.Error(t, err)
}

func TestWriteFile_Atomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "0x1234"+Extension)

	w := NewWriter(FileTypeShaderSet)
	w.SetShaderSetHeader(testHeader())
	require.NoError(t, w.WriteFile(path))

	f, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1111), f.ShaderSet.VertexShader)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestWriteFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "out.msw")

	w := NewWriter(FileTypeShaderSet)
	w.SetShaderSetHeader(testHeader())
	assert.Error(t, w.WriteFile(path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestWriteFile_EncodeErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.msw")

	assert.Error(t, NewWriter(FileTypeShaderSet).WriteFile(path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
