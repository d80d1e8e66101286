package shaderset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pakview/internal/asset"
	"github.com/roach88/pakview/internal/binfield"
	"github.com/roach88/pakview/internal/testutil"
)

func TestDecode_EveryVariantLayout(t *testing.T) {
	pages := testutil.NewPages()
	fields := testutil.ShaderSetFields{
		Name:           pages.AddString("ui_basic"),
		VertexTextures: 2,
		PixelTextures:  3,
		Samplers:       1,
		BindPoint:      4,
		Resources:      5,
		VertexShader:   0x1111222233334444,
		PixelShader:    0x5555666677778888,
	}

	tests := []struct {
		variant SchemaVariant
		header  []byte
	}{
		{V8, testutil.ShaderSetV8(fields)},
		{V11, testutil.ShaderSetV11(fields)},
		{V12, testutil.ShaderSetV12(fields)},
		{V13, testutil.ShaderSetV13(fields)},
	}
	for _, tt := range tests {
		t.Run(tt.variant.String(), func(t *testing.T) {
			set, err := Decode(tt.header, tt.variant, pages)
			require.NoError(t, err)

			assert.Equal(t, tt.variant, set.Variant)
			assert.Equal(t, "ui_basic", set.Name)
			assert.Equal(t, uint16(2), set.NumVertexShaderTextures)
			assert.Equal(t, uint16(3), set.NumPixelShaderTextures)
			assert.Equal(t, uint16(1), set.NumSamplers)
			assert.Equal(t, uint16(4), set.FirstResourceBindPoint)
			assert.Equal(t, uint16(5), set.NumResources)
			assert.Equal(t, asset.GUID(0x1111222233334444), set.VertexShader.GUID)
			assert.Equal(t, asset.GUID(0x5555666677778888), set.PixelShader.GUID)
			assert.Nil(t, set.VertexShader.Target)
			assert.Nil(t, set.PixelShader.Target)
		})
	}
}

func TestDecode_V12WideBindFields(t *testing.T) {
	header := testutil.ShaderSetV12(testutil.ShaderSetFields{BindPoint: 0x0102, Resources: 0x0304})

	set, err := Decode(header, V12, nil)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0102), set.FirstResourceBindPoint)
	assert.Equal(t, uint16(0x0304), set.NumResources)
}

func TestDecode_ShortBufferIsFatal(t *testing.T) {
	header := testutil.ShaderSetV13(testutil.ShaderSetFields{VertexShader: 1})

	set, err := Decode(header[:len(header)-1], V13, nil)
	assert.Nil(t, set)
	assert.ErrorIs(t, err, binfield.ErrShortBuffer)

	// A v12-sized buffer is too short for the v8 layout.
	set, err = Decode(testutil.ShaderSetV12(testutil.ShaderSetFields{}), V8, nil)
	assert.Nil(t, set)
	assert.ErrorIs(t, err, binfield.ErrShortBuffer)
}

func TestDecode_NullNameAndTrailingBytes(t *testing.T) {
	header := append(testutil.ShaderSetV13(testutil.ShaderSetFields{Samplers: 9}), 0xAA, 0xBB)

	set, err := Decode(header, V13, nil)
	require.NoError(t, err)
	assert.Empty(t, set.Name)
	assert.Equal(t, uint16(9), set.NumSamplers)
}

func TestDecode_NamePointerWithoutPages(t *testing.T) {
	header := testutil.ShaderSetV13(testutil.ShaderSetFields{Name: asset.PagePtr{Index: 1, Offset: 4}})

	_, err := Decode(header, V13, nil)
	assert.Error(t, err)
}

func TestDecode_BadNamePointer(t *testing.T) {
	pages := testutil.NewPages()
	pages.AddString("x")
	header := testutil.ShaderSetV13(testutil.ShaderSetFields{Name: asset.PagePtr{Index: 7, Offset: 0}})

	_, err := Decode(header, V13, pages)
	assert.Error(t, err)
}

func TestDecode_UnknownVariant(t *testing.T) {
	_, err := Decode(make([]byte, 0x100), VariantUnknown, nil)
	assert.Error(t, err)
}
