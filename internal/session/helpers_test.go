package session

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/pakview/internal/asset"
	"github.com/roach88/pakview/internal/registry"
	"github.com/roach88/pakview/internal/shader"
	"github.com/roach88/pakview/internal/shaderset"
	"github.com/roach88/pakview/internal/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.New()
	require.NoError(t, shaderset.Register(reg))
	require.NoError(t, shader.Register(reg))
	return reg
}

func newSession(t *testing.T, reg *registry.Registry, opts ...Option) *Session {
	t.Helper()
	base := []Option{
		WithLogger(discardLogger()),
		WithIDGenerator(testutil.NewFixedIDGenerator("")),
		WithWorkers(4),
	}
	return New(reg, append(base, opts...)...)
}

// fixture builds records sharing one page set.
type fixture struct {
	pages   *testutil.Pages
	records testutil.Source
}

func newFixture() *fixture {
	return &fixture{pages: testutil.NewPages()}
}

func (f *fixture) shader(guid asset.GUID, name string, kind uint8, code []byte) {
	fields := testutil.ShaderFields{Kind: kind, BytecodeSize: uint32(len(code))}
	if name != "" {
		fields.Name = f.pages.AddString(name)
	}
	if len(code) > 0 {
		fields.Bytecode = f.pages.AddBytes(code)
	}
	f.records = append(f.records, &asset.RawRecord{
		GUID:       guid,
		Type:       asset.TypeShader,
		Version:    asset.Version{Major: 12},
		HeaderSize: testutil.ShaderHeaderSize,
		Header:     testutil.Shader(fields),
		Pages:      f.pages,
	})
}

func (f *fixture) shaderSet(guid asset.GUID, name string, vertex, pixel asset.GUID) {
	fields := testutil.ShaderSetFields{
		VertexTextures: 1,
		PixelTextures:  2,
		Samplers:       3,
		BindPoint:      4,
		Resources:      5,
		VertexShader:   vertex,
		PixelShader:    pixel,
	}
	if name != "" {
		fields.Name = f.pages.AddString(name)
	}
	f.records = append(f.records, &asset.RawRecord{
		GUID:       guid,
		Type:       asset.TypeShaderSet,
		Version:    asset.Version{Major: 13},
		HeaderSize: testutil.ShaderSetV13Size,
		Header:     testutil.ShaderSetV13(fields),
		Pages:      f.pages,
	})
}

func (f *fixture) raw(rec *asset.RawRecord) {
	f.records = append(f.records, rec)
}

func previewText(t *testing.T, p registry.Preview) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, p.WriteText(&buf))
	return buf.String()
}
