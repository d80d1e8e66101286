package shaderset

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pakview/internal/asset"
	"github.com/roach88/pakview/internal/msw"
	"github.com/roach88/pakview/internal/registry"
	"github.com/roach88/pakview/internal/testutil"
)

// loadedSet loads a v13 shaderset with the given dependencies and resolves
// it against targets.
func loadedSet(t *testing.T, guid, vertex, pixel asset.GUID, targets ...*asset.Asset) *asset.Asset {
	t.Helper()
	header := testutil.ShaderSetV13(testutil.ShaderSetFields{
		VertexTextures: 2,
		PixelTextures:  3,
		Samplers:       1,
		BindPoint:      4,
		Resources:      5,
		VertexShader:   vertex,
		PixelShader:    pixel,
	})
	a := newRecord(guid, 13, 0, header, nil)
	require.NoError(t, Load(a))
	PostLoad(registry.Env{Directory: testutil.NewDirectory(targets...)}, a)
	return a
}

func TestManifest_OrderAndZeroGUIDs(t *testing.T) {
	set := &ShaderSet{
		VertexShader: asset.DependencyRef{GUID: 0xAAAA},
		PixelShader:  asset.DependencyRef{GUID: 0xBBBB},
	}
	assert.Equal(t, []asset.GUID{0xAAAA, 0xBBBB}, Manifest(set))

	var buf bytes.Buffer
	require.NoError(t, WriteManifest(&buf, Manifest(set)))
	assert.Equal(t, "0xAAAA\n0xBBBB\n", buf.String())

	set.VertexShader.GUID = 0
	assert.Equal(t, []asset.GUID{0xBBBB}, Manifest(set))

	set.PixelShader.GUID = 0
	assert.Empty(t, Manifest(set))
}

func TestArtifactPaths(t *testing.T) {
	root := filepath.Join("out", "exported_files")
	assert.Equal(t, filepath.Join(root, "shaderset", "0xDEADBEEF.msw"), ArtifactPath(root, 0xDEADBEEF))
	assert.Equal(t, filepath.Join(root, "shaderset", "0xDEADBEEF.txt"), ManifestPath(root, 0xDEADBEEF))
}

func TestExport_Bare(t *testing.T) {
	root := t.TempDir()
	vs := newShaderTarget(0x1111, "shader/vs.rpak")
	a := loadedSet(t, 0xABC, 0x1111, 0x2222, vs)

	payloads := testutil.NewPayloads(map[asset.GUID][]byte{0x1111: []byte("vs")})
	require.NoError(t, Export(a, ModeMSW, root, payloads))

	f, err := msw.ReadFile(ArtifactPath(root, 0xABC))
	require.NoError(t, err)
	require.NotNil(t, f.ShaderSet)
	assert.Equal(t, msw.ShaderSetHeader{
		PixelShader:             0x2222,
		VertexShader:            0x1111,
		NumPixelShaderTextures:  3,
		NumVertexShaderTextures: 2,
		NumSamplers:             1,
		FirstResourceBindPoint:  4,
		NumResources:            5,
	}, *f.ShaderSet)
	assert.Empty(t, f.Shaders, "bare mode carries no payload")
	assert.Empty(t, payloads.Calls())

	manifest, err := os.ReadFile(ManifestPath(root, 0xABC))
	require.NoError(t, err)
	assert.Equal(t, "0x1111\n0x2222\n", string(manifest))
}

func TestExport_PackedOmitsUnresolvedPayload(t *testing.T) {
	root := t.TempDir()
	vs := newShaderTarget(0x1111, "")
	a := loadedSet(t, 0xABC, 0x1111, 0x2222, vs)

	payloads := testutil.NewPayloads(map[asset.GUID][]byte{
		0x1111: []byte("vertex bytecode"),
		0x2222: []byte("never requested"),
	})
	require.NoError(t, Export(a, ModeMSWPacked, root, payloads))

	f, err := msw.ReadFile(ArtifactPath(root, 0xABC))
	require.NoError(t, err)
	require.Len(t, f.Shaders, 1)
	assert.Equal(t, uint64(0x1111), f.Shaders[0].GUID)
	assert.Equal(t, []byte("vertex bytecode"), f.Shaders[0].Data)
	assert.Equal(t, []asset.GUID{0x1111}, payloads.Calls())

	manifest, err := os.ReadFile(ManifestPath(root, 0xABC))
	require.NoError(t, err)
	assert.Equal(t, "0x1111\n0x2222\n", string(manifest), "manifest lists unresolved dependencies too")
}

func TestExport_PackedBothResolved(t *testing.T) {
	root := t.TempDir()
	vs := newShaderTarget(0x1111, "")
	ps := newShaderTarget(0x2222, "")
	a := loadedSet(t, 0xABC, 0x1111, 0x2222, vs, ps)

	payloads := testutil.NewPayloads(map[asset.GUID][]byte{0x1111: []byte("vs"), 0x2222: []byte("ps")})
	require.NoError(t, Export(a, ModeMSWPacked, root, payloads))

	f, err := msw.ReadFile(ArtifactPath(root, 0xABC))
	require.NoError(t, err)
	require.Len(t, f.Shaders, 2)
	assert.Equal(t, []byte("ps"), f.Shaders[0].Data, "pixel shader is packed first")
	assert.Equal(t, []byte("vs"), f.Shaders[1].Data)
}

func TestExport_ZeroDependencies(t *testing.T) {
	root := t.TempDir()
	a := loadedSet(t, 0xABC, 0, 0)

	require.NoError(t, Export(a, ModeMSWPacked, root, testutil.NewPayloads(nil)))

	manifest, err := os.ReadFile(ManifestPath(root, 0xABC))
	require.NoError(t, err)
	assert.Empty(t, manifest)
}

func TestExport_DirectoryCreationFailure(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "root")
	// A regular file where the export root should be makes MkdirAll fail.
	require.NoError(t, os.WriteFile(root, []byte("x"), 0o644))

	a := loadedSet(t, 0xABC, 0x1111, 0x2222)
	err := Export(a, ModeMSW, root, nil)
	require.Error(t, err)

	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "nothing but the blocking file exists")
	data, err := os.ReadFile(root)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), data)
}

func TestExport_WriterFailureWritesNoManifest(t *testing.T) {
	root := t.TempDir()
	// A directory at the artifact path makes the final rename fail.
	require.NoError(t, os.MkdirAll(ArtifactPath(root, 0xABC), 0o755))

	a := loadedSet(t, 0xABC, 0x1111, 0x2222)
	require.Error(t, Export(a, ModeMSW, root, nil))

	_, err := os.Stat(ManifestPath(root, 0xABC))
	assert.True(t, os.IsNotExist(err), "manifest must not be written without its artifact")

	entries, err := os.ReadDir(filepath.Join(root, ExportDir))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file is cleaned up")
}

func TestExport_PayloadFailure(t *testing.T) {
	root := t.TempDir()
	vs := newShaderTarget(0x1111, "")
	a := loadedSet(t, 0xABC, 0x1111, 0, vs)

	err := Export(a, ModeMSWPacked, root, testutil.NewPayloads(nil))
	require.Error(t, err)

	_, statErr := os.Stat(ArtifactPath(root, 0xABC))
	assert.True(t, os.IsNotExist(statErr))
}

func TestExport_InvalidArguments(t *testing.T) {
	root := t.TempDir()
	a := loadedSet(t, 0xABC, 0x1111, 0x2222)

	assert.Error(t, Export(a, ExportMode(7), root, nil))
	assert.Error(t, Export(a, ModeMSWPacked, root, nil), "packed export without payload decoder")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExport_WithoutLoadPanics(t *testing.T) {
	a := newRecord(0xABC, 13, 0, testutil.ShaderSetV13(testutil.ShaderSetFields{}), nil)
	assert.Panics(t, func() { _ = Export(a, ModeMSW, t.TempDir(), nil) })
}

func TestExportMode_String(t *testing.T) {
	assert.Equal(t, "MSW", ModeMSW.String())
	assert.Equal(t, "MSW (Packed)", ModeMSWPacked.String())
	assert.Equal(t, "mode(9)", ExportMode(9).String())
}

func TestRegister(t *testing.T) {
	r := registry.New()
	require.NoError(t, Register(r))

	b, ok := r.Lookup(asset.TypeShaderSet)
	require.True(t, ok)
	assert.Equal(t, 8, b.HeaderAlignment)
	assert.Equal(t, []string{"MSW", "MSW (Packed)"}, b.ExportModes)
	assert.Equal(t, "shaderset", b.ExportDir)
	assert.NotNil(t, b.Load)
	assert.NotNil(t, b.PostLoad)
	assert.NotNil(t, b.Preview)
	assert.NotNil(t, b.Export)
}
