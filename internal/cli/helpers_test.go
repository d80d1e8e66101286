package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/pakview/internal/asset"
	"github.com/roach88/pakview/internal/container"
	"github.com/roach88/pakview/internal/testutil"
)

// writePak writes a pak holding one shaderset 0x100 with two shaders, one
// unnamed shaderset 0x200 and one record of an unregistered type.
func writePak(t *testing.T) string {
	t.Helper()
	b := container.NewBuilder()

	b.AddRecord(container.Record{
		GUID:    0x100,
		Type:    asset.TypeShaderSet,
		Version: asset.Version{Major: 12},
		Header: testutil.ShaderSetV12(testutil.ShaderSetFields{
			Name:           b.AddString("fx/water"),
			VertexTextures: 1,
			PixelTextures:  2,
			Samplers:       3,
			BindPoint:      4,
			Resources:      5,
			VertexShader:   0x1,
			PixelShader:    0x2,
		}),
	})
	b.AddRecord(container.Record{
		GUID:    0x200,
		Type:    asset.TypeShaderSet,
		Version: asset.Version{Major: 13},
		Header: testutil.ShaderSetV13(testutil.ShaderSetFields{
			VertexShader: 0x1,
			PixelShader:  0x99,
		}),
	})
	for _, s := range []struct {
		guid asset.GUID
		name string
		kind uint8
		code string
	}{
		{0x1, "water_vs", 1, "VERTEXCODE"},
		{0x2, "water_ps", 0, "PIXELCODE"},
	} {
		b.AddRecord(container.Record{
			GUID:    s.guid,
			Type:    asset.TypeShader,
			Version: asset.Version{Major: 12},
			Header: testutil.Shader(testutil.ShaderFields{
				Name:         b.AddString(s.name),
				Bytecode:     b.AddBytes([]byte(s.code)),
				BytecodeSize: uint32(len(s.code)),
				Kind:         s.kind,
			}),
		})
	}
	b.AddRecord(container.Record{GUID: 0x300, Type: asset.TypeTag{'t', 'x', 't', 'r'}, Header: make([]byte, 8)})

	path := filepath.Join(t.TempDir(), "test.pak")
	require.NoError(t, b.WriteFile(path, container.CompressionZstd))
	return path
}

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

type jsonResponse struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Error   *CLIError       `json:"error"`
	Session string          `json:"session"`
}

func decodeResponse(t *testing.T, out string) jsonResponse {
	t.Helper()
	var resp jsonResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp), out)
	return resp
}
