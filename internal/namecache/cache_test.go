package namecache

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/pakview/internal/asset"
)

func openTestCache(t *testing.T) (*Cache, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "names.db")
	c, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c, path
}

func TestOpen_Pragmas(t *testing.T) {
	c, _ := openTestCache(t)
	assert.NoError(t, c.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, c.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, c.verifyPragma("user_version", "1"))
}

func TestOpen_Reopen(t *testing.T) {
	ctx := context.Background()
	c, path := openTestCache(t)
	require.NoError(t, c.PutName(ctx, 0x42, "shader/a.rpak"))
	require.NoError(t, c.Close())

	c2, err := Open(path)
	require.NoError(t, err)
	defer c2.Close()

	name, ok := c2.LookupName(0x42)
	assert.True(t, ok)
	assert.Equal(t, "shader/a.rpak", name)
}

func TestOpen_BadPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "names.db"))
	require.Error(t, err)
}

func TestOpen_NewerSchemaRejected(t *testing.T) {
	c, path := openTestCache(t)
	_, err := c.db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = Open(path)
	require.ErrorContains(t, err, "newer than supported")
}

func TestPutAndLookup(t *testing.T) {
	ctx := context.Background()
	c, _ := openTestCache(t)

	_, ok := c.LookupName(0x1)
	assert.False(t, ok)

	require.NoError(t, c.PutName(ctx, 0x1, "first"))
	require.NoError(t, c.PutName(ctx, 0x1, "second"))
	name, ok := c.LookupName(0x1)
	assert.True(t, ok)
	assert.Equal(t, "second", name)

	n, err := c.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestHighBitGUID(t *testing.T) {
	ctx := context.Background()
	c, _ := openTestCache(t)
	guid := asset.GUID(0xF00DFACE12345678)

	require.NoError(t, c.PutName(ctx, guid, "shaderset/high.rpak"))
	name, ok, err := c.Get(ctx, guid)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "shaderset/high.rpak", name)
}

func TestPutName_Rejects(t *testing.T) {
	ctx := context.Background()
	c, _ := openTestCache(t)
	assert.Error(t, c.PutName(ctx, 0, "x"))
	assert.Error(t, c.PutName(ctx, 1, ""))
}

func TestImportLines(t *testing.T) {
	ctx := context.Background()
	c, _ := openTestCache(t)

	input := strings.Join([]string{
		"# dumped names",
		"0xAA shader/foo_vs.rpak",
		"",
		"bb\tshader/foo_ps.rpak",
		"0XCC   shaderset/with space.rpak  ",
	}, "\n")
	n, err := c.ImportLines(ctx, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	for guid, want := range map[asset.GUID]string{
		0xAA: "shader/foo_vs.rpak",
		0xBB: "shader/foo_ps.rpak",
		0xCC: "shaderset/with space.rpak",
	} {
		got, ok := c.LookupName(guid)
		assert.True(t, ok, guid.String())
		assert.Equal(t, want, got)
	}
}

func TestImportLines_ErrorRollsBack(t *testing.T) {
	ctx := context.Background()
	c, _ := openTestCache(t)

	cases := map[string]string{
		"missing name": "0x1 ok\n0x2",
		"bad guid":     "0x1 ok\nnothex name",
		"zero guid":    "0x1 ok\n0x0 name",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := c.ImportLines(ctx, strings.NewReader(input))
			require.ErrorContains(t, err, "line 2")

			_, ok := c.LookupName(0x1)
			assert.False(t, ok)
		})
	}
}

func TestLookupName_ImplementsNameCache(t *testing.T) {
	var _ asset.NameCache = (*Cache)(nil)
}
