package asset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingDir struct {
	assets  map[GUID]*Asset
	lookups map[GUID]int
}

func newCountingDir(assets ...*Asset) *countingDir {
	d := &countingDir{assets: map[GUID]*Asset{}, lookups: map[GUID]int{}}
	for _, a := range assets {
		d.assets[a.GUID()] = a
	}
	return d
}

func (d *countingDir) LookupGUID(g GUID) (*Asset, bool) {
	d.lookups[g]++
	a, ok := d.assets[g]
	return a, ok
}

func TestDependencyRef_ResolveFound(t *testing.T) {
	target := newTestAsset(0xAA)
	dir := newCountingDir(target)

	ref := DependencyRef{GUID: 0xAA}
	assert.True(t, ref.Resolve(dir))
	assert.Same(t, target, ref.Target)
	assert.True(t, ref.Resolved())
}

func TestDependencyRef_ResolveNotFoundIsTerminal(t *testing.T) {
	dir := newCountingDir()

	ref := DependencyRef{GUID: 0xBB}
	assert.False(t, ref.Resolve(dir))
	assert.Nil(t, ref.Target)
	assert.False(t, ref.Resolved())
}

func TestDependencyRef_ZeroGUIDNeverLookedUp(t *testing.T) {
	dir := newCountingDir()

	ref := DependencyRef{}
	assert.False(t, ref.Resolve(dir))
	assert.Empty(t, dir.lookups)
}

func TestDependencyRef_ResolveIsIdempotent(t *testing.T) {
	target := newTestAsset(0xAA)
	dir := newCountingDir(target)

	ref := DependencyRef{GUID: 0xAA}
	ref.Resolve(dir)
	ref.Resolve(dir)

	assert.Same(t, target, ref.Target)
	assert.Equal(t, 1, dir.lookups[0xAA], "resolved refs are not looked up again")
}

func TestDependencyRef_TargetName(t *testing.T) {
	ref := DependencyRef{GUID: 0xAA}
	_, ok := ref.TargetName()
	assert.False(t, ok)

	target := newTestAsset(0xAA)
	ref.Target = target
	_, ok = ref.TargetName()
	assert.False(t, ok, "target without a name")

	_ = target.SetName("shader/vs.rpak")
	name, ok := ref.TargetName()
	assert.True(t, ok)
	assert.Equal(t, "shader/vs.rpak", name)
}
