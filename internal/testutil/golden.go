package testutil

import (
	"bytes"
	"io"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// AssertGolden compares got against testdata/golden/{name}.golden in the
// calling package's directory.
//
// To regenerate golden files, run:
//
//	go test ./internal/<pkg> -update
func AssertGolden(t *testing.T, name string, got []byte) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, got)
}

// AssertGoldenText renders v with WriteText and compares the result
// against the named golden file.
func AssertGoldenText(t *testing.T, name string, v interface{ WriteText(io.Writer) error }) {
	t.Helper()
	var buf bytes.Buffer
	if err := v.WriteText(&buf); err != nil {
		t.Fatalf("WriteText() failed: %v", err)
	}
	AssertGolden(t, name, buf.Bytes())
}
