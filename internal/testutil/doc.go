// Package testutil provides fixtures and fakes shared by package tests:
// raw header encoders for every shaderset layout, in-memory implementations
// of the asset collaborator interfaces, a fixed session ID generator, and
// golden-file assertions.
//
// The header encoders spell out byte offsets independently of the decoders
// so tests check the decoders against the layout rather than against
// themselves.
package testutil
