// Package container reads and writes pak files, the multi-asset containers
// that feed raw records to a session.
//
// A pak file is a single CBOR item (Core Deterministic Encoding):
//
//	{1: magic "PAKV", 2: format version, 3: [record...], 4: [page...]}
//
// Records carry the GUID, 4-byte type tag, declared version, declared
// header size and header bytes of one asset. Pages hold everything header
// pointers refer to (names, bytecode). Each page is stored uncompressed,
// LZ4 block compressed or zstd compressed, and is decompressed once when
// the file is opened.
//
// Page 0 is always empty so that the zero page pointer can mean null.
package container
