// Package msw writes and reads multi-shader wrapper (MSW) artifact files.
//
// An MSW file carries one fixed header record describing a shader or
// shaderset plus zero or more inlined shader payloads:
//
//	magic       "MSW\x00"
//	version     u16
//	file type   u8
//	shaders     u8 count
//	shaderset   24-byte header (shaderset files only)
//	shader[i]   guid u64, size u32, size bytes
//	checksum    BLAKE3-256 of every preceding byte
//
// All integers are little-endian. Files are written atomically: a reader
// never observes a partially written artifact at the final path.
package msw
