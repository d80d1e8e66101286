// Package namecache provides a SQLite-backed GUID to name cache.
//
// Names recovered outside a container (debug symbol dumps, earlier
// exports) are stored here and consulted for assets whose records carry
// no explicit name. The cache implements asset.NameCache.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// GUIDs are stored in an INTEGER column as the two's-complement int64 of
// the unsigned value, since SQLite integers are signed.
package namecache
