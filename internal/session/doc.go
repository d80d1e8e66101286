// Package session drives the asset lifecycle for one container.
//
// A Session runs three phases:
//
//  1. Load: every record is dispatched to its registered Load function in
//     parallel. The phase ends when all of them have returned; only then
//     is the GUID directory populated.
//  2. Resolve: PostLoad runs for every loaded asset in parallel, reading
//     the now-complete directory.
//  3. Serve: Preview and Export run on demand. Exports to the same
//     destination are serialized; distinct destinations run concurrently.
//
// Records whose type has no registered binding are skipped. Records that
// fail to load are kept as failures and take no part in later phases.
//
// Session implements asset.Directory.
package session
