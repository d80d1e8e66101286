// Package asset provides the record and decoded-asset types shared by every
// asset kind, plus the narrow interfaces to the collaborators that sit
// outside the decoding core.
//
// This package imports nothing internal. Asset kinds (shaderset, shader)
// build on it; the session driver and the container reader implement its
// interfaces.
//
// Key constraints:
//   - A GUID of zero is never a real dependency
//   - An Asset's name and extra data are each assigned at most once
//   - DependencyRef.GUID never changes after decode; Target is written only
//     by the post-load pass
package asset
