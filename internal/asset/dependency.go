package asset

// DependencyRef is a GUID-valued field of a decoded asset together with the
// asset it resolved to, if any. Target is a non-owning reference.
type DependencyRef struct {
	GUID   GUID
	Target *Asset
}

// Resolve looks the dependency up in dir and records the result.
//
// A zero GUID is never looked up. An already-resolved reference is left
// unchanged and not looked up again, so repeated passes are idempotent.
// An unresolved reference is a valid terminal state, not an error.
func (d *DependencyRef) Resolve(dir Directory) bool {
	if d.GUID.IsZero() {
		return false
	}
	if d.Target != nil {
		return true
	}
	if target, ok := dir.LookupGUID(d.GUID); ok {
		d.Target = target
		return true
	}
	return false
}

// Resolved reports whether the reference points to a loaded asset.
func (d DependencyRef) Resolved() bool {
	return d.Target != nil
}

// TargetName returns the resolved target's name, if both exist.
func (d DependencyRef) TargetName() (string, bool) {
	if d.Target == nil {
		return "", false
	}
	return d.Target.Name()
}
