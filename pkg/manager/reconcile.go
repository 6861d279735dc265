package manager

// Reconcile merges freshly parsed profiles into the current document.
//
// A parsed profile is appended only when its name is not already present,
// checked against both the existing entries and earlier additions from
// the same batch, so re-importing the same config is idempotent. Existing
// profiles are never overwritten: a name collision means skip, not
// replace. Returns the (mutated) document and the number of additions;
// persisting the result is the caller's job.
func Reconcile(parsed []Profile, current *Document) (*Document, int) {
	if current == nil {
		current = NewDocument()
	}

	seen := make(map[string]struct{}, len(current.Connections))
	for _, p := range current.Connections {
		seen[p.Name] = struct{}{}
	}

	added := 0
	for _, p := range parsed {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		current.Connections = append(current.Connections, p)
		seen[p.Name] = struct{}{}
		added++
	}
	return current, added
}
