package reconcile

// Set is a string set used by the presence differ.
type Set map[string]struct{}

// NewSet builds a Set from ids, dropping empty strings.
func NewSet(ids []string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		if id != "" {
			s[id] = struct{}{}
		}
	}
	return s
}

// Has reports membership.
func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// PresenceSets is the outcome of a presence diff. The sets satisfy:
// present ∪ missing = manifest, present ∪ extra = scanned, and present is
// disjoint from both missing and extra.
type PresenceSets struct {
	Present Set
	Missing Set
	Extra   Set
}

// Diff compares manifest identifiers against scanned document identifiers.
// Presence matching is exact-string only: it is a bookkeeping join, unlike
// content comparison, which tolerates OCR noise with substring matching.
// The asymmetry is deliberate.
func Diff(manifestIDs, scannedIDs Set) PresenceSets {
	out := PresenceSets{Present: Set{}, Missing: Set{}, Extra: Set{}}
	for id := range manifestIDs {
		if scannedIDs.Has(id) {
			out.Present[id] = struct{}{}
		} else {
			out.Missing[id] = struct{}{}
		}
	}
	for id := range scannedIDs {
		if !manifestIDs.Has(id) {
			out.Extra[id] = struct{}{}
		}
	}
	return out
}
