// Package artifact holds the in-memory output container code
// generation produces: a named, ordered set of generated files with
// no filesystem I/O in the core (§4.6/§4.7). It is grounded on the
// teacher's pkg/fsmfile/file.go multi-member container
// (machine.hex + labels.toml as named, ordered parts), minus the
// zip/hex binary framing that belonged to the dropped .fsm format.
package artifact

// Artifact is a single generated file, held in memory.
type Artifact struct {
	Name      string // e.g. "fsm.c", "fsm.h"
	Content   string
	Extension string // e.g. ".c", ".h", ".vhd" — includes the leading dot
	Target    string // the target identifier that produced it
}

// Bundle is an ordered collection of Artifacts produced by one
// Generate call. Order is the order the generator appended items in,
// never re-sorted, so a host can present "primary file first".
type Bundle struct {
	Items []Artifact
}

// NewBundle constructs a Bundle from the given artifacts, preserving
// order.
func NewBundle(items ...Artifact) *Bundle {
	return &Bundle{Items: items}
}

// ByName returns the first Artifact with the given Name, or nil.
func (b *Bundle) ByName(name string) *Artifact {
	for i := range b.Items {
		if b.Items[i].Name == name {
			return &b.Items[i]
		}
	}
	return nil
}
