package domain

import "fmt"

// EventDescriptor is a transient request to write the Kind attribute of
// Target. It is produced by the write phase of a tick and consumed by the
// applier in a later phase. Value is the result computed at trigger time;
// the applier recomputes it from Payload against the target's state at apply
// time, except for changes registered as frozen.
type EventDescriptor struct {
	Target  EntityID   `json:"target"`
	Kind    AttrKind   `json:"kind"`
	Value   Attribute  `json:"-"`
	Source  EntityID   `json:"source"`
	Change  ChangeKind `json:"change"`
	Payload Change     `json:"-"`
	// Guard is the target predicate of the producing rule, re-checked
	// against the target's state at apply time.
	Guard Predicate `json:"-"`
}

func (d EventDescriptor) String() string {
	return fmt.Sprintf("%s -> %s %s (%s from %s)", d.Target, d.Kind, d.Value, d.Change, d.Source)
}

// Batch holds every descriptor produced by one trigger. Batches are applied
// whole and in the order they were queued.
type Batch struct {
	ID          string            `json:"id"`
	Tick        uint64            `json:"tick"`
	Signal      Signal            `json:"signal"`
	Descriptors []EventDescriptor `json:"descriptors"`
}

// Empty reports whether the batch carries no descriptor.
func (b Batch) Empty() bool { return len(b.Descriptors) == 0 }

// ApplyStatus is the outcome of applying one descriptor.
type ApplyStatus string

const (
	Applied          ApplyStatus = "applied"
	MissingEntity    ApplyStatus = "missing_entity"
	MissingAttribute ApplyStatus = "missing_attribute"
	GuardMismatch    ApplyStatus = "guard_mismatch"
	StoreError       ApplyStatus = "store_error"
	// Unchanged means the change no longer emits for the target's state,
	// e.g. an add_visible whose target an earlier batch already showed.
	Unchanged ApplyStatus = "unchanged"
)

// ApplyResult reports what the applier did with a descriptor.
type ApplyResult struct {
	Descriptor EventDescriptor
	Status     ApplyStatus
	Previous   Attribute
}

// Applied reports whether the target attribute was written.
func (r ApplyResult) Applied() bool { return r.Status == Applied }

// TickReport summarises one applier pass.
type TickReport struct {
	Tick    uint64        `json:"tick"`
	Batches int           `json:"batches"`
	Results []ApplyResult `json:"results"`
}

// Applied counts the descriptors that were written.
func (r TickReport) Applied() int {
	n := 0
	for _, res := range r.Results {
		if res.Applied() {
			n++
		}
	}
	return n
}

// Dropped counts the descriptors that were not written.
func (r TickReport) Dropped() int { return len(r.Results) - r.Applied() }
