package catalog

import "sync/atomic"

// Generation pairs a published snapshot with the report of the load that
// produced it.
type Generation struct {
	Snapshot *Snapshot
	Report   LoadReport
	Seq      int64 // increments on every publish, starting at 1
}

// Holder publishes snapshots to concurrent readers.
//
// Readers call Current once per query and use the returned snapshot for
// the whole query, so a concurrent Publish never tears a query across two
// catalogs.
type Holder struct {
	current atomic.Pointer[Generation]
	seq     atomic.Int64
}

// NewHolder creates a Holder with an initial snapshot.
func NewHolder(snap *Snapshot, report LoadReport) *Holder {
	h := &Holder{}
	h.Publish(snap, report)
	return h
}

// Current returns the latest published generation.
func (h *Holder) Current() *Generation {
	return h.current.Load()
}

// Snapshot returns the latest published snapshot.
func (h *Holder) Snapshot() *Snapshot {
	gen := h.current.Load()
	if gen == nil {
		return nil
	}
	return gen.Snapshot
}

// Publish replaces the current snapshot and returns the new generation.
func (h *Holder) Publish(snap *Snapshot, report LoadReport) *Generation {
	gen := &Generation{
		Snapshot: snap,
		Report:   report,
		Seq:      h.seq.Add(1),
	}
	h.current.Store(gen)
	return gen
}

// Reload loads src and publishes the result. On error the current
// snapshot stays published.
func (h *Holder) Reload(src Source) (*Generation, error) {
	snap, report, err := Load(src)
	if err != nil {
		return nil, err
	}
	return h.Publish(snap, *report), nil
}
