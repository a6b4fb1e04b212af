// Package journal records what happened during a play session so it can be
// re-simulated later. A journal holds only the nondeterministic inputs of a
// simulation: accepted player actions and spawner fires, each tagged with
// the tick it was delivered on. The seed and configuration live with the
// session. Game over entries are kept as checkpoints to compare a replay
// against.
package journal

import (
	"fmt"

	"github.com/vovakirdan/lane-runner/internal/core"
	"github.com/vovakirdan/lane-runner/internal/storage"
)

// EventKind tags a journal entry.
type EventKind string

const (
	KindInput EventKind = "input" // Accepted player action
	KindSpawn EventKind = "spawn" // Spawner fire that placed an obstacle
	KindOver  EventKind = "over"  // Run ended by a collision
)

// Event is one journal entry. Inputs and spawns with Tick t were delivered
// after t ticks had run, so a replay applies them before tick t+1. An over
// entry's Tick is the tick count right after the colliding tick.
type Event struct {
	Seq    int
	Tick   uint64
	Kind   EventKind
	Action core.Action // Input entries only
	Score  int         // Over entries only
}

// Outcome is where and with what score a run ended.
type Outcome struct {
	Tick  uint64
	Score int
}

func (e Event) record() storage.EventRecord {
	rec := storage.EventRecord{
		Seq:   e.Seq,
		Tick:  int64(e.Tick),
		Kind:  string(e.Kind),
		Score: e.Score,
	}
	if e.Kind == KindInput {
		rec.Action = e.Action.String()
	}
	return rec
}

// FromRecords converts stored entries back into events.
func FromRecords(records []storage.EventRecord) ([]Event, error) {
	events := make([]Event, 0, len(records))
	for _, rec := range records {
		if rec.Tick < 0 {
			return nil, fmt.Errorf("journal: event %d: negative tick %d", rec.Seq, rec.Tick)
		}
		e := Event{
			Seq:   rec.Seq,
			Tick:  uint64(rec.Tick),
			Kind:  EventKind(rec.Kind),
			Score: rec.Score,
		}
		switch e.Kind {
		case KindInput:
			e.Action = core.ParseAction(rec.Action)
			if e.Action == core.ActionNone {
				return nil, fmt.Errorf("journal: event %d: unknown action %q", rec.Seq, rec.Action)
			}
		case KindSpawn, KindOver:
		default:
			return nil, fmt.Errorf("journal: event %d: unknown kind %q", rec.Seq, rec.Kind)
		}
		events = append(events, e)
	}
	return events, nil
}
