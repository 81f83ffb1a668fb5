package news

// Ledger holds the news events currently known to a simulation. The
// orchestrator owns it: the scheduler is the single writer, the fundamental
// engine and reporting layer are readers. Events stay in trigger order, which
// keeps replay deterministic.
type Ledger struct {
	events []Event
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// Append records a freshly triggered event.
func (l *Ledger) Append(e Event) {
	l.events = append(l.events, e)
}

// Refresh advances the digestion window: toggles Active flags and drops
// events that can never contribute weight again.
func (l *Ledger) Refresh(day int) {
	kept := l.events[:0]
	for i := range l.events {
		e := l.events[i]
		if e.Expired(day) {
			continue
		}
		e.Active = e.Weight(day) > 0
		kept = append(kept, e)
	}
	l.events = kept
}

// ForSymbol visits every event that applies to the symbol.
func (l *Ledger) ForSymbol(symbol string, visit func(*Event)) {
	for i := range l.events {
		if l.events[i].AppliesTo(symbol) {
			visit(&l.events[i])
		}
	}
}

// HasFired reports whether any event from the given definition exists.
func (l *Ledger) HasFired(defID string) bool {
	for i := range l.events {
		if l.events[i].DefID == defID {
			return true
		}
	}
	return false
}

// Events returns a copy of the ledger contents, oldest first.
func (l *Ledger) Events() []Event {
	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Replace swaps the ledger contents, used when restoring a snapshot.
func (l *Ledger) Replace(events []Event) {
	l.events = make([]Event, len(events))
	copy(l.events, events)
}
