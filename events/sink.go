package events

import "sync"

// Sink receives committed event records in emission order. Publish must not
// block: delivery happens inside the ledger's critical section.
type Sink interface {
	Publish(rec Record)
}

// PublishAll delivers records to the sink in order. A nil sink drops them.
func PublishAll(sink Sink, records []Record) {
	if sink == nil {
		return
	}
	for _, rec := range records {
		sink.Publish(rec)
	}
}

// Log is an in-memory sink retaining every published record. It is the
// default observation point for tests and tooling.
type Log struct {
	mu      sync.RWMutex
	records []Record
}

// NewLog creates an empty log.
func NewLog() *Log {
	return &Log{}
}

// Publish appends the record.
func (l *Log) Publish(rec Record) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
}

// Records returns a copy of everything published so far, in order.
func (l *Log) Records() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the number of records published so far.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}

// Reset discards all retained records.
func (l *Log) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = nil
}

// Router fans records out to every attached sink in attachment order. A
// Router with no sinks drops records, so ledgers can publish unconditionally.
type Router struct {
	mu    sync.RWMutex
	sinks []Sink
}

// NewRouter creates a router over the given sinks.
func NewRouter(sinks ...Sink) *Router {
	return &Router{sinks: sinks}
}

// Attach adds a sink. Records published afterwards reach it.
func (r *Router) Attach(s Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks = append(r.sinks, s)
}

// Publish implements Sink.
func (r *Router) Publish(rec Record) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.sinks {
		s.Publish(rec)
	}
}
