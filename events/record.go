package events

import (
	"github.com/fxamacker/cbor/v2"
)

// Record is one journaled event: the contract-scoped monotonic sequence
// number plus the event payload. Records are the durable form written to the
// state store and the unit delivered to sinks.
type Record struct {
	Seq   uint64   `cbor:"1,keyasint" json:"seq"`
	Type  Type     `cbor:"2,keyasint" json:"type"`
	Attrs []string `cbor:"3,keyasint" json:"attrs"`
}

// NewRecord seals an event under a sequence number.
func NewRecord(seq uint64, ev Event) Record {
	return Record{Seq: seq, Type: ev.Type, Attrs: ev.Attrs}
}

// Event returns the record's payload without the sequence number.
func (r Record) Event() Event {
	return Event{Type: r.Type, Attrs: r.Attrs}
}

// EncodeRecord marshals a record to its CBOR journal form.
func EncodeRecord(r Record) ([]byte, error) {
	return cbor.Marshal(r)
}

// DecodeRecord unmarshals a CBOR journal entry.
func DecodeRecord(data []byte) (Record, error) {
	var r Record
	if err := cbor.Unmarshal(data, &r); err != nil {
		return Record{}, err
	}
	return r, nil
}
