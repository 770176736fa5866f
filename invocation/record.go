package invocation

// Record is one intercepted call.
type Record struct {
	// Seq is the 1-based position of the call in its session.
	Seq      int      `json:"seq"`
	Selector Selector `json:"selector"`
	Args     []any    `json:"args,omitempty"`
	// Root is true when the call was made on the session's root stand-in.
	// Derived calls are replayed against the result of the previous record.
	Root bool `json:"root"`

	op Operation
}

var defaultSerializer = NewDefaultCallSerializer()

// String renders the call with the default serializer. Session.Describe uses
// the session's configured serializer instead.
func (r Record) String() string {
	return defaultSerializer.SerializeCall(r.Selector, r.Args...)
}

// Log is the ordered, append-only list of records captured by one session.
// Insertion order is call order across every chain of the session.
type Log struct {
	records []Record
}

// Len returns the number of records still in the log.
func (l *Log) Len() int {
	return len(l.records)
}

// Records returns a copy of the records in call order.
func (l *Log) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

func (l *Log) append(op Operation, args []any, root bool) Record {
	rec := Record{
		Seq:      len(l.records) + 1,
		Selector: op.Selector,
		Args:     append([]any(nil), args...),
		Root:     root,
		op:       op,
	}
	l.records = append(l.records, rec)
	return rec
}

// shift removes and returns the first record.
func (l *Log) shift() (Record, bool) {
	if len(l.records) == 0 {
		return Record{}, false
	}
	rec := l.records[0]
	l.records[0] = Record{}
	l.records = l.records[1:]
	return rec, true
}

func (l *Log) discard() {
	l.records = nil
}
