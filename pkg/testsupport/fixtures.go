package testsupport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-immediate-module/invocation"
)

// Journal is a small fluent target system used to exercise recording and
// replay: Open is chainable, Note is void, Size returns a plain value.
type Journal interface {
	Open(name string) Writer
	Note(text string)
	Size() int
}

// Writer is the chainable result of Journal.Open. Indent chains back onto
// Writer; Flush is void but may fail.
type Writer interface {
	Write(line string)
	Indent(prefix string) Writer
	Flush() error
}

// ErrFlush is returned by FakeWriter.Flush when FakeJournal.FailFlush is set.
var ErrFlush = errors.New("flush failed")

// Surfaces for Journal and Writer.
var (
	JournalSurface = invocation.NewSurface[Journal]("Journal", func(i *invocation.Interceptor) Journal {
		return recordingJournal{i}
	})
	WriterSurface = invocation.NewSurface[Writer]("Writer", func(i *invocation.Interceptor) Writer {
		return recordingWriter{i}
	})
)

func init() {
	invocation.Chain(JournalSurface, "Open", WriterSurface, func(j Journal, args []any) (Writer, error) {
		name, err := invocation.Arg[string](args, 0)
		if err != nil {
			return nil, err
		}
		return j.Open(name), nil
	})
	JournalSurface.Void("Note", func(j Journal, args []any) error {
		text, err := invocation.Arg[string](args, 0)
		if err != nil {
			return err
		}
		j.Note(text)
		return nil
	})
	JournalSurface.Value("Size", func(j Journal, _ []any) (any, error) {
		return j.Size(), nil
	})

	WriterSurface.Void("Write", func(w Writer, args []any) error {
		line, err := invocation.Arg[string](args, 0)
		if err != nil {
			return err
		}
		w.Write(line)
		return nil
	})
	invocation.Chain(WriterSurface, "Indent", WriterSurface, func(w Writer, args []any) (Writer, error) {
		prefix, err := invocation.Arg[string](args, 0)
		if err != nil {
			return nil, err
		}
		return w.Indent(prefix), nil
	})
	WriterSurface.Void("Flush", func(w Writer, _ []any) error {
		return w.Flush()
	})
}

type recordingJournal struct{ *invocation.Interceptor }

func (r recordingJournal) Open(name string) Writer {
	return invocation.Then[Writer](r.Interceptor, "Open", name)
}

func (r recordingJournal) Note(text string) { r.Do("Note", text) }

func (r recordingJournal) Size() int {
	r.Invoke("Size")
	return 0
}

type recordingWriter struct{ *invocation.Interceptor }

func (r recordingWriter) Write(line string) { r.Do("Write", line) }

func (r recordingWriter) Indent(prefix string) Writer {
	return invocation.Then[Writer](r.Interceptor, "Indent", prefix)
}

// Flush records the call; failures only surface at replay.
func (r recordingWriter) Flush() error {
	r.Do("Flush")
	return nil
}

// FakeJournal is the real Journal used as a replay target. Every call made on
// it or on writers it opened is appended to Calls.
type FakeJournal struct {
	Calls []string
	Lines []string
	Notes []string
	// PanicOnWrite makes writers panic when asked to write this line.
	PanicOnWrite string
	// FailFlush makes every Flush return ErrFlush.
	FailFlush bool

	opened int
}

// NewFakeJournal returns an empty FakeJournal.
func NewFakeJournal() *FakeJournal {
	return &FakeJournal{}
}

func (j *FakeJournal) Open(name string) Writer {
	j.opened++
	j.Calls = append(j.Calls, fmt.Sprintf("Open(%s)", name))
	return &FakeWriter{journal: j, name: name}
}

func (j *FakeJournal) Note(text string) {
	j.Calls = append(j.Calls, fmt.Sprintf("Note(%s)", text))
	j.Notes = append(j.Notes, text)
}

func (j *FakeJournal) Size() int {
	return len(j.Lines)
}

// Opened returns how many writers were opened.
func (j *FakeJournal) Opened() int {
	return j.opened
}

// FakeWriter appends written lines to its journal.
type FakeWriter struct {
	journal *FakeJournal
	name    string
	prefix  string
}

// Name returns the name the writer was opened with.
func (w *FakeWriter) Name() string {
	return w.name
}

func (w *FakeWriter) Write(line string) {
	w.journal.Calls = append(w.journal.Calls, fmt.Sprintf("%s.Write(%s)", w.name, line))
	if w.journal.PanicOnWrite != "" && line == w.journal.PanicOnWrite {
		panic(fmt.Sprintf("cannot write %q", line))
	}
	w.journal.Lines = append(w.journal.Lines, w.prefix+line)
}

func (w *FakeWriter) Indent(prefix string) Writer {
	w.journal.Calls = append(w.journal.Calls, fmt.Sprintf("%s.Indent(%s)", w.name, prefix))
	return &FakeWriter{journal: w.journal, name: w.name, prefix: w.prefix + prefix}
}

func (w *FakeWriter) Flush() error {
	w.journal.Calls = append(w.journal.Calls, fmt.Sprintf("%s.Flush()", w.name))
	if w.journal.FailFlush {
		return ErrFlush
	}
	return nil
}

// Transcript renders records one per line as "#seq root|derived call", the
// format used by golden files.
func Transcript(records []invocation.Record, describe func(invocation.Record) string) []byte {
	var b strings.Builder
	for _, rec := range records {
		kind := "derived"
		if rec.Root {
			kind = "root"
		}
		fmt.Fprintf(&b, "#%d %s %s\n", rec.Seq, kind, describe(rec))
	}
	return []byte(b.String())
}
