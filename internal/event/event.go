package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	CopyStarted Type = iota + 1
	FileCopied
	DirCreated
	LinkCreated
	EntrySkipped
	EntryFiltered
	EntryFailed
	Warning
	VerifyStarted
	VerifyOK
	VerifyFailed
)

var typeNames = [...]string{
	CopyStarted:   "CopyStarted",
	FileCopied:    "FileCopied",
	DirCreated:    "DirCreated",
	LinkCreated:   "LinkCreated",
	EntrySkipped:  "EntrySkipped",
	EntryFiltered: "EntryFiltered",
	EntryFailed:   "EntryFailed",
	Warning:       "Warning",
	VerifyStarted: "VerifyStarted",
	VerifyOK:      "VerifyOK",
	VerifyFailed:  "VerifyFailed",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Event is a single progress or diagnostic record from the engine.
type Event struct {
	Timestamp time.Time
	Error     error
	Path      string // destination path (source path for filtered entries)
	Message   string // Warning text
	Size      int64  // bytes written (FileCopied)
	Type      Type
}

// Emit sends e on ch without blocking. A nil channel discards the event;
// so does a full one, since progress output must never stall a copy.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	select {
	case ch <- e:
	default:
	}
}
