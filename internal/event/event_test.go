package event

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeString(t *testing.T) {
	tests := []struct {
		want string
		typ  Type
	}{
		{want: "CopyStarted", typ: CopyStarted},
		{want: "FileCopied", typ: FileCopied},
		{want: "DirCreated", typ: DirCreated},
		{want: "LinkCreated", typ: LinkCreated},
		{want: "EntrySkipped", typ: EntrySkipped},
		{want: "EntryFiltered", typ: EntryFiltered},
		{want: "EntryFailed", typ: EntryFailed},
		{want: "Warning", typ: Warning},
		{want: "VerifyStarted", typ: VerifyStarted},
		{want: "VerifyOK", typ: VerifyOK},
		{want: "VerifyFailed", typ: VerifyFailed},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.typ.String())
		})
	}
}

func TestTypeStringUnknown(t *testing.T) {
	assert.Equal(t, "Unknown", Type(999).String())
	assert.Equal(t, "Unknown", Type(0).String())
	assert.Equal(t, "Unknown", Type(-1).String())
}

func TestEmitStampsTimestamp(t *testing.T) {
	ch := make(chan Event, 1)
	Emit(ch, Event{Type: FileCopied, Path: "a/b"})

	ev := <-ch
	assert.Equal(t, FileCopied, ev.Type)
	assert.Equal(t, "a/b", ev.Path)
	assert.False(t, ev.Timestamp.IsZero())
}

func TestEmitKeepsTimestamp(t *testing.T) {
	ch := make(chan Event, 1)
	at := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	Emit(ch, Event{Type: Warning, Timestamp: at})
	assert.Equal(t, at, (<-ch).Timestamp)
}

func TestEmitNilChannel(t *testing.T) {
	require.NotPanics(t, func() {
		Emit(nil, Event{Type: EntryFailed, Error: errors.New("boom")})
	})
}

func TestEmitFullChannelDoesNotBlock(t *testing.T) {
	ch := make(chan Event, 1)
	Emit(ch, Event{Type: FileCopied, Path: "first"})

	done := make(chan struct{})
	go func() {
		Emit(ch, Event{Type: FileCopied, Path: "second"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Emit blocked on a full channel")
	}
	assert.Equal(t, "first", (<-ch).Path)
}
