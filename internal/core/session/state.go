// Package session holds the lookup session state machine. Apply is pure: it
// maps (State, Event) to a new State plus the Effects the controller must run.
package session

import (
	"mockup-finder/internal/fabric"
)

// Mode selects the endpoint used for a submitted term.
type Mode int

const (
	// ModeSearch returns any number of matching fabrics.
	ModeSearch Mode = iota
	// ModeLookup returns exactly one fabric for an exact ref.
	ModeLookup
)

// Phase tracks the request lifecycle of the current term.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
)

// NoticeKind classifies user-facing messages.
type NoticeKind int

const (
	NoticeNone NoticeKind = iota
	NoticeInfo
	NoticeEmpty
	NoticeError
)

// Notice is a message shown above the results.
type Notice struct {
	Kind NoticeKind
	Text string
}

// Options are fixed for the lifetime of a session.
type Options struct {
	Mode            Mode
	AutoSelectFirst bool
	ScrollToViewer  bool
}

// State is the whole in-memory session. The zero value (plus options) is a
// clean slate.
type State struct {
	Options

	Phase Phase
	Term  string
	// Seq is the id of the latest issued request; responses carrying another
	// id are stale.
	Seq     uint64
	Records []fabric.Record

	SelectedRef      string
	SelectedCategory fabric.Category
	MockupIndex      int

	Notice         Notice
	CategoryNotice string
	Download       Notice
}

// New returns an empty session with the given options.
func New(opts Options) State {
	return State{Options: opts, MockupIndex: -1}
}

// ActiveRecord returns the selected fabric record.
func (s State) ActiveRecord() (fabric.Record, bool) {
	if s.SelectedRef == "" {
		return fabric.Record{}, false
	}
	for _, r := range s.Records {
		if r.Ref == s.SelectedRef {
			return r, true
		}
	}
	return fabric.Record{}, false
}

// CategoryItems returns the mockups of the selected category of the active record.
func (s State) CategoryItems() []fabric.MockupItem {
	rec, ok := s.ActiveRecord()
	if !ok || s.SelectedCategory == "" {
		return nil
	}
	return rec.Mockups.Items(s.SelectedCategory)
}

// SelectedMockup returns the mockup currently shown in the viewer.
func (s State) SelectedMockup() (fabric.MockupItem, bool) {
	items := s.CategoryItems()
	if s.MockupIndex < 0 || s.MockupIndex >= len(items) {
		return fabric.MockupItem{}, false
	}
	return items[s.MockupIndex], true
}
