package session

import (
	"fmt"
	"strings"

	"mockup-finder/internal/fabric"
)

// User-facing texts.
const (
	MsgConnectFailed  = "Failed to connect to the server."
	MsgMalformed      = "The fabric service sent a response that could not be read."
	MsgNoMockups      = "No mockups available for this fabric."
	MsgCategoryPrompt = "Select a category:"
)

// Apply runs one transition. It never mutates the Records slice it was given.
func Apply(s State, ev Event) (State, []Effect) {
	switch ev := ev.(type) {
	case Submit:
		return submit(s, ev)
	case SearchSucceeded:
		return searchSucceeded(s, ev)
	case SearchFailed:
		return searchFailed(s, ev)
	case SelectFabric:
		return selectFabric(s, ev)
	case SelectCategory:
		return selectCategory(s, ev)
	case SelectMockup:
		return selectMockup(s, ev)
	case RequestDownload:
		return requestDownload(s, ev)
	case DownloadFinished:
		return downloadFinished(s, ev)
	case Reset:
		return reset(s), nil
	}
	return s, []Effect{Log{Level: LogWarn, Msg: fmt.Sprintf("unhandled event %T", ev)}}
}

// reset hides every downstream region and drops all fetched data. Seq is kept
// so responses to earlier requests stay recognisable as stale.
func reset(s State) State {
	return State{Options: s.Options, Seq: s.Seq, MockupIndex: -1}
}

func clearSelection(s State) State {
	s.SelectedCategory = ""
	s.MockupIndex = -1
	s.CategoryNotice = ""
	s.Download = Notice{}
	return s
}

func submit(s State, ev Submit) (State, []Effect) {
	term := strings.TrimSpace(ev.Term)
	if term == "" {
		return s, nil
	}
	s = reset(s)
	s.Seq++
	s.Term = term
	s.Phase = PhaseLoading
	if s.Mode == ModeLookup {
		return s, []Effect{FetchLookup{Seq: s.Seq, Ref: term}}
	}
	return s, []Effect{FetchSearch{Seq: s.Seq, Term: term}}
}

func stale(s State, seq uint64) bool {
	return seq != s.Seq || s.Phase != PhaseLoading
}

func searchSucceeded(s State, ev SearchSucceeded) (State, []Effect) {
	if stale(s, ev.Seq) {
		return s, []Effect{Log{Level: LogDebug, Msg: fmt.Sprintf("discarding stale response %d (current %d)", ev.Seq, s.Seq)}}
	}
	s.Phase = PhaseReady
	s.Records = append([]fabric.Record(nil), ev.Records...)
	if len(s.Records) == 0 {
		s.Notice = Notice{Kind: NoticeEmpty, Text: fmt.Sprintf("No fabrics found for %q.", s.Term)}
		return s, nil
	}
	s.Notice = Notice{}
	return s, nil
}

func searchFailed(s State, ev SearchFailed) (State, []Effect) {
	if stale(s, ev.Seq) {
		return s, []Effect{Log{Level: LogDebug, Msg: fmt.Sprintf("discarding stale failure %d (current %d)", ev.Seq, s.Seq)}}
	}
	if fabric.IsCanceled(ev.Err) {
		// only the controller cancels, and only when a newer request exists
		return s, []Effect{Log{Level: LogDebug, Msg: fmt.Sprintf("request %d canceled", ev.Seq)}}
	}
	s.Phase = PhaseReady
	s.Records = nil
	s.Notice = Notice{Kind: NoticeError, Text: ErrorText(ev.Err)}
	return s, []Effect{Log{Level: LogWarn, Msg: fmt.Sprintf("search %q failed: %v", s.Term, ev.Err)}}
}

// ErrorText maps a gateway error to the message shown to the user.
func ErrorText(err error) string {
	if msg, ok := fabric.ServerMessage(err); ok {
		return msg
	}
	if code := fabric.StatusCode(err); code != 0 {
		return fmt.Sprintf("Could not reach the fabric service (HTTP %d).", code)
	}
	if !fabric.IsConnectivity(err) {
		return MsgMalformed
	}
	return MsgConnectFailed
}

func selectFabric(s State, ev SelectFabric) (State, []Effect) {
	found := false
	for _, r := range s.Records {
		if r.Ref == ev.Ref {
			found = true
			break
		}
	}
	if !found {
		return s, []Effect{Log{Level: LogWarn, Msg: fmt.Sprintf("select fabric: ref %q is not loaded", ev.Ref)}}
	}
	s = clearSelection(s)
	s.SelectedRef = ev.Ref
	rec, _ := s.ActiveRecord()
	if !rec.Mockups.Any() {
		s.CategoryNotice = MsgNoMockups
	}
	return s, nil
}

func selectCategory(s State, ev SelectCategory) (State, []Effect) {
	rec, ok := s.ActiveRecord()
	if !ok {
		return s, []Effect{Log{Level: LogWarn, Msg: fmt.Sprintf("select category %q: no active fabric", ev.Category)}}
	}
	if !ev.Category.Valid() {
		return s, []Effect{Log{Level: LogWarn, Msg: fmt.Sprintf("select category: unknown category %q", ev.Category)}}
	}
	s = clearSelection(s)
	s.SelectedCategory = ev.Category
	if !rec.Mockups.Has(ev.Category) {
		s.CategoryNotice = fmt.Sprintf("No %s mockups available.", ev.Category.Label())
		return s, nil
	}
	if s.AutoSelectFirst {
		return selectMockup(s, SelectMockup{Index: 0})
	}
	return s, nil
}

func selectMockup(s State, ev SelectMockup) (State, []Effect) {
	items := s.CategoryItems()
	if ev.Index < 0 || ev.Index >= len(items) {
		return s, []Effect{Log{Level: LogWarn, Msg: fmt.Sprintf("select mockup: index %d out of range (%d items)", ev.Index, len(items))}}
	}
	s.MockupIndex = ev.Index
	s.Download = Notice{}
	effects := []Effect{LoadPreview{URL: items[ev.Index].MockupURL}}
	if s.ScrollToViewer {
		effects = append(effects, RevealViewer{})
	}
	return s, effects
}

func requestDownload(s State, ev RequestDownload) (State, []Effect) {
	item, ok := s.SelectedMockup()
	if !ok {
		return s, nil
	}
	u := item.MockupURL
	if ev.Kind == DownloadTechpack {
		if !item.HasTechpack() {
			return s, nil
		}
		u = item.Techpack()
	}
	name := fabric.FilenameFromURL(u)
	s.Download = Notice{Kind: NoticeInfo, Text: fmt.Sprintf("Downloading %s…", name)}
	return s, []Effect{Download{Kind: ev.Kind, URL: u, Filename: name}}
}

func downloadFinished(s State, ev DownloadFinished) (State, []Effect) {
	if ev.Err != nil {
		reason := ev.Err.Error()
		if msg, ok := fabric.ServerMessage(ev.Err); ok {
			reason = msg
		}
		s.Download = Notice{Kind: NoticeError, Text: fmt.Sprintf("Download of %s failed: %s", ev.Kind, reason)}
		return s, []Effect{Log{Level: LogWarn, Msg: fmt.Sprintf("download failed: %v", ev.Err)}}
	}
	s.Download = Notice{Kind: NoticeInfo, Text: fmt.Sprintf("Saved %s to %s", ev.Kind, ev.Path)}
	return s, nil
}
