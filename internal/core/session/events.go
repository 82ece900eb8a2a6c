package session

import "mockup-finder/internal/fabric"

// Event is an input to Apply.
type Event interface{ isEvent() }

// Submit asks for a new search (or lookup) of Term.
type Submit struct{ Term string }

// SearchSucceeded delivers the records for request Seq.
type SearchSucceeded struct {
	Seq     uint64
	Records []fabric.Record
}

// SearchFailed delivers the error for request Seq.
type SearchFailed struct {
	Seq uint64
	Err error
}

// SelectFabric activates the record with Ref.
type SelectFabric struct{ Ref string }

// SelectCategory activates one of the fixed categories.
type SelectCategory struct{ Category fabric.Category }

// SelectMockup shows the mockup at Index of the active category.
type SelectMockup struct{ Index int }

// DownloadKind names the two files a mockup can expose.
type DownloadKind int

const (
	DownloadImage DownloadKind = iota
	DownloadTechpack
)

func (k DownloadKind) String() string {
	if k == DownloadTechpack {
		return "tech-pack"
	}
	return "image"
}

// RequestDownload asks to save the image or the tech-pack of the viewer.
type RequestDownload struct{ Kind DownloadKind }

// DownloadFinished reports the outcome of a Download effect.
type DownloadFinished struct {
	Kind DownloadKind
	Path string
	Err  error
}

// Reset discards everything but the options.
type Reset struct{}

func (Submit) isEvent()           {}
func (SearchSucceeded) isEvent()  {}
func (SearchFailed) isEvent()     {}
func (SelectFabric) isEvent()     {}
func (SelectCategory) isEvent()   {}
func (SelectMockup) isEvent()     {}
func (RequestDownload) isEvent()  {}
func (DownloadFinished) isEvent() {}
func (Reset) isEvent()            {}

// Effect is work Apply asks the controller to perform.
type Effect interface{ isEffect() }

// FetchSearch queries the search endpoint.
type FetchSearch struct {
	Seq  uint64
	Term string
}

// FetchLookup queries the exact lookup endpoint.
type FetchLookup struct {
	Seq uint64
	Ref string
}

// LoadPreview loads the image for the viewer.
type LoadPreview struct{ URL string }

// RevealViewer scrolls the viewer into view.
type RevealViewer struct{}

// Download saves URL under Filename.
type Download struct {
	Kind     DownloadKind
	URL      string
	Filename string
}

// LogLevel mirrors the severities the controller logs with.
type LogLevel int

const (
	LogDebug LogLevel = iota
	LogWarn
)

// Log records a condition that must not surface in the UI.
type Log struct {
	Level LogLevel
	Msg   string
}

func (FetchSearch) isEffect()  {}
func (FetchLookup) isEffect()  {}
func (LoadPreview) isEffect()  {}
func (RevealViewer) isEffect() {}
func (Download) isEffect()     {}
func (Log) isEffect()          {}
