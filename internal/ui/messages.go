package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mockup-finder/internal/core/session"
	"mockup-finder/internal/fabric"
	"mockup-finder/internal/infra/logx"
	"mockup-finder/internal/preview"
)

// ---------- Messages / Cmds ----------

// searchResultMsg carries the outcome of the search (or lookup) issued as seq.
type searchResultMsg struct {
	seq     uint64
	records []fabric.Record
	err     error
}

// previewMsg carries rendered art for url.
type previewMsg struct {
	url string
	art string
	err error
}

type downloadMsg struct {
	kind session.DownloadKind
	path string
	err  error
}

const (
	previewTimeout  = 20 * time.Second
	downloadTimeout = 2 * time.Minute
	// swatchWidth is the art width of the selected fabric's swatch.
	swatchWidth = 16
)

// apply feeds ev into the session and turns the resulting effects into commands.
func (m Model) apply(ev session.Event) (Model, tea.Cmd) {
	var effects []session.Effect
	m.sess, effects = session.Apply(m.sess, ev)
	cmds := make([]tea.Cmd, 0, len(effects))
	for _, eff := range effects {
		var cmd tea.Cmd
		m, cmd = m.runEffect(eff)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) runEffect(eff session.Effect) (Model, tea.Cmd) {
	switch eff := eff.(type) {
	case session.FetchSearch:
		return m.startSearch(eff.Seq, eff.Term, false)
	case session.FetchLookup:
		return m.startSearch(eff.Seq, eff.Ref, true)
	case session.LoadPreview:
		return m, m.previewCmd(eff.URL, m.previewWidth())
	case session.RevealViewer:
		m.revealViewer = true
		return m, nil
	case session.Download:
		return m, m.downloadCmd(eff)
	case session.Log:
		if eff.Level == session.LogWarn {
			logx.Warnf("%s", eff.Msg)
		} else {
			logx.Debugf("%s", eff.Msg)
		}
		return m, nil
	}
	logx.Warnf("unhandled effect %T", eff)
	return m, nil
}

// startSearch cancels the previous in-flight request and issues a new one.
// Late answers to the old request are still dropped by seq in the session.
// Filter and cursors belong to the old result set and are reset here.
func (m Model) startSearch(seq uint64, term string, lookup bool) (Model, tea.Cmd) {
	if m.cancelSearch != nil {
		m.cancelSearch()
	}
	m.resetBrowse()
	ctx, cancel := context.WithCancel(context.Background())
	ctx = fabric.WithRequestTag(ctx, fabric.RequestTag{Seq: seq, Term: term})
	m.cancelSearch = cancel

	client := m.client
	cmd := func() tea.Msg {
		defer cancel()
		if lookup {
			rec, err := client.Lookup(ctx, term)
			if err != nil {
				return searchResultMsg{seq: seq, err: err}
			}
			return searchResultMsg{seq: seq, records: []fabric.Record{rec}}
		}
		recs, err := client.Search(ctx, term)
		return searchResultMsg{seq: seq, records: recs, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, cmd)
}

// previewCmd fetches url and renders it width columns wide. Successful
// renders are cached; a failed one is fetched again on the next request.
func (m Model) previewCmd(url string, width int) tea.Cmd {
	if !m.cfg.Preview || m.client == nil || url == "" {
		return nil
	}
	if p, ok := m.previews[url]; ok && p.err == nil {
		return nil
	}
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), previewTimeout)
		defer cancel()
		data, err := client.Fetch(ctx, url)
		if err != nil {
			return previewMsg{url: url, err: err}
		}
		art, err := preview.Render(data, width)
		return previewMsg{url: url, art: art, err: err}
	}
}

func (m Model) downloadCmd(eff session.Download) tea.Cmd {
	client := m.client
	dir := m.cfg.DownloadDir
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), downloadTimeout)
		defer cancel()
		path, err := client.Download(ctx, eff.URL, dir)
		return downloadMsg{kind: eff.Kind, path: path, err: err}
	}
}

// previewWidth bounds the art by the configured width and the terminal.
func (m Model) previewWidth() int {
	w := m.cfg.PreviewWidth
	if w <= 0 {
		w = 48
	}
	if m.width > 0 && w > m.width-6 {
		w = m.width - 6
	}
	if w < 8 {
		w = 8
	}
	return w
}
