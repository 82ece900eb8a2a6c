package ui

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"mockup-finder/internal/config"
	"mockup-finder/internal/fabric"
)

// fakeGateway records calls and answers from canned data.
type fakeGateway struct {
	mu        sync.Mutex
	records   map[string][]fabric.Record
	searchErr error
	fetchErr  error
	downloads []string
	searches  []string
	ctxs      []context.Context
}

func (f *fakeGateway) Search(ctx context.Context, term string) ([]fabric.Record, error) {
	f.mu.Lock()
	f.searches = append(f.searches, term)
	f.ctxs = append(f.ctxs, ctx)
	f.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.records[term], nil
}

func (f *fakeGateway) Lookup(ctx context.Context, ref string) (fabric.Record, error) {
	recs, err := f.Search(ctx, ref)
	if err != nil {
		return fabric.Record{}, err
	}
	if len(recs) == 0 {
		return fabric.Record{}, &fabric.APIError{StatusCode: 404, Message: "Reference not found"}
	}
	return recs[0], nil
}

func (f *fakeGateway) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.SetNRGBA(0, 0, color.NRGBA{R: 200, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (f *fakeGateway) Download(ctx context.Context, rawURL, dir string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloads = append(f.downloads, rawURL)
	if rawURL == "" {
		return "", errors.New("empty url")
	}
	return path.Join(dir, fabric.FilenameFromURL(rawURL)), nil
}

func (f *fakeGateway) MetricsSnapshot() fabric.MetricsSnapshot {
	return fabric.MetricsSnapshot{TotalRequests: int64(len(f.searches))}
}

func strPtr(s string) *string { return &s }

func sampleRecords() []fabric.Record {
	return []fabric.Record{
		{
			Ref:   "ABC123-1",
			Style: "Jersey",
			Mockups: fabric.MockupsByCategory{
				fabric.Men: {
					{GarmentName: "Mens Tshirt", MockupURL: "/static/mockups/tshirt.png", TechpackURL: strPtr("/static/techpacks/tshirt.pdf")},
					{GarmentName: "Mens Polo", MockupURL: "/static/mockups/polo.png"},
					{GarmentName: "Mens Hoodie", MockupURL: "/static/mockups/hoodie.png"},
				},
				fabric.Women: {},
				fabric.Kids:  {},
			},
		},
		{
			Ref:   "ABC123-2",
			Style: "Pique",
			Mockups: fabric.MockupsByCategory{
				fabric.Kids: {{GarmentName: "Kids Tee", MockupURL: "/static/mockups/kids.png"}},
			},
		},
	}
}

func newTestModel(t *testing.T, mutate func(*config.Config)) (Model, *fakeGateway) {
	t.Helper()
	cfg := config.Default()
	cfg.DownloadDir = t.TempDir()
	cfg.AutoSelectFirst = false
	cfg.ScrollToViewer = false
	if mutate != nil {
		mutate(&cfg)
	}
	gw := &fakeGateway{records: map[string][]fabric.Record{"ABC123": sampleRecords()}}
	next, _ := New(cfg, gw).Update(tea.WindowSizeMsg{Width: 120, Height: 80})
	return next.(Model), gw
}

func createKeyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// press sends each key through Update and returns the last command.
func press(t *testing.T, m Model, keys ...string) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(createKeyMsg(k))
		m = next.(Model)
	}
	return m, cmd
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = press(t, m, string(r))
	}
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// collectMsgs runs cmd (flattening batches) and returns the messages of the
// given kinds only; spinner ticks and the like are skipped.
func collectMsgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collectMsgs(c)...)
		}
		return out
	}
	switch msg.(type) {
	case searchResultMsg, previewMsg, downloadMsg, tea.QuitMsg:
		return []tea.Msg{msg}
	}
	return nil
}

// search submits term and delivers every resulting message back to the model.
func search(t *testing.T, m Model, term string) Model {
	t.Helper()
	m = typeText(t, m, term)
	m, cmd := press(t, m, "enter")
	for _, msg := range collectMsgs(cmd) {
		m, _ = send(t, m, msg)
	}
	return m
}

// deliver runs cmd and feeds its messages into m.
func deliver(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collectMsgs(cmd) {
		m, _ = send(t, m, msg)
	}
	return m
}
