package session

import (
	"fmt"

	"mockup-finder/internal/fabric"
)

// View is the projection of State the terminal renderer draws. Hidden regions
// carry no data so nothing stale can leak into them.
type View struct {
	Header     string
	Loading    bool
	Notice     Notice
	Cards      []Card
	Categories CategoryRegion
	Mockups    MockupRegion
	Viewer     ViewerRegion
	Download   Notice
}

type Card struct {
	Ref        string
	Style      string
	SwatchURL  string
	ExcelFound *bool
	Selected   bool
}

type CategoryRegion struct {
	Visible bool
	Prompt  string
	// Message replaces the buttons when the fabric has no mockups at all.
	Message string
	Buttons []CategoryButton
}

type CategoryButton struct {
	Category fabric.Category
	Label    string
	Count    int
	Active   bool
}

type MockupRegion struct {
	Visible bool
	Title   string
	Empty   string
	Items   []MockupButton
}

type MockupButton struct {
	Label       string
	Active      bool
	HasTechpack bool
}

// Link is a download action for one file.
type Link struct {
	Href     string
	Filename string
}

type ViewerRegion struct {
	Visible  bool
	Title    string
	ImageURL string
	Image    Link
	// Techpack is nil when the mockup has no tech-pack.
	Techpack *Link
}

// Render projects s into a View.
func Render(s State) View {
	var v View
	v.Notice = s.Notice
	v.Download = s.Download

	switch s.Phase {
	case PhaseLoading:
		v.Loading = true
		v.Header = fmt.Sprintf("Searching for %q…", s.Term)
		return v
	case PhaseIdle:
		return v
	}
	if len(s.Records) > 0 {
		v.Header = resultHeader(len(s.Records), s.Term)
	}
	for _, r := range s.Records {
		v.Cards = append(v.Cards, Card{
			Ref:        r.Ref,
			Style:      r.Style,
			SwatchURL:  r.SwatchURL,
			ExcelFound: r.ExcelFound,
			Selected:   r.Ref == s.SelectedRef,
		})
	}

	rec, ok := s.ActiveRecord()
	if !ok {
		return v
	}
	v.Categories.Visible = true
	if !rec.Mockups.Any() {
		v.Categories.Message = MsgNoMockups
		return v
	}
	v.Categories.Prompt = MsgCategoryPrompt
	for _, c := range rec.Mockups.Available() {
		v.Categories.Buttons = append(v.Categories.Buttons, CategoryButton{
			Category: c,
			Label:    c.Label(),
			Count:    len(rec.Mockups.Items(c)),
			Active:   c == s.SelectedCategory,
		})
	}

	if s.SelectedCategory == "" {
		return v
	}
	v.Mockups.Visible = true
	v.Mockups.Title = fmt.Sprintf("%s mockups", s.SelectedCategory.Label())
	items := rec.Mockups.Items(s.SelectedCategory)
	if len(items) == 0 {
		v.Mockups.Empty = s.CategoryNotice
		return v
	}
	for i, it := range items {
		v.Mockups.Items = append(v.Mockups.Items, MockupButton{
			Label:       it.GarmentName,
			Active:      i == s.MockupIndex,
			HasTechpack: it.HasTechpack(),
		})
	}

	item, ok := s.SelectedMockup()
	if !ok {
		return v
	}
	v.Viewer = ViewerRegion{
		Visible:  true,
		Title:    fmt.Sprintf("%s · %s", rec.Ref, item.GarmentName),
		ImageURL: item.MockupURL,
		Image:    Link{Href: item.MockupURL, Filename: fabric.FilenameFromURL(item.MockupURL)},
	}
	if item.HasTechpack() {
		tp := item.Techpack()
		v.Viewer.Techpack = &Link{Href: tp, Filename: fabric.FilenameFromURL(tp)}
	}
	return v
}

func resultHeader(n int, term string) string {
	if n == 1 {
		return fmt.Sprintf("Found 1 result for %q", term)
	}
	return fmt.Sprintf("Found %d results for %q", n, term)
}
