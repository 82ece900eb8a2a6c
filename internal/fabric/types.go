package fabric

import "strings"

// Category partitions mockups by target garment demographic.
type Category string

const (
	Men   Category = "men"
	Women Category = "women"
	Kids  Category = "kids"
)

// Categories lists every category in display order.
var Categories = []Category{Men, Women, Kids}

// Valid reports whether c is one of the fixed categories.
func (c Category) Valid() bool {
	switch c {
	case Men, Women, Kids:
		return true
	}
	return false
}

// Label is the capitalised display name ("Men", "Women", "Kids").
func (c Category) Label() string {
	s := string(c)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// MockupItem is one rendered garment for a fabric.
type MockupItem struct {
	GarmentName string  `json:"garmentName"`
	MockupURL   string  `json:"mockupUrl"`
	TechpackURL *string `json:"techpackUrl"`
}

// HasTechpack reports whether the item links a tech-pack document.
func (it MockupItem) HasTechpack() bool {
	return it.TechpackURL != nil && strings.TrimSpace(*it.TechpackURL) != ""
}

// Techpack returns the tech-pack URL or "".
func (it MockupItem) Techpack() string {
	if !it.HasTechpack() {
		return ""
	}
	return *it.TechpackURL
}

// MockupsByCategory maps a category to its mockups in display order.
type MockupsByCategory map[Category][]MockupItem

// Items returns the mockups of c (nil when absent).
func (m MockupsByCategory) Items(c Category) []MockupItem { return m[c] }

// Has reports whether c has at least one mockup.
func (m MockupsByCategory) Has(c Category) bool { return len(m[c]) > 0 }

// Any reports whether any category has mockups.
func (m MockupsByCategory) Any() bool {
	for _, c := range Categories {
		if m.Has(c) {
			return true
		}
	}
	return false
}

// Available returns the non-empty categories in display order.
func (m MockupsByCategory) Available() []Category {
	out := make([]Category, 0, len(Categories))
	for _, c := range Categories {
		if m.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Record is one fabric returned by the service.
type Record struct {
	Ref       string            `json:"ref"`
	SwatchURL string            `json:"swatchUrl"`
	Style     string            `json:"style"`
	Mockups   MockupsByCategory `json:"availableMockups"`
	// ExcelFound is only reported by the lookup endpoint.
	ExcelFound *bool `json:"excelFound,omitempty"`
}

// lookupRecord is the shape returned by the exact ref lookup endpoint.
type lookupRecord struct {
	RefNo      string            `json:"refNo"`
	ImageURL   string            `json:"imageUrl"`
	Style      string            `json:"style"`
	ExcelFound bool              `json:"excelFound"`
	Mockups    MockupsByCategory `json:"availableMockups"`
}

func (l lookupRecord) record(requested string) Record {
	ref := strings.TrimSpace(l.RefNo)
	if ref == "" {
		ref = requested
	}
	found := l.ExcelFound
	return Record{
		Ref:        ref,
		SwatchURL:  l.ImageURL,
		Style:      l.Style,
		Mockups:    l.Mockups,
		ExcelFound: &found,
	}
}

// errorBody is the JSON error envelope of the service.
type errorBody struct {
	Error string `json:"error"`
}
