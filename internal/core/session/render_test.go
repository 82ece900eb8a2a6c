package session

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"mockup-finder/internal/fabric"
)

func TestRenderIdle(t *testing.T) {
	if diff := cmp.Diff(View{}, Render(New(Options{}))); diff != "" {
		t.Fatalf("idle view (-want +got):\n%s", diff)
	}
}

func TestRenderLoadingHidesEverything(t *testing.T) {
	s, _ := Apply(New(Options{}), Submit{Term: "ABC"})
	want := View{Header: `Searching for "ABC"…`, Loading: true}
	if diff := cmp.Diff(want, Render(s)); diff != "" {
		t.Fatalf("loading view (-want +got):\n%s", diff)
	}
}

func TestRenderSingleLookupResult(t *testing.T) {
	found := true
	s, _ := Apply(New(Options{Mode: ModeLookup}), Submit{Term: "FAB-101"})
	s, _ = Apply(s, SearchSucceeded{Seq: s.Seq, Records: []fabric.Record{{
		Ref:        "FAB-101",
		SwatchURL:  "/static/images/FAB-101.jpg",
		ExcelFound: &found,
	}}})

	want := View{
		Header: `Found 1 result for "FAB-101"`,
		Cards: []Card{{
			Ref:        "FAB-101",
			SwatchURL:  "/static/images/FAB-101.jpg",
			ExcelFound: &found,
		}},
	}
	if diff := cmp.Diff(want, Render(s)); diff != "" {
		t.Fatalf("lookup view (-want +got):\n%s", diff)
	}
}

func TestRenderErrorKeepsResultsHidden(t *testing.T) {
	s, _ := Apply(New(Options{}), Submit{Term: "ABC"})
	s, _ = Apply(s, SearchFailed{Seq: s.Seq, Err: &fabric.APIError{StatusCode: 500, Message: "database offline"}})
	want := View{Notice: Notice{Kind: NoticeError, Text: "database offline"}}
	if diff := cmp.Diff(want, Render(s)); diff != "" {
		t.Fatalf("error view (-want +got):\n%s", diff)
	}
}
