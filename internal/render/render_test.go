package render

import (
	"strings"
	"testing"
	"time"

	"github.com/hpungsan/indotrip/internal/trip"
)

func sampleItinerary() *trip.Itinerary {
	note := "recommended route: Bali → Gili"
	return &trip.Itinerary{
		GeneratedAt: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
		Days:        3,
		Summary:     "2 proposals selected, 2 main location(s).",
		Suggestions: []string{"Keep 1 buffer day."},
		Plan: []trip.Day{
			{
				Day: 1, Location: "Bali", ZoneHint: "Uluwatu", Intensity: trip.IntensityLight,
				Items: []trip.Item{{
					ProposalID: "p1", Title: "Surf *lesson*", Category: "Activity",
					Place: "Uluwatu", Note: "bring <sunscreen>", Score: 3,
					Votes: trip.Counts{Like: 1, Maybe: 1},
				}},
			},
			{
				Day: 2, Location: "Gili", ZoneHint: "Gili", Transition: &note, Intensity: trip.IntensityLight,
				Items: []trip.Item{{ProposalID: "p2", Title: "Snorkel", Category: "Activity", Score: 2, Votes: trip.Counts{Like: 1}}},
			},
			{Day: 3, Location: "Gili", ZoneHint: "Buffer / rest", Intensity: trip.IntensityLight, Items: []trip.Item{}},
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", FormatMarkdown, true},
		{"md", FormatMarkdown, true},
		{"Markdown", FormatMarkdown, true},
		{" HTML ", FormatHTML, true},
		{"pdf", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseFormat(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
	if FormatHTML.Extension() != ".html" || FormatMarkdown.Extension() != ".md" {
		t.Error("unexpected extensions")
	}
}

func TestMarkdown(t *testing.T) {
	out := Markdown("Lombok & friends", sampleItinerary())

	for _, want := range []string{
		"# Lombok & friends\n",
		"_3 days, generated 2026-03-01 09:30 UTC_",
		"## Suggestions",
		"- Keep 1 buffer day.",
		"## Day 1: Bali",
		`- **Surf \*lesson\*** (Activity), score 3 (1 like, 1 maybe, 0 no) at Uluwatu`,
		`  bring \<sunscreen\>`,
		"## Day 2: Gili",
		"> recommended route: Bali → Gili",
		"## Day 3: Gili",
		"Zone: Buffer / rest",
		"- Free time",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Markdown() missing %q\n%s", want, out)
		}
	}
	if strings.Index(out, "Day 1") > strings.Index(out, "Day 2") {
		t.Error("days out of order")
	}
}

func TestHTML_EscapesUserContent(t *testing.T) {
	it := sampleItinerary()
	it.Plan[0].Items[0].Title = "<script>alert(1)</script>"

	out, err := Render(FormatHTML, "<b>Trip</b>", it)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	html := string(out)

	if strings.Contains(html, "<script>") || strings.Contains(html, "<b>Trip</b>") {
		t.Errorf("HTML contains unescaped user content:\n%s", html)
	}
	for _, want := range []string{"<!DOCTYPE html>", "<title>&lt;b&gt;Trip&lt;/b&gt;</title>", "<h2>Day 1: Bali</h2>", "<blockquote>"} {
		if !strings.Contains(html, want) {
			t.Errorf("HTML missing %q\n%s", want, html)
		}
	}
}

func TestRender_Markdown(t *testing.T) {
	out, err := Render(FormatMarkdown, "Trip", sampleItinerary())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.HasPrefix(string(out), "# Trip\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
