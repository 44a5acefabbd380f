package catalog

import (
	"testing"

	"github.com/matheus3301/securechat/internal/chatstore"
)

func TestGIFs(t *testing.T) {
	tests := []struct {
		term string
		want int
	}{
		{"", 9},
		{"LAUGH", 1},
		{"  party ", 1},
		{"e", 5},
		{"nothing", 0},
	}
	for _, tt := range tests {
		if got := GIFs(tt.term); len(got) != tt.want {
			t.Errorf("GIFs(%q) = %d items, want %d", tt.term, len(got), tt.want)
		}
	}
}

func TestGIFAttachment(t *testing.T) {
	g := GIFs("love")[0]
	att, ok := g.Attachment().(chatstore.GIFAttachment)
	if !ok {
		t.Fatalf("Attachment() = %T, want GIFAttachment", g.Attachment())
	}
	if att.URL != g.URL || att.Category != "love" {
		t.Errorf("attachment = %+v", att)
	}
}

func TestImagesReturnsCopy(t *testing.T) {
	a := Images()
	if len(a) != 6 {
		t.Fatalf("Images() = %d items, want 6", len(a))
	}
	a[0] = "changed"
	if Images()[0] == "changed" {
		t.Error("Images() exposed the package slice")
	}
	if Image(a[1]).Kind() != chatstore.KindImage {
		t.Error("Image() kind mismatch")
	}
}

func TestLocations(t *testing.T) {
	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"Current Location", "Home", "Work", "Central Park", "Times Square", "Favorite Coffee Shop"}},
		{"coffee", []string{"Favorite Coffee Shop"}},
		{"10036", []string{"Times Square"}},
		{"gps", []string{"Current Location"}},
		{"paris", nil},
	}
	for _, tt := range tests {
		got := Locations(tt.term)
		if len(got) != len(tt.want) {
			t.Errorf("Locations(%q) = %d items, want %d", tt.term, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i].Name != tt.want[i] {
				t.Errorf("Locations(%q)[%d] = %q, want %q", tt.term, i, got[i].Name, tt.want[i])
			}
		}
	}
}

func TestResolveLocation(t *testing.T) {
	cur := ResolveLocation(Place{Name: "Current Location", Current: true})
	if cur.Coordinates == nil || cur.Coordinates.Lat != 40.7128 || cur.Coordinates.Lng != -74.0060 {
		t.Errorf("current location = %+v", cur)
	}
	cur.Coordinates.Lat = 0
	if CurrentLocation.Coordinates.Lat != 40.7128 {
		t.Error("ResolveLocation shared the package coordinates")
	}

	home := ResolveLocation(Locations("home")[0])
	if home.Coordinates != nil || home.Name != "Home" || home.Address == "" {
		t.Errorf("home = %+v", home)
	}
	if home.Label() != "📍 Home" {
		t.Errorf("label = %q", home.Label())
	}
}

func TestFilterContacts(t *testing.T) {
	contacts := []chatstore.Contact{
		{ID: "1", Name: "Alice Johnson", Phone: "+1 234 567 8901"},
		{ID: "2", Name: "Bob Smith", Phone: "+1 345 678 9012"},
		{ID: "3", Name: "Carol White", Phone: "+1 456 789 0123"},
	}
	tests := []struct {
		term string
		want []string
	}{
		{"", []string{"1", "2", "3"}},
		{"ali", []string{"1"}},
		{"SMITH", []string{"2"}},
		{"789", []string{"3"}},
		{"+1 345", []string{"2"}},
		{"zed", nil},
	}
	for _, tt := range tests {
		got := FilterContacts(contacts, tt.term)
		if len(got) != len(tt.want) {
			t.Errorf("FilterContacts(%q) = %d, want %d", tt.term, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i].ID != tt.want[i] {
				t.Errorf("FilterContacts(%q)[%d] = %s, want %s", tt.term, i, got[i].ID, tt.want[i])
			}
		}
	}

	card := ContactCard(contacts[0])
	if card.Label() != "👤 Alice Johnson" {
		t.Errorf("card label = %q", card.Label())
	}
}
