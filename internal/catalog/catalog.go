// Package catalog holds the sample payloads offered by the attachment
// pickers. Nothing here touches the network; every item is a fixed URL or
// place.
package catalog

import (
	"strings"

	"github.com/matheus3301/securechat/internal/chatstore"
)

// GIF is a sample animated image tagged with a search category.
type GIF struct {
	URL      string
	Category string
}

// Attachment returns the GIF as a message attachment.
func (g GIF) Attachment() chatstore.Attachment {
	return chatstore.GIFAttachment{URL: g.URL, Category: g.Category}
}

// Place is a location the user can share.
type Place struct {
	Name    string
	Address string
	Current bool // resolves to a fixed GPS fix when sent
}

// CurrentLocation is the fix reported for the "Current Location" entry.
var CurrentLocation = chatstore.LocationAttachment{
	Name:        "Current Location",
	Address:     "New York, NY (40.7128, -74.0060)",
	Coordinates: &chatstore.Coordinates{Lat: 40.7128, Lng: -74.0060},
}

var gifs = []GIF{
	{URL: "https://media.giphy.com/media/l0MYGb1LuZ3n7dRnO/giphy.gif", Category: "thumbs up"},
	{URL: "https://media.giphy.com/media/3oEdv6sy3ulljPMGdy/giphy.gif", Category: "celebration"},
	{URL: "https://media.giphy.com/media/111ebonMs90YLu/giphy.gif", Category: "laugh"},
	{URL: "https://media.giphy.com/media/l4FGHjh3gjqyM3qF2/giphy.gif", Category: "hello"},
	{URL: "https://media.giphy.com/media/3ohzdIuqJoo8QdKlnW/giphy.gif", Category: "bye"},
	{URL: "https://media.giphy.com/media/3o7TKMt1VVNkHV2PaE/giphy.gif", Category: "love"},
	{URL: "https://media.giphy.com/media/l0MYAs5E2oIDCq9So/giphy.gif", Category: "party"},
	{URL: "https://media.giphy.com/media/xT9IgG50Fb7Mi0prBC/giphy.gif", Category: "cool"},
	{URL: "https://media.giphy.com/media/l41lGvinEgARjB2HC/giphy.gif", Category: "excited"},
}

var images = []string{
	"https://images.unsplash.com/photo-1506905925346-21bda4d32df4?w=200&h=200&fit=crop",
	"https://images.unsplash.com/photo-1469474968028-56623f02e42e?w=200&h=200&fit=crop",
	"https://images.unsplash.com/photo-1426604966848-d7adac402bff?w=200&h=200&fit=crop",
	"https://images.unsplash.com/photo-1472214103451-9374bd1c798e?w=200&h=200&fit=crop",
	"https://images.unsplash.com/photo-1507003211169-0a1dd7228f2d?w=200&h=200&fit=crop",
	"https://images.unsplash.com/photo-1494790108377-be9c29b29330?w=200&h=200&fit=crop",
}

var places = []Place{
	{Name: "Current Location", Address: "Use your current GPS location", Current: true},
	{Name: "Home", Address: "123 Main Street, New York, NY 10001"},
	{Name: "Work", Address: "456 Business Ave, New York, NY 10002"},
	{Name: "Central Park", Address: "Central Park, New York, NY"},
	{Name: "Times Square", Address: "Times Square, New York, NY 10036"},
	{Name: "Favorite Coffee Shop", Address: "789 Coffee Lane, New York, NY 10003"},
}

// GIFs returns the sample GIFs whose category contains term, ignoring case.
// An empty term returns all of them.
func GIFs(term string) []GIF {
	q := normalize(term)
	out := make([]GIF, 0, len(gifs))
	for _, g := range gifs {
		if q == "" || strings.Contains(strings.ToLower(g.Category), q) {
			out = append(out, g)
		}
	}
	return out
}

// Images returns the sample image URLs.
func Images() []string {
	return append([]string(nil), images...)
}

// Image wraps an image URL as an attachment.
func Image(url string) chatstore.Attachment {
	return chatstore.ImageAttachment{URL: url}
}

// Locations returns the places whose name or address contains term,
// ignoring case.
func Locations(term string) []Place {
	q := normalize(term)
	out := make([]Place, 0, len(places))
	for _, p := range places {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Address), q) {
			out = append(out, p)
		}
	}
	return out
}

// ResolveLocation turns a picked place into the attachment that is sent.
// Named places carry no coordinates.
func ResolveLocation(p Place) chatstore.LocationAttachment {
	if p.Current {
		loc := CurrentLocation
		coords := *CurrentLocation.Coordinates
		loc.Coordinates = &coords
		return loc
	}
	return chatstore.LocationAttachment{Name: p.Name, Address: p.Address}
}

// FilterContacts returns contacts whose name contains term, ignoring case,
// or whose phone contains it verbatim.
func FilterContacts(contacts []chatstore.Contact, term string) []chatstore.Contact {
	q := normalize(term)
	if q == "" {
		return append([]chatstore.Contact(nil), contacts...)
	}
	raw := strings.TrimSpace(term)
	var out []chatstore.Contact
	for _, c := range contacts {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(c.Phone, raw) {
			out = append(out, c)
		}
	}
	return out
}

// ContactCard wraps a contact as a shareable attachment.
func ContactCard(c chatstore.Contact) chatstore.Attachment {
	return chatstore.ContactAttachment{Name: c.Name, Phone: c.Phone}
}

func normalize(term string) string {
	return strings.ToLower(strings.TrimSpace(term))
}
