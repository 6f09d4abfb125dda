package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/mixster/internal/shared"
)

// ArtistSeparator joins multiple artist names into one display string.
const ArtistSeparator = ", "

// trackURLPrefix is used to derive a code URL when a track only carries a catalog ID.
const trackURLPrefix = "https://open.spotify.com/track/"

// Playlist is the basic metadata of the playlist being exported.
type Playlist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlaylistExport is a playlist with its complete, ordered track listing.
type PlaylistExport struct {
	Playlist Playlist `json:"playlist"`
	Tracks   []Track  `json:"tracks"`
}

// Track is one resolved catalog item printed as a label card and a code card.
type Track struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Artist      string `json:"artist"`       // Display string, see [JoinArtists]
	ReleaseYear int    `json:"release_year"` // Four digit year
	URL         string `json:"url"`          // Source of the scannable code
}

// NewTrack builds a Track from catalog fields.
//
// The artist display string is derived from artists, the year from the first four characters of an ISO release date,
// and the URL from id when url is empty.
func NewTrack(id, title string, artists []string, releaseDate, url string) (Track, error) {
	year, err := ParseReleaseYear(releaseDate)
	if err != nil {
		return Track{}, err
	}

	if url == "" && id != "" {
		url = trackURLPrefix + id
	}

	t := Track{
		ID:          id,
		Title:       title,
		Artist:      JoinArtists(artists),
		ReleaseYear: year,
		URL:         url,
	}
	return t, t.Validate()
}

// JoinArtists joins artist names with [ArtistSeparator], skipping blanks.
func JoinArtists(artists []string) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		if a = strings.TrimSpace(a); a != "" {
			names = append(names, a)
		}
	}
	return strings.Join(names, ArtistSeparator)
}

// ParseReleaseYear extracts the year from a release date such as "1999", "1999-03" or "1999-03-21".
func ParseReleaseYear(date string) (int, error) {
	date = strings.TrimSpace(date)
	if len(date) < 4 {
		return 0, fmt.Errorf("%w: invalid release date %q", shared.ErrInvalidInput, date)
	}
	year, err := strconv.Atoi(date[:4])
	if err != nil || year < 0 {
		return 0, fmt.Errorf("%w: invalid release date %q", shared.ErrInvalidInput, date)
	}
	return year, nil
}

// Year returns the release year formatted for the label.
func (t Track) Year() string {
	return fmt.Sprintf("%04d", t.ReleaseYear)
}

// Validate checks the fields the export pipeline reads.
func (t Track) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("%w: track %q: title is required", shared.ErrInvalidInput, t.ID)
	}
	if strings.TrimSpace(t.URL) == "" {
		return fmt.Errorf("%w: track %q: url is required", shared.ErrInvalidInput, t.ID)
	}
	if t.ReleaseYear < 0 || t.ReleaseYear > 9999 {
		return fmt.Errorf("%w: track %q: release year %d out of range", shared.ErrInvalidInput, t.ID, t.ReleaseYear)
	}
	return nil
}
