// package formatter reads track lists for export and writes export summaries
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/mixster/internal/models"
	"github.com/desertthunder/mixster/internal/shared"
)

// CSVArtistSeparator separates multiple artists inside the CSV "artists" column.
const CSVArtistSeparator = ";"

// trackRecord is the accepted JSON shape of one track.
//
// Either artist or artists may be given, and either release_year or a release_date whose first four characters are
// the year.
type trackRecord struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Artist      string   `json:"artist"`
	Artists     []string `json:"artists"`
	ReleaseYear int      `json:"release_year"`
	ReleaseDate string   `json:"release_date"`
	URL         string   `json:"url"`
}

func (r trackRecord) track() (models.Track, error) {
	artists := r.Artists
	if len(artists) == 0 && r.Artist != "" {
		artists = []string{r.Artist}
	}

	date := r.ReleaseDate
	if date == "" && r.ReleaseYear > 0 {
		date = fmt.Sprintf("%04d", r.ReleaseYear)
	}
	return models.NewTrack(r.ID, r.Title, artists, date, r.URL)
}

// ReadTracks loads a playlist from a .json or .csv file.
//
// For CSV input and bare JSON arrays the playlist is named after the file.
func ReadTracks(path string) (*models.PlaylistExport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open track list: %w", err)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseJSON(f, name)
	case ".csv":
		return ParseCSV(f, name)
	default:
		return nil, fmt.Errorf("%w: %s (expected .json or .csv)", shared.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// ParseJSON reads either a playlist object {"playlist": {...}, "tracks": [...]} or a bare array of tracks.
func ParseJSON(r io.Reader, name string) (*models.PlaylistExport, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read track list: %w", err)
	}

	var doc struct {
		Playlist models.Playlist `json:"playlist"`
		Tracks   []trackRecord   `json:"tracks"`
	}

	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		err = json.Unmarshal(trimmed, &doc.Tracks)
	} else {
		err = json.Unmarshal(trimmed, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: malformed JSON track list: %v", shared.ErrInvalidInput, err)
	}

	if doc.Playlist.Name == "" {
		doc.Playlist.Name = name
	}

	export := &models.PlaylistExport{Playlist: doc.Playlist, Tracks: make([]models.Track, 0, len(doc.Tracks))}
	for i, rec := range doc.Tracks {
		t, err := rec.track()
		if err != nil {
			return nil, fmt.Errorf("track %d: %w", i+1, err)
		}
		export.Tracks = append(export.Tracks, t)
	}
	return export, nil
}

// ParseCSV reads a header row followed by one track per row.
//
// Recognised columns (case-insensitive, any order): id, title, artist or artists, release_year or release_date, url.
// Multiple names in the artists column are separated by [CSVArtistSeparator].
func ParseCSV(r io.Reader, name string) (*models.PlaylistExport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty CSV track list", shared.ErrInvalidInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", shared.ErrInvalidInput, err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	if _, ok := cols["title"]; !ok {
		return nil, fmt.Errorf("%w: CSV track list needs a title column", shared.ErrInvalidInput)
	}

	field := func(record []string, column string) string {
		if i, ok := cols[column]; ok && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}

	export := &models.PlaylistExport{Playlist: models.Playlist{Name: name}, Tracks: []models.Track{}}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", shared.ErrInvalidInput, line, err)
		}

		rec := trackRecord{
			ID:          field(record, "id"),
			Title:       field(record, "title"),
			Artist:      field(record, "artist"),
			ReleaseDate: field(record, "release_date"),
			URL:         field(record, "url"),
		}
		if artists := field(record, "artists"); artists != "" {
			rec.Artists = strings.Split(artists, CSVArtistSeparator)
		}
		if year := field(record, "release_year"); year != "" && rec.ReleaseDate == "" {
			rec.ReleaseDate = year
		}

		t, err := rec.track()
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		export.Tracks = append(export.Tracks, t)
	}
	return export, nil
}

// ExportToCSV converts a PlaylistExport to CSV format with columns: id, title, artist, release_year, url
func ExportToCSV(export *models.PlaylistExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"id", "title", "artist", "release_year", "url"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, track := range export.Tracks {
		record := []string{track.ID, track.Title, track.Artist, strconv.Itoa(track.ReleaseYear), track.URL}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportToText renders a numbered track listing followed by the page plan.
func ExportToText(export *models.PlaylistExport, style string, pages int) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Playlist: %s\n", export.Playlist.Name)
	fmt.Fprintf(&buf, "Tracks: %d\n", len(export.Tracks))
	fmt.Fprintf(&buf, "Layout: %s (%d pages)\n\n", style, pages)

	for i, track := range export.Tracks {
		fmt.Fprintf(&buf, "%d. %s - %s (%s)\n", i+1, track.Artist, track.Title, track.Year())
	}
	return buf.Bytes()
}

// Summary describes a finished export. It is written next to the PDF as JSON.
type Summary struct {
	JobID      string          `json:"job_id"`
	Playlist   string          `json:"playlist"`
	Style      string          `json:"style"`
	State      models.JobState `json:"state"`
	OutputPath string          `json:"output_path,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	Tracks     int             `json:"tracks"`
	Pages      int             `json:"pages"`
	Duration   string          `json:"duration"`
	FinishedAt time.Time       `json:"finished_at"`
}

// SummaryPath returns the summary file path for a PDF path: "mix.pdf" becomes "mix.json".
func SummaryPath(pdfPath string) string {
	return strings.TrimSuffix(pdfPath, filepath.Ext(pdfPath)) + ".json"
}

// WriteSummary writes s as indented JSON to path.
func WriteSummary(s Summary, path string) error {
	data, err := shared.MarshalJSON(s, true)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create summary directory: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	return nil
}

// WriteProgressJSON writes one progress snapshot as a JSON line to w.
func WriteProgressJSON(w io.Writer, p models.ExportProgress) error {
	data, err := shared.MarshalJSON(p, false)
	if err != nil {
		return fmt.Errorf("failed to encode progress: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write progress: %w", err)
	}
	return nil
}
