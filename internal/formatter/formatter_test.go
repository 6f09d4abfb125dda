package formatter

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/mixster/internal/models"
	"github.com/desertthunder/mixster/internal/shared"
	th "github.com/desertthunder/mixster/internal/testing"
)

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		wantName   string
		wantTracks []models.Track
		wantErr    error
	}{
		{
			name: "playlist object",
			input: `{
				"playlist": {"id": "pl1", "name": "Party"},
				"tracks": [
					{"id": "t1", "title": "Dancing Queen", "artists": ["ABBA"], "release_date": "1976-08-16"},
					{"id": "t2", "title": "Hey Ya!", "artist": "Outkast", "release_year": 2003, "url": "https://example.com/heyya"}
				]
			}`,
			wantName: "Party",
			wantTracks: []models.Track{
				{ID: "t1", Title: "Dancing Queen", Artist: "ABBA", ReleaseYear: 1976, URL: "https://open.spotify.com/track/t1"},
				{ID: "t2", Title: "Hey Ya!", Artist: "Outkast", ReleaseYear: 2003, URL: "https://example.com/heyya"},
			},
		},
		{
			name:     "bare array",
			input:    `[{"id": "t1", "title": "Under Pressure", "artists": ["Queen", "David Bowie"], "release_date": "1981"}]`,
			wantName: "fallback",
			wantTracks: []models.Track{
				{ID: "t1", Title: "Under Pressure", Artist: "Queen, David Bowie", ReleaseYear: 1981, URL: "https://open.spotify.com/track/t1"},
			},
		},
		{
			name:       "empty array",
			input:      `[]`,
			wantName:   "fallback",
			wantTracks: []models.Track{},
		},
		{
			name:    "malformed",
			input:   `{"tracks": [`,
			wantErr: shared.ErrInvalidInput,
		},
		{
			name:    "missing year",
			input:   `[{"id": "t1", "title": "Song"}]`,
			wantErr: shared.ErrInvalidInput,
		},
		{
			name:    "missing title",
			input:   `[{"id": "t1", "release_year": 1999}]`,
			wantErr: shared.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			export, err := ParseJSON(strings.NewReader(tt.input), "fallback")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseJSON() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseJSON() error = %v", err)
			}
			if export.Playlist.Name != tt.wantName {
				t.Errorf("playlist name = %q, want %q", export.Playlist.Name, tt.wantName)
			}
			if len(export.Tracks) != len(tt.wantTracks) {
				t.Fatalf("got %d tracks, want %d", len(export.Tracks), len(tt.wantTracks))
			}
			for i, want := range tt.wantTracks {
				if export.Tracks[i] != want {
					t.Errorf("track %d = %+v, want %+v", i, export.Tracks[i], want)
				}
			}
		})
	}
}

func TestParseCSV(t *testing.T) {
	t.Run("columns in any order", func(t *testing.T) {
		input := "URL,Title,Artists,Release_Date,ID\n" +
			"https://example.com/1,Dancing Queen,ABBA,1976-08-16,t1\n" +
			",\"Under Pressure\",Queen;David Bowie,1981,t2\n"

		export, err := ParseCSV(strings.NewReader(input), "mix")
		if err != nil {
			t.Fatalf("ParseCSV() error = %v", err)
		}
		if export.Playlist.Name != "mix" {
			t.Errorf("playlist name = %q, want mix", export.Playlist.Name)
		}
		if len(export.Tracks) != 2 {
			t.Fatalf("got %d tracks, want 2", len(export.Tracks))
		}
		if export.Tracks[0].URL != "https://example.com/1" {
			t.Errorf("url = %q", export.Tracks[0].URL)
		}
		if export.Tracks[1].Artist != "Queen, David Bowie" {
			t.Errorf("artist = %q, want joined artists", export.Tracks[1].Artist)
		}
		if export.Tracks[1].URL != "https://open.spotify.com/track/t2" {
			t.Errorf("expected derived url, got %q", export.Tracks[1].URL)
		}
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name  string
			input string
		}{
			{name: "empty", input: ""},
			{name: "no title column", input: "id,artist\nt1,ABBA\n"},
			{name: "bad year", input: "id,title,release_year\nt1,Song,19x9\n"},
			{name: "ragged row", input: "id,title,release_year\nt1,Song\n"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := ParseCSV(strings.NewReader(tt.input), "mix")
				if !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("ParseCSV() error = %v, want ErrInvalidInput", err)
				}
			})
		}
	})

	t.Run("reads what ExportToCSV writes", func(t *testing.T) {
		want := &models.PlaylistExport{Tracks: th.SampleTracks(3)}
		want.Tracks[1].Artist = "Queen, David Bowie"
		want.Tracks[2].Title = `Say "Hello", Wave Goodbye`

		data, err := ExportToCSV(want)
		if err != nil {
			t.Fatalf("ExportToCSV() error = %v", err)
		}
		got, err := ParseCSV(bytes.NewReader(data), "mix")
		if err != nil {
			t.Fatalf("ParseCSV() error = %v", err)
		}
		for i := range want.Tracks {
			if got.Tracks[i] != want.Tracks[i] {
				t.Errorf("track %d = %+v, want %+v", i, got.Tracks[i], want.Tracks[i])
			}
		}
	})
}

func TestReadTracks(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "road-trip.json")
	if err := os.WriteFile(jsonPath, []byte(`[{"id":"t1","title":"Song","artist":"A","release_year":1999}]`), 0644); err != nil {
		t.Fatal(err)
	}
	csvPath := filepath.Join(dir, "Road Trip.CSV")
	if err := os.WriteFile(csvPath, []byte("id,title,artist,release_year\nt1,Song,A,1999\n"), 0644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{jsonPath, csvPath} {
		export, err := ReadTracks(path)
		if err != nil {
			t.Fatalf("ReadTracks(%s) error = %v", path, err)
		}
		if len(export.Tracks) != 1 || export.Tracks[0].ReleaseYear != 1999 {
			t.Errorf("ReadTracks(%s) = %+v", path, export.Tracks)
		}
	}

	if export, _ := ReadTracks(csvPath); export.Playlist.Name != "Road Trip" {
		t.Errorf("expected playlist named after the file, got %q", export.Playlist.Name)
	}

	if _, err := ReadTracks(filepath.Join(dir, "tracks.xml")); err == nil {
		t.Error("expected error for missing file")
	}

	xmlPath := filepath.Join(dir, "tracks.xml")
	if err := os.WriteFile(xmlPath, []byte("<tracks/>"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadTracks(xmlPath); !errors.Is(err, shared.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestExportToText(t *testing.T) {
	export := &models.PlaylistExport{
		Playlist: models.Playlist{Name: "Party"},
		Tracks:   []models.Track{{Title: "Dancing Queen", Artist: "ABBA", ReleaseYear: 1976}},
	}

	output := string(ExportToText(export, "default", 2))
	for _, want := range []string{"Playlist: Party", "Tracks: 1", "Layout: default (2 pages)", "1. ABBA - Dancing Queen (1976)"} {
		if !strings.Contains(output, want) {
			t.Errorf("text output missing %q:\n%s", want, output)
		}
	}
}

func TestSummary(t *testing.T) {
	t.Run("SummaryPath", func(t *testing.T) {
		tests := map[string]string{
			"out/mix.pdf": "out/mix.json",
			"mix":         "mix.json",
			"a.b/mix.PDF": "a.b/mix.json",
		}
		for in, want := range tests {
			if got := SummaryPath(in); got != want {
				t.Errorf("SummaryPath(%q) = %q, want %q", in, got, want)
			}
		}
	})

	t.Run("WriteSummary", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "mix.json")
		s := Summary{
			JobID:      "job-1",
			Playlist:   "Party",
			Style:      "default",
			State:      models.JobCompleted,
			OutputPath: "mix.pdf",
			Tracks:     13,
			Pages:      4,
			Duration:   "0:00:03",
			FinishedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		}
		if err := WriteSummary(s, path); err != nil {
			t.Fatalf("WriteSummary() error = %v", err)
		}

		var got Summary
		if err := json.Unmarshal([]byte(th.MustReadFile(t, path)), &got); err != nil {
			t.Fatalf("summary is not valid JSON: %v", err)
		}
		if got != s {
			t.Errorf("summary = %+v, want %+v", got, s)
		}
	})

	t.Run("WriteSummary into a file path", func(t *testing.T) {
		blocker := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(blocker, nil, 0644); err != nil {
			t.Fatal(err)
		}
		if err := WriteSummary(Summary{}, filepath.Join(blocker, "s.json")); err == nil {
			t.Error("expected error")
		}
	})
}

func TestWriteProgressJSON(t *testing.T) {
	var buf bytes.Buffer
	p := models.ExportProgress{JobID: "job-1", State: models.JobRunning, PagesDone: 1, PagesTotal: 4, FractionComplete: 25}
	if err := WriteProgressJSON(&buf, p); err != nil {
		t.Fatalf("WriteProgressJSON() error = %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\n") || strings.Count(buf.String(), "\n") != 1 {
		t.Errorf("expected a single JSON line, got %q", buf.String())
	}

	var got models.ExportProgress
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got != p {
		t.Errorf("progress = %+v, want %+v", got, p)
	}

	if err := WriteProgressJSON(&th.FWriter{}, p); err == nil {
		t.Error("expected write error")
	}
}
