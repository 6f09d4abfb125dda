package models

import (
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/mixster/internal/shared"
)

func TestNewTrack(t *testing.T) {
	tt := []struct {
		name       string
		id         string
		title      string
		artists    []string
		date       string
		url        string
		wantArtist string
		wantYear   int
		wantURL    string
		wantErr    bool
	}{
		{
			name:       "joins multiple artists",
			id:         "abc",
			title:      "Song",
			artists:    []string{"First", " Second ", ""},
			date:       "1999-03-21",
			url:        "https://example.com/t/abc",
			wantArtist: "First, Second",
			wantYear:   1999,
			wantURL:    "https://example.com/t/abc",
		},
		{
			name:       "derives url from id",
			id:         "4uLU6hMCjMI75M1A2tKUQC",
			title:      "Song",
			artists:    []string{"Solo"},
			date:       "1987",
			wantArtist: "Solo",
			wantYear:   1987,
			wantURL:    "https://open.spotify.com/track/4uLU6hMCjMI75M1A2tKUQC",
		},
		{
			name:    "invalid date",
			id:      "x",
			title:   "Song",
			date:    "87",
			wantErr: true,
		},
		{
			name:    "missing title",
			id:      "x",
			date:    "2001-01-01",
			wantErr: true,
		},
		{
			name:    "missing url and id",
			title:   "Song",
			date:    "2001-01-01",
			wantErr: true,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			track, err := NewTrack(tc.id, tc.title, tc.artists, tc.date, tc.url)
			if tc.wantErr {
				if !errors.Is(err, shared.ErrInvalidInput) {
					t.Fatalf("expected ErrInvalidInput, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if track.Artist != tc.wantArtist {
				t.Errorf("Artist = %q, want %q", track.Artist, tc.wantArtist)
			}
			if track.ReleaseYear != tc.wantYear {
				t.Errorf("ReleaseYear = %d, want %d", track.ReleaseYear, tc.wantYear)
			}
			if track.URL != tc.wantURL {
				t.Errorf("URL = %q, want %q", track.URL, tc.wantURL)
			}
		})
	}
}

func TestTrackYear(t *testing.T) {
	if got := (Track{ReleaseYear: 987}).Year(); got != "0987" {
		t.Errorf("Year() = %q, want 0987", got)
	}
}

func TestJobState(t *testing.T) {
	terminal := map[JobState]bool{
		JobPending:   false,
		JobRunning:   false,
		JobCompleted: true,
		JobCancelled: true,
		JobFailed:    true,
	}
	for state, want := range terminal {
		if got := state.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", state, got, want)
		}
		if !state.Valid() {
			t.Errorf("%s should be valid", state)
		}
	}
	if JobState("paused").Valid() {
		t.Error("unknown state should be invalid")
	}
}

func TestExportProgress(t *testing.T) {
	p := ExportProgress{PagesDone: 3, PagesTotal: 8, ETA: 3723*time.Second + 400*time.Millisecond}

	if got := p.PagesLabel(); got != "(3/8)" {
		t.Errorf("PagesLabel() = %q", got)
	}
	if got := p.ETAString(); got != "1:02:03" {
		t.Errorf("ETAString() = %q, want 1:02:03", got)
	}
	if got := FormatClock(-time.Second); got != "0:00:00" {
		t.Errorf("FormatClock(negative) = %q", got)
	}
}

func TestExportJob(t *testing.T) {
	t.Run("new job is pending", func(t *testing.T) {
		job := NewExportJob("id-1", "Mix", "default", "/tmp/mix.pdf", 3)
		if job.State() != JobPending {
			t.Errorf("expected pending, got %s", job.State())
		}
		if err := job.Validate(); err != nil {
			t.Errorf("unexpected validation error: %v", err)
		}
	})

	t.Run("SetProgress adopts state", func(t *testing.T) {
		job := NewExportJob("id-1", "Mix", "default", "/tmp/mix.pdf", 3)
		job.SetProgress(ExportProgress{State: JobRunning, PagesDone: 1, PagesTotal: 2})
		if job.State() != JobRunning {
			t.Errorf("expected running, got %s", job.State())
		}
		if job.Progress().PagesDone != 1 {
			t.Errorf("expected progress to be stored")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		tt := []struct {
			name string
			job  *ExportJob
		}{
			{name: "missing id", job: NewExportJob("", "Mix", "default", "/tmp/a.pdf", 0)},
			{name: "missing style", job: NewExportJob("id", "Mix", "", "/tmp/a.pdf", 0)},
			{name: "missing output", job: NewExportJob("id", "Mix", "default", "", 0)},
		}
		for _, tc := range tt {
			t.Run(tc.name, func(t *testing.T) {
				if err := tc.job.Validate(); !errors.Is(err, shared.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
			})
		}
	})
}
