// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"regexp"
	"sync"
	"testing"

	"github.com/desertthunder/mixster/internal/models"
	"github.com/desertthunder/mixster/internal/typeset"
	"golang.org/x/image/font/gofont/goregular"
)

// SampleTracks returns n valid tracks with predictable titles, artists and URLs.
func SampleTracks(n int) []models.Track {
	tracks := make([]models.Track, n)
	for i := range tracks {
		tracks[i] = models.Track{
			ID:          fmt.Sprintf("track%02d", i+1),
			Title:       fmt.Sprintf("Song %d", i+1),
			Artist:      fmt.Sprintf("Artist %d", i+1),
			ReleaseYear: 1970 + i,
			URL:         fmt.Sprintf("https://open.spotify.com/track/track%02d", i+1),
		}
	}
	return tracks
}

// GoFont parses the Go regular font bundled with x/image.
func GoFont(t *testing.T) *typeset.Font {
	t.Helper()
	f, err := typeset.ParseFont("goregular", goregular.TTF)
	if err != nil {
		t.Fatalf("failed to parse Go font: %v", err)
	}
	return f
}

// WriteGoFont writes the Go regular font to dir and returns its path.
func WriteGoFont(t *testing.T, dir string) string {
	t.Helper()
	path := dir + string(os.PathSeparator) + "goregular.ttf"
	if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
		t.Fatalf("failed to write font: %v", err)
	}
	return path
}

// StubRenderer draws small solid cards and counts calls. It can fail on a given call.
type StubRenderer struct {
	mu     sync.Mutex
	calls  int
	FailAt int // 1-based call number that fails, 0 never fails
	Err    error
}

func (s *StubRenderer) Render(track models.Track) (image.Image, error) {
	return s.draw(track.Title)
}

func (s *StubRenderer) Encode(url string) (image.Image, error) {
	return s.draw(url)
}

// Calls returns how many cards were requested.
func (s *StubRenderer) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *StubRenderer) draw(text string) (image.Image, error) {
	s.mu.Lock()
	s.calls++
	n := s.calls
	s.mu.Unlock()

	if s.FailAt > 0 && n == s.FailAt {
		if s.Err != nil {
			return nil, s.Err
		}
		return nil, fmt.Errorf("cannot draw %q", text)
	}

	img := image.NewGray(image.Rect(0, 0, 8, 8))
	shade := uint8(len(text) * 16)
	for i := range img.Pix {
		img.Pix[i] = shade
	}
	img.SetGray(0, 0, color.Gray{Y: 0})
	return img, nil
}

// StopAfter raises the stop flag once it has been consulted more than N times.
type StopAfter struct {
	mu    sync.Mutex
	N     int
	Err   error // returned from every call when set
	calls int
}

func (s *StopAfter) IsStopRequested(context.Context, string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.Err != nil {
		return false, s.Err
	}
	return s.calls > s.N, nil
}

// Calls returns how many times the signal was consulted.
func (s *StopAfter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// RecordingReporter keeps every snapshot it receives. Err, when set, is returned after recording.
type RecordingReporter struct {
	mu        sync.Mutex
	snapshots []models.ExportProgress
	Err       error
}

func (r *RecordingReporter) Report(_ context.Context, p models.ExportProgress) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, p)
	return r.Err
}

// Snapshots returns a copy of the received snapshots.
func (r *RecordingReporter) Snapshots() []models.ExportProgress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ExportProgress(nil), r.snapshots...)
}

// Last returns the most recent snapshot, or the zero value.
func (r *RecordingReporter) Last() models.ExportProgress {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.snapshots) == 0 {
		return models.ExportProgress{}
	}
	return r.snapshots[len(r.snapshots)-1]
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertNoFile(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Errorf("File should not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

var pdfPage = regexp.MustCompile(`/Type /Page\b`)

// CountPDFPages counts the page objects of an uncompressed PDF page tree.
func CountPDFPages(data string) int {
	return len(pdfPage.FindAllStringIndex(data, -1))
}
