package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jengzang/heatgrid-backend-go/internal/models"
)

// ErrNotFound is returned when no dataset exists for a period
var ErrNotFound = errors.New("dataset not found")

// Source fetches the raw dataset of a period
type Source interface {
	Fetch(ctx context.Context, period models.Period) (io.ReadCloser, error)
}

// FileSource reads data_<MM>_<YYYY>.<ext> files from a directory
type FileSource struct {
	fsys fs.FS
	ext  string
}

// NewFileSource creates a source rooted at dir
func NewFileSource(dir, ext string) *FileSource {
	return NewFSSource(os.DirFS(dir), ext)
}

// NewFSSource creates a source over any file system
func NewFSSource(fsys fs.FS, ext string) *FileSource {
	if ext == "" {
		ext = "csv"
	}
	return &FileSource{fsys: fsys, ext: ext}
}

// Fetch opens the dataset file of the period
func (s *FileSource) Fetch(ctx context.Context, period models.Period) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	name := FileName(period, s.ext)
	f, err := s.fsys.Open(name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", name, err)
	}
	return f, nil
}

// HTTPSource fetches dataset files from the static data directory of the site
type HTTPSource struct {
	baseURL string
	ext     string
	client  *http.Client
}

// NewHTTPSource creates a source that GETs <baseURL>/data_<MM>_<YYYY>.<ext>
func NewHTTPSource(baseURL, ext string, client *http.Client) *HTTPSource {
	if ext == "" {
		ext = "csv"
	}
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		ext:     ext,
		client:  client,
	}
}

// Fetch requests the dataset of the period
func (s *HTTPSource) Fetch(ctx context.Context, period models.Period) (io.ReadCloser, error) {
	url := s.baseURL + "/" + FileName(period, s.ext)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %s: status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
