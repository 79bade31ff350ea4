package loader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nathoo/escaperoom/engine/state"
)

// maxDocumentSize caps a fetched content document.
const maxDocumentSize = 4 << 20

// ContentLoadError reports that content could not be loaded. It is fatal to
// the session: nothing can be played without rooms.
type ContentLoadError struct {
	Source string
	Err    error
}

func (e *ContentLoadError) Error() string {
	return fmt.Sprintf("loading content from %s: %v", e.Source, e.Err)
}

func (e *ContentLoadError) Unwrap() error { return e.Err }

// Load reads content from source, compiles it and validates it. source is an
// http(s) URL or a .json file holding a content document, or a directory (or
// single file) of .lua scripts. There is no retry.
func Load(ctx context.Context, source string, logger *slog.Logger) (*state.Defs, error) {
	if logger == nil {
		logger = slog.Default()
	}

	doc, err := read(ctx, source)
	if err != nil {
		return nil, &ContentLoadError{Source: source, Err: err}
	}

	defs, warnings := compile(doc, source)
	ve := validate(defs)
	ve.Warnings = append(warnings, ve.Warnings...)
	for _, w := range ve.Warnings {
		logger.Warn("content warning", "source", source, "warning", w)
	}
	if len(ve.Errors) > 0 {
		return nil, &ContentLoadError{Source: source, Err: ve}
	}

	logger.Info("content loaded", "source", source, "rooms", len(defs.Rooms), "warnings", len(ve.Warnings))
	return defs, nil
}

func read(ctx context.Context, source string) (*rawDoc, error) {
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		data, err := fetch(ctx, source)
		if err != nil {
			return nil, err
		}
		return parseDocument(data)
	case strings.EqualFold(filepath.Ext(source), ".json"):
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, err
		}
		return parseDocument(data)
	default:
		return loadLua(source)
	}
}

func parseDocument(data []byte) (*rawDoc, error) {
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parsing content document: %w", err)
	}
	return doc, nil
}

// fetch performs a single GET.
func fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
}
