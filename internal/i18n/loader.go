package i18n

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Bundle is a serialised set of configuration and translations.
type Bundle struct {
	Config       Config                       `json:"config"`
	Translations map[string]map[string]string `json:"translations"`
}

//go:embed locales/default.json
var defaultBundleData embed.FS

// DefaultBundle loads the built-in notice messages.
func DefaultBundle() (*Bundle, error) {
	data, err := defaultBundleData.ReadFile("locales/default.json")
	if err != nil {
		return nil, fmt.Errorf("i18n: read embedded bundle: %w", err)
	}

	return decodeBundle(bytes.NewReader(data))
}

// Loader reads translation bundles from disk.
type Loader struct {
	path string
}

// NewLoader constructs a loader that reads the provided file path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load parses the configured bundle file.
func (l *Loader) Load(ctx context.Context) (*Bundle, error) {
	if l == nil || l.path == "" {
		return nil, errors.New("i18n: loader path cannot be empty")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("i18n: open bundle %q: %w", l.path, err)
	}
	defer file.Close()

	return decodeBundle(file)
}

func decodeBundle(r io.Reader) (*Bundle, error) {
	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()

	var b Bundle
	if err := decoder.Decode(&b); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	if b.Translations == nil {
		b.Translations = map[string]map[string]string{}
	}

	return &b, nil
}
