package fixture

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/getmockd/mockclient/internal/id"
	"github.com/getmockd/mockclient/pkg/logging"
	"github.com/getmockd/mockclient/pkg/mockclient"
	"github.com/getmockd/mockclient/pkg/util"
)

// Format is a fixture file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// formatOf returns the format for a file name, by extension.
func formatOf(name string) (Format, bool) {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return "", false
}

// extensions lists the file extensions tried for a key, preferred first.
func (f Format) extensions() []string {
	if f == FormatYAML {
		return []string{".yaml", ".yml", ".json"}
	}
	return []string{".json", ".yaml", ".yml"}
}

// Errors returned by the store.
var (
	ErrFixtureNotFound = errors.New("fixture not found")
	ErrInvalidKey      = errors.New("invalid fixture key")
	ErrInvalidFixture  = errors.New("invalid fixture")
	ErrUnknownFormat   = errors.New("unknown fixture format")
)

// RedactValue replaces the value of redacted headers in saved fixtures.
const RedactValue = "[REDACTED]"

// DefaultRedactHeaders are the headers redacted when none are configured.
var DefaultRedactHeaders = []string{
	"Authorization",
	"Cookie",
	"Set-Cookie",
	"X-API-Key",
	"X-Auth-Token",
}

// Store is a directory of fixture files. It is safe for concurrent use.
type Store struct {
	dir    string
	format Format
	redact []string
	logger *slog.Logger

	mu    sync.RWMutex
	cache map[string]*mockclient.Response
}

var _ mockclient.FixtureStore = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithFormat sets the format new fixtures are saved in. Loading accepts
// either format.
func WithFormat(format Format) Option {
	return func(s *Store) {
		s.format = format
	}
}

// WithRedactHeaders replaces the list of headers redacted on save.
func WithRedactHeaders(headers ...string) Option {
	return func(s *Store) {
		s.redact = append([]string(nil), headers...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a store rooted at dir. The directory is created on the
// first save.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:    dir,
		format: FormatJSON,
		redact: DefaultRedactHeaders,
		logger: logging.Nop(),
		cache:  make(map[string]*mockclient.Response),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the store directory.
func (s *Store) Dir() string { return s.dir }

// Format returns the format new fixtures are saved in.
func (s *Store) Format() Format { return s.format }

// cleanKey validates key and returns it in slash form.
func cleanKey(key string) (string, error) {
	cleaned, ok := util.SafeFilePath(key)
	if !ok || cleaned == "." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return cleaned, nil
}

// Path returns the file backing key, or ErrFixtureNotFound.
func (s *Store) Path(key string) (string, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return "", err
	}
	for _, ext := range s.format.extensions() {
		p := filepath.Join(s.dir, filepath.FromSlash(cleaned+ext))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q in %s", ErrFixtureNotFound, cleaned, s.dir)
}

// Fixture returns the response stored under key. Files are read once and
// cached; later calls return copies of the cached response.
func (s *Store) Fixture(key string) (*mockclient.Response, error) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	resp, ok := s.cache[cleaned]
	s.mu.RUnlock()
	if ok {
		return resp.Clone(), nil
	}

	file, err := s.Load(cleaned)
	if err != nil {
		return nil, err
	}
	resp, err = file.Response()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if existing, ok := s.cache[cleaned]; ok {
		resp = existing
	} else {
		s.cache[cleaned] = resp
	}
	s.mu.Unlock()

	s.logger.Debug("loaded fixture", "key", cleaned)
	return resp.Clone(), nil
}

// Load reads and validates the file for key, bypassing the cache.
func (s *Store) Load(key string) (*File, error) {
	p, err := s.Path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %q: %w", key, err)
	}
	format, _ := formatOf(p)
	f, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("fixture %q: %w", key, err)
	}
	return f, nil
}

// Preload loads every fixture whose file matches the doublestar glob pattern,
// relative to the store directory, and returns how many were loaded.
func (s *Store) Preload(pattern string) (int, error) {
	keys, err := s.glob(pattern)
	if err != nil {
		return 0, err
	}
	for _, key := range keys {
		if _, err := s.Fixture(key); err != nil {
			return 0, err
		}
	}
	return len(keys), nil
}

// List returns the keys of all fixtures in the store, sorted.
func (s *Store) List() ([]string, error) {
	return s.glob("**/*")
}

// Match returns the keys of fixtures whose file matches the doublestar glob
// pattern, sorted.
func (s *Store) Match(pattern string) ([]string, error) {
	return s.glob(pattern)
}

func (s *Store) glob(pattern string) ([]string, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("invalid glob pattern %q", pattern)
	}
	if _, err := os.Stat(s.dir); errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	matches, err := doublestar.Glob(os.DirFS(s.dir), pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("failed to glob fixtures: %w", err)
	}

	seen := make(map[string]bool, len(matches))
	var keys []string
	for _, m := range matches {
		if strings.HasPrefix(path.Base(m), ".") {
			continue
		}
		if _, ok := formatOf(m); !ok {
			continue
		}
		key := strings.TrimSuffix(m, path.Ext(m))
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Save writes resp under key in the store format, redacting configured
// headers. The file is replaced atomically and the cache updated.
func (s *Store) Save(key string, resp *mockclient.Response) error {
	cleaned, err := cleanKey(key)
	if err != nil {
		return err
	}
	if resp == nil {
		return fmt.Errorf("%w: nil response for %q", ErrInvalidFixture, cleaned)
	}

	file := FromResponse(resp, s.redact)
	data, err := file.Encode(s.format)
	if err != nil {
		return err
	}

	target := filepath.Join(s.dir, filepath.FromSlash(cleaned+"."+string(s.format)))
	if err := writeFileAtomic(target, data); err != nil {
		return err
	}

	saved, err := file.Response()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.cache[cleaned] = saved
	s.mu.Unlock()

	s.logger.Info("saved fixture", "key", cleaned, "path", target)
	return nil
}

// Forget drops key from the cache so the next Fixture call reads the file.
func (s *Store) Forget(key string) {
	cleaned, err := cleanKey(key)
	if err != nil {
		return
	}
	s.mu.Lock()
	delete(s.cache, cleaned)
	s.mu.Unlock()
}

func writeFileAtomic(target string, data []byte) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create fixture directory: %w", err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(target)+"."+id.Short()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write fixture: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to rename fixture: %w", err)
	}
	return nil
}
