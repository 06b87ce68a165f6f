package knowledge

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/buddy/internal/extractor"
)

//go:embed library/*.json library/*.yaml
var embedded embed.FS

var errEmptyList = errors.New("record list is empty")

// Library is a swappable, concurrency-safe set of entries.
type Library struct {
	mu      sync.RWMutex
	entries []Entry
}

// NewLibrary wraps entries in the order given.
func NewLibrary(entries []Entry) *Library {
	return &Library{entries: entries}
}

// Default returns the library compiled into the binary.
func Default(logger *slog.Logger) (*Library, error) {
	sub, err := fs.Sub(embedded, "library")
	if err != nil {
		return nil, fmt.Errorf("embedded library: %w", err)
	}
	entries, err := LoadFS(sub, logger)
	if err != nil {
		return nil, err
	}
	return NewLibrary(entries), nil
}

// Load reads every record file in dir.
func Load(dir string, logger *slog.Logger) ([]Entry, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("behavior library: %w", err)
	}
	return LoadFS(os.DirFS(dir), logger)
}

// LoadFS reads every .json, .yaml and .yml file at the root of fsys. A file
// holding a list contributes its first record. Files that cannot be parsed are
// skipped with a warning. Entries are ordered by identifier.
func LoadFS(fsys fs.FS, logger *slog.Logger) ([]Entry, error) {
	dirEntries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read behavior library: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		ext := strings.ToLower(path.Ext(name))

		var unmarshal func([]byte, any) error
		switch ext {
		case ".json":
			unmarshal = json.Unmarshal
		case ".yaml", ".yml":
			unmarshal = yaml.Unmarshal
		default:
			continue
		}

		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			logger.Warn("skipping unreadable knowledge file", "file", name, "error", err)
			continue
		}
		rec, err := decodeRecord(data, unmarshal)
		if err != nil {
			logger.Warn("skipping unparseable knowledge file", "file", name, "error", err)
			continue
		}

		entries = append(entries, Entry{ID: strings.TrimSuffix(name, path.Ext(name)), Record: rec})
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

func decodeRecord(data []byte, unmarshal func([]byte, any) error) (Record, error) {
	var list []Record
	if err := unmarshal(data, &list); err == nil {
		if len(list) == 0 {
			return Record{}, errEmptyList
		}
		return list[0], nil
	}

	var rec Record
	if err := unmarshal(data, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Entries returns a snapshot of the current entries.
func (l *Library) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Replace swaps in a new set of entries.
func (l *Library) Replace(entries []Entry) {
	l.mu.Lock()
	l.entries = entries
	l.mu.Unlock()
}

func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Scenarios lists the display names of every entry, sorted.
func (l *Library) Scenarios() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, 0, len(l.entries))
	for _, e := range l.entries {
		out = append(out, ScenarioName(e.ID))
	}
	sort.Strings(out)
	return out
}

// Match runs Match against the current entries.
func (l *Library) Match(query string) (Record, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Match(query, l.entries)
}

// FindRelevant matches a message enriched with its signals.
func (l *Library) FindRelevant(message string, s extractor.Signals) (Record, bool) {
	return l.Match(Query(message, s))
}
