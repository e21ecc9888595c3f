package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Artifact file names inside a variant directory.
const (
	ModelFile          = "priority_model.json"
	IssueEncoderFile   = "issue_encoder.json"
	WeatherEncoderFile = "weather_encoder.json"
)

// ErrArtifactNotFound is returned when loading an artifact that was never written.
var ErrArtifactNotFound = errors.New("artifact not found")

// Store reads and writes model artifacts in a single directory.
type Store struct {
	dir    string
	logger *slog.Logger
}

// New creates a Store rooted at dir.
func New(dir string, logger *slog.Logger) *Store {
	return &Store{dir: dir, logger: logger}
}

// Dir returns the artifact directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the full path of the named artifact.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// Saveable is an interface for objects that can be saved.
type Saveable interface {
	Save(w io.Writer) error
}

// Loadable is an interface for objects that can be loaded.
type Loadable interface {
	Load(r io.Reader) error
}

// Save writes an artifact atomically, replacing any previous version.
func (s *Store) Save(name string, a Saveable) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	filePath := s.Path(name)
	tempPath := filePath + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if err := a.Save(file); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to save %s: %w", name, err)
	}

	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// Atomic rename
	if err := os.Rename(tempPath, filePath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	s.logger.Debug("saved artifact", "path", filePath)
	return nil
}

// Load reads the named artifact into a.
func (s *Store) Load(name string, a Loadable) error {
	filePath := s.Path(name)

	file, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrArtifactNotFound, filePath)
		}
		return fmt.Errorf("failed to open artifact: %w", err)
	}
	defer file.Close()

	if err := a.Load(file); err != nil {
		return fmt.Errorf("failed to load %s: %w", filePath, err)
	}

	s.logger.Debug("loaded artifact", "path", filePath)
	return nil
}

// Exists returns whether the named artifact exists.
func (s *Store) Exists(name string) bool {
	_, err := os.Stat(s.Path(name))
	return err == nil
}

// ArtifactInfo describes a persisted artifact.
type ArtifactInfo struct {
	Name      string    `json:"name"`
	Exists    bool      `json:"exists"`
	Path      string    `json:"path"`
	Size      int64     `json:"size,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Info returns information about the named artifact.
func (s *Store) Info(name string) ArtifactInfo {
	info := ArtifactInfo{
		Name: name,
		Path: s.Path(name),
	}

	stat, err := os.Stat(info.Path)
	if err != nil {
		return info
	}

	info.Exists = true
	info.Size = stat.Size()
	info.UpdatedAt = stat.ModTime()
	return info
}
