package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/StratifyWorks/segscope-cli/internal/utils"
	"github.com/google/uuid"
)

const manifestFileName = "run.json"

// Artifact is one file a run produced.
type Artifact struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
}

// Manifest records a single analysis run and every artifact it wrote.
type Manifest struct {
	ID          string     `json:"id"`
	Source      string     `json:"source"`
	GeneratedAt time.Time  `json:"generated_at"`
	Rows        int        `json:"rows"`
	Clusters    int        `json:"clusters"`
	Artifacts   []Artifact `json:"artifacts"`

	// Not serialized: on-disk location of the run.json
	dir string
}

// NewManifest constructs an in-memory manifest. Call Save() to persist.
func NewManifest(dir, source string, rows, clusters int) *Manifest {
	return &Manifest{
		ID:          uuid.NewString(),
		Source:      source,
		GeneratedAt: time.Now(),
		Rows:        rows,
		Clusters:    clusters,
		dir:         dir,
	}
}

// Add records an artifact under a short kind ("xlsx", "chart", "json").
func (m *Manifest) Add(kind, path string) {
	m.Artifacts = append(m.Artifacts, Artifact{Kind: kind, Path: path})
}

// Save writes run.json using atomic write.
func (m *Manifest) Save() error {
	if m.dir == "" {
		return errors.New("manifest directory not set")
	}
	if err := utils.EnsureDir(m.dir); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	data, err := utils.PrettyJSON(m)
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(filepath.Join(m.dir, manifestFileName), data)
}

// LoadManifest loads a run.json from the provided directory.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, manifestFileName)
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("run manifest not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	m.dir = dir
	return &m, nil
}
