package officials

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"citizenhub/pkg/models"
)

//go:embed snapshots/*.json
var embedded embed.FS

// EmbeddedSnapshots returns the payloads compiled into the binary, rooted so
// that "San Francisco CA.json" is a top-level name.
func EmbeddedSnapshots() fs.FS {
	sub, err := fs.Sub(embedded, "snapshots")
	if err != nil {
		panic(err)
	}
	return sub
}

// BundleSource serves legislators from saved upstream payloads, one JSON file
// per city. A city with no file has no legislators; that is not an error.
// A file that exists but does not decode is reported as ErrMalformedPayload
// rather than read as an empty city.
type BundleSource struct {
	FS        fs.FS
	Overrides Overrides
}

// NewBundleSource reads snapshots from dir, or from the embedded set when dir
// is empty.
func NewBundleSource(dir string, overrides Overrides) *BundleSource {
	if overrides == nil {
		overrides = DefaultOverrides()
	}
	fsys := EmbeddedSnapshots()
	if dir != "" {
		fsys = os.DirFS(dir)
	}
	return &BundleSource{FS: fsys, Overrides: overrides}
}

func (s *BundleSource) Name() string { return "bundle" }

// SnapshotKey turns a city such as "San Francisco, CA" into the file name
// used for its snapshot.
func SnapshotKey(city string) string {
	return strings.ReplaceAll(city, ",", "") + ".json"
}

func (s *BundleSource) Legislators(_ context.Context, city string) ([]models.Legislator, error) {
	name := SnapshotKey(city)
	if !fs.ValidPath(name) || strings.Contains(name, "/") {
		return []models.Legislator{}, nil
	}
	data, err := fs.ReadFile(s.FS, name)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Legislator{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("bundle: read %s: %w", name, err)
	}
	out, err := decodeAndMap(data, s.Overrides)
	if err != nil {
		return nil, fmt.Errorf("bundle: %s: %w", name, err)
	}
	return out, nil
}

// Cities lists the snapshot keys available, without the .json suffix.
func (s *BundleSource) Cities() ([]string, error) {
	matches, err := fs.Glob(s.FS, "*.json")
	if err != nil {
		return nil, fmt.Errorf("bundle: list: %w", err)
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSuffix(m, ".json"))
	}
	return out, nil
}
