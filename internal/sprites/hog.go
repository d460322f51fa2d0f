package sprites

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"image"
	_ "image/png"
	"math"
	"path"
	"strings"

	"github.com/spf13/afero"

	"github.com/harukaze/producecore/internal/vision"
)

// hogEntry is one row of the persisted descriptor cache: a catalogue art
// file's asset id and its precomputed HOG descriptor.
type hogEntry struct {
	AssetID    int
	Descriptor []float64
}

// HOGIndex is the precomputed HOG database of catalogue skill-card art
// (spec.md §4.5.3, §6). It is built once (from the sprite repository's card
// art) and persisted to a gob file on the repository's afero.Fs, one entry
// per art file tagged with the asset id parsed from its file name, so
// subsequent process starts load it instead of recomputing.
type HOGIndex struct {
	fs        afero.Fs
	cachePath string
	entries   []hogEntry
}

// LoadOrBuild loads the descriptor cache at cachePath if present; otherwise
// it computes descriptors for every card art file in repo via v.Descriptor
// and persists the result.
func LoadOrBuild(fs afero.Fs, cachePath string, repo *Repository, v vision.Vision) (*HOGIndex, error) {
	idx := &HOGIndex{fs: fs, cachePath: cachePath}
	if ok, err := afero.Exists(fs, cachePath); err == nil && ok {
		if err := idx.load(); err == nil {
			return idx, nil
		}
	}
	if err := idx.build(repo, v); err != nil {
		return nil, err
	}
	if err := idx.save(); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *HOGIndex) load() error {
	b, err := afero.ReadFile(idx.fs, idx.cachePath)
	if err != nil {
		return err
	}
	dec := gob.NewDecoder(bytes.NewReader(b))
	return dec.Decode(&idx.entries)
}

func (idx *HOGIndex) save() error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(idx.entries); err != nil {
		return fmt.Errorf("sprites: encode HOG cache: %w", err)
	}
	return afero.WriteFile(idx.fs, idx.cachePath, buf.Bytes(), 0o644)
}

func (idx *HOGIndex) build(repo *Repository, v vision.Vision) error {
	files, err := repo.CardArtFiles()
	if err != nil {
		return err
	}
	idx.entries = idx.entries[:0]
	for _, f := range files {
		stem := strings.TrimSuffix(path.Base(f), path.Ext(f))
		assetID, ok := CardArtAssetID(stem)
		if !ok {
			continue
		}
		b, err := afero.ReadFile(idx.fs, f)
		if err != nil {
			return fmt.Errorf("sprites: read card art %q: %w", f, err)
		}
		img, _, err := image.Decode(bytes.NewReader(b))
		if err != nil {
			return fmt.Errorf("sprites: decode card art %q: %w", f, err)
		}
		idx.entries = append(idx.entries, hogEntry{AssetID: assetID, Descriptor: v.Descriptor(img)})
	}
	return nil
}

// Nearest finds the catalogue asset id whose descriptor is closest (squared
// Euclidean distance) to descriptor. Returns ok=false if the index is empty.
func (idx *HOGIndex) Nearest(descriptor []float64) (assetID int, distance float64, ok bool) {
	best := math.Inf(1)
	bestID := 0
	found := false
	for _, e := range idx.entries {
		d := squaredDistance(e.Descriptor, descriptor)
		if !found || d < best {
			best = d
			bestID = e.AssetID
			found = true
		}
	}
	return bestID, best, found
}

func squaredDistance(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
