// Package sprites is the sprite/template repository: a directory of PNG
// templates named by a stable hierarchical key, plus per-skill-card art
// indexed by asset id, and the persisted HOG descriptor cache whose entries
// carry the asset id parsed from each art file's name (spec.md §6). It is modeled as an afero.Fs rather than bare os
// calls so the same code path backs both the on-disk runtime repository
// (afero.OsFs) and an in-memory fixture (afero.MemMapFs) in tests.
package sprites

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// Repository is a read-only view over a sprite directory.
type Repository struct {
	fs   afero.Fs
	root string
}

// NewRepository wraps fs rooted at root.
func NewRepository(fs afero.Fs, root string) *Repository {
	return &Repository{fs: fs, root: root}
}

// TemplatePath resolves a stable hierarchical key (e.g.
// "InPurodyuusu.ButtonProduceStart") to its file path under root.
func (r *Repository) TemplatePath(key string) string {
	return path.Join(r.root, strings.ReplaceAll(key, ".", string('/'))+".png")
}

// ReadTemplate reads the raw PNG bytes for key.
func (r *Repository) ReadTemplate(key string) ([]byte, error) {
	p := r.TemplatePath(key)
	b, err := afero.ReadFile(r.fs, p)
	if err != nil {
		return nil, fmt.Errorf("sprites: read template %q: %w", key, err)
	}
	return b, nil
}

// cardArtName matches catalogue art filenames: an asset id, optionally
// followed by an underscore-separated character suffix (e.g.
// "1023_haruka.png"), grounding the "character-specific variants are tried
// by stripping a known character suffix" rule in spec.md §4.5.3.
var cardArtName = regexp.MustCompile(`^(\d+)(?:_[a-zA-Z0-9]+)?$`)

// CardArtAssetID parses the asset id out of a card-art filename stem,
// ignoring any character suffix.
func CardArtAssetID(stem string) (int, bool) {
	m := cardArtName.FindStringSubmatch(stem)
	if m == nil {
		return 0, false
	}
	id, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// CardArtFiles lists every catalogue art file under "<root>/cards".
func (r *Repository) CardArtFiles() ([]string, error) {
	dir := path.Join(r.root, "cards")
	entries, err := afero.ReadDir(r.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("sprites: list card art: %w", err)
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			out = append(out, path.Join(dir, e.Name()))
		}
	}
	return out, nil
}
