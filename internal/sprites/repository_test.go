package sprites

import (
	"testing"

	"github.com/spf13/afero"
)

func TestTemplatePathJoinsDottedKeyToPNGPath(t *testing.T) {
	repo := NewRepository(afero.NewMemMapFs(), "/assets")
	got := repo.TemplatePath("InPurodyuusu.ButtonProduceStart")
	want := "/assets/InPurodyuusu/ButtonProduceStart.png"
	if got != want {
		t.Errorf("TemplatePath = %q, want %q", got, want)
	}
}

func TestReadTemplateReturnsStoredBytes(t *testing.T) {
	fs := afero.NewMemMapFs()
	repo := NewRepository(fs, "/assets")
	_ = afero.WriteFile(fs, repo.TemplatePath("Foo.Bar"), []byte("pngdata"), 0o644)

	b, err := repo.ReadTemplate("Foo.Bar")
	if err != nil {
		t.Fatalf("ReadTemplate: %v", err)
	}
	if string(b) != "pngdata" {
		t.Errorf("ReadTemplate = %q, want %q", b, "pngdata")
	}
}

func TestReadTemplateMissingFileErrors(t *testing.T) {
	repo := NewRepository(afero.NewMemMapFs(), "/assets")
	if _, err := repo.ReadTemplate("Missing.Key"); err == nil {
		t.Error("expected an error for a missing template")
	}
}

func TestCardArtAssetIDStripsCharacterSuffix(t *testing.T) {
	cases := []struct {
		stem    string
		want    int
		wantOK  bool
	}{
		{"1023_haruka", 1023, true},
		{"2001", 2001, true},
		{"notanumber", 0, false},
		{"_haruka", 0, false},
	}
	for _, tc := range cases {
		got, ok := CardArtAssetID(tc.stem)
		if ok != tc.wantOK || (ok && got != tc.want) {
			t.Errorf("CardArtAssetID(%q) = (%d, %v), want (%d, %v)", tc.stem, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestCardArtFilesListsOnlyFilesUnderCardsDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	repo := NewRepository(fs, "/assets")
	_ = afero.WriteFile(fs, "/assets/cards/1001.png", []byte("a"), 0o644)
	_ = afero.WriteFile(fs, "/assets/cards/1002_haruka.png", []byte("b"), 0o644)
	_ = fs.MkdirAll("/assets/cards/subdir", 0o755)

	files, err := repo.CardArtFiles()
	if err != nil {
		t.Fatalf("CardArtFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d: %v", len(files), files)
	}
}

func TestCardArtFilesMissingDirErrors(t *testing.T) {
	repo := NewRepository(afero.NewMemMapFs(), "/assets")
	if _, err := repo.CardArtFiles(); err == nil {
		t.Error("expected an error when the cards directory doesn't exist")
	}
}
