package scene

import (
	"image"
	"testing"

	"github.com/harukaze/producecore/internal/vision"
)

// fakeVision is a scripted vision.Vision test double: tests set which keys
// are "found" rather than feeding it real image data, mirroring how
// dshills-dungo's own pkg/export tests build synthetic fixtures rather than
// exercising real rendering.
type fakeVision struct {
	found   map[string]bool
	allKeys map[string]int // key -> number of matches FindAll should report
}

func newFakeVision() *fakeVision {
	return &fakeVision{found: make(map[string]bool), allKeys: make(map[string]int)}
}

func (f *fakeVision) Find(shot vision.Screenshot, key string, search image.Rectangle, threshold float64, filters ...vision.PixelFilter) vision.MatchResult {
	if f.found[key] {
		return vision.MatchResult{Found: true, Rect: search, Score: 1}
	}
	return vision.MatchResult{}
}

func (f *fakeVision) FindAll(shot vision.Screenshot, key string, search image.Rectangle, threshold float64, filters ...vision.PixelFilter) []vision.MatchResult {
	n := f.allKeys[key]
	out := make([]vision.MatchResult, n)
	for i := range out {
		out[i] = vision.MatchResult{Found: true, Rect: search, Score: 1}
	}
	return out
}

func (f *fakeVision) OCR(shot vision.Screenshot, search image.Rectangle) []vision.TextRun {
	return nil
}

func (f *fakeVision) FindColor(shot vision.Screenshot, search image.Rectangle, c vision.Color, tolerance float64) (image.Point, bool) {
	return image.Point{}, false
}

func (f *fakeVision) Histogram(shot vision.Screenshot, search image.Rectangle, channel vision.Channel, bins int) []int {
	return nil
}

func (f *fakeVision) Descriptor(img image.Image) []float64 {
	return nil
}

var _ vision.Vision = (*fakeVision)(nil)

func newTestRecognizer(v *fakeVision) *Recognizer {
	r := NewRecognizer(v)
	r.Sleep = nil // skip the drink-dialog settle delay in tests
	return r
}

func TestCheckSceneLoadingTakesPriority(t *testing.T) {
	v := newFakeVision()
	v.found[keyLoadingSpinner] = true
	v.found[keyPracticeMarker] = true // would also match layer 6, but layer 1 wins
	r := newTestRecognizer(v)

	got := r.CheckScene(vision.Screenshot{})
	if got.Type != Loading {
		t.Errorf("expected LOADING, got %v", got.Type)
	}
}

func TestCheckSceneActionLikeMarkers(t *testing.T) {
	cases := []struct {
		markerKey string
		want      Type
	}{
		{keyStudyMarker, Study},
		{keyOutingMarker, Outing},
		{keyConsultMarker, Consult},
		{keyAllowanceMarker, Allowance},
	}
	for _, tc := range cases {
		v := newFakeVision()
		v.found[keyReviewCriteriaMarker] = true
		v.found[tc.markerKey] = true
		r := newTestRecognizer(v)

		got := r.CheckScene(vision.Screenshot{})
		if got.Type != tc.want {
			t.Errorf("marker %s: expected %v, got %v", tc.markerKey, tc.want, got.Type)
		}
	}
}

func TestCheckSceneActionSelectFallback(t *testing.T) {
	v := newFakeVision()
	v.found[keyReviewCriteriaMarker] = true
	r := newTestRecognizer(v)

	got := r.CheckScene(vision.Screenshot{})
	if got.Type != ActionSelect {
		t.Errorf("expected ACTION_SELECT fallback, got %v", got.Type)
	}
}

func TestCheckSceneInitialChoiceRequiresExactlyTwoButtons(t *testing.T) {
	v := newFakeVision()
	v.found[keyReviewCriteriaMarker] = true
	v.allKeys[keyInitialChoiceButton] = 2
	r := newTestRecognizer(v)

	got := r.CheckScene(vision.Screenshot{})
	if got.Type != InitialDrinkOrCardSelect {
		t.Errorf("expected INITIAL_DRINK_OR_CARD_SELECT, got %v", got.Type)
	}
	if len(got.Buttons) != 2 {
		t.Errorf("expected 2 buttons, got %d", len(got.Buttons))
	}
}

func TestCheckSceneInitialChoiceWrongButtonCountFallsThrough(t *testing.T) {
	v := newFakeVision()
	v.found[keyReviewCriteriaMarker] = true
	v.allKeys[keyInitialChoiceButton] = 1
	r := newTestRecognizer(v)

	got := r.CheckScene(vision.Screenshot{})
	if got.Type != ActionSelect {
		t.Errorf("expected ACTION_SELECT when button count != 2, got %v", got.Type)
	}
}

func TestCheckSceneBattleLayer(t *testing.T) {
	v := newFakeVision()
	v.found[keyPracticeMarker] = true
	r := newTestRecognizer(v)

	got := r.CheckScene(vision.Screenshot{})
	if got.Type != Practice {
		t.Errorf("expected PRACTICE, got %v", got.Type)
	}
}

func TestCheckSceneUnknownWhenNothingMatches(t *testing.T) {
	v := newFakeVision()
	r := newTestRecognizer(v)

	got := r.CheckScene(vision.Screenshot{})
	if got.Type != Unknown {
		t.Errorf("expected UNKNOWN, got %v", got.Type)
	}
}

func TestCheckInterruptSceneNeverReturnsMainStates(t *testing.T) {
	v := newFakeVision()
	v.found[keyReviewCriteriaMarker] = true
	v.found[keyStudyMarker] = true
	r := newTestRecognizer(v)

	got := r.CheckInterruptScene(vision.Screenshot{})
	if got.Type != Unknown {
		t.Errorf("expected UNKNOWN (interrupt probe skips layers 5-6), got %v", got.Type)
	}
}

func TestTutorialDialogCollapsesToIdle(t *testing.T) {
	v := newFakeVision()
	v.found[keyTutorialAutoConfirm] = true
	r := newTestRecognizer(v)

	got := r.CheckScene(vision.Screenshot{})
	if got.Type != Idle {
		t.Errorf("expected IDLE, got %v", got.Type)
	}
}

func TestSceneIsInterruptAndIsBattle(t *testing.T) {
	if !(Scene{Type: Loading}).IsInterrupt() {
		t.Error("LOADING should be an interrupt scene")
	}
	if (Scene{Type: Idle}).IsInterrupt() {
		t.Error("IDLE should not be an interrupt scene")
	}
	if !(Scene{Type: Practice}).IsBattle() {
		t.Error("PRACTICE should be a battle scene")
	}
	if (Scene{Type: Study}).IsBattle() {
		t.Error("STUDY should not be a battle scene")
	}
}
