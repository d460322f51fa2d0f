package scene

import (
	"image"

	"github.com/harukaze/producecore/internal/vision"
)

// Prefab keys follow the sprite repository's stable hierarchical naming
// (§6): "<screen>.<element>". These are the handful the recognizer itself
// consults; per-scene Strategy contexts own the rest.
const (
	keyLoadingSpinner = "InPurodyuusu.LoadingSpinner"

	keyPDrinkMaxTitle      = "InPurodyuusu.PDrinkMaxTitle"
	keyPDrinkMaxConfirm    = "InPurodyuusu.PDrinkMaxConfirmButton"
	keyTutorialAutoConfirm = "InPurodyuusu.TutorialConfirmButton"

	keySelectCardTitle  = "InPurodyuusu.SelectCardTitle"
	keySelectPItemTitle = "InPurodyuusu.SelectPItemTitle"
	keySelectDrinkTitle = "InPurodyuusu.SelectDrinkTitle"

	keyEnhanceTitle = "InPurodyuusu.SkillCardEnhanceTitle"
	keyRemovalTitle = "InPurodyuusu.SkillCardRemovalTitle"

	keyReviewCriteriaMarker = "InPurodyuusu.ReviewCriteriaMarker"
	keyStudyMarker          = "InPurodyuusu.StudyMarker"
	keyOutingMarker         = "InPurodyuusu.OutingMarker"
	keyConsultMarker        = "InPurodyuusu.ConsultMarker"
	keyAllowanceMarker      = "InPurodyuusu.AllowanceMarker"
	keyInitialChoiceButton  = "InPurodyuusu.InitialChoiceOrangeButton"

	keyPracticeMarker = "InPurodyuusu.PracticeClearUntilMarker"
	keyExamRankMarker = "InPurodyuusu.ExamRankMarker"

	keyNetworkErrorTitle = "InPurodyuusu.NetworkErrorTitle"
	keyDateChangeTitle   = "InPurodyuusu.DateChangeTitle"
)

var fullFrame = image.Rect(0, 0, vision.LogicalWidth, vision.LogicalHeight)

func prefab(key string, search image.Rectangle, threshold float64) vision.Prefab {
	return vision.Prefab{Key: key, Search: search, Threshold: threshold}
}
