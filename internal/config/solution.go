// Package config defines the produce solution the core is parameterized
// by (spec.md §6) and loads it the way niceyeti-tabular's
// tabular/reinforcement.FromYaml loads its training config: spf13/viper
// reading a YAML file into a struct, with gopkg.in/yaml.v3 available for
// round-tripping defaults and test fixtures.
package config

// ProduceMode selects the difficulty/reward tier of the run.
type ProduceMode string

const (
	ModeRegular ProduceMode = "regular"
	ModePro     ProduceMode = "pro"
	ModeMaster  ProduceMode = "master"
)

// SelfStudyLesson is the subject committed on a self-study screen.
type SelfStudyLesson string

const (
	LessonDance  SelfStudyLesson = "dance"
	LessonVisual SelfStudyLesson = "visual"
	LessonVocal  SelfStudyLesson = "vocal"
)

// RecommendMode is the user-configured recommended-card detection mode.
type RecommendMode string

const (
	RecommendNormal RecommendMode = "normal"
	RecommendStrict RecommendMode = "strict"
)

// ActionKind enumerates the action-select options the action preference
// order is expressed over.
type ActionKind string

const (
	ActionRest      ActionKind = "rest"
	ActionOuting    ActionKind = "outing"
	ActionStudy     ActionKind = "study"
	ActionAllowance ActionKind = "allowance"
	ActionConsult   ActionKind = "consult"
	ActionLessonVocal ActionKind = "lesson_vocal"
	ActionLessonDance ActionKind = "lesson_dance"
	ActionLessonVisual ActionKind = "lesson_visual"
)

// ProduceSolution is the full configuration snapshot the controller copies
// into a Session (spec.md §3, §6).
type ProduceSolution struct {
	IdolSkinID int    `yaml:"idol_skin_id" mapstructure:"idol_skin_id"`
	Mode       ProduceMode `yaml:"mode" mapstructure:"mode"`

	MemorySetIndex  int  `yaml:"memory_set_index" mapstructure:"memory_set_index"`
	MemorySetAuto   bool `yaml:"memory_set_auto" mapstructure:"memory_set_auto"`
	SupportSetIndex int  `yaml:"support_set_index" mapstructure:"support_set_index"`
	SupportSetAuto  bool `yaml:"support_set_auto" mapstructure:"support_set_auto"`

	BoostPt   bool `yaml:"boost_pt" mapstructure:"boost_pt"`
	BoostNote bool `yaml:"boost_note" mapstructure:"boost_note"`

	FollowProducer bool `yaml:"follow_producer" mapstructure:"follow_producer"`

	SelfStudyLesson SelfStudyLesson `yaml:"self_study_lesson" mapstructure:"self_study_lesson"`
	PreferSPLesson  bool            `yaml:"prefer_sp_lesson" mapstructure:"prefer_sp_lesson"`

	ActionPreferenceOrder []ActionKind `yaml:"action_preference_order" mapstructure:"action_preference_order"`

	RecommendMode   RecommendMode `yaml:"recommend_mode" mapstructure:"recommend_mode"`
	AutoUseAPDrink  bool          `yaml:"auto_use_ap_drink" mapstructure:"auto_use_ap_drink"`
	SkipCommu       bool          `yaml:"skip_commu" mapstructure:"skip_commu"`

	// DebugExportDir, if set, makes every battle tick also render an SVG of
	// the detected card slots to this directory (internal/debugexport).
	DebugExportDir string `yaml:"debug_export_dir" mapstructure:"debug_export_dir"`
}

// Default returns a ProduceSolution with conservative, always-safe defaults.
func Default() ProduceSolution {
	return ProduceSolution{
		Mode:            ModeRegular,
		MemorySetAuto:   true,
		SupportSetAuto:  true,
		SelfStudyLesson: LessonVocal,
		RecommendMode:   RecommendNormal,
		ActionPreferenceOrder: []ActionKind{
			ActionLessonVocal, ActionLessonDance, ActionLessonVisual,
			ActionOuting, ActionAllowance, ActionConsult, ActionRest,
		},
	}
}
