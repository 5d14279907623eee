package model

// ConfidenceTier is the discrete trust level assigned to a composed answer.
// Tiers are ordered: low < medium < high < very_high.
type ConfidenceTier int

const (
	TierLow ConfidenceTier = iota
	TierMedium
	TierHigh
	TierVeryHigh
)

func (t ConfidenceTier) String() string {
	switch t {
	case TierVeryHigh:
		return "very_high"
	case TierHigh:
		return "high"
	case TierMedium:
		return "medium"
	default:
		return "low"
	}
}

// Midpoint returns the numeric score associated with a tier when the tier
// was assigned without a direct score (e.g. after a downgrade).
func (t ConfidenceTier) Midpoint() float64 {
	switch t {
	case TierVeryHigh:
		return 0.95
	case TierHigh:
		return 0.75
	case TierMedium:
		return 0.55
	default:
		return 0.35
	}
}

// Intent classifies what kind of answer shape a query expects.
type Intent string

const (
	IntentGreeting   Intent = "greeting"
	IntentArticle    Intent = "article"
	IntentDefinition Intent = "definition"
	IntentTimeLimit  Intent = "time_limit"
	IntentProcedure  Intent = "procedure"
	IntentPenalty    Intent = "penalty"
	IntentWho        Intent = "who"
	IntentScenario   Intent = "scenario"
	IntentGeneral    Intent = "general"
)

// ScenarioAction is the action class detected in a scenario query.
type ScenarioAction string

const (
	ActionNone    ScenarioAction = ""
	ActionBuy     ScenarioAction = "buy"
	ActionSell    ScenarioAction = "sell"
	ActionLease   ScenarioAction = "lease"
	ActionBuild   ScenarioAction = "build"
	ActionInherit ScenarioAction = "inherit"
	ActionPermit  ScenarioAction = "permit"
)

// ScenarioObject is the object category detected in a scenario query.
type ScenarioObject string

const (
	ObjectNone             ScenarioObject = ""
	ObjectAgriculturalLand ScenarioObject = "agricultural_land"
	ObjectResidentialLand  ScenarioObject = "residential_land"
	ObjectLand             ScenarioObject = "land"
	ObjectHousing          ScenarioObject = "housing"
	ObjectUsageRight       ScenarioObject = "usage_right"
	ObjectRealEstate       ScenarioObject = "real_estate"
)

// ScenarioContext holds structured hints extracted from a scenario query.
// It is an immutable value derived once per answer-composition call.
type ScenarioContext struct {
	Action         ScenarioAction
	Object         ScenarioObject
	Conditions     []string
	RequiresPermit bool // Business/profit intent detected
}

// Answer is the caller-facing result of one answered question.
type Answer struct {
	Answer        string   `json:"answer"`
	Sources       []string `json:"sources"`
	Confidence    float64  `json:"confidence,omitempty"`
	IsScenario    bool     `json:"is_scenario"`
	Sentiment     string   `json:"sentiment,omitempty"`
	Urgency       string   `json:"urgency,omitempty"`
	InteractionID string   `json:"interaction_id,omitempty"`
	IsFollowup    bool     `json:"is_followup,omitempty"`
	FromLearning  bool     `json:"from_learning,omitempty"`
}
