// internal/intake/coverage/models.go
package coverage

// LeadTemperature classifies how warm a simulated lead is.
type LeadTemperature string

const (
	TemperatureHot  LeadTemperature = "hot"
	TemperatureWarm LeadTemperature = "warm"
	TemperatureCold LeadTemperature = "cold"
)

// InformationSharing classifies how willingly the simulated customer shares
// intake information.
type InformationSharing string

const (
	SharingCooperative InformationSharing = "cooperative"
	SharingPartial     InformationSharing = "partial"
	SharingResistant   InformationSharing = "resistant"
)

// HandoffReadiness is the per-case verdict on whether enough required intake
// information was collected to justify escalating to a human.
type HandoffReadiness string

const (
	ReadinessPass HandoffReadiness = "pass"
	ReadinessWarn HandoffReadiness = "warn"
	ReadinessFail HandoffReadiness = "fail"
)

// ExecutedTurn is one customer message / assistant response pair from a
// simulated QA conversation.
type ExecutedTurn struct {
	CustomerMessage   string `json:"customerMessage"`
	AssistantResponse string `json:"assistantResponse"`
}

// Case is one simulated QA lab scenario. RequiredFieldsOverride replaces the
// global required-field list when non-nil; an empty non-nil slice declares a
// policy/procedure scenario that requires zero fields.
type Case struct {
	ID                     string             `json:"id"`
	Title                  string             `json:"title"`
	LeadTemperature        LeadTemperature    `json:"leadTemperature"`
	InformationSharing     InformationSharing `json:"informationSharing"`
	RequiredFieldsOverride []string           `json:"requiredFieldsOverride,omitempty"`
	Turns                  []ExecutedTurn     `json:"turns"`
}

// Params is the full input of one analysis call. ChannelContext "whatsapp"
// auto-credits contact-only fields: the channel itself proves the contact
// method.
type Params struct {
	RequiredIntakeFields []string `json:"requiredIntakeFields"`
	Cases                []Case   `json:"cases"`
	ChannelContext       string   `json:"channelContext,omitempty"`
}

// CaseResult is the derived coverage outcome for one case. The input case is
// never mutated.
type CaseResult struct {
	CaseID               string             `json:"caseId"`
	Title                string             `json:"title"`
	LeadTemperature      LeadTemperature    `json:"leadTemperature"`
	InformationSharing   InformationSharing `json:"informationSharing"`
	TotalFields          int                `json:"totalFields"`
	AskedFieldsCount     int                `json:"askedFieldsCount"`
	FulfilledFieldsCount int                `json:"fulfilledFieldsCount"`
	AskedCoverage        float64            `json:"askedCoverage"`
	FulfillmentCoverage  float64            `json:"fulfillmentCoverage"`
	MissingFields        []string           `json:"missingFields"`
	HandoffReadiness     HandoffReadiness   `json:"handoffReadiness"`
}

// Totals aggregates across all cases. The hot+cooperative subset gets its own
// ready-rate because it is the sharpest signal of assistant quality.
type Totals struct {
	Cases                   int     `json:"cases"`
	Pass                    int     `json:"pass"`
	Warn                    int     `json:"warn"`
	Fail                    int     `json:"fail"`
	AvgAskedCoverage        float64 `json:"avgAskedCoverage"`
	AvgFulfillmentCoverage  float64 `json:"avgFulfillmentCoverage"`
	HotCooperativeCases     int     `json:"hotCooperativeCases"`
	HotCooperativeReady     int     `json:"hotCooperativeReady"`
	HotCooperativeReadyRate float64 `json:"hotCooperativeReadyRate"`
}

// MissingFieldCount is one entry of the missing-field frequency tally.
type MissingFieldCount struct {
	Field string `json:"field"`
	Count int    `json:"count"`
}

// Report is the structured coverage report consumed by QA dashboards.
type Report struct {
	RequiredFields   []string            `json:"requiredFields"`
	Totals           Totals              `json:"totals"`
	ByCase           []CaseResult        `json:"byCase"`
	TopMissingFields []MissingFieldCount `json:"topMissingFields"`
}
