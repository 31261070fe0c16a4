// internal/intake/coverage/analyzer.go
package coverage

import (
	"sort"
	"strings"

	"leadchat-workers/internal/intake/textmatch"
)

const topMissingFieldsLimit = 12

// readinessThresholds gate the pass/warn verdicts on both coverage ratios.
// A hot, cooperative lead is expected to yield near-complete information, so
// its bar is strict; cold or resistant conversations are expected to yield
// little, so a much lower bar still counts as acceptable readiness.
type readinessThresholds struct {
	passAsked     float64
	passFulfilled float64
	warnAsked     float64
	warnFulfilled float64
}

var (
	strictThresholds  = readinessThresholds{passAsked: 0.75, passFulfilled: 0.6, warnAsked: 0.5, warnFulfilled: 0.35}
	lenientThresholds = readinessThresholds{passAsked: 0.45, passFulfilled: 0.25, warnAsked: 0.25, warnFulfilled: 0.10}
	defaultThresholds = readinessThresholds{passAsked: 0.6, passFulfilled: 0.45, warnAsked: 0.35, warnFulfilled: 0.20}
)

// fieldState tracks one required field through one case. Built fresh per case,
// folded over the turns in order, discarded after the result is produced.
type fieldState struct {
	matcher   textmatch.FieldMatcher
	asked     bool
	fulfilled bool
	refused   bool
	// awaitingResponse is a one-turn lookahead: the assistant just asked about
	// this field, so the next customer turn may be credited as its answer even
	// without keyword overlap.
	awaitingResponse bool
}

// Analyze scores every simulated case against the required intake fields and
// aggregates the results. Pure: identical inputs produce identical reports.
func Analyze(params Params) Report {
	results := make([]CaseResult, 0, len(params.Cases))
	missingCounts := make(map[string]int)
	var missingOrder []string

	for _, c := range params.Cases {
		res := analyzeCase(c, params.RequiredIntakeFields, params.ChannelContext)
		for _, f := range res.MissingFields {
			if _, seen := missingCounts[f]; !seen {
				missingOrder = append(missingOrder, f)
			}
			missingCounts[f]++
		}
		results = append(results, res)
	}

	return Report{
		RequiredFields:   params.RequiredIntakeFields,
		Totals:           aggregate(results),
		ByCase:           results,
		TopMissingFields: topMissing(missingCounts, missingOrder),
	}
}

func analyzeCase(c Case, globalFields []string, channelContext string) CaseResult {
	effectiveFields := globalFields
	if c.RequiredFieldsOverride != nil {
		effectiveFields = c.RequiredFieldsOverride
	}

	states := make([]*fieldState, 0, len(effectiveFields))
	for _, field := range effectiveFields {
		states = append(states, &fieldState{matcher: textmatch.BuildFieldMatcher(field)})
	}

	// The channel already proves a contact method for fields that are about
	// nothing but contact.
	if channelContext == "whatsapp" {
		for _, st := range states {
			if st.matcher.ContactOnly() {
				st.asked = true
				st.fulfilled = true
			}
		}
	}

	for _, turn := range c.Turns {
		scanCustomerTurn(states, turn.CustomerMessage)
		creditPendingAnswer(states, turn.CustomerMessage)
		for _, st := range states {
			st.awaitingResponse = false
		}
		scanAssistantTurn(states, turn.AssistantResponse)
	}

	asked, fulfilled := 0, 0
	var missing []string
	for _, st := range states {
		if st.asked {
			asked++
		}
		if st.fulfilled {
			fulfilled++
		} else {
			missing = append(missing, st.matcher.Label)
		}
	}

	total := len(states)
	// Proactive disclosure: a cooperative customer may volunteer everything
	// before the assistant asks. Backfill so the two ratios don't contradict.
	if asked == 0 && fulfilled > 0 {
		asked = fulfilled
		if asked > total {
			asked = total
		}
	}

	askedCoverage, fulfillmentCoverage := 1.0, 1.0
	if total > 0 {
		askedCoverage = float64(asked) / float64(total)
		fulfillmentCoverage = float64(fulfilled) / float64(total)
	}

	return CaseResult{
		CaseID:               c.ID,
		Title:                c.Title,
		LeadTemperature:      normalizeTemperature(c.LeadTemperature),
		InformationSharing:   normalizeSharing(c.InformationSharing),
		TotalFields:          total,
		AskedFieldsCount:     asked,
		FulfilledFieldsCount: fulfilled,
		AskedCoverage:        askedCoverage,
		FulfillmentCoverage:  fulfillmentCoverage,
		MissingFields:        missing,
		HandoffReadiness:     classifyReadiness(total, askedCoverage, fulfillmentCoverage, c.LeadTemperature, c.InformationSharing),
	}
}

// scanCustomerTurn checks every unfulfilled field against the customer text,
// clause by clause. A deflection marks a field refused only when that field is
// mentioned in the deflecting clause itself; the rest of the message is still
// scanned for volunteered answers ("I won't share my budget, but my email is
// x" refuses budget and fulfills contact). A refusal wins over an answer in
// the same turn, and once refused a field is never fulfilled: declining is
// never fulfillment, no matter what later messages happen to contain.
func scanCustomerTurn(states []*fieldState, customerText string) {
	if customerText == "" {
		return
	}
	clauses := splitClauses(customerText)
	for _, st := range states {
		if st.fulfilled || st.refused {
			continue
		}
		var answered bool
		for _, clause := range clauses {
			if textmatch.HasSoftDeflectionSignal(clause) {
				if st.matcher.MatchesText(clause) {
					st.refused = true
					break
				}
				continue
			}
			if st.matcher.MatchesCustomerAnswer(clause) {
				answered = true
			}
		}
		if answered && !st.refused {
			st.fulfilled = true
		}
	}
}

// clauseBreaker marks clause boundaries: punctuation and adversative
// connectors. Bare periods are not boundaries so emails survive intact.
var clauseBreaker = strings.NewReplacer(
	". ", "\n", ",", "\n", ";", "\n", "!", "\n", "?", "\n",
	" ama ", "\n", " Ama ", "\n", " fakat ", "\n", " Fakat ", "\n",
	" ancak ", "\n", " Ancak ", "\n", " but ", "\n", " But ", "\n",
	" however ", "\n", " though ", "\n",
)

func splitClauses(text string) []string {
	parts := strings.Split(clauseBreaker.Replace(text), "\n")
	clauses := parts[:0]
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			clauses = append(clauses, p)
		}
	}
	return clauses
}

// creditPendingAnswer grants semantic credit: when exactly one field is
// awaiting an answer and the customer gave a substantive reply, that field is
// fulfilled even without keyword overlap.
func creditPendingAnswer(states []*fieldState, customerText string) {
	if customerText == "" || textmatch.HasSoftDeflectionSignal(customerText) {
		return
	}
	if !textmatch.HasLikelyInformativeSemanticReply(customerText) {
		return
	}
	var pending *fieldState
	for _, st := range states {
		if !st.awaitingResponse || st.fulfilled || st.refused {
			continue
		}
		if pending != nil {
			return // more than one pending question: no unambiguous credit
		}
		pending = st
	}
	if pending != nil {
		pending.fulfilled = true
	}
}

// scanAssistantTurn marks fields the assistant actually asked about: keyword
// hit plus question intent, not a bare topic mention.
func scanAssistantTurn(states []*fieldState, assistantText string) {
	if assistantText == "" || !textmatch.HasQuestionIntent(assistantText) {
		return
	}
	for _, st := range states {
		if !st.matcher.MatchesText(assistantText) {
			continue
		}
		st.asked = true
		if !st.fulfilled && !st.refused {
			st.awaitingResponse = true
		}
	}
}

func classifyReadiness(total int, askedCoverage, fulfillmentCoverage float64, temp LeadTemperature, sharing InformationSharing) HandoffReadiness {
	if total == 0 {
		return ReadinessPass
	}

	temp = normalizeTemperature(temp)
	sharing = normalizeSharing(sharing)

	var th readinessThresholds
	switch {
	case temp == TemperatureHot && sharing == SharingCooperative:
		th = strictThresholds
	case temp == TemperatureCold || sharing == SharingResistant:
		th = lenientThresholds
	default:
		th = defaultThresholds
	}

	switch {
	case askedCoverage >= th.passAsked && fulfillmentCoverage >= th.passFulfilled:
		return ReadinessPass
	case askedCoverage >= th.warnAsked && fulfillmentCoverage >= th.warnFulfilled:
		return ReadinessWarn
	default:
		return ReadinessFail
	}
}

func normalizeTemperature(t LeadTemperature) LeadTemperature {
	switch t {
	case TemperatureHot, TemperatureWarm, TemperatureCold:
		return t
	default:
		return TemperatureWarm
	}
}

func normalizeSharing(s InformationSharing) InformationSharing {
	switch s {
	case SharingCooperative, SharingPartial, SharingResistant:
		return s
	default:
		return SharingPartial
	}
}

func aggregate(results []CaseResult) Totals {
	totals := Totals{Cases: len(results)}
	if len(results) == 0 {
		return totals
	}

	var askedSum, fulfilledSum float64
	for _, r := range results {
		switch r.HandoffReadiness {
		case ReadinessPass:
			totals.Pass++
		case ReadinessWarn:
			totals.Warn++
		default:
			totals.Fail++
		}
		askedSum += r.AskedCoverage
		fulfilledSum += r.FulfillmentCoverage

		if r.LeadTemperature == TemperatureHot && r.InformationSharing == SharingCooperative {
			totals.HotCooperativeCases++
			if r.HandoffReadiness == ReadinessPass {
				totals.HotCooperativeReady++
			}
		}
	}

	totals.AvgAskedCoverage = askedSum / float64(len(results))
	totals.AvgFulfillmentCoverage = fulfilledSum / float64(len(results))
	if totals.HotCooperativeCases > 0 {
		totals.HotCooperativeReadyRate = float64(totals.HotCooperativeReady) / float64(totals.HotCooperativeCases)
	}
	return totals
}

// topMissing sorts missing fields by frequency, first-seen order breaking
// ties, capped at the dashboard's display limit.
func topMissing(counts map[string]int, order []string) []MissingFieldCount {
	entries := make([]MissingFieldCount, 0, len(order))
	for _, f := range order {
		entries = append(entries, MissingFieldCount{Field: f, Count: counts[f]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if len(entries) > topMissingFieldsLimit {
		entries = entries[:topMissingFieldsLimit]
	}
	return entries
}
