package analytics

import (
	"fmt"
	"math"
	"sort"
)

// AttributionModel names one of the credit assignment rules.
type AttributionModel string

const (
	ModelFirstTouch AttributionModel = "first_touch"
	ModelLastTouch  AttributionModel = "last_touch"
	ModelLinear     AttributionModel = "linear"
	ModelTimeDecay  AttributionModel = "time_decay"
)

// ParseAttributionModel validates a model name. An empty name selects time decay.
func ParseAttributionModel(s string) (AttributionModel, error) {
	switch m := AttributionModel(s); m {
	case ModelFirstTouch, ModelLastTouch, ModelLinear, ModelTimeDecay:
		return m, nil
	case "":
		return ModelTimeDecay, nil
	}
	return "", fmt.Errorf("%w: unknown attribution model %q", ErrInvalidConfiguration, s)
}

// Credit returns the credit of the given model.
func (r AttributionResult) Credit(m AttributionModel) ModelCredit {
	switch m {
	case ModelFirstTouch:
		return r.FirstTouch
	case ModelLastTouch:
		return r.LastTouch
	case ModelLinear:
		return r.Linear
	default:
		return r.TimeDecay
	}
}

type creditAcc struct {
	first, last, linear, decay ModelCredit
}

// Attribute assigns conversion credit to campaigns under the four rules. Every
// listed campaign is present in the result, as is any campaign only referenced by
// a touchpoint. Attribution ratios are relative to the number of conversions with
// at least one touchpoint, so multi-touch rules may sum above 1 across campaigns.
func Attribute(campaigns []Campaign, conversions []Conversion) map[string]AttributionResult {
	acc := make(map[string]*creditAcc, len(campaigns))
	get := func(id string) *creditAcc {
		a, ok := acc[id]
		if !ok {
			a = &creditAcc{}
			acc[id] = a
		}
		return a
	}
	for _, c := range campaigns {
		get(c.ID)
	}

	total := 0
	for _, conv := range conversions {
		tps := conv.Touchpoints
		L := len(tps)
		if L == 0 {
			continue
		}
		total++
		value := conv.Value
		if !isFinite(value) {
			value = 0
		}

		// 1. Single touch rules
		first := get(tps[0].CampaignID)
		first.first.Conversions++
		first.first.Revenue += value

		last := get(tps[L-1].CampaignID)
		last.last.Conversions++
		last.last.Revenue += value

		// 2. Multi touch rules
		var weightSum float64
		for i := range tps {
			weightSum += math.Ldexp(1, -(L - 1 - i))
		}
		for i, tp := range tps {
			a := get(tp.CampaignID)
			lin := 1 / float64(L)
			a.linear.Conversions += lin
			a.linear.Revenue += lin * value

			w := math.Ldexp(1, -(L-1-i)) / weightSum
			a.decay.Conversions += w
			a.decay.Revenue += w * value
		}
	}

	finish := func(c ModelCredit) ModelCredit {
		return ModelCredit{
			Conversions: round4(c.Conversions),
			Revenue:     round2(c.Revenue),
			Attribution: round4(ratio(c.Conversions, float64(total))),
		}
	}

	out := make(map[string]AttributionResult, len(acc))
	for id, a := range acc {
		out[id] = AttributionResult{
			CampaignID: id,
			FirstTouch: finish(a.first),
			LastTouch:  finish(a.last),
			Linear:     finish(a.linear),
			TimeDecay:  finish(a.decay),
		}
	}
	return out
}

// RankAttribution orders results by credited revenue under model m, highest first.
func RankAttribution(results map[string]AttributionResult, m AttributionModel) []AttributionResult {
	ranked := make([]AttributionResult, 0, len(results))
	for _, r := range results {
		ranked = append(ranked, r)
	}
	sort.Slice(ranked, func(i, j int) bool {
		ci, cj := ranked[i].Credit(m), ranked[j].Credit(m)
		if ci.Revenue != cj.Revenue {
			return ci.Revenue > cj.Revenue
		}
		return ranked[i].CampaignID < ranked[j].CampaignID
	})
	return ranked
}
