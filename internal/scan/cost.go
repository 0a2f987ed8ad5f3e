package scan

import "time"

// modelPrice is USD per million tokens, input and output priced
// independently.
type modelPrice struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

var modelPrices = map[string]modelPrice{
	"gemini-2.0-flash":      {InputPerMTok: 0.10, OutputPerMTok: 0.40},
	"gemini-2.0-flash-lite": {InputPerMTok: 0.075, OutputPerMTok: 0.30},
	"gemini-1.5-flash":      {InputPerMTok: 0.075, OutputPerMTok: 0.30},
	"gemini-1.5-pro":        {InputPerMTok: 1.25, OutputPerMTok: 5.00},
}

const (
	// fallbackCallCost substitutes for a call whose usage metadata was
	// missing or whose AI path failed; never assume zero.
	fallbackCallCost = 0.0004
	minimumScanCost  = 0.0005
)

// CostEstimator is the single cost authority: the pre-flight budget check
// and the post-hoc recorded figure both come from here so the two never
// drift apart.
type CostEstimator struct {
	model string
}

func NewCostEstimator(model string) *CostEstimator {
	return &CostEstimator{model: model}
}

// CallCost prices one generative call from reported token usage. Missing
// usage metadata yields the fallback constant.
func (e *CostEstimator) CallCost(usage *TokenUsage) float64 {
	if usage == nil {
		return fallbackCallCost
	}
	price, ok := modelPrices[e.model]
	if !ok {
		return fallbackCallCost
	}
	in := float64(usage.InputTokens) / 1e6 * price.InputPerMTok
	out := float64(usage.OutputTokens) / 1e6 * price.OutputPerMTok
	return in + out
}

// FallbackCost is charged when the AI path failed and the regex extractor
// served the request.
func (e *CostEstimator) FallbackCost() float64 {
	return fallbackCallCost
}

// PreEstimate is the up-front figure used for the budget check, assuming a
// typical prompt/response per requested side.
func (e *CostEstimator) PreEstimate(sides int) float64 {
	perSide := e.CallCost(&TokenUsage{InputTokens: 1200, OutputTokens: 400})
	total := perSide * float64(sides)
	if total < minimumScanCost {
		return minimumScanCost
	}
	return total
}

// FinalCost scales the summed per-side call costs by the operation shape:
// long scans, QR decoding and large field sets all cost more, floored at
// the minimum scan cost.
func (e *CostEstimator) FinalCost(subtotal float64, duration time.Duration, hasQRCode bool, fieldCount int) float64 {
	total := subtotal
	switch {
	case duration > 10*time.Second:
		total *= 1.3
	case duration > 5*time.Second:
		total *= 1.1
	}
	if hasQRCode {
		total *= 1.2
	}
	if fieldCount > 5 {
		total *= 1.1
	}
	if total < minimumScanCost {
		return minimumScanCost
	}
	return total
}
