package entity

// Verdict is the client-facing outcome of one analysis.
type Verdict struct {
	IsDeepfake bool
	Confidence float64
}

// NewVerdict applies the decision threshold to a raw model score. A score
// exactly equal to the threshold counts as deepfake. Confidence reports how
// certain the node is about the predicted class: the score itself when
// flagged, its complement otherwise. The score is trusted to already be a
// probability; out-of-range model output is not clamped.
func NewVerdict(score, threshold float64) Verdict {
	isDeepfake := score >= threshold
	confidence := score
	if !isDeepfake {
		confidence = 1.0 - score
	}
	return Verdict{IsDeepfake: isDeepfake, Confidence: confidence}
}
