package moderation

import "context"

// Verdict is the classifier's flagged/not-flagged decision for one text.
type Verdict struct {
	Flagged bool
	Model   string
}

// Classifier is the external text moderation capability. The platform only
// consumes the verdict; provider payloads stay on the provider side.
type Classifier interface {
	Classify(ctx context.Context, text string) (Verdict, error)
}

// PassthroughClassifier approves everything. Used when no moderation
// provider is configured and in tests.
type PassthroughClassifier struct{}

func (PassthroughClassifier) Classify(_ context.Context, _ string) (Verdict, error) {
	return Verdict{Flagged: false, Model: "passthrough"}, nil
}
