// pkg/classifier/classifier.go
package classifier

import "context"

// Classification is the outcome of one fallback call. An empty Target
// means the classifier declined to pick any of the offered columns
type Classification struct {
	Target     string  // Chosen target column, empty for none
	Confidence float64 // Classifier's own confidence in [0,1]
}

// None reports whether the classifier declined to classify
func (c Classification) None() bool {
	return c.Target == ""
}

// Classifier is the narrow capability interface for the external
// fallback. Implementations are expected to respect context deadlines;
// the engine treats any error as "this header stays unmapped", never as
// a run failure
type Classifier interface {
	Classify(ctx context.Context, header string, targets []string) (Classification, error)
}
