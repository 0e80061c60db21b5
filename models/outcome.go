package models

// RouteDecision is the binary classification of a question. RouteError is
// never produced by the router; it only appears on a QueryResponse when the
// engine's outer boundary had to absorb something unexpected.
type RouteDecision string

const (
	RouteStructured   RouteDecision = "structured"
	RouteUnstructured RouteDecision = "unstructured"
	RouteError        RouteDecision = "error"
)

// Passage is one chunk of rules text with its provenance label.
type Passage struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// RetrievalOutcome is the result of running one retrieval strategy.
// When Succeeded is false both Rows and Passages are empty and Diagnostic
// carries the failure cause; on success Diagnostic describes what was run.
type RetrievalOutcome struct {
	Kind         RouteDecision
	Succeeded    bool
	Rows         string
	Passages     []Passage
	Query        string
	Diagnostic   string
	AttemptsUsed int
}
