package models

// QueryResponse is the structure returned for the POST /query endpoint.
// Failures are encoded in the body rather than thrown past the boundary,
// so Answer always carries user-facing prose.
type QueryResponse struct {
	Answer           string         `json:"answer"`
	Route            RouteDecision  `json:"route"`
	Sources          []string       `json:"sources"`
	RetrievalSuccess bool           `json:"retrieval_success"`
	SessionID        string         `json:"session_id,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
}

// NarrateResponse is the structure returned for the POST /narrate endpoint.
type NarrateResponse struct {
	Text    string `json:"text"`
	Style   string `json:"style"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status     string         `json:"status"`
	Timestamp  string         `json:"timestamp"`
	Version    string         `json:"version,omitempty"`
	Components map[string]any `json:"components,omitempty"`
}
