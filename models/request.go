package models

type QueryRequest struct {
	Query     string `json:"query" binding:"required"`
	SessionID string `json:"session_id,omitempty"`
}

type NarrateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
	Style  string `json:"style,omitempty"`
}
