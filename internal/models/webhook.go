package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Webhook event names delivered by the voice provider. Only the analyzed
// event carries analysis data; everything else is acknowledged untouched.
const (
	EventCallAnalyzed = "call_analyzed"
	EventCallEnded    = "call_ended"
)

// Call metadata types set by the client when the call was created. The
// metadata is caller-supplied and treated as untrusted input.
const (
	CallTypeGenerate  = "generate"
	CallTypeInterview = "interview"
)

// WebhookEvent is the provider's call-lifecycle delivery.
type WebhookEvent struct {
	Event string       `json:"event" validate:"required"`
	Call  *WebhookCall `json:"call"`
}

type WebhookCall struct {
	CallID       string        `json:"call_id"`
	CallAnalysis *CallAnalysis `json:"call_analysis"`
	Metadata     *CallMetadata `json:"metadata"`
	Transcript   string        `json:"transcript"`
}

type CallAnalysis struct {
	CustomAnalysisData *AnalysisData `json:"custom_analysis_data"`
}

// AnalysisData is what the provider derived from a completed "generate"
// call. Amount regularly arrives as a quoted number.
type AnalysisData struct {
	Role      string  `json:"role"`
	Level     string  `json:"level"`
	Type      string  `json:"type"`
	TechStack string  `json:"techstack"`
	Amount    FlexInt `json:"amount"`
}

type CallMetadata struct {
	UserID      string `json:"userId"`
	Type        string `json:"type"`
	InterviewID string `json:"interviewId"`
}

// WebhookResponse is the uniform webhook reply body.
type WebhookResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// FlexInt decodes from a JSON number or a numeric string.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	s := string(data)
	if s[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		// Unparseable amounts fall back to the generation default.
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// GenerateRequest is the direct generation endpoint's body. The voice tool
// and older clients use different field names for the same parameters, so
// both spellings are accepted and merged.
type GenerateRequest struct {
	Type      string          `json:"type"`
	AltType   string          `json:"interviewType"`
	Role      string          `json:"role"`
	AltRole   string          `json:"jobRole"`
	Level     string          `json:"level"`
	AltLevel  string          `json:"experienceLevel"`
	TechStack json.RawMessage `json:"techstack"`
	AltStack  json.RawMessage `json:"techStack"`
	Amount    FlexInt         `json:"amount"`
	AltAmount FlexInt         `json:"numberOfQuestions"`
	UserID    string          `json:"userid"`
	AltUserID string          `json:"userId"`
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

// Normalized resolves the alias fields and applies the generation defaults.
func (r *GenerateRequest) Normalized() (role, level, qtype string, techstack []string, amount int, userID string) {
	role = firstNonEmpty(r.Role, r.AltRole)
	if role == "" {
		role = "Developer"
	}
	level = firstNonEmpty(r.Level, r.AltLevel)
	if level == "" {
		level = "Junior"
	}
	qtype = firstNonEmpty(r.Type, r.AltType)
	if qtype == "" {
		qtype = "Mixed"
	}
	techstack = decodeStack(r.TechStack)
	if techstack == nil {
		techstack = decodeStack(r.AltStack)
	}
	if techstack == nil {
		techstack = []string{"JavaScript"}
	}
	amount = int(r.Amount)
	if amount == 0 {
		amount = int(r.AltAmount)
	}
	if amount <= 0 {
		amount = 5
	}
	userID = firstNonEmpty(r.UserID, r.AltUserID)
	return
}

// decodeStack accepts either a comma-joined string or a JSON string list.
func decodeStack(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return NormalizeTechStack(s)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, item := range list {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}
