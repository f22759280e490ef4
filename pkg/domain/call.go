package domain

import "time"

// CallStatus mirrors the call lifecycle Twilio reports on webhooks.
type CallStatus string

const (
	StatusInProgress CallStatus = "in-progress" // Call is live, more webhooks expected
	StatusCompleted  CallStatus = "completed"   // Caller or callee hung up
)

// CallState is the host-side snapshot of one telephone call as it threads
// through a flow's callbacks. Twilio keeps no application state between
// webhooks, so everything the next callback needs lives here.
type CallState struct {
	// CallSID is Twilio's unique identifier for the call.
	CallSID string `json:"call_sid"`

	// Flow is the name of the flow that answered the call.
	Flow string `json:"flow"`

	// Status indicates whether more webhooks are expected for this call.
	Status CallStatus `json:"status"`

	// From and To are the calling and called phone numbers as reported on
	// the initial webhook.
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`

	// Digits maps a callback target to the keypad digits the caller entered
	// for it.
	Digits map[string]string `json:"digits,omitempty"`

	// RecordingURL locates the most recent recording made on the call.
	RecordingURL string `json:"recording_url,omitempty"`

	// Transcription is the text of the most recent transcribed recording.
	Transcription string `json:"transcription,omitempty"`

	// StartedAt and UpdatedAt bracket the call's webhook activity.
	StartedAt time.Time `json:"started_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewCallState creates the starting state for a call answered by flow.
func NewCallState(callSID, flow string) *CallState {
	now := time.Now().UTC()
	return &CallState{
		CallSID:   callSID,
		Flow:      flow,
		Status:    StatusInProgress,
		Digits:    make(map[string]string),
		StartedAt: now,
		UpdatedAt: now,
	}
}

// Touch refreshes UpdatedAt after a webhook mutates the state.
func (s *CallState) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

// Clone returns a deep copy, so stores can hand out snapshots without
// aliasing the Digits map.
func (s *CallState) Clone() *CallState {
	c := *s
	c.Digits = make(map[string]string, len(s.Digits))
	for k, v := range s.Digits {
		c.Digits[k] = v
	}
	return &c
}
