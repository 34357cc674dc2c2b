package core

// Severity grades guardrail findings.
type Severity string

const (
	SeverityNone     Severity = "none"
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Outcome is the closed set of results Handle returns to callers. Concrete
// outcomes implement the unexported marker. Infrastructure failures are not
// an Outcome; they surface as an error wrapping ErrInfrastructure.
type Outcome interface{ isOutcome() }

// Blocked is returned when the guardrail rejects the input. No session or
// history state was touched.
type Blocked struct {
	Reason   string   `json:"reason"`
	Severity Severity `json:"severity"`
}

func (Blocked) isOutcome() {}

// Answered is the successful terminal outcome. Responder names the unit
// that produced the response ("escalation" when the selected responder
// failed and the escalator answered instead).
type Answered struct {
	Response   string  `json:"response"`
	Responder  string  `json:"responder"`
	SessionID  string  `json:"session_id"`
	Confidence float64 `json:"confidence"`
}

func (Answered) isOutcome() {}
