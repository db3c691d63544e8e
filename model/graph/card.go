package graph

import "strings"

// CardType identifies the kind of work a node performs.
type CardType string

const (
	// CardNewSubmission is the trigger fired by a new candidate submission.
	CardNewSubmission CardType = "new-submission"
	// CardAnalyzeResume scores a submitted document against job requirements.
	CardAnalyzeResume CardType = "analyze-resume"
	// CardCondition compares a variable with a literal and selects a port.
	CardCondition CardType = "condition"
	// CardSendCommunication sends a templated message to recipients.
	CardSendCommunication CardType = "send-communication"
	// CardSendInvite is an alias of CardSendCommunication used by invite cards.
	CardSendInvite CardType = "send-invite"
)

// Condition node output ports.
const (
	PortTrue  = "true"
	PortFalse = "false"
)

// Normalize lower-cases and trims a card type read from a document.
func (c CardType) Normalize() CardType {
	return CardType(strings.ToLower(strings.TrimSpace(string(c))))
}

func (c CardType) String() string {
	return string(c)
}
