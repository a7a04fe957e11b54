package service

import "strings"

// Outcome is the synthetic result the sandbox assigns to a card number.
type Outcome string

const (
	OutcomeInstantSuccess            Outcome = "instant-success"
	OutcomeInstantSuccessNoChallenge Outcome = "instant-success-no-challenge"
	OutcomeChallengeRequired         Outcome = "challenge-required"
	OutcomeRejected                  Outcome = "rejected"
)

// Designated sandbox test card patterns.
const (
	// TestCardInstantSuccess completes immediately without a challenge.
	TestCardInstantSuccess = "5356222233334444"
	// Numbers ending in this suffix complete immediately without a challenge.
	suffixInstantSuccess = "468"
	// Numbers ending in this suffix require a 3-D-Secure challenge.
	suffixChallenge = "579"
)

// DecideOutcome maps a cleaned card number to an outcome. The exact-match
// rule is evaluated before the suffix rules so an overlap can never shadow
// the canonical test number.
func DecideOutcome(number string) Outcome {
	clean := CleanCardNumber(number)
	switch {
	case clean == TestCardInstantSuccess:
		return OutcomeInstantSuccess
	case strings.HasSuffix(clean, suffixInstantSuccess):
		return OutcomeInstantSuccessNoChallenge
	case strings.HasSuffix(clean, suffixChallenge):
		return OutcomeChallengeRequired
	default:
		return OutcomeRejected
	}
}

// IsSandboxTestCard reports whether the number matches a designated test
// pattern. Test cards bypass the Luhn check but still require basic
// 12-19 digit format validity.
func IsSandboxTestCard(number string) bool {
	return DecideOutcome(number) != OutcomeRejected
}
