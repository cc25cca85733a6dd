package ai

import "strings"

// uncertaintyPhrases lower the confidence score when they appear in a
// reply. Each occurrence of a distinct phrase costs 0.15.
var uncertaintyPhrases = []string{
	"не уверен",
	"не знаю",
	"возможно",
	"может быть",
	"скорее всего",
	"попробуйте",
	"свяжитесь с",
	"обратитесь к менеджеру",
}

// escalationTriggers are the assistant's own handoff acknowledgments.
// Escalation fires only on these — never on the confidence score and
// never on the user's message content. Phrase matching is fragile (a
// model rephrasing its confirmation slips past it), but it is the
// externally observable contract of the two-step protocol.
var escalationTriggers = []string{
	"передаю ваш запрос специалисту",
	"передам ваш запрос специалисту",
	"передаю специалисту",
	"передам специалисту",
	"передано специалисту",
	"передаю менеджеру",
	"передам менеджеру",
	"передано менеджеру",
	"специалист получил",
	"менеджер получил",
}

// scoreConfidence derives a heuristic [0.1, 1.0] confidence from the
// reply text. It is not a model-internal probability.
func scoreConfidence(reply string) float64 {
	confidence := 1.0
	lower := strings.ToLower(reply)

	for _, phrase := range uncertaintyPhrases {
		if strings.Contains(lower, phrase) {
			confidence -= 0.15
		}
	}
	if len([]rune(reply)) < 50 {
		confidence -= 0.1
	}
	if strings.Count(reply, "?") > 2 {
		confidence -= 0.1
	}

	if confidence < 0.1 {
		return 0.1
	}
	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}

// shouldEscalate reports whether the reply contains a confirmed-handoff phrase.
func shouldEscalate(reply string) bool {
	lower := strings.ToLower(reply)
	for _, trigger := range escalationTriggers {
		if strings.Contains(lower, trigger) {
			return true
		}
	}
	return false
}
