// Package intake validates a candidate first message and assigns its
// category before a ticket is created.
package intake

import "strings"

// Category values assigned by the classifier.
const (
	CategoryApp      = "приложение"
	CategoryDelivery = "доставка"
	CategoryPayment  = "оплата"
	CategoryProduct  = "товар"
	CategoryGeneral  = "general"
)

// MinMessageLength is the minimum trimmed length accepted for a new ticket.
const MinMessageLength = 10

const clarificationPrompt = "Пожалуйста, опишите вашу проблему более подробно."

// Result is the classification outcome for a candidate message.
type Result struct {
	Accepted   bool
	Category   string
	Suggestion string
	Missing    []string
}

// categoryRules are scanned in order; the first matching keyword wins,
// so the order must stay fixed to keep categorization deterministic.
var categoryRules = []struct {
	keywords []string
	category string
}{
	{[]string{"приложение", "app"}, CategoryApp},
	{[]string{"доставка", "курьер"}, CategoryDelivery},
	{[]string{"оплата", "карта"}, CategoryPayment},
	{[]string{"товар", "продукт"}, CategoryProduct},
}

// Classify validates a candidate first message. It is a pure function:
// no I/O, no side effects.
func Classify(text string) Result {
	if len([]rune(strings.TrimSpace(text))) < MinMessageLength {
		return Result{
			Accepted:   false,
			Category:   CategoryGeneral,
			Suggestion: clarificationPrompt,
			Missing:    []string{"Описание проблемы"},
		}
	}

	lower := strings.ToLower(text)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return Result{Accepted: true, Category: rule.category}
			}
		}
	}
	return Result{Accepted: true, Category: CategoryGeneral}
}
