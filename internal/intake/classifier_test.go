package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyRejectsShortMessage(t *testing.T) {
	result := Classify("ok")

	assert.False(t, result.Accepted)
	assert.Equal(t, clarificationPrompt, result.Suggestion)
	assert.Equal(t, []string{"Описание проблемы"}, result.Missing)
}

func TestClassifyShortMessageCountsRunesNotBytes(t *testing.T) {
	// Nine Cyrillic letters: many UTF-8 bytes, still below the minimum.
	result := Classify("проблемаа")
	assert.False(t, result.Accepted)

	// Ten letters crosses the threshold.
	result = Classify("проблемааа")
	assert.True(t, result.Accepted)
}

func TestClassifyTrimsWhitespaceBeforeLengthCheck(t *testing.T) {
	result := Classify("   short     ")
	assert.False(t, result.Accepted)
}

func TestClassifyCategories(t *testing.T) {
	cases := []struct {
		name     string
		text     string
		category string
	}{
		{"sms code maps to app", "У меня не приходит СМС код в приложение уже второй день", CategoryApp},
		{"latin app keyword", "the app crashes every time I open the catalog", CategoryApp},
		{"courier maps to delivery", "Курьер не приехал в назначенное время, заказ задерживается", CategoryDelivery},
		{"payment keyword", "Двойная оплата за один заказ, деньги списались дважды", CategoryPayment},
		{"product maps to product category", "Товар пришел с царапинами на корпусе", CategoryProduct},
		{"no keyword falls back to general", "Подскажите пожалуйста график работы вашего магазина", CategoryGeneral},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := Classify(tc.text)
			assert.True(t, result.Accepted)
			assert.Equal(t, tc.category, result.Category)
		})
	}
}

func TestClassifyFirstMatchingRuleWins(t *testing.T) {
	// Both app and delivery keywords present; the app rule is checked first.
	result := Classify("Приложение не показывает, где сейчас моя доставка")
	assert.True(t, result.Accepted)
	assert.Equal(t, CategoryApp, result.Category)
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	result := Classify("ПРИЛОЖЕНИЕ зависает при оформлении заказа")
	assert.Equal(t, CategoryApp, result.Category)
}
