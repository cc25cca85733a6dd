package ai

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreConfidenceCleanLongReply(t *testing.T) {
	reply := "Для восстановления доступа откройте раздел настроек, выберите пункт безопасности и следуйте инструкциям на экране."
	assert.InDelta(t, 1.0, scoreConfidence(reply), 1e-9)
}

func TestScoreConfidencePenalizesUncertaintyPhrases(t *testing.T) {
	reply := "Возможно, проблема в настройках. Попробуйте перезапустить приложение и проверить соединение еще раз."
	// Two distinct phrases: 1.0 - 0.15 - 0.15.
	assert.InDelta(t, 0.7, scoreConfidence(reply), 1e-9)
}

func TestScoreConfidencePenalizesShortReply(t *testing.T) {
	assert.InDelta(t, 0.9, scoreConfidence("Проверьте настройки и повторите попытку снова."), 1e-9)
}

func TestScoreConfidenceShortReplyCountsRunes(t *testing.T) {
	// Exactly 50 runes is not short.
	atThreshold := strings.Repeat("д", 50)
	assert.InDelta(t, 1.0, scoreConfidence(atThreshold), 1e-9)

	belowThreshold := strings.Repeat("д", 49)
	assert.InDelta(t, 0.9, scoreConfidence(belowThreshold), 1e-9)
}

func TestScoreConfidencePenalizesManyQuestionMarks(t *testing.T) {
	base := strings.Repeat("щ", 60)
	assert.InDelta(t, 1.0, scoreConfidence(base+"??"), 1e-9)
	assert.InDelta(t, 0.9, scoreConfidence(base+"???"), 1e-9)
}

func TestScoreConfidenceClampsAtFloor(t *testing.T) {
	// Stack every uncertainty phrase plus the short and question
	// penalties; the score never drops below 0.1.
	reply := strings.Join(uncertaintyPhrases, " ") + "???"
	got := scoreConfidence(reply)
	assert.InDelta(t, 0.1, got, 1e-9)
}

func TestShouldEscalateOnHandoffPhrases(t *testing.T) {
	assert.True(t, shouldEscalate("Хорошо, передаю ваш запрос специалисту."))
	assert.True(t, shouldEscalate("ПЕРЕДАЮ МЕНЕДЖЕРУ ваш вопрос"))
	assert.True(t, shouldEscalate("Ваш запрос передано специалисту, ожидайте ответа."))
}

func TestShouldEscalateIgnoresOrdinaryReplies(t *testing.T) {
	assert.False(t, shouldEscalate("Попробуйте очистить кэш приложения и войти снова."))
	assert.False(t, shouldEscalate(""))
	// Uncertainty lowers confidence but never escalates by itself.
	assert.False(t, shouldEscalate("Не уверен, не знаю, возможно, может быть."))
}
