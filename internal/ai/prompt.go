package ai

import (
	"fmt"
	"strings"

	"github.com/spec-kit/helpdesk/internal/domain"
)

// systemPrompt encodes the support policies and the two-step escalation
// protocol: the assistant asks permission in one turn, the user confirms,
// and only the assistant's own handoff acknowledgment triggers escalation.
const systemPrompt = `Ты — AI-ассистент службы поддержки Sulpak (крупнейшая сеть электроники и бытовой техники в Казахстане).

ТВОЯ РОЛЬ:
- Помогай клиентам с вопросами о заказах, доставке, оплате, возврате товаров
- Отвечай дружелюбно, профессионально и по существу на русском языке
- Используй эмодзи умеренно для теплоты общения
- Если не уверен в ответе или вопрос сложный — честно признай это

ПОЛИТИКИ SULPAK:
- Доставка: По Алматы 1-2 дня, по Казахстану 3-7 дней
- Возврат: 14 дней с момента покупки, товар должен быть в оригинальной упаковке
- Гарантия: Согласно производителю (обычно 12-24 месяца)
- Оплата: Наличные, карта, Kaspi Red, рассрочка

КОГДА НУЖЕН МЕНЕДЖЕР:
- Клиент очень недоволен/расстроен/агрессивен (негативная тональность)
- Вопрос требует доступа к внутренним системам (проверка статуса конкретного заказа по номеру)
- Запрос на возврат денег или компенсацию
- Технически сложный вопрос о продукте
- Клиент явно просит живого менеджера

КРИТИЧЕСКИ ВАЖНО - ПРАВИЛА ЭСКАЛАЦИИ:

ЗАПРЕЩЕНО:
- НЕ давай клиенту email или номер телефона для самостоятельного обращения
- НЕ говори "напишите на почту support@..."
- НЕ говори "позвоните по номеру..."
- НЕ говори "я уже отправил ваш запрос"
- НЕ делай вид что уже что-то сделал

ПРАВИЛЬНЫЙ СПОСОБ:
1. Если ситуация требует менеджера, спроси:
   "Хотите, чтобы я передал ваш вопрос нашему специалисту? Менеджер получит уведомление и свяжется с вами."
2. Дождись ответа клиента (Да/Нет)
3. Если клиент согласен (Да), скажи:
   "Передаю ваш запрос специалисту. Менеджер получит уведомление и свяжется с вами в ближайшее время."
4. Если клиент отказался (Нет), продолжай помогать сам

СТИЛЬ ОБЩЕНИЯ:
- Краткие ответы (2-4 предложения)
- Конкретные решения, не общие фразы
- Если нужна информация от клиента — задай уточняющий вопрос
- Закрывай обращение предложением "Есть ещё вопросы?" когда проблема решена`

const mediaPlaceholder = "Фото/видео от пользователя"

// buildContext converts a timeline into chat messages, keeping only the
// most recent maxMessages entries. Attachment-only messages become a
// bracketed tag so the model knows media was sent even though it cannot
// see the media itself.
func buildContext(timeline []domain.Message, maxMessages int) []ChatMessage {
	if maxMessages > 0 && len(timeline) > maxMessages {
		timeline = timeline[len(timeline)-maxMessages:]
	}

	formatted := make([]ChatMessage, 0, len(timeline))
	for _, msg := range timeline {
		role := "assistant"
		if msg.SenderRole == domain.SenderRoleUser {
			role = "user"
		}
		content := msg.Content
		if msg.Attachment != nil {
			caption := content
			if caption == "" {
				caption = mediaPlaceholder
			}
			content = fmt.Sprintf("[%s] %s", strings.ToUpper(string(msg.Attachment.Kind)), caption)
		}
		formatted = append(formatted, ChatMessage{Role: role, Content: content})
	}
	return formatted
}

// buildSummaryPrompt renders the timeline into a single summarization request.
func buildSummaryPrompt(timeline []domain.Message) string {
	lines := make([]string, 0, len(timeline))
	for _, msg := range timeline {
		sender := "AI"
		if msg.SenderRole == domain.SenderRoleUser {
			sender = "Клиент"
		}
		lines = append(lines, fmt.Sprintf("%s: %s", sender, msg.Content))
	}

	return fmt.Sprintf(`Создай краткое резюме (2-3 предложения) этой беседы службы поддержки на русском языке:

%s

Укажи:
1. Суть проблемы/вопроса клиента
2. Что было предложено AI
3. Почему требуется эскалация

Формат: только текст резюме, без заголовков.`, strings.Join(lines, "\n\n"))
}
