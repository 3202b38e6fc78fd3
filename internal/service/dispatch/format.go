package dispatch

import (
	"fmt"
	"strings"

	"github.com/heartmarshall/lessico/internal/domain"
)

const (
	textGreeting = "Привет! Я бот-помощник в изучении итальянского языка.\n" +
		"Используй команды:\n" +
		"/meanings - поиск значений и синонимов слова\n" +
		"/examples - примеры употребления слова в контексте"
	textPromptLookup   = "Введите итальянское слово для поиска значений:"
	textPromptExamples = "Введите итальянское слово для поиска примеров:"
	textInvalidWord    = "Пожалуйста, введите одно слово на итальянском."
	textNoPending      = "Сначала выберите команду /meanings или /examples"
	textUnknownCommand = "Неизвестная команда. Используйте /meanings или /examples"

	textLexiconDown = "⚠️ Словарь временно недоступен."
	textCorpusDown  = "⚠️ Корпус примеров временно недоступен."
	textFailed      = "⚠️ Не удалось выполнить запрос, попробуйте позже."

	textNoDefinition = "(определение отсутствует)"
)

// FormatSenses renders a lookup result as the chat reply text.
func FormatSenses(res *domain.SenseLookupResult) string {
	if !res.Found() {
		return fmt.Sprintf("❌ Слово '%s' не найдено в словаре.", res.Word)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Значения слова %s:\n", res.Word)
	for i, s := range res.Senses {
		text := s.TranslatedDefinition
		switch {
		case s.Definition == "":
			text = textNoDefinition
		case s.TranslationUnavailable:
			text += " " + s.Definition
		}
		fmt.Fprintf(&b, "\n💡 %d. %s\n", i+1, text)
		if len(s.Synonyms) > 0 {
			fmt.Fprintf(&b, "📝 Синонимы: %s\n", strings.Join(s.Synonyms, ", "))
		}
	}
	return b.String()
}

// FormatExamples renders an example search result as the chat reply text.
func FormatExamples(res *domain.ExampleSearchResult) string {
	if !res.Found() {
		return fmt.Sprintf("❌ Слово '%s' не найдено в корпусе.", res.Word)
	}

	parts := make([]string, len(res.Entries))
	for i, e := range res.Entries {
		parts[i] = fmt.Sprintf("🇮🇹 %s\n🇷🇺 %s", e.SourceText, e.TargetText)
	}
	return "Примеры употребления:\n\n" + strings.Join(parts, "\n\n")
}
