package conversation

// User-facing strings of the entry flow.
const (
	msgEmptyIngredients  = "❌ Список ингредиентов пуст. Отправьте ингредиенты, каждый с новой строки."
	msgChooseCategory    = "Выберите категорию блюда:"
	msgSuggestedCategory = "★ отмечена категория, которую предлагает ассистент."
	msgNoActiveDraft     = "Сейчас нет рецепта в работе. Отправьте список ингредиентов, чтобы начать."
	msgUnknownCategory   = "❌ Неизвестная категория. Выберите категорию с помощью кнопок."
	msgTitleSuggestion   = "💡 Предлагаемое название: %s"
	msgTitleInstructions = "Напишите своё название рецепта или отправьте «принять» (accept), чтобы использовать предложенное."
	msgTitleNoSuggestion = "Напишите название рецепта."
	msgEmptyTitle        = "❌ Название не может быть пустым. Попробуйте ещё раз."
	msgTitleTooLong      = "❌ Название слишком длинное (максимум %d символов). Попробуйте ещё раз."
	msgAskPhoto          = "📷 Название: %s\n\nОтправьте фото блюда или /skip, чтобы пропустить."
	msgSendIngredients   = "Сначала отправьте список ингредиентов."
	msgNothingToSkip     = "Сейчас нечего пропускать."
	msgFinishStep        = "Завершите текущий шаг или отправьте /cancel."
	msgNothingToCancel   = "Нечего отменять."
	msgCancelled         = "❌ Действие отменено."
	msgAnotherRecipe     = "✅ Рецепт сохранён! Отправьте новый список ингредиентов, чтобы добавить ещё один."
	msgIngredientsParsed = "🧾 Ингредиенты:\n%s"
	msgRecipeNotFound    = "❌ Рецепт не найден."
	msgAccessDenied      = "⛔ Доступ запрещён."
	msgConfirmDelete     = "Удалить рецепт «%s»?"
	msgDeleted           = "🗑 Рецепт удалён."
	msgDeleteCancelled   = "Удаление отменено."
	msgNothingPending    = "Нет рецепта, ожидающего удаления."
	msgNoRecipes         = "У вас пока нет рецептов. Отправьте список ингредиентов, чтобы добавить первый."
	msgRecipeListHeader  = "📚 Ваши рецепты (%d):"

	btnDelete = "🗑 Удалить"
	btnYes    = "✅ Да"
	btnNo     = "❌ Нет"
)

// acceptPhrases adopt the suggested title. Compared after trimming and
// case folding.
var acceptPhrases = []string{"accept", "принять"}
