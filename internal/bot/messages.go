package bot

const msgGenericError = "😔 Извините, что-то пошло не так. Попробуйте ещё раз позже."

const (
	msgManualWelcome = `👋 Привет! Я помогу сохранить ваши рецепты.

Отправьте список ингредиентов, каждый с новой строки, например:
2 яйца
1 стакан муки

Я распознаю ингредиенты, предложу категорию и название, а затем попрошу фото.`

	msgManualHelp = `📖 Команды:
/start - начать
/myrecipes - мои рецепты
/recipe <id> - показать рецепт
/cancel - отменить текущее действие
/skip - сохранить рецепт без фото
/help - эта справка

Чтобы добавить рецепт, просто отправьте список ингредиентов.`

	msgManualRecipeUsage = "Использование: /recipe <id>\nСписок рецептов: /myrecipes"
	msgUnknownCommand    = "Неизвестная команда. Используйте /help."
	msgUnsupported       = "Отправьте текст или фото."
)

const (
	msgYouTubeHelp = `🎬 Я извлекаю рецепты из видео на YouTube.

/recipe <ссылка> - извлечь рецепт из видео
/search <запрос> - найти рецепт по названию или ингредиенту
/list - последние рецепты
/help - эта справка

Также можно просто отправить ID рецепта или поисковый запрос.`

	msgYouTubeRecipeUsage = "Использование: /recipe <ссылка на YouTube>\nНапример: /recipe https://youtu.be/dQw4w9WgXcQ"
	msgSearchUsage        = "Использование: /search <запрос>"
	msgProcessing         = "⏳ Обрабатываю видео, это может занять минуту..."
	msgInvalidURL         = "❌ Некорректная ссылка. Поддерживаются ссылки youtube.com/watch, youtu.be, embed, shorts и ID видео."
	msgTranscriptMissing  = "❌ Субтитры для этого видео недоступны или слишком короткие."
	msgTranscriptFailed   = "❌ Не удалось получить расшифровку видео. Попробуйте позже."
	msgAIUnavailable      = "❌ Сервис ИИ временно недоступен. Попробуйте позже."
	msgProcessingFailed   = "❌ Не удалось обработать рецепт из видео."
	msgNoResults          = "🔍 Ничего не найдено."
	msgSearchResults      = "🔍 Найдено рецептов: %d"
	msgListEmpty          = "Пока нет сохранённых рецептов. Отправьте /recipe <ссылка>."
	msgListHeader         = "📚 Последние рецепты:"
	msgRecipeMissing      = "❌ Рецепт не найден."
)
