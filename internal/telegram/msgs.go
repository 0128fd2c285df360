package telegram

const (
	msgUsage = "Я слежу за появлением билетов на поезда.\n\n" +
		"/subscribe — подписаться на рассылку. Проверки проводятся каждые 10 минут\n" +
		"/list — показать активную подписку\n" +
		"/check — проверить билеты прямо сейчас\n" +
		"/unsubscribe — отписаться от рассылки\n" +
		"/cancel — прервать создание подписки"

	msgSaved = "Ваш запрос сохранён! 🚆Я уведомлю вас, как только появятся билеты, " +
		"соответствующие вашим параметрам.\n\nДля просмотра подписки используйте /list."

	msgNoSubscription = "📭 У вас пока нет активных подписок."
	msgNotSubscribed  = "Вы не подписаны на рассылку"
	msgUnsubscribed   = "Вы успешно отписались от рассылки"
	msgNothingFound   = "Ничего не нашёл :("
	msgCheckFailed    = "🚨 Не удалось проверить билеты. Попробуйте позже."
	msgListFailed     = "❌ Не удалось загрузить список подписок. Попробуйте позже."
	msgNothingToStop  = "Сейчас нечего отменять. Создайте подписку через /subscribe."
	msgSessionGone    = "Сессия устарела. Начните заново через /subscribe."
	msgFoundTickets   = "Я нашёл такие билеты:"

	msgSummaryHeader = "Проверьте подписку:"
	msgListHeader    = "📋 Ваша активная подписка:"
	msgChooseSeat    = "Выберите тип места:"
	msgExited        = "👋 Возвращаю вас в главное меню."
)
