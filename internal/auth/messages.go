package auth

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// The site speaks Ukrainian to its visitors. All user-facing texts live
// here so the handlers and templates never hardcode them.
const (
	MsgLoginTooShort       = "Вкажіть логін щонайменше з 3 символів."
	MsgProfileNameTooShort = "Ім'я профілю має містити щонайменше 2 символи."
	MsgEmailRequired       = "Вкажіть електронну адресу."
	MsgEmailInvalid        = "Електронна адреса має некоректний формат."
	MsgPasswordTooShort    = "Пароль має містити щонайменше 6 символів."
	MsgConfirmRequired     = "Підтвердіть пароль."
	MsgPasswordsMismatch   = "Паролі не співпадають."
	MsgUserExists          = "Користувач із таким логіном або електронною адресою вже існує."
	MsgRegisterSuccess     = "Обліковий запис успішно створено! Тепер ви можете увійти."
	MsgRegisterInternal    = "Сталася помилка під час створення акаунта. Спробуйте ще раз пізніше."

	MsgIdentifierRequired = "Вкажіть логін або електронну адресу."
	MsgPasswordRequired   = "Вкажіть пароль."
	MsgAccountNotFound    = "Обліковий запис не знайдено."
	MsgWrongPassword      = "Невірний пароль."
	MsgLoginInternal      = "Сталася помилка під час входу. Спробуйте ще раз пізніше."

	MsgRegistrationClosed = "Реєстрацію нових користувачів тимчасово вимкнено."
)

var ukPrinter = message.NewPrinter(language.Ukrainian)

// WelcomeMessage builds the post-login greeting flash for a display name
func WelcomeMessage(displayName string) string {
	return ukPrinter.Sprintf("Ласкаво просимо, %s!", displayName)
}
