package catalog

// builtinBundle returns the minimal in-code message table used when the
// embedded catalogs cannot be loaded. It covers the handful of strings the
// wizard cannot operate without.
func builtinBundle() *Bundle {
	bundle := &Bundle{locales: map[string]*LocaleCatalog{}}
	for locale, messages := range builtinMessages {
		bundle.locales[locale] = &LocaleCatalog{
			Locale:     locale,
			Namespaces: map[string]map[string]string{"builtin": copyMap(messages)},
			Messages:   copyMap(messages),
		}
	}
	return bundle
}

var builtinMessages = map[string]map[string]string{
	"en-US": {
		"common.search":            "Search",
		"common.save":              "Save",
		"common.send":              "Send",
		"common.cancel":            "Cancel",
		"success.title":            "Success",
		"success.ticket_number":    "Ticket Number",
		"errors.submission_failed": "Request submission failed",
		"errors.generic":           "Something went wrong",
	},
	"he": {
		"common.search":            "חיפוש",
		"common.save":              "שמור",
		"common.send":              "שלח",
		"common.cancel":            "ביטול",
		"success.title":            "נפתחה קריאה חדשה",
		"success.ticket_number":    "מס קריאה",
		"errors.submission_failed": "שליחת הבקשה נכשלה",
		"errors.generic":           "משהו השתבש",
	},
	"fr": {
		"common.search":            "Rechercher",
		"common.save":              "Sauvegarder",
		"common.send":              "Envoyer",
		"common.cancel":            "Annuler",
		"success.title":            "Succès",
		"success.ticket_number":    "Numéro de ticket",
		"errors.submission_failed": "Échec de la soumission de la demande",
		"errors.generic":           "Une erreur est survenue",
	},
	"ru": {
		"common.search":            "Поиск",
		"common.save":              "Сохранить",
		"common.send":              "Отправить",
		"common.cancel":            "Отмена",
		"success.title":            "Успех",
		"success.ticket_number":    "Номер заявки",
		"errors.submission_failed": "Ошибка отправки заявки",
		"errors.generic":           "Что-то пошло не так",
	},
}
