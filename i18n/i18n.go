package i18n

import (
	"log"
	"os"
	"strings"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
)

var (
	lang string
	tag  = language.English
)

var translations = map[string]map[string]string{
	"start": {
		"pt": "iniciar",
		"es": "iniciar",
		"ru": "старт",
	},
	"pause": {
		"pt": "pausar",
		"es": "pausar",
		"ru": "пауза",
	},
	"reset": {
		"pt": "resetar",
		"es": "reiniciar",
		"ru": "сброс",
	},
	"+1 min": {
		"ru": "+1 мин",
	},
	"-1 min": {
		"ru": "-1 мин",
	},
	"Torch on": {
		"pt": "Lanterna ligada",
		"es": "Linterna encendida",
		"ru": "Фонарик вкл",
	},
	"Torch off": {
		"pt": "Lanterna desligada",
		"es": "Linterna apagada",
		"ru": "Фонарик выкл",
	},
	"No flash": {
		"pt": "Sem flash",
		"es": "Sin flash",
		"ru": "Нет вспышки",
	},
	"Torch error": {
		"pt": "Erro da lanterna",
		"es": "Error de la linterna",
		"ru": "Ошибка фонарика",
	},
	"About TorchTimer": {
		"pt": "Sobre o TorchTimer",
		"es": "Acerca de TorchTimer",
		"ru": "О TorchTimer",
	},
	"Close": {
		"pt": "Fechar",
		"es": "Cerrar",
		"ru": "Закрыть",
	},
}

func init() {
	SetLang(detect(os.Getenv("TORCHTIMER_LANG"), locale.GetLocales))
}

// detect picks the forced locale when set, else the first system locale.
func detect(forced string, locales func() ([]string, error)) string {
	if forced = strings.TrimSpace(forced); forced != "" {
		log.Printf("TORCHTIMER_LANG is set to: '%s'", forced)
		return forced
	}

	userLocales, err := locales()
	if err != nil {
		log.Println("Could not get user locale, defaulting to english")
		return "en"
	}
	if len(userLocales) == 0 {
		log.Println("No user locale detected, defaulting to english")
		return "en"
	}
	log.Printf("Detected user locale: %s", userLocales[0])
	return userLocales[0]
}

// SetLang selects the caption language and the numbering locale. Locales
// such as "pt_BR" or "es-419" are accepted.
func SetLang(userLocale string) {
	userLocale = strings.ReplaceAll(strings.TrimSpace(userLocale), "_", "-")
	if i := strings.IndexByte(userLocale, '.'); i >= 0 {
		userLocale = userLocale[:i]
	}

	parsed, err := language.Parse(userLocale)
	if err != nil {
		parsed = language.English
	}
	tag = parsed

	switch {
	case strings.HasPrefix(userLocale, "pt"):
		lang = "pt"
	case strings.HasPrefix(userLocale, "es"):
		lang = "es"
	case strings.HasPrefix(userLocale, "ru"):
		lang = "ru"
	default:
		lang = "en"
	}
	log.Printf("Language set to: %s", lang)
}

func T(key string) string {
	if translated, ok := translations[key][lang]; ok {
		return translated
	}
	return key
}

func GetLang() string {
	return lang
}

// Tag returns the locale used for numeric formatting.
func Tag() language.Tag {
	return tag
}
