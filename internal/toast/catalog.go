// Package toast renders notification events on a terminal.
package toast

import (
	"os"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/remsfal/remsfal-frontend-sub001/internal/api"
)

var supported = []language.Tag{language.English, language.German}

var translations = map[language.Tag]map[string]string{
	language.English: {
		api.MsgErrorSummary:   "Error",
		api.MsgRequestFailed:  "The request could not be sent.",
		api.MsgResponseFailed: "The server returned an error.",
		api.MsgWarnSummary:    "Warning",
		api.MsgEmptyResponse:  "The server returned an empty response.",
	},
	language.German: {
		api.MsgErrorSummary:   "Fehler",
		api.MsgRequestFailed:  "Die Anfrage konnte nicht gesendet werden.",
		api.MsgResponseFailed: "Der Server hat einen Fehler gemeldet.",
		api.MsgWarnSummary:    "Warnung",
		api.MsgEmptyResponse:  "Der Server hat eine leere Antwort geliefert.",
	},
}

// NewCatalog returns a catalog holding every toast message key.
func NewCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range translations {
		for key, text := range msgs {
			_ = b.SetString(tag, key, text)
		}
	}
	return b
}

// Translator maps message keys to display text.
type Translator struct {
	printer *message.Printer
	tag     language.Tag
}

// NewTranslator picks the best supported language for the given
// preferences, e.g. "de-DE" or "en-US,en;q=0.8".
func NewTranslator(prefs ...string) *Translator {
	matcher := language.NewMatcher(supported)
	tag, _ := language.MatchStrings(matcher, prefs...)
	base, _ := tag.Base()
	tag, _ = language.Compose(base)

	return &Translator{
		printer: message.NewPrinter(tag, message.Catalog(NewCatalog())),
		tag:     tag,
	}
}

// LanguageFromEnv returns the user's preferred language from the usual
// locale variables.
func LanguageFromEnv() string {
	for _, key := range []string{"REMSFAL_LANG", "LC_ALL", "LC_MESSAGES", "LANG"} {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		// de_DE.UTF-8 -> de-DE
		if i := strings.IndexByte(v, '.'); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return ""
}

// Language returns the selected language tag.
func (t *Translator) Language() language.Tag {
	return t.tag
}

// Translate returns the text for key. Unknown keys are returned as is.
func (t *Translator) Translate(key string) string {
	if key == "" {
		return ""
	}
	return t.printer.Sprintf(key)
}
