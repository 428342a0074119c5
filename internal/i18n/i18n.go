// Package i18n resolves message keys to localized text using an
// x/text catalog.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	KeyLandingConnect      = "landing.connect"
	KeyLandingValidating   = "landing.validating"
	KeyLandingInvalidURL   = "landing.invalidUrl"
	KeyLandingOffline      = "landing.offline"
	KeyLandingPrompt       = "landing.prompt"
	KeyErrorAuthNeeded     = "error.authNeeded"
	KeyErrorNoValidServer  = "error.noValidServerFound"
	KeyErrorConnectTimeout = "error.connectTimeout"
)

// AuthHint is the credential form suggested by KeyErrorAuthNeeded.
const AuthHint = "username:password@host"

var messages = map[language.Tag]map[string]string{
	language.English: {
		KeyLandingConnect:      "Connect",
		KeyLandingValidating:   "Validating...",
		KeyLandingInvalidURL:   "Invalid URL",
		KeyLandingOffline:      "No internet connection",
		KeyLandingPrompt:       "Enter your server URL",
		KeyErrorAuthNeeded:     "Authentication needed, try %s",
		KeyErrorNoValidServer:  "No valid server found at the URL",
		KeyErrorConnectTimeout: "Timeout trying to connect",
	},
	language.BrazilianPortuguese: {
		KeyLandingConnect:      "Conectar",
		KeyLandingValidating:   "Validando...",
		KeyLandingInvalidURL:   "URL inválida",
		KeyLandingOffline:      "Sem conexão com a internet",
		KeyLandingPrompt:       "Digite a URL do seu servidor",
		KeyErrorAuthNeeded:     "Autenticação necessária, tente %s",
		KeyErrorNoValidServer:  "Nenhum servidor válido encontrado neste endereço",
		KeyErrorConnectTimeout: "Tempo esgotado ao tentar conectar",
	},
}

var supported = []language.Tag{language.English, language.BrazilianPortuguese}

// Catalog translates keys for one language.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
	known   map[string]struct{}
}

// New picks the best supported language for lang (a BCP 47 tag such as
// "pt-BR"); unknown or empty values fall back to English.
func New(lang string) *Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	known := make(map[string]struct{})
	for tag, entries := range messages {
		for key, msg := range entries {
			_ = builder.SetString(tag, key, msg)
			known[key] = struct{}{}
		}
	}

	tag := language.English
	if lang != "" {
		if parsed, err := language.Parse(lang); err == nil {
			_, idx, confidence := language.NewMatcher(supported).Match(parsed)
			if confidence != language.No {
				tag = supported[idx]
			}
		}
	}
	return &Catalog{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builder)),
		known:   known,
	}
}

// Language reports the selected language.
func (c *Catalog) Language() language.Tag {
	return c.tag
}

// T returns the text for key. Unknown keys are returned unchanged.
func (c *Catalog) T(key string, args ...interface{}) string {
	if _, ok := c.known[key]; !ok {
		return key
	}
	return c.printer.Sprintf(key, args...)
}

// Supported lists the languages with translations.
func Supported() []language.Tag {
	return append([]language.Tag(nil), supported...)
}
