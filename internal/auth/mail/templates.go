package mail

import (
	"strings"
	"text/template"

	"golang.org/x/text/language"
)

type templates struct {
	codeSubject  string
	code         *template.Template
	resetSubject string
	reset        *template.Template
}

// supported lists the template languages; the first entry is the fallback.
var supported = []language.Tag{
	language.English,
	language.Spanish,
	language.French,
	language.German,
}

var matcher = language.NewMatcher(supported)

var byLanguage = map[language.Tag]templates{
	language.English: {
		codeSubject: "Your Inkwell verification code",
		code: template.Must(template.New("code_en").Parse(
			"Your verification code is {{.Code}}.\n\nIt expires in {{.Minutes}} minutes. If you did not request it, you can ignore this email.\n")),
		resetSubject: "Reset your Inkwell password",
		reset: template.Must(template.New("reset_en").Parse(
			"Someone asked to reset the password of your Inkwell account.\n\nOpen this link within {{.Minutes}} minutes to choose a new one:\n{{.Link}}\n\nIf this was not you, ignore this email and your password stays the same.\n")),
	},
	language.Spanish: {
		codeSubject: "Tu código de verificación de Inkwell",
		code: template.Must(template.New("code_es").Parse(
			"Tu código de verificación es {{.Code}}.\n\nCaduca en {{.Minutes}} minutos. Si no lo solicitaste, ignora este correo.\n")),
		resetSubject: "Restablece tu contraseña de Inkwell",
		reset: template.Must(template.New("reset_es").Parse(
			"Alguien pidió restablecer la contraseña de tu cuenta de Inkwell.\n\nAbre este enlace en los próximos {{.Minutes}} minutos para elegir una nueva:\n{{.Link}}\n\nSi no fuiste tú, ignora este correo y tu contraseña no cambiará.\n")),
	},
	language.French: {
		codeSubject: "Votre code de vérification Inkwell",
		code: template.Must(template.New("code_fr").Parse(
			"Votre code de vérification est {{.Code}}.\n\nIl expire dans {{.Minutes}} minutes. Si vous ne l'avez pas demandé, ignorez cet e-mail.\n")),
		resetSubject: "Réinitialisez votre mot de passe Inkwell",
		reset: template.Must(template.New("reset_fr").Parse(
			"Une réinitialisation du mot de passe de votre compte Inkwell a été demandée.\n\nOuvrez ce lien dans les {{.Minutes}} minutes pour en choisir un nouveau :\n{{.Link}}\n\nSi ce n'était pas vous, ignorez cet e-mail.\n")),
	},
	language.German: {
		codeSubject: "Dein Inkwell-Bestätigungscode",
		code: template.Must(template.New("code_de").Parse(
			"Dein Bestätigungscode lautet {{.Code}}.\n\nEr läuft in {{.Minutes}} Minuten ab. Falls du ihn nicht angefordert hast, ignoriere diese E-Mail.\n")),
		resetSubject: "Setze dein Inkwell-Passwort zurück",
		reset: template.Must(template.New("reset_de").Parse(
			"Jemand möchte das Passwort deines Inkwell-Kontos zurücksetzen.\n\nÖffne diesen Link innerhalb von {{.Minutes}} Minuten, um ein neues zu wählen:\n{{.Link}}\n\nWarst du das nicht, ignoriere diese E-Mail.\n")),
	},
}

// templateFor picks the closest supported language for an Accept-Language
// style string ("es", "fr-CA", "de-DE,de;q=0.9"). Unknown or empty input
// falls back to English.
func templateFor(lang string) templates {
	_, i := language.MatchStrings(matcher, lang)
	return byLanguage[supported[i]]
}

func render(t *template.Template, data any) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
