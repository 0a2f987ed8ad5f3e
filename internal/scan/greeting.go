package scan

import (
	"context"
	"fmt"
	"strings"

	"github.com/tapfolio/cardscan-backend/internal/logger"
)

// PersonalizedMessage is the structured greeting returned alongside a scan
// when a client name was extracted. CTAText comes from the lookup table,
// never from the model.
type PersonalizedMessage struct {
	Greeting  string `json:"greeting"`
	CTAText   string `json:"ctaText"`
	URL       string `json:"url"`
	Signature string `json:"signature"`
}

var ctaTexts = map[string]string{
	"en": "Save my contact",
	"es": "Guarda mi contacto",
	"fr": "Enregistrez mon contact",
	"de": "Meinen Kontakt speichern",
	"pt": "Salve meu contato",
	"it": "Salva il mio contatto",
}

var fallbackGreetings = map[string]string{
	"en": "Hi %s, great meeting you! Here are my contact details.",
	"es": "Hola %s, ¡un placer conocerte! Aquí tienes mis datos de contacto.",
	"fr": "Bonjour %s, ravi de vous rencontrer ! Voici mes coordonnées.",
	"de": "Hallo %s, schön dich kennenzulernen! Hier sind meine Kontaktdaten.",
	"pt": "Olá %s, foi um prazer te conhecer! Aqui estão meus contatos.",
	"it": "Ciao %s, è stato un piacere conoscerti! Ecco i miei contatti.",
}

// Greeter generates a short personalized greeting in the visitor's
// language. Any failure degrades to a deterministic localized template.
type Greeter struct {
	log        *logger.Logger
	gen        TextGenerator
	profileURL string
}

func NewGreeter(log *logger.Logger, gen TextGenerator, profileURL string) *Greeter {
	return &Greeter{
		log:        log.With("service", "Greeter"),
		gen:        gen,
		profileURL: profileURL,
	}
}

func (g *Greeter) Generate(ctx context.Context, clientName, ownerName, language string) PersonalizedMessage {
	lang := normalizeLanguage(language)
	msg := PersonalizedMessage{
		CTAText:   ctaText(lang),
		URL:       g.profileURL,
		Signature: ownerName,
	}

	if g.gen == nil {
		msg.Greeting = fallbackGreeting(lang, clientName)
		return msg
	}

	system := fmt.Sprintf(
		"You write one short greeting from %s to %s. Reply only in language %q. Under 20 words. No URL, no call to action, no quotes, no signature.",
		ownerName, clientName, lang,
	)
	prompt := fmt.Sprintf("Write a warm greeting to %s who just scanned %s's business card.", clientName, ownerName)

	resp, err := g.gen.GenerateText(ctx, prompt, &GenerateOptions{
		SystemInstruction: system,
		Temperature:       0.7,
		MaxOutputTokens:   64,
	})
	if err != nil || resp == nil || strings.TrimSpace(resp.Text) == "" {
		if err != nil {
			g.log.Warn("greeting generation failed, using fallback", "error", err)
		}
		msg.Greeting = fallbackGreeting(lang, clientName)
		return msg
	}

	msg.Greeting = strings.Trim(strings.TrimSpace(resp.Text), `"`)
	return msg
}

func normalizeLanguage(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if idx := strings.Index(lang, "-"); idx > 0 {
		lang = lang[:idx]
	}
	if lang == "" {
		return "en"
	}
	return lang
}

func ctaText(lang string) string {
	if cta, ok := ctaTexts[lang]; ok {
		return cta
	}
	return ctaTexts["en"]
}

func fallbackGreeting(lang, clientName string) string {
	tmpl, ok := fallbackGreetings[lang]
	if !ok {
		tmpl = fallbackGreetings["en"]
	}
	return fmt.Sprintf(tmpl, clientName)
}
