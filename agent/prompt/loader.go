package prompt

import (
	_ "embed"
	"strings"
	"time"

	contractx "github.com/dermaluz/concierge/agent/contract"
)

var (
	//go:embed template/assistant.txt
	assistantRaw string

	//go:embed template/quiz.txt
	quizRaw string
)

// PromptSet holds the embedded system prompts.
type PromptSet struct {
	Assistant string
	Quiz      string
}

// LoadPromptSet returns the trimmed prompt set. Safe to call
// concurrently; the embed is compile-time.
func LoadPromptSet() PromptSet {
	return PromptSet{
		Assistant: strings.TrimSpace(assistantRaw),
		Quiz:      strings.TrimSpace(quizRaw),
	}
}

const digestSuffix = "\n\nResumen de la conversación anterior: "

// RenderAssistant fills the assistant prompt with the session's skin
// profile, the current wall-clock context, and the caller's phone,
// then appends the rolling digest when one exists.
func RenderAssistant(base string, profile contractx.SkinProfile, now time.Time, callerPhone, digest string) string {
	r := strings.NewReplacer(
		"{tipo_de_piel}", string(profile),
		"{fecha_actual}", FormatSpanishDateTime(now),
		"{telefono_cliente}", callerPhone,
	)
	out := r.Replace(base)
	if digest != "" {
		out += digestSuffix + digest
	}
	return out
}

// RenderQuiz returns the quiz prompt, with the digest appended when
// one exists.
func RenderQuiz(base, digest string) string {
	if digest != "" {
		return base + digestSuffix + digest
	}
	return base
}
