package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/dermaluz/concierge/agent/contract"
	openrouterx "github.com/dermaluz/concierge/pkg/openrouter"
)

// Role selects which model slot a config resolves to.
type Role string

const (
	RoleAssistant Role = "assistant"
	RoleQuiz      Role = "quiz"
	RoleDigest    Role = "digest"
)

type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	AssistantModel       string  `envconfig:"ASSISTANT_MODEL" split_words:"true"`
	QuizModel            string  `envconfig:"QUIZ_MODEL" split_words:"true"`
	DigestModel          string  `envconfig:"DIGEST_MODEL" split_words:"true"`
	AssistantTemperature float32 `envconfig:"ASSISTANT_TEMPERATURE" split_words:"true" default:"-1"`
	QuizTemperature      float32 `envconfig:"QUIZ_TEMPERATURE" split_words:"true" default:"-1"`
	DigestTemperature    float32 `envconfig:"DIGEST_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

func (c Config) OpenRouterFor(role Role) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch role {
	case RoleAssistant:
		if v := strings.TrimSpace(c.AssistantModel); v != "" {
			modelName = v
		}
		if c.AssistantTemperature >= 0 {
			temp = c.AssistantTemperature
		}
	case RoleQuiz:
		if v := strings.TrimSpace(c.QuizModel); v != "" {
			modelName = v
		}
		if c.QuizTemperature >= 0 {
			temp = c.QuizTemperature
		}
	case RoleDigest:
		if v := strings.TrimSpace(c.DigestModel); v != "" {
			modelName = v
		}
		if c.DigestTemperature >= 0 {
			temp = c.DigestTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
