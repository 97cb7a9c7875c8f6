package llm

import (
	"errors"
	"net/url"
	"strings"

	"github.com/spec-kit/support-intake/internal/config"
)

// ErrNoProvider is returned when neither provider has credentials.
var ErrNoProvider = errors.New("no AI provider configured")

const (
	ProviderAzure  = "azure-openai"
	ProviderOpenAI = "openai"
)

// Provider describes where and how a chat-completion request is sent.
type Provider struct {
	Name    string
	URL     string
	Model   string
	Headers map[string]string
}

// SelectProvider prefers the Azure deployment when both its endpoint and key
// are set, otherwise the OpenAI key, otherwise ErrNoProvider.
func SelectProvider(cfg config.AIConfig) (*Provider, error) {
	switch {
	case cfg.AzureConfigured():
		return &Provider{
			Name:  ProviderAzure,
			URL:   azureURL(cfg),
			Model: cfg.AzureDeployment,
			Headers: map[string]string{
				"api-key":      cfg.AzureAPIKey,
				"Content-Type": "application/json",
			},
		}, nil
	case cfg.OpenAIConfigured():
		return &Provider{
			Name:  ProviderOpenAI,
			URL:   cfg.OpenAIURL,
			Model: cfg.OpenAIModel,
			Headers: map[string]string{
				"Authorization": "Bearer " + cfg.OpenAIAPIKey,
				"Content-Type":  "application/json",
			},
		}, nil
	default:
		return nil, ErrNoProvider
	}
}

func azureURL(cfg config.AIConfig) string {
	base := strings.TrimRight(cfg.AzureEndpoint, "/")
	return base + "/openai/deployments/" + url.PathEscape(cfg.AzureDeployment) +
		"/chat/completions?api-version=" + url.QueryEscape(cfg.AzureAPIVersion)
}
