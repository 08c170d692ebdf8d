package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"google.golang.org/genai"

	"github.com/twokomi/oneclick-reports-backend/internal/common"
	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
)

// GeminiGenerator implements interfaces.TextGenerator using the Google
// Gemini API.
type GeminiGenerator struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	timeout time.Duration
}

var _ interfaces.TextGenerator = (*GeminiGenerator)(nil)

// NewGeminiGenerator creates a Gemini-backed text generator.
func NewGeminiGenerator(config *common.GeminiConfig, logger arbor.ILogger) (*GeminiGenerator, error) {
	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid gemini timeout '%s': %w", config.Timeout, err)
	}

	g := &GeminiGenerator{
		config:  config,
		logger:  logger,
		timeout: timeout,
	}

	if config.APIKey != "" {
		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  config.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		g.client = client
	}

	logger.Debug().
		Str("model", config.Model).
		Bool("configured", config.APIKey != "").
		Msg("Gemini text generator initialized")
	return g, nil
}

// Generate performs a single completion attempt.
func (g *GeminiGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	if g.client == nil {
		return "", interfaces.ErrGeneratorNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	genConfig := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(g.config.Temperature),
	}
	if system != "" {
		genConfig.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	contents := []*genai.Content{
		genai.NewContentFromText(user, genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.config.Model, contents, genConfig)
	if err != nil {
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}

	var text strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					text.WriteString(part.Text)
				}
			}
			if text.Len() > 0 {
				break
			}
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("no text in Gemini response")
	}
	return text.String(), nil
}
