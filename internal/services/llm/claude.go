package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"

	"github.com/twokomi/oneclick-reports-backend/internal/common"
	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
)

// ClaudeGenerator implements interfaces.TextGenerator using the
// Anthropic Claude API.
type ClaudeGenerator struct {
	config  *common.ClaudeConfig
	logger  arbor.ILogger
	client  anthropic.Client
	timeout time.Duration
}

var _ interfaces.TextGenerator = (*ClaudeGenerator)(nil)

// NewClaudeGenerator creates a Claude-backed text generator.
func NewClaudeGenerator(config *common.ClaudeConfig, logger arbor.ILogger) (*ClaudeGenerator, error) {
	timeout, err := time.ParseDuration(config.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid claude timeout '%s': %w", config.Timeout, err)
	}

	g := &ClaudeGenerator{
		config:  config,
		logger:  logger,
		timeout: timeout,
	}
	if config.APIKey != "" {
		g.client = anthropic.NewClient(option.WithAPIKey(config.APIKey))
	}

	logger.Debug().
		Str("model", config.Model).
		Bool("configured", config.APIKey != "").
		Msg("Claude text generator initialized")
	return g, nil
}

// Generate performs a single completion attempt.
func (g *ClaudeGenerator) Generate(ctx context.Context, system, user string) (string, error) {
	if g.config.APIKey == "" {
		return "", interfaces.ErrGeneratorNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.config.Model),
		MaxTokens: int64(g.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	}
	if g.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(g.config.Temperature))
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	resp, err := g.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("Claude API call failed: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("no text in Claude response")
	}
	return text.String(), nil
}
