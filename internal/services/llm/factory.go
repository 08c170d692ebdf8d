// Package llm provides the text-generation collaborator used by
// analysis-mode report composition. Two providers are supported, Google
// Gemini and Anthropic Claude, selected by configuration.
package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/twokomi/oneclick-reports-backend/internal/common"
	"github.com/twokomi/oneclick-reports-backend/internal/interfaces"
)

// NewTextGenerator creates the configured provider. An unconfigured
// provider (no API key) still constructs successfully; its Generate
// returns interfaces.ErrGeneratorNotConfigured so the composer can
// degrade instead of the application failing to start.
func NewTextGenerator(config *common.Config, logger arbor.ILogger) (interfaces.TextGenerator, error) {
	switch config.LLM.DefaultProvider {
	case common.LLMProviderGemini:
		return NewGeminiGenerator(&config.Gemini, logger)
	case common.LLMProviderClaude:
		return NewClaudeGenerator(&config.Claude, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider '%s'", config.LLM.DefaultProvider)
	}
}
