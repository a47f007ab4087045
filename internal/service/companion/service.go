package companion

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/melo-wellness/melo/backend/internal/config"
	"github.com/melo-wellness/melo/backend/internal/model/companion"
)

// Service generates Auri's replies through the configured chat model.
type Service struct {
	profiles companion.Store
	cfg      config.AIConfig
	chain    compose.Runnable[map[string]any, *schema.Message]
}

// NewService compiles the companion chain against the configured model.
func NewService(ctx context.Context, profiles companion.Store, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile companion chain: %w", err)
	}

	return &Service{
		profiles: profiles,
		cfg:      cfg,
		chain:    runnable,
	}, nil
}

// StreamingEnabled reports whether SSE streaming output is on.
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// GenerateReply produces a single companion reply for the conversation.
func (s *Service) GenerateReply(ctx context.Context, profile companion.Profile, history []companion.Turn, userMessage, guidance string) (*schema.Message, error) {
	input := s.buildChainInput(profile, history, userMessage, guidance)

	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to run companion chain: %w", err)
	}

	log.Printf("[companion] generated reply profile=%s length=%d", profile.ID, len(response.Content))
	return response, nil
}

// StreamReply streams companion reply chunks via the compiled chain.
func (s *Service) StreamReply(ctx context.Context, profile companion.Profile, history []companion.Turn, userMessage, guidance string) (*schema.StreamReader[*schema.Message], error) {
	if !s.StreamingEnabled() {
		return nil, fmt.Errorf("streaming disabled in configuration")
	}

	input := s.buildChainInput(profile, history, userMessage, guidance)

	stream, err := s.chain.Stream(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to stream companion chain output: %w", err)
	}
	return stream, nil
}

func (s *Service) buildChainInput(profile companion.Profile, history []companion.Turn, userMessage, guidance string) map[string]any {
	return map[string]any{
		"system":  BuildSystemPrompt(profile, guidance),
		"history": buildHistoryMessages(history),
		"query":   userMessage,
	}
}

func buildHistoryMessages(history []companion.Turn) []*schema.Message {
	messages := make([]*schema.Message, 0, len(history))
	for _, turn := range history {
		switch turn.Sender {
		case companion.SenderCompanion:
			messages = append(messages, schema.AssistantMessage(turn.Text, nil))
		default:
			messages = append(messages, schema.UserMessage(turn.Text))
		}
	}
	return messages
}
