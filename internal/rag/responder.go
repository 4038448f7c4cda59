package rag

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/chatlet/chatlet/internal/config"
	"github.com/chatlet/chatlet/internal/domain/apperrors"
	"github.com/chatlet/chatlet/internal/domain/commonModels"
)

const groundedPromptFormat = "Context from uploaded documents:\n%s\n\nBased on the above context, please answer the following question:\n%s"

// Respond answers the latest message of a conversation. Retrieval runs on the
// newest user turn only; when it finds context the answer is generated in one
// shot (Complete), otherwise the model streams freely (Stream). Either way the
// full conversation including the assistant turn is persisted exactly once,
// after generation finishes and only if it finishes.
func (s *service) Respond(ctx context.Context, input ChatInput) (Answer, error) {
	if len(input.Messages) == 0 {
		return nil, apperrors.Validation("messages must not be empty")
	}
	last := input.Messages[len(input.Messages)-1]
	if strings.TrimSpace(last.Content) == "" {
		return nil, apperrors.Validation("message content must not be empty")
	}
	history := input.Messages[:len(input.Messages)-1]

	s.trackUsage(input.TenantId, "chat")

	docContext := s.retrieveContext(ctx, input.TenantId, last.Content)

	if docContext != "" {
		genCtx, cancel := context.WithTimeout(ctx, config.GenerationTimeout)
		defer cancel()

		prompt := fmt.Sprintf(groundedPromptFormat, docContext, last.Content)
		text, err := s.llm.Generate(genCtx, history, prompt)
		if err != nil {
			return nil, err
		}
		s.persistConversation(input, text)
		return Complete{Text: text}, nil
	}

	return Stream{Fragments: s.streamAnswer(ctx, input, history, last.Content)}, nil
}

// streamAnswer forwards model fragments to the consumer while accumulating
// the full reply. Persistence happens only when the model finished and the
// consumer stayed for the whole stream; an upstream error or an early
// disconnect leaves the conversation untouched.
func (s *service) streamAnswer(ctx context.Context, input ChatInput, history []commonModels.Message, message string) func(yield func(string, error) bool) {
	return func(yield func(string, error) bool) {
		genCtx, cancel := context.WithTimeout(ctx, config.GenerationTimeout)
		defer cancel()

		var reply strings.Builder
		for fragment, err := range s.llm.GenerateStream(genCtx, history, message) {
			if err != nil {
				yield("", err)
				return
			}
			reply.WriteString(fragment)
			if !yield(fragment, nil) {
				return
			}
		}
		s.persistConversation(input, reply.String())
	}
}

// persistConversation appends the assistant turn and saves the conversation.
// Runs on its own context: by the time a stream completes the request context
// may already be on its way out.
func (s *service) persistConversation(input ChatInput, reply string) {
	conv := commonModels.Conversation{
		Id:        input.ConversationId,
		UserId:    input.UserId,
		Title:     conversationTitle(input.Messages[0].Content),
		Messages:  append(append([]commonModels.Message{}, input.Messages...), commonModels.Message{Role: "assistant", Content: reply}),
		CreatedAt: time.Now().UTC(),
	}
	if conv.Id == "" {
		conv.Id = uuid.NewString()
	}

	saveCtx, cancel := context.WithTimeout(context.Background(), config.PersistenceTimeout)
	defer cancel()

	if err := s.chats.Save(saveCtx, conv); err != nil {
		s.logger.Error("failed to persist conversation", "conversationId", conv.Id, "error", err)
	}
}

func conversationTitle(firstMessage string) string {
	runes := []rune(firstMessage)
	if len(runes) > 100 {
		return string(runes[:100])
	}
	return firstMessage
}
