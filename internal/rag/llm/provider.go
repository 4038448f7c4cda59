package llm

import (
	"context"
	"iter"

	"github.com/chatlet/chatlet/internal/domain/commonModels"
)

// Provider is the generative chat model boundary. History carries the prior
// turns ("user"/"assistant" roles, the implementation maps them to whatever
// the model expects); message is the final user turn, already augmented with
// retrieved context when the caller is in grounded mode.
type Provider interface {
	Generate(ctx context.Context, history []commonModels.Message, message string) (string, error)
	GenerateStream(ctx context.Context, history []commonModels.Message, message string) iter.Seq2[string, error]
}
