package chat

import (
	"context"

	"github.com/erp/chatbot/internal/domain/conversation"
)

// DocumentPoster is the commit boundary invoked on the CONFIRM to END
// transition. It receives the finalized draft snapshot; delivery to the
// back-office system is the implementation's concern and is fire-and-forget
// from the conversation's perspective.
type DocumentPoster interface {
	Post(ctx context.Context, snapshot conversation.Snapshot) error
}
