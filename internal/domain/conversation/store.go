package conversation

import "context"

// Store maps an opaque session identifier to one conversation's full state.
//
// Implementations must serialize all reads and mutations per session key:
// concurrent Update calls for the same session id never interleave, while
// calls for different session ids proceed independently. Read-modify-write
// of the draft or step field is only safe inside Update's callback.
type Store interface {
	// Update resolves or creates the session's conversation, then runs fn
	// against it under the session's lock. Mutations made by fn are persisted
	// when fn returns nil and discarded when it returns an error.
	Update(ctx context.Context, sessionID string, fn func(*Conversation) error) error

	// Get returns a copy of the session's conversation, or shared.ErrNotFound
	// if the session does not exist.
	Get(ctx context.Context, sessionID string) (*Conversation, error)

	// Remove deletes the session. Removing an absent session is not an error.
	Remove(ctx context.Context, sessionID string) error
}
