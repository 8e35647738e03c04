package service

import (
	"context"
	"iter"
)

// Streamer opens conversations against the hosted completion API.
type Streamer interface {
	StartChat(ctx context.Context, systemInstruction string) (Conversation, error)
}

// Conversation keeps its own history upstream. SendStream yields text fragments; a non-nil
// error ends the sequence.
type Conversation interface {
	SendStream(ctx context.Context, text string) iter.Seq2[string, error]
}
