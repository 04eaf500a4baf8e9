package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatExchange struct {
	ID        int       `json:"id,omitempty"`
	UserID    int       `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
	Role      Role      `json:"role"`
	Message   string    `json:"message"`
}

type ChatRequest struct {
	UserID         int    `json:"user_id"`
	Message        string `json:"message"`
	IncludeContext bool   `json:"include_context"`
}

// ChatTaskItem is one entry of a structured chat reply.
type ChatTaskItem struct {
	Task       string `json:"task"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Category   string `json:"category"`
	BreakAfter *int   `json:"break_after,omitempty"`
}

type ReplyKind int

const (
	ReplyEmpty ReplyKind = iota
	ReplyText
	ReplyItems
)

// ChatReply is the "response" field of a chat reply: either free text or a
// task array. Kind says which one was decoded.
type ChatReply struct {
	Kind  ReplyKind
	Text  string
	Items []ChatTaskItem
}

func (r *ChatReply) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ChatReply{Kind: ReplyEmpty}
		return nil
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("decode text reply: %w", err)
		}
		*r = ChatReply{Kind: ReplyText, Text: text}
	case '[':
		var items []ChatTaskItem
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("decode structured reply: %w", err)
		}
		*r = ChatReply{Kind: ReplyItems, Items: items}
	default:
		return fmt.Errorf("unsupported reply shape starting with %q", data[0])
	}
	return nil
}

func (r ChatReply) MarshalJSON() ([]byte, error) {
	switch r.Kind {
	case ReplyText:
		return json.Marshal(r.Text)
	case ReplyItems:
		return json.Marshal(r.Items)
	default:
		return []byte("null"), nil
	}
}

type ChatResponse struct {
	Response ChatReply `json:"response"`
}

type ChatHistoryResponse struct {
	Success      bool           `json:"success"`
	Exchanges    []ChatExchange `json:"exchanges"`
	ErrorMessage string         `json:"error,omitempty"`
}
