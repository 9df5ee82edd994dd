package onebot

// MessageEvent is the subset of a OneBot message event push the bot consumes.
// Non-message pushes are identified by PostType and ignored upstream.
type MessageEvent struct {
	PostType    string `json:"post_type"`
	MessageType string `json:"message_type"`
	Time        int64  `json:"time"`
	SelfID      int64  `json:"self_id"`
	UserID      int64  `json:"user_id"`
	GroupID     int64  `json:"group_id,omitempty"`
	RawMessage  string `json:"raw_message"`
}

// IsMessage reports whether the push is a message event.
func (e *MessageEvent) IsMessage() bool {
	return e.PostType == "message"
}

// IsGroup reports whether the message came from a group chat.
func (e *MessageEvent) IsGroup() bool {
	return e.MessageType == "group"
}
