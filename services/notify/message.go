package notify

import "errors"

// ErrEmptyMessage is returned when a message flattens to zero sendable parts.
var ErrEmptyMessage = errors.New("notify: message has no sendable parts")

// Message is the tagged variant accepted by the dispatcher: plain text, a
// rich card, or an ordered sequence of the two.
type Message interface {
	message()
}

// Text is a plain text message part.
type Text string

func (Text) message() {}

// Button is an action link rendered on a card.
type Button struct {
	Label string
	URI   string
	Style string // "primary", "danger" or "" for a plain button
}

// Card is a rich message with a bold title, detail lines and optional
// action buttons.
type Card struct {
	Title   string
	Lines   []string
	Buttons []Button
}

func (Card) message() {}

// Sequence is an ordered list of messages delivered together.
type Sequence []Message

func (Sequence) message() {}

// Flatten normalizes a message into its ordered list of leaf parts. Empty
// text parts, empty cards and nil entries are dropped.
func Flatten(m Message) []Message {
	var parts []Message
	appendParts(&parts, m)
	return parts
}

func appendParts(parts *[]Message, m Message) {
	switch v := m.(type) {
	case nil:
	case Text:
		if v != "" {
			*parts = append(*parts, v)
		}
	case Card:
		if v.Title != "" || len(v.Lines) > 0 {
			*parts = append(*parts, v)
		}
	case Sequence:
		for _, inner := range v {
			appendParts(parts, inner)
		}
	}
}
