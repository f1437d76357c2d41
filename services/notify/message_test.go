package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatten(t *testing.T) {
	t.Run("single text", func(t *testing.T) {
		parts := Flatten(Text("hello"))
		require.Len(t, parts, 1)
		assert.Equal(t, Text("hello"), parts[0])
	})

	t.Run("single card", func(t *testing.T) {
		card := Card{Title: "title", Lines: []string{"a", "b"}}
		parts := Flatten(card)
		require.Len(t, parts, 1)
		assert.Equal(t, card, parts[0])
	})

	t.Run("sequence keeps order", func(t *testing.T) {
		parts := Flatten(Sequence{
			Text("first"),
			Card{Title: "second"},
			Text("third"),
		})
		require.Len(t, parts, 3)
		assert.Equal(t, Text("first"), parts[0])
		assert.Equal(t, Card{Title: "second"}, parts[1])
		assert.Equal(t, Text("third"), parts[2])
	})

	t.Run("nested sequences are flattened in order", func(t *testing.T) {
		parts := Flatten(Sequence{
			Sequence{Text("a"), Text("b")},
			Text("c"),
		})
		require.Len(t, parts, 3)
		assert.Equal(t, Text("a"), parts[0])
		assert.Equal(t, Text("c"), parts[2])
	})

	t.Run("empty parts are dropped", func(t *testing.T) {
		parts := Flatten(Sequence{Text(""), Card{}, nil})
		assert.Empty(t, parts)
	})

	t.Run("nil message", func(t *testing.T) {
		assert.Empty(t, Flatten(nil))
	})
}
