package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversation_WithDoesNotMutate(t *testing.T) {
	base := NewConversation("review this")
	extended := base.With(RoleModel, "looks good")
	again := base.With(RoleModel, "needs work")

	assert.Len(t, base, 1)
	assert.Len(t, extended, 2)
	assert.Equal(t, "looks good", extended[1].Text)
	assert.Equal(t, "needs work", again[1].Text)
	assert.Equal(t, RoleUser, extended[0].Role)
}

func TestConversation_Transcript(t *testing.T) {
	assert.Equal(t, "hi", NewConversation("hi").Transcript())

	c := NewConversation("hi").With(RoleModel, "hello").With(RoleUser, "bye")
	assert.Equal(t, "user: hi\n\nmodel: hello\n\nuser: bye", c.Transcript())
}
