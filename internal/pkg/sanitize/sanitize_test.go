package sanitize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessage_MasksContacts(t *testing.T) {
	assert.Equal(t, "write me at ***", Message("write me at guest@example.com"))
	assert.Equal(t, "ping *** tonight", Message("ping @somehandle tonight"))
	assert.Equal(t, "see ***", Message("see t.me/somebody"))
}

func TestMessage_LeavesPlainTextAlone(t *testing.T) {
	text := "two adults, one child, arriving after 18:00"
	assert.Equal(t, text, Message(text))
}

func TestCapped_TruncatesToLimit(t *testing.T) {
	long := strings.Repeat("x", 300)
	got := Capped(long, 255)
	assert.Len(t, got, 255)
}

func TestCappedOrDefault_BlankAndPlaceholder(t *testing.T) {
	assert.Equal(t, "No additional details", CappedOrDefault("", 255, "send comment", "No additional details"))
	assert.Equal(t, "No additional details", CappedOrDefault("  send comment ", 255, "send comment", "No additional details"))
	assert.Equal(t, "late arrival", CappedOrDefault("late arrival", 255, "send comment", "No additional details"))
}
