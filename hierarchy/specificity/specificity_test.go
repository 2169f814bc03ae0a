package specificity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJoinSplitRoundTrip(t *testing.T) {
	paths := [][]string{
		{"Thing"},
		{"Thing", "CreativeWork", "Article"},
		{"Thing", "Intangible", "Enumeration", "DayOfWeek", "Monday"},
	}
	for _, labels := range paths {
		joined := Join(labels)
		assert.Equal(t, labels, Split(joined))
	}
	assert.Equal(t, "Thing.CreativeWork.Article", Join([]string{"Thing", "CreativeWork", "Article"}))
}

func TestSplitEmpty(t *testing.T) {
	assert.Nil(t, Split(""))
}

func TestAppendAndLast(t *testing.T) {
	assert.Equal(t, "Thing", Append("", "Thing"))
	assert.Equal(t, "Thing.Action", Append("Thing", "Action"))
	assert.Equal(t, "Action", Last("Thing.Action"))
	assert.Equal(t, "Thing", Last("Thing"))
}
