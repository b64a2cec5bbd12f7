package consent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueString(t *testing.T) {
	assert.Equal(t, "ACCEPTED", Accepted.String())
	assert.Equal(t, "NOT_ACCEPTED", NotAccepted.String())
	assert.Equal(t, "REQUIRED", Required.String())
	assert.Equal(t, "Value(0)", Value(0).String())
}

func TestParseValue(t *testing.T) {
	for _, v := range []Value{Accepted, NotAccepted, Required} {
		parsed, ok := ParseValue(v.String())
		assert.True(t, ok, v.String())
		assert.Equal(t, v, parsed)
	}

	for _, raw := range []string{"", "accepted", "Required", " ACCEPTED", "YES"} {
		_, ok := ParseValue(raw)
		assert.False(t, ok, "%q should not parse", raw)
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "ABSENT", Absent.String())
	assert.Equal(t, "REQUIRED", Stored(Required).String())
	assert.True(t, Stored(Accepted).Is(Accepted))
	assert.False(t, Absent.Is(Accepted))
	assert.False(t, Stored(NotAccepted).Is(Required))
}
