package mqtt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClientID(t *testing.T) {
	a := ClientID("rainpath-cases")
	b := ClientID("rainpath-cases")

	assert.True(t, strings.HasPrefix(a, "rainpath-cases-"))
	assert.Len(t, a, len("rainpath-cases-")+8)
	assert.NotEqual(t, a, b)
	assert.Len(t, ClientID(""), 8)
}
