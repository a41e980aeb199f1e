package clipboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemory(t *testing.T) {
	var w Writer = &Memory{}
	assert.NoError(t, w.WriteText("こんにちは"))
	assert.Equal(t, "こんにちは", w.(*Memory).Text)
}
