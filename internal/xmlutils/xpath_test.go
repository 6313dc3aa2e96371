package xmlutils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/xmlpath.v2"
)

func TestFirstAndAll(t *testing.T) {
	doc := `<Root><A>  </A><B> first
	   value </B><C>x</C><C></C><C>y</C></Root>`
	root, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	a := xmlpath.MustCompile("/Root/A")
	b := xmlpath.MustCompile("/Root/B")
	missing := xmlpath.MustCompile("/Root/Z")
	assert.Equal(t, "first value", First(root, missing, a, b))
	assert.Equal(t, "", First(root, missing))

	assert.Equal(t, []string{"x", "y"}, All(root, xmlpath.MustCompile("/Root/C")))
	assert.Len(t, Nodes(root, xmlpath.MustCompile("/Root/C")), 3)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse(strings.NewReader("<open>"))
	assert.Error(t, err)
}
