package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSum(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	assert.Equal(t, want, SumString("abc"))
	assert.Equal(t, want, Sum([]byte("abc")))
}

func TestMatches(t *testing.T) {
	sum := SumString("x")
	cases := []struct {
		header string
		want   bool
	}{
		{`"` + sum + `"`, true},
		{sum, true},
		{"", false},
		{`"other"`, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Matches(c.header, sum), "header %q", c.header)
	}
}
