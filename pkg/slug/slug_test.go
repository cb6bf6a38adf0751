package slug

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMake(t *testing.T) {
	cases := map[string]string{
		"Hello, World!":          "hello-world",
		"  --Spaced   out-- ":    "spaced-out",
		"Война и мир":            "война-и-мир",
		"Ｆｕｌｌ width":           "full-width",
		"snake_case stays":       "snake_case-stays",
		"!!!":                    "",
		"Chapter 1 - The Start.": "chapter-1-the-start",
	}
	for in, want := range cases {
		assert.Equal(t, want, Make(in, 0), in)
	}
	assert.Equal(t, "abc", Make("abc-def", 4))
}

func TestUnique(t *testing.T) {
	used := map[string]bool{"story": true, "story-1": true}
	got, err := Unique("story", func(c string) (bool, error) { return used[c], nil })
	require.NoError(t, err)
	assert.Equal(t, "story-2", got)

	_, err = Unique("x", func(string) (bool, error) { return false, errors.New("db down") })
	assert.EqualError(t, err, "db down")
}
