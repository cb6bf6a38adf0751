package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storyhub/pkg/apperr"
)

type payload struct {
	Title string `validate:"notblank,max=10,no_xss"`
	Lang  string `validate:"required,langcode"`
	Mode  string `validate:"omitempty,oneof=a b"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(payload{Title: "Fox", Lang: "en"}))
	require.NoError(t, Struct(payload{Title: "Fox", Lang: "pt-br", Mode: "b"}))

	cases := []struct {
		name string
		in   payload
		msg  string
	}{
		{"blank title", payload{Title: "  ", Lang: "en"}, "title is required"},
		{"long title", payload{Title: "abcdefghijk", Lang: "en"}, "title must be at most 10"},
		{"markup", payload{Title: "<script>", Lang: "en"}, "not allowed"},
		{"bad lang", payload{Title: "Fox", Lang: "English"}, "language code"},
		{"bad mode", payload{Title: "Fox", Lang: "en", Mode: "c"}, "mode must be one of"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Struct(tc.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperr.ErrValidation)
			assert.Contains(t, err.Error(), tc.msg)
		})
	}
}
