package rewriter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/pageserve/internal/rewriter"
)

func TestRepairEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "curly apostrophe",
			in:   "itâ€™s here",
			want: "it’s here",
		},
		{
			name: "double quotes",
			in:   "â€œquotedâ€",
			want: "“quoted”",
		},
		{
			name: "em dash and ellipsis",
			in:   "wait â€” andâ€¦",
			want: "wait — and…",
		},
		{
			name: "accented letters",
			in:   "cafÃ© jalapeÃ±o",
			want: "café jalapeño",
		},
		{
			name: "stray non-breaking space marker",
			in:   "price:Â 100",
			want: "price: 100",
		},
		{
			name: "entity-spelled mojibake",
			in:   "it&acirc;&euro;&trade;s",
			want: "it’s",
		},
		{
			name: "clean input is untouched",
			in:   "already fine — café “quoted”",
			want: "already fine — café “quoted”",
		},
		{
			name: "unknown sequences pass through",
			in:   "Ã¿ odd",
			want: "Ã¿ odd",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, rewriter.RepairEncoding(tt.in))
		})
	}
}
