package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextPageLink(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   string
	}{
		{
			name:   "empty header",
			header: "",
			want:   "",
		},
		{
			name:   "next present",
			header: `<https://canvas.test/api/v1/courses?page=2&per_page=10>; rel="next", <https://canvas.test/api/v1/courses?page=1&per_page=10>; rel="first"`,
			want:   "https://canvas.test/api/v1/courses?page=2&per_page=10",
		},
		{
			name:   "last page",
			header: `<https://canvas.test/api/v1/courses?page=1&per_page=10>; rel="first", <https://canvas.test/api/v1/courses?page=1&per_page=10>; rel="last"`,
			want:   "",
		},
		{
			name:   "malformed section ignored",
			header: `garbage, <https://canvas.test/x?page=3>; rel="next"`,
			want:   "https://canvas.test/x?page=3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nextPageLink(tt.header))
		})
	}
}
