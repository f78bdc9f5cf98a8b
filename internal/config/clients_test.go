package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClients(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []ClientEndpoint
	}{
		{name: "empty", raw: "", want: nil},
		{name: "whitespace only", raw: "  \n ", want: nil},
		{
			name: "single entry",
			raw:  "https://shop.example.com,secret1",
			want: []ClientEndpoint{{URL: "https://shop.example.com", Key: "secret1"}},
		},
		{
			name: "semicolon separated",
			raw:  "https://a.example.com,k1;https://b.example.com,k2",
			want: []ClientEndpoint{
				{URL: "https://a.example.com", Key: "k1"},
				{URL: "https://b.example.com", Key: "k2"},
			},
		},
		{
			name: "newline separated with blanks",
			raw:  "https://a.example.com,k1\n\n https://b.example.com , k2 \n",
			want: []ClientEndpoint{
				{URL: "https://a.example.com", Key: "k1"},
				{URL: "https://b.example.com", Key: "k2"},
			},
		},
		{
			name: "trailing slash trimmed",
			raw:  "https://shop.example.com/,k",
			want: []ClientEndpoint{{URL: "https://shop.example.com", Key: "k"}},
		},
		{
			name: "missing key allowed",
			raw:  "https://shop.example.com",
			want: []ClientEndpoint{{URL: "https://shop.example.com", Key: ""}},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseClients(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseClientsMissingURL(t *testing.T) {
	_, err := ParseClients(",justakey")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing url")
}
