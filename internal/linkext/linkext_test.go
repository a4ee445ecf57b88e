package linkext

import (
	"testing"

	"hayami/internal/platform"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Link
	}{
		{
			name: "Twitter status link",
			text: "look https://twitter.com/some_artist/status/1496120906450382849 !",
			want: []Link{
				{
					Type: platform.Twitter,
					URL:  "https://twitter.com/some_artist/status/1496120906450382849",
					ID:   1496120906450382849,
				},
			},
		},
		{
			name: "Twitter statuses variant without scheme",
			text: "www.twitter.com/artist/statuses/123456",
			want: []Link{
				{
					Type: platform.Twitter,
					URL:  "https://twitter.com/artist/status/123456",
					ID:   123456,
				},
			},
		},
		{
			name: "Pixiv artworks link",
			text: "https://www.pixiv.net/artworks/96373884",
			want: []Link{
				{
					Type: platform.Pixiv,
					URL:  "https://www.pixiv.net/artworks/96373884",
					ID:   96373884,
				},
			},
		},
		{
			name: "Pixiv link with language prefix",
			text: "see https://www.pixiv.net/en/artworks/88554331",
			want: []Link{
				{
					Type: platform.Pixiv,
					URL:  "https://www.pixiv.net/artworks/88554331",
					ID:   88554331,
				},
			},
		},
		{
			name: "Mixed platforms keep text order",
			text: "https://www.pixiv.net/artworks/11 and https://twitter.com/a/status/22",
			want: []Link{
				{Type: platform.Pixiv, URL: "https://www.pixiv.net/artworks/11", ID: 11},
				{Type: platform.Twitter, URL: "https://twitter.com/a/status/22", ID: 22},
			},
		},
		{
			name: "Duplicates are kept",
			text: "https://twitter.com/a/status/7 https://twitter.com/a/status/7",
			want: []Link{
				{Type: platform.Twitter, URL: "https://twitter.com/a/status/7", ID: 7},
				{Type: platform.Twitter, URL: "https://twitter.com/a/status/7", ID: 7},
			},
		},
		{
			name: "Unrelated text yields nothing",
			text: "hello there, no links today",
			want: nil,
		},
		{
			name: "Empty text yields nothing",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)
			require.Len(t, got, len(tt.want))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsSelection(t *testing.T) {
	assert.True(t, IsSelection("1"))
	assert.True(t, IsSelection(" 1-3, 5 "))
	assert.True(t, IsSelection("10-8"))
	assert.False(t, IsSelection("choose 1-3"))
	assert.False(t, IsSelection("https://twitter.com/a/status/7"))
	assert.False(t, IsSelection(""))
}
