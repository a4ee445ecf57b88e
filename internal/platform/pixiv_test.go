package platform

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const illustJSON = `{
  "illust": {
    "id": 96373884,
    "title": "spring",
    "type": "illust",
    "caption": "sketch",
    "create_date": "2022-02-22T12:00:00+09:00",
    "user": {"id": 4455, "name": "Umi", "account": "umi_art"},
    "image_urls": {"large": "https://i.pximg.net/large/96373884_p0.jpg"},
    "meta_single_page": {"original_image_url": "https://i.pximg.net/orig/96373884_p0.png"},
    "meta_pages": []
  }
}`

const illustPagedJSON = `{
  "illust": {
    "id": 96373885,
    "title": "pages",
    "type": "manga",
    "create_date": "2022-02-22T12:00:00+09:00",
    "user": {"id": 4455, "name": "Umi", "account": "umi_art"},
    "image_urls": {"large": "https://i.pximg.net/large/96373885_p0.jpg"},
    "meta_single_page": {},
    "meta_pages": [
      {"image_urls": {"original": "https://i.pximg.net/orig/96373885_p0.png", "large": "https://i.pximg.net/large/96373885_p0.jpg"}},
      {"image_urls": {"original": "https://i.pximg.net/orig/96373885_p1.png", "large": "https://i.pximg.net/large/96373885_p1.jpg"}}
    ]
  }
}`

// newPixivServer serves the oauth and illust endpoints from one handler so
// the token round trip runs against the same test server.
func newPixivServer(t *testing.T, illustBody string) (*PixivFetcher, *int) {
	t.Helper()
	refreshes := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth":
			refreshes++
			require.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.FormValue("grant_type"))
			assert.Equal(t, "refresh-0", r.FormValue("refresh_token"))
			w.Write([]byte(`{"access_token": "access-1", "refresh_token": "refresh-0"}`))
		default:
			assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
			w.Write([]byte(illustBody))
		}
	}))
	t.Cleanup(srv.Close)

	f := NewPixivFetcher("refresh-0")
	f.baseURL = srv.URL
	f.oauthURL = srv.URL + "/oauth"
	return f, &refreshes
}

func TestPixivFetchSinglePage(t *testing.T) {
	f, refreshes := newPixivServer(t, illustJSON)

	media, err := f.Fetch(context.Background(), 96373884)
	require.NoError(t, err)
	assert.Equal(t, 1, *refreshes)

	assert.Equal(t, Pixiv, media.Type)
	assert.EqualValues(t, 96373884, media.ID)
	assert.Equal(t, "https://www.pixiv.net/artworks/96373884", media.Link)
	assert.Equal(t, "illust", media.Media)
	assert.Equal(t, "Umi", media.User)
	assert.Equal(t, "umi_art", media.Username)
	assert.Equal(t, "spring", media.Desc)
	assert.Equal(t, []string{"https://i.pximg.net/orig/96373884_p0.png"}, media.Links)
	assert.Equal(t, []string{"https://i.pximg.net/large/96373884_p0.jpg"}, media.Thumbs)
}

func TestPixivFetchMultiPage(t *testing.T) {
	f, _ := newPixivServer(t, illustPagedJSON)

	media, err := f.Fetch(context.Background(), 96373885)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://i.pximg.net/orig/96373885_p0.png",
		"https://i.pximg.net/orig/96373885_p1.png",
	}, media.Links)
	assert.Len(t, media.Thumbs, 2)
}

func TestPixivFetchTokenReused(t *testing.T) {
	f, refreshes := newPixivServer(t, illustJSON)
	ctx := context.Background()

	_, err := f.Fetch(ctx, 96373884)
	require.NoError(t, err)
	_, err = f.Fetch(ctx, 96373884)
	require.NoError(t, err)
	assert.Equal(t, 1, *refreshes)
}

func TestPixivFetchGoneArtwork(t *testing.T) {
	f, _ := newPixivServer(t,
		`{"error": {"message": "", "user_message": "Artwork has been deleted"}}`)

	_, err := f.Fetch(context.Background(), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Artwork has been deleted")
}

func TestMediaIDs(t *testing.T) {
	twitter := &ArtworkMedia{
		Type: Twitter,
		Links: []string{
			"https://pbs.twimg.com/media/FMabcDEFgHI?format=jpg&name=orig",
			"https://pbs.twimg.com/media/FMjklMNOpQR?format=png&name=orig",
		},
	}
	assert.Equal(t, []string{"FMabcDEFgHI", "FMjklMNOpQR"}, MediaIDs(twitter))

	pixiv := &ArtworkMedia{Type: Pixiv, ID: 96373884}
	assert.Equal(t, []string{"96373884"}, MediaIDs(pixiv))
}
