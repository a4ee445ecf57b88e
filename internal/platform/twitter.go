package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"hayami/internal/models"
	"hayami/internal/observability"
)

const twitterAPI = "https://api.twitter.com/2"

// full-resolution image url built from the media id and format of the
// CDN link reported by the API
const twitterFullFormat = "https://pbs.twimg.com/media/%s?format=%s&name=orig"

var twitterMediaRe = regexp.MustCompile(`media/(?P<id>[^.?]+)(?:\?.*format=|\.)(?P<format>\w+)`)

// TwitterFetcher retrieves tweet metadata through the Twitter v2 API using an
// app bearer token.
type TwitterFetcher struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// NewTwitterFetcher creates a fetcher authenticated with the given bearer
// token.
func NewTwitterFetcher(token string) *TwitterFetcher {
	return &TwitterFetcher{
		token:   token,
		baseURL: twitterAPI,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type tweetResponse struct {
	Data struct {
		ID        string    `json:"id"`
		Text      string    `json:"text"`
		CreatedAt time.Time `json:"created_at"`
		Entities  struct {
			URLs []struct {
				URL         string `json:"url"`
				ExpandedURL string `json:"expanded_url"`
			} `json:"urls"`
		} `json:"entities"`
	} `json:"data"`
	Includes struct {
		Media []struct {
			Type            string `json:"type"`
			URL             string `json:"url"`
			PreviewImageURL string `json:"preview_image_url"`
		} `json:"media"`
		Users []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Username string `json:"username"`
		} `json:"users"`
	} `json:"includes"`
	Errors []struct {
		Title  string `json:"title"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// Fetch returns the artwork metadata for a tweet id.
func (f *TwitterFetcher) Fetch(ctx context.Context, id int64) (*ArtworkMedia, error) {
	url := fmt.Sprintf("%s/tweets/%d"+
		"?expansions=attachments.media_keys,author_id"+
		"&tweet_fields=id,text,created_at,entities"+
		"&user_fields=id,name,username"+
		"&media_fields=type,preview_image_url,url", f.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.token)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		observability.MetadataFetchFailures.WithLabelValues(Twitter.String()).Inc()
		return nil, models.NewMetadataUnavailableError(fmt.Errorf("twitter: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		observability.MetadataFetchFailures.WithLabelValues(Twitter.String()).Inc()
		return nil, models.NewMetadataUnavailableError(
			fmt.Errorf("twitter: status %d: %s", resp.StatusCode, body))
	}

	var tweet tweetResponse
	if err := json.Unmarshal(body, &tweet); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(tweet.Errors) > 0 {
		return nil, models.NewMetadataUnavailableError(
			fmt.Errorf("twitter: %s: %s", tweet.Errors[0].Title, tweet.Errors[0].Detail))
	}
	if len(tweet.Includes.Media) == 0 || len(tweet.Includes.Users) == 0 {
		return nil, models.NewMetadataUnavailableError(
			fmt.Errorf("tweet %d has no media", id))
	}

	user := tweet.Includes.Users[0]
	userID, _ := strconv.ParseInt(user.ID, 10, 64)
	kind := tweet.Includes.Media[0].Type

	var links, thumbs []string
	for _, m := range tweet.Includes.Media {
		src := m.URL
		if src == "" {
			// videos and gifs only expose the preview frame here
			src = m.PreviewImageURL
		}
		full, ok := fullResolutionLink(src)
		if !ok {
			continue
		}
		links = append(links, full)
		thumbs = append(thumbs, strings.Replace(full, "orig", "large", 1))
	}
	if len(links) == 0 {
		return nil, models.NewMetadataUnavailableError(
			fmt.Errorf("tweet %d: no usable media links", id))
	}

	return &ArtworkMedia{
		Link:     fmt.Sprintf("https://twitter.com/%s/status/%d", user.Username, id),
		Type:     Twitter,
		ID:       id,
		Media:    kind,
		UserID:   userID,
		User:     user.Name,
		Username: user.Username,
		Date:     tweet.Data.CreatedAt,
		Desc:     cleanTweetText(tweet.Data.Text, tweet.Data.Entities.URLs),
		Links:    links,
		Thumbs:   thumbs,
	}, nil
}

// fullResolutionLink rebuilds a CDN media url into its original-quality form.
func fullResolutionLink(src string) (string, bool) {
	m := twitterMediaRe.FindStringSubmatch(src)
	if m == nil {
		return "", false
	}
	return fmt.Sprintf(twitterFullFormat, m[1], m[2]), true
}

// cleanTweetText strips the trailing self-link and expands shortened urls.
func cleanTweetText(text string, urls []struct {
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url"`
}) string {
	if len(urls) > 0 {
		text = strings.Replace(text, urls[len(urls)-1].URL, "", 1)
	}
	for _, u := range urls {
		text = strings.Replace(text, u.URL, u.ExpandedURL, 1)
	}
	return strings.TrimSpace(text)
}
