package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"hayami/internal/models"
	"hayami/internal/observability"
)

const (
	pixivAppAPI = "https://app-api.pixiv.net"
	pixivOAuth  = "https://oauth.secure.pixiv.net/auth/token"

	// public mobile app credentials, required by the oauth endpoint
	pixivClientID     = "MOBrBDS8blbauoSck0ZfDbtuzpyT"
	pixivClientSecret = "lsACyCD94FhDUtGTXi3QzcFE2uU1hqtDaKeqrdwj"

	pixivAuthRetries = 3
)

// PixivFetcher retrieves illustration metadata through the pixiv app API.
// Access tokens expire quickly, so the fetcher refreshes them on demand from
// the long-lived refresh token.
type PixivFetcher struct {
	baseURL  string
	oauthURL string

	httpClient *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

// NewPixivFetcher creates a fetcher from a refresh token. The first Fetch
// call obtains an access token.
func NewPixivFetcher(refreshToken string) *PixivFetcher {
	return &PixivFetcher{
		baseURL:      pixivAppAPI,
		oauthURL:     pixivOAuth,
		refreshToken: refreshToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type pixivIllust struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	Type       string `json:"type"` // "illust", "manga" or "ugoira"
	Caption    string `json:"caption"`
	CreateDate string `json:"create_date"`
	User       struct {
		ID      int64  `json:"id"`
		Name    string `json:"name"`
		Account string `json:"account"`
	} `json:"user"`
	ImageURLs struct {
		Large string `json:"large"`
	} `json:"image_urls"`
	MetaSinglePage struct {
		OriginalImageURL string `json:"original_image_url"`
	} `json:"meta_single_page"`
	MetaPages []struct {
		ImageURLs struct {
			Original string `json:"original"`
			Large    string `json:"large"`
		} `json:"image_urls"`
	} `json:"meta_pages"`
}

type pixivIllustResponse struct {
	Illust *pixivIllust `json:"illust"`
	Error  *struct {
		Message     string `json:"message"`
		UserMessage string `json:"user_message"`
	} `json:"error"`
}

// Fetch returns the artwork metadata for a pixiv illustration id.
func (f *PixivFetcher) Fetch(ctx context.Context, id int64) (*ArtworkMedia, error) {
	var lastErr error
	for try := 0; try < pixivAuthRetries; try++ {
		res, err := f.illustDetail(ctx, id)
		if err != nil {
			observability.MetadataFetchFailures.WithLabelValues(Pixiv.String()).Inc()
			return nil, models.NewMetadataUnavailableError(fmt.Errorf("pixiv: %w", err))
		}
		if res.Error == nil {
			return illustMedia(res.Illust), nil
		}
		if res.Error.UserMessage != "" {
			// a user-facing message means the work itself is gone
			observability.MetadataFetchFailures.WithLabelValues(Pixiv.String()).Inc()
			return nil, models.NewMetadataUnavailableError(
				fmt.Errorf("pixiv: %s", res.Error.UserMessage))
		}
		// otherwise the access token went stale
		lastErr = fmt.Errorf("pixiv: %s", res.Error.Message)
		if err := f.refreshAccessToken(ctx); err != nil {
			lastErr = err
		}
	}
	observability.MetadataFetchFailures.WithLabelValues(Pixiv.String()).Inc()
	return nil, models.NewMetadataUnavailableError(lastErr)
}

func (f *PixivFetcher) illustDetail(ctx context.Context, id int64) (*pixivIllustResponse, error) {
	f.mu.Lock()
	token := f.accessToken
	f.mu.Unlock()
	if token == "" {
		if err := f.refreshAccessToken(ctx); err != nil {
			return nil, err
		}
		f.mu.Lock()
		token = f.accessToken
		f.mu.Unlock()
	}

	endpoint := fmt.Sprintf("%s/v1/illust/detail?illust_id=%d", f.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var res pixivIllustResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if res.Error == nil && res.Illust == nil {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, body)
	}
	return &res, nil
}

func (f *PixivFetcher) refreshAccessToken(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	form := url.Values{
		"client_id":      {pixivClientID},
		"client_secret":  {pixivClientSecret},
		"grant_type":     {"refresh_token"},
		"include_policy": {"true"},
		"refresh_token":  {f.refreshToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.oauthURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "PixivIOSApp/7.13.3 (iOS 14.6; iPhone13,2)")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("refresh token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refresh token: status %d: %s", resp.StatusCode, body)
	}

	var tokens struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal(body, &tokens); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	f.accessToken = tokens.AccessToken
	if tokens.RefreshToken != "" {
		f.refreshToken = tokens.RefreshToken
	}
	return nil
}

func illustMedia(illust *pixivIllust) *ArtworkMedia {
	var links, thumbs []string
	if illust.MetaSinglePage.OriginalImageURL != "" {
		links = []string{illust.MetaSinglePage.OriginalImageURL}
		thumbs = []string{illust.ImageURLs.Large}
	} else {
		for _, page := range illust.MetaPages {
			links = append(links, page.ImageURLs.Original)
			thumbs = append(thumbs, page.ImageURLs.Large)
		}
	}

	date, _ := time.Parse(time.RFC3339, illust.CreateDate)
	return &ArtworkMedia{
		Link:     fmt.Sprintf("https://www.pixiv.net/artworks/%d", illust.ID),
		Type:     Pixiv,
		ID:       illust.ID,
		Media:    illust.Type,
		UserID:   illust.User.ID,
		User:     illust.User.Name,
		Username: illust.User.Account,
		Date:     date,
		Desc:     illust.Title,
		Links:    links,
		Thumbs:   thumbs,
	}
}
