package localization

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/Belphemur/TVApi/internal/config"
	"github.com/Belphemur/TVApi/internal/models"
)

// DefaultTVDBBaseURL is the TVDB v4 API root.
const DefaultTVDBBaseURL = "https://api4.thetvdb.com/v4"

// tokenLifetime is shorter than the month TVDB grants so a token is never used at the edge.
const tokenLifetime = 23 * time.Hour

// maxEpisodePages bounds the episode listing walk.
const maxEpisodePages = 50

var errUnauthorized = errors.New("tvdb token rejected")

// TVDBClient is a minimal TVDB v4 client implementing Source.
type TVDBClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
}

var _ Source = (*TVDBClient)(nil)

// NewTVDBClient creates a TVDB client from the tvdb section of cfg.
func NewTVDBClient(cfg *config.Config) *TVDBClient {
	timeout := 15 * time.Second
	if cfg.TVDB.Timeout != "" {
		if parsed, err := time.ParseDuration(cfg.TVDB.Timeout); err != nil {
			logger := config.GetLogger()
			logger.Warn().Err(err).Str("timeout", cfg.TVDB.Timeout).Msg("Invalid TVDB timeout, using default 15s")
		} else {
			timeout = parsed
		}
	}

	baseURL := strings.TrimRight(cfg.TVDB.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultTVDBBaseURL
	}

	return &TVDBClient{
		baseURL:    baseURL,
		apiKey:     cfg.TVDB.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Languages lists every language TVDB offers translations for.
func (c *TVDBClient) Languages(ctx context.Context) ([]models.Language, error) {
	var resp struct {
		Data []struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			ShortCode string `json:"shortCode"`
		} `json:"data"`
	}
	if err := c.get(ctx, "/languages", nil, &resp); err != nil {
		return nil, err
	}

	languages := make([]models.Language, 0, len(resp.Data))
	for _, l := range resp.Data {
		languages = append(languages, models.Language{Abbreviation: l.ID, Name: l.Name})
	}
	return languages, nil
}

// SeriesLocalization fetches the series translation and the translated
// episode listing concurrently. Any failure fails the whole lookup.
func (c *TVDBClient) SeriesLocalization(ctx context.Context, seriesID, lang string) (*models.Localization, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(seriesID), 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid tvdb series id %q", seriesID)
	}

	var (
		overview string
		episodes []models.EpisodeLocalization
	)

	p := pool.New().WithErrors().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		translation, err := c.seriesTranslation(ctx, id, lang)
		if err != nil {
			return err
		}
		overview = translation
		return nil
	})
	p.Go(func(ctx context.Context) error {
		translated, err := c.seriesEpisodes(ctx, id, lang)
		if err != nil {
			return err
		}
		episodes = translated
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return &models.Localization{Overview: overview, Episodes: episodes}, nil
}

func (c *TVDBClient) seriesTranslation(ctx context.Context, id int64, lang string) (string, error) {
	var resp struct {
		Data struct {
			Language string `json:"language"`
			Name     string `json:"name"`
			Overview string `json:"overview"`
		} `json:"data"`
	}
	path := fmt.Sprintf("/series/%d/translations/%s", id, url.PathEscape(lang))
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return "", err
	}
	return resp.Data.Overview, nil
}

// seriesEpisodes walks the default season-type episode listing, following links.next.
func (c *TVDBClient) seriesEpisodes(ctx context.Context, id int64, lang string) ([]models.EpisodeLocalization, error) {
	path := fmt.Sprintf("/series/%d/episodes/default/%s", id, url.PathEscape(lang))
	results := make([]models.EpisodeLocalization, 0, 64)

	for page := 0; page < maxEpisodePages; page++ {
		var resp struct {
			Data struct {
				Episodes []struct {
					ID       int64  `json:"id"`
					Overview string `json:"overview"`
				} `json:"episodes"`
			} `json:"data"`
			Links struct {
				Next *string `json:"next"`
			} `json:"links"`
		}
		if err := c.get(ctx, path, url.Values{"page": {strconv.Itoa(page)}}, &resp); err != nil {
			return nil, err
		}
		for _, e := range resp.Data.Episodes {
			results = append(results, models.EpisodeLocalization{
				ID:       strconv.FormatInt(e.ID, 10),
				Overview: e.Overview,
			})
		}
		if resp.Links.Next == nil || strings.TrimSpace(*resp.Links.Next) == "" {
			break
		}
	}
	return results, nil
}

// get issues an authenticated GET. A rejected token is refreshed once.
func (c *TVDBClient) get(ctx context.Context, path string, query url.Values, v any) error {
	err := c.doGet(ctx, path, query, v)
	if errors.Is(err, errUnauthorized) {
		c.invalidateToken()
		err = c.doGet(ctx, path, query, v)
	}
	return err
}

func (c *TVDBClient) doGet(ctx context.Context, path string, query url.Values, v any) error {
	logger := config.GetLogger()

	token, err := c.ensureToken(ctx)
	if err != nil {
		return err
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	logger.Debug().Str("url", endpoint).Msg("Request to TVDB")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tvdb get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return errUnauthorized
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("tvdb get %s failed: %s: %s", path, resp.Status, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode tvdb response: %w", err)
	}
	return nil
}

func (c *TVDBClient) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && time.Now().Before(c.tokenExpiry) {
		return c.token, nil
	}
	if c.apiKey == "" {
		return "", errors.New("tvdb api key is not configured")
	}

	buf, err := json.Marshal(map[string]string{"apikey": c.apiKey})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(buf))
	if err != nil {
		return "", fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tvdb login: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("tvdb login failed: %s", resp.Status)
	}

	var data struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode tvdb login response: %w", err)
	}
	if data.Data.Token == "" {
		return "", errors.New("tvdb login returned an empty token")
	}

	c.token = data.Data.Token
	c.tokenExpiry = time.Now().Add(tokenLifetime)
	return c.token, nil
}

func (c *TVDBClient) invalidateToken() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
}
