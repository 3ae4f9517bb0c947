package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	errs "github.com/integrada/portal/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const searchPath = "/search"

type sheetDBClient struct {
	baseUrl    string
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.SugaredLogger
}

var _ Store = &sheetDBClient{}

// NewSheetDBClient returns a store backed by the SheetDB search endpoint. When a
// bearer token is configured every request is authorized with it.
func NewSheetDBClient(cfg *Config, logger *zap.SugaredLogger) (Store, error) {
	if _, err := url.Parse(cfg.SheetDBBaseUrl); err != nil || cfg.SheetDBBaseUrl == "" {
		return nil, fmt.Errorf("invalid sheetdb base url %q", cfg.SheetDBBaseUrl)
	}

	httpClient := http.DefaultClient
	if cfg.SheetDBBearerToken != "" {
		source := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.SheetDBBearerToken})
		httpClient = oauth2.NewClient(context.Background(), source)
	}

	return &sheetDBClient{
		baseUrl:    strings.TrimRight(cfg.SheetDBBaseUrl, "/"),
		httpClient: httpClient,
		timeout:    cfg.Timeout,
		logger:     logger,
	}, nil
}

func (s *sheetDBClient) Search(ctx context.Context, collection Collection, filter Filter) ([]Row, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	query := url.Values{}
	for key, value := range filter {
		query.Set(key, value)
	}
	query.Set("sheet", string(collection))
	endpoint := s.baseUrl + searchPath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to create request for %v: %v", errs.StoreUnavailable, collection, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	res, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to search %v: %v", errs.StoreUnavailable, collection, err)
	}
	defer res.Body.Close()

	s.logger.Debugw("searched collection", "collection", collection, "status", res.StatusCode, "duration", time.Since(start))

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: unexpected status code %v when searching %v", errs.StoreUnavailable, res.StatusCode, collection)
	}

	var objects []map[string]interface{}
	if err := json.NewDecoder(res.Body).Decode(&objects); err != nil {
		return nil, fmt.Errorf("%w: unable to decode %v search response: %v", errs.StoreUnavailable, collection, err)
	}

	rows := make([]Row, 0, len(objects))
	for _, object := range objects {
		rows = append(rows, NewRow(object))
	}

	return rows, nil
}
