package courtlistener

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"docketlabeler/pkg/errors"
	"docketlabeler/pkg/logger"
	"docketlabeler/pkg/ratelimit"

	"github.com/go-resty/resty/v2"
)

// Options configures a Client
type Options struct {
	Endpoint  string
	APIToken  string
	UserAgent string
	Timeout   time.Duration
	Limiter   ratelimit.Limiter
}

// Client fetches docket entry pages from CourtListener
type Client struct {
	http     *resty.Client
	endpoint string
	logger   logger.Logger
}

// NewClient creates a client for the docket entries endpoint
func NewClient(opts Options, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DocketEntriesEndpoint
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.Unlimited{}
	}

	httpClient := resty.New()
	httpClient.SetHeader("Accept", "application/json")
	if opts.UserAgent != "" {
		httpClient.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}
	if opts.APIToken != "" {
		httpClient.SetAuthScheme("Token")
		httpClient.SetAuthToken(opts.APIToken)
	}

	limiter := opts.Limiter
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	return &Client{
		http:     httpClient,
		endpoint: opts.Endpoint,
		logger:   log.WithField("component", "courtlistener"),
	}
}

// Endpoint returns the configured docket entries endpoint
func (c *Client) Endpoint() string {
	return c.endpoint
}

// FetchPage requests the page addressed by cursor (nil = first page).
// Transport failures and non-200 statuses are remote errors; a body that is
// not the expected shape is a protocol error.
func (c *Client) FetchPage(ctx context.Context, cursor *string) (*Page, error) {
	pageURL, err := PageURL(c.endpoint, cursor)
	if err != nil {
		return nil, errors.NewProtocol(0, err, "cannot build page url")
	}

	start := time.Now()
	resp, err := c.http.R().SetContext(ctx).Get(pageURL)
	if err != nil {
		logger.LogRequest(c.logger, http.MethodGet, pageURL, 0, time.Since(start))
		return nil, errors.NewRemote(0, err, "request to %s failed", pageURL)
	}
	logger.LogRequest(c.logger, http.MethodGet, pageURL, resp.StatusCode(), time.Since(start))

	if resp.StatusCode() != http.StatusOK {
		return nil, errors.NewRemote(resp.StatusCode(), nil, "catalog returned %s", resp.Status())
	}

	return decodePage(resp.StatusCode(), resp.Body())
}

func decodePage(status int, body []byte) (*Page, error) {
	var envelope pageEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.NewProtocol(status, err, "response is not valid JSON")
	}
	if envelope.Results == nil {
		return nil, errors.NewProtocol(status, nil, "response has no results field")
	}

	items := *envelope.Results
	for i, item := range items {
		if item.ID == nil {
			return nil, errors.NewProtocol(status, nil, "result %d has no id", i)
		}
		for j, doc := range item.RecapDocuments {
			if doc.ID == nil {
				return nil, errors.NewProtocol(status, nil, "result %d (entry %d) recap document %d has no id", i, *item.ID, j)
			}
		}
	}

	next := envelope.Next
	if next != nil && *next == "" {
		next = nil
	}

	return &Page{Items: items, Next: next}, nil
}
