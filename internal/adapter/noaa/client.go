// Package noaa retrieves Level II archives from the public NOAA bucket. The
// bucket is plain S3 with anonymous access, so the adapter speaks the two
// HTTP shapes it needs (ListObjectsV2 and object GET) directly rather than
// through an AWS SDK.
package noaa

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/disasterscience/nexrad/internal/metadata"
	"github.com/disasterscience/nexrad/internal/observability"
)

// ArchiveSource lists and downloads archive objects. Client implements it
// against the NOAA bucket; CachedArchiveSource decorates any implementation.
type ArchiveSource interface {
	List(ctx context.Context, site string, day time.Time) ([]string, error)
	Download(ctx context.Context, key string) ([]byte, error)
}

// Client is an HTTP client for the NOAA Level II bucket.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a bucket client. baseURL is the bucket endpoint without a
// trailing slash.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// List returns the archive object keys for one site and UTC day, in bucket
// (lexicographic, so chronological) order. Sidecar objects are skipped.
func (c *Client) List(ctx context.Context, site string, day time.Time) ([]string, error) {
	prefix := fmt.Sprintf("%s/%s/", day.UTC().Format("2006/01/02"), site)

	var keys []string
	token := ""
	for {
		page, err := c.listPage(ctx, prefix, token)
		if err != nil {
			c.metrics.FetchErrors.Inc()
			return nil, err
		}
		for _, obj := range page.Contents {
			if metadata.IsSidecar(obj.Key) {
				continue
			}
			keys = append(keys, obj.Key)
		}
		if !page.IsTruncated {
			break
		}
		token = page.NextContinuationToken
	}

	c.metrics.ArchivesListed.Add(float64(len(keys)))
	c.logger.Debug("listed archives", "site", site, "prefix", prefix, "count", len(keys))
	return keys, nil
}

func (c *Client) listPage(ctx context.Context, prefix, token string) (listBucketResult, error) {
	params := url.Values{
		"list-type": {"2"},
		"prefix":    {prefix},
	}
	if token != "" {
		params.Set("continuation-token", token)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/?"+params.Encode(), nil)
	if err != nil {
		return listBucketResult{}, fmt.Errorf("create list request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return listBucketResult{}, fmt.Errorf("list %s: %w", prefix, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return listBucketResult{}, fmt.Errorf("bucket list error: status %d: %s", resp.StatusCode, body)
	}

	var page listBucketResult
	if err := xml.NewDecoder(resp.Body).Decode(&page); err != nil {
		return listBucketResult{}, fmt.Errorf("decode list response: %w", err)
	}
	return page, nil
}

// Download fetches one archive object and returns its raw bytes.
func (c *Client) Download(ctx context.Context, key string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+key, nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.FetchErrors.Inc()
		return nil, fmt.Errorf("download %s: %w", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.FetchErrors.Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bucket download error: status %d: %s", resp.StatusCode, body)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.FetchErrors.Inc()
		return nil, fmt.Errorf("read %s: %w", key, err)
	}

	c.metrics.ArchivesFetched.Inc()
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	c.logger.Debug("downloaded archive", "key", key, "bytes", len(data))
	return data, nil
}

// S3 ListObjectsV2 response types.

type listBucketResult struct {
	Contents              []bucketObject `xml:"Contents"`
	IsTruncated           bool           `xml:"IsTruncated"`
	NextContinuationToken string         `xml:"NextContinuationToken"`
}

type bucketObject struct {
	Key  string `xml:"Key"`
	Size int64  `xml:"Size"`
}
