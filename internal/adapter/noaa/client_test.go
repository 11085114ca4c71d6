package noaa

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/disasterscience/nexrad/internal/observability"
)

func testClient(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		metrics:    observability.NewMetricsForTesting(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func listXML(truncated bool, token string, keys ...string) string {
	body := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		`<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">` +
		`<Name>noaa-nexrad-level2</Name>`
	for _, k := range keys {
		body += fmt.Sprintf(`<Contents><Key>%s</Key><Size>4266626</Size><StorageClass>STANDARD</StorageClass></Contents>`, k)
	}
	body += fmt.Sprintf(`<IsTruncated>%t</IsTruncated>`, truncated)
	if token != "" {
		body += fmt.Sprintf(`<NextContinuationToken>%s</NextContinuationToken>`, token)
	}
	return body + `</ListBucketResult>`
}

func TestClient_List_Success(t *testing.T) {
	day := time.Date(2017, 8, 25, 0, 0, 0, 0, time.UTC)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("list-type"))
		assert.Equal(t, "2017/08/25/KCRP/", r.URL.Query().Get("prefix"))

		fmt.Fprint(w, listXML(false, "",
			"2017/08/25/KCRP/KCRP20170825_000138_V06",
			"2017/08/25/KCRP/KCRP20170825_000559_V06",
			"2017/08/25/KCRP/KCRP20170825_000559_V06_MDM",
		))
	}))
	defer srv.Close()

	keys, err := testClient(srv.URL).List(context.Background(), "KCRP", day)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2017/08/25/KCRP/KCRP20170825_000138_V06",
		"2017/08/25/KCRP/KCRP20170825_000559_V06",
	}, keys, "sidecar objects are filtered out")
}

func TestClient_List_Paginated(t *testing.T) {
	day := time.Date(2017, 8, 25, 0, 0, 0, 0, time.UTC)

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		switch requests {
		case 1:
			assert.Empty(t, r.URL.Query().Get("continuation-token"))
			fmt.Fprint(w, listXML(true, "next-page", "2017/08/25/KCRP/KCRP20170825_000138_V06"))
		case 2:
			assert.Equal(t, "next-page", r.URL.Query().Get("continuation-token"))
			fmt.Fprint(w, listXML(false, "", "2017/08/25/KCRP/KCRP20170825_000559_V06"))
		default:
			t.Errorf("unexpected request %d", requests)
		}
	}))
	defer srv.Close()

	keys, err := testClient(srv.URL).List(context.Background(), "KCRP", day)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
	assert.Equal(t, 2, requests)
}

func TestClient_List_BucketError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "AccessDenied", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).List(context.Background(), "KCRP", time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 403")
}

func TestClient_Download_Success(t *testing.T) {
	payload := []byte("AR2V0006.001 archive bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2017/08/25/KCRP/KCRP20170825_000138_V06", r.URL.Path)
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	data, err := testClient(srv.URL).Download(context.Background(), "2017/08/25/KCRP/KCRP20170825_000138_V06")
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestClient_Download_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "NoSuchKey", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Download(context.Background(), "2017/08/25/KCRP/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}

func TestClient_Download_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := testClient(srv.URL).Download(ctx, "2017/08/25/KCRP/KCRP20170825_000138_V06")
	require.Error(t, err)
}
