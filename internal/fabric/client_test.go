package fabric

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(code int, body string) *http.Response {
	return &http.Response{
		StatusCode: code,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": {"application/json"}},
	}
}

func newTestClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	c, err := New(Options{
		BaseURL:   "http://fabric.test",
		Token:     "tok",
		UserAgent: "mockupfinder-test",
		Base:      rt,
	})
	require.NoError(t, err)
	return c
}

const searchBody = `[
  {"ref":"ABC123-1","style":"Jersey","swatchUrl":"/static/swatches/ABC123-1.jpg",
   "availableMockups":{"men":[
      {"garmentName":"Mens Tshirt","mockupUrl":"/static/mockups/SRX%20Mockup_mens_tshirt_ABC123-1.png","techpackUrl":"/static/techpacks/SRX%20Techpack_mens_tshirt_ABC123-1.pdf"},
      {"garmentName":"Mens Polo","mockupUrl":"/static/mockups/SRX%20Mockup_mens_polo_ABC123-1.png","techpackUrl":null}],
    "women":[],"kids":[]}},
  {"ref":"ABC123-2","style":"Pique","swatchUrl":"https://placehold.co/400x400","availableMockups":{"men":[],"women":[],"kids":[]}}
]`

func TestSearchParsesRecords(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/api/find-fabrics", req.URL.Path)
		assert.Equal(t, "ABC123", req.URL.Query().Get("search"))
		assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
		assert.Equal(t, "mockupfinder-test", req.Header.Get("User-Agent"))
		assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
		return jsonResponse(200, searchBody), nil
	})

	recs, err := c.Search(context.Background(), "  ABC123 ")
	require.NoError(t, err)
	require.Len(t, recs, 2)

	first := recs[0]
	assert.Equal(t, "ABC123-1", first.Ref)
	assert.Equal(t, "Jersey", first.Style)
	assert.Nil(t, first.ExcelFound)
	require.Len(t, first.Mockups.Items(Men), 2)
	assert.True(t, first.Mockups.Items(Men)[0].HasTechpack())
	assert.False(t, first.Mockups.Items(Men)[1].HasTechpack())
	assert.Equal(t, []Category{Men}, first.Mockups.Available())
	assert.False(t, recs[1].Mockups.Any())
}

func TestSearchEmptyResult(t *testing.T) {
	c := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(200, `[]`), nil
	})
	recs, err := c.Search(context.Background(), "zzz")
	require.NoError(t, err)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)
}

func TestSearchRejectsEmptyTerm(t *testing.T) {
	c := newTestClient(t, func(*http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})
	_, err := c.Search(context.Background(), "   ")
	require.Error(t, err)
}

func TestSearchServerErrorMessage(t *testing.T) {
	c := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(500, `{"error":"Database file not found: fabric_database.xlsx"}`), nil
	})
	_, err := c.Search(context.Background(), "ABC")
	require.Error(t, err)

	msg, ok := ServerMessage(err)
	assert.True(t, ok)
	assert.Equal(t, "Database file not found: fabric_database.xlsx", msg)
	assert.Equal(t, 500, StatusCode(err))
	assert.False(t, IsConnectivity(err))
}

func TestSearchServerErrorWithoutMessage(t *testing.T) {
	c := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return &http.Response{StatusCode: 502, Body: io.NopCloser(strings.NewReader("<html>bad gateway</html>")), Header: make(http.Header)}, nil
	})
	_, err := c.Search(context.Background(), "ABC")
	require.Error(t, err)

	_, ok := ServerMessage(err)
	assert.False(t, ok)
	assert.Equal(t, 502, StatusCode(err))
	assert.False(t, IsConnectivity(err))
	assert.Contains(t, err.Error(), "502")
}

func TestSearchNetworkFailure(t *testing.T) {
	c := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return nil, errors.New("dial tcp: connection refused")
	})
	_, err := c.Search(context.Background(), "ABC")
	require.Error(t, err)
	assert.True(t, IsConnectivity(err))
	assert.False(t, IsCanceled(err))

	snap := c.MetricsSnapshot()
	assert.EqualValues(t, 1, snap.TotalRequests)
	assert.EqualValues(t, 1, snap.TotalFailures)
	assert.EqualValues(t, 1, snap.Errors())
}

func TestSearchMalformedBody(t *testing.T) {
	c := newTestClient(t, func(*http.Request) (*http.Response, error) {
		return jsonResponse(200, `{"not":"an array"`), nil
	})
	_, err := c.Search(context.Background(), "ABC")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformed)
	assert.False(t, IsConnectivity(err))
}

func TestSearchCanceled(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return nil, req.Context().Err()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Search(ctx, "ABC")
	require.Error(t, err)
	assert.True(t, IsCanceled(err))
	assert.False(t, IsConnectivity(err))
}

func TestLookupConvertsRecord(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/api/get-all-info", req.URL.Path)
		assert.Equal(t, "FAB-101", req.URL.Query().Get("ref"))
		return jsonResponse(200, `{"refNo":"","imageUrl":"/static/swatches/FAB-101.webp","style":"Twill","excelFound":true,
			"availableMockups":{"men":[],"women":[{"garmentName":"Womens Dress","mockupUrl":"/static/mockups/d.png","techpackUrl":null}],"kids":[]}}`), nil
	})
	rec, err := c.Lookup(context.Background(), "FAB-101")
	require.NoError(t, err)
	assert.Equal(t, "FAB-101", rec.Ref, "empty refNo falls back to the requested ref")
	assert.Equal(t, "/static/swatches/FAB-101.webp", rec.SwatchURL)
	require.NotNil(t, rec.ExcelFound)
	assert.True(t, *rec.ExcelFound)
	assert.Equal(t, []Category{Women}, rec.Mockups.Available())
}

func TestRequestTagBecomesRequestID(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.True(t, strings.HasPrefix(req.Header.Get("X-Request-ID"), "search-7-"), req.Header.Get("X-Request-ID"))
		return jsonResponse(200, `[]`), nil
	})
	ctx := WithRequestTag(context.Background(), RequestTag{Seq: 7, Term: "ABC"})
	_, err := c.Search(ctx, "ABC")
	require.NoError(t, err)
}

func TestResolveURL(t *testing.T) {
	c, err := New(Options{BaseURL: "http://fabric.test:5000/"})
	require.NoError(t, err)
	assert.Equal(t, "http://fabric.test:5000/static/mockups/a.png", c.ResolveURL("/static/mockups/a.png"))
	assert.Equal(t, "https://placehold.co/400x400", c.ResolveURL("https://placehold.co/400x400"))
}

func TestNewRejectsRelativeBase(t *testing.T) {
	_, err := New(Options{BaseURL: "localhost"})
	require.Error(t, err)
}

func TestFilenameFromURL(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/static/mockups/SRX%20Mockup_mens_tshirt_ABC123-1.png", "SRX Mockup_mens_tshirt_ABC123-1.png"},
		{"http://host/static/techpacks/tp.pdf?v=2#page=1", "tp.pdf"},
		{"/static/mockups/a.png", "a.png"},
		{"/static/mockups/", "mockups"},
		{"/static/..%2F..%2Fetc%2Fpasswd", ".._.._etc_passwd"},
		{"", "download"},
		{"/", "download"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FilenameFromURL(tt.in))
		})
	}
}

func TestDownloadWritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/static/mockups/SRX Mockup_mens_polo_ABC.png" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	c, err := New(Options{BaseURL: srv.URL, Base: srv.Client().Transport})
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "out")
	path, err := c.Download(context.Background(), "/static/mockups/SRX%20Mockup_mens_polo_ABC.png", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "SRX Mockup_mens_polo_ABC.png"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
	assert.EqualValues(t, len("png-bytes"), c.MetricsSnapshot().BytesRead)

	_, err = c.Download(context.Background(), "/static/mockups/missing.png", dir)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "failed download must not leave files behind")
}

func TestFetchReturnsBody(t *testing.T) {
	c := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/static/swatches/s.jpg", req.URL.Path)
		return &http.Response{StatusCode: 200, Body: io.NopCloser(strings.NewReader("jpeg")), Header: make(http.Header)}, nil
	})
	data, err := c.Fetch(context.Background(), "/static/swatches/s.jpg")
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))
}
