package web_test

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/testutil"
	"github.com/Makepad-fr/tada/internal/web"
)

var sessionAttr = regexp.MustCompile(`data-session="([^"]+)"`)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newWeb(t *testing.T, svc *testutil.FakeService, opts ...web.Option) (*web.Server, *httptest.Server) {
	t.Helper()
	srv, err := web.New(svc, nil, opts...)
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func openPage(t *testing.T, ts *httptest.Server) (string, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	m := sessionAttr.FindStringSubmatch(string(b))
	require.Len(t, m, 2, "page carries a session id")
	return m[1], string(b)
}

func post(t *testing.T, url, body string) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	return resp.StatusCode
}

// readStream collects stream output until every want is seen or time runs out.
func readStream(t *testing.T, url string, want ...string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got strings.Builder
	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for sc.Scan() {
		got.WriteString(sc.Text())
		got.WriteByte('\n')
		done := true
		for _, w := range want {
			if !strings.Contains(got.String(), w) {
				done = false
				break
			}
		}
		if done {
			break
		}
	}
	return got.String()
}

func TestPage_RendersInitialList(t *testing.T) {
	svc := testutil.NewFakeService(
		model.Task{ID: "1", Title: "A"},
		model.Task{ID: "2", Title: "B", Done: true},
	)
	srv, ts := newWeb(t, svc)

	_, page := openPage(t, ts)

	assert.Contains(t, page, `<ul class="todo-list"><li>`)
	assert.Contains(t, page, `id="listid1" value="A" readonly`)
	assert.Contains(t, page, `id="listid2" value="B" readonly`)
	assert.Contains(t, page, `<form class="form"`)
	assert.Equal(t, 1, srv.Sessions())

	openPage(t, ts)
	assert.Equal(t, 2, srv.Sessions(), "one session per page load")
}

func TestClick_DeleteStreamsPlaceholder(t *testing.T) {
	svc := testutil.NewFakeService(model.Task{ID: "1", Title: "A"})
	_, ts := newWeb(t, svc)
	id, _ := openPage(t, ts)

	code := post(t, ts.URL+"/s/"+id+"/click",
		`{"container":"todo-list","tag":"button","class":"btn--delete","ref":"1"}`)
	require.Equal(t, http.StatusNoContent, code)
	assert.Empty(t, svc.Tasks())

	out := readStream(t, ts.URL+"/s/"+id+"/stream", "no active tasks")
	assert.Contains(t, out, "datastar-patch-elements")
	assert.Contains(t, out, "selector .todo-list")
	assert.Contains(t, out, "mode inner")
}

func TestSubmit_BlankTitleStreamsAlert(t *testing.T) {
	svc := testutil.NewFakeService()
	_, ts := newWeb(t, svc)
	id, _ := openPage(t, ts)

	code := post(t, ts.URL+"/s/"+id+"/submit", `{"fields":[{"name":"title","value":"   "}]}`)
	require.Equal(t, http.StatusNoContent, code)
	assert.Empty(t, svc.CallsTo("Create"))

	out := readStream(t, ts.URL+"/s/"+id+"/stream", "please input title!")
	assert.Contains(t, out, "alert(")
}

func TestSubmit_CreatesAndResetsForm(t *testing.T) {
	svc := testutil.NewFakeService()
	_, ts := newWeb(t, svc)
	id, _ := openPage(t, ts)

	code := post(t, ts.URL+"/s/"+id+"/submit", `{"fields":[{"name":"title","value":"Buy milk"}]}`)
	require.Equal(t, http.StatusNoContent, code)
	require.Len(t, svc.Tasks(), 1)

	out := readStream(t, ts.URL+"/s/"+id+"/stream", "Buy milk", ".reset()")
	assert.Contains(t, out, `value="Buy milk"`)
}

func TestClick_EditUsesPostedInputValue(t *testing.T) {
	svc := testutil.NewFakeService(model.Task{ID: "1", Title: "A"})
	_, ts := newWeb(t, svc)
	id, _ := openPage(t, ts)
	url := ts.URL + "/s/" + id + "/click"

	require.Equal(t, http.StatusNoContent, post(t, url,
		`{"container":"todo-list","tag":"BUTTON","class":"btn--edit","ref":"1","inputs":{"listid1":"A"}}`))
	require.Len(t, svc.CallsTo("UpdateStatus"), 1)

	require.Equal(t, http.StatusNoContent, post(t, url,
		`{"container":"todo-list","tag":"BUTTON","class":"btn--edit","ref":"1","inputs":{"listid1":"A edited"}}`))
	titles := svc.CallsTo("UpdateTitle")
	require.Len(t, titles, 1)
	assert.Equal(t, "A edited", titles[0].Title)
}

func TestClick_BadRequests(t *testing.T) {
	_, ts := newWeb(t, testutil.NewFakeService())
	id, _ := openPage(t, ts)

	assert.Equal(t, http.StatusNotFound, post(t, ts.URL+"/s/nope/click", `{}`))
	assert.Equal(t, http.StatusBadRequest, post(t, ts.URL+"/s/"+id+"/click", `{`))
	assert.Equal(t, http.StatusBadRequest, post(t, ts.URL+"/s/"+id+"/click", `{"container":"sidebar"}`))
	assert.Equal(t, http.StatusNotFound, post(t, ts.URL+"/s/nope/submit", `{}`))

	resp, err := http.Get(ts.URL + "/s/nope/stream")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReap_DropsIdleSessions(t *testing.T) {
	clk := &clock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	srv, ts := newWeb(t, testutil.NewFakeService(), web.WithClock(clk.Now), web.WithIdle(30*time.Minute))

	first, _ := openPage(t, ts)
	clk.Advance(20 * time.Minute)
	openPage(t, ts)
	assert.Equal(t, 0, srv.Reap())

	clk.Advance(15 * time.Minute)
	assert.Equal(t, 1, srv.Reap())
	assert.Equal(t, 1, srv.Sessions())
	assert.Equal(t, http.StatusNotFound, post(t, ts.URL+"/s/"+first+"/submit", `{"fields":[]}`))
}

func TestAppJS(t *testing.T) {
	_, ts := newWeb(t, testutil.NewFakeService())
	resp, err := http.Get(ts.URL + "/static/app.js")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "javascript")
}

func TestPage_LoadsPinnedDatastarBundle(t *testing.T) {
	_, ts := newWeb(t, testutil.NewFakeService())
	session, page := openPage(t, ts)

	assert.Contains(t, web.DatastarScript, "datastar@1.")
	assert.Contains(t, page, `<script type="module" src="`+web.DatastarScript+`"></script>`)
	assert.Contains(t, page, `data-init="@get('/s/`+session+`/stream')"`)

	resp, err := http.Get(ts.URL + "/static/datastar.js")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "no local bundle configured")
}

func TestPage_ServesLocalDatastarBundle(t *testing.T) {
	bundle := filepath.Join(t.TempDir(), "datastar.js")
	require.NoError(t, os.WriteFile(bundle, []byte("export {};\n"), 0o644))
	_, ts := newWeb(t, testutil.NewFakeService(), web.WithDatastarFile(bundle))

	_, page := openPage(t, ts)
	assert.Contains(t, page, `<script type="module" src="/static/datastar.js"></script>`)
	assert.NotContains(t, page, "cdn.jsdelivr.net")

	resp, err := http.Get(ts.URL + "/static/datastar.js")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "javascript")
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "export {};\n", string(b))
}
