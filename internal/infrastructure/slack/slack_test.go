package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	slackgo "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/example/shiftcall/internal/internaltypes"
)

type fakeSlack struct {
	mu     sync.Mutex
	posted []map[string]string
	pages  int
}

func (f *fakeSlack) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/conversations.list", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		f.mu.Lock()
		f.pages++
		f.mu.Unlock()

		w.Header().Set("content-type", "application/json")
		if r.FormValue("cursor") == "" {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"ok":                true,
				"channels":          []map[string]any{{"id": "C001", "name": "random"}},
				"response_metadata": map[string]string{"next_cursor": "page2"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":                true,
			"channels":          []map[string]any{{"id": "C002", "name": "ops-schedule"}},
			"response_metadata": map[string]string{"next_cursor": ""},
		})
	})
	mux.HandleFunc("/chat.postMessage", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		f.mu.Lock()
		f.posted = append(f.posted, map[string]string{"channel": r.FormValue("channel"), "text": r.FormValue("text")})
		f.mu.Unlock()

		w.Header().Set("content-type", "application/json")
		if r.FormValue("channel") == "C404" {
			_, _ = w.Write([]byte(`{"ok":false,"error":"channel_not_found"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"channel":"` + r.FormValue("channel") + `","ts":"1700000000.000100"}`))
	})
	return mux
}

func newTestSink(t *testing.T) (*Sink, *fakeSlack) {
	t.Helper()
	fake := &fakeSlack{}
	ts := httptest.NewServer(fake.handler(t))
	t.Cleanup(ts.Close)
	return New("xoxb-test", zap.NewNop(), slackgo.OptionAPIURL(ts.URL+"/")), fake
}

func TestResolve_Paginates(t *testing.T) {
	sink, fake := newTestSink(t)

	id, err := sink.Resolve(context.Background(), "#ops-schedule")
	require.NoError(t, err)
	assert.Equal(t, "C002", id)
	assert.Equal(t, 2, fake.pages)

	id, err = sink.Resolve(context.Background(), "random")
	require.NoError(t, err)
	assert.Equal(t, "C001", id)
}

func TestResolve_NotFound(t *testing.T) {
	sink, _ := newTestSink(t)

	_, err := sink.Resolve(context.Background(), "nope")
	require.ErrorIs(t, err, internaltypes.ErrSink)
	assert.ErrorIs(t, err, internaltypes.ErrNotFound)

	_, err = sink.Resolve(context.Background(), " # ")
	assert.ErrorIs(t, err, internaltypes.ErrSink)
}

func TestPost(t *testing.T) {
	sink, fake := newTestSink(t)

	require.NoError(t, sink.Post(context.Background(), "C002", "Tier 3: *Ann* 8-10AM"))
	require.Len(t, fake.posted, 1)
	assert.Equal(t, "C002", fake.posted[0]["channel"])
	assert.Equal(t, "Tier 3: *Ann* 8-10AM", fake.posted[0]["text"])

	err := sink.Post(context.Background(), "C404", "hello")
	require.ErrorIs(t, err, internaltypes.ErrSink)
	assert.Contains(t, err.Error(), "channel_not_found")
}
