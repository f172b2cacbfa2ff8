package cart

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/drinkshop/drinkshop-backend/pkg/db/models"
	pkgerrors "github.com/drinkshop/drinkshop-backend/pkg/errors"
	"github.com/drinkshop/drinkshop-backend/pkg/logger"
)

type sseEvent struct {
	name string
	data string
}

// readEvent returns the next event, or the comment text for comment-only blocks.
func readEvent(t *testing.T, r *bufio.Reader) sseEvent {
	t.Helper()
	var evt sseEvent
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			return evt
		case strings.HasPrefix(line, ":"):
			evt.name = strings.TrimSpace(strings.TrimPrefix(line, ":"))
		case strings.HasPrefix(line, "event: "):
			evt.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			evt.data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func openStream(t *testing.T, h http.Handler) (*bufio.Reader, *http.Response) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return bufio.NewReader(resp.Body), resp
}

func TestCartStreamEmitsSnapshots(t *testing.T) {
	updates := make(chan []models.Drink, 1)
	updates <- []models.Drink{}
	svc := &stubService{observeAll: func(context.Context) (<-chan []models.Drink, error) {
		return updates, nil
	}}

	reader, resp := openStream(t, CartStream(svc, time.Hour, logger.Nop()))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	first := readEvent(t, reader)
	assert.Equal(t, StreamEvent, first.name)
	assert.JSONEq(t, `[]`, first.data)

	updates <- []models.Drink{latte()}
	second := readEvent(t, reader)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal([]byte(second.data), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "Latte", rows[0]["name"])
	assert.Equal(t, "4.50", rows[0]["price"])

	close(updates)
	_, err := reader.ReadString('\n')
	assert.Error(t, err, "stream should end once the subscription closes")
}

func TestCartStreamHeartbeat(t *testing.T) {
	updates := make(chan []models.Drink)
	svc := &stubService{observeAll: func(context.Context) (<-chan []models.Drink, error) {
		return updates, nil
	}}

	reader, _ := openStream(t, CartStream(svc, 10*time.Millisecond, logger.Nop()))
	evt := readEvent(t, reader)
	assert.Equal(t, "heartbeat", evt.name)
	assert.Empty(t, evt.data)
}

func TestCartStreamSubscribeFailure(t *testing.T) {
	svc := &stubService{observeAll: func(context.Context) (<-chan []models.Drink, error) {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "cart stream unavailable")
	}}

	w := httptest.NewRecorder()
	CartStream(svc, time.Second, logger.Nop())(w, httptest.NewRequest(http.MethodGet, "/cart/stream", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
