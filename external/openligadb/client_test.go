package openligadb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler, maxRetries int) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL:    server.URL,
		Timeout:    2 * time.Second,
		MaxRetries: maxRetries,
		Location:   berlin(t),
	})
}

func TestFetchGroups(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getavailablegroups/bl1/2024", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"groupName":"1. Spieltag","groupOrderID":1,"groupID":41000}]`))
	}), 0)

	groups, err := client.FetchGroups(context.Background(), "bl1", 2024)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "1. Spieltag", groups[0].GroupName)
	require.NotNil(t, groups[0].GroupOrderID)
	assert.Equal(t, 1, *groups[0].GroupOrderID)
}

func TestFetchSeasonMatchesDecodesRecords(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getmatchdata/bl1/2024", r.URL.Path)
		_, _ = w.Write([]byte(`[{
			"matchID": 66471,
			"matchDateTime": "2024-08-23T20:30:00",
			"matchIsFinished": true,
			"group": {"groupOrderID": 1, "groupName": "1. Spieltag"},
			"team1": {"teamId": 40, "teamName": "FC Bayern"},
			"team2": {"teamId": 9, "teamName": "VfB Stuttgart"},
			"matchResults": [{"resultName": "Endergebnis", "pointsTeam1": 3, "pointsTeam2": 2, "resultOrderID": 2}],
			"goals": [{"goalID": 1, "scoreTeam1": 1, "scoreTeam2": 0, "matchMinute": 9}]
		}]`))
	}), 0)

	records, err := client.FetchSeasonMatches(context.Background(), "bl1", 2024)
	require.NoError(t, err)
	require.Len(t, records, 1)

	facts, err := ExtractMatchFacts(records[0], berlin(t))
	require.NoError(t, err)
	assert.Equal(t, int64(66471), facts.ExternalID)
	assert.True(t, facts.IsFinished)
}

func TestFetchLastChangeParsesTimestamp(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getlastchangedate/bl1/2024/5", r.URL.Path)
		_, _ = w.Write([]byte(`"2024-09-14T19:01:14.857"`))
	}), 0)

	changedAt, err := client.FetchLastChange(context.Background(), "bl1", 2024, 5)
	require.NoError(t, err)
	assert.Equal(t, 2024, changedAt.Year())
	assert.Equal(t, "Europe/Berlin", changedAt.Location().String())
}

func TestClientWrapsFailuresUniformly(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}), 0)

	_, err := client.FetchGroups(context.Background(), "bl1", 2024)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.Contains(t, err.Error(), "/getavailablegroups/bl1/2024")
}

func TestClientWrapsMalformedBody(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"not":"a list"`))
	}), 0)

	_, err := client.FetchSeasonMatches(context.Background(), "bl1", 2024)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestClientRetriesRetryableStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}), 1)

	_, err := client.FetchGroups(context.Background(), "bl1", 2024)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad league", http.StatusBadRequest)
	}), 3)

	_, err := client.FetchGroups(context.Background(), "nope", 2024)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
