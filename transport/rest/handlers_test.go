package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/rps-backend/internal/entity"
	"github.com/rocketscienceinc/rps-backend/internal/metrics"
	"github.com/rocketscienceinc/rps-backend/internal/repository"
	"github.com/rocketscienceinc/rps-backend/internal/service"
	"github.com/rocketscienceinc/rps-backend/internal/usecase"
	"github.com/rocketscienceinc/rps-backend/transport/view"
)

type fixedBot struct {
	choice entity.Choice
}

func (that *fixedBot) Choose() entity.Choice {
	return that.choice
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error {
	return errors.New("connection refused")
}

func newTestServer(t *testing.T, bot entity.Choice, revealDelay time.Duration, pinger pinger) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	sessions := service.NewSessionService(repository.NewMemorySessionRepository(time.Hour, nil), nil)
	gameplay := service.NewGamePlayService(logger, sessions, &fixedBot{choice: bot}, m, service.GamePlayConfig{RevealDelay: revealDelay})
	game := usecase.NewGameUseCase(sessions, gameplay, m)

	srv := httptest.NewServer(New(logger, game, pinger, registry).Handler())
	t.Cleanup(srv.Close)

	return srv
}

func doJSON(t *testing.T, method, url, body string) (int, []byte) {
	t.Helper()

	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, data
}

func createSession(t *testing.T, baseURL, variant string) view.Session {
	t.Helper()

	status, body := doJSON(t, http.MethodPost, baseURL+"/api/sessions", `{"variant":"`+variant+`"}`)
	require.Equal(t, http.StatusCreated, status, string(body))

	var session view.Session
	require.NoError(t, json.Unmarshal(body, &session))

	return session
}

func TestServer_Ping(t *testing.T) {
	srv := newTestServer(t, entity.Rock, 0, nil)

	status, body := doJSON(t, http.MethodGet, srv.URL+"/ping", "")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pong", string(body))
}

func TestServer_Health(t *testing.T) {
	t.Run("Healthy without storage pinger", func(t *testing.T) {
		srv := newTestServer(t, entity.Rock, 0, nil)

		status, _ := doJSON(t, http.MethodGet, srv.URL+"/health", "")

		assert.Equal(t, http.StatusOK, status)
	})

	t.Run("Unhealthy when storage is down", func(t *testing.T) {
		srv := newTestServer(t, entity.Rock, 0, failingPinger{})

		status, _ := doJSON(t, http.MethodGet, srv.URL+"/health", "")

		assert.Equal(t, http.StatusServiceUnavailable, status)
	})
}

func TestServer_Rounds(t *testing.T) {
	t.Run("Play and reset", func(t *testing.T) {
		// Given: a classic session and a computer drawing scissors
		srv := newTestServer(t, entity.Scissors, 0, nil)
		session := createSession(t, srv.URL, entity.ClassicVariant)
		assert.Equal(t, entity.StatusIdle, session.Status)

		// When: the player picks rock
		status, body := doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+session.ID+"/rounds", `{"choice":"rock"}`)

		// Then: the round is shown with the win
		require.Equal(t, http.StatusOK, status, string(body))
		var played view.Session
		require.NoError(t, json.Unmarshal(body, &played))
		require.NotNil(t, played.Round)
		assert.Equal(t, "You win!", played.Round.Result)
		assert.Equal(t, entity.Scissors, played.Round.ComputerChoice)
		assert.Equal(t, entity.Score{Player: 1}, played.Score)

		// When: the game is reset
		status, body = doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+session.ID+"/reset", "")

		// Then: the initial state is back
		require.Equal(t, http.StatusOK, status)
		var reset view.Session
		require.NoError(t, json.Unmarshal(body, &reset))
		assert.Nil(t, reset.Round)
		assert.Equal(t, entity.Score{}, reset.Score)
	})

	t.Run("Invalid choice", func(t *testing.T) {
		srv := newTestServer(t, entity.Rock, 0, nil)
		session := createSession(t, srv.URL, entity.ClassicVariant)

		status, _ := doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+session.ID+"/rounds", `{"choice":"lizard"}`)

		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("Bad body", func(t *testing.T) {
		srv := newTestServer(t, entity.Rock, 0, nil)
		session := createSession(t, srv.URL, entity.ClassicVariant)

		status, _ := doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+session.ID+"/rounds", `{`)

		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("Unknown session", func(t *testing.T) {
		srv := newTestServer(t, entity.Rock, 0, nil)

		status, _ := doJSON(t, http.MethodGet, srv.URL+"/api/sessions/missing", "")

		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("Enhanced round in progress", func(t *testing.T) {
		srv := newTestServer(t, entity.Rock, time.Minute, nil)
		session := createSession(t, srv.URL, entity.EnhancedVariant)

		status, body := doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+session.ID+"/rounds", `{"choice":"paper"}`)
		require.Equal(t, http.StatusOK, status)

		var played view.Session
		require.NoError(t, json.Unmarshal(body, &played))
		require.NotNil(t, played.Round.RevealAt)
		assert.False(t, played.AcceptingInput)

		status, _ = doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+session.ID+"/rounds", `{"choice":"paper"}`)
		assert.Equal(t, http.StatusConflict, status)
	})

	t.Run("Invalid variant", func(t *testing.T) {
		srv := newTestServer(t, entity.Rock, 0, nil)

		status, _ := doJSON(t, http.MethodPost, srv.URL+"/api/sessions", `{"variant":"arcade"}`)

		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("Empty body creates a classic session", func(t *testing.T) {
		srv := newTestServer(t, entity.Rock, 0, nil)

		status, body := doJSON(t, http.MethodPost, srv.URL+"/api/sessions", "")

		require.Equal(t, http.StatusCreated, status)
		var session view.Session
		require.NoError(t, json.Unmarshal(body, &session))
		assert.Equal(t, entity.ClassicVariant, session.Variant)
	})
}

func TestServer_Gestures(t *testing.T) {
	t.Run("Hand gesture", func(t *testing.T) {
		srv := newTestServer(t, entity.Scissors, 0, nil)
		session := createSession(t, srv.URL, entity.EnhancedVariant)

		status, body := doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+session.ID+"/gestures/hand",
			`{"thumb":-45,"index":-45,"middle":-45,"ring":-45,"pinky":-45}`)

		require.Equal(t, http.StatusOK, status, string(body))
		var played view.Session
		require.NoError(t, json.Unmarshal(body, &played))
		assert.Equal(t, entity.Rock, played.Round.PlayerChoice)
		assert.Equal(t, entity.OutcomePlayer, played.Round.Outcome)
	})

	t.Run("Malformed drop surfaces an error and retry clears it", func(t *testing.T) {
		// Given: an enhanced session
		srv := newTestServer(t, entity.Scissors, 0, nil)
		session := createSession(t, srv.URL, entity.EnhancedVariant)

		// When: a malformed drop is posted
		status, body := doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+session.ID+"/gestures/drop", `{"choice":42}`)

		// Then: the session shows the error
		require.Equal(t, http.StatusUnprocessableEntity, status)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, entity.FaultMessage, resp.Error)
		require.NotNil(t, resp.Session)
		assert.Equal(t, view.StatusError, resp.Session.Status)

		// And: playing is refused
		status, _ = doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+session.ID+"/rounds", `{"choice":"rock"}`)
		assert.Equal(t, http.StatusConflict, status)

		// When: retrying
		status, body = doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+session.ID+"/retry", "")

		// Then: the error is cleared
		require.Equal(t, http.StatusOK, status)
		var retried view.Session
		require.NoError(t, json.Unmarshal(body, &retried))
		assert.Empty(t, retried.Error)
		assert.True(t, retried.AcceptingInput)
	})

	t.Run("Drop of an unknown card is a gesture failure", func(t *testing.T) {
		srv := newTestServer(t, entity.Rock, 0, nil)
		session := createSession(t, srv.URL, entity.EnhancedVariant)

		status, body := doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+session.ID+"/gestures/drop", `{"choice":"lizard"}`)

		require.Equal(t, http.StatusUnprocessableEntity, status)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(body, &resp))
		assert.Equal(t, entity.FaultMessage, resp.Error)
		assert.Equal(t, entity.Score{}, resp.Session.Score)
	})
}

func TestServer_Metrics(t *testing.T) {
	srv := newTestServer(t, entity.Rock, 0, nil)
	session := createSession(t, srv.URL, entity.ClassicVariant)
	status, _ := doJSON(t, http.MethodPost, srv.URL+"/api/sessions/"+session.ID+"/rounds", `{"choice":"rock"}`)
	require.Equal(t, http.StatusOK, status)

	status, body := doJSON(t, http.MethodGet, srv.URL+"/metrics", "")

	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `rps_rounds_total{outcome="tie",variant="classic"} 1`)
	assert.Contains(t, string(body), `rps_sessions_created_total{variant="classic"} 1`)
}
