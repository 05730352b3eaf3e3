package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nextlevel/reward-engine/pkg/errorx"
	"github.com/nextlevel/reward-engine/pkg/router"
	"github.com/nextlevel/reward-engine/pkg/testutil"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type echoResponse struct {
	Name   string `json:"name"`
	Count  int    `json:"count"`
	UserID string `json:"user_id"`
}

type envelope struct {
	Code  int64        `json:"code"`
	Error string       `json:"error"`
	Data  echoResponse `json:"data"`
}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	if req.Count < 0 {
		return nil, errorx.New(errorx.BadRequest, "Count must not be negative")
	}

	return &echoResponse{Name: req.Name, Count: req.Count, UserID: xcontext.RequestUserID(ctx)}, nil
}

func serve(t *testing.T, handler http.Handler, req *http.Request) (int, envelope) {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestRouter_GETAndPOST(t *testing.T) {
	ctx := testutil.MockContext()
	r := router.New(ctx)
	router.GET(r, "/echo", echo)
	router.POST(r, "/echoPost", echo)
	handler := r.Handler(xcontext.Configs(ctx).ApiServer)

	status, resp := serve(t, handler, httptest.NewRequest(http.MethodGet, "/echo?name=abc&count=3", nil))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, int64(0), resp.Code)
	require.Equal(t, echoResponse{Name: "abc", Count: 3}, resp.Data)

	status, resp = serve(t, handler, httptest.NewRequest(
		http.MethodPost, "/echoPost", strings.NewReader(`{"name":"def","count":4}`)))
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, echoResponse{Name: "def", Count: 4}, resp.Data)

	// An empty body is an empty request.
	status, _ = serve(t, handler, httptest.NewRequest(http.MethodPost, "/echoPost", nil))
	require.Equal(t, http.StatusOK, status)

	status, resp = serve(t, handler, httptest.NewRequest(
		http.MethodPost, "/echoPost", strings.NewReader(`{"count":"x"`)))
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, int64(errorx.BadRequest), resp.Code)

	status, resp = serve(t, handler, httptest.NewRequest(http.MethodPost, "/echo", nil))
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, int64(errorx.BadRequest), resp.Code)
}

func TestRouter_ErrorEnvelope(t *testing.T) {
	ctx := testutil.MockContext()
	r := router.New(ctx)
	router.GET(r, "/echo", echo)
	router.GET(r, "/fail", func(ctx context.Context, req *echoRequest) (*echoResponse, error) {
		return nil, context.DeadlineExceeded
	})
	handler := r.Handler(xcontext.Configs(ctx).ApiServer)

	status, resp := serve(t, handler, httptest.NewRequest(http.MethodGet, "/echo?count=-1", nil))
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, int64(errorx.BadRequest), resp.Code)
	require.Equal(t, "Count must not be negative", resp.Error)

	// Unknown errors never leak their detail.
	status, resp = serve(t, handler, httptest.NewRequest(http.MethodGet, "/fail", nil))
	require.Equal(t, http.StatusInternalServerError, status)
	require.Equal(t, int64(errorx.Unknown.Code), resp.Code)
	require.Equal(t, errorx.Unknown.Message, resp.Error)
}

func TestRouter_Middlewares(t *testing.T) {
	ctx := testutil.MockContext()
	r := router.New(ctx)

	var closed []error
	r.AddCloser(func(ctx context.Context) {
		closed = append(closed, xcontext.Error(ctx))
	})

	authRouter := r.Branch()
	authRouter.Before(func(ctx context.Context) (context.Context, error) {
		userID := xcontext.HTTPRequest(ctx).Header.Get("X-User")
		if userID == "" {
			return nil, errorx.New(errorx.Unauthenticated, "No user")
		}

		return xcontext.WithRequestUserID(ctx, userID), nil
	})
	authRouter.After(func(ctx context.Context) (context.Context, error) {
		require.NotNil(t, xcontext.Response(ctx))
		return nil, nil
	})

	router.GET(authRouter, "/me", echo)
	router.GET(r, "/public", echo)
	handler := r.Handler(xcontext.Configs(ctx).ApiServer)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-User", "user1")
	status, resp := serve(t, handler, req)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "user1", resp.Data.UserID)

	status, resp = serve(t, handler, httptest.NewRequest(http.MethodGet, "/me", nil))
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, int64(errorx.Unauthenticated), resp.Code)

	// The middleware of the branch doesn't apply to the parent.
	status, _ = serve(t, handler, httptest.NewRequest(http.MethodGet, "/public", nil))
	require.Equal(t, http.StatusOK, status)

	require.Len(t, closed, 3)
	require.Nil(t, closed[0])
	require.True(t, errorx.Is(closed[1], errorx.Unauthenticated))
	require.Nil(t, closed[2])
}
