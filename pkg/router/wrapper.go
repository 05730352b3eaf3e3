package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mitchellh/mapstructure"
	"github.com/nextlevel/reward-engine/pkg/errorx"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
	"golang.org/x/exp/slices"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	befores := slices.Clone(router.befores)
	afters := slices.Clone(router.afters)
	closers := slices.Clone(router.closers)

	return func(w http.ResponseWriter, r *http.Request) {
		var ctx context.Context = mergedContext{Context: r.Context(), root: router.rootCtx}
		ctx = xcontext.WithHTTPRequest(ctx, r)

		defer func() {
			for _, closer := range closers {
				closer(ctx)
			}
		}()

		resp, err := func() (any, error) {
			if r.Method != method {
				return nil, errorx.New(errorx.BadRequest, "Method %s is not allowed", r.Method)
			}

			if err := runMiddlewares(&ctx, befores); err != nil {
				return nil, err
			}

			var req Request
			if err := parseRequest(r, method, &req); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot parse request: %v", err)
				return nil, errorx.New(errorx.BadRequest, "Invalid request")
			}

			resp, err := handler(ctx, &req)
			if err != nil {
				return nil, err
			}

			ctx = xcontext.WithResponse(ctx, resp)
			if err := runMiddlewares(&ctx, afters); err != nil {
				return nil, err
			}

			return resp, nil
		}()

		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			resp := newErrorResponse(err)
			if err := writeJSON(w, statusCode(err), resp); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
			}
			return
		}

		if err := writeJSON(w, http.StatusOK, newResponse(resp)); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
		}
	}
}

// mergedContext is canceled with the request and falls back to the values of
// the root context.
type mergedContext struct {
	context.Context
	root context.Context
}

func (c mergedContext) Value(key any) any {
	if v := c.Context.Value(key); v != nil {
		return v
	}

	return c.root.Value(key)
}

func runMiddlewares(ctx *context.Context, middlewares []MiddlewareFunc) error {
	for _, middleware := range middlewares {
		newCtx, err := middleware(*ctx)
		if err != nil {
			return err
		}

		if newCtx != nil {
			*ctx = newCtx
		}
	}

	return nil
}

// parseRequest reads the query string of GET requests and the json body of
// POST requests. Field names follow the json tags of the request in both
// cases.
func parseRequest(r *http.Request, method string, req any) error {
	if method == http.MethodGet {
		query := map[string]any{}
		for key, values := range r.URL.Query() {
			if len(values) > 0 {
				query[key] = values[0]
			}
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           req,
			TagName:          "json",
			WeaklyTypedInput: true,
		})
		if err != nil {
			return err
		}

		return decoder.Decode(query)
	}

	if r.Body == nil {
		return nil
	}

	err := json.NewDecoder(r.Body).Decode(req)
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}
