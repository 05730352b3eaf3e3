package middleware

import (
	"context"
	"crypto/subtle"

	"github.com/nextlevel/reward-engine/pkg/errorx"
	"github.com/nextlevel/reward-engine/pkg/router"
	"github.com/nextlevel/reward-engine/pkg/xcontext"
)

const InternalKeyHeader = "X-Internal-Key"

// VerifyInternalKey only lets the content services through. All calls are
// rejected while no key is configured.
func VerifyInternalKey() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		expected := xcontext.Configs(ctx).ApiServer.InternalKey
		if expected == "" {
			return nil, errorx.New(errorx.PermissionDenied, "Internal endpoints are disabled")
		}

		key := xcontext.HTTPRequest(ctx).Header.Get(InternalKeyHeader)
		if subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			return nil, errorx.New(errorx.PermissionDenied, "Invalid internal key")
		}

		return nil, nil
	}
}
