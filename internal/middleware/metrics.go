package middleware

import (
	"context"
	"time"

	"connectrpc.com/connect"
	"github.com/Republica-Facil/republica-facil-backend/internal/observability/metrics"
)

// MetricsInterceptor records request counts and latency per procedure and
// Connect code.
func MetricsInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			metrics.ObserveRPC(req.Spec().Procedure, code, time.Since(start))
			return resp, err
		}
	}
}
