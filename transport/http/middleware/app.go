package middleware

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"maitred/config"
	"maitred/infras/otel"
	"maitred/shared/cache"
	"maitred/shared/constant"
)

const (
	otelHTTPScopeName = "http"
)

type AppMiddleware interface {
	Tracing(next http.Handler) http.Handler
	CORS(next http.Handler) http.Handler
	Operator(next http.Handler) http.Handler
	RateLimit() func(http.Handler) http.Handler
}

type appMiddleware struct {
	otel   otel.Otel
	config *config.Config
	cache  cache.RedisCache
}

func NewAppMiddleware(otel otel.Otel, config *config.Config, cache cache.RedisCache) AppMiddleware {
	return &appMiddleware{
		otel:   otel,
		config: config,
		cache:  cache,
	}
}

func (a *appMiddleware) Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		spanName := fmt.Sprintf("%s %s", r.Method, r.URL.Path)
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			spanName = fmt.Sprintf("%s %s", r.Method, rctx.RoutePattern())
		}

		ctx, scope := a.otel.NewScope(r.Context(), otelHTTPScopeName, spanName)
		defer scope.End()

		scope.SetAttributes(map[string]any{
			"app.name":        a.config.App.Name,
			"http.path":       r.URL.Path,
			"http.method":     r.Method,
			"http.user_agent": a.getUA(r),
			"http.host":       r.Host,
			"http.source":     a.getClientIP(r),
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *appMiddleware) CORS(next http.Handler) http.Handler {
	if !a.config.App.CORS.Enable {
		return next
	}

	return cors.Handler(cors.Options{
		AllowCredentials: a.config.App.CORS.AllowCredentials,
		AllowedHeaders:   a.config.App.CORS.AllowedHeaders,
		AllowedMethods:   a.config.App.CORS.AllowedMethods,
		AllowedOrigins:   a.config.App.CORS.AllowedOrigins,
		MaxAge:           a.config.App.CORS.MaxAgeSeconds,
	})(next)
}

// Operator attaches the staff identity from the X-Operator header to the
// request context so writes carry a created_by/modified_by.
func (a *appMiddleware) Operator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operator := r.Header.Get(constant.RequestHeaderOperator)
		if operator == "" {
			operator = constant.DefaultOperator
		}

		ctx := context.WithValue(r.Context(), constant.ContextKeyOperator, operator)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
