// Package handler is the Vercel Go runtime entrypoint.
package handler

import (
	"context"
	"net/http"
	"os"
	"sync"

	"github.com/gilberto978/bishbash-api/internal/bootstrap"
)

var (
	once    sync.Once
	router  http.Handler
	initErr error
)

// Handler serves every request through the shared router, built on first use.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		ctx := context.Background()
		rt, err := bootstrap.Start(ctx, os.Stdout)
		if err != nil {
			initErr = err
			return
		}
		router = rt.Router(ctx)
	})
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Server error"}`))
		return
	}
	router.ServeHTTP(w, r)
}
