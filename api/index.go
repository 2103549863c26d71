package handler

import (
	"net/http"

	proxyhttp "github.com/awantoch/traccarproxy/http"
)

// Handler is the entry point for Vercel serverless functions
func Handler(w http.ResponseWriter, r *http.Request) {
	proxyhttp.ServerlessHandler(w, r)
}
