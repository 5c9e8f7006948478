package source

import (
	"log/slog"
	"net/http"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}
