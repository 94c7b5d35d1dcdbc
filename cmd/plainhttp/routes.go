package main

import (
	"github.com/indigo-web/plainhttp/http"
	"github.com/indigo-web/plainhttp/router/table"
)

type info struct {
	Method    string `json:"method"`
	Path      string `json:"path"`
	Protocol  string `json:"protocol"`
	KeepAlive bool   `json:"keep_alive"`
	Headers   int    `json:"headers"`
}

func routes() *table.Table {
	return table.New().
		Get("/healthz", Healthz).
		Get("/hello", Hello).
		Get("/", Index).
		Post("/echo", Echo).
		Get("/info", Info)
}

func Healthz(request *http.Request) (*http.Response, error) {
	return http.String(request, "ok"), nil
}

func Hello(request *http.Request) (*http.Response, error) {
	agent := request.Headers.ValueOr("User-Agent", "unknown")
	return http.String(request, "Hello from Go HTTP! UA="+agent), nil
}

func Index(request *http.Request) (*http.Response, error) {
	return http.String(request, "Welcome"), nil
}

func Echo(request *http.Request) (*http.Response, error) {
	return request.Respond().
		ContentType(request.Headers.ValueOr("Content-Type", "application/octet-stream")).
		Bytes(request.Body), nil
}

func Info(request *http.Request) (*http.Response, error) {
	return request.Respond().TryJSON(info{
		Method:    request.Method,
		Path:      request.Path,
		Protocol:  request.Protocol.String(),
		KeepAlive: request.KeepAlive,
		Headers:   request.Headers.Len(),
	})
}
