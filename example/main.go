// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package main provides examples of using the compress middleware.
package main

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"rivaas.dev/compress"
	"rivaas.dev/router"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	// Host settings store, as loaded by the application at startup.
	settings := map[string]any{
		"COMPRESS_MIMETYPES": "text/html,text/css,application/json,image/svg+xml",
		"COMPRESS_LEVEL":     9,
		"COMPRESS_MIN_SIZE":  256,
	}

	r := router.MustNew()
	r.Use(compress.New(
		compress.WithSettings(settings),
		compress.WithDebug(os.Getenv("APP_ENV") == "development"),
		compress.WithLogger(logger),
	))

	// Compressed when the client accepts gzip
	r.GET("/page", func(c *router.Context) {
		//nolint:errcheck // Example handler
		c.HTML(http.StatusOK, "<html><body>"+strings.Repeat("<p>Lorem ipsum dolor sit amet.</p>", 50)+"</body></html>")
	})

	// Too small: only Vary is added
	r.GET("/ping", func(c *router.Context) {
		//nolint:errcheck // Example handler
		c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Not a configured mimetype: untouched
	r.GET("/robots.txt", func(c *router.Context) {
		//nolint:errcheck // Example handler
		c.String(http.StatusOK, "User-agent: *\nDisallow:\n")
	})

	log.Println("Server starting on http://localhost:8080")
	log.Println("Try: curl -sI -H 'Accept-Encoding: gzip' http://localhost:8080/page")
	log.Fatal(http.ListenAndServe(":8080", r))
}
