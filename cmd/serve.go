package cmd

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"urlvet/urlcheck"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the URL checking HTTP service",
	Long: `Serve starts the HTTP service exposing the scoring engine.

Endpoints:
  POST /check    - score a candidate URL ({"url": "..."})
  GET  /check    - same, via ?url= query parameter
  GET  /healthz  - liveness`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	validator := urlcheck.New(urlcheck.Config{
		SafeBrowsingKey: os.Getenv("GOOGLE_SAFE_BROWSING_KEY"),
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      urlcheck.Routes(validator),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("urlvet service listening on :%s", port)
	if os.Getenv("GOOGLE_SAFE_BROWSING_KEY") == "" {
		log.Println("[serve] GOOGLE_SAFE_BROWSING_KEY not set; threat-list stage will be skipped")
	}

	return srv.ListenAndServe()
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
