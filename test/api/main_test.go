//go:build integration

// Package api_test exercises a running, seeded BloodLink API
// (bloodlinkctl seed --migrate). Set API_URL to point elsewhere than
// localhost:8080.
package api_test

import (
	"fmt"
	"net/http"
	"os"
	"testing"
)

func TestMain(m *testing.M) {
	resp, err := client.Get(baseURL() + "/health/live")
	if err != nil {
		fmt.Fprintf(os.Stderr, "API server not reachable at %s: %v\n", baseURL(), err)
		os.Exit(1)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(os.Stderr, "API server unhealthy: %s\n", resp.Status)
		os.Exit(1)
	}
	os.Exit(m.Run())
}
