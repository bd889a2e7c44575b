//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "pooch-profile-api"
	ConsumerName = "pooch-storefront"

	StateShopifyAccepts     = "shopify accepts pooch profiles"
	StateShopifyRejectsType = "shopify rejects the pooch profile type"
)

const (
	RejectedTypeMessage = "Type is invalid"
	ExampleCustomerID   = "7301"
	ExampleProfileType  = "pooch_profile"
	ExampleProfileID    = "gid://shopify/Metaobject/1001"
)

const (
	examplePoochName  = "Biscuit"
	examplePoochBreed = "Beagle"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleSubmission is the JSON form a storefront posts to create a profile.
func ExampleSubmission() map[string]any {
	return map[string]any{
		"name":       examplePoochName,
		"customerId": ExampleCustomerID,
		"breed":      examplePoochBreed,
		"birthday":   "2021-04-01",
		"weight":     "11.5",
		"notes":      "Loves carrots",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
