package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestVersion verifies that the /version endpoint returns the build version
func TestVersion(t *testing.T) {
	version := map[string]string{}
	if _, err := testService.client.RawGet("/version", &version); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, map[string]string{"version": "unset"}, version)
}

// TestHealth verifies that the /healthz endpoint reports a healthy database
func TestHealth(t *testing.T) {
	health := map[string]string{}
	if _, err := testService.client.RawGet("/healthz", &health); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "ok", health["status"])
}
