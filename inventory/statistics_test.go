package inventory

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestStatistics verifies that the /ukis/statistics endpoint returns
// information about all served collections
func TestStatistics(t *testing.T) {
	units := testService.client.Collection("unit")
	if _, err := units.Clear(); err != nil {
		t.Fatal(err)
	}
	for _, singular := range []string{"gram", "litre"} {
		if _, err := units.Create(&Unit{Singular: singular}, nil); err != nil {
			t.Fatal(err)
		}
	}

	stats := struct {
		Collections []struct {
			Resource     string  `json:"resource"`
			Count        int64   `json:"count"`
			SizeMB       float64 `json:"size_mb"`
			AverageSizeB float64 `json:"average_size_b"`
		} `json:"collections"`
	}{}
	status, header, err := testService.client.RawGetWithHeader("/ukis/statistics", map[string]string{}, &stats)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, http.StatusOK, status)

	expected := []string{"places", "products", "spaces", "stock_entries", "stock_items", "unit_conversions", "units"}
	resources := []string{}
	for _, c := range stats.Collections {
		resources = append(resources, c.Resource)
		if c.Resource == "units" {
			assert.Equal(t, int64(2), c.Count)
			assert.Greater(t, c.SizeMB, 0.0)
		}
	}
	assert.Equal(t, expected, resources)

	etag := header.Get("Etag")
	assert.NotEmpty(t, etag)
	status, _, err = testService.client.RawGetWithHeader("/ukis/statistics", map[string]string{"If-None-Match": etag}, nil)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, http.StatusNotModified, status)

	if _, err := units.Clear(); err != nil {
		t.Fatal(err)
	}
}
