package inventory

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceCRUD(t *testing.T) {
	places := testService.client.Collection("place")
	if _, err := places.Clear(); err != nil {
		t.Fatal(err)
	}

	place := Place{}
	if _, err := places.Create(&Place{Name: "Top Shelf", Description: "pantry, left side"}, &place); err != nil {
		t.Fatal(err)
	}
	if place.ID == 0 {
		t.Fatal("no id")
	}

	placeGet := Place{}
	if _, err := places.Item(place.ID).Read(&placeGet); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, place, placeGet)

	placePut := placeGet
	placePut.Name = "Bottom Shelf"
	placeRes := Place{}
	if _, err := places.Item(place.ID).Update(&placePut, &placeRes); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, placePut, placeRes)

	if _, err := places.Item(place.ID).Delete(); err != nil {
		t.Fatal(err)
	}
	status, _ := places.Item(place.ID).Read(&placeGet)
	assert.Equal(t, http.StatusNotFound, status)
}
