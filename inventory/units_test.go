package inventory

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitCRUD(t *testing.T) {
	units := testService.client.Collection("unit")
	if _, err := units.Clear(); err != nil {
		t.Fatal(err)
	}

	unitNew := Unit{Singular: "gram", Plural: "grams"}
	unit := Unit{}
	if _, err := units.Create(&unitNew, &unit); err != nil {
		t.Fatal(err)
	}
	if unit.ID == 0 {
		t.Fatal("no id")
	}
	if unit.Singular != unitNew.Singular || unit.Plural != unitNew.Plural {
		t.Fatal("unexpected result:", asJSON(unit), "expected:", asJSON(unitNew))
	}

	unitGet := Unit{}
	if _, err := units.Item(unit.ID).Read(&unitGet); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, unit, unitGet)

	unitPut := unitGet
	unitPut.Singular = "kilogram"
	unitPut.Plural = "kilograms"
	unitRes := Unit{}
	if _, err := units.Item(unit.ID).Update(&unitPut, &unitRes); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, unitPut, unitRes)

	list := []Unit{}
	if _, err := units.List(&list); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, []Unit{unitRes}, list)

	if _, err := units.Item(unit.ID).Delete(); err != nil {
		t.Fatal(err)
	}
	status, _ := units.Item(unit.ID).Read(&unitGet)
	assert.Equal(t, http.StatusNotFound, status)

	// deleting again is idempotent
	status, err := units.Item(unit.ID).Delete()
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, http.StatusNoContent, status)
}

func TestUnitList_Ordered(t *testing.T) {
	units := testService.client.Collection("unit")
	if _, err := units.Clear(); err != nil {
		t.Fatal(err)
	}

	for _, singular := range []string{"piece", "litre", "bottle"} {
		if _, err := units.Create(&Unit{Singular: singular, Plural: singular + "s"}, nil); err != nil {
			t.Fatal(err)
		}
	}

	list := []Unit{}
	if _, err := units.List(&list); err != nil {
		t.Fatal(err)
	}
	if assert.Len(t, list, 3) {
		assert.Less(t, list[0].ID, list[1].ID)
		assert.Less(t, list[1].ID, list[2].ID)
	}
}

func TestUnitInvalidID(t *testing.T) {
	status, err := testService.client.RawGet("/units/not-a-number", nil)
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, status)

	status, err = testService.client.RawDelete("/units/not-a-number")
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestUnitUpdate_NotFound(t *testing.T) {
	units := testService.client.Collection("unit")
	status, err := units.Item(987654321).Update(&Unit{Singular: "ghost"}, nil)
	assert.Error(t, err)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUnitEtag(t *testing.T) {
	units := testService.client.Collection("unit")
	if _, err := units.Clear(); err != nil {
		t.Fatal(err)
	}
	unit := Unit{}
	if _, err := units.Create(&Unit{Singular: "box", Plural: "boxes"}, &unit); err != nil {
		t.Fatal(err)
	}

	path := units.Item(unit.ID).Path()
	status, header, err := testService.client.RawGetWithHeader(path, map[string]string{}, &Unit{})
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, http.StatusOK, status)
	etag := header.Get("Etag")
	assert.NotEmpty(t, etag)

	status, _, err = testService.client.RawGetWithHeader(path, map[string]string{"If-None-Match": etag}, nil)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, http.StatusNotModified, status)
}

func TestUnitBadBody(t *testing.T) {
	status, err := testService.client.RawPost("/units", []byte("{not json"), nil)
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
}
