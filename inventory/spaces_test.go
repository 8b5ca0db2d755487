package inventory

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpaceCRUD(t *testing.T) {
	spaces := testService.client.Collection("space")
	if _, err := spaces.Clear(); err != nil {
		t.Fatal(err)
	}

	space := Space{}
	if _, err := spaces.Create(&Space{Name: "Pantry", Description: "next to the kitchen"}, &space); err != nil {
		t.Fatal(err)
	}
	if space.ID == 0 {
		t.Fatal("no id")
	}

	spaceGet := Space{}
	if _, err := spaces.Item(space.ID).Read(&spaceGet); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, space, spaceGet)

	spacePut := spaceGet
	spacePut.Description = "moved to the basement"
	spaceRes := Space{}
	if _, err := spaces.Item(space.ID).Update(&spacePut, &spaceRes); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, spacePut, spaceRes)

	if _, err := spaces.Item(space.ID).Delete(); err != nil {
		t.Fatal(err)
	}
	status, _ := spaces.Item(space.ID).Read(&spaceGet)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSpaceClear(t *testing.T) {
	spaces := testService.client.Collection("space")
	for _, name := range []string{"Freezer", "Fridge"} {
		if _, err := spaces.Create(&Space{Name: name}, nil); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := spaces.Clear(); err != nil {
		t.Fatal(err)
	}
	list := []Space{}
	if _, err := spaces.List(&list); err != nil {
		t.Fatal(err)
	}
	assert.Empty(t, list)
}
