package inventory

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStockItemCRUD(t *testing.T) {
	items := testService.client.Collection("stock_item")
	if _, err := items.Clear(); err != nil {
		t.Fatal(err)
	}

	bestBy := time.Now().UTC().Add(14 * 24 * time.Hour).Round(time.Millisecond) // round to postgres precision
	itemNew := StockItem{ProductID: 1, PlaceID: 2, UnitID: 3, Quantity: 1.5, BestBy: &bestBy}
	item := StockItem{}
	if _, err := items.Create(&itemNew, &item); err != nil {
		t.Fatal(err)
	}
	if item.ID == 0 {
		t.Fatal("no id")
	}
	itemNew.ID = item.ID
	assert.Equal(t, itemNew, item)

	itemGet := StockItem{}
	if _, err := items.Item(item.ID).Read(&itemGet); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, item, itemGet)

	itemPut := itemGet
	itemPut.Quantity = 0.5
	itemPut.BestBy = nil
	itemRes := StockItem{}
	if _, err := items.Item(item.ID).Update(&itemPut, &itemRes); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, itemPut, itemRes)
	assert.Nil(t, itemRes.BestBy)

	if _, err := items.Item(item.ID).Delete(); err != nil {
		t.Fatal(err)
	}
	status, _ := items.Item(item.ID).Read(&itemGet)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStockItem_NoBestBy(t *testing.T) {
	items := testService.client.Collection("stock_item")
	item := StockItem{}
	if _, err := items.Create(&StockItem{ProductID: 7, Quantity: 3}, &item); err != nil {
		t.Fatal(err)
	}
	assert.Nil(t, item.BestBy)

	if _, err := items.Item(item.ID).Delete(); err != nil {
		t.Fatal(err)
	}
}
