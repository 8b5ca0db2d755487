package inventory

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStockEntryCRUD(t *testing.T) {
	entries := testService.client.Collection("stock_entry")
	if _, err := entries.Clear(); err != nil {
		t.Fatal(err)
	}

	bestBy := time.Now().UTC().Add(7 * 24 * time.Hour).Round(time.Millisecond) // round to postgres precision
	entryNew := StockEntry{
		EntryType:     StockEntryPurchase,
		ProductID:     1,
		Quantity:      2,
		UnitID:        3,
		TargetPlaceID: 4,
		BestBy:        &bestBy,
	}
	entry := StockEntry{}
	if _, err := entries.Create(&entryNew, &entry); err != nil {
		t.Fatal(err)
	}
	if entry.ID == 0 {
		t.Fatal("no id")
	}
	if entry.CreatedAt.IsZero() {
		t.Fatal("no creation timestamp")
	}
	assert.WithinDuration(t, time.Now(), entry.CreatedAt, time.Minute)
	entryNew.ID = entry.ID
	entryNew.CreatedAt = entry.CreatedAt
	assert.Equal(t, entryNew, entry)

	entryGet := StockEntry{}
	if _, err := entries.Item(entry.ID).Read(&entryGet); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, entry, entryGet)

	entryPut := entryGet
	entryPut.EntryType = StockEntryTransfer
	entryPut.SourcePlaceID = 4
	entryPut.TargetPlaceID = 5
	entryRes := StockEntry{}
	if _, err := entries.Item(entry.ID).Update(&entryPut, &entryRes); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, StockEntryTransfer, entryRes.EntryType)
	assert.Equal(t, int64(4), entryRes.SourcePlaceID)
	assert.Equal(t, int64(5), entryRes.TargetPlaceID)
	// the creation timestamp belongs to the database, an update does not move it
	assert.Equal(t, entry.CreatedAt, entryRes.CreatedAt)

	if _, err := entries.Item(entry.ID).Delete(); err != nil {
		t.Fatal(err)
	}
	status, _ := entries.Item(entry.ID).Read(&entryGet)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestStockEntry_EntryTypes(t *testing.T) {
	entries := testService.client.Collection("stock_entry")
	for _, entryType := range []StockEntryType{StockEntryPurchase, StockEntryTransfer, StockEntryConsume, StockEntryExpire} {
		entry := StockEntry{}
		if _, err := entries.Create(&StockEntry{EntryType: entryType, Quantity: 1}, &entry); err != nil {
			t.Fatal(err)
		}
		assert.Equal(t, entryType, entry.EntryType)
		if _, err := entries.Item(entry.ID).Delete(); err != nil {
			t.Fatal(err)
		}
	}
}

func TestStockEntry_InvalidEntryType(t *testing.T) {
	status, err := testService.client.RawPost("/stock_entries",
		[]byte(`{"entry_type":"teleport","quantity":1}`), nil)
	assert.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestStockEntry_DefaultsToPurchase(t *testing.T) {
	entries := testService.client.Collection("stock_entry")
	entry := StockEntry{}
	if _, err := entries.Create(&StockEntry{Quantity: 4}, &entry); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, StockEntryPurchase, entry.EntryType)
	assert.Nil(t, entry.BestBy)
	if _, err := entries.Item(entry.ID).Delete(); err != nil {
		t.Fatal(err)
	}
}
