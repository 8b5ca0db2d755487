package test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/segmentio/kafka-go"

	"github.com/ukis-tech/ukis/core"
	"github.com/ukis-tech/ukis/events"
	"github.com/ukis-tech/ukis/inventory"
)

func TestIntegrationSuite(t *testing.T) {
	if os.Getenv("UKIS_INTEGRATION_TEST") == "" {
		t.Skip("set UKIS_INTEGRATION_TEST to run the container-based integration suite")
	}
	s := &IntegrationTestSuite{}
	s.SetT(t)
	s.SetupSuite()
	defer s.TearDownSuite()

	t.Run("ProductNotifications", s.testProductNotifications)
	t.Run("StockFlow", s.testStockFlow)
}

// testProductNotifications creates and deletes a product and verifies that
// both operations arrive on the notification topic, in order.
func (s *IntegrationTestSuite) testProductNotifications(t *testing.T) {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     []string{s.kafkaAddr},
		Topic:       notificationTopic,
		Partition:   0,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	defer reader.Close()

	product := inventory.Product{}
	if _, err := s.client.RawPost("/products", &inventory.Product{Name: "Rice"}, &product); err != nil {
		t.Fatal(err)
	}
	if _, err := s.client.RawDelete(s.client.Collection("product").Item(product.ID).Path()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	operations := []core.Operation{}
	for len(operations) < 2 {
		message, err := reader.ReadMessage(ctx)
		if err != nil {
			t.Fatal(err)
		}
		notification := events.Notification{}
		if err := json.Unmarshal(message.Value, &notification); err != nil {
			t.Fatal(err)
		}
		if notification.Resource != "product" || notification.ResourceID != product.ID {
			continue
		}
		operations = append(operations, notification.Operation)
	}
	if operations[0] != core.OperationCreate || operations[1] != core.OperationDelete {
		t.Fatalf("unexpected operation order: %v", operations)
	}
}

// testStockFlow runs a small purchase scenario across several resources
func (s *IntegrationTestSuite) testStockFlow(t *testing.T) {
	unit := inventory.Unit{}
	if _, err := s.client.RawPost("/units", &inventory.Unit{Singular: "gram", Plural: "grams"}, &unit); err != nil {
		t.Fatal(err)
	}
	place := inventory.Place{}
	if _, err := s.client.RawPost("/places", &inventory.Place{Name: "Top Shelf"}, &place); err != nil {
		t.Fatal(err)
	}
	product := inventory.Product{}
	if _, err := s.client.RawPost("/products", &inventory.Product{Name: "Sugar", StockUnitID: unit.ID}, &product); err != nil {
		t.Fatal(err)
	}

	entry := inventory.StockEntry{}
	if _, err := s.client.RawPost("/stock_entries", &inventory.StockEntry{
		EntryType:     inventory.StockEntryPurchase,
		ProductID:     product.ID,
		Quantity:      500,
		UnitID:        unit.ID,
		TargetPlaceID: place.ID,
	}, &entry); err != nil {
		t.Fatal(err)
	}
	if entry.CreatedAt.IsZero() {
		t.Fatal("no creation timestamp")
	}

	item := inventory.StockItem{}
	if _, err := s.client.RawPost("/stock_items", &inventory.StockItem{
		ProductID: product.ID,
		PlaceID:   place.ID,
		UnitID:    unit.ID,
		Quantity:  500,
	}, &item); err != nil {
		t.Fatal(err)
	}

	items := []inventory.StockItem{}
	if _, err := s.client.RawGet("/stock_items", &items); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, i := range items {
		if i.ID == item.ID && i.ProductID == product.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("stock item not listed")
	}
}
