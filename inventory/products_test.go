package inventory

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProductCRUD(t *testing.T) {
	products := testService.client.Collection("product")
	if _, err := products.Clear(); err != nil {
		t.Fatal(err)
	}

	productNew := Product{
		Name:                  "Flour",
		Description:           "all-purpose wheat flour",
		PurchaseUnitID:        1,
		StockUnitID:           2,
		PurchaseToStockFactor: 1000,
	}
	product := Product{}
	if _, err := products.Create(&productNew, &product); err != nil {
		t.Fatal(err)
	}
	if product.ID == 0 {
		t.Fatal("no id")
	}
	productNew.ID = product.ID
	assert.Equal(t, productNew, product)

	productGet := Product{}
	if _, err := products.Item(product.ID).Read(&productGet); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, product, productGet)

	productPut := productGet
	productPut.Description = "bleached all-purpose wheat flour"
	productPut.ParentProductID = 42
	productRes := Product{}
	if _, err := products.Item(product.ID).Update(&productPut, &productRes); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, productPut, productRes)

	if _, err := products.Item(product.ID).Delete(); err != nil {
		t.Fatal(err)
	}
	status, _ := products.Item(product.ID).Read(&productGet)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestProduct_DefaultsOnEmptyBody(t *testing.T) {
	products := testService.client.Collection("product")
	product := Product{}
	if _, err := testService.client.RawPost(products.CollectionPath(), []byte{}, &product); err != nil {
		t.Fatal(err)
	}
	if product.ID == 0 {
		t.Fatal("no id")
	}
	assert.Equal(t, "", product.Name)
	assert.Equal(t, float32(0), product.PurchaseToStockFactor)

	if _, err := products.Item(product.ID).Delete(); err != nil {
		t.Fatal(err)
	}
}
