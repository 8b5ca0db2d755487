package inventory

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnitConversionCRUD(t *testing.T) {
	conversions := testService.client.Collection("unit_conversion")
	if _, err := conversions.Clear(); err != nil {
		t.Fatal(err)
	}

	conversionNew := UnitConversion{FromUnitID: 1, ToUnitID: 2, Factor: 1000}
	conversion := UnitConversion{}
	if _, err := conversions.Create(&conversionNew, &conversion); err != nil {
		t.Fatal(err)
	}
	if conversion.ID == 0 {
		t.Fatal("no id")
	}
	if conversion.FromUnitID != conversionNew.FromUnitID ||
		conversion.ToUnitID != conversionNew.ToUnitID ||
		conversion.Factor != conversionNew.Factor {
		t.Fatal("unexpected result:", asJSON(conversion), "expected:", asJSON(conversionNew))
	}

	conversionGet := UnitConversion{}
	if _, err := conversions.Item(conversion.ID).Read(&conversionGet); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, conversion, conversionGet)

	conversionPut := conversionGet
	conversionPut.Factor = 0.001
	conversionRes := UnitConversion{}
	if _, err := conversions.Item(conversion.ID).Update(&conversionPut, &conversionRes); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, conversionPut, conversionRes)

	if _, err := conversions.Item(conversion.ID).Delete(); err != nil {
		t.Fatal(err)
	}
	status, _ := conversions.Item(conversion.ID).Read(&conversionGet)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestUnitConversionRoute(t *testing.T) {
	conversions := testService.client.Collection("unit_conversion")
	assert.Equal(t, "/unit_conversions", conversions.CollectionPath())
}
