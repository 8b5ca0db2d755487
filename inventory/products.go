package inventory

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ukis-tech/ukis/core"
	"github.com/ukis-tech/ukis/core/csql"
	"github.com/ukis-tech/ukis/core/logger"
)

// Product is something that can be kept in stock. The unit ids and the
// purchase-to-stock factor are plain columns; no conversion arithmetic
// happens on this side of the API.
type Product struct {
	ID                    int64   `json:"id"`
	Name                  string  `json:"name"`
	Description           string  `json:"description"`
	ParentProductID       int64   `json:"parent_product_id"`
	PurchaseUnitID        int64   `json:"purchase_unit_id"`
	StockUnitID           int64   `json:"stock_unit_id"`
	PurchaseToStockFactor float32 `json:"purchase_to_stock_factor"`
}

const productColumns = "id, name, description, parent_product_id, purchase_unit_id, stock_unit_id, purchase_to_stock_factor"

func (p *Product) scanTargets() []interface{} {
	return []interface{}{&p.ID, &p.Name, &p.Description, &p.ParentProductID,
		&p.PurchaseUnitID, &p.StockUnitID, &p.PurchaseToStockFactor}
}

func (b *Backend) createProductResource(router *mux.Router) {
	schema := b.db.Schema
	nillog := logger.Default()
	nillog.Debugln("create collection: product")

	_, err := b.db.Exec(`CREATE table IF NOT EXISTS ` + schema + `.products
(id bigserial NOT NULL PRIMARY KEY,
name varchar NOT NULL DEFAULT '',
description varchar NOT NULL DEFAULT '',
parent_product_id bigint NOT NULL DEFAULT 0,
purchase_unit_id bigint NOT NULL DEFAULT 0,
stock_unit_id bigint NOT NULL DEFAULT 0,
purchase_to_stock_factor real NOT NULL DEFAULT 0
);`)
	if err != nil {
		panic(err)
	}
	b.collections = append(b.collections, "products")

	listQuery := `SELECT ` + productColumns + ` FROM ` + schema + `.products ORDER BY id ASC;`
	readQuery := `SELECT ` + productColumns + ` FROM ` + schema + `.products WHERE id = $1;`
	insertQuery := `INSERT INTO ` + schema + `.products (name, description, parent_product_id, purchase_unit_id, stock_unit_id, purchase_to_stock_factor) VALUES($1,$2,$3,$4,$5,$6) RETURNING ` + productColumns + `;`
	updateQuery := `UPDATE ` + schema + `.products SET name = $2, description = $3, parent_product_id = $4, purchase_unit_id = $5, stock_unit_id = $6, purchase_to_stock_factor = $7 WHERE id = $1 RETURNING ` + productColumns + `;`
	deleteQuery := `DELETE FROM ` + schema + `.products WHERE id = $1;`
	clearQuery := `DELETE FROM ` + schema + `.products;`

	list := func(w http.ResponseWriter, r *http.Request) {
		rows, err := b.db.Query(listQuery)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4231: cannot execute query")
			http.Error(w, "Error 4231", http.StatusInternalServerError)
			return
		}
		defer rows.Close()
		response := []Product{}
		for rows.Next() {
			var product Product
			if err := rows.Scan(product.scanTargets()...); err != nil {
				logger.FromContext(r.Context()).WithError(err).Errorln("Error 4232: cannot scan values")
				http.Error(w, "Error 4232", http.StatusInternalServerError)
				return
			}
			response = append(response, product)
		}
		writeJSON(w, r, http.StatusOK, response)
	}

	read := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "product_id")
		if !ok {
			return
		}
		var product Product
		err := b.db.QueryRow(readQuery, id).Scan(product.scanTargets()...)
		if err == csql.ErrNoRows {
			http.Error(w, "no such product", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4233: cannot QueryRow")
			http.Error(w, "Error 4233", http.StatusInternalServerError)
			return
		}
		writeJSON(w, r, http.StatusOK, product)
	}

	create := func(w http.ResponseWriter, r *http.Request) {
		var product Product
		if !readBodyJSON(w, r, &product) {
			return
		}
		err := b.db.QueryRow(insertQuery, product.Name, product.Description, product.ParentProductID,
			product.PurchaseUnitID, product.StockUnitID, product.PurchaseToStockFactor).
			Scan(product.scanTargets()...)
		if err != nil {
			if status, ok := constraintViolationStatus(err); ok {
				http.Error(w, "constraint violation", status)
				return
			}
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4234: cannot insert")
			http.Error(w, "Error 4234", http.StatusInternalServerError)
			return
		}
		jsonData := writeJSON(w, r, http.StatusCreated, product)
		b.notify(r, "product", core.OperationCreate, product.ID, jsonData)
	}

	update := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "product_id")
		if !ok {
			return
		}
		var product Product
		if !readBodyJSON(w, r, &product) {
			return
		}
		err := b.db.QueryRow(updateQuery, id, product.Name, product.Description, product.ParentProductID,
			product.PurchaseUnitID, product.StockUnitID, product.PurchaseToStockFactor).
			Scan(product.scanTargets()...)
		if err == csql.ErrNoRows {
			http.Error(w, "no such product", http.StatusNotFound)
			return
		}
		if err != nil {
			if status, ok := constraintViolationStatus(err); ok {
				http.Error(w, "constraint violation", status)
				return
			}
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4235: cannot update")
			http.Error(w, "Error 4235", http.StatusInternalServerError)
			return
		}
		jsonData := writeJSON(w, r, http.StatusOK, product)
		b.notify(r, "product", core.OperationUpdate, product.ID, jsonData)
	}

	del := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "product_id")
		if !ok {
			return
		}
		res, err := b.db.Exec(deleteQuery, id)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4236: cannot delete")
			http.Error(w, "Error 4236", http.StatusInternalServerError)
			return
		}
		if count, _ := res.RowsAffected(); count > 0 {
			b.deleteProductPhotos(r, id)
			b.notify(r, "product", core.OperationDelete, id, nil)
		}
		w.WriteHeader(http.StatusNoContent)
	}

	clear := func(w http.ResponseWriter, r *http.Request) {
		_, err := b.db.Exec(clearQuery)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4237: cannot clear")
			http.Error(w, "Error 4237", http.StatusInternalServerError)
			return
		}
		b.deleteAllProductPhotos(r)
		b.notify(r, "product", core.OperationClear, 0, nil)
		w.WriteHeader(http.StatusNoContent)
	}

	listRoute := "/" + core.Plural("product")
	itemRoute := listRoute + "/{product_id}"
	nillog.Debugln("  handle collection routes:", listRoute, "GET,POST,DELETE")
	nillog.Debugln("  handle item routes:", itemRoute, "GET,PUT,DELETE")

	router.HandleFunc(listRoute, logged(list)).Methods(http.MethodOptions, http.MethodGet)
	router.HandleFunc(listRoute, logged(create)).Methods(http.MethodOptions, http.MethodPost)
	router.HandleFunc(listRoute, logged(clear)).Methods(http.MethodOptions, http.MethodDelete)
	router.HandleFunc(itemRoute, logged(read)).Methods(http.MethodOptions, http.MethodGet)
	router.HandleFunc(itemRoute, logged(update)).Methods(http.MethodOptions, http.MethodPut)
	router.HandleFunc(itemRoute, logged(del)).Methods(http.MethodOptions, http.MethodDelete)
}
