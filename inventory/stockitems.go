package inventory

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ukis-tech/ukis/core"
	"github.com/ukis-tech/ukis/core/csql"
	"github.com/ukis-tech/ukis/core/logger"
)

// StockItem is a quantity of a product sitting at a place. The quantity
// is a plain column; it is never reconciled with the stock entry ledger.
type StockItem struct {
	ID        int64      `json:"id"`
	ProductID int64      `json:"product_id"`
	PlaceID   int64      `json:"place_id"`
	UnitID    int64      `json:"unit_id"`
	Quantity  float32    `json:"quantity"`
	BestBy    *time.Time `json:"best_by,omitempty"`
}

const stockItemColumns = "id, product_id, place_id, unit_id, quantity, best_by"

func (b *Backend) createStockItemResource(router *mux.Router) {
	schema := b.db.Schema
	nillog := logger.Default()
	nillog.Debugln("create collection: stock_item")

	_, err := b.db.Exec(`CREATE table IF NOT EXISTS ` + schema + `.stock_items
(id bigserial NOT NULL PRIMARY KEY,
product_id bigint NOT NULL DEFAULT 0,
place_id bigint NOT NULL DEFAULT 0,
unit_id bigint NOT NULL DEFAULT 0,
quantity real NOT NULL DEFAULT 0,
best_by timestamp
);`)
	if err != nil {
		panic(err)
	}
	b.collections = append(b.collections, "stock_items")

	listQuery := `SELECT ` + stockItemColumns + ` FROM ` + schema + `.stock_items ORDER BY id ASC;`
	readQuery := `SELECT ` + stockItemColumns + ` FROM ` + schema + `.stock_items WHERE id = $1;`
	insertQuery := `INSERT INTO ` + schema + `.stock_items (product_id, place_id, unit_id, quantity, best_by) VALUES($1,$2,$3,$4,$5) RETURNING ` + stockItemColumns + `;`
	updateQuery := `UPDATE ` + schema + `.stock_items SET product_id = $2, place_id = $3, unit_id = $4, quantity = $5, best_by = $6 WHERE id = $1 RETURNING ` + stockItemColumns + `;`
	deleteQuery := `DELETE FROM ` + schema + `.stock_items WHERE id = $1;`
	clearQuery := `DELETE FROM ` + schema + `.stock_items;`

	scanStockItem := func(scan func(dest ...interface{}) error) (StockItem, error) {
		var item StockItem
		var bestBy sql.NullTime
		err := scan(&item.ID, &item.ProductID, &item.PlaceID, &item.UnitID, &item.Quantity, &bestBy)
		if bestBy.Valid {
			t := bestBy.Time.UTC()
			item.BestBy = &t
		}
		return item, err
	}

	list := func(w http.ResponseWriter, r *http.Request) {
		rows, err := b.db.Query(listQuery)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4261: cannot execute query")
			http.Error(w, "Error 4261", http.StatusInternalServerError)
			return
		}
		defer rows.Close()
		response := []StockItem{}
		for rows.Next() {
			item, err := scanStockItem(rows.Scan)
			if err != nil {
				logger.FromContext(r.Context()).WithError(err).Errorln("Error 4262: cannot scan values")
				http.Error(w, "Error 4262", http.StatusInternalServerError)
				return
			}
			response = append(response, item)
		}
		writeJSON(w, r, http.StatusOK, response)
	}

	read := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "stock_item_id")
		if !ok {
			return
		}
		item, err := scanStockItem(b.db.QueryRow(readQuery, id).Scan)
		if err == csql.ErrNoRows {
			http.Error(w, "no such stock_item", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4263: cannot QueryRow")
			http.Error(w, "Error 4263", http.StatusInternalServerError)
			return
		}
		writeJSON(w, r, http.StatusOK, item)
	}

	create := func(w http.ResponseWriter, r *http.Request) {
		var item StockItem
		if !readBodyJSON(w, r, &item) {
			return
		}
		item, err := scanStockItem(b.db.QueryRow(insertQuery,
			item.ProductID, item.PlaceID, item.UnitID, item.Quantity, item.BestBy).Scan)
		if err != nil {
			if status, ok := constraintViolationStatus(err); ok {
				http.Error(w, "constraint violation", status)
				return
			}
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4264: cannot insert")
			http.Error(w, "Error 4264", http.StatusInternalServerError)
			return
		}
		jsonData := writeJSON(w, r, http.StatusCreated, item)
		b.notify(r, "stock_item", core.OperationCreate, item.ID, jsonData)
	}

	update := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "stock_item_id")
		if !ok {
			return
		}
		var item StockItem
		if !readBodyJSON(w, r, &item) {
			return
		}
		item, err := scanStockItem(b.db.QueryRow(updateQuery, id,
			item.ProductID, item.PlaceID, item.UnitID, item.Quantity, item.BestBy).Scan)
		if err == csql.ErrNoRows {
			http.Error(w, "no such stock_item", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4265: cannot update")
			http.Error(w, "Error 4265", http.StatusInternalServerError)
			return
		}
		jsonData := writeJSON(w, r, http.StatusOK, item)
		b.notify(r, "stock_item", core.OperationUpdate, item.ID, jsonData)
	}

	del := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "stock_item_id")
		if !ok {
			return
		}
		res, err := b.db.Exec(deleteQuery, id)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4266: cannot delete")
			http.Error(w, "Error 4266", http.StatusInternalServerError)
			return
		}
		if count, _ := res.RowsAffected(); count > 0 {
			b.notify(r, "stock_item", core.OperationDelete, id, nil)
		}
		w.WriteHeader(http.StatusNoContent)
	}

	clear := func(w http.ResponseWriter, r *http.Request) {
		_, err := b.db.Exec(clearQuery)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4267: cannot clear")
			http.Error(w, "Error 4267", http.StatusInternalServerError)
			return
		}
		b.notify(r, "stock_item", core.OperationClear, 0, nil)
		w.WriteHeader(http.StatusNoContent)
	}

	listRoute := "/" + core.Plural("stock_item")
	itemRoute := listRoute + "/{stock_item_id}"
	nillog.Debugln("  handle collection routes:", listRoute, "GET,POST,DELETE")
	nillog.Debugln("  handle item routes:", itemRoute, "GET,PUT,DELETE")

	router.HandleFunc(listRoute, logged(list)).Methods(http.MethodOptions, http.MethodGet)
	router.HandleFunc(listRoute, logged(create)).Methods(http.MethodOptions, http.MethodPost)
	router.HandleFunc(listRoute, logged(clear)).Methods(http.MethodOptions, http.MethodDelete)
	router.HandleFunc(itemRoute, logged(read)).Methods(http.MethodOptions, http.MethodGet)
	router.HandleFunc(itemRoute, logged(update)).Methods(http.MethodOptions, http.MethodPut)
	router.HandleFunc(itemRoute, logged(del)).Methods(http.MethodOptions, http.MethodDelete)
}
