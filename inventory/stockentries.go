package inventory

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/ukis-tech/ukis/core"
	"github.com/ukis-tech/ukis/core/csql"
	"github.com/ukis-tech/ukis/core/logger"
)

// StockEntryType represents a recorded stock movement, one of Purchase, Transfer, Consume, Expire
type StockEntryType string

// all supported stock movement types
const (
	StockEntryPurchase StockEntryType = "purchase"
	StockEntryTransfer StockEntryType = "transfer"
	StockEntryConsume  StockEntryType = "consume"
	StockEntryExpire   StockEntryType = "expire"
)

// UnmarshalJSON is a custom JSON unmarshaller
func (t *StockEntryType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = StockEntryType(s)
	switch *t {
	case StockEntryPurchase, StockEntryTransfer, StockEntryConsume, StockEntryExpire:
		return nil
	default:
		return fmt.Errorf("%s is not valid StockEntryType", s)
	}
}

// StockEntry is one line in the stock movement ledger. A purchase has a
// target place only, a consume or expire a source place only, a transfer
// both. The creation timestamp is set by the database, not by the
// caller. Entries are plain history, no stock level is ever derived
// from them.
type StockEntry struct {
	ID            int64          `json:"id"`
	EntryType     StockEntryType `json:"entry_type"`
	ProductID     int64          `json:"product_id"`
	Quantity      float32        `json:"quantity"`
	UnitID        int64          `json:"unit_id"`
	SourcePlaceID int64          `json:"source_place_id"`
	TargetPlaceID int64          `json:"target_place_id"`
	BestBy        *time.Time     `json:"best_by,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

const stockEntryColumns = "id, entry_type, product_id, quantity, unit_id, source_place_id, target_place_id, best_by, created_at"

func (b *Backend) createStockEntryResource(router *mux.Router) {
	schema := b.db.Schema
	nillog := logger.Default()
	nillog.Debugln("create collection: stock_entry")

	_, err := b.db.Exec(`CREATE table IF NOT EXISTS ` + schema + `.stock_entries
(id bigserial NOT NULL PRIMARY KEY,
entry_type varchar NOT NULL DEFAULT 'purchase',
product_id bigint NOT NULL DEFAULT 0,
quantity real NOT NULL DEFAULT 0,
unit_id bigint NOT NULL DEFAULT 0,
source_place_id bigint NOT NULL DEFAULT 0,
target_place_id bigint NOT NULL DEFAULT 0,
best_by timestamp,
created_at timestamp NOT NULL DEFAULT now()
);`)
	if err != nil {
		panic(err)
	}
	b.collections = append(b.collections, "stock_entries")

	listQuery := `SELECT ` + stockEntryColumns + ` FROM ` + schema + `.stock_entries ORDER BY id ASC;`
	readQuery := `SELECT ` + stockEntryColumns + ` FROM ` + schema + `.stock_entries WHERE id = $1;`
	insertQuery := `INSERT INTO ` + schema + `.stock_entries (entry_type, product_id, quantity, unit_id, source_place_id, target_place_id, best_by) VALUES($1,$2,$3,$4,$5,$6,$7) RETURNING ` + stockEntryColumns + `;`
	updateQuery := `UPDATE ` + schema + `.stock_entries SET entry_type = $2, product_id = $3, quantity = $4, unit_id = $5, source_place_id = $6, target_place_id = $7, best_by = $8 WHERE id = $1 RETURNING ` + stockEntryColumns + `;`
	deleteQuery := `DELETE FROM ` + schema + `.stock_entries WHERE id = $1;`
	clearQuery := `DELETE FROM ` + schema + `.stock_entries;`

	scanStockEntry := func(scan func(dest ...interface{}) error) (StockEntry, error) {
		var entry StockEntry
		var bestBy sql.NullTime
		err := scan(&entry.ID, &entry.EntryType, &entry.ProductID, &entry.Quantity,
			&entry.UnitID, &entry.SourcePlaceID, &entry.TargetPlaceID, &bestBy, &entry.CreatedAt)
		if bestBy.Valid {
			t := bestBy.Time.UTC()
			entry.BestBy = &t
		}
		return entry, err
	}

	list := func(w http.ResponseWriter, r *http.Request) {
		rows, err := b.db.Query(listQuery)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4271: cannot execute query")
			http.Error(w, "Error 4271", http.StatusInternalServerError)
			return
		}
		defer rows.Close()
		response := []StockEntry{}
		for rows.Next() {
			entry, err := scanStockEntry(rows.Scan)
			if err != nil {
				logger.FromContext(r.Context()).WithError(err).Errorln("Error 4272: cannot scan values")
				http.Error(w, "Error 4272", http.StatusInternalServerError)
				return
			}
			response = append(response, entry)
		}
		writeJSON(w, r, http.StatusOK, response)
	}

	read := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "stock_entry_id")
		if !ok {
			return
		}
		entry, err := scanStockEntry(b.db.QueryRow(readQuery, id).Scan)
		if err == csql.ErrNoRows {
			http.Error(w, "no such stock_entry", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4273: cannot QueryRow")
			http.Error(w, "Error 4273", http.StatusInternalServerError)
			return
		}
		writeJSON(w, r, http.StatusOK, entry)
	}

	create := func(w http.ResponseWriter, r *http.Request) {
		entry := StockEntry{EntryType: StockEntryPurchase}
		if !readBodyJSON(w, r, &entry) {
			return
		}
		entry, err := scanStockEntry(b.db.QueryRow(insertQuery, entry.EntryType,
			entry.ProductID, entry.Quantity, entry.UnitID,
			entry.SourcePlaceID, entry.TargetPlaceID, entry.BestBy).Scan)
		if err != nil {
			if status, ok := constraintViolationStatus(err); ok {
				http.Error(w, "constraint violation", status)
				return
			}
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4274: cannot insert")
			http.Error(w, "Error 4274", http.StatusInternalServerError)
			return
		}
		jsonData := writeJSON(w, r, http.StatusCreated, entry)
		b.notify(r, "stock_entry", core.OperationCreate, entry.ID, jsonData)
	}

	update := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "stock_entry_id")
		if !ok {
			return
		}
		entry := StockEntry{EntryType: StockEntryPurchase}
		if !readBodyJSON(w, r, &entry) {
			return
		}
		entry, err := scanStockEntry(b.db.QueryRow(updateQuery, id, entry.EntryType,
			entry.ProductID, entry.Quantity, entry.UnitID,
			entry.SourcePlaceID, entry.TargetPlaceID, entry.BestBy).Scan)
		if err == csql.ErrNoRows {
			http.Error(w, "no such stock_entry", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4275: cannot update")
			http.Error(w, "Error 4275", http.StatusInternalServerError)
			return
		}
		jsonData := writeJSON(w, r, http.StatusOK, entry)
		b.notify(r, "stock_entry", core.OperationUpdate, entry.ID, jsonData)
	}

	del := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "stock_entry_id")
		if !ok {
			return
		}
		res, err := b.db.Exec(deleteQuery, id)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4276: cannot delete")
			http.Error(w, "Error 4276", http.StatusInternalServerError)
			return
		}
		if count, _ := res.RowsAffected(); count > 0 {
			b.notify(r, "stock_entry", core.OperationDelete, id, nil)
		}
		w.WriteHeader(http.StatusNoContent)
	}

	clear := func(w http.ResponseWriter, r *http.Request) {
		_, err := b.db.Exec(clearQuery)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4277: cannot clear")
			http.Error(w, "Error 4277", http.StatusInternalServerError)
			return
		}
		b.notify(r, "stock_entry", core.OperationClear, 0, nil)
		w.WriteHeader(http.StatusNoContent)
	}

	listRoute := "/" + core.Plural("stock_entry")
	itemRoute := listRoute + "/{stock_entry_id}"
	nillog.Debugln("  handle collection routes:", listRoute, "GET,POST,DELETE")
	nillog.Debugln("  handle item routes:", itemRoute, "GET,PUT,DELETE")

	router.HandleFunc(listRoute, logged(list)).Methods(http.MethodOptions, http.MethodGet)
	router.HandleFunc(listRoute, logged(create)).Methods(http.MethodOptions, http.MethodPost)
	router.HandleFunc(listRoute, logged(clear)).Methods(http.MethodOptions, http.MethodDelete)
	router.HandleFunc(itemRoute, logged(read)).Methods(http.MethodOptions, http.MethodGet)
	router.HandleFunc(itemRoute, logged(update)).Methods(http.MethodOptions, http.MethodPut)
	router.HandleFunc(itemRoute, logged(del)).Methods(http.MethodOptions, http.MethodDelete)
}
