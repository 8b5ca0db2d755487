package inventory

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ukis-tech/ukis/core"
	"github.com/ukis-tech/ukis/core/csql"
	"github.com/ukis-tech/ukis/core/logger"
)

// UnitConversion describes the factor to convert between two units.
// The factor is never applied by this service, it is plain data.
type UnitConversion struct {
	ID         int64   `json:"id"`
	FromUnitID int64   `json:"from_unit_id"`
	ToUnitID   int64   `json:"to_unit_id"`
	Factor     float32 `json:"factor"`
}

func (b *Backend) createUnitConversionResource(router *mux.Router) {
	schema := b.db.Schema
	nillog := logger.Default()
	nillog.Debugln("create collection: unit_conversion")

	_, err := b.db.Exec(`CREATE table IF NOT EXISTS ` + schema + `.unit_conversions
(id bigserial NOT NULL PRIMARY KEY,
from_unit_id bigint NOT NULL DEFAULT 0,
to_unit_id bigint NOT NULL DEFAULT 0,
factor real NOT NULL DEFAULT 0
);`)
	if err != nil {
		panic(err)
	}
	b.collections = append(b.collections, "unit_conversions")

	listQuery := `SELECT id, from_unit_id, to_unit_id, factor FROM ` + schema + `.unit_conversions ORDER BY id ASC;`
	readQuery := `SELECT id, from_unit_id, to_unit_id, factor FROM ` + schema + `.unit_conversions WHERE id = $1;`
	insertQuery := `INSERT INTO ` + schema + `.unit_conversions (from_unit_id, to_unit_id, factor) VALUES($1,$2,$3) RETURNING id, from_unit_id, to_unit_id, factor;`
	updateQuery := `UPDATE ` + schema + `.unit_conversions SET from_unit_id = $2, to_unit_id = $3, factor = $4 WHERE id = $1 RETURNING id, from_unit_id, to_unit_id, factor;`
	deleteQuery := `DELETE FROM ` + schema + `.unit_conversions WHERE id = $1;`
	clearQuery := `DELETE FROM ` + schema + `.unit_conversions;`

	list := func(w http.ResponseWriter, r *http.Request) {
		rows, err := b.db.Query(listQuery)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4221: cannot execute query")
			http.Error(w, "Error 4221", http.StatusInternalServerError)
			return
		}
		defer rows.Close()
		response := []UnitConversion{}
		for rows.Next() {
			var conversion UnitConversion
			if err := rows.Scan(&conversion.ID, &conversion.FromUnitID, &conversion.ToUnitID, &conversion.Factor); err != nil {
				logger.FromContext(r.Context()).WithError(err).Errorln("Error 4222: cannot scan values")
				http.Error(w, "Error 4222", http.StatusInternalServerError)
				return
			}
			response = append(response, conversion)
		}
		writeJSON(w, r, http.StatusOK, response)
	}

	read := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "unit_conversion_id")
		if !ok {
			return
		}
		var conversion UnitConversion
		err := b.db.QueryRow(readQuery, id).
			Scan(&conversion.ID, &conversion.FromUnitID, &conversion.ToUnitID, &conversion.Factor)
		if err == csql.ErrNoRows {
			http.Error(w, "no such unit_conversion", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4223: cannot QueryRow")
			http.Error(w, "Error 4223", http.StatusInternalServerError)
			return
		}
		writeJSON(w, r, http.StatusOK, conversion)
	}

	create := func(w http.ResponseWriter, r *http.Request) {
		var conversion UnitConversion
		if !readBodyJSON(w, r, &conversion) {
			return
		}
		err := b.db.QueryRow(insertQuery, conversion.FromUnitID, conversion.ToUnitID, conversion.Factor).
			Scan(&conversion.ID, &conversion.FromUnitID, &conversion.ToUnitID, &conversion.Factor)
		if err != nil {
			if status, ok := constraintViolationStatus(err); ok {
				http.Error(w, "constraint violation", status)
				return
			}
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4224: cannot insert")
			http.Error(w, "Error 4224", http.StatusInternalServerError)
			return
		}
		jsonData := writeJSON(w, r, http.StatusCreated, conversion)
		b.notify(r, "unit_conversion", core.OperationCreate, conversion.ID, jsonData)
	}

	update := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "unit_conversion_id")
		if !ok {
			return
		}
		var conversion UnitConversion
		if !readBodyJSON(w, r, &conversion) {
			return
		}
		err := b.db.QueryRow(updateQuery, id, conversion.FromUnitID, conversion.ToUnitID, conversion.Factor).
			Scan(&conversion.ID, &conversion.FromUnitID, &conversion.ToUnitID, &conversion.Factor)
		if err == csql.ErrNoRows {
			http.Error(w, "no such unit_conversion", http.StatusNotFound)
			return
		}
		if err != nil {
			if status, ok := constraintViolationStatus(err); ok {
				http.Error(w, "constraint violation", status)
				return
			}
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4225: cannot update")
			http.Error(w, "Error 4225", http.StatusInternalServerError)
			return
		}
		jsonData := writeJSON(w, r, http.StatusOK, conversion)
		b.notify(r, "unit_conversion", core.OperationUpdate, conversion.ID, jsonData)
	}

	del := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "unit_conversion_id")
		if !ok {
			return
		}
		res, err := b.db.Exec(deleteQuery, id)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4226: cannot delete")
			http.Error(w, "Error 4226", http.StatusInternalServerError)
			return
		}
		if count, _ := res.RowsAffected(); count > 0 {
			b.notify(r, "unit_conversion", core.OperationDelete, id, nil)
		}
		w.WriteHeader(http.StatusNoContent)
	}

	clear := func(w http.ResponseWriter, r *http.Request) {
		_, err := b.db.Exec(clearQuery)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4227: cannot clear")
			http.Error(w, "Error 4227", http.StatusInternalServerError)
			return
		}
		b.notify(r, "unit_conversion", core.OperationClear, 0, nil)
		w.WriteHeader(http.StatusNoContent)
	}

	listRoute := "/" + core.Plural("unit_conversion")
	itemRoute := listRoute + "/{unit_conversion_id}"
	nillog.Debugln("  handle collection routes:", listRoute, "GET,POST,DELETE")
	nillog.Debugln("  handle item routes:", itemRoute, "GET,PUT,DELETE")

	router.HandleFunc(listRoute, logged(list)).Methods(http.MethodOptions, http.MethodGet)
	router.HandleFunc(listRoute, logged(create)).Methods(http.MethodOptions, http.MethodPost)
	router.HandleFunc(listRoute, logged(clear)).Methods(http.MethodOptions, http.MethodDelete)
	router.HandleFunc(itemRoute, logged(read)).Methods(http.MethodOptions, http.MethodGet)
	router.HandleFunc(itemRoute, logged(update)).Methods(http.MethodOptions, http.MethodPut)
	router.HandleFunc(itemRoute, logged(del)).Methods(http.MethodOptions, http.MethodDelete)
}
