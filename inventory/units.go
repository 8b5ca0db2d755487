package inventory

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ukis-tech/ukis/core"
	"github.com/ukis-tech/ukis/core/csql"
	"github.com/ukis-tech/ukis/core/logger"
)

// Unit is a unit of measure with a singular and a plural display name
type Unit struct {
	ID       int64  `json:"id"`
	Singular string `json:"singular"`
	Plural   string `json:"plural"`
}

func (b *Backend) createUnitResource(router *mux.Router) {
	schema := b.db.Schema
	nillog := logger.Default()
	nillog.Debugln("create collection: unit")

	_, err := b.db.Exec(`CREATE table IF NOT EXISTS ` + schema + `.units
(id bigserial NOT NULL PRIMARY KEY,
singular varchar NOT NULL DEFAULT '',
plural varchar NOT NULL DEFAULT ''
);`)
	if err != nil {
		panic(err)
	}
	b.collections = append(b.collections, "units")

	listQuery := `SELECT id, singular, plural FROM ` + schema + `.units ORDER BY id ASC;`
	readQuery := `SELECT id, singular, plural FROM ` + schema + `.units WHERE id = $1;`
	insertQuery := `INSERT INTO ` + schema + `.units (singular, plural) VALUES($1,$2) RETURNING id, singular, plural;`
	updateQuery := `UPDATE ` + schema + `.units SET singular = $2, plural = $3 WHERE id = $1 RETURNING id, singular, plural;`
	deleteQuery := `DELETE FROM ` + schema + `.units WHERE id = $1;`
	clearQuery := `DELETE FROM ` + schema + `.units;`

	list := func(w http.ResponseWriter, r *http.Request) {
		rows, err := b.db.Query(listQuery)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4211: cannot execute query")
			http.Error(w, "Error 4211", http.StatusInternalServerError)
			return
		}
		defer rows.Close()
		response := []Unit{}
		for rows.Next() {
			var unit Unit
			if err := rows.Scan(&unit.ID, &unit.Singular, &unit.Plural); err != nil {
				logger.FromContext(r.Context()).WithError(err).Errorln("Error 4212: cannot scan values")
				http.Error(w, "Error 4212", http.StatusInternalServerError)
				return
			}
			response = append(response, unit)
		}
		writeJSON(w, r, http.StatusOK, response)
	}

	read := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "unit_id")
		if !ok {
			return
		}
		var unit Unit
		err := b.db.QueryRow(readQuery, id).Scan(&unit.ID, &unit.Singular, &unit.Plural)
		if err == csql.ErrNoRows {
			http.Error(w, "no such unit", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4213: cannot QueryRow")
			http.Error(w, "Error 4213", http.StatusInternalServerError)
			return
		}
		writeJSON(w, r, http.StatusOK, unit)
	}

	create := func(w http.ResponseWriter, r *http.Request) {
		var unit Unit
		if !readBodyJSON(w, r, &unit) {
			return
		}
		err := b.db.QueryRow(insertQuery, unit.Singular, unit.Plural).
			Scan(&unit.ID, &unit.Singular, &unit.Plural)
		if err != nil {
			if status, ok := constraintViolationStatus(err); ok {
				http.Error(w, "constraint violation", status)
				return
			}
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4214: cannot insert")
			http.Error(w, "Error 4214", http.StatusInternalServerError)
			return
		}
		jsonData := writeJSON(w, r, http.StatusCreated, unit)
		b.notify(r, "unit", core.OperationCreate, unit.ID, jsonData)
	}

	update := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "unit_id")
		if !ok {
			return
		}
		var unit Unit
		if !readBodyJSON(w, r, &unit) {
			return
		}
		err := b.db.QueryRow(updateQuery, id, unit.Singular, unit.Plural).
			Scan(&unit.ID, &unit.Singular, &unit.Plural)
		if err == csql.ErrNoRows {
			http.Error(w, "no such unit", http.StatusNotFound)
			return
		}
		if err != nil {
			if status, ok := constraintViolationStatus(err); ok {
				http.Error(w, "constraint violation", status)
				return
			}
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4215: cannot update")
			http.Error(w, "Error 4215", http.StatusInternalServerError)
			return
		}
		jsonData := writeJSON(w, r, http.StatusOK, unit)
		b.notify(r, "unit", core.OperationUpdate, unit.ID, jsonData)
	}

	del := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "unit_id")
		if !ok {
			return
		}
		res, err := b.db.Exec(deleteQuery, id)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4216: cannot delete")
			http.Error(w, "Error 4216", http.StatusInternalServerError)
			return
		}
		if count, _ := res.RowsAffected(); count > 0 {
			b.notify(r, "unit", core.OperationDelete, id, nil)
		}
		w.WriteHeader(http.StatusNoContent)
	}

	clear := func(w http.ResponseWriter, r *http.Request) {
		_, err := b.db.Exec(clearQuery)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4217: cannot clear")
			http.Error(w, "Error 4217", http.StatusInternalServerError)
			return
		}
		b.notify(r, "unit", core.OperationClear, 0, nil)
		w.WriteHeader(http.StatusNoContent)
	}

	listRoute := "/" + core.Plural("unit")
	itemRoute := listRoute + "/{unit_id}"
	nillog.Debugln("  handle collection routes:", listRoute, "GET,POST,DELETE")
	nillog.Debugln("  handle item routes:", itemRoute, "GET,PUT,DELETE")

	router.HandleFunc(listRoute, logged(list)).Methods(http.MethodOptions, http.MethodGet)
	router.HandleFunc(listRoute, logged(create)).Methods(http.MethodOptions, http.MethodPost)
	router.HandleFunc(listRoute, logged(clear)).Methods(http.MethodOptions, http.MethodDelete)
	router.HandleFunc(itemRoute, logged(read)).Methods(http.MethodOptions, http.MethodGet)
	router.HandleFunc(itemRoute, logged(update)).Methods(http.MethodOptions, http.MethodPut)
	router.HandleFunc(itemRoute, logged(del)).Methods(http.MethodOptions, http.MethodDelete)
}
