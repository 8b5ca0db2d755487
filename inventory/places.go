package inventory

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ukis-tech/ukis/core"
	"github.com/ukis-tech/ukis/core/csql"
	"github.com/ukis-tech/ukis/core/logger"
)

// Place is a concrete spot where stock sits, like a shelf in a space
type Place struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (b *Backend) createPlaceResource(router *mux.Router) {
	schema := b.db.Schema
	nillog := logger.Default()
	nillog.Debugln("create collection: place")

	_, err := b.db.Exec(`CREATE table IF NOT EXISTS ` + schema + `.places
(id bigserial NOT NULL PRIMARY KEY,
name varchar NOT NULL DEFAULT '',
description varchar NOT NULL DEFAULT ''
);`)
	if err != nil {
		panic(err)
	}
	b.collections = append(b.collections, "places")

	listQuery := `SELECT id, name, description FROM ` + schema + `.places ORDER BY id ASC;`
	readQuery := `SELECT id, name, description FROM ` + schema + `.places WHERE id = $1;`
	insertQuery := `INSERT INTO ` + schema + `.places (name, description) VALUES($1,$2) RETURNING id, name, description;`
	updateQuery := `UPDATE ` + schema + `.places SET name = $2, description = $3 WHERE id = $1 RETURNING id, name, description;`
	deleteQuery := `DELETE FROM ` + schema + `.places WHERE id = $1;`
	clearQuery := `DELETE FROM ` + schema + `.places;`

	list := func(w http.ResponseWriter, r *http.Request) {
		rows, err := b.db.Query(listQuery)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4251: cannot execute query")
			http.Error(w, "Error 4251", http.StatusInternalServerError)
			return
		}
		defer rows.Close()
		response := []Place{}
		for rows.Next() {
			var place Place
			if err := rows.Scan(&place.ID, &place.Name, &place.Description); err != nil {
				logger.FromContext(r.Context()).WithError(err).Errorln("Error 4252: cannot scan values")
				http.Error(w, "Error 4252", http.StatusInternalServerError)
				return
			}
			response = append(response, place)
		}
		writeJSON(w, r, http.StatusOK, response)
	}

	read := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "place_id")
		if !ok {
			return
		}
		var place Place
		err := b.db.QueryRow(readQuery, id).Scan(&place.ID, &place.Name, &place.Description)
		if err == csql.ErrNoRows {
			http.Error(w, "no such place", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4253: cannot QueryRow")
			http.Error(w, "Error 4253", http.StatusInternalServerError)
			return
		}
		writeJSON(w, r, http.StatusOK, place)
	}

	create := func(w http.ResponseWriter, r *http.Request) {
		var place Place
		if !readBodyJSON(w, r, &place) {
			return
		}
		err := b.db.QueryRow(insertQuery, place.Name, place.Description).
			Scan(&place.ID, &place.Name, &place.Description)
		if err != nil {
			if status, ok := constraintViolationStatus(err); ok {
				http.Error(w, "constraint violation", status)
				return
			}
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4254: cannot insert")
			http.Error(w, "Error 4254", http.StatusInternalServerError)
			return
		}
		jsonData := writeJSON(w, r, http.StatusCreated, place)
		b.notify(r, "place", core.OperationCreate, place.ID, jsonData)
	}

	update := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "place_id")
		if !ok {
			return
		}
		var place Place
		if !readBodyJSON(w, r, &place) {
			return
		}
		err := b.db.QueryRow(updateQuery, id, place.Name, place.Description).
			Scan(&place.ID, &place.Name, &place.Description)
		if err == csql.ErrNoRows {
			http.Error(w, "no such place", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4255: cannot update")
			http.Error(w, "Error 4255", http.StatusInternalServerError)
			return
		}
		jsonData := writeJSON(w, r, http.StatusOK, place)
		b.notify(r, "place", core.OperationUpdate, place.ID, jsonData)
	}

	del := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "place_id")
		if !ok {
			return
		}
		res, err := b.db.Exec(deleteQuery, id)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4256: cannot delete")
			http.Error(w, "Error 4256", http.StatusInternalServerError)
			return
		}
		if count, _ := res.RowsAffected(); count > 0 {
			b.notify(r, "place", core.OperationDelete, id, nil)
		}
		w.WriteHeader(http.StatusNoContent)
	}

	clear := func(w http.ResponseWriter, r *http.Request) {
		_, err := b.db.Exec(clearQuery)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4257: cannot clear")
			http.Error(w, "Error 4257", http.StatusInternalServerError)
			return
		}
		b.notify(r, "place", core.OperationClear, 0, nil)
		w.WriteHeader(http.StatusNoContent)
	}

	listRoute := "/" + core.Plural("place")
	itemRoute := listRoute + "/{place_id}"
	nillog.Debugln("  handle collection routes:", listRoute, "GET,POST,DELETE")
	nillog.Debugln("  handle item routes:", itemRoute, "GET,PUT,DELETE")

	router.HandleFunc(listRoute, logged(list)).Methods(http.MethodOptions, http.MethodGet)
	router.HandleFunc(listRoute, logged(create)).Methods(http.MethodOptions, http.MethodPost)
	router.HandleFunc(listRoute, logged(clear)).Methods(http.MethodOptions, http.MethodDelete)
	router.HandleFunc(itemRoute, logged(read)).Methods(http.MethodOptions, http.MethodGet)
	router.HandleFunc(itemRoute, logged(update)).Methods(http.MethodOptions, http.MethodPut)
	router.HandleFunc(itemRoute, logged(del)).Methods(http.MethodOptions, http.MethodDelete)
}
