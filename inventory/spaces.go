package inventory

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ukis-tech/ukis/core"
	"github.com/ukis-tech/ukis/core/csql"
	"github.com/ukis-tech/ukis/core/logger"
)

// Space is a storage space, like a pantry or a freezer
type Space struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (b *Backend) createSpaceResource(router *mux.Router) {
	schema := b.db.Schema
	nillog := logger.Default()
	nillog.Debugln("create collection: space")

	_, err := b.db.Exec(`CREATE table IF NOT EXISTS ` + schema + `.spaces
(id bigserial NOT NULL PRIMARY KEY,
name varchar NOT NULL DEFAULT '',
description varchar NOT NULL DEFAULT ''
);`)
	if err != nil {
		panic(err)
	}
	b.collections = append(b.collections, "spaces")

	listQuery := `SELECT id, name, description FROM ` + schema + `.spaces ORDER BY id ASC;`
	readQuery := `SELECT id, name, description FROM ` + schema + `.spaces WHERE id = $1;`
	insertQuery := `INSERT INTO ` + schema + `.spaces (name, description) VALUES($1,$2) RETURNING id, name, description;`
	updateQuery := `UPDATE ` + schema + `.spaces SET name = $2, description = $3 WHERE id = $1 RETURNING id, name, description;`
	deleteQuery := `DELETE FROM ` + schema + `.spaces WHERE id = $1;`
	clearQuery := `DELETE FROM ` + schema + `.spaces;`

	list := func(w http.ResponseWriter, r *http.Request) {
		rows, err := b.db.Query(listQuery)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4241: cannot execute query")
			http.Error(w, "Error 4241", http.StatusInternalServerError)
			return
		}
		defer rows.Close()
		response := []Space{}
		for rows.Next() {
			var space Space
			if err := rows.Scan(&space.ID, &space.Name, &space.Description); err != nil {
				logger.FromContext(r.Context()).WithError(err).Errorln("Error 4242: cannot scan values")
				http.Error(w, "Error 4242", http.StatusInternalServerError)
				return
			}
			response = append(response, space)
		}
		writeJSON(w, r, http.StatusOK, response)
	}

	read := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "space_id")
		if !ok {
			return
		}
		var space Space
		err := b.db.QueryRow(readQuery, id).Scan(&space.ID, &space.Name, &space.Description)
		if err == csql.ErrNoRows {
			http.Error(w, "no such space", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4243: cannot QueryRow")
			http.Error(w, "Error 4243", http.StatusInternalServerError)
			return
		}
		writeJSON(w, r, http.StatusOK, space)
	}

	create := func(w http.ResponseWriter, r *http.Request) {
		var space Space
		if !readBodyJSON(w, r, &space) {
			return
		}
		err := b.db.QueryRow(insertQuery, space.Name, space.Description).
			Scan(&space.ID, &space.Name, &space.Description)
		if err != nil {
			if status, ok := constraintViolationStatus(err); ok {
				http.Error(w, "constraint violation", status)
				return
			}
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4244: cannot insert")
			http.Error(w, "Error 4244", http.StatusInternalServerError)
			return
		}
		jsonData := writeJSON(w, r, http.StatusCreated, space)
		b.notify(r, "space", core.OperationCreate, space.ID, jsonData)
	}

	update := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "space_id")
		if !ok {
			return
		}
		var space Space
		if !readBodyJSON(w, r, &space) {
			return
		}
		err := b.db.QueryRow(updateQuery, id, space.Name, space.Description).
			Scan(&space.ID, &space.Name, &space.Description)
		if err == csql.ErrNoRows {
			http.Error(w, "no such space", http.StatusNotFound)
			return
		}
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4245: cannot update")
			http.Error(w, "Error 4245", http.StatusInternalServerError)
			return
		}
		jsonData := writeJSON(w, r, http.StatusOK, space)
		b.notify(r, "space", core.OperationUpdate, space.ID, jsonData)
	}

	del := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "space_id")
		if !ok {
			return
		}
		res, err := b.db.Exec(deleteQuery, id)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4246: cannot delete")
			http.Error(w, "Error 4246", http.StatusInternalServerError)
			return
		}
		if count, _ := res.RowsAffected(); count > 0 {
			b.notify(r, "space", core.OperationDelete, id, nil)
		}
		w.WriteHeader(http.StatusNoContent)
	}

	clear := func(w http.ResponseWriter, r *http.Request) {
		_, err := b.db.Exec(clearQuery)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4247: cannot clear")
			http.Error(w, "Error 4247", http.StatusInternalServerError)
			return
		}
		b.notify(r, "space", core.OperationClear, 0, nil)
		w.WriteHeader(http.StatusNoContent)
	}

	listRoute := "/" + core.Plural("space")
	itemRoute := listRoute + "/{space_id}"
	nillog.Debugln("  handle collection routes:", listRoute, "GET,POST,DELETE")
	nillog.Debugln("  handle item routes:", itemRoute, "GET,PUT,DELETE")

	router.HandleFunc(listRoute, logged(list)).Methods(http.MethodOptions, http.MethodGet)
	router.HandleFunc(listRoute, logged(create)).Methods(http.MethodOptions, http.MethodPost)
	router.HandleFunc(listRoute, logged(clear)).Methods(http.MethodOptions, http.MethodDelete)
	router.HandleFunc(itemRoute, logged(read)).Methods(http.MethodOptions, http.MethodGet)
	router.HandleFunc(itemRoute, logged(update)).Methods(http.MethodOptions, http.MethodPut)
	router.HandleFunc(itemRoute, logged(del)).Methods(http.MethodOptions, http.MethodDelete)
}
