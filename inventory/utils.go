package inventory

import (
	"crypto/md5"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/gorilla/mux"
	"github.com/lib/pq"
	"github.com/ukis-tech/ukis/core/logger"
)

// bytesToEtag computes the ETag for the given response body
func bytesToEtag(b []byte) string {
	return fmt.Sprintf("\"%x\"", md5.Sum(b))
}

// ifNoneMatchFound returns true if etag is found in ifNoneMatch. The format of ifNoneMatch is one
// of the following:
// If-None-Match: "<etag_value>"
// If-None-Match: "<etag_value>", "<etag_value>", …
// If-None-Match: *
func ifNoneMatchFound(ifNoneMatch, etag string) bool {
	ifNoneMatch = strings.Trim(ifNoneMatch, " ")
	if len(ifNoneMatch) == 0 {
		return false
	}
	if ifNoneMatch == "*" {
		return true
	}
	for _, s := range strings.Split(ifNoneMatch, ",") {
		s = strings.Trim(s, " \"")
		t := strings.Trim(etag, " \"")
		if s == t {
			return true
		}
	}
	return false
}

// writeJSON marshals object and writes it with the given status. It honors
// If-None-Match for http.StatusOK responses.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, object interface{}) []byte {
	jsonData, _ := json.MarshalWithOption(object, json.DisableHTMLEscape())
	if status == http.StatusOK {
		etag := bytesToEtag(jsonData)
		w.Header().Set("Etag", etag)
		if ifNoneMatchFound(r.Header.Get("If-None-Match"), etag) {
			w.WriteHeader(http.StatusNotModified)
			return jsonData
		}
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(jsonData)
	return jsonData
}

// idFromRequest returns the route variable name as int64. A non-numeric
// id answers the request with http.StatusBadRequest and returns false.
func idFromRequest(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	params := mux.Vars(r)
	id, err := strconv.ParseInt(params[name], 10, 64)
	if err != nil {
		http.Error(w, "invalid "+name, http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// readBodyJSON decodes the request body into object. A malformed body
// answers the request with http.StatusBadRequest and returns false.
func readBodyJSON(w http.ResponseWriter, r *http.Request, object interface{}) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.FromContext(r.Context()).WithError(err).Errorln("Error 4102: cannot read body")
		http.Error(w, "Error 4102", http.StatusInternalServerError)
		return false
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	if err := json.Unmarshal(body, object); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// constraintViolationStatus maps postgres constraint violations to client
// errors. Unique violations are reported as code 23505, not-null
// constraints as code 23502, foreign key violations as code 23503.
func constraintViolationStatus(err error) (int, bool) {
	if err, ok := err.(*pq.Error); ok {
		switch err.Code {
		case "23505":
			return http.StatusConflict, true
		case "23502", "23503":
			return http.StatusUnprocessableEntity, true
		}
	}
	return 0, false
}

// logged wraps a handler with the standard request log line
func logged(h func(w http.ResponseWriter, r *http.Request)) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Infoln("called route for", r.URL, r.Method)
		h(w, r)
	}
}
