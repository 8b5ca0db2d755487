package inventory

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/goccy/go-json"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/ukis-tech/ukis/core/logger"
)

// resourceStatistics represents information about a resource
type resourceStatistics struct {
	Resource     string  `json:"resource"`
	Count        int64   `json:"count"`
	SizeMB       float64 `json:"size_mb"`
	AverageSizeB float64 `json:"average_size_b"`
}

// statisticsDetails represents information about the backend resources
type statisticsDetails struct {
	Collections []resourceStatistics `json:"collections"`
}

func (b *Backend) handleStatistics(router *mux.Router) {
	logger.Default().Debugln("statistics")
	logger.Default().Debugln("  handle statistics route: /ukis/statistics GET")
	router.Handle("/ukis/statistics", handlers.CompressHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Infoln("called route for", r.URL, r.Method)
		b.statistics(w, r)
	}))).Methods(http.MethodOptions, http.MethodGet)
}

func (b *Backend) statistics(w http.ResponseWriter, r *http.Request) {
	var collections sort.StringSlice
	collections = append(collections, b.collections...)
	// Sort the resources so that ETag is unchanged regardless of the order of resources
	collections.Sort()

	// do not return null in json, but empty array
	s := statisticsDetails{Collections: []resourceStatistics{}}
	for _, resource := range collections {
		row := b.db.QueryRow(fmt.Sprintf(`SELECT pg_total_relation_size('%s."%s"'), count(*) FROM %s."%s" `, b.db.Schema, resource, b.db.Schema, resource))
		var size, count int64
		if err := row.Scan(&size, &count); err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4292: Scan")
			http.Error(w, "Error 4292", http.StatusInternalServerError)
			return
		}
		var averageSize float64 = 0
		if count != 0 {
			averageSize = float64(size / count)
		}
		s.Collections = append(s.Collections, resourceStatistics{
			Resource:     resource,
			Count:        count,
			SizeMB:       float64(size) / 1024. / 1024.,
			AverageSizeB: averageSize,
		})
	}

	jsonData, _ := json.Marshal(s)
	etag := bytesToEtag(jsonData)
	w.Header().Set("Etag", etag)
	if ifNoneMatchFound(r.Header.Get("If-None-Match"), etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(jsonData)
}
