package inventory

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"
	"github.com/ukis-tech/ukis/core/logger"
)

func (b *Backend) handleHealth(router *mux.Router) {
	logger.Default().Debugln("health")
	logger.Default().Debugln("  handle health route: /healthz GET")
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		code := http.StatusOK
		if err := b.db.Ping(); err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4291: database unreachable")
			status = "unavailable"
			code = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(code)
		data, _ := json.Marshal(map[string]string{"status": status})
		w.Write(data)
	}).Methods(http.MethodOptions, http.MethodGet)
}
