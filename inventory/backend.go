package inventory

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/ukis-tech/ukis/core"
	"github.com/ukis-tech/ukis/core/csql"
	"github.com/ukis-tech/ukis/core/logger"
	"github.com/ukis-tech/ukis/filestore"
)

// Backend is the inventory rest backend
type Backend struct {
	db       *csql.DB
	router   *mux.Router
	notifier core.Notifier
	photos   filestore.Driver

	// collections is the list of database tables served by this
	// backend, in route registration order
	collections []string
}

// Builder is a builder helper for the Backend
type Builder struct {
	// DB is a postgres database. This is mandatory.
	DB *csql.DB
	// Router is a mux router. This is mandatory.
	Router *mux.Router
	// Notifier receives a notification for every modifying operation.
	// This is optional.
	Notifier core.Notifier
	// PhotoStore stores product photos outside of the database. If nil,
	// the photo routes are not registered. This is optional.
	PhotoStore filestore.Driver
}

// New realizes the actual backend. It creates the sql relations (if they
// do not exist) and adds the actual routes to the router
func New(bb *Builder) *Backend {

	if bb.DB == nil {
		panic("DB is missing")
	}
	if bb.Router == nil {
		panic("Router is missing")
	}

	b := &Backend{
		db:       bb.DB,
		router:   bb.Router,
		notifier: bb.Notifier,
		photos:   bb.PhotoStore,
	}

	logger.AddRequestID(b.router)
	b.handleCORS()
	b.handleCompression()
	b.handleRoutes(b.router)
	return b
}

// handleRoutes adds all necessary handlers for the inventory resources
func (b *Backend) handleRoutes(router *mux.Router) {

	logger.Default().Debugln("backend: handle routes")

	b.createUnitResource(router)
	b.createUnitConversionResource(router)
	b.createProductResource(router)
	b.createSpaceResource(router)
	b.createPlaceResource(router)
	b.createStockItemResource(router)
	b.createStockEntryResource(router)

	if b.photos != nil {
		b.createProductPhotoResource(router)
	}

	b.handleVersion(router)
	b.handleHealth(router)
	b.handleStatistics(router)
}

func (b *Backend) handleCORS() {

	corsMiddleware := func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Set CORS headers for all requests
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding, If-None-Match, Access-Control-Allow-Origin")
			w.Header().Set("Access-Control-Expose-Headers", "*")
			w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

			// Handle preflight OPTIONS request
			if r.Method == http.MethodOptions {
				logger.FromContext(r.Context()).Debugln("called route for", r.URL, r.Method, " (handled by CORS middleware)")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			h.ServeHTTP(w, r)
		})
	}
	b.router.Use(corsMiddleware)
}

func (b *Backend) handleCompression() {

	compressionMiddleware := func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlers.CompressHandler(h).ServeHTTP(w, r)
		})
	}
	b.router.Use(compressionMiddleware)
}

// notify hands a notification to the configured notifier, if any
func (b *Backend) notify(r *http.Request, resource string, operation core.Operation, resourceID int64, payload []byte) {
	if b.notifier == nil {
		return
	}
	b.notifier.Notify(r.Context(), resource, operation, resourceID, payload)
}
