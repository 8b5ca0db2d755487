package inventory

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ukis-tech/ukis/core/csql"
	"github.com/ukis-tech/ukis/core/logger"
	"github.com/ukis-tech/ukis/filestore"
)

// photoURLExpiry is how long a pre-signed photo URL stays valid
const photoURLExpiry = 15 * time.Minute

func productPhotoKey(productID int64) string {
	return fmt.Sprintf("products/%d/photo", productID)
}

// createProductPhotoResource adds upload, download and delete routes for
// product photos. The photo itself lives in the file store, only the
// product id ties it to the database.
func (b *Backend) createProductPhotoResource(router *mux.Router) {
	schema := b.db.Schema
	nillog := logger.Default()
	nillog.Debugln("create blob resource: product photo")

	existsQuery := `SELECT id FROM ` + schema + `.products WHERE id = $1;`

	productExists := func(w http.ResponseWriter, r *http.Request, id int64) bool {
		var found int64
		err := b.db.QueryRow(existsQuery, id).Scan(&found)
		if err == csql.ErrNoRows {
			http.Error(w, "no such product", http.StatusNotFound)
			return false
		}
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4281: cannot QueryRow")
			http.Error(w, "Error 4281", http.StatusInternalServerError)
			return false
		}
		return true
	}

	upload := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "product_id")
		if !ok {
			return
		}
		if !productExists(w, r, id) {
			return
		}
		data, err := io.ReadAll(r.Body)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4282: cannot read body")
			http.Error(w, "Error 4282", http.StatusInternalServerError)
			return
		}
		if err := b.photos.UploadData(productPhotoKey(id), data); err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4283: cannot upload photo")
			http.Error(w, "Error 4283", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}

	download := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "product_id")
		if !ok {
			return
		}
		if !productExists(w, r, id) {
			return
		}
		url, err := b.photos.GetPreSignedURL(filestore.Get, productPhotoKey(id), photoURLExpiry)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4284: cannot pre-sign URL")
			http.Error(w, "Error 4284", http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, url, http.StatusTemporaryRedirect)
	}

	del := func(w http.ResponseWriter, r *http.Request) {
		id, ok := idFromRequest(w, r, "product_id")
		if !ok {
			return
		}
		if err := b.photos.Delete(productPhotoKey(id)); err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorln("Error 4285: cannot delete photo")
			http.Error(w, "Error 4285", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}

	photoRoute := "/products/{product_id}/photo"
	nillog.Debugln("  handle blob routes:", photoRoute, "GET,PUT,DELETE")

	router.HandleFunc(photoRoute, logged(download)).Methods(http.MethodOptions, http.MethodGet)
	router.HandleFunc(photoRoute, logged(upload)).Methods(http.MethodOptions, http.MethodPut)
	router.HandleFunc(photoRoute, logged(del)).Methods(http.MethodOptions, http.MethodDelete)
}

// deleteProductPhotos removes the stored photos of a single product.
// Failures are logged but do not fail the surrounding request.
func (b *Backend) deleteProductPhotos(r *http.Request, productID int64) {
	if b.photos == nil {
		return
	}
	prefix := fmt.Sprintf("products/%d/", productID)
	if err := b.photos.DeleteAllWithPrefix(prefix); err != nil {
		logger.FromContext(r.Context()).WithError(err).Errorln("Error 4286: cannot delete photos")
	}
}

// deleteAllProductPhotos removes the stored photos of all products.
// Failures are logged but do not fail the surrounding request.
func (b *Backend) deleteAllProductPhotos(r *http.Request) {
	if b.photos == nil {
		return
	}
	if err := b.photos.DeleteAllWithPrefix("products/"); err != nil {
		logger.FromContext(r.Context()).WithError(err).Errorln("Error 4287: cannot delete photos")
	}
}
