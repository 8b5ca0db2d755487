package filestore

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/gorilla/mux"
	"github.com/ukis-tech/ukis/core/logger"
)

// LocalFilesystem stores files below a base folder and serves them
// through a signed-URL route on the router
type LocalFilesystem struct {
	router     *mux.Router
	baseFolder string
	publicURL  url.URL
	privateKey *rsa.PrivateKey
}

// filesRoute is where the local driver serves and accepts files
const filesRoute = "/ukis/files"

// NewLocalFilesystem returns a new LocalFilesystem
func NewLocalFilesystem(router *mux.Router, config LocalConfiguration, privateKey *rsa.PrivateKey) (*LocalFilesystem, error) {
	if privateKey == nil {
		logger.Default().Warn("no private key provided to sign URLs, a random one will be generated")
		logger.Default().Warn("signed URLs will not survive a restart of this instance")

		var err error
		privateKey, err = rsa.GenerateKey(rand.Reader, 2048)
		if err != nil {
			return nil, err
		}
	}
	public, err := url.Parse(config.PublicURL)
	if err != nil {
		return nil, err
	}
	f := LocalFilesystem{router: router, baseFolder: config.BasePath, publicURL: *public, privateKey: privateKey}
	f.configure()
	return &f, nil
}

func (f *LocalFilesystem) configure() {
	logger.Default().Debugln("filesystem routes enabled")
	logger.Default().Debugln("  handle files route: "+filesRoute, "GET,PUT")

	f.router.Handle(filesRoute, http.HandlerFunc(f.handler)).Methods(http.MethodOptions, http.MethodGet, http.MethodPut)
}

func (f *LocalFilesystem) handler(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	u := r.URL
	if u.Scheme == "" && u.Host == "" {
		u.Scheme = f.publicURL.Scheme
		u.Host = f.publicURL.Host
	}

	if !f.isValid(u.String()) {
		logger.FromContext(r.Context()).Errorf("invalid signature for %s", u.String())
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}

	key := v.Get("key")
	method := v.Get("method")

	if r.Method != method {
		logger.FromContext(r.Context()).Errorf("signature valid for %s, but was used for %s in %s", method, r.Method, r.URL.String())
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if strings.Contains(key, "..") {
		http.Error(w, ".. not allowed in keys", http.StatusBadRequest)
		return
	}
	filePath := filepath.Join(f.baseFolder, key, "file")

	logger.FromContext(r.Context()).Infof("filesystem: [%s] key: '%s'", r.Method, key)
	switch r.Method {
	case http.MethodGet:
		if _, err := os.Stat(filePath); err != nil {
			http.Error(w, "no such key", http.StatusNotFound)
			return
		}
		http.ServeFile(w, r, filePath)

	case http.MethodPut:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorf("Error 1201: cannot read body for key '%s'", key)
			http.Error(w, "Error 1201", http.StatusInternalServerError)
			return
		}
		if err := f.UploadData(key, data); err != nil {
			logger.FromContext(r.Context()).WithError(err).Errorf("Error 1202: cannot store key '%s'", key)
			http.Error(w, "Error 1202", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// UploadData uploads data into a new key object
func (f *LocalFilesystem) UploadData(key string, data []byte) error {
	if strings.Contains(key, "..") {
		return fmt.Errorf("'..' is not allowed in a key")
	}
	dir := filepath.Join(f.baseFolder, key)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "file"), data, 0600)
}

// Delete deletes the key file
func (f *LocalFilesystem) Delete(key string) error {
	return os.RemoveAll(filepath.Join(f.baseFolder, key))
}

// DeleteAllWithPrefix deletes all keys starting with prefix
func (f *LocalFilesystem) DeleteAllWithPrefix(prefix string) error {
	return os.RemoveAll(filepath.Join(f.baseFolder, prefix))
}

// GetPreSignedURL returns a pre-signed URL that can be used with the given method
// until the expiry duration has passed. key must be a valid file name.
func (f *LocalFilesystem) GetPreSignedURL(method Method, key string, expireIn time.Duration) (URL string, err error) {
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("'..' is not allowed in a key")
	}
	v := url.Values{}
	v.Set("key", key)
	v.Set("expiry", time.Now().Add(expireIn).UTC().Format(time.RFC3339))
	v.Set("method", string(method))
	u := url.URL{
		Scheme:   f.publicURL.Scheme,
		Host:     f.publicURL.Host,
		Path:     f.publicURL.Path + filesRoute,
		RawQuery: v.Encode(),
	}

	signature, err := f.sign(u)
	if err != nil {
		return "", err
	}
	v.Set("signature", signature)
	u.RawQuery = v.Encode()
	return u.String(), nil
}

func (f *LocalFilesystem) sign(u url.URL) (string, error) {
	data, err := json.Marshal(u)
	if err != nil {
		return "", err
	}
	hashed := sha256.Sum256(data)

	// crypto/rand.Reader is a good source of entropy for blinding the RSA operation
	signature, err := rsa.SignPKCS1v15(rand.Reader, f.privateKey, crypto.SHA256, hashed[:])
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(signature), nil
}

// isValid tells whether or not this url carries a valid signature
func (f *LocalFilesystem) isValid(URL string) bool {
	u, err := url.Parse(URL)
	if err != nil {
		return false
	}
	v := u.Query()
	key := v.Get("key")
	if key == "" || strings.Contains(key, "..") {
		return false
	}
	timeStr := v.Get("expiry")
	if timeStr == "" {
		return false
	}
	t, err := time.Parse(time.RFC3339, timeStr)
	if err != nil || t.Before(time.Now()) {
		return false
	}

	signature, err := base64.RawURLEncoding.DecodeString(v.Get("signature"))
	if err != nil {
		return false
	}
	v.Del("signature")
	u.RawQuery = v.Encode()

	data, err := json.Marshal(u)
	if err != nil {
		return false
	}
	hashed := sha256.Sum256(data)
	return rsa.VerifyPKCS1v15(&f.privateKey.PublicKey, crypto.SHA256, hashed[:], signature) == nil
}
