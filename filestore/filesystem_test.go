package filestore_test

import (
	"net/http"
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/ukis-tech/ukis/core/client"
	"github.com/ukis-tech/ukis/filestore"
)

func newLocalDriver(t *testing.T) (filestore.Driver, client.Client) {
	t.Helper()
	router := mux.NewRouter()
	dir, err := os.MkdirTemp("", "test")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	f, err := filestore.NewLocalFilesystem(router, filestore.LocalConfiguration{
		BasePath:  dir,
		PublicURL: "https://localhost",
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	return f, client.NewWithRouter(router)
}

func Test_Local_PresignedURL_PutGet(t *testing.T) {
	// Test that data can be uploaded and downloaded using signed URLs
	driver, cl := newLocalDriver(t)

	key := "some_key"
	pushURL, err := driver.GetPreSignedURL(filestore.Put, key, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = cl.RawPutBlob(pushURL, map[string]string{}, []byte("123")); err != nil {
		t.Fatal(err)
	}

	getURL, err := driver.GetPreSignedURL(filestore.Get, key, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	var data []byte
	if _, _, err = cl.RawGetBlobWithHeader(getURL, map[string]string{}, &data); err != nil {
		t.Fatal(err)
	}
	if string(data) != "123" {
		t.Fatalf("Expecting %v got '%v'", "123", string(data))
	}

	// Check that if we taint the URL, we are not authorized
	pushURL, err = driver.GetPreSignedURL(filestore.Put, "some other key", time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	tainted, err := url.Parse(pushURL)
	if err != nil {
		t.Fatal(err)
	}
	v := tainted.Query()
	v.Set("key", "another_key")
	tainted.RawQuery = v.Encode()
	status, _ := cl.RawPutBlob(tainted.String(), map[string]string{}, []byte("123"))
	if status != http.StatusForbidden {
		t.Fatalf("Expecting %v got '%v'", http.StatusForbidden, status)
	}

	// Check that if the URL is expired, we are not authorized
	pushURL, err = driver.GetPreSignedURL(filestore.Put, key, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(3 * time.Millisecond)
	status, _ = cl.RawPutBlob(pushURL, map[string]string{}, []byte("123"))
	if status != http.StatusForbidden {
		t.Fatalf("Expecting %v got '%v'", http.StatusForbidden, status)
	}

	// Check that a URL pre-signed for Get cannot be used to Put
	getURL, err = driver.GetPreSignedURL(filestore.Get, key, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	status, _ = cl.RawPutBlob(getURL, map[string]string{}, []byte("123"))
	if status != http.StatusForbidden {
		t.Fatalf("Expecting %v got '%v'", http.StatusForbidden, status)
	}
}

func Test_Local_Delete(t *testing.T) {
	// Test that a file can be deleted
	driver, cl := newLocalDriver(t)

	key := "some_key"
	if err := driver.UploadData(key, []byte("123")); err != nil {
		t.Fatal(err)
	}

	getURL, err := driver.GetPreSignedURL(filestore.Get, key, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	var data []byte
	status, _, _ := cl.RawGetBlobWithHeader(getURL, map[string]string{}, &data)
	if status != http.StatusOK {
		t.Fatalf("Expecting %v got '%v'", http.StatusOK, status)
	}

	if err := driver.Delete(key); err != nil {
		t.Fatal(err)
	}
	status, _, _ = cl.RawGetBlobWithHeader(getURL, map[string]string{}, &data)
	if status != http.StatusNotFound {
		t.Fatalf("Expecting %v got '%v'", http.StatusNotFound, status)
	}
}

func Test_Local_DeleteAllWithPrefix(t *testing.T) {
	driver, cl := newLocalDriver(t)

	for _, key := range []string{"products/1/photo", "products/2/photo", "spaces/1/photo"} {
		if err := driver.UploadData(key, []byte("123")); err != nil {
			t.Fatal(err)
		}
	}
	if err := driver.DeleteAllWithPrefix("products/"); err != nil {
		t.Fatal(err)
	}

	statusFor := func(key string) int {
		getURL, err := driver.GetPreSignedURL(filestore.Get, key, time.Minute)
		if err != nil {
			t.Fatal(err)
		}
		status, _, _ := cl.RawGetBlobWithHeader(getURL, map[string]string{}, nil)
		return status
	}
	if status := statusFor("products/1/photo"); status != http.StatusNotFound {
		t.Fatalf("Expecting %v got '%v'", http.StatusNotFound, status)
	}
	if status := statusFor("products/2/photo"); status != http.StatusNotFound {
		t.Fatalf("Expecting %v got '%v'", http.StatusNotFound, status)
	}
	if status := statusFor("spaces/1/photo"); status != http.StatusOK {
		t.Fatalf("Expecting %v got '%v'", http.StatusOK, status)
	}
}

func Test_Local_RefusesDotDot(t *testing.T) {
	driver, _ := newLocalDriver(t)

	if err := driver.UploadData("../escape", []byte("123")); err == nil {
		t.Fatal("expected an error")
	}
	if _, err := driver.GetPreSignedURL(filestore.Get, "../escape", time.Minute); err == nil {
		t.Fatal("expected an error")
	}
}
