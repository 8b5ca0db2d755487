/*
Package client provides easy and fast in-process access to a REST api

Instead of marshalling HTTP, the client talks directly to the mux router. The client
is the tool of choice if one request handler needs to call other handlers to fulfill
its task. It is also perfectly suited for unit tests.
*/
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/gorilla/mux"
	"github.com/ukis-tech/ukis/core"
)

// Client provides easy access to the REST API.
type Client struct {
	router     *mux.Router
	httpClient *http.Client
	url        string
	ctx        context.Context

	defaultHeaders map[string]string
}

// NewWithRouter creates a client to make pseudo-REST requests to the backend,
// through the mux router.
//
// WithContext() specifies a different base context all together.
func NewWithRouter(router *mux.Router) Client {
	return Client{
		router:         router,
		defaultHeaders: map[string]string{},
	}
}

// NewWithURL creates a client to make REST requests to the backend
func NewWithURL(url string) Client {
	return Client{
		url:            url,
		httpClient:     &http.Client{Timeout: 20 * time.Second},
		defaultHeaders: map[string]string{},
	}
}

// WithHeader returns a new client with a default header added
func (c Client) WithHeader(key string, value string) Client {
	c.defaultHeaders[key] = value
	return c
}

// WithContext returns a new client with specific request context
func (c Client) WithContext(ctx context.Context) Client {
	c.ctx = ctx
	return c
}

// Context returns the client's request context
func (c Client) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Collection represents a collection of a particular resource
type Collection struct {
	client   *Client
	resource string
}

// Collection returns a new collection client
func (c Client) Collection(resource string) Collection {
	return Collection{
		client:   &c,
		resource: resource,
	}
}

// CollectionPath returns the created path for the collection
func (r Collection) CollectionPath() string {
	return "/" + core.Plural(r.resource)
}

// List gets the entire collection.
//
// The operation corresponds to a GET request.
//
// Expects http.StatusOK as response, otherwise it will
// flag an error. Returns the actual http status code.
//
// result can be a *[]T or a raw *[]byte.
func (r Collection) List(result interface{}) (int, error) {
	return r.client.RawGet(r.CollectionPath(), result)
}

// Create always creates a new item.
//
// The operation corresponds to a POST request.
//
// Expects http.StatusCreated as response, otherwise it will
// flag an error. Returns the actual http status code.
//
// body can also be a []byte, result can also be raw *[]byte.
// result can be nil.
func (r Collection) Create(body interface{}, result interface{}) (int, error) {
	return r.client.RawPost(r.CollectionPath(), body, result)
}

// Clear deletes the entire collection.
//
// The operation corresponds to a DELETE request.
//
// Expects http.StatusNoContent as response, otherwise it will
// flag an error.
func (r Collection) Clear() (int, error) {
	return r.client.RawDelete(r.CollectionPath())
}

// Item represents a single item in a collection
type Item struct {
	col Collection
	id  int64
}

// Item gets an item from a collection
func (r Collection) Item(id int64) Item {
	return Item{col: r, id: id}
}

// Path returns the created path for this item
func (r Item) Path() string {
	return r.col.CollectionPath() + "/" + strconv.FormatInt(r.id, 10)
}

// Read reads an item from a collection
//
// The operation corresponds to a GET request.
//
// Expects http.StatusOK as response, otherwise it will
// flag an error. Returns the actual http status code.
func (r Item) Read(result interface{}) (int, error) {
	return r.col.client.RawGet(r.Path(), result)
}

// Update updates an item in a collection.
//
// The operation corresponds to a PUT request.
//
// Expects http.StatusOK as valid response, otherwise it will
// flag an error. Returns the actual http status code.
func (r Item) Update(body interface{}, result interface{}) (int, error) {
	return r.col.client.RawPut(r.Path(), body, result)
}

// Delete deletes an item from a collection
//
// The operation corresponds to a DELETE request.
//
// Expects http.StatusNoContent as response, otherwise it will
// flag an error. Returns the actual http status code.
func (r Item) Delete() (int, error) {
	return r.col.client.RawDelete(r.Path())
}

func (c Client) do(r *http.Request) (status int, header http.Header, resBody []byte, err error) {
	for key, value := range c.defaultHeaders {
		r.Header.Add(key, value)
	}
	if c.router != nil {
		rec := httptest.NewRecorder()
		c.router.ServeHTTP(rec, r)
		res := rec.Result()
		return res.StatusCode, res.Header, rec.Body.Bytes(), nil
	}
	res, err := c.httpClient.Do(r)
	if err != nil {
		return http.StatusInternalServerError, nil, nil, err
	}
	defer res.Body.Close()
	resBody, _ = io.ReadAll(res.Body)
	return res.StatusCode, res.Header, resBody, nil
}

func unmarshalResult(resBody []byte, result interface{}) error {
	if resBody == nil || result == nil {
		return nil
	}
	if raw, ok := result.(*[]byte); ok {
		*raw = resBody
		return nil
	}
	return json.Unmarshal(resBody, result)
}

func bodyReader(body interface{}) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	data, ok := body.([]byte)
	if !ok {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			return nil, err
		}
	}
	return bytes.NewReader(data), nil
}

// RawGet gets the resource from path. Expects http.StatusOK as response, otherwise it will
// flag an error. Returns the actual http status code.
//
// The path can be extended with query strings.
//
// result can be map[string]interface{} or a raw *[]byte.
// result can be nil.
func (c Client) RawGet(path string, result interface{}) (int, error) {
	status, _, err := c.RawGetWithHeader(path, map[string]string{}, result)
	return status, err
}

// RawGetWithHeader gets the resource from path. Expects http.StatusOK as response, otherwise it will
// flag an error. Returns the actual http status code and the response header.
func (c Client) RawGetWithHeader(path string, header map[string]string, result interface{}) (int, http.Header, error) {
	r, _ := http.NewRequestWithContext(c.Context(), http.MethodGet, c.url+path, nil)
	for key, value := range header {
		r.Header.Add(key, value)
	}
	status, resHeader, resBody, err := c.do(r)
	if err != nil {
		return status, resHeader, err
	}
	if status == http.StatusNoContent || status == http.StatusNotModified {
		return status, resHeader, nil
	}
	if status != http.StatusOK {
		return status, resHeader, fmt.Errorf("handler returned wrong status code: got %v want %v. Error: %s",
			status, http.StatusOK, strings.TrimSpace(string(resBody)))
	}
	return status, resHeader, unmarshalResult(resBody, result)
}

// RawGetBlobWithHeader gets a binary resource from path. Expects http.StatusOK as response,
// otherwise it will flag an error.
//
// Returns the actual http status code and the response header.
func (c Client) RawGetBlobWithHeader(path string, header map[string]string, blob *[]byte) (int, http.Header, error) {
	r, _ := http.NewRequestWithContext(c.Context(), http.MethodGet, c.url+path, nil)
	for key, value := range header {
		r.Header.Add(key, value)
	}
	status, resHeader, resBody, err := c.do(r)
	if err != nil {
		return status, resHeader, err
	}
	if status != http.StatusOK {
		return status, resHeader, fmt.Errorf("handler returned wrong status code: got %v want %v. Error: %s",
			status, http.StatusOK, strings.TrimSpace(string(resBody)))
	}
	if blob != nil {
		*blob = resBody
	}
	return status, resHeader, nil
}

// RawPost posts a resource to path. Expects http.StatusCreated as response, otherwise it will
// flag an error. Returns the actual http status code.
//
// body can be an object or a []byte, result can also be raw *[]byte.
// result can be nil.
func (c Client) RawPost(path string, body interface{}, result interface{}) (int, error) {
	reader, err := bodyReader(body)
	if err != nil {
		return http.StatusBadRequest, err
	}
	r, _ := http.NewRequestWithContext(c.Context(), http.MethodPost, c.url+path, reader)
	status, _, resBody, err := c.do(r)
	if err != nil {
		return status, err
	}
	if status != http.StatusCreated {
		return status, fmt.Errorf("handler returned wrong status code: got %v want %v. Error: %s",
			status, http.StatusCreated, strings.TrimSpace(string(resBody)))
	}
	return status, unmarshalResult(resBody, result)
}

// RawPut puts a resource to path. Expects http.StatusOK, http.StatusCreated or
// http.StatusNoContent as valid responses, otherwise it will flag an error.
// Returns the actual http status code.
//
// body can be an object or a []byte, result can also be raw *[]byte.
// result can be nil.
func (c Client) RawPut(path string, body interface{}, result interface{}) (int, error) {
	reader, err := bodyReader(body)
	if err != nil {
		return http.StatusBadRequest, err
	}
	r, _ := http.NewRequestWithContext(c.Context(), http.MethodPut, c.url+path, reader)
	status, _, resBody, err := c.do(r)
	if err != nil {
		return status, err
	}
	if status != http.StatusOK && status != http.StatusCreated && status != http.StatusNoContent {
		return status, fmt.Errorf("handler returned wrong status code: got %v. Error: %s",
			status, strings.TrimSpace(string(resBody)))
	}
	return status, unmarshalResult(resBody, result)
}

// RawPutBlob puts a binary resource to path. Expects http.StatusOK, http.StatusCreated or
// http.StatusNoContent as valid responses, otherwise it will flag an error.
// Returns the actual http status code.
func (c Client) RawPutBlob(path string, header map[string]string, blob []byte) (int, error) {
	r, _ := http.NewRequestWithContext(c.Context(), http.MethodPut, c.url+path, bytes.NewReader(blob))
	for key, value := range header {
		r.Header.Add(key, value)
	}
	status, _, resBody, err := c.do(r)
	if err != nil {
		return status, err
	}
	if status != http.StatusOK && status != http.StatusCreated && status != http.StatusNoContent {
		return status, fmt.Errorf("handler returned wrong status code: got %v. Error: %s",
			status, strings.TrimSpace(string(resBody)))
	}
	return status, nil
}

// RawDelete deletes the resource at path. Expects http.StatusNoContent as response,
// otherwise it will flag an error. Returns the actual http status code.
func (c Client) RawDelete(path string) (int, error) {
	r, _ := http.NewRequestWithContext(c.Context(), http.MethodDelete, c.url+path, nil)
	status, _, resBody, err := c.do(r)
	if err != nil {
		return status, err
	}
	if status != http.StatusNoContent {
		return status, fmt.Errorf("handler returned wrong status code: got %v want %v. Error: %s",
			status, http.StatusNoContent, strings.TrimSpace(string(resBody)))
	}
	return status, nil
}
