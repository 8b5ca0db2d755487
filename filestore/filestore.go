// Package filestore stores large files outside of the ukis database.
// There are currently two possible backends: a local filesystem and AWS S3.
package filestore

import "time"

// Method is the HTTP method a pre-signed URL is valid for
type Method string

// methods supported by pre-signed URLs
const (
	Get Method = "GET"
	Put Method = "PUT"
)

// Driver defines the interface for the file store
type Driver interface {
	// UploadData uploads data under the given key, overwriting any previous data
	UploadData(key string, data []byte) error
	// GetPreSignedURL returns a pre-signed URL that can be used with the given
	// method until the expiry duration has passed. key must be a valid file name.
	GetPreSignedURL(method Method, key string, expireIn time.Duration) (URL string, err error)
	// Delete deletes the data stored under key
	Delete(key string) error
	// DeleteAllWithPrefix deletes all keys starting with prefix
	DeleteAllWithPrefix(prefix string) error
}

// DriverType represents the different types of file store drivers
type DriverType string

// DriverTypeLocal is the local filesystem implementation of the file store
const DriverTypeLocal DriverType = "local"

// DriverTypeAWSS3 is the AWS S3 implementation of the file store
const DriverTypeAWSS3 DriverType = "s3"

// None is used when there is no file store
const None DriverType = ""

// LocalConfiguration contains the configuration for the local filesystem driver
type LocalConfiguration struct {
	BasePath  string
	PublicURL string
}

// S3Configuration contains the configuration for the AWS S3 driver
type S3Configuration struct {
	AWSBucketName string
	AWSRegion     string
	AccessID      string
	AccessKey     string
	KeyPrefix     string
}
