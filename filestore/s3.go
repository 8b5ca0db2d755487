package filestore

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ukis-tech/ukis/core/logger"
)

// S3 is the implementation of the file store Driver for AWS S3
type S3 struct {
	config      aws.Config
	bucket      string
	baseKeyName string
}

// NewS3 returns a new S3
func NewS3(s3Config S3Configuration) (*S3, error) {
	if s3Config.AWSBucketName == "" {
		return nil, fmt.Errorf("AWSBucketName must not be empty")
	}

	cfg, err := config.LoadDefaultConfig(
		context.TODO(),
		config.WithRegion(s3Config.AWSRegion),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(s3Config.AccessID, s3Config.AccessKey, "")),
	)
	if err != nil {
		return nil, err
	}
	logger.Default().Debugln("file store S3 enabled")
	s := S3{cfg, s3Config.AWSBucketName, s3Config.KeyPrefix}
	return &s, nil
}

// UploadData uploads data into a new key object
func (s *S3) UploadData(key string, data []byte) error {
	uploader := manager.NewUploader(s3.NewFromConfig(s.config))

	_, err := uploader.Upload(context.TODO(), &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.baseKeyName + key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return fmt.Errorf("failed to upload file, %v", err)
	}
	return nil
}

// Delete deletes the key file
func (s *S3) Delete(key string) error {
	logger.Default().Infoln("deleting ", s.baseKeyName+key)
	client := s3.NewFromConfig(s.config)

	input := &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.baseKeyName + key),
	}

	_, err := client.DeleteObject(context.TODO(), input)
	if err != nil {
		logger.Default().Error("could not delete ", s.baseKeyName+key)
		return err
	}
	return nil
}

// DeleteAllWithPrefix deletes all keys starting with prefix
func (s *S3) DeleteAllWithPrefix(prefix string) error {
	client := s3.NewFromConfig(s.config)

	keys, err := s.ListAllWithPrefix(prefix)
	if err != nil {
		return err
	}
	for _, key := range keys {
		input := &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		}
		logger.Default().Infoln("deleting ", key)
		_, err := client.DeleteObject(context.TODO(), input)
		if err != nil {
			logger.Default().Error("could not delete ", key)
			return err
		}
	}
	return nil
}

// GetPreSignedURL returns a pre-signed URL that can be used with the given method
// until the expiry duration has passed. key must be a valid file name.
func (s *S3) GetPreSignedURL(method Method, key string, expireIn time.Duration) (URL string, err error) {
	client := s3.NewPresignClient(s3.NewFromConfig(s.config))

	var resp *v4.PresignedHTTPRequest
	switch method {
	case Get:
		resp, err = client.PresignGetObject(context.TODO(), &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.baseKeyName + key),
		}, s3.WithPresignExpires(expireIn))
	case Put:
		resp, err = client.PresignPutObject(context.TODO(), &s3.PutObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(s.baseKeyName + key),
		}, s3.WithPresignExpires(expireIn))
	default:
		err = fmt.Errorf("%s unsupported method to presign '%s'", method, s.baseKeyName+key)
	}
	if err != nil {
		return "", err
	}
	return resp.URL, nil
}

// ListAllWithPrefix lists all keys with prefix
func (s *S3) ListAllWithPrefix(prefix string) (keys []string, err error) {
	client := s3.NewFromConfig(s.config)

	var continuationToken *string
	for {
		input := &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(s.baseKeyName + prefix),
			ContinuationToken: continuationToken,
		}
		var resp *s3.ListObjectsV2Output
		resp, err = client.ListObjectsV2(context.TODO(), input)
		if err != nil {
			logger.Default().Error("could not ListObjectsV2 from ", s.bucket)
			return
		}
		for _, item := range resp.Contents {
			keys = append(keys, *item.Key)
		}
		continuationToken = resp.NextContinuationToken
		if continuationToken == nil {
			break
		}
	}
	return
}
