package main

import (
	"net/http"
	"strings"

	"github.com/joeshaw/envdecode"
	"github.com/sirupsen/logrus"

	"github.com/gorilla/mux"

	"github.com/ukis-tech/ukis/core/csql"
	"github.com/ukis-tech/ukis/core/logger"
	"github.com/ukis-tech/ukis/events"
	"github.com/ukis-tech/ukis/filestore"
	"github.com/ukis-tech/ukis/inventory"
)

// Service holds the configuration for this service
//
// use POSTGRES="host=localhost port=5432 user=postgres dbname=postgres sslmode=disable"
type Service struct {
	Postgres         string `env:"POSTGRES,required" description:"the connection string for the Postgres DB without password"`
	PostgresPassword string `env:"POSTGRES_PASSWORD,default=" description:"password to the Postgres DB"`
	Port             string `env:"PORT,default=3000" description:"the port this service listens on"`
	LogLevel         string `env:"LOG_LEVEL,default=info" description:"the minimum log level, one of panic, fatal, error, warn, info, debug, trace"`

	KafkaBrokers string `env:"KAFKA_BROKERS,default=" description:"comma separated list of Kafka brokers, leave empty to disable notifications"`
	KafkaTopic   string `env:"KAFKA_TOPIC,default=ukis-notifications" description:"the Kafka topic for resource notifications"`

	PhotoStorage     filestore.DriverType `env:"PHOTO_STORAGE,default=" description:"where product photos are stored, one of local, s3, or empty to disable photos"`
	PhotoBasePath    string               `env:"PHOTO_BASE_PATH,default=/tmp/ukis-photos" description:"storage folder for the local photo store"`
	PhotoPublicURL   string               `env:"PHOTO_PUBLIC_URL,default=http://localhost:3000" description:"public base URL for pre-signed photo URLs of the local photo store"`
	S3AWSBucketName  string               `env:"S3_AWS_BUCKET_NAME,default=" description:"the name of the S3 bucket for product photos"`
	S3AWSRegion      string               `env:"S3_AWS_REGION,default=" description:"the region of the S3 bucket for product photos"`
	S3AccessID       string               `env:"S3_ACCESS_ID,default=" description:"the access id for the S3 bucket"`
	S3AccessKey      string               `env:"S3_ACCESS_KEY,default=" description:"the access key for the S3 bucket"`
	S3KeyPrefix      string               `env:"S3_KEY_PREFIX,default=ukis" description:"the key prefix inside the S3 bucket"`
}

func main() {
	service := &Service{}
	if err := envdecode.Decode(service); err != nil {
		panic(err)
	}

	logLevel, err := logrus.ParseLevel(service.LogLevel)
	if err != nil {
		panic(err)
	}
	logger.InitLogger(logLevel)

	db := csql.OpenWithSchema(service.Postgres, service.PostgresPassword, "ukis")
	defer db.Close()

	router := mux.NewRouter()

	var notifier *events.KafkaNotifier
	if len(service.KafkaBrokers) > 0 {
		notifier = events.NewKafkaNotifier(strings.Split(service.KafkaBrokers, ","), service.KafkaTopic)
		defer notifier.Close()
	}

	var photos filestore.Driver
	switch service.PhotoStorage {
	case filestore.DriverTypeLocal:
		photos, err = filestore.NewLocalFilesystem(router, filestore.LocalConfiguration{
			BasePath:  service.PhotoBasePath,
			PublicURL: service.PhotoPublicURL,
		}, nil)
	case filestore.DriverTypeAWSS3:
		photos, err = filestore.NewS3(filestore.S3Configuration{
			AWSBucketName: service.S3AWSBucketName,
			AWSRegion:     service.S3AWSRegion,
			AccessID:      service.S3AccessID,
			AccessKey:     service.S3AccessKey,
			KeyPrefix:     service.S3KeyPrefix,
		})
	case filestore.None:
	default:
		logger.Default().Fatalln("unknown photo storage:", service.PhotoStorage)
	}
	if err != nil {
		panic(err)
	}

	builder := &inventory.Builder{
		DB:         db,
		Router:     router,
		PhotoStore: photos,
	}
	if notifier != nil {
		builder.Notifier = notifier
	}
	inventory.New(builder)

	logger.Default().Infoln("listen on port :" + service.Port)
	logger.Default().Fatalln(http.ListenAndServe(":"+service.Port, router))
}
