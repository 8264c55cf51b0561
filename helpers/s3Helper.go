package helpers

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	awsv1 "github.com/aws/aws-sdk-go/aws"
	credentialsv1 "github.com/aws/aws-sdk-go/aws/credentials"
	sessionv1 "github.com/aws/aws-sdk-go/aws/session"
	s3v1 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/kms"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Video blobs live in an S3-compatible bucket (DigitalOcean Spaces). The v1
// SDK drives multipart uploads and presigned GETs, the v2 SDK deletes and
// wraps per-video encryption keys with KMS.

const presignWindow = 15 * time.Minute

var (
	setupOnce sync.Once

	uploadSession *sessionv1.Session
	s3Client      *s3.Client
	kmsClient     *kms.Client
)

func setupClients() {
	key := os.Getenv("SPACES_KEY")
	secret := os.Getenv("SPACES_SECRET")
	endpoint := os.Getenv("SPACES_ENDPOINT")
	if endpoint == "" {
		endpoint = "https://nyc3.digitaloceanspaces.com"
	}
	awsKey := os.Getenv("AWS_ACCESS")
	awsSecret := os.Getenv("AWS_SECRET")

	var err error
	uploadSession, err = sessionv1.NewSession(&awsv1.Config{
		Credentials: credentialsv1.NewStaticCredentials(key, secret, ""),
		Endpoint:    awsv1.String(endpoint),
		Region:      awsv1.String("us-east-1"),
	})
	if err != nil {
		log.Fatalf("Error creating upload session: %s", err)
	}

	s3Cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(key, secret, "")),
	)
	if err != nil {
		log.Fatalf("Error creating S3 session: %s", err)
	}
	s3Client = s3.NewFromConfig(s3Cfg, func(o *s3.Options) {
		o.EndpointResolver = s3.EndpointResolverFromURL(endpoint)
	})

	kmsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion("us-east-2"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(awsKey, awsSecret, "")),
	)
	if err != nil {
		log.Fatalf("Error creating KMS session: %s", err)
	}
	kmsClient = kms.NewFromConfig(kmsCfg)
}

// SpacesStore is the blob store backed by the practice's bucket.
type SpacesStore struct {
	Bucket string
}

func NewSpacesStore() *SpacesStore {
	setupOnce.Do(setupClients)
	bucket := os.Getenv("SPACES_BUCKET")
	if bucket == "" {
		bucket = "physio-videos"
	}
	return &SpacesStore{Bucket: bucket}
}

func (s *SpacesStore) Upload(ctx context.Context, key string, body io.Reader) error {
	uploader := s3manager.NewUploader(uploadSession)
	_, err := uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket: awsv1.String(s.Bucket),
		Key:    awsv1.String(key),
		Body:   body,
		ACL:    awsv1.String("private"),
	})
	return err
}

// DownloadURL presigns a short-lived GET. The URL expires, so it is derived
// again on every view and never stored in the record.
func (s *SpacesStore) DownloadURL(key string) (string, error) {
	svc := s3v1.New(uploadSession)
	req, _ := svc.GetObjectRequest(&s3v1.GetObjectInput{
		Bucket: awsv1.String(s.Bucket),
		Key:    awsv1.String(key),
	})
	return req.Presign(presignWindow)
}

func (s *SpacesStore) Delete(ctx context.Context, key string) error {
	_, err := s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(key),
	})
	return err
}

// WrapKey envelope-encrypts a client-side video key with KMS. The wrapped
// key is stored on the submission; losing it only costs playback of that
// one video.
func WrapKey(ctx context.Context, plainKey string) (string, error) {
	setupOnce.Do(setupClients)
	kmsKeyID := os.Getenv("KMS_KEY_ID")
	if kmsKeyID == "" {
		return "", fmt.Errorf("KMS_KEY_ID is not configured")
	}
	result, err := kmsClient.Encrypt(ctx, &kms.EncryptInput{
		KeyId:     aws.String(kmsKeyID),
		Plaintext: []byte(plainKey),
	})
	if err != nil {
		log.Printf("Error encrypting key: %v", err)
		return "", err
	}
	return base64.StdEncoding.EncodeToString(result.CiphertextBlob), nil
}

// VideoKey is the blob key for one submission: recordings/<code>/<exercise>/<unix>.<ext>
func VideoKey(code, exercise string, ts time.Time, extension string) string {
	return fmt.Sprintf("recordings/%s/%s/%d.%s", code, exercise, ts.Unix(), extension)
}
