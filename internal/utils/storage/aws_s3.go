package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path"
	"strings"
	"time"

	"nutriscan-backend/internal/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2/log"
)

const maxUploadSize = 5 << 20

var (
	AllowImage = []string{"image/jpeg", "image/png", "image/webp"}

	ErrFileTooLarge       = errors.New("file exceeds 5MB")
	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrStorageDisabled    = errors.New("object storage is not configured")
)

type (
	AwsS3 interface {
		UploadFile(fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error)
		UpdateFile(objectKey string, file *multipart.FileHeader, allowed ...string) (string, error)
		DeleteFile(objectKey string) error
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	// ObjectAPI is the subset of the S3 client used here.
	ObjectAPI interface {
		PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
		DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	}

	awsS3 struct {
		client ObjectAPI
		bucket string
		region string
	}
)

// NewAwsS3 builds the client from AWS_* config keys. Static credentials are
// used when both keys are set, otherwise the default AWS chain applies.
func NewAwsS3() AwsS3 {
	bucket := utils.GetConfig("AWS_S3_BUCKET")
	region := utils.GetConfigOr("AWS_S3_REGION", "ap-southeast-1")

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	accessKey := utils.GetConfig("AWS_ACCESS_KEY")
	secretKey := utils.GetConfig("AWS_SECRET_KEY")
	if accessKey != "" && secretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		log.Warnw("unable to load AWS config, uploads disabled", "error", err)
		return NewAwsS3WithClient(nil, bucket, region)
	}
	return NewAwsS3WithClient(s3.NewFromConfig(cfg), bucket, region)
}

func NewAwsS3WithClient(client ObjectAPI, bucket, region string) AwsS3 {
	return &awsS3{client: client, bucket: bucket, region: region}
}

func (a *awsS3) UploadFile(fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	objectKey := path.Join(folder, fileName)
	return a.put(objectKey, file, allowed)
}

// UpdateFile overwrites objectKey, keeping its folder and base name.
func (a *awsS3) UpdateFile(objectKey string, file *multipart.FileHeader, allowed ...string) (string, error) {
	return a.put(strings.TrimSuffix(objectKey, path.Ext(objectKey)), file, allowed)
}

func (a *awsS3) DeleteFile(objectKey string) error {
	if a.client == nil || a.bucket == "" {
		return ErrStorageDisabled
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", a.bucket, a.region, objectKey)
}

func (a *awsS3) GetObjectKeyFromLink(link string) string {
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", a.bucket, a.region)
	if !strings.HasPrefix(link, prefix) {
		return ""
	}
	return strings.TrimPrefix(link, prefix)
}

func (a *awsS3) put(keyBase string, file *multipart.FileHeader, allowed []string) (string, error) {
	if a.client == nil || a.bucket == "" {
		return "", ErrStorageDisabled
	}
	if file.Size > maxUploadSize {
		return "", ErrFileTooLarge
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxUploadSize+1))
	if err != nil {
		return "", err
	}
	if len(data) > maxUploadSize {
		return "", ErrFileTooLarge
	}

	mtype, err := DetectContentType(data, allowed...)
	if err != nil {
		return "", err
	}

	objectKey := keyBase + mtype.Extension()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mtype.String()),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}
	return objectKey, nil
}

// DetectContentType sniffs data and checks it against allowed MIME types.
// An empty allowed list accepts anything.
func DetectContentType(data []byte, allowed ...string) (*mimetype.MIME, error) {
	mtype := mimetype.Detect(data)
	if len(allowed) == 0 || mimetype.EqualsAny(mtype.String(), allowed...) {
		return mtype, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, mtype.String())
}
