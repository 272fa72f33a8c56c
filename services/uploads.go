package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-builder-backend/errs"
	"github.com/rs/zerolog/log"
)

const PresignExpiry = 15 * time.Minute

// Presigner is the part of s3.PresignClient used for uploads.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type S3Options struct {
	Bucket        string
	Region        string
	BaseEndpoint  string
	AccessKey     string
	SecretKey     string
	PublicBaseURL string
}

// NewS3Presigner builds a presign client. Static credentials and a custom
// endpoint are used when given, which is how MinIO is reached locally.
func NewS3Presigner(ctx context.Context, opts S3Options) (*s3.PresignClient, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})
	return s3.NewPresignClient(client), nil
}

type UploadKind string

const (
	UploadAvatar       UploadKind = "avatar"
	UploadResume       UploadKind = "resume"
	UploadProjectImage UploadKind = "project-image"
)

var uploadContentTypes = map[UploadKind][]string{
	UploadAvatar:       {"image/png", "image/jpeg", "image/webp", "image/gif"},
	UploadProjectImage: {"image/png", "image/jpeg", "image/webp", "image/gif"},
	UploadResume:       {"application/pdf"},
}

type PresignedUpload struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"uploadUrl"`
	PublicURL string    `json:"publicUrl,omitempty"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type UploadService struct {
	presigner     Presigner
	bucket        string
	publicBaseURL string
	now           func() time.Time
}

// NewUploadService returns a service that answers 503 when presigner is nil
// or bucket is empty.
func NewUploadService(presigner Presigner, bucket, publicBaseURL string) *UploadService {
	return &UploadService{presigner: presigner, bucket: bucket, publicBaseURL: publicBaseURL, now: time.Now}
}

func (s *UploadService) Enabled() bool {
	return s.presigner != nil && s.bucket != ""
}

// Presign returns a URL the client can PUT one object of kind to.
func (s *UploadService) Presign(ctx context.Context, userID uuid.UUID, kind, contentType string) (*PresignedUpload, error) {
	if !s.Enabled() {
		return nil, errs.NewUnavailableError("uploads are not configured")
	}

	k := UploadKind(strings.ToLower(strings.TrimSpace(kind)))
	allowed, ok := uploadContentTypes[k]
	if !ok {
		return nil, errs.NewInvalidFieldError("kind", "must be avatar, resume or project-image")
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if contentType == "" {
		return nil, errs.NewMissingRequiredFieldError("contentType")
	}
	if !contains(allowed, contentType) {
		return nil, errs.NewInvalidFieldError("contentType", "unsupported content type "+contentType+" for "+string(k))
	}

	now := s.now().UTC()
	key := StorageKey(userID, k, now)
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to presign upload")
		return nil, errs.NewInternalError("failed to prepare upload")
	}

	return &PresignedUpload{
		Key:       key,
		UploadURL: req.URL,
		PublicURL: BuildObjectURL(s.publicBaseURL, key),
		ExpiresAt: now.Add(PresignExpiry),
	}, nil
}

// StorageKey lays objects out per user, kind and day.
func StorageKey(userID uuid.UUID, kind UploadKind, at time.Time) string {
	return fmt.Sprintf("users/%s/%s/%04d/%02d/%02d/%s", userID, kind, at.Year(), int(at.Month()), at.Day(), uuid.New())
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
