package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-builder-backend/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresigner struct {
	input *s3.PutObjectInput
	err   error
}

func (f *fakePresigner) PresignPutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &v4.PresignedHTTPRequest{URL: "https://bucket.example.com/" + *in.Key + "?sig=1", Method: http.MethodPut}, nil
}

func TestPresignUpload(t *testing.T) {
	presigner := &fakePresigner{}
	svc := NewUploadService(presigner, "folio", "https://cdn.example.com")
	fixed := time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	user := uuid.New()

	up, err := svc.Presign(context.Background(), user, "Avatar", "image/png")
	require.NoError(t, err)

	prefix := "users/" + user.String() + "/avatar/2025/03/07/"
	assert.True(t, strings.HasPrefix(up.Key, prefix), up.Key)
	assert.Equal(t, "https://cdn.example.com/"+up.Key, up.PublicURL)
	assert.Equal(t, fixed.Add(PresignExpiry), up.ExpiresAt)
	assert.Equal(t, "folio", *presigner.input.Bucket)
	assert.Equal(t, "image/png", *presigner.input.ContentType)
}

func TestPresignUploadRejections(t *testing.T) {
	ctx := context.Background()
	user := uuid.New()

	_, err := NewUploadService(nil, "", "").Presign(ctx, user, "avatar", "image/png")
	assert.Equal(t, http.StatusServiceUnavailable, errs.StatusOf(err))

	svc := NewUploadService(&fakePresigner{}, "folio", "")
	_, err = svc.Presign(ctx, user, "video", "video/mp4")
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))
	_, err = svc.Presign(ctx, user, "resume", "image/png")
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))
	_, err = svc.Presign(ctx, user, "resume", "")
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))

	failing := NewUploadService(&fakePresigner{err: errors.New("boom")}, "folio", "")
	_, err = failing.Presign(ctx, user, "resume", "application/pdf")
	assert.Equal(t, http.StatusInternalServerError, errs.StatusOf(err))
}

func TestS3PresignerAgainstCustomEndpoint(t *testing.T) {
	presigner, err := NewS3Presigner(context.Background(), S3Options{
		Region:       "us-east-1",
		BaseEndpoint: "http://localhost:9000",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
	})
	require.NoError(t, err)

	svc := NewUploadService(presigner, "folio", "")
	up, err := svc.Presign(context.Background(), uuid.New(), "project-image", "image/webp")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(up.UploadURL, "http://localhost:9000/folio/users/"), up.UploadURL)
	assert.Contains(t, up.UploadURL, "X-Amz-Signature=")
}
