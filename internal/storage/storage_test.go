package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HaroldK3/Student-Tracker/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocal(filepath.Join(dir, "uploads"), "", discardLogger())
	require.NoError(t, err)

	location, err := s.Save(context.Background(), "Syllabus.PDF", "application/pdf", strings.NewReader("week one"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(location, "uploads/"))
	assert.True(t, strings.HasSuffix(location, ".pdf"))

	data, err := os.ReadFile(filepath.Join(dir, "uploads", filepath.Base(location)))
	require.NoError(t, err)
	assert.Equal(t, "week one", string(data))

	require.NoError(t, s.Delete(context.Background(), location))
	_, err = os.Stat(filepath.Join(dir, "uploads", filepath.Base(location)))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(context.Background(), location))
	assert.Error(t, s.Delete(context.Background(), "uploads"))
}

func TestLocalStorage_BaseURL(t *testing.T) {
	s, err := NewLocal(t.TempDir(), "http://files.local/static/", discardLogger())
	require.NoError(t, err)

	first, err := s.Save(context.Background(), "a.txt", "text/plain", strings.NewReader("x"))
	require.NoError(t, err)
	second, err := s.Save(context.Background(), "a.txt", "text/plain", strings.NewReader("y"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(first, "http://files.local/static/"))
	assert.NotEqual(t, first, second)
}

type fakeS3 struct {
	s3iface.S3API
	put    *s3.PutObjectInput
	body   string
	delKey string
}

func (f *fakeS3) PutObjectWithContext(_ aws.Context, in *s3.PutObjectInput, _ ...request.Option) (*s3.PutObjectOutput, error) {
	f.put = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.body = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObjectWithContext(_ aws.Context, in *s3.DeleteObjectInput, _ ...request.Option) (*s3.DeleteObjectOutput, error) {
	f.delKey = aws.StringValue(in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage_SaveAndDelete(t *testing.T) {
	client := &fakeS3{}
	s := NewS3WithClient(client, "tracker", "https://cdn.example.com/", discardLogger())

	location, err := s.Save(context.Background(), "notes.md", "text/markdown", strings.NewReader("hello"))
	require.NoError(t, err)

	key := aws.StringValue(client.put.Key)
	assert.True(t, strings.HasPrefix(key, "resources/"))
	assert.Equal(t, "tracker", aws.StringValue(client.put.Bucket))
	assert.Equal(t, "text/markdown", aws.StringValue(client.put.ContentType))
	assert.Equal(t, "hello", client.body)
	assert.Equal(t, "https://cdn.example.com/"+key, location)

	require.NoError(t, s.Delete(context.Background(), location))
	assert.Equal(t, key, client.delKey)
}

func TestPublicBase(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", publicBase(config.S3StorageConfig{PublicURL: "https://cdn.example.com", Bucket: "b"}))
	assert.Equal(t, "http://minio:9000/b", publicBase(config.S3StorageConfig{Endpoint: "http://minio:9000/", Bucket: "b"}))
	assert.Equal(t, "https://b.s3.us-east-1.amazonaws.com", publicBase(config.S3StorageConfig{Bucket: "b", Region: "us-east-1"}))
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(config.StorageConfig{Driver: "ftp"}, discardLogger())
	assert.Error(t, err)
}
