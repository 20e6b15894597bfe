package storage

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/resume-screener/internal/ingestion"
)

// fakeS3 serves objects from memory, two keys per page.
type fakeS3 struct {
	objects map[string][]byte
	listErr error
	pages   int
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.pages++

	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	start := 0
	if in.ContinuationToken != nil {
		for i, k := range keys {
			if k == *in.ContinuationToken {
				start = i
			}
		}
	}
	end := start + 2
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	if end < len(keys) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(keys[end])
	} else {
		end = len(keys)
	}
	for _, k := range keys[start:end] {
		out.Contents = append(out.Contents, s3types.Object{Key: aws.String(k)})
	}
	return out, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func zipOf(t *testing.T, name, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create(name)
	require.NoError(t, err)
	_, err = w.Write([]byte(body))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestBucket_ListPaginates(t *testing.T) {
	api := &fakeS3{objects: map[string][]byte{
		"batch/c.txt": nil, "batch/a.txt": nil, "batch/b.txt": nil, "other/x.txt": nil,
	}}
	keys, err := NewBucketWithAPI(api, "resumes", nil).List(context.Background(), "batch/")
	require.NoError(t, err)
	assert.Equal(t, []string{"batch/a.txt", "batch/b.txt", "batch/c.txt"}, keys)
	assert.Equal(t, 2, api.pages)
}

func TestBucket_ListError(t *testing.T) {
	api := &fakeS3{listErr: errors.New("access denied")}
	_, err := NewBucketWithAPI(api, "resumes", nil).List(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list objects in resumes")
}

func TestBucket_Get(t *testing.T) {
	api := &fakeS3{objects: map[string][]byte{"a.txt": []byte("hello")}}
	b := NewBucketWithAPI(api, "resumes", nil)

	data, err := b.Get(context.Background(), "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))

	_, err = b.Get(context.Background(), "missing.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.txt")
}

func TestBucket_LoadResumes(t *testing.T) {
	api := &fakeS3{objects: map[string][]byte{
		"run/a.txt":     []byte("Alice Example"),
		"run/batch.zip": zipOf(t, "b.txt", "Bob Example"),
		"run/cover.png": []byte("img"),
	}}
	docs, err := NewBucketWithAPI(api, "resumes", nil).
		LoadResumes(context.Background(), "run/", ingestion.NewLoader(nil))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "run/a.txt", docs[0].FileName)
	assert.Equal(t, "Alice Example", docs[0].Text)
	assert.Equal(t, "run/batch.zip/b.txt", docs[1].FileName)
	assert.Equal(t, "Bob Example", docs[1].Text)
}

func TestNewBucket_RequiresName(t *testing.T) {
	_, err := NewBucket(context.Background(), Config{}, nil)
	require.Error(t, err)
}
