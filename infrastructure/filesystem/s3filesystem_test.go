package filesystem

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	pages   [][]string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = b
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	page := 0
	if in.ContinuationToken != nil {
		page = int(aws.ToString(in.ContinuationToken)[0] - '0')
	}
	out := &s3.ListObjectsV2Output{}
	for _, k := range f.pages[page] {
		if in.Prefix == nil || strings.HasPrefix(k, *in.Prefix) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
		}
	}
	if page+1 < len(f.pages) {
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(string(rune('0' + page + 1)))
	}
	return out, nil
}

func TestS3ArchivePutAndRead(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	archive := &S3Archive{client: fake, bucket: "timecards"}
	key := "timecards/acme/job-1/2024-02-04/x-2024-02-10 J100.csv"

	require.NoError(t, archive.Put(context.Background(), key, "text/csv", []byte("a,b")))
	assert.Equal(t, "text/csv", fake.types[key])

	var out bytes.Buffer
	require.NoError(t, archive.ReadFile(context.Background(), key, &out))
	assert.Equal(t, "a,b", out.String())

	err := archive.ReadFile(context.Background(), "missing", &out)
	assert.ErrorContains(t, err, "missing")
}

func TestS3ArchiveListFiles(t *testing.T) {
	fake := &fakeS3{pages: [][]string{
		{"timecards/acme/a.csv", "other/b.csv"},
		{"timecards/acme/c.pdf"},
	}}
	archive := &S3Archive{client: fake, bucket: "timecards"}

	keys, err := archive.ListFiles(context.Background(), "timecards/")
	require.NoError(t, err)
	assert.Equal(t, []string{"timecards/acme/a.csv", "timecards/acme/c.pdf"}, keys)

	all, err := archive.ListFiles(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
