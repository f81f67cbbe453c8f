// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package mirror

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strconv"
	"testing"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 serves ListObjectsV2 in pages of one key.
type fakeS3 struct {
	objects  map[string][]byte
	keys     []string
	prefixes []string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3v2.PutObjectInput, _ ...func(*s3v2.Options)) (*s3v2.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	if awsv2.ToInt64(in.ContentLength) != int64(len(b)) {
		return nil, errors.New("content length mismatch")
	}
	f.objects[awsv2.ToString(in.Key)] = b
	return &s3v2.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3v2.GetObjectInput, _ ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	b, ok := f.objects[awsv2.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3v2.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3v2.ListObjectsV2Input, _ ...func(*s3v2.Options)) (*s3v2.ListObjectsV2Output, error) {
	f.prefixes = append(f.prefixes, awsv2.ToString(in.Prefix))

	i := 0
	if tok := awsv2.ToString(in.ContinuationToken); tok != "" {
		i, _ = strconv.Atoi(tok)
	}
	out := &s3v2.ListObjectsV2Output{}
	if i < len(f.keys) {
		out.Contents = []types.Object{{Key: awsv2.String(f.keys[i])}}
	}
	if i+1 < len(f.keys) {
		out.IsTruncated = awsv2.Bool(true)
		out.NextContinuationToken = awsv2.String(strconv.Itoa(i + 1))
	}
	return out, nil
}

func TestS3Store_PutGet(t *testing.T) {
	ctx := context.Background()
	fake := &fakeS3{objects: map[string][]byte{}}
	s := &S3Store{Client: fake, Bucket: "b"}

	require.NoError(t, s.Put(ctx, "k", bytes.NewReader([]byte("hello")), 5))

	rc, err := s.Get(ctx, "k")
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	_, err = s.Get(ctx, "missing")
	var nsk *types.NoSuchKey
	assert.ErrorAs(t, err, &nsk)
	assert.Contains(t, err.Error(), "s3://b/missing")
}

func TestS3Store_ListPaginates(t *testing.T) {
	fake := &fakeS3{keys: []string{"p/a", "p/b", "p/c"}}
	s := &S3Store{Client: fake, Bucket: "b"}

	keys, err := s.List(context.Background(), "p/")
	require.NoError(t, err)
	assert.Equal(t, []string{"p/a", "p/b", "p/c"}, keys)
	assert.Len(t, fake.prefixes, 3)
	assert.Equal(t, "p/", fake.prefixes[0])
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	t.Setenv("STKIT_CFG", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("APPDATA", "")
	t.Setenv("HOME", t.TempDir())

	_, err := NewS3Store(context.Background(), "", "")
	assert.Error(t, err)
}
