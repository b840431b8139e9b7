// Copyright 2024 go-dataspace
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package minio

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-dataspace/agri-admin/internal/apperr"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listBuckets = `<?xml version="1.0" encoding="UTF-8"?>
<ListAllMyBucketsResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
<Owner><ID>owner</ID><DisplayName>owner</DisplayName></Owner>
<Buckets>
<Bucket><Name>prj-lmis-projectname</Name><CreationDate>2024-01-02T03:04:05.000Z</CreationDate></Bucket>
</Buckets>
</ListAllMyBucketsResult>`

const listObjects = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
<Name>prj-lmis-projectname</Name><Prefix></Prefix><KeyCount>1</KeyCount><MaxKeys>1000</MaxKeys>
<IsTruncated>false</IsTruncated>
<Contents><Key>yield.csv</Key><LastModified>2024-01-02T03:04:05.000Z</LastModified>
<ETag>"abc"</ETag><Size>12</Size><StorageClass>STANDARD</StorageClass></Contents>
</ListBucketResult>`

const emptyObjects = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
<Name>prj-lmis-empty</Name><Prefix></Prefix><KeyCount>0</KeyCount><MaxKeys>1000</MaxKeys>
<IsTruncated>false</IsTruncated>
</ListBucketResult>`

const noSuchBucket = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchBucket</Code><Message>The specified bucket does not exist</Message>
<BucketName>missing</BucketName><Resource>/missing</Resource><RequestId>1</RequestId></Error>`

func setupStore(t *testing.T) *Store {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		switch strings.Trim(r.URL.Path, "/") {
		case "":
			_, _ = w.Write([]byte(listBuckets))
		case "prj-lmis-projectname":
			_, _ = w.Write([]byte(listObjects))
		case "prj-lmis-empty":
			_, _ = w.Write([]byte(emptyObjects))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(noSuchBucket))
		}
	}))
	t.Cleanup(ts.Close)

	f := &Factory{Endpoint: strings.TrimPrefix(ts.URL, "http://"), Region: "us-east-1"}
	s, err := f.open(context.Background(), credentials.NewStaticV4("access", "secret", ""))
	require.NoError(t, err)
	return s
}

func TestListBuckets(t *testing.T) {
	t.Parallel()
	s := setupStore(t)
	buckets, err := s.ListBuckets(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, "prj-lmis-projectname", buckets[0].Name)
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), buckets[0].CreationDate.UTC())
}

func TestListObjects(t *testing.T) {
	t.Parallel()
	s := setupStore(t)
	objects, err := s.ListObjects(context.Background(), "prj-lmis-projectname")
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, "yield.csv", objects[0].Key)
	assert.Equal(t, int64(12), objects[0].Size)

	has, err := s.HasObjects(context.Background(), "prj-lmis-projectname")
	require.NoError(t, err)
	assert.True(t, has)

	has, err = s.HasObjects(context.Background(), "prj-lmis-empty")
	require.NoError(t, err)
	assert.False(t, has)
}

func TestListObjectsMissingBucket(t *testing.T) {
	t.Parallel()
	s := setupStore(t)
	_, err := s.ListObjects(context.Background(), "missing")
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestForTokenRequiresToken(t *testing.T) {
	t.Parallel()
	_, err := (&Factory{Endpoint: "localhost:9000"}).ForToken(context.Background(), "")
	assert.True(t, apperr.Is(err, apperr.Unauthorized))
}

