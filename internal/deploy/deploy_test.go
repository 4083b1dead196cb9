// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package deploy

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staranto/gfctlgo/internal/cache"
)

const manifestDoc = `{
	"deployments": [
		{"env": "prod", "app": "api", "version": "1.4.2", "sha": "abc123", "deployed_at": "2025-05-01T08:00:00Z"},
		{"env": "staging", "app": "api", "version": "1.5.0-rc1", "sha": "def456", "deployed_at": "2025-05-02T08:00:00Z"}
	]
}`

type fakeS3 struct {
	calls int
	doc   string
	err   error
}

func (f *fakeS3) GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &s3v2.GetObjectOutput{Body: io.NopCloser(strings.NewReader(f.doc))}, nil
}

func TestDeploymentsParsedAndCached(t *testing.T) {
	cc := cache.New(cache.Config{MaxSize: 10})
	defer cc.Close()

	s3 := &fakeS3{doc: manifestDoc}
	f := NewFetcher(s3, "deploy-bucket", "manifest.json", cc)

	ctx := context.Background()
	deployments, err := f.Deployments(ctx)
	require.NoError(t, err)
	require.Len(t, deployments, 2)
	assert.Equal(t, "prod", deployments[0].Env)
	assert.Equal(t, "1.4.2", deployments[0].Version)
	assert.Equal(t, "def456", deployments[1].SHA)

	// Cached within the dynamic TTL window.
	_, err = f.Deployments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, s3.calls)
}

func TestDeploymentsErrorNotCached(t *testing.T) {
	cc := cache.New(cache.Config{MaxSize: 10})
	defer cc.Close()

	s3 := &fakeS3{err: errors.New("access denied")}
	f := NewFetcher(s3, "deploy-bucket", "manifest.json", cc)

	_, err := f.Deployments(context.Background())
	require.Error(t, err)
	assert.Zero(t, cc.Stats().Total)

	s3.err = nil
	s3.doc = manifestDoc
	deployments, err := f.Deployments(context.Background())
	require.NoError(t, err)
	assert.Len(t, deployments, 2)
	assert.Equal(t, 2, s3.calls)
}
