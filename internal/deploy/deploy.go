// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package deploy reads deployment facts from a JSON manifest kept in S3.
// The manifest is written by the deploy pipeline; gfctl only ever reads it,
// and reads go through the shared result cache so repeated dashboard builds
// don't hammer S3.
package deploy

import (
	"context"
	"fmt"
	"io"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/tidwall/gjson"

	"github.com/staranto/gfctlgo/internal/cache"
)

// Deployment is the shaped view of one deployed environment from the
// manifest, e.g. {"deployments":[{"env":"prod","app":"api",...}]}.
type Deployment struct {
	Env        string `jsonapi:"primary,deployments"`
	App        string `jsonapi:"attr,app"`
	Version    string `jsonapi:"attr,version"`
	SHA        string `jsonapi:"attr,sha"`
	DeployedAt string `jsonapi:"attr,deployed_at"`
}

// ObjectGetter is the slice of the S3 API the fetcher needs. *s3.Client
// satisfies it; tests substitute a fake.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// Fetcher reads the deployment manifest through the cache under the Dynamic
// class: deploys land often enough that a 5 minute view is the right trade
// against S3 round trips.
type Fetcher struct {
	s3     ObjectGetter
	bucket string
	key    string
	cache  *cache.Cache
}

// NewFetcher constructs a Fetcher for one manifest location.
func NewFetcher(client ObjectGetter, bucket, key string, cc *cache.Cache) *Fetcher {
	return &Fetcher{
		s3:     client,
		bucket: bucket,
		key:    key,
		cache:  cc,
	}
}

// Deployments returns the current deployments from the manifest.
func (f *Fetcher) Deployments(ctx context.Context) ([]*Deployment, error) {
	cacheKey := fmt.Sprintf("deploy-manifest-%s-%s", f.bucket, f.key)

	v, err := f.cache.Resolve(ctx, cacheKey, cache.Dynamic, func(ctx context.Context) (any, error) {
		out, err := f.s3.GetObject(ctx, &s3v2.GetObjectInput{
			Bucket: awsv2.String(f.bucket),
			Key:    awsv2.String(f.key),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest s3://%s/%s: %w", f.bucket, f.key, err)
		}
		defer out.Body.Close()

		doc, err := io.ReadAll(out.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read manifest body: %w", err)
		}

		var deployments []*Deployment
		for _, item := range gjson.GetBytes(doc, "deployments").Array() {
			deployments = append(deployments, &Deployment{
				Env:        item.Get("env").String(),
				App:        item.Get("app").String(),
				Version:    item.Get("version").String(),
				SHA:        item.Get("sha").String(),
				DeployedAt: item.Get("deployed_at").String(),
			})
		}
		return deployments, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*Deployment), nil
}
