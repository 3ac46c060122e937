// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"cloud.google.com/go/auth/credentials"
	"cloud.google.com/go/storage"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/genai"

	"github.com/go-a2a/adk-agui/pkg/py"
	"github.com/go-a2a/adk-agui/types"
)

// GCSService represents an artifact service implementation using Google Cloud Storage (GCS).
type GCSService struct {
	client *storage.Client
	bucket *storage.BucketHandle
}

var _ types.ArtifactService = (*GCSService)(nil)

// NewGCSService creates a new [GCSService] instance with the given bucket name.
func NewGCSService(ctx context.Context, bucketName string) (*GCSService, error) {
	creds, err := credentials.DetectDefault(&credentials.DetectOptions{
		Scopes: []string{
			storage.ScopeFullControl,
			storage.ScopeReadWrite,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("get credentials for storage: %w", err)
	}

	client, err := storage.NewGRPCClient(ctx, option.WithAuthCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	bucket := client.Bucket(bucketName)

	return &GCSService{
		client: client,
		bucket: bucket,
	}, nil
}

// SaveArtifact implements [types.ArtifactService].
func (a *GCSService) SaveArtifact(ctx context.Context, appName, userID, sessionID, filename string, artifact *genai.Part) (int, error) {
	versions, err := a.ListVersions(ctx, appName, userID, sessionID, filename)
	if err != nil {
		return 0, err
	}
	version := len(versions)

	blobName := objectName(appName, userID, sessionID, filename, version)
	blob := a.bucket.Object(blobName)

	w := blob.NewWriter(ctx)
	w.ContentType = artifact.InlineData.MIMEType
	if _, err := io.Copy(w, bytes.NewReader(artifact.InlineData.Data)); err != nil {
		w.Close()
		return 0, fmt.Errorf("write artifact %s: %w", blobName, err)
	}
	// The object is not committed until the writer closes.
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("commit artifact %s: %w", blobName, err)
	}

	return version, nil
}

// LoadArtifact implements [types.ArtifactService].
func (a *GCSService) LoadArtifact(ctx context.Context, appName, userID, sessionID, filename string, version int) (*genai.Part, error) {
	if version < 0 {
		versions, err := a.ListVersions(ctx, appName, userID, sessionID, filename)
		if err != nil {
			return nil, err
		}
		if len(versions) == 0 {
			return nil, nil
		}
		version = slices.Max(versions)
	}

	blobName := objectName(appName, userID, sessionID, filename, version)
	blob := a.bucket.Object(blobName)

	r, err := blob.NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open artifact %s: %w", blobName, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", blobName, err)
	}

	return genai.NewPartFromBytes(data, r.Attrs.ContentType), nil
}

// ListArtifactKey implements [types.ArtifactService]. Both scope prefixes
// are walked in parallel and merged into one sorted filename list.
func (a *GCSService) ListArtifactKey(ctx context.Context, appName, userID, sessionID string) ([]string, error) {
	sessionScope, userScope := scopePrefixes(appName, userID, sessionID)

	eg, ctx := errgroup.WithContext(ctx)

	collect := func(prefix string, into py.Set[string]) func() error {
		return func() error {
			it := a.bucket.Objects(ctx, &storage.Query{
				Prefix: prefix,
			})
			for {
				objAttrs, err := it.Next()
				if err != nil {
					if errors.Is(err, iterator.Done) {
						return nil
					}
					return err
				}

				// Object names are {app}/{user}/{scope}/{filename}/{version}.
				if segments := strings.Split(objAttrs.Name, "/"); len(segments) == 5 {
					into.Insert(segments[3])
				}
			}
		}
	}

	sessionNames := py.NewSet[string]()
	userNames := py.NewSet[string]()
	eg.Go(collect(sessionScope, sessionNames))
	eg.Go(collect(userScope, userNames))

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return py.List(sessionNames.Union(userNames)), nil
}

// DeleteArtifact implements [types.ArtifactService].
func (a *GCSService) DeleteArtifact(ctx context.Context, appName, userID, sessionID, filename string) error {
	versions, err := a.ListVersions(ctx, appName, userID, sessionID, filename)
	if err != nil {
		return err
	}

	eg, ctx := errgroup.WithContext(ctx)
	for _, version := range versions {
		blobName := objectName(appName, userID, sessionID, filename, version)
		eg.Go(func() error {
			if err := a.bucket.Object(blobName).Delete(ctx); err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
				return fmt.Errorf("delete artifact %s: %w", blobName, err)
			}
			return nil
		})
	}

	return eg.Wait()
}

// ListVersions implements [types.ArtifactService].
func (a *GCSService) ListVersions(ctx context.Context, appName, userID, sessionID, filename string) ([]int, error) {
	prefix := objectDir(appName, userID, sessionID, filename) + "/"
	it := a.bucket.Objects(ctx, &storage.Query{
		Prefix: prefix,
	})

	blobNames := []string{}
	for {
		objAttrs, err := it.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, err
		}

		blobNames = append(blobNames, objAttrs.Name)
	}

	versions := make([]int, len(blobNames))
	for i, blobName := range blobNames {
		idx := strings.LastIndex(blobName, "/")
		version, err := strconv.Atoi(blobName[idx+1:])
		if err != nil {
			return nil, err
		}
		versions[i] = version
	}
	slices.Sort(versions)

	return versions, nil
}

// Close implements [types.ArtifactService].
func (a *GCSService) Close() error {
	return a.client.Close()
}
