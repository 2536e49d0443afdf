package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

const (
	snapshotContentType = "application/vnd.sqlite3"
	// DeleteObjects accepts at most this many keys per call.
	maxDeleteBatch = 1000
)

var errNoBucket = errors.New("storage bucket is required")

// S3Store keeps snapshots in Amazon S3 or an S3 compatible endpoint.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
}

func NewS3Store(client *s3.Client) *S3Store {
	return &S3Store{
		client: client,
		uploader: manager.NewUploader(client, func(u *manager.Uploader) {
			u.PartSize = 16 * 1024 * 1024
		}),
	}
}

// UploadFile streams the snapshot at localPath to bucket/key and returns its s3:// location.
func (s *S3Store) UploadFile(ctx context.Context, localPath string, opts UploadOptions) (string, error) {
	if opts.Bucket == "" {
		return "", errNoBucket
	}
	key := strings.TrimPrefix(opts.Key, "/")
	if key == "" {
		return "", errors.New("object key is required")
	}

	snapshot, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open snapshot: %w", err)
	}
	defer snapshot.Close()

	out, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:               aws.String(opts.Bucket),
		Key:                  aws.String(key),
		Body:                 snapshot,
		ContentType:          aws.String(snapshotContentType),
		ServerSideEncryption: types.ServerSideEncryptionAes256,
		ACL:                  types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	if out.Key != nil {
		key = aws.ToString(out.Key)
	}
	return "s3://" + opts.Bucket + "/" + key, nil
}

func (s *S3Store) ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	if bucket == "" {
		return nil, errNoBucket
	}
	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	var objects []ObjectInfo
	pages := s3.NewListObjectsV2Paginator(s.client, input)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %s/%s: %w", bucket, prefix, err)
		}
		for _, obj := range page.Contents {
			objects = append(objects, ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: obj.LastModified,
			})
		}
	}
	return objects, nil
}

// DeleteObjects removes keys in batches and fails if any single key could not be removed.
func (s *S3Store) DeleteObjects(ctx context.Context, bucket string, keys []string) error {
	if bucket == "" {
		return errNoBucket
	}
	for start := 0; start < len(keys); start += maxDeleteBatch {
		end := min(start+maxDeleteBatch, len(keys))

		ids := make([]types.ObjectIdentifier, 0, end-start)
		for _, key := range keys[start:end] {
			ids = append(ids, types.ObjectIdentifier{Key: aws.String(key)})
		}
		out, err := s.client.DeleteObjects(ctx, &s3.DeleteObjectsInput{
			Bucket: aws.String(bucket),
			Delete: &types.Delete{Objects: ids, Quiet: aws.Bool(true)},
		})
		if err != nil {
			return fmt.Errorf("delete objects: %w", err)
		}
		if len(out.Errors) > 0 {
			first := out.Errors[0]
			return fmt.Errorf("delete %s: %s (%d of %d failed)",
				aws.ToString(first.Key), aws.ToString(first.Message), len(out.Errors), len(ids))
		}
	}
	return nil
}

var _ Service = (*S3Store)(nil)
