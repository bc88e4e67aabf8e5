package minio

import (
	"context"
	"errors"
	"io"
	"log"
	"lookbook-service/internal/config"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var MinioClient *minio.Client

// ErrObjectExists is returned when an upload targets a path that already holds
// an object. Fresh upload tokens make this effectively unreachable, but an
// upload must never silently overwrite.
var ErrObjectExists = errors.New("object already exists at storage path")

func InitMinioClient(cfg *config.MinIOConfig) error {
	var err error

	MinioClient, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		log.Printf("Error initializing MinIO client: %v", err)
		return err
	}

	// Create the lookbook bucket if it doesn't exist yet
	exists, err := MinioClient.BucketExists(context.Background(), cfg.LookbookBucket)
	if err != nil {
		log.Printf("Error checking if bucket %s exists: %v", cfg.LookbookBucket, err)
		return err
	}
	if !exists {
		err = MinioClient.MakeBucket(context.Background(), cfg.LookbookBucket, minio.MakeBucketOptions{
			Region: cfg.Region,
		})
		if err != nil {
			log.Printf("Error creating bucket %s: %v", cfg.LookbookBucket, err)
			return err
		}
		log.Printf("Created bucket: %s", cfg.LookbookBucket)
	}

	log.Println("Successfully initialized MinIO client")
	return nil
}

// UploadImage writes an image blob to the given path. It fails with
// ErrObjectExists instead of overwriting when the path is already taken.
func UploadImage(ctx context.Context, bucketName, objectName string, reader io.Reader, size int64, contentType string) (minio.UploadInfo, error) {
	_, err := MinioClient.StatObject(ctx, bucketName, objectName, minio.StatObjectOptions{})
	if err == nil {
		return minio.UploadInfo{}, ErrObjectExists
	}
	if resp := minio.ToErrorResponse(err); resp.Code != "NoSuchKey" {
		log.Printf("Error checking existing object %s: %v", objectName, err)
		return minio.UploadInfo{}, err
	}

	uploadInfo, err := MinioClient.PutObject(ctx, bucketName, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		log.Printf("Error uploading image to MinIO: %v", err)
		return minio.UploadInfo{}, err
	}

	return uploadInfo, nil
}

// RemoveFiles deletes a batch of objects. The first failed removal aborts the
// batch and is returned.
func RemoveFiles(ctx context.Context, bucketName string, objectNames []string) error {
	if len(objectNames) == 0 {
		return nil
	}

	objectCh := make(chan minio.ObjectInfo, len(objectNames))
	for _, name := range objectNames {
		objectCh <- minio.ObjectInfo{Key: name}
	}
	close(objectCh)

	for removeErr := range MinioClient.RemoveObjects(ctx, bucketName, objectCh, minio.RemoveObjectsOptions{}) {
		if removeErr.Err != nil {
			log.Printf("Error removing object %s: %v", removeErr.ObjectName, removeErr.Err)
			return removeErr.Err
		}
	}

	return nil
}

// ListFiles lists object keys under a prefix.
func ListFiles(ctx context.Context, bucketName, prefix string) ([]string, error) {
	objectCh := MinioClient.ListObjects(ctx, bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})

	var keys []string
	for object := range objectCh {
		if object.Err != nil {
			log.Printf("Error listing objects: %v", object.Err)
			return nil, object.Err
		}
		keys = append(keys, object.Key)
	}

	return keys, nil
}

// GetPresignedURL generates a time-limited signed URL for one object.
func GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	// For security, validate the object name to prevent path traversal
	if strings.Contains(objectName, "..") {
		return "", errors.New("invalid object name")
	}

	presignedURL, err := MinioClient.PresignedGetObject(ctx, bucketName, objectName, expiry, nil)
	if err != nil {
		log.Printf("Error generating presigned URL: %v", err)
		return "", err
	}

	return presignedURL.String(), nil
}

// GetPresignedURLs signs a batch of paths, returning a path-to-URL map.
func GetPresignedURLs(ctx context.Context, bucketName string, objectNames []string, expiry time.Duration) (map[string]string, error) {
	urls := make(map[string]string, len(objectNames))
	for _, name := range objectNames {
		url, err := GetPresignedURL(ctx, bucketName, name, expiry)
		if err != nil {
			return nil, err
		}
		urls[name] = url
	}
	return urls, nil
}
