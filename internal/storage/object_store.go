package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type Config struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicBaseURL   string
	StorageClass    string
}

// ObjectStore holds processed menu images on S3-compatible storage
// (Cloudflare R2 in production). Optional: the service runs without it,
// menu items just keep their existing image URLs.
type ObjectStore struct {
	bucket       string
	publicBase   string
	storageClass types.StorageClass
	client       *s3.Client
}

func NewObjectStore(ctx context.Context, cfg Config) (*ObjectStore, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("object store endpoint is required")
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "https://" + endpoint
	}

	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "auto"
	}
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("object store bucket is required")
	}
	publicBase := strings.TrimRight(strings.TrimSpace(cfg.PublicBaseURL), "/")
	if publicBase == "" {
		return nil, fmt.Errorf("object store public base url is required")
	}

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, _ ...any) (aws.Endpoint, error) {
		if service == s3.ServiceID {
			return aws.Endpoint{URL: endpoint, HostnameImmutable: true}, nil
		}
		return aws.Endpoint{}, &aws.EndpointNotFoundError{}
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			strings.TrimSpace(cfg.AccessKeyID),
			strings.TrimSpace(cfg.SecretAccessKey),
			"",
		)),
		awsconfig.WithEndpointResolverWithOptions(resolver),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// R2 requires path-style addressing
		o.UsePathStyle = true
	})

	storageClass := types.StorageClass(strings.TrimSpace(cfg.StorageClass))
	if storageClass == "" {
		storageClass = types.StorageClassStandard
	}

	return &ObjectStore{
		bucket:       strings.TrimSpace(cfg.Bucket),
		publicBase:   publicBase,
		storageClass: storageClass,
		client:       client,
	}, nil
}

// MenuImageKey names an object for one menu item image variant. The
// timestamp segment makes every upload a fresh key, so stale CDN caches
// never show the old photo.
func MenuImageKey(menuItemID, variant string) string {
	return fmt.Sprintf("menu/%s/%s-%d.jpg", menuItemID, variant, time.Now().UnixMilli())
}

func (s *ObjectStore) PublicURL(key string) string {
	return s.publicBase + "/" + strings.TrimLeft(key, "/")
}

func (s *ObjectStore) PutObject(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	key = strings.TrimLeft(key, "/")
	ct := strings.TrimSpace(contentType)
	if ct == "" {
		ct = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         bytes.NewReader(body),
		ContentType:  aws.String(ct),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
		StorageClass: s.storageClass,
	})
	if err != nil {
		return "", err
	}
	return s.PublicURL(key), nil
}

func (s *ObjectStore) DeleteKey(ctx context.Context, key string) error {
	key = strings.TrimLeft(key, "/")
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

// ResolveKeyFromURL maps a stored public URL back to its object key. URLs
// outside our public base are foreign and left alone.
func (s *ObjectStore) ResolveKeyFromURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if strings.HasPrefix(raw, s.publicBase+"/") {
		return strings.TrimLeft(raw[len(s.publicBase):], "/"), true
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	parts := strings.Split(strings.TrimLeft(parsed.Path, "/"), "/")
	if len(parts) >= 2 && parts[0] == s.bucket {
		return strings.Join(parts[1:], "/"), true
	}
	return "", false
}

func (s *ObjectStore) DeleteURL(ctx context.Context, raw string) error {
	key, ok := s.ResolveKeyFromURL(raw)
	if !ok {
		return fmt.Errorf("unmanaged url")
	}
	return s.DeleteKey(ctx, key)
}
