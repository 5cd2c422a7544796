package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dmitrijs2005/fintrack/internal/filex"
	"github.com/dmitrijs2005/fintrack/internal/netx"
)

// Destination stores and retrieves one backup blob.
type Destination interface {
	Write(ctx context.Context, data []byte) error
	Read(ctx context.Context) ([]byte, error)
	String() string
}

// S3Config configures the s3:// destination. Empty credentials fall back
// to the default AWS credential chain.
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Open picks a destination by the scheme of location.
func Open(ctx context.Context, location string, cfg S3Config) (Destination, error) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// plain paths, including windows drive letters
		return &FileDestination{Path: location}, nil
	}

	switch u.Scheme {
	case "file":
		return &FileDestination{Path: u.Path}, nil
	case "http", "https":
		return &HTTPDestination{URL: location}, nil
	case "s3":
		key := strings.TrimPrefix(u.Path, "/")
		if u.Host == "" || key == "" {
			return nil, fmt.Errorf("s3 location must be s3://bucket/key, got %q", location)
		}
		client, err := newS3Client(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &S3Destination{Client: client, Bucket: u.Host, Key: key}, nil
	default:
		return nil, fmt.Errorf("unsupported backup location scheme %q", u.Scheme)
	}
}

type FileDestination struct {
	Path string
}

func (d *FileDestination) Write(ctx context.Context, data []byte) error {
	return filex.WriteAtomic(d.Path, data, 0o600)
}

func (d *FileDestination) Read(ctx context.Context) ([]byte, error) {
	return os.ReadFile(d.Path)
}

func (d *FileDestination) String() string { return d.Path }

// HTTPDestination talks to a URL accepting PUT and GET, such as a presigned
// object storage URL.
type HTTPDestination struct {
	URL string
}

func (d *HTTPDestination) Write(ctx context.Context, data []byte) error {
	return netx.PutBlob(ctx, d.URL, data)
}

func (d *HTTPDestination) Read(ctx context.Context) ([]byte, error) {
	return netx.GetBlob(ctx, d.URL)
}

func (d *HTTPDestination) String() string {
	if u, err := url.Parse(d.URL); err == nil {
		u.RawQuery = ""
		return u.String()
	}
	return d.URL
}

// S3API is the subset of *s3.Client the destination uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Destination struct {
	Client S3API
	Bucket string
	Key    string
}

func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	_, err := d.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(d.Bucket),
		Key:         aws.String(d.Key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return fmt.Errorf("put %s: %w", d, err)
	}
	return nil
}

func (d *S3Destination) Read(ctx context.Context) ([]byte, error) {
	out, err := d.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.Bucket),
		Key:    aws.String(d.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", d, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (d *S3Destination) String() string { return "s3://" + d.Bucket + "/" + d.Key }

var loadDefaultAWSConfig = config.LoadDefaultConfig

func newS3Client(ctx context.Context, c S3Config) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if c.Region != "" {
		opts = append(opts, config.WithRegion(c.Region))
	}
	if c.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// ErrEmptyBackup is returned when a destination holds no data.
var ErrEmptyBackup = errors.New("backup is empty")

// Save encodes s and writes it to d.
func Save(ctx context.Context, d Destination, s *Snapshot, passphrase string) error {
	data, err := Encode(s, passphrase)
	if err != nil {
		return err
	}
	return d.Write(ctx, data)
}

// Load reads and decodes a snapshot from d.
func Load(ctx context.Context, d Destination, passphrase string) (*Snapshot, error) {
	data, err := d.Read(ctx)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyBackup
	}
	return Decode(data, passphrase)
}
