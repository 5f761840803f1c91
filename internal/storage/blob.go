// Package storage 上传图片的处理与存放（本地磁盘或 MinIO）
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/afero"
)

// BlobStore 以 "folder/name.jpg" 形式的 key 存取对象
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
}

var errBadKey = errors.New("invalid blob key")

// cleanKey 去掉 .. 与前导 /，保证落在根目录内
func cleanKey(key string) (string, error) {
	k := strings.TrimPrefix(path.Clean("/"+key), "/")
	if k == "" || k == "." {
		return "", errBadKey
	}
	return k, nil
}

/* ---------- local disk ---------- */

type Local struct{ fs afero.Fs }

func NewLocal(root string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{fs: afero.NewBasePathFs(afero.NewOsFs(), root)}, nil
}

// NewLocalFs 测试用，可传入内存文件系统
func NewLocalFs(fs afero.Fs) *Local { return &Local{fs: fs} }

func (l *Local) Put(_ context.Context, key string, data []byte, _ string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	p := filepath.FromSlash(k)
	if err := l.fs.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return afero.WriteFile(l.fs, p, data, 0o644)
}

func (l *Local) Delete(_ context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := l.fs.Remove(filepath.FromSlash(k)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

/* ---------- minio ---------- */

type MinIO struct {
	client *minio.Client
	bucket string
}

type MinIOOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewMinIO 连接并确保 bucket 存在
func NewMinIO(ctx context.Context, o MinIOOptions) (*MinIO, error) {
	client, err := minio.New(o.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(o.AccessKey, o.SecretKey, ""),
		Secure: o.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	ok, err := client.BucketExists(ctx, o.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !ok {
		if err := client.MakeBucket(ctx, o.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}
	return &MinIO{client: client, bucket: o.Bucket}, nil
}

func (m *MinIO) Put(ctx context.Context, key string, data []byte, contentType string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	_, err = m.client.PutObject(ctx, m.bucket, k, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (m *MinIO) Delete(ctx context.Context, key string) error {
	k, err := cleanKey(key)
	if err != nil {
		return err
	}
	return m.client.RemoveObject(ctx, m.bucket, k, minio.RemoveObjectOptions{})
}
