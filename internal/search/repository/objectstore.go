package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"delivery_admin_backend/internal/search/domain"
	"delivery_admin_backend/platform/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// SnapshotDocument is the JSON layout of a published corpus snapshot.
type SnapshotDocument struct {
	Version     string          `json:"version"`
	PublishedAt time.Time       `json:"publishedAt"`
	Items       []domain.Record `json:"items"`
}

// ObjectStore reads and writes the corpus snapshot object in MinIO.
type ObjectStore struct {
	client *minio.Client
	bucket string
	object string
}

// NewObjectStore connects to the MinIO endpoint from cfg.
func NewObjectStore(cfg config.MinIOConfig) (*ObjectStore, error) {
	if !cfg.IsMinIOEnabled() {
		return nil, fmt.Errorf("MinIO is not configured")
	}

	client, err := minio.New(cfg.GetMinIOEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinIOAccessKey(), cfg.GetMinIOSecretKey(), ""),
		Secure: cfg.GetMinIOUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	return &ObjectStore{
		client: client,
		bucket: cfg.GetMinioBucketSearchSnapshots(),
		object: cfg.GetSearchSnapshotObject(),
	}, nil
}

func (s *ObjectStore) Name() string {
	return "objectstore:" + s.bucket + "/" + s.object
}

// EnsureBucketExists creates the bucket if it doesn't exist.
func (s *ObjectStore) EnsureBucketExists(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
		}
	}

	return nil
}

// FetchRecords downloads and decodes the current snapshot object.
func (s *ObjectStore) FetchRecords(ctx context.Context) ([]domain.Record, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get snapshot object: %w", err)
	}
	defer obj.Close()

	doc, err := DecodeSnapshotDocument(obj)
	if err != nil {
		return nil, err
	}
	return doc.Items, nil
}

// PublishRecords replaces the snapshot object with records.
func (s *ObjectStore) PublishRecords(ctx context.Context, records []domain.Record) (SnapshotDocument, error) {
	doc := SnapshotDocument{
		Version:     uuid.NewString(),
		PublishedAt: time.Now().UTC(),
		Items:       records,
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return SnapshotDocument{}, fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, s.object, bytes.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return SnapshotDocument{}, fmt.Errorf("put snapshot object: %w", err)
	}

	return doc, nil
}

// DecodeSnapshotDocument parses a published snapshot.
func DecodeSnapshotDocument(r io.Reader) (SnapshotDocument, error) {
	var doc SnapshotDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return SnapshotDocument{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if doc.Items == nil {
		doc.Items = []domain.Record{}
	}
	return doc, nil
}

// Publisher copies the records of one source into the object store.
type Publisher struct {
	from RecordSource
	to   *ObjectStore
}

// NewPublisher copies from into to.
func NewPublisher(from RecordSource, to *ObjectStore) *Publisher {
	return &Publisher{from: from, to: to}
}

// Publish reads every record from the source and writes a new snapshot.
func (p *Publisher) Publish(ctx context.Context) (SnapshotDocument, error) {
	records, err := p.from.FetchRecords(ctx)
	if err != nil {
		return SnapshotDocument{}, fmt.Errorf("%s: fetch records: %w", p.from.Name(), err)
	}
	return p.to.PublishRecords(ctx, records)
}
