package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"kefu/internal/domain"
	"kefu/internal/models"
	"kefu/internal/repository"
	"kefu/pkg/cloudinary"

	"github.com/gabriel-vasile/mimetype"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

const RecentUploads = 50

var (
	ErrBlobNotConfigured = errors.New("blob storage not configured")
	ErrFileTooLarge      = errors.New("file too large")
	ErrUnsupportedType   = errors.New("unsupported file type")
)

// UploadFile describes an incoming multipart file.
type UploadFile struct {
	Name        string
	Size        int64
	ContentType string
	Body        io.Reader
}

type UploadService struct {
	blob     cloudinary.Client
	files    repository.FileRepository
	maxBytes int64
	uploaded prometheus.Counter
	now      func() time.Time
	log      *zap.Logger
}

// NewUploadService accepts a nil blob client; uploads then fail with
// ErrBlobNotConfigured.
func NewUploadService(blob cloudinary.Client, files repository.FileRepository, maxBytes int64, uploaded prometheus.Counter, log *zap.Logger) *UploadService {
	return &UploadService{
		blob:     blob,
		files:    files,
		maxBytes: maxBytes,
		uploaded: uploaded,
		now:      time.Now,
		log:      log.With(zap.String("component", "upload")),
	}
}

func (s *UploadService) Enabled() bool { return s.blob != nil }

func (s *UploadService) MaxBytes() int64 { return s.maxBytes }

// Upload checks size and type, forwards the file to blob storage and records
// it.
func (s *UploadService) Upload(ctx context.Context, f UploadFile) (*models.FileUpload, error) {
	if f.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}
	body, contentType, err := detectType(f.Body, f.ContentType)
	if err != nil {
		return nil, err
	}
	canonical, ok := domain.AllowedUploadTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}
	if s.blob == nil {
		return nil, ErrBlobNotConfigured
	}

	fileType, resource := classify(canonical)
	name := strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + filepath.Base(f.Name)
	obj, err := s.blob.Upload(ctx, body, name, resource)
	if err != nil {
		return nil, fmt.Errorf("blob upload: %w", err)
	}
	if s.uploaded != nil {
		s.uploaded.Add(float64(f.Size))
	}
	rec := &models.FileUpload{
		FileName: f.Name,
		FileURL:  obj.URL,
		FileType: fileType,
		FileSize: f.Size,
		PublicID: obj.PublicID,
	}
	if err := s.files.Create(rec); err != nil {
		if derr := s.blob.Delete(ctx, obj.PublicID, resource); derr != nil {
			s.log.Warn("orphaned blob", zap.String("public_id", obj.PublicID), zap.Error(derr))
		}
		return nil, fmt.Errorf("record upload: %w", err)
	}
	return rec, nil
}

func (s *UploadService) Recent() ([]models.FileUpload, error) {
	return s.files.ListRecent(RecentUploads)
}

// detectType trusts the declared content type unless it is missing or
// generic, in which case the leading bytes are sniffed. The returned reader
// replays any bytes consumed by sniffing.
func detectType(r io.Reader, declared string) (io.Reader, string, error) {
	if declared != "" {
		if mt, _, err := mime.ParseMediaType(declared); err == nil {
			declared = mt
		}
	}
	declared = strings.ToLower(declared)
	if declared != "" && declared != "application/octet-stream" {
		return r, declared, nil
	}
	head := make([]byte, 3072)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", fmt.Errorf("read file: %w", err)
	}
	head = head[:n]
	detected := mimetype.Detect(head).String()
	if mt, _, err := mime.ParseMediaType(detected); err == nil {
		detected = mt
	}
	return io.MultiReader(bytes.NewReader(head), r), detected, nil
}

func classify(contentType string) (fileType, resource string) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return domain.FileTypeImage, cloudinary.ResourceImage
	case strings.HasPrefix(contentType, "video/"):
		return domain.FileTypeVideo, cloudinary.ResourceVideo
	}
	return domain.FileTypeDocument, cloudinary.ResourceRaw
}
