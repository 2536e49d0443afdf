// Package backup snapshots the database and ships the copy to object storage.
package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"keyed-api/internal/domain"
	"keyed-api/internal/service"
	"keyed-api/internal/storage"
)

// ErrNotConfigured is returned when no bucket was configured.
var ErrNotConfigured = errors.New("backup storage not configured")

// Snapshotter writes a consistent copy of the database to path.
type Snapshotter interface {
	Snapshot(ctx context.Context, path string) error
}

type Config struct {
	Bucket    string
	KeyPrefix string
	// Keep is the number of snapshots retained after an upload; zero keeps all.
	Keep   int
	Logger *logrus.Logger
}

type Result struct {
	Location string `json:"location"`
	Pruned   int    `json:"pruned"`
}

// Service runs admin-only backups.
type Service interface {
	Run(ctx context.Context, caller *domain.Identity) (*Result, error)
	List(ctx context.Context, caller *domain.Identity) ([]storage.ObjectInfo, error)
}

type backupService struct {
	cfg   Config
	db    Snapshotter
	store storage.Service
	now   func() time.Time
}

func NewService(cfg Config, db Snapshotter, store storage.Service) Service {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	cfg.KeyPrefix = strings.Trim(cfg.KeyPrefix, "/")
	return &backupService{
		cfg:   cfg,
		db:    db,
		store: store,
		now:   time.Now,
	}
}

func (s *backupService) Run(ctx context.Context, caller *domain.Identity) (*Result, error) {
	if caller == nil || !caller.Admin {
		return nil, service.ErrForbidden
	}
	if s.store == nil || s.cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}

	dir, err := os.MkdirTemp("", "keyed-backup-")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	name := fmt.Sprintf("keyed-%s.db", s.now().UTC().Format("20060102T150405.000Z"))
	local := filepath.Join(dir, name)
	if err := s.db.Snapshot(ctx, local); err != nil {
		return nil, fmt.Errorf("snapshot database: %w", err)
	}

	location, err := s.store.UploadFile(ctx, local, storage.UploadOptions{
		Bucket: s.cfg.Bucket,
		Key:    s.key(name),
	})
	if err != nil {
		return nil, fmt.Errorf("upload snapshot: %w", err)
	}
	s.cfg.Logger.WithField("location", location).Info("database backup uploaded")

	pruned, err := s.prune(ctx)
	if err != nil {
		s.cfg.Logger.Warnf("prune backups: %v", err)
	}

	return &Result{Location: location, Pruned: pruned}, nil
}

func (s *backupService) List(ctx context.Context, caller *domain.Identity) ([]storage.ObjectInfo, error) {
	if caller == nil || !caller.Admin {
		return nil, service.ErrForbidden
	}
	if s.store == nil || s.cfg.Bucket == "" {
		return nil, ErrNotConfigured
	}
	objects, err := s.store.ListObjects(ctx, s.cfg.Bucket, s.prefix())
	if err != nil {
		return nil, err
	}
	sortNewestFirst(objects)
	return objects, nil
}

func (s *backupService) prune(ctx context.Context) (int, error) {
	if s.cfg.Keep <= 0 {
		return 0, nil
	}
	objects, err := s.store.ListObjects(ctx, s.cfg.Bucket, s.prefix())
	if err != nil {
		return 0, err
	}
	if len(objects) <= s.cfg.Keep {
		return 0, nil
	}
	sortNewestFirst(objects)

	stale := make([]string, 0, len(objects)-s.cfg.Keep)
	for _, obj := range objects[s.cfg.Keep:] {
		stale = append(stale, obj.Key)
	}
	if err := s.store.DeleteObjects(ctx, s.cfg.Bucket, stale); err != nil {
		return 0, err
	}
	return len(stale), nil
}

func (s *backupService) key(name string) string {
	if s.cfg.KeyPrefix == "" {
		return name
	}
	return s.cfg.KeyPrefix + "/" + name
}

func (s *backupService) prefix() string {
	if s.cfg.KeyPrefix == "" {
		return ""
	}
	return s.cfg.KeyPrefix + "/"
}

// snapshot keys embed a UTC timestamp, so key order is age order
func sortNewestFirst(objects []storage.ObjectInfo) {
	sort.Slice(objects, func(i, j int) bool {
		return objects[i].Key > objects[j].Key
	})
}
