package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"schooldirectory/pkg/cache"
	"schooldirectory/pkg/domain"
	"schooldirectory/pkg/storage"
	"schooldirectory/pkg/store"
)

// Config holds runtime configuration for the core application.
type Config struct {
	DatabaseURL   string
	Store         store.Store
	Images        storage.ImageStore
	Minio         storage.MinioConfig
	ListingCache  *cache.ListingCache
	ImageRequired bool
}

// App wires storage and domain logic for school ingestion and listing.
type App struct {
	store         store.Store
	images        storage.ImageStore
	listing       *cache.ListingCache
	imageRequired bool
}

// ImageUpload is an optional file part attached to a submission.
type ImageUpload struct {
	Filename string
	Size     int64
	Reader   io.Reader
}

// New constructs the application. Store and Images may be injected (tests);
// otherwise they are built from DatabaseURL and the MinIO config.
func New(cfg Config) (*App, error) {
	images := cfg.Images
	if images == nil {
		var err error
		images, err = storage.NewMinioStore(cfg.Minio)
		if err != nil {
			return nil, err
		}
	}
	dataStore := cfg.Store
	if dataStore == nil {
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("database URL required")
		}
		var err error
		dataStore, err = store.NewGormStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init postgres store: %w", err)
		}
	}
	return &App{
		store:         dataStore,
		images:        images,
		listing:       cfg.ListingCache,
		imageRequired: cfg.ImageRequired,
	}, nil
}

// Submit validates one school submission, uploads the optional image and
// persists the record. Validation runs before any external call; the
// insert runs only after a successful upload, and a failed insert triggers
// a best-effort delete of the uploaded object so no partial record exists
// either way.
func (a *App) Submit(ctx context.Context, sub domain.Submission, image *ImageUpload) (domain.School, error) {
	if err := sub.Validate(image != nil, a.imageRequired); err != nil {
		return domain.School{}, err
	}

	school := domain.School{
		Name:      sub.Name,
		Address:   sub.Address,
		City:      sub.City,
		State:     sub.State,
		Contact:   sub.Contact,
		EmailID:   sub.EmailID,
		Website:   sub.Website,
		CreatedAt: time.Now().UTC(),
	}

	var storageKey string
	if image != nil {
		storageKey = buildStorageKey(image.Filename)
		url, err := a.images.Put(ctx, storageKey, image.Reader, image.Size, contentTypeFor(image.Filename))
		if err != nil {
			return domain.School{}, fmt.Errorf("upload image: %w", err)
		}
		school.Image = &url
	}

	saved, err := a.store.SaveSchool(ctx, school)
	if err != nil {
		if storageKey != "" {
			if delErr := a.images.Delete(ctx, storageKey); delErr != nil {
				// The blob is orphaned; nothing references it, so the only
				// cost is storage.
				slog.Warn("orphaned image after failed insert", "key", storageKey, "err", delErr)
			}
		}
		return domain.School{}, fmt.Errorf("save school: %w", err)
	}

	if a.listing != nil {
		if err := a.listing.Invalidate(ctx); err != nil {
			slog.Warn("invalidate listing cache", "err", err)
		}
	}
	return saved, nil
}

// ListSchools returns the full directory in insertion order, serving from
// the cache when it is enabled and fresh.
func (a *App) ListSchools(ctx context.Context) ([]domain.School, error) {
	if a.listing != nil {
		if schools, ok, err := a.listing.Get(ctx); err != nil {
			slog.Warn("read listing cache", "err", err)
		} else if ok {
			return schools, nil
		}
	}
	schools, err := a.store.ListSchools(ctx)
	if err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	if a.listing != nil {
		if err := a.listing.Set(ctx, schools); err != nil {
			slog.Warn("fill listing cache", "err", err)
		}
	}
	return schools, nil
}

// GetSchool retrieves one record by id.
func (a *App) GetSchool(ctx context.Context, id int64) (domain.School, error) {
	school, ok, err := a.store.GetSchool(ctx, id)
	if err != nil {
		return domain.School{}, err
	}
	if !ok {
		return domain.School{}, domain.ErrSchoolNotFound
	}
	return school, nil
}

func contentTypeFor(filename string) string {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return contentType
}

func buildStorageKey(filename string) string {
	name := sanitizeFilename(filepath.Base(filename))
	if name == "" {
		name = "school"
	}
	return path.Join("schools", uuid.NewString(), name)
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(name))
	lastUnderscore := false
	for _, r := range name {
		if r <= 0x7f {
			if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
				b.WriteRune(r)
				lastUnderscore = false
				continue
			}
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}
