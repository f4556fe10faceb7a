package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/material-inventory-backend/internal/data/repos"
	"github.com/yungbote/material-inventory-backend/internal/domain"
	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
	"github.com/yungbote/material-inventory-backend/internal/platform/apierr"
	"github.com/yungbote/material-inventory-backend/internal/storage"
)

const maxImageSizeBytes = 5 << 20

// Both the extension and the declared content type must be on the
// allow-list; either alone is spoofable.
var (
	allowedImageExts = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
	}
	allowedImageTypes = map[string]bool{
		"image/jpeg": true,
		"image/jpg":  true,
		"image/png":  true,
	}
)

type ImageService interface {
	Upload(ctx context.Context, materialID uuid.UUID, files []*multipart.FileHeader) (*MaterialView, error)
	Delete(ctx context.Context, materialID, imageID uuid.UUID) error
	SetPrimary(ctx context.Context, materialID, imageID uuid.UUID) (*MaterialView, error)
}

type imageService struct {
	db           *gorm.DB
	log          *logger.Logger
	materialRepo repos.MaterialRepo
	dropdownRepo repos.DropdownRepo
	imageStore   storage.ImageStore
}

func NewImageService(db *gorm.DB, baseLog *logger.Logger, materialRepo repos.MaterialRepo, dropdownRepo repos.DropdownRepo, imageStore storage.ImageStore) ImageService {
	return &imageService{
		db:           db,
		log:          baseLog.With("service", "ImageService"),
		materialRepo: materialRepo,
		dropdownRepo: dropdownRepo,
		imageStore:   imageStore,
	}
}

// Upload validates the batch, writes every file to storage, and then commits
// the record update in one transaction. Files are written first so a
// committed record never references a file that was not stored; a failed
// commit cleans the files back up best-effort.
func (is *imageService) Upload(ctx context.Context, materialID uuid.UUID, files []*multipart.FileHeader) (*MaterialView, error) {
	if len(files) == 0 {
		return nil, apierr.InvalidArgument("No images provided")
	}
	if len(files) > domain.MaxImagesPerMaterial {
		return nil, apierr.InvalidArgument("Maximum %d images allowed per material", domain.MaxImagesPerMaterial)
	}

	material, err := is.materialRepo.GetByID(ctx, nil, materialID)
	if err != nil {
		return nil, fmt.Errorf("load material: %w", err)
	}
	if material == nil {
		return nil, apierr.NotFound("Material not found")
	}
	if len(material.ImageList())+len(files) > domain.MaxImagesPerMaterial {
		return nil, apierr.InvalidArgument("Maximum %d images allowed per material", domain.MaxImagesPerMaterial)
	}

	for _, fh := range files {
		if err := validateImageFile(fh); err != nil {
			return nil, err
		}
	}

	storedURLs, err := is.storeFiles(ctx, files)
	if err != nil {
		is.cleanupFiles(ctx, storedURLs)
		return nil, err
	}

	var updated *domain.Material
	txErr := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fresh, err := is.materialRepo.GetByID(ctx, tx, materialID)
		if err != nil {
			return fmt.Errorf("load material: %w", err)
		}
		if fresh == nil {
			return apierr.NotFound("Material not found")
		}
		images := fresh.ImageList()
		if len(images)+len(storedURLs) > domain.MaxImagesPerMaterial {
			return apierr.InvalidArgument("Maximum %d images allowed per material", domain.MaxImagesPerMaterial)
		}
		hadNone := len(images) == 0
		for i, url := range storedURLs {
			images = append(images, domain.MaterialImage{
				ID:        uuid.New(),
				URL:       url,
				IsPrimary: hadNone && i == 0,
			})
		}
		fresh.SetImageList(images)
		if err := is.materialRepo.Save(ctx, tx, fresh); err != nil {
			return fmt.Errorf("save material: %w", err)
		}
		updated = fresh
		return nil
	})
	if txErr != nil {
		is.cleanupFiles(ctx, storedURLs)
		return nil, txErr
	}

	is.log.Info("Images uploaded", "material_id", materialID, "count", len(storedURLs))
	return is.resolveOne(ctx, updated)
}

// Delete removes one image entry, then best-effort removes its file. No
// sibling is promoted to primary; that takes an explicit SetPrimary.
func (is *imageService) Delete(ctx context.Context, materialID, imageID uuid.UUID) error {
	var removedURL string
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		material, err := is.materialRepo.GetByID(ctx, tx, materialID)
		if err != nil {
			return fmt.Errorf("load material: %w", err)
		}
		if material == nil {
			return apierr.NotFound("Material not found")
		}

		images := material.ImageList()
		index := -1
		for i, img := range images {
			if img.ID == imageID {
				index = i
				break
			}
		}
		if index < 0 {
			return apierr.NotFound("Image not found")
		}
		removedURL = images[index].URL
		material.SetImageList(append(images[:index], images[index+1:]...))
		if err := is.materialRepo.Save(ctx, tx, material); err != nil {
			return fmt.Errorf("save material: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := is.imageStore.Delete(ctx, removedURL); err != nil {
		is.log.Warn("Failed to delete image file (orphaned, flag for cleanup)", "url", removedURL, "error", err)
	}
	is.log.Info("Image deleted", "material_id", materialID, "image_id", imageID)
	return nil
}

// SetPrimary clears every sibling then marks the requested image, all within
// one row update: no reader observes two primaries or a half-cleared list.
func (is *imageService) SetPrimary(ctx context.Context, materialID, imageID uuid.UUID) (*MaterialView, error) {
	var updated *domain.Material
	err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		material, err := is.materialRepo.GetByID(ctx, tx, materialID)
		if err != nil {
			return fmt.Errorf("load material: %w", err)
		}
		if material == nil {
			return apierr.NotFound("Material not found")
		}

		images := material.ImageList()
		found := false
		for i := range images {
			images[i].IsPrimary = false
			if images[i].ID == imageID {
				images[i].IsPrimary = true
				found = true
			}
		}
		if !found {
			return apierr.NotFound("Image not found")
		}
		material.SetImageList(images)
		if err := is.materialRepo.Save(ctx, tx, material); err != nil {
			return fmt.Errorf("save material: %w", err)
		}
		updated = material
		return nil
	})
	if err != nil {
		return nil, err
	}
	return is.resolveOne(ctx, updated)
}

func (is *imageService) storeFiles(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return urls, fmt.Errorf("open uploaded file %s: %w", fh.Filename, err)
		}
		key := fmt.Sprintf("materials/%s%s", uuid.NewString(), strings.ToLower(filepath.Ext(fh.Filename)))
		url, err := is.imageStore.Save(ctx, key, fh.Header.Get("Content-Type"), src, fh.Size)
		src.Close()
		if err != nil {
			return urls, fmt.Errorf("store uploaded file %s: %w", fh.Filename, err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (is *imageService) cleanupFiles(ctx context.Context, urls []string) {
	for _, url := range urls {
		if err := is.imageStore.Delete(ctx, url); err != nil {
			is.log.Warn("Failed to clean up stored file after aborted upload", "url", url, "error", err)
		}
	}
}

func (is *imageService) resolveOne(ctx context.Context, material *domain.Material) (*MaterialView, error) {
	views, err := resolveMaterialViews(ctx, is.dropdownRepo, []*domain.Material{material})
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

func validateImageFile(fh *multipart.FileHeader) error {
	if fh.Size > maxImageSizeBytes {
		return apierr.InvalidArgument("Image %s exceeds the 5MB size limit", fh.Filename)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	contentType := strings.ToLower(strings.TrimSpace(fh.Header.Get("Content-Type")))
	if !allowedImageExts[ext] || !allowedImageTypes[contentType] {
		return apierr.InvalidArgument("Only .jpg, .jpeg, and .png files are allowed")
	}
	return nil
}
