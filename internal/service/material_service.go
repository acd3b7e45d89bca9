package service

import (
	"context"
	"educonnect_backend/internal/model"
	"educonnect_backend/internal/repository"
	"educonnect_backend/internal/util"
	"educonnect_backend/pkg/logger"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

type MaterialService struct {
	Repo    *repository.MaterialRepository
	Storage *StorageService
}

func NewMaterialService(repo *repository.MaterialRepository, storage *StorageService) *MaterialService {
	return &MaterialService{Repo: repo, Storage: storage}
}

type MaterialUpload struct {
	CourseID    uint
	Title       string
	Description string
}

// Upload stores the file through the configured provider and records it. Video
// files additionally get probed for duration and a generated thumbnail; probe
// failures are logged but never fail the upload.
func (s *MaterialService) Upload(ctx context.Context, uploaderID uint, req MaterialUpload, header *multipart.FileHeader) (*model.StudyMaterial, error) {
	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	id := model.GenerateUUID()
	ext := filepath.Ext(header.Filename)
	objectName := fmt.Sprintf("materials/%s%s", id, ext)

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = util.MimeOctetStream
	}

	fileURL, err := s.Storage.Upload(ctx, objectName, src, header.Size, contentType)
	if err != nil {
		return nil, err
	}

	material := &model.StudyMaterial{
		UploaderID:  uploaderID,
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		FileName:    header.Filename,
		FileURL:     fileURL,
		ContentType: contentType,
		Size:        header.Size,
	}
	material.ID = id

	if util.IsVideoFile(header.Filename) {
		s.enrichVideo(ctx, material, header, objectName)
	}

	if err := s.Repo.Create(material); err != nil {
		return nil, err
	}
	return material, nil
}

// enrichVideo spools the upload to a temp file so ffprobe can read it, then
// fills in duration and a thumbnail.
func (s *MaterialService) enrichVideo(ctx context.Context, material *model.StudyMaterial, header *multipart.FileHeader, objectName string) {
	src, err := header.Open()
	if err != nil {
		return
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", "educonnect-video-*"+filepath.Ext(header.Filename))
	if err != nil {
		logger.Log.Warn("create temp video file failed", zap.Error(err))
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := tmp.ReadFrom(src); err != nil {
		logger.Log.Warn("spool video failed", zap.Error(err))
		return
	}

	info, err := util.ProbeVideo(tmp.Name())
	if err != nil {
		logger.Log.Warn("probe video failed", zap.String("file", header.Filename), zap.Error(err))
		return
	}
	material.Duration = info.Duration

	thumbPath := tmp.Name() + ".jpg"
	if err := util.GenerateThumbnail(tmp.Name(), thumbPath, "00:00:01"); err != nil {
		logger.Log.Warn("generate thumbnail failed", zap.String("file", header.Filename), zap.Error(err))
		return
	}
	defer os.Remove(thumbPath)

	thumbObject := strings.TrimSuffix(objectName, filepath.Ext(objectName)) + "_thumb.jpg"
	thumbURL, err := s.Storage.UploadFile(ctx, thumbObject, thumbPath, util.MimeJPEG)
	if err != nil {
		logger.Log.Warn("upload thumbnail failed", zap.Error(err))
		return
	}
	material.ThumbnailURL = thumbURL
}

func (s *MaterialService) ListByCourse(courseID uint, page, limit int) ([]model.StudyMaterial, int64, error) {
	return s.Repo.ListByCourse(courseID, page, limit)
}

func (s *MaterialService) Get(id string) (*model.StudyMaterial, error) {
	material, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ErrMaterialNotFound
	}
	return material, nil
}

// Download returns the material and bumps its download counter.
func (s *MaterialService) Download(id string) (*model.StudyMaterial, error) {
	material, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, util.ErrMaterialNotFound
	}
	if err := s.Repo.IncrementDownloads(id); err != nil {
		logger.Log.Warn("increment downloads failed", zap.String("material", id), zap.Error(err))
	}
	material.Downloads++
	return material, nil
}

func (s *MaterialService) Delete(ctx context.Context, id string, requesterID uint, isAdmin bool) error {
	material, err := s.Repo.FindByID(id)
	if err != nil {
		return util.ErrMaterialNotFound
	}
	if material.UploaderID != requesterID && !isAdmin {
		return util.ErrPermissionDenied
	}

	objectName := strings.TrimPrefix(material.FileURL, "/uploads/")
	if err := s.Storage.Delete(ctx, objectName); err != nil {
		logger.Log.Warn("delete stored file failed", zap.String("material", id), zap.Error(err))
	}
	return s.Repo.Delete(id)
}
