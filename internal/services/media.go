package services

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"sitecms/internal/logger"
	"sitecms/internal/models"
	"sitecms/internal/pagination"
	"sitecms/internal/repository"
	"sitecms/internal/reqctx"
)

const (
	MaxUploadSize = 10 << 20
	jpegQuality   = 85
)

var mediaExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type MediaOptions struct {
	UploadDir     string
	PublicBaseURL string
	MaxWidth      int
}

type MediaService struct {
	repo     repository.MediaRepo
	activity *ActivityService
	opts     MediaOptions
}

func NewMediaService(repo repository.MediaRepo, activity *ActivityService, opts MediaOptions) *MediaService {
	if opts.UploadDir == "" {
		opts.UploadDir = "uploads"
	}
	return &MediaService{repo: repo, activity: activity, opts: opts}
}

// Upload проверяет и сохраняет картинку. Возвращённый URL вставляется
// в image-блок как есть.
func (s *MediaService) Upload(ctx context.Context, src io.Reader, originalName string) (*models.Media, error) {
	log := logger.WithCtx(ctx)
	data, err := io.ReadAll(io.LimitReader(src, MaxUploadSize+1))
	if err != nil {
		return nil, fmt.Errorf("чтение файла: %w", err)
	}
	if len(data) > MaxUploadSize {
		return nil, ErrTooLarge
	}

	mime := http.DetectContentType(data)
	ext, ok := mediaExt[mime]
	if !ok {
		log.Warn("Отклонён файл неподдерживаемого типа", zap.String("mime", mime), zap.String("name", originalName))
		return nil, ErrUnsupportedMedia
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedMedia
	}
	width, height := cfg.Width, cfg.Height

	// gif не трогаем: пересборка потеряет анимацию.
	if s.opts.MaxWidth > 0 && width > s.opts.MaxWidth && mime != "image/gif" {
		out, w, h, newMime, err := downscale(data, mime, s.opts.MaxWidth)
		if err != nil {
			log.Warn("Не удалось уменьшить изображение", zap.Error(err))
			return nil, ErrUnsupportedMedia
		}
		data, width, height, mime = out, w, h, newMime
		ext = mediaExt[mime]
	}

	if err := os.MkdirAll(s.opts.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("создание каталога загрузок: %w", err)
	}
	filename := uuid.NewString() + ext
	path := filepath.Join(s.opts.UploadDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("запись файла: %w", err)
	}

	m := &models.Media{
		Filename:     filename,
		OriginalName: filepath.Base(strings.TrimSpace(originalName)),
		URL:          s.opts.PublicBaseURL + "/uploads/" + filename,
		MimeType:     mime,
		Width:        width,
		Height:       height,
		Size:         int64(len(data)),
	}
	if uid, ok := reqctx.GetUserID(ctx); ok {
		m.UploadedBy = &uid
	}
	out, err := s.repo.Create(ctx, m)
	if err != nil {
		_ = os.Remove(path)
		log.Error("Ошибка сохранения медиа", zap.Error(err))
		return nil, err
	}
	log.Info("Изображение загружено", zap.Int64("media_id", out.ID), zap.String("file", filename),
		zap.Int("width", width), zap.Int("height", height))
	s.activity.Record(ctx, models.ActionUpload, models.EntityMedia, idStr(out.ID), map[string]any{"file": filename})
	return out, nil
}

// downscale уменьшает до maxWidth с сохранением пропорций.
// webp кодировать нечем, поэтому он пересохраняется в JPEG.
func downscale(data []byte, mime string, maxWidth int) ([]byte, int, int, string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, 0, 0, "", err
	}
	b := img.Bounds()
	w, h := maxWidth, b.Dy()*maxWidth/b.Dx()
	if h < 1 {
		h = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)

	var buf bytes.Buffer
	switch mime {
	case "image/png":
		err = png.Encode(&buf, dst)
	default:
		mime = "image/jpeg"
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, 0, 0, "", err
	}
	return buf.Bytes(), w, h, mime, nil
}

func (s *MediaService) List(ctx context.Context, p pagination.Params) (*pagination.Page[*models.Media], error) {
	p = pagination.Normalize(p.Page, p.Limit)
	items, total, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, err
	}
	return pagination.New(items, p, total), nil
}

func (s *MediaService) Delete(ctx context.Context, id int64) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.opts.UploadDir, m.Filename)); err != nil && !os.IsNotExist(err) {
		logger.WithCtx(ctx).Warn("Не удалось удалить файл", zap.String("file", m.Filename), zap.Error(err))
	}
	s.activity.Record(ctx, models.ActionDelete, models.EntityMedia, idStr(id), map[string]any{"file": m.Filename})
	return nil
}
