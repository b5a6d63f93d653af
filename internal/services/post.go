package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"sitecms/internal/cache"
	"sitecms/internal/content"
	"sitecms/internal/logger"
	"sitecms/internal/metrics"
	"sitecms/internal/models"
	"sitecms/internal/pagination"
	"sitecms/internal/repository"
	"sitecms/internal/reqctx"
)

const ExcerptLength = 160

type PostOptions struct {
	SupportedLocales []string
	DefaultLocale    string
	CacheTTL         time.Duration
}

type PostService struct {
	repo     repository.PostRepo
	cats     repository.CategoryRepo
	cache    cache.Cache
	activity *ActivityService
	opts     PostOptions

	onReplaced func(ctx context.Context, postID int64, blocks []content.Block)
}

func NewPostService(repo repository.PostRepo, cats repository.CategoryRepo, c cache.Cache, activity *ActivityService, opts PostOptions) *PostService {
	if c == nil {
		c = cache.NewMemory()
	}
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = "en"
	}
	return &PostService{repo: repo, cats: cats, cache: c, activity: activity, opts: opts}
}

// OnContentReplaced регистрирует обработчик полного обновления поста:
// открытые сессии редактора должны принять новую версию, а не перезаписать её.
func (s *PostService) OnContentReplaced(fn func(ctx context.Context, postID int64, blocks []content.Block)) {
	s.onReplaced = fn
}

// Create всегда создаёт черновик, даже если во входе указан другой статус.
func (s *PostService) Create(ctx context.Context, in *models.PostInput) (*models.BlogPost, error) {
	log := logger.WithCtx(ctx)
	if err := Validate(in); err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	p := s.fromInput(ctx, in)
	p.Status = models.StatusDraft
	if uid, ok := reqctx.GetUserID(ctx); ok {
		p.AuthorID = &uid
	}
	if p.Author == "" {
		p.Author = reqctx.GetUsername(ctx)
	}

	slug, err := s.uniqueSlug(ctx, slugBase(in.Slug, in.Title), 0)
	if err != nil {
		log.Error("Ошибка подбора slug", zap.Error(err))
		return nil, err
	}
	p.Slug = slug

	out, err := s.repo.Create(ctx, p)
	if err != nil {
		log.Error("Ошибка создания поста", zap.String("slug", slug), zap.Error(err))
		return nil, err
	}
	log.Info("Пост создан", zap.Int64("post_id", out.ID), zap.String("slug", out.Slug))
	s.activity.Record(ctx, models.ActionCreate, models.EntityPost, idStr(out.ID), map[string]any{"title": out.Title})
	return out, nil
}

func (s *PostService) Update(ctx context.Context, id int64, in *models.PostInput) (*models.BlogPost, error) {
	log := logger.WithCtx(ctx)
	if err := Validate(in); err != nil {
		return nil, err
	}
	prev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}

	p := s.fromInput(ctx, in)
	p.ID = id
	p.AuthorID = prev.AuthorID
	if p.Author == "" {
		p.Author = prev.Author
	}
	p.Status = prev.Status
	if in.Status != "" {
		p.Status = in.Status
	}

	p.Slug = prev.Slug
	if in.Slug != "" {
		if want := content.Slugify(in.Slug); want != "" && want != prev.Slug {
			if p.Slug, err = s.uniqueSlug(ctx, want, id); err != nil {
				return nil, err
			}
		}
	}

	out, err := s.repo.Update(ctx, p)
	if err != nil {
		log.Error("Ошибка обновления поста", zap.Int64("post_id", id), zap.Error(err))
		return nil, err
	}
	s.Invalidate(ctx, id)
	if s.onReplaced != nil {
		s.onReplaced(ctx, id, out.Content)
	}
	log.Info("Пост обновлён", zap.Int64("post_id", id))

	s.activity.Record(ctx, models.ActionUpdate, models.EntityPost, idStr(id), map[string]any{"title": out.Title})
	if prev.Status != models.StatusPublished && out.Status == models.StatusPublished {
		s.activity.Record(ctx, models.ActionPublish, models.EntityPost, idStr(id), nil)
	}
	return out, nil
}

func (s *PostService) SetStatus(ctx context.Context, id int64, status models.PostStatus) (*models.BlogPost, error) {
	if !status.Valid() {
		return nil, invalid("неизвестный статус " + string(status))
	}
	out, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}
	s.Invalidate(ctx, id)
	logger.WithCtx(ctx).Info("Статус поста изменён", zap.Int64("post_id", id), zap.String("status", string(status)))

	action := models.ActionStatus
	if status == models.StatusPublished {
		action = models.ActionPublish
	}
	s.activity.Record(ctx, action, models.EntityPost, idStr(id), map[string]any{"status": string(status)})
	return out, nil
}

func (s *PostService) Delete(ctx context.Context, id int64) error {
	p, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.Invalidate(ctx, id)
	logger.WithCtx(ctx).Info("Пост удалён", zap.Int64("post_id", id))
	s.activity.Record(ctx, models.ActionDelete, models.EntityPost, idStr(id), map[string]any{"title": p.Title})
	return nil
}

func (s *PostService) Get(ctx context.Context, id int64) (*models.BlogPost, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PostService) List(ctx context.Context, f models.PostFilter) (*pagination.Page[models.PostSummary], error) {
	p := pagination.Normalize(f.Page, f.Limit)
	f.Page, f.Limit = p.Page, p.Limit
	posts, total, err := s.repo.List(ctx, f)
	if err != nil {
		logger.WithCtx(ctx).Error("Ошибка получения списка постов", zap.Error(err))
		return nil, err
	}
	out := make([]models.PostSummary, 0, len(posts))
	for _, post := range posts {
		out = append(out, post.Summary())
	}
	return pagination.New(out, p, total), nil
}

// PublicList отдаёт только опубликованные посты с учётом локали.
func (s *PostService) PublicList(ctx context.Context, f models.PostFilter, locale string) (*pagination.Page[models.PostSummary], error) {
	f.Status = models.StatusPublished
	p := pagination.Normalize(f.Page, f.Limit)
	f.Page, f.Limit = p.Page, p.Limit
	posts, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	locale = s.Locale(locale)
	out := make([]models.PostSummary, 0, len(posts))
	for _, post := range posts {
		out = append(out, s.localize(post, locale).Summary())
	}
	return pagination.New(out, p, total), nil
}

// PublicGet возвращает опубликованный пост с HTML в запрошенной локали.
// Черновики и архив для сайта не существуют.
func (s *PostService) PublicGet(ctx context.Context, slug, locale string) (*models.RenderedPost, error) {
	post, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if post.Status != models.StatusPublished {
		return nil, ErrNotFound
	}
	locale = s.Locale(locale)
	view := s.localize(post, locale)

	out := &models.RenderedPost{
		Post:        view,
		Locale:      locale,
		HTML:        s.renderCached(ctx, view, locale),
		ReadingTime: view.ReadingTime,
	}
	if err := s.repo.IncrementViews(context.WithoutCancel(ctx), post.ID); err != nil {
		logger.WithCtx(ctx).Warn("Не удалось увеличить счётчик просмотров", zap.Int64("post_id", post.ID), zap.Error(err))
	}
	return out, nil
}

// Locale приводит запрошенную локаль к поддерживаемой; иначе — локаль по умолчанию.
func (s *PostService) Locale(requested string) string {
	requested = strings.ToLower(strings.TrimSpace(requested))
	if i := strings.IndexAny(requested, "-_"); i > 0 {
		requested = requested[:i]
	}
	for _, l := range s.opts.SupportedLocales {
		if l == requested {
			return l
		}
	}
	return s.opts.DefaultLocale
}

func (s *PostService) renderCached(ctx context.Context, p *models.BlogPost, locale string) string {
	key := cacheKey(p.ID) + locale
	if html, err := s.cache.Get(ctx, key); err == nil {
		metrics.RenderCache.WithLabelValues("hit").Inc()
		return html
	} else if !errors.Is(err, cache.ErrMiss) {
		logger.WithCtx(ctx).Warn("Ошибка чтения кэша рендера", zap.Error(err))
	}
	metrics.RenderCache.WithLabelValues("miss").Inc()

	html := Render(p.Content)
	if err := s.cache.Set(ctx, key, html, s.opts.CacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("Ошибка записи в кэш рендера", zap.Error(err))
	}
	return html
}

func (s *PostService) Invalidate(ctx context.Context, id int64) {
	if err := s.cache.DeletePrefix(ctx, cacheKey(id)); err != nil {
		logger.WithCtx(ctx).Warn("Не удалось сбросить кэш поста", zap.Int64("post_id", id), zap.Error(err))
	}
}

// Render — экранированный HTML для сайта; попутно считает блоки по типам.
func Render(blocks []content.Block) string {
	for _, b := range blocks {
		if content.Renderable(b) {
			metrics.RenderedBlocks.WithLabelValues(string(b.Type)).Inc()
		}
	}
	return content.RenderSafeHTML(blocks)
}

// localize накладывает перевод поверх базовой версии поле за полем:
// пустые поля перевода берутся из базы.
func (s *PostService) localize(p *models.BlogPost, locale string) *models.BlogPost {
	if locale == s.opts.DefaultLocale {
		return p
	}
	tr, ok := p.Translations[locale]
	if !ok {
		return p
	}
	out := *p
	if tr.Title != "" {
		out.Title = tr.Title
	}
	if tr.Excerpt != "" {
		out.Excerpt = tr.Excerpt
	}
	if tr.HeroImage != "" {
		out.HeroImage = tr.HeroImage
	}
	if len(tr.Content) > 0 {
		out.Content = tr.Content
		out.ReadingTime = content.ReadingTime(tr.Content)
	}
	if tr.SEO != nil {
		out.SEO = *tr.SEO
	}
	return &out
}

func (s *PostService) fromInput(ctx context.Context, in *models.PostInput) *models.BlogPost {
	blocks := content.SanitizeBlocks(in.Content)
	excerpt := content.SanitizeText(strings.TrimSpace(in.Excerpt))
	if excerpt == "" {
		excerpt = content.Excerpt(blocks, ExcerptLength)
	}
	translations := content.SanitizeTranslations(in.Translations, s.opts.SupportedLocales)
	if len(in.Translations) != len(translations) {
		logger.WithCtx(ctx).Debug("Часть переводов отброшена",
			zap.Int("received", len(in.Translations)), zap.Int("kept", len(translations)))
	}
	return &models.BlogPost{
		Title:        content.SanitizeText(strings.TrimSpace(in.Title)),
		Content:      blocks,
		Excerpt:      excerpt,
		HeroImage:    content.SafeURL(in.HeroImage),
		Author:       content.SanitizeText(strings.TrimSpace(in.Author)),
		Featured:     in.Featured,
		CategoryID:   in.CategoryID,
		Tags:         normalizeTags(in.Tags),
		SEO:          content.SanitizeSEO(in.SEO),
		Translations: translations,
		ReadingTime:  content.ReadingTime(blocks),
	}
}

func (s *PostService) checkCategory(ctx context.Context, id *int64) error {
	if id == nil || s.cats == nil {
		return nil
	}
	if _, err := s.cats.GetByID(ctx, *id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return invalid("категория не найдена")
		}
		return err
	}
	return nil
}

// uniqueSlug добавляет суффикс -2, -3… пока slug занят.
func (s *PostService) uniqueSlug(ctx context.Context, base string, excludeID int64) (string, error) {
	slug := base
	for i := 2; ; i++ {
		taken, err := s.repo.SlugExists(ctx, slug, excludeID)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func slugBase(slug, title string) string {
	if s := content.Slugify(slug); s != "" {
		return s
	}
	if s := content.Slugify(title); s != "" {
		return s
	}
	return "post"
}

// normalizeTags убирает пустые и повторяющиеся (без учёта регистра) теги.
func normalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, t := range in {
		t = strings.Join(strings.Fields(content.SanitizeText(t)), " ")
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}

func cacheKey(id int64) string { return "post:" + strconv.FormatInt(id, 10) + ":" }

func idStr(id int64) string { return strconv.FormatInt(id, 10) }
