package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"sitecms/internal/content"
	"sitecms/internal/logger"
	"sitecms/internal/metrics"
	"sitecms/internal/models"
	"sitecms/internal/repository"
	"sitecms/internal/reqctx"
)

type EditorOptions struct {
	AutoSaveInterval time.Duration
	Debounce         time.Duration
	IdleTTL          time.Duration
}

// EditorSession — серверная копия редактируемого документа одного поста.
// Редактор уведомляет сессию (с debounce), сессия хранит документ,
// а автосохранение пишет его в базу.
type EditorSession struct {
	ID       string
	PostID   int64
	UserID   int64
	OpenedAt time.Time

	editor *content.Editor
	saver  *content.AutoSaver
	cancel context.CancelFunc

	mu       sync.Mutex
	doc      []content.Block
	changes  int
	lastSeen time.Time
	lastErr  error
}

// EditorState — то, что видит клиент.
type EditorState struct {
	SessionID string          `json:"sessionId"`
	PostID    int64           `json:"postId"`
	Blocks    []content.Block `json:"blocks"`
	Changes   int             `json:"changes"`
	Dirty     bool            `json:"dirty"`
	SavedAt   *time.Time      `json:"savedAt,omitempty"`
	LastError string          `json:"lastError,omitempty"`
	OpenedAt  time.Time       `json:"openedAt"`
}

func (s *EditorSession) document() []content.Block {
	s.mu.Lock()
	defer s.mu.Unlock()
	return content.Clone(s.doc)
}

func (s *EditorSession) onChange(blocks []content.Block) {
	s.mu.Lock()
	s.doc = blocks
	s.changes++
	s.mu.Unlock()
}

func (s *EditorSession) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *EditorSession) setErr(err error) {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
}

func (s *EditorSession) state() *EditorState {
	st := &EditorState{
		SessionID: s.ID,
		PostID:    s.PostID,
		Blocks:    s.editor.Blocks(),
		Dirty:     s.saver.Dirty(),
		OpenedAt:  s.OpenedAt,
	}
	if t := s.saver.SavedAt(); !t.IsZero() {
		st.SavedAt = &t
	}
	s.mu.Lock()
	st.Changes = s.changes
	if s.lastErr != nil {
		st.LastError = s.lastErr.Error()
	}
	s.mu.Unlock()
	return st
}

type EditorManager struct {
	posts    repository.PostRepo
	onSaved  func(ctx context.Context, postID int64)
	activity *ActivityService
	opts     EditorOptions
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*EditorSession
}

// NewEditorManager: onSaved вызывается после каждого успешного сохранения
// (сброс кэша рендера поста).
func NewEditorManager(posts repository.PostRepo, activity *ActivityService, onSaved func(ctx context.Context, postID int64), opts EditorOptions) *EditorManager {
	if opts.AutoSaveInterval <= 0 {
		opts.AutoSaveInterval = content.DefaultAutoSaveInterval
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = time.Hour
	}
	return &EditorManager{
		posts:    posts,
		onSaved:  onSaved,
		activity: activity,
		opts:     opts,
		now:      time.Now,
		sessions: make(map[string]*EditorSession),
	}
}

// Open загружает пост и запускает для него сессию с автосохранением.
func (m *EditorManager) Open(ctx context.Context, postID int64) (*EditorState, error) {
	log := logger.WithCtx(ctx)
	post, err := m.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	uid, _ := reqctx.GetUserID(ctx)

	sess := &EditorSession{
		ID:       uuid.NewString(),
		PostID:   postID,
		UserID:   uid,
		OpenedAt: m.now(),
		lastSeen: m.now(),
	}
	sess.editor = content.NewEditor(post.Content,
		content.WithDebounce(m.opts.Debounce),
		content.WithOnChange(sess.onChange),
	)
	sess.doc = sess.editor.Blocks()
	sess.saver = content.NewAutoSaver(m.opts.AutoSaveInterval, sess.document, m.saveFunc(postID))
	if err := sess.saver.Prime(sess.doc); err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(context.Background())
	sess.cancel = cancel
	go sess.saver.Run(runCtx, func(err error) {
		sess.setErr(err)
		logger.Log.Warn("Автосохранение не удалось, изменения остаются в сессии",
			zap.String("session_id", sess.ID), zap.Int64("post_id", postID), zap.Error(err))
	})

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	n := len(m.sessions)
	m.mu.Unlock()
	metrics.EditorSessions.Set(float64(n))

	log.Info("Открыта сессия редактора", zap.String("session_id", sess.ID), zap.Int64("post_id", postID))
	return sess.state(), nil
}

func (m *EditorManager) saveFunc(postID int64) content.SaveFunc {
	return func(ctx context.Context, blocks []content.Block) error {
		clean := content.SanitizeBlocks(blocks)
		if err := m.posts.UpdateContent(ctx, postID, clean, content.ReadingTime(clean)); err != nil {
			metrics.AutoSaves.WithLabelValues("error").Inc()
			return err
		}
		metrics.AutoSaves.WithLabelValues("ok").Inc()
		if m.onSaved != nil {
			m.onSaved(ctx, postID)
		}
		return nil
	}
}

// session ищет сессию и проверяет, что она принадлежит текущему пользователю
// (администратор видит все).
func (m *EditorManager) session(ctx context.Context, sid string) (*EditorSession, error) {
	m.mu.Lock()
	sess, ok := m.sessions[sid]
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	uid, _ := reqctx.GetUserID(ctx)
	role, _ := reqctx.GetRole(ctx)
	if sess.UserID != 0 && uid != sess.UserID && role != models.RoleAdmin {
		return nil, ErrForbidden
	}
	sess.touch(m.now())
	return sess, nil
}

func (m *EditorManager) State(ctx context.Context, sid string) (*EditorState, error) {
	sess, err := m.session(ctx, sid)
	if err != nil {
		return nil, err
	}
	return sess.state(), nil
}

func (m *EditorManager) Insert(ctx context.Context, sid string, t content.BlockType, afterID string) (*content.Block, error) {
	if !t.Valid() {
		return nil, invalid("неизвестный тип блока " + string(t))
	}
	sess, err := m.session(ctx, sid)
	if err != nil {
		return nil, err
	}
	b := sess.editor.Insert(t, afterID)
	return &b, nil
}

// Update: неизвестный блок — ErrNotFound (для HTTP), сам редактор это no-op.
func (m *EditorManager) Update(ctx context.Context, sid, blockID string, p content.Patch) (*EditorState, error) {
	if p.Type != nil && !p.Type.Valid() {
		return nil, invalid("неизвестный тип блока " + string(*p.Type))
	}
	sess, err := m.session(ctx, sid)
	if err != nil {
		return nil, err
	}
	if !sess.editor.Update(blockID, p) {
		return nil, ErrNotFound
	}
	return sess.state(), nil
}

// Delete: неизвестный блок — ErrNotFound, последний блок — ErrLastBlock
// вместе с неизменённым состоянием.
func (m *EditorManager) Delete(ctx context.Context, sid, blockID string) (*EditorState, error) {
	sess, err := m.session(ctx, sid)
	if err != nil {
		return nil, err
	}
	if content.IndexOf(sess.editor.Blocks(), blockID) < 0 {
		return nil, ErrNotFound
	}
	if !sess.editor.Delete(blockID) {
		return sess.state(), ErrLastBlock
	}
	return sess.state(), nil
}

func (m *EditorManager) Move(ctx context.Context, sid, draggedID, targetID string) (*EditorState, error) {
	sess, err := m.session(ctx, sid)
	if err != nil {
		return nil, err
	}
	if !sess.editor.Move(draggedID, targetID) {
		return nil, ErrNotFound
	}
	return sess.state(), nil
}

// Save — ручное сохранение: сначала досылаем отложенное изменение.
func (m *EditorManager) Save(ctx context.Context, sid string) (*EditorState, error) {
	sess, err := m.session(ctx, sid)
	if err != nil {
		return nil, err
	}
	sess.editor.Flush()
	if err := sess.saver.SaveNow(ctx); err != nil {
		sess.setErr(err)
		logger.WithCtx(ctx).Error("Ошибка сохранения документа", zap.String("session_id", sid), zap.Error(err))
		return nil, err
	}
	sess.setErr(nil)
	m.activity.Record(ctx, models.ActionUpdate, models.EntityPost, idStr(sess.PostID), map[string]any{"source": "editor"})
	return sess.state(), nil
}

func (m *EditorManager) Preview(ctx context.Context, sid string) (content.Preview, error) {
	sess, err := m.session(ctx, sid)
	if err != nil {
		return content.Preview{}, err
	}
	return content.BuildPreview(sess.editor.Blocks()), nil
}

// Close досылает изменения, делает последнее сохранение и останавливает таймеры.
func (m *EditorManager) Close(ctx context.Context, sid string) error {
	sess, err := m.session(ctx, sid)
	if err != nil {
		return err
	}
	m.close(ctx, sess)
	return nil
}

func (m *EditorManager) close(ctx context.Context, sess *EditorSession) {
	m.mu.Lock()
	if _, ok := m.sessions[sess.ID]; !ok {
		m.mu.Unlock()
		return
	}
	delete(m.sessions, sess.ID)
	n := len(m.sessions)
	m.mu.Unlock()
	metrics.EditorSessions.Set(float64(n))

	sess.editor.Flush()
	sess.cancel()
	sess.editor.Close()
	if _, err := sess.saver.Tick(context.WithoutCancel(ctx)); err != nil {
		logger.Log.Warn("Финальное сохранение сессии не удалось",
			zap.String("session_id", sess.ID), zap.Int64("post_id", sess.PostID), zap.Error(err))
	}
	logger.Log.Info("Сессия редактора закрыта", zap.String("session_id", sess.ID), zap.Int64("post_id", sess.PostID))
}

// Refresh заменяет документ открытых сессий поста сохранённой версией
// (полное обновление поста через API). Отложенные правки сессии отбрасываются,
// автосохранение считает новую версию уже записанной.
func (m *EditorManager) Refresh(ctx context.Context, postID int64, blocks []content.Block) int {
	var hit []*EditorSession
	m.mu.Lock()
	for _, s := range m.sessions {
		if s.PostID == postID {
			hit = append(hit, s)
		}
	}
	m.mu.Unlock()

	for _, s := range hit {
		// дождаться уведомления в полёте, иначе оно вернёт старый документ
		s.editor.Flush()
		s.editor.SetBlocks(blocks)
		cur := s.editor.Blocks()
		s.mu.Lock()
		s.doc = cur
		s.changes++
		s.mu.Unlock()
		if err := s.saver.Prime(cur); err != nil {
			s.setErr(err)
		}
	}
	if len(hit) > 0 {
		logger.WithCtx(ctx).Info("Сессии редактора обновлены версией поста",
			zap.Int64("post_id", postID), zap.Int("count", len(hit)))
	}
	return len(hit)
}

// Sweep закрывает сессии без активности дольше IdleTTL.
func (m *EditorManager) Sweep(ctx context.Context) int {
	cutoff := m.now().Add(-m.opts.IdleTTL)
	var idle []*EditorSession
	m.mu.Lock()
	for _, s := range m.sessions {
		s.mu.Lock()
		if s.lastSeen.Before(cutoff) {
			idle = append(idle, s)
		}
		s.mu.Unlock()
	}
	m.mu.Unlock()

	for _, s := range idle {
		m.close(ctx, s)
	}
	if len(idle) > 0 {
		logger.Log.Info("Закрыты неактивные сессии редактора", zap.Int("count", len(idle)))
	}
	return len(idle)
}

// CloseAll вызывается при остановке сервера.
func (m *EditorManager) CloseAll(ctx context.Context) {
	m.mu.Lock()
	all := make([]*EditorSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		all = append(all, s)
	}
	m.mu.Unlock()
	for _, s := range all {
		m.close(ctx, s)
	}
}

func (m *EditorManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
