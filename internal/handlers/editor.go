package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"sitecms/internal/content"
	"sitecms/internal/services"
	"sitecms/internal/utils/helpers"
)

// EditorHandler — HTTP-обёртка над серверными сессиями редактора.
type EditorHandler struct {
	m *services.EditorManager
}

func NewEditorHandler(m *services.EditorManager) *EditorHandler {
	return &EditorHandler{m: m}
}

type InsertBlockRequest struct {
	Type    content.BlockType `json:"type"`
	AfterID string            `json:"afterId"`
}

type MoveBlockRequest struct {
	DraggedID string `json:"draggedId"`
	TargetID  string `json:"targetId"`
}

type InsertBlockResponse struct {
	Block content.Block         `json:"block"`
	State *services.EditorState `json:"state"`
}

// Open
// @Summary      Открыть сессию редактора
// @Description  Загружает пост и запускает автосохранение
// @Tags         admin-editor
// @Security     BearerAuth
// @Produce      json
// @Param        id path int true "ID поста"
// @Success      201 {object} helpers.Response{data=services.EditorState}
// @Failure      404 {object} helpers.Response
// @Router       /api/admin/posts/{id}/editor [post]
func (h *EditorHandler) Open(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	st, err := h.m.Open(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, st)
}

// State
// @Summary      Состояние сессии
// @Tags         admin-editor
// @Security     BearerAuth
// @Produce      json
// @Param        sid path string true "ID сессии"
// @Success      200 {object} helpers.Response{data=services.EditorState}
// @Router       /api/admin/editor/{sid} [get]
func (h *EditorHandler) State(w http.ResponseWriter, r *http.Request) {
	st, err := h.m.State(r.Context(), mux.Vars(r)["sid"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, st)
}

// Close
// @Summary      Закрыть сессию
// @Description  Досылает изменения, сохраняет и останавливает таймеры
// @Tags         admin-editor
// @Security     BearerAuth
// @Param        sid path string true "ID сессии"
// @Success      204
// @Router       /api/admin/editor/{sid} [delete]
func (h *EditorHandler) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.m.Close(r.Context(), mux.Vars(r)["sid"]); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Insert
// @Summary      Добавить блок
// @Description  Пустой или неизвестный afterId добавляет блок в конец
// @Tags         admin-editor
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        sid  path string             true "ID сессии"
// @Param        body body InsertBlockRequest true "Тип и позиция"
// @Success      201 {object} helpers.Response{data=InsertBlockResponse}
// @Router       /api/admin/editor/{sid}/blocks [post]
func (h *EditorHandler) Insert(w http.ResponseWriter, r *http.Request) {
	sid := mux.Vars(r)["sid"]
	var req InsertBlockRequest
	if !decode(w, r, &req) {
		return
	}
	b, err := h.m.Insert(r.Context(), sid, req.Type, req.AfterID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	st, err := h.m.State(r.Context(), sid)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, InsertBlockResponse{Block: *b, State: st})
}

// UpdateBlock
// @Summary      Изменить блок
// @Description  Передаются только меняющиеся поля; metadata заменяется целиком
// @Tags         admin-editor
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        sid  path string        true "ID сессии"
// @Param        bid  path string        true "ID блока"
// @Param        body body content.Patch true "Изменения"
// @Success      200 {object} helpers.Response{data=services.EditorState}
// @Failure      404 {object} helpers.Response
// @Router       /api/admin/editor/{sid}/blocks/{bid} [patch]
func (h *EditorHandler) UpdateBlock(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var p content.Patch
	if !decode(w, r, &p) {
		return
	}
	st, err := h.m.Update(r.Context(), vars["sid"], vars["bid"], p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, st)
}

// DeleteBlock
// @Summary      Удалить блок
// @Description  Последний блок не удаляется: ответ 409, в data неизменённое состояние
// @Tags         admin-editor
// @Security     BearerAuth
// @Produce      json
// @Param        sid path string true "ID сессии"
// @Param        bid path string true "ID блока"
// @Success      200 {object} helpers.Response{data=services.EditorState}
// @Failure      404 {object} helpers.Response
// @Failure      409 {object} helpers.Response{data=services.EditorState}
// @Router       /api/admin/editor/{sid}/blocks/{bid} [delete]
func (h *EditorHandler) DeleteBlock(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	st, err := h.m.Delete(r.Context(), vars["sid"], vars["bid"])
	if errors.Is(err, services.ErrLastBlock) {
		status, msg := statusOf(err)
		helpers.ErrorWithData(w, status, msg, st)
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, st)
}

// Move
// @Summary      Переместить блок
// @Description  Блок встаёт на исходную позицию целевого блока
// @Tags         admin-editor
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        sid  path string           true "ID сессии"
// @Param        body body MoveBlockRequest true "Что и куда"
// @Success      200 {object} helpers.Response{data=services.EditorState}
// @Failure      404 {object} helpers.Response
// @Router       /api/admin/editor/{sid}/move [post]
func (h *EditorHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req MoveBlockRequest
	if !decode(w, r, &req) {
		return
	}
	st, err := h.m.Move(r.Context(), mux.Vars(r)["sid"], req.DraggedID, req.TargetID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, st)
}

// Save
// @Summary      Сохранить сейчас
// @Tags         admin-editor
// @Security     BearerAuth
// @Produce      json
// @Param        sid path string true "ID сессии"
// @Success      200 {object} helpers.Response{data=services.EditorState}
// @Router       /api/admin/editor/{sid}/save [post]
func (h *EditorHandler) Save(w http.ResponseWriter, r *http.Request) {
	st, err := h.m.Save(r.Context(), mux.Vars(r)["sid"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, st)
}

// Preview
// @Summary      Предпросмотр документа сессии
// @Description  JSON-дерево; с ?format=html возвращается готовый HTML
// @Tags         admin-editor
// @Security     BearerAuth
// @Produce      json,html
// @Param        sid    path  string true  "ID сессии"
// @Param        format query string false "html"
// @Success      200 {object} helpers.Response{data=content.Preview}
// @Router       /api/admin/editor/{sid}/preview [get]
func (h *EditorHandler) Preview(w http.ResponseWriter, r *http.Request) {
	p, err := h.m.Preview(r.Context(), mux.Vars(r)["sid"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	if r.URL.Query().Get("format") == "html" {
		writePreviewHTML(w, r, p)
		return
	}
	helpers.JSON(w, http.StatusOK, p)
}
