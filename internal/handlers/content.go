package handlers

import (
	"net/http"

	"sitecms/internal/content"
	"sitecms/internal/services"
	"sitecms/internal/utils/helpers"
)

// ContentHandler — операции над документом без сохранения:
// рендер, предпросмотр и список типов блоков для панели редактора.
type ContentHandler struct{}

func NewContentHandler() *ContentHandler { return &ContentHandler{} }

type BlocksRequest struct {
	Blocks []content.Block `json:"blocks"`
}

type RenderResponse struct {
	HTML        string `json:"html"`
	Excerpt     string `json:"excerpt"`
	WordCount   int    `json:"wordCount"`
	ReadingTime int    `json:"readingTime"`
}

type BlockTypeInfo struct {
	Type     content.BlockType `json:"type"`
	Metadata *content.Metadata `json:"metadata,omitempty"`
}

// BlockTypes
// @Summary      Типы блоков
// @Description  Типы блоков в порядке панели редактора с метаданными по умолчанию
// @Tags         admin-content
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} helpers.Response{data=[]BlockTypeInfo}
// @Router       /api/admin/content/block-types [get]
func (h *ContentHandler) BlockTypes(w http.ResponseWriter, r *http.Request) {
	types := content.Types()
	out := make([]BlockTypeInfo, 0, len(types))
	for _, t := range types {
		out = append(out, BlockTypeInfo{Type: t, Metadata: content.DefaultMetadata(t)})
	}
	helpers.JSON(w, http.StatusOK, out)
}

// Render
// @Summary      Рендер блоков в HTML
// @Description  Текст экранируется; пустые блоки пропускаются
// @Tags         admin-content
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body BlocksRequest true "Блоки"
// @Success      200 {object} helpers.Response{data=RenderResponse}
// @Router       /api/admin/content/render [post]
func (h *ContentHandler) Render(w http.ResponseWriter, r *http.Request) {
	var req BlocksRequest
	if !decode(w, r, &req) {
		return
	}
	helpers.JSON(w, http.StatusOK, RenderResponse{
		HTML:        services.Render(req.Blocks),
		Excerpt:     content.Excerpt(req.Blocks, services.ExcerptLength),
		WordCount:   content.WordCount(req.Blocks),
		ReadingTime: content.ReadingTime(req.Blocks),
	})
}

// Preview
// @Summary      Дерево предпросмотра
// @Tags         admin-content
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body body BlocksRequest true "Блоки"
// @Success      200 {object} helpers.Response{data=content.Preview}
// @Router       /api/admin/content/preview [post]
func (h *ContentHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req BlocksRequest
	if !decode(w, r, &req) {
		return
	}
	helpers.JSON(w, http.StatusOK, content.BuildPreview(req.Blocks))
}

// PreviewHTML
// @Summary      Предпросмотр в HTML
// @Tags         admin-content
// @Security     BearerAuth
// @Accept       json
// @Produce      html
// @Param        body body BlocksRequest true "Блоки"
// @Success      200 {string} string "HTML"
// @Router       /api/admin/content/preview.html [post]
func (h *ContentHandler) PreviewHTML(w http.ResponseWriter, r *http.Request) {
	var req BlocksRequest
	if !decode(w, r, &req) {
		return
	}
	writePreviewHTML(w, r, content.BuildPreview(req.Blocks))
}

func writePreviewHTML(w http.ResponseWriter, r *http.Request, p content.Preview) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.Component().Render(r.Context(), w); err != nil {
		writeError(w, r, err)
	}
}
