package handlers

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"sitecms/internal/logger"
	"sitecms/internal/models"
	"sitecms/internal/services"
	"sitecms/internal/utils/helpers"
)

type SearchHandler struct {
	posts *services.PostService
	faqs  *services.FAQService
}

func NewSearchHandler(posts *services.PostService, faqs *services.FAQService) *SearchHandler {
	return &SearchHandler{posts: posts, faqs: faqs}
}

type SearchResult struct {
	Posts []models.PostSummary `json:"posts"`
	FAQs  []*models.FAQ        `json:"faqs"`
}

const searchLimit = 10

// Search
// @Summary      Поиск по сайту
// @Description  Опубликованные посты (заголовок и анонс) и опубликованные вопросы FAQ
// @Tags         search
// @Produce      json
// @Param        q      query string true  "Поисковый запрос"
// @Param        locale query string false "Локаль"
// @Success      200 {object} helpers.Response{data=SearchResult}
// @Failure      400 {object} helpers.Response
// @Router       /api/search [get]
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len([]rune(query)) < 2 {
		helpers.Error(w, http.StatusBadRequest, "Запрос короче двух символов")
		return
	}

	start := time.Now()
	out := SearchResult{Posts: []models.PostSummary{}, FAQs: []*models.FAQ{}}

	page, err := h.posts.PublicList(r.Context(), models.PostFilter{Query: query, Page: 1, Limit: searchLimit}, requestLocale(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out.Posts = append(out.Posts, page.Data...)

	faqs, err := h.faqs.List(r.Context(), true, "")
	if err != nil {
		writeError(w, r, err)
		return
	}
	needle := strings.ToLower(query)
	for _, f := range faqs {
		if len(out.FAQs) == searchLimit {
			break
		}
		if strings.Contains(strings.ToLower(f.Question), needle) || strings.Contains(strings.ToLower(f.Answer), needle) {
			out.FAQs = append(out.FAQs, f)
		}
	}

	log.Debug("Поиск по сайту",
		zap.String("query", query),
		zap.Int("posts", len(out.Posts)),
		zap.Int("faqs", len(out.FAQs)),
		zap.Duration("elapsed", time.Since(start)),
	)
	helpers.JSON(w, http.StatusOK, out)
}
