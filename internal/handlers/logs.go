package handlers

import (
	"bufio"
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"sitecms/internal/logger"
	"sitecms/internal/utils/helpers"
)

// SystemLogsHandler читает JSON-логи сервера из каталога logger.
// Текущий файл app.log относится к сегодняшнему дню, ротированные
// lumberjack-файлы (app-<время ротации>.log[.gz]) отбираются по дате в имени.
type SystemLogsHandler struct {
	LogDir    string
	Retention int
	now       func() time.Time
}

func NewSystemLogsHandler(logDir string, retentionDays int) *SystemLogsHandler {
	if logDir == "" {
		logDir = "logs"
	}
	if retentionDays <= 0 {
		retentionDays = 14
	}
	return &SystemLogsHandler{LogDir: logDir, Retention: retentionDays, now: time.Now}
}

type LogPage struct {
	Day        string            `json:"day"`
	Items      []json.RawMessage `json:"items" swaggertype:"array,object"`
	NextCursor int               `json:"nextCursor"`
}

// Days
// @Summary      Дни с логами
// @Tags         admin-logs
// @Security     BearerAuth
// @Produce      json
// @Success      200 {object} helpers.Response{data=[]string}
// @Router       /api/admin/system-logs/days [get]
func (h *SystemLogsHandler) Days(w http.ResponseWriter, r *http.Request) {
	today := h.now().Local()
	days := []string{}
	for i := 0; i < h.Retention; i++ {
		d := today.AddDate(0, 0, -i).Format(dayLayout)
		if files, err := h.filesForDay(d); err == nil && len(files) > 0 {
			days = append(days, d)
		}
	}
	sort.Strings(days)
	helpers.JSON(w, http.StatusOK, days)
}

// Entries
// @Summary      Записи лога за день
// @Description  Фильтры по уровню, часу, request_id и подстроке; курсор — номер строки
// @Tags         admin-logs
// @Security     BearerAuth
// @Produce      json
// @Param        day        query string true  "YYYY-MM-DD"
// @Param        level      query string false "CSV уровней: debug,info,warn,error"
// @Param        hour       query int    false "Час (0-23)"
// @Param        request_id query string false "ID запроса"
// @Param        q          query string false "Подстрока"
// @Param        limit      query int    false "Лимит (по умолчанию 200, максимум 1000)"
// @Param        cursor     query int    false "Курсор"
// @Success      200 {object} helpers.Response{data=LogPage}
// @Failure      404 {object} helpers.Response
// @Router       /api/admin/system-logs [get]
func (h *SystemLogsHandler) Entries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	day := q.Get("day")
	if !reDay.MatchString(day) {
		helpers.Error(w, http.StatusBadRequest, "Дата в формате YYYY-MM-DD")
		return
	}

	levels := upperSet(q.Get("level"))
	requestID := strings.TrimSpace(q.Get("request_id"))
	var qre *regexp.Regexp
	if s := strings.TrimSpace(q.Get("q")); s != "" {
		qre = regexp.MustCompile("(?i)" + regexp.QuoteMeta(s))
	}
	hour := -1
	if hv, err := strconv.Atoi(q.Get("hour")); err == nil && hv >= 0 && hv <= 23 {
		hour = hv
	}
	limit := clampAtoi(q.Get("limit"), 200, 1, 1000)
	cursor := clampAtoi(q.Get("cursor"), 0, 0, 10_000_000)

	page := LogPage{Day: day, Items: []json.RawMessage{}}
	lineNo := 0
	err := h.eachLine(day, func(raw []byte) bool {
		lineNo++
		if lineNo <= cursor {
			return true
		}
		page.NextCursor = lineNo
		if qre != nil && !qre.Match(raw) {
			return true
		}
		var e logEntry
		if json.Unmarshal(raw, &e) != nil {
			return true
		}
		if len(levels) > 0 && !levels[strings.ToUpper(e.Level)] {
			return true
		}
		if requestID != "" && e.RequestID != requestID {
			return true
		}
		if hour >= 0 {
			if t, ok := e.at(); !ok || t.Hour() != hour {
				return true
			}
		}
		page.Items = append(page.Items, append(json.RawMessage{}, raw...))
		return len(page.Items) < limit
	})
	if err != nil {
		helpers.Error(w, http.StatusNotFound, "Логов за этот день нет")
		return
	}
	if page.NextCursor < cursor {
		page.NextCursor = cursor
	}
	helpers.JSON(w, http.StatusOK, page)
}

// Hourly
// @Summary      Количество записей по часам и уровням
// @Tags         admin-logs
// @Security     BearerAuth
// @Produce      json
// @Param        day query string true "YYYY-MM-DD"
// @Success      200 {object} helpers.Response
// @Router       /api/admin/system-logs/hourly [get]
func (h *SystemLogsHandler) Hourly(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if !reDay.MatchString(day) {
		helpers.Error(w, http.StatusBadRequest, "Дата в формате YYYY-MM-DD")
		return
	}
	stats := make([]map[string]int, 24)
	for i := range stats {
		stats[i] = map[string]int{}
	}
	_ = h.eachLine(day, func(raw []byte) bool {
		var e logEntry
		if json.Unmarshal(raw, &e) != nil || e.Level == "" {
			return true
		}
		if t, ok := e.at(); ok {
			stats[t.Hour()][strings.ToUpper(e.Level)]++
		}
		return true
	})
	helpers.JSON(w, http.StatusOK, map[string]any{"day": day, "hours": stats})
}

// Summary
// @Summary      Итоги по уровням за последние дни
// @Tags         admin-logs
// @Security     BearerAuth
// @Produce      json
// @Param        days query int false "Дней (по умолчанию 7)"
// @Success      200 {object} helpers.Response
// @Router       /api/admin/system-logs/summary [get]
func (h *SystemLogsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	days := clampAtoi(r.URL.Query().Get("days"), 7, 1, h.Retention)
	total := 0
	levels := map[string]int{}
	byDay := map[string]map[string]int{}

	today := h.now().Local()
	for i := 0; i < days; i++ {
		d := today.AddDate(0, 0, -i).Format(dayLayout)
		perDay := map[string]int{}
		_ = h.eachLine(d, func(raw []byte) bool {
			var e logEntry
			if json.Unmarshal(raw, &e) != nil || e.Level == "" {
				return true
			}
			lvl := strings.ToUpper(e.Level)
			perDay[lvl]++
			levels[lvl]++
			total++
			return true
		})
		if len(perDay) > 0 {
			byDay[d] = perDay
		}
	}
	helpers.JSON(w, http.StatusOK, map[string]any{"total": total, "levels": levels, "byDay": byDay})
}

// Download
// @Summary      Скачать файл лога за день
// @Tags         admin-logs
// @Security     BearerAuth
// @Produce      octet-stream
// @Param        day query string true "YYYY-MM-DD"
// @Success      200 {file} file
// @Failure      404 {object} helpers.Response
// @Router       /api/admin/system-logs/download [get]
func (h *SystemLogsHandler) Download(w http.ResponseWriter, r *http.Request) {
	day := r.URL.Query().Get("day")
	if !reDay.MatchString(day) {
		helpers.Error(w, http.StatusBadRequest, "Дата в формате YYYY-MM-DD")
		return
	}
	files, err := h.filesForDay(day)
	if err != nil || len(files) == 0 {
		helpers.Error(w, http.StatusNotFound, "Файл не найден")
		return
	}
	path := files[len(files)-1]
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

const dayLayout = "2006-01-02"

var reDay = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type logEntry struct {
	Time      string `json:"time"`
	Level     string `json:"level"`
	RequestID string `json:"request_id"`
}

func (e logEntry) at() (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, e.Time)
	if err != nil {
		return time.Time{}, false
	}
	return t.Local(), true
}

// filesForDay возвращает файлы дня в хронологическом порядке:
// ротированные раньше текущего.
func (h *SystemLogsHandler) filesForDay(day string) ([]string, error) {
	entries, err := os.ReadDir(h.LogDir)
	if err != nil {
		return nil, err
	}
	base := strings.TrimSuffix(logger.FileName, filepath.Ext(logger.FileName))
	today := h.now().Local().Format(dayLayout)

	var rotated []string
	current := ""
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		switch {
		case name == logger.FileName:
			if day == today {
				current = filepath.Join(h.LogDir, name)
			}
		case strings.HasPrefix(name, base+"-"+day) &&
			(strings.HasSuffix(name, ".log") || strings.HasSuffix(name, ".log.gz")):
			rotated = append(rotated, filepath.Join(h.LogDir, name))
		}
	}
	sort.Strings(rotated)
	if current != "" {
		rotated = append(rotated, current)
	}
	return rotated, nil
}

// eachLine обходит строки всех файлов дня, пока handle возвращает true.
func (h *SystemLogsHandler) eachLine(day string, handle func([]byte) bool) error {
	files, err := h.filesForDay(day)
	if err != nil || len(files) == 0 {
		return os.ErrNotExist
	}
	for _, path := range files {
		if !scanFile(path, handle) {
			return nil
		}
	}
	return nil
}

func scanFile(path string, handle func([]byte) bool) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	var reader io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return true
		}
		defer gz.Close()
		reader = gz
	}

	sc := bufio.NewScanner(reader)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if !handle(sc.Bytes()) {
			return false
		}
	}
	return true
}

func upperSet(csv string) map[string]bool {
	m := map[string]bool{}
	for _, p := range strings.Split(csv, ",") {
		if p = strings.TrimSpace(p); p != "" {
			m[strings.ToUpper(p)] = true
		}
	}
	return m
}

func clampAtoi(s string, def, min, max int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
