package dashboard

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler はダッシュボードの API とページを提供します。
type Handler struct {
	data     *Data
	basePath string
}

// NewHandler は Handler を作成します。
func NewHandler(data *Data, basePath string) *Handler {
	return &Handler{data: data, basePath: basePath}
}

// Timeline は GET /api/timeline のハンドラーです。
//
// クエリパラメータ:
//   - year: 対象の年（省略時は最新年）
//   - q: 検索語
//   - product: 製品名（複数指定可）
//   - type: 種別（複数指定可）
func (h *Handler) Timeline(c *gin.Context) {
	year := h.data.LatestYear()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":  "INVALID_YEAR",
				"error": "year は数値で指定してください",
			})
			return
		}
		year = parsed
	}

	items, ok := h.data.Timeline(year)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"code":  "YEAR_NOT_FOUND",
			"error": "指定した年のデータがありません",
		})
		return
	}

	filter := Filter{
		Query:    c.Query("q"),
		Products: c.QueryArray("product"),
	}
	for _, raw := range c.QueryArray("type") {
		t := ItemType(raw)
		if !validType(t) {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":  "INVALID_TYPE",
				"error": "type の値が不正です",
			})
			return
		}
		filter.Types = append(filter.Types, t)
	}

	matched := filter.Apply(items)
	c.JSON(http.StatusOK, gin.H{
		"year":     year,
		"years":    h.data.YearList(),
		"total":    len(items),
		"count":    len(matched),
		"items":    matched,
		"products": ProductsIn(items, h.data.ProductNames),
		"types":    AllTypes,
	})
}

// Products は GET /api/products のハンドラーです。
func (h *Handler) Products(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": h.data.ProductsByCount()})
}

// IndexPage はダッシュボード画面を返します。
func (h *Handler) IndexPage(c *gin.Context) {
	h.renderPage(c, PageIndex)
}

// LoginPage はログイン画面を返します。
func (h *Handler) LoginPage(c *gin.Context) {
	h.renderPage(c, PageLogin)
}

func (h *Handler) renderPage(c *gin.Context, name string) {
	var buf bytes.Buffer
	if err := RenderPage(&buf, name, ServerPage(h.basePath)); err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("page", name).Msg("failed to render page")
		c.String(http.StatusInternalServerError, "ページの表示に失敗しました")
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
