package dashboard

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/yourusername/hobot-roadmap/internal/auth"
)

// ページテンプレート名
const (
	PageIndex = "index.html"
	PageLogin = "login.html"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// PageData はページ描画に渡す値です。
type PageData struct {
	BasePath string
	Static   bool

	// 以下は Static のときだけ使われる
	Data                    *StaticData
	DemoPassword            string
	TTLMillis               int64
	StorageKeyAuthenticated string
	StorageKeyExpiry        string
}

// StaticData は静的ページに埋め込むデータです。
type StaticData struct {
	Years        []YearTimeline `json:"years"`
	Products     []ProductStat  `json:"products"`
	ProductNames []string       `json:"productNames"`
	Types        []ItemType     `json:"types"`
}

// ServerPage はサーバーモード用の PageData を返します。
func ServerPage(basePath string) PageData {
	return PageData{BasePath: basePath}
}

// StaticPage はブラウザだけで動作するページ用の PageData を返します。
// パスワードはページに平文で埋め込まれます。
func StaticPage(basePath string, data *Data, demoPassword string, ttl time.Duration) PageData {
	return PageData{
		BasePath: basePath,
		Static:   true,
		Data: &StaticData{
			Years:        data.Years,
			Products:     data.ProductsByCount(),
			ProductNames: data.ProductNames,
			Types:        AllTypes,
		},
		DemoPassword:            demoPassword,
		TTLMillis:               ttl.Milliseconds(),
		StorageKeyAuthenticated: auth.StorageKeyAuthenticated,
		StorageKeyExpiry:        auth.StorageKeyExpiry,
	}
}

// RenderPage は指定したページを w に書き出します。
func RenderPage(w io.Writer, name string, data PageData) error {
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	return nil
}
