// Package dashboard はタイムラインと製品統計の表示を提供します。
package dashboard

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// ItemType はタイムライン項目の種別です。
type ItemType string

const (
	TypeSuccess   ItemType = "success"
	TypeTech      ItemType = "tech"
	TypeEvent     ItemType = "event"
	TypeMilestone ItemType = "milestone"
	TypeTeam      ItemType = "team"
)

// AllTypes は絞り込みに使える種別の一覧です。
var AllTypes = []ItemType{TypeSuccess, TypeTech, TypeEvent, TypeMilestone, TypeTeam}

// TimelineItem はタイムラインの1項目です。
type TimelineItem struct {
	Month  string   `yaml:"month" json:"month"`
	Event  string   `yaml:"event" json:"event"`
	Detail string   `yaml:"detail" json:"detail"`
	Type   ItemType `yaml:"type" json:"type"`
	Tags   []string `yaml:"tags" json:"tags,omitempty"`
	Jobs   []string `yaml:"jobs" json:"jobs,omitempty"`
}

// ProductStat は製品ごとの出動回数です。
type ProductStat struct {
	Name  string `yaml:"name" json:"name"`
	Count int    `yaml:"count" json:"count"`
	Color string `yaml:"color" json:"color"`
}

// YearTimeline は1年分のタイムラインです。
type YearTimeline struct {
	Year  int            `yaml:"year" json:"year"`
	Items []TimelineItem `yaml:"items" json:"items"`
}

// Data はダッシュボードに表示する内容一式です。
type Data struct {
	Years        []YearTimeline `yaml:"years"`
	Products     []ProductStat  `yaml:"products"`
	ProductNames []string       `yaml:"product_names"`
}

//go:embed data/timeline.yaml
var timelineYAML []byte

// Load は埋め込まれたデータを読み込みます。
func Load() (*Data, error) {
	return Parse(timelineYAML)
}

// Parse は YAML からデータを読み込み、内容を検証します。
func Parse(raw []byte) (*Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse timeline data: %w", err)
	}
	for _, y := range data.Years {
		for i, item := range y.Items {
			if !validType(item.Type) {
				return nil, fmt.Errorf("timeline %d item %d: unknown type %q", y.Year, i, item.Type)
			}
		}
	}
	return &data, nil
}

// YearList は収録されている年を昇順で返します。
func (d *Data) YearList() []int {
	years := make([]int, 0, len(d.Years))
	for _, y := range d.Years {
		years = append(years, y.Year)
	}
	sort.Ints(years)
	return years
}

// LatestYear は最も新しい年を返します。
func (d *Data) LatestYear() int {
	years := d.YearList()
	if len(years) == 0 {
		return 0
	}
	return years[len(years)-1]
}

// Timeline は指定した年の項目を返します。
func (d *Data) Timeline(year int) ([]TimelineItem, bool) {
	for _, y := range d.Years {
		if y.Year == year {
			return y.Items, true
		}
	}
	return nil, false
}

// ProductsByCount は出動回数の多い順に製品統計を返します。
func (d *Data) ProductsByCount() []ProductStat {
	out := make([]ProductStat, len(d.Products))
	copy(out, d.Products)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

func validType(t ItemType) bool {
	for _, v := range AllTypes {
		if v == t {
			return true
		}
	}
	return false
}
