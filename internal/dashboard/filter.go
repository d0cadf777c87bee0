package dashboard

import (
	"sort"
	"strings"
)

// Filter はタイムラインの絞り込み条件です。空の条件は無視されます。
type Filter struct {
	Query    string
	Products []string
	Types    []ItemType
}

// Active は何らかの条件が指定されているかを返します。
func (f Filter) Active() bool {
	return f.Query != "" || len(f.Products) > 0 || len(f.Types) > 0
}

// Apply は条件に合う項目だけを順序を保って返します。
//
// 検索語はイベント名・詳細・ジョブ・タグの部分一致（大文字小文字を区別しない）、
// 製品はタグに製品名を含むもの、種別は完全一致で判定します。
func (f Filter) Apply(items []TimelineItem) []TimelineItem {
	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]TimelineItem, 0, len(items))
	for _, item := range items {
		if query != "" && !matchesQuery(item, query) {
			continue
		}
		if len(f.Products) > 0 && !hasProduct(item, f.Products) {
			continue
		}
		if len(f.Types) > 0 && !hasType(item, f.Types) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// ProductsIn はタグに現れる製品名を重複なく昇順で返します。
func ProductsIn(items []TimelineItem, names []string) []string {
	found := make(map[string]struct{})
	for _, item := range items {
		for _, tag := range item.Tags {
			for _, name := range names {
				if strings.Contains(tag, name) {
					found[name] = struct{}{}
				}
			}
		}
	}
	out := make([]string, 0, len(found))
	for name := range found {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func matchesQuery(item TimelineItem, query string) bool {
	if strings.Contains(strings.ToLower(item.Event), query) ||
		strings.Contains(strings.ToLower(item.Detail), query) {
		return true
	}
	for _, job := range item.Jobs {
		if strings.Contains(strings.ToLower(job), query) {
			return true
		}
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}

func hasProduct(item TimelineItem, products []string) bool {
	for _, tag := range item.Tags {
		for _, p := range products {
			if strings.Contains(tag, p) {
				return true
			}
		}
	}
	return false
}

func hasType(item TimelineItem, types []ItemType) bool {
	for _, t := range types {
		if item.Type == t {
			return true
		}
	}
	return false
}
