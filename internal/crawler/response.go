package crawler

import (
	"maps"
	"slices"
)

// BuildRecords projects relations and assets into one PageRecord per page in
// relations. Pages missing from assets get no static assets. Records are
// ordered by page URL.
func BuildRecords(relations, assets map[string][]string) []PageRecord {
	pages := slices.Sorted(maps.Keys(relations))
	records := make([]PageRecord, 0, len(pages))
	for _, page := range pages {
		records = append(records, PageRecord{
			Page:         page,
			Links:        nonEmpty(relations[page]),
			StaticAssets: nonEmpty(assets[page]),
		})
	}
	return records
}

func nonEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return slices.Clone(values)
}
