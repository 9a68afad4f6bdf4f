package services

import (
	"propalyze-cleaner/models"
	"propalyze-cleaner/utils"
)

// CollectPhotos concatenates the photo lists found under keys, in key
// order, and drops empty and repeated URLs keeping the first occurrence.
// A key holding a single string contributes that one URL.
func CollectPhotos(r RawRecord, keys []string) []string {
	seen := utils.NewURLSet()
	for _, k := range keys {
		v := r.Resolve(k)
		if v.IsList() {
			for _, item := range v.Items() {
				addPhoto(seen, item)
			}
			continue
		}
		addPhoto(seen, v)
	}
	return seen.Values()
}

func addPhoto(seen *utils.URLSet, v models.Value) {
	if url, ok := v.Str(); ok && url != "" {
		seen.Add(url)
	}
}
