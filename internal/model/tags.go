package model

import "strings"

// TagSeparator joins tags in the stored representation. There is no escaping:
// a tag that itself contains a comma is read back as two tags.
const TagSeparator = ","

// JoinTags builds the stored form of a tag list.
func JoinTags(tags []string) string {
	return strings.Join(tags, TagSeparator)
}

// SplitTags parses the stored form. An empty string yields an empty list, not [""].
func SplitTags(stored string) []string {
	if stored == "" {
		return []string{}
	}
	return strings.Split(stored, TagSeparator)
}
