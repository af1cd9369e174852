package redis

const (
	// KeyPrefixResponse is the prefix for cached upstream HTTP responses.
	KeyPrefixResponse = "biblebot:response:"
	// KeyPrefixVersion is the prefix for persisted version records.
	KeyPrefixVersion = "biblebot:version:"
	// KeyAllVersions is the set of all persisted version abbreviations.
	KeyAllVersions = "biblebot:versions:all"
	// KeyBookNames is the persisted merged book-name table.
	KeyBookNames = "biblebot:names:merged"
	// KeyDefaultNames is the persisted default-name list.
	KeyDefaultNames = "biblebot:names:defaults"
)

// ResponseKey returns the redis key for a cached response by cache key.
func ResponseKey(key string) string {
	return KeyPrefixResponse + key
}

// VersionKey returns the redis key for a version record.
func VersionKey(abbr string) string {
	return KeyPrefixVersion + abbr
}
