package config

const (
	// MinKeywordLength and MaxKeywordLength bound a stored keyword.
	// 128 matches the VARCHAR(128) keyword column.
	MinKeywordLength = 1
	MaxKeywordLength = 128

	// MaxKeywordsPerUser caps stored keywords per user.
	MaxKeywordsPerUser = 20

	// MaxEmailLength fits the VARCHAR(254) email column (RFC 5321 path limit).
	MaxEmailLength = 254

	// MaxPasswordLength is bcrypt's input limit.
	MaxPasswordLength = 72

	// MaxQueryLength bounds natural-language preference requests.
	MaxQueryLength = 2000

	// Digest size bounds for POST /api/email/send.
	MinDigestItems     = 1
	MaxDigestItems     = 50
	DefaultDigestItems = 10

	// MaxSettingCodeLength bounds language and country codes.
	MaxSettingCodeLength = 8
)
