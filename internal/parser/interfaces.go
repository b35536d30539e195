package parser

// Normalizer maps a raw catalog record R into the host's canonical shape T.
type Normalizer[R, T any] interface {
	Normalize(raw R) T
	NormalizeList(raws []R) []T
}

// DetailNormalizer additionally builds the detail shape of a single record.
type DetailNormalizer[R, T any] interface {
	Normalizer[R, T]
	NormalizeDetail(raw R) T
}
