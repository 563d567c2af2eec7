package errors

// Error codes grouped by subsystem. The numeric band encodes the category:
// 1xx query/validation, 2xx modality execution, 3xx index lifecycle, 4xx cache.
const (
	// ErrCodeEmptyQuery indicates a blank query was rejected before execution.
	ErrCodeEmptyQuery = "ERR_101_EMPTY_QUERY"

	// ErrCodeInvalidInput indicates malformed search options.
	ErrCodeInvalidInput = "ERR_102_INVALID_INPUT"

	// ErrCodeSearchUnavailable indicates both lexical and semantic execution failed.
	ErrCodeSearchUnavailable = "ERR_201_SEARCH_UNAVAILABLE"

	// ErrCodeLexicalFailed indicates the full-text store rejected or failed the query.
	ErrCodeLexicalFailed = "ERR_202_LEXICAL_FAILED"

	// ErrCodeSemanticFailed indicates embedding or vector search failed.
	ErrCodeSemanticFailed = "ERR_203_SEMANTIC_FAILED"

	// ErrCodeIndexRebuild indicates a vector index rebuild failed.
	ErrCodeIndexRebuild = "ERR_301_INDEX_REBUILD"

	// ErrCodeIndexPersist indicates persisting the vector index failed.
	// The previously persisted copy is left intact.
	ErrCodeIndexPersist = "ERR_302_INDEX_PERSIST"

	// ErrCodeIndexLoad indicates loading the persisted vector index failed.
	ErrCodeIndexLoad = "ERR_303_INDEX_LOAD"

	// ErrCodeIndexCorrupt indicates the index and its id mapping disagree.
	ErrCodeIndexCorrupt = "ERR_304_INDEX_CORRUPT"

	// ErrCodeCache indicates a cache malfunction; callers treat it as a miss.
	ErrCodeCache = "ERR_401_CACHE"
)

// Category classifies errors per subsystem.
type Category string

const (
	CategoryQuery     Category = "query"
	CategoryExecution Category = "execution"
	CategoryLifecycle Category = "lifecycle"
	CategoryCache     Category = "cache"
)

func categoryFromCode(code string) Category {
	if len(code) < 5 {
		return CategoryExecution
	}
	switch code[4] {
	case '1':
		return CategoryQuery
	case '2':
		return CategoryExecution
	case '3':
		return CategoryLifecycle
	case '4':
		return CategoryCache
	default:
		return CategoryExecution
	}
}

// retryableCodes lists codes where retrying the operation can succeed.
var retryableCodes = map[string]bool{
	ErrCodeLexicalFailed:  true,
	ErrCodeSemanticFailed: true,
	ErrCodeIndexPersist:   true,
}

func isRetryableCode(code string) bool {
	return retryableCodes[code]
}
