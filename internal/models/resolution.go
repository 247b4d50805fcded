package models

// MatchType identifies which resolution tier or heuristic produced a result.
// It is a closed set; handlers and downstream aggregation switch on it for
// auditing, never on free-form strings.
type MatchType string

const (
	MatchTypeUnmapped          MatchType = "UNMAPPED"
	MatchTypeRule              MatchType = "RULE"
	MatchTypeDirect            MatchType = "DIRECT"
	MatchTypeMasterBox         MatchType = "MASTER_BOX"
	MatchTypeAnuPrefix         MatchType = "ANU_PREFIX"
	MatchTypePackPrefix        MatchType = "PACK_PREFIX"
	MatchTypeWebSuffix         MatchType = "WEB_SUFFIX"
	MatchTypeTrailing20        MatchType = "TRAILING_20"
	MatchTypeDigitRewrite      MatchType = "DIGIT_REWRITE"
	MatchTypeCrackerAbbrev     MatchType = "CRACKER_ABBREV"
	MatchTypeLiteralOverride   MatchType = "LITERAL_OVERRIDE"
	MatchTypeLanguageVariant   MatchType = "LANGUAGE_VARIANT"
	MatchTypeSubstring         MatchType = "SUBSTRING"
	MatchTypeMarketplaceLookup MatchType = "MARKETPLACE_LOOKUP"
)

// Label returns the human-readable name used in logs and audit fields.
func (m MatchType) Label() string {
	switch m {
	case MatchTypeUnmapped:
		return "unmapped"
	case MatchTypeRule:
		return "mapping rule"
	case MatchTypeDirect:
		return "direct catalog match"
	case MatchTypeMasterBox:
		return "master box match"
	case MatchTypeAnuPrefix:
		return "ANU- prefix strip"
	case MatchTypePackPrefix:
		return "PACK prefix strip"
	case MatchTypeWebSuffix:
		return "_WEB suffix strip"
	case MatchTypeTrailing20:
		return "trailing 20 rewrite"
	case MatchTypeDigitRewrite:
		return "digit pattern rewrite"
	case MatchTypeCrackerAbbrev:
		return "cracker abbreviation"
	case MatchTypeLiteralOverride:
		return "historical override"
	case MatchTypeLanguageVariant:
		return "language variant rewrite"
	case MatchTypeSubstring:
		return "catalog substring match"
	case MatchTypeMarketplaceLookup:
		return "marketplace publication lookup"
	}
	return string(m)
}

// ResolutionResult is the outcome of resolving one raw SKU. An unmapped SKU
// is a normal branch, not an error: ResolvedSKU is empty, MatchType is
// UNMAPPED and Confidence is 0.
type ResolutionResult struct {
	ResolvedSKU  string        `json:"resolvedSku"`
	MatchType    MatchType     `json:"matchType"`
	MatchLabel   string        `json:"matchLabel"`
	PackQuantity int           `json:"packQuantity"`
	Confidence   int           `json:"confidence"`
	Entry        *CatalogEntry `json:"catalogEntry,omitempty"`
}

// Resolved reports whether a canonical SKU was found.
func (r ResolutionResult) Resolved() bool {
	return r.ResolvedSKU != ""
}

// Unmapped returns the not-found result shared by all tiers.
func Unmapped() ResolutionResult {
	return ResolutionResult{
		MatchType:    MatchTypeUnmapped,
		MatchLabel:   MatchTypeUnmapped.Label(),
		PackQuantity: 1,
		Confidence:   0,
	}
}

// ResolveRequest represents one raw SKU to resolve
type ResolveRequest struct {
	SKU         string `json:"sku" binding:"required"`
	ProductName string `json:"productName,omitempty"`
	Source      string `json:"source,omitempty"`
}

// ResolveLine represents one order line in a batch resolve request
type ResolveLine struct {
	SKU         string `json:"sku" binding:"required"`
	ProductName string `json:"productName,omitempty"`
	Source      string `json:"source,omitempty"`
	Quantity    int    `json:"quantity" binding:"required,min=1"`
}

// BatchResolveRequest represents a bulk resolution request from the
// analytics/ETL callers
type BatchResolveRequest struct {
	Lines []ResolveLine `json:"lines" binding:"required,min=1,dive"`
}

// ResolvedLine pairs a line's resolution with its converted unit total
type ResolvedLine struct {
	Line       ResolveLine      `json:"line"`
	Result     ResolutionResult `json:"result"`
	TotalUnits int              `json:"totalUnits"`
}

// BatchResolveResponse represents the bulk resolution response
type BatchResolveResponse struct {
	Success       bool           `json:"success"`
	TotalLines    int            `json:"totalLines"`
	MappedLines   int            `json:"mappedLines"`
	UnmappedLines int            `json:"unmappedLines"`
	Results       []ResolvedLine `json:"results"`
}

// ConvertRequest represents a unit conversion request
type ConvertRequest struct {
	Result   ResolutionResult `json:"result" binding:"required"`
	Quantity int              `json:"quantity" binding:"required,min=1"`
}

// SnapshotStatus reports the state of the in-memory snapshots for
// observability endpoints
type SnapshotStatus struct {
	CatalogEntries  int    `json:"catalogEntries"`
	MasterVariants  int    `json:"masterVariants"`
	ActiveRules     int    `json:"activeRules"`
	CatalogLoadedAt string `json:"catalogLoadedAt,omitempty"`
	RulesLoadedAt   string `json:"rulesLoadedAt,omitempty"`
	CatalogStale    bool   `json:"catalogStale"`
	RulesStale      bool   `json:"rulesStale"`
	RefreshInFlight bool   `json:"refreshInFlight"`
}

// ErrorResponse is the error envelope returned by the HTTP surface
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SuccessResponse is the generic success envelope
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message *string     `json:"message,omitempty"`
}
