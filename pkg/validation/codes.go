package validation

import "sort"

// Diagnostic codes are grouped into disjoint numeric ranges so callers can
// tell which pipeline phase produced an issue without consulting a table:
//
//	0xx  syntax/parse errors
//	1xx  structural/load errors
//	2xx  core rule errors
//	3xx  core rule warnings
//	4xx  profile rule errors
//	5xx  profile rule warnings
//
// GXVAL000 is reserved for rule-failure isolation: when a rule panics the
// engine replaces its output with a single issue carrying this code.
const (
	CodeRuleFailure = "GXVAL000"

	CodeParseError    = "GXVAL001"
	CodeIndentError   = "GXVAL002"
	CodeTabError      = "GXVAL003"
	CodeMappingError  = "GXVAL004"
	CodeEmptyDocument = "GXVAL005"

	CodeLoadError = "GXVAL101"
	// GXVAL102 and GXVAL103 are reserved for splitting the load range by
	// failure shape; the loader currently files unknown-field and type
	// mismatches under CodeLoadError like every other strict-decode failure.
	CodeUnknownField   = "GXVAL102"
	CodeTypeError      = "GXVAL103"
	CodeStructureError = "GXVAL104"

	CodeGroupPromptNoInstructions = "GXVAL201"
	CodeFieldNoPrompt             = "GXVAL202"
	CodeFieldNoIdentifiers        = "GXVAL203"
	CodeFieldEmptyIdentifiers     = "GXVAL204"
	CodeFieldNoType               = "GXVAL205"

	CodeGroupPromptIgnoredAttrs = "GXVAL301"
	CodeFieldRequiredIgnored    = "GXVAL302"

	CodeProfileInvalidTopLevelKey   = "GXVAL401"
	CodeProfileMissingRequiredKey   = "GXVAL402"
	CodeProfileMissingRequiredField = "GXVAL403"
	CodeProfileInvalidFieldsType    = "GXVAL404"

	CodeProfileExtraField = "GXVAL501"
)

var codeDescriptions = map[string]string{
	CodeRuleFailure:                 "Validation rule failed while running",
	CodeParseError:                  "Generic YAML parse error",
	CodeIndentError:                 "YAML indentation error",
	CodeTabError:                    "Tab character found (use spaces)",
	CodeMappingError:                "Invalid YAML mapping syntax",
	CodeEmptyDocument:               "YAML document is empty",
	CodeLoadError:                   "Schema model validation failed",
	CodeUnknownField:                "Unknown field not in schema (reserved)",
	CodeTypeError:                   "Wrong type for field (reserved)",
	CodeStructureError:              "Invalid structure (expected mapping)",
	CodeGroupPromptNoInstructions:   "Group prompt missing instructions",
	CodeFieldNoPrompt:               "Field missing prompt",
	CodeFieldNoIdentifiers:          "Field missing identifiers",
	CodeFieldEmptyIdentifiers:       "Field has empty identifiers list",
	CodeFieldNoType:                 "Field missing type",
	CodeGroupPromptIgnoredAttrs:     "Group prompt has ignored attributes",
	CodeFieldRequiredIgnored:        "Field prompt 'required' is ignored",
	CodeProfileInvalidTopLevelKey:   "Top-level key not allowed by profile",
	CodeProfileMissingRequiredKey:   "Missing required top-level key",
	CodeProfileMissingRequiredField: "Missing required field in group",
	CodeProfileInvalidFieldsType:    "Fields must be a mapping",
	CodeProfileExtraField:           "Extra field not in profile allowlist",
}

// CodeInfo describes one diagnostic code for rule listings.
type CodeInfo struct {
	Code        string   `json:"code"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// DescribeCode returns the human-readable description for a code, or the
// empty string when the code is unknown.
func DescribeCode(code string) string {
	return codeDescriptions[code]
}

// DescribeCodes enumerates every known diagnostic code in lexical order. The
// severity is derived from the code's numeric range; the 3xx and 5xx ranges
// are warnings, everything else is an error.
func DescribeCodes() []CodeInfo {
	infos := make([]CodeInfo, 0, len(codeDescriptions))
	for code, desc := range codeDescriptions {
		infos = append(infos, CodeInfo{
			Code:        code,
			Severity:    severityForCode(code),
			Description: desc,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Code < infos[j].Code })
	return infos
}

func severityForCode(code string) Severity {
	if len(code) < 3 {
		return SeverityError
	}
	switch code[len(code)-3] {
	case '3', '5':
		return SeverityWarning
	default:
		return SeverityError
	}
}
