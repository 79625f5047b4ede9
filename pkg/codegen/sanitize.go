package codegen

import (
	"strconv"
	"strings"
	"unicode"
)

// cIdentKeywords mirrors original_source/utils/c_code_generator.py's
// sanitize_c_identifier keyword list.
var cIdentKeywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extern": true, "float": true, "for": true, "goto": true,
	"if": true, "int": true, "long": true, "register": true, "return": true,
	"short": true, "signed": true, "sizeof": true, "static": true, "struct": true,
	"switch": true, "typedef": true, "union": true, "unsigned": true, "void": true,
	"volatile": true, "while": true,
}

// sanitizeIdent is adapted from the teacher's pkg/codegen/c.go
// sanitizeName: letters, digits and underscore survive, a leading
// digit gets an underscore prefix, and every other character,
// including space and dash, folds to underscore (the teacher's version
// dropped such characters). A C keyword gets an fsm_ prefix. Falls
// back to fallback only when name itself is empty.
func sanitizeIdent(name, fallback string) string {
	if name == "" {
		return fallback
	}
	var sb strings.Builder
	for i, r := range name {
		switch {
		case unicode.IsLetter(r) || r == '_':
			sb.WriteRune(r)
		case unicode.IsDigit(r):
			if i == 0 {
				sb.WriteByte('_')
			}
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	result := sb.String()
	if cIdentKeywords[result] {
		return "fsm_" + result
	}
	return result
}

// identSet tracks sanitized identifiers already handed out within one
// generation pass and appends a stable _1, _2, ... suffix on
// collision, since the teacher's flat DFA states are already unique
// within one FSM and its sanitizer never needed to dedupe (§4.6).
type identSet struct {
	seen map[string]int
}

func newIdentSet() *identSet {
	return &identSet{seen: make(map[string]int)}
}

func (s *identSet) resolve(candidate string) string {
	n, exists := s.seen[candidate]
	s.seen[candidate] = n + 1
	if !exists {
		return candidate
	}
	return candidate + "_" + strconv.Itoa(n)
}
