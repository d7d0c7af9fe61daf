package schema

import (
	"strings"
	"unicode"
)

// emailLength is the width dialects give email columns.
const emailLength = "320"

var abbreviations = map[string]string{
	"eml": "email", "mail": "email",
	"addr": "address", "adr": "address",
	"nm": "name", "usr": "user", "emp": "employee", "cust": "customer",
	"tel": "phone", "ph": "phone", "hp": "phone",
	"desc": "description", "txt": "text", "msg": "message",
	"dt": "date", "reg": "registered", "mod": "modified", "upd": "updated",
}

// AnalyzeMeaning guesses what a column holds from its comment, or else from
// the words of its name with common abbreviations expanded.
func AnalyzeMeaning(colName, comment string) string {
	c := strings.ToLower(comment)

	// 1. Comment keywords (Korean/English)
	if strings.Contains(c, "이메일") || strings.Contains(c, "메일") || strings.Contains(c, "email") || strings.Contains(c, "e-mail") {
		return "email"
	}
	if strings.Contains(c, "전화") || strings.Contains(c, "연락처") || strings.Contains(c, "phone") {
		return "phone"
	}
	if strings.Contains(c, "주소") || strings.Contains(c, "address") {
		return "address"
	}

	// 2. Abbreviation Analysis from Column Name
	var decoded []string
	for _, part := range splitWords(colName) {
		if full, ok := abbreviations[part]; ok {
			decoded = append(decoded, full)
		} else {
			decoded = append(decoded, part)
		}
	}
	return strings.Join(decoded, " ")
}

// splitWords breaks snake, kebab and camel case names into lower case words.
func splitWords(name string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == '~':
			flush()
		case unicode.IsUpper(r) && i > 0 && !unicode.IsUpper(runes[i-1]):
			flush()
			cur = append(cur, r)
		default:
			cur = append(cur, r)
		}
	}
	flush()
	return words
}

// refineType recovers column types a catalog cannot tell apart. Email
// columns are plain character columns: they are recognized by their width,
// their comment or their name.
func refineType(t ColumnType, name, comment, length string) ColumnType {
	if t != TypeString {
		return t
	}
	if length == emailLength {
		return TypeEmail
	}
	m := AnalyzeMeaning(name, comment)
	if m == "email" || strings.HasSuffix(m, " email") || strings.HasSuffix(m, "email address") {
		return TypeEmail
	}
	return t
}

// typeLength returns the declared width of a column, reading it from the
// full type (e.g. "VARCHAR(320)") when the catalog has no length column.
func typeLength(length, fullType string) string {
	if length != "" {
		return length
	}
	open, end := strings.IndexByte(fullType, '('), strings.IndexByte(fullType, ')')
	if open < 0 || end < open {
		return ""
	}
	return strings.TrimSpace(fullType[open+1 : end])
}
