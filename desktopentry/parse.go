package desktopentry

import (
	"strings"

	"golang.org/x/text/language"
)

// splitSemicolonList splits a ";"-delimited value into its non-empty
// elements, tolerating an absent trailing ";".
func splitSemicolonList(value string) []string {
	value = strings.TrimRight(value, "\n\r")
	var out []string
	for _, part := range strings.Split(value, ";") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// keyAndLocale splits a group-entry key of the form "Key[locale]" into its
// bare key and, if present, the locale tag.
func keyAndLocale(rawKey string) (key string, locale string, hasLocale bool) {
	open := strings.IndexByte(rawKey, '[')
	if open < 0 {
		return rawKey, "", false
	}
	close := strings.IndexByte(rawKey[open:], ']')
	if close < 0 {
		return rawKey, "", false
	}
	return rawKey[:open], rawKey[open+1 : open+close], true
}

// splitLocaleTag decomposes a "lang[_COUNTRY][@modifier]" locale tag into
// its components.
func splitLocaleTag(tag string) (lang, country, modifier string) {
	if at := strings.IndexByte(tag, '@'); at >= 0 {
		modifier = tag[at+1:]
		tag = tag[:at]
	}
	if us := strings.IndexByte(tag, '_'); us >= 0 {
		country = tag[us+1:]
		tag = tag[:us]
	}
	lang = tag
	return lang, country, modifier
}

// normalizeLang passes a language subtag through x/text/language's BCP-47
// parser: it returns the parser's canonical form of the subtag when it
// parses as a base language (which may differ from the input), and the
// input unchanged when it does not. Only the indexed storage key is
// normalized this way; LocalizedEntry looks up the lang it is given as is.
func normalizeLang(lang string) string {
	base, err := language.ParseBase(lang)
	if err != nil {
		return lang
	}
	return base.String()
}

// localeKey rebuilds the canonical storage key for a locale tag's
// (lang, country, modifier) triple: lang[_COUNTRY][@modifier].
func localeKey(lang, country, modifier string) string {
	var b strings.Builder
	b.WriteString(lang)
	if country != "" {
		b.WriteByte('_')
		b.WriteString(country)
	}
	if modifier != "" {
		b.WriteByte('@')
		b.WriteString(modifier)
	}
	return b.String()
}

// localeFallbackChain returns the ordered list of storage keys to probe for
// a (lang, country, modifier) lookup: lang_COUNTRY@mod, lang_COUNTRY,
// lang@mod, lang.
func localeFallbackChain(lang, country, modifier string) []string {
	var chain []string
	if lang == "" {
		return chain
	}
	if country != "" && modifier != "" {
		chain = append(chain, localeKey(lang, country, modifier))
	}
	if country != "" {
		chain = append(chain, localeKey(lang, country, ""))
	}
	if modifier != "" {
		chain = append(chain, localeKey(lang, "", modifier))
	}
	chain = append(chain, localeKey(lang, "", ""))
	return chain
}

// trimEquals splits a "Key = Value" line at the first "=". The key is
// trimmed of surrounding whitespace; the value is trimmed of leading spaces
// and tabs and of trailing CR/LF only, so trailing spaces in it are kept.
func trimEquals(line string) (key, value string, ok bool) {
	idx := strings.IndexByte(line, '=')
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimRight(strings.TrimLeft(line[idx+1:], " \t"), "\n\r"), true
}

// isIgnorableLine reports whether line is blank or a comment.
func isIgnorableLine(line string) bool {
	if line == "" {
		return true
	}
	switch line[0] {
	case '#', '\n', '\r':
		return true
	}
	trimmed := strings.TrimSpace(line)
	return trimmed == ""
}

// groupName extracts the section name from a "[Name]" line, or reports ok
// == false if line is not a group header.
func groupName(line string) (name string, ok bool) {
	if len(line) == 0 || line[0] != '[' {
		return "", false
	}
	close := strings.IndexByte(line, ']')
	if close < 0 {
		return "", false
	}
	return line[1:close], true
}

// splitMimePair splits a "type/subtype" string into its two components. It
// reports ok == false for a malformed pair (no '/', or an empty subtype).
func splitMimePair(pair string) (mimeType, subType string, ok bool) {
	sep := strings.IndexByte(pair, '/')
	if sep < 0 {
		return "", "", false
	}
	subType = pair[sep+1:]
	if subType == "" {
		return "", "", false
	}
	return pair[:sep], subType, true
}
