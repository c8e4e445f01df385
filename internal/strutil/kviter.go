package strutil

import (
	"iter"
)

// WalkKV iterates over semicolon-separated key=value parameters. Values may be either tokens
// or quoted strings, the latter yielded as is, including quotes. Unquoted values are
// yielded without validating their characters. An error is reported as the
// empty key-value pair (key="" and value=""), such a pair is always the last one.
//
// Note: the passed value MUST be parameters only, without the preceding header value.
func WalkKV(data string) iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for {
			data = LStripWS(data)
			for len(data) > 0 && data[0] == ';' {
				data = LStripWS(data[1:])
			}

			if len(data) == 0 {
				return
			}

			eq := 0
			for eq < len(data) && tokenChars[data[eq]] {
				eq++
			}

			if eq == 0 || eq == len(data) || data[eq] != '=' {
				yield("", "")
				return
			}

			key := data[:eq]
			data = data[eq+1:]

			var (
				value string
				ok    bool
			)

			if len(data) > 0 && data[0] == '"' {
				value, data, ok = cutQuoted(data)
			} else {
				value, data, ok = cutToken(data)
			}

			if !ok {
				yield("", "")
				return
			}

			data = LStripWS(data)
			if len(data) > 0 && data[0] != ';' {
				yield("", "")
				return
			}

			if !yield(key, value) {
				return
			}
		}
	}
}

func cutQuoted(data string) (value, rest string, ok bool) {
	for i := 1; i < len(data); i++ {
		switch data[i] {
		case '\\':
			i++
		case '"':
			return data[:i+1], data[i+1:], true
		}
	}

	return "", "", false
}

// cutToken cuts an unquoted value. Its content isn't validated, that's up to the caller.
func cutToken(data string) (value, rest string, ok bool) {
	i := 0
	for ; i < len(data); i++ {
		if c := data[i]; c == ';' || c == ' ' || c == '\t' || c == '"' {
			break
		}
	}

	return data[:i], data[i:], i > 0
}
