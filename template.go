package glslfx

import (
	"fmt"
	"strings"
)

// Template is an effect body parsed into literal text and parameter
// reference tokens. Parsing happens once at registry construction so that
// composition is a token-list rewrite instead of repeated text scanning.
type Template struct {
	segs []segment
}

// segment is either literal text (param=="") or a parameter reference.
type segment struct {
	lit   string
	param string
}

// ParseTemplate tokenizes body text containing $paramID placeholders.
// Every referenced parameter must appear in params.
func ParseTemplate(body string, params []ParamDecl) (Template, error) {
	known := make(map[string]bool, len(params))
	for _, p := range params {
		known[p.ID] = true
	}
	var t Template
	for {
		i := strings.IndexByte(body, '$')
		if i < 0 {
			break
		}
		if i > 0 {
			t.segs = append(t.segs, segment{lit: body[:i]})
		}
		body = body[i+1:]
		end := 0
		for end < len(body) && isIdentByte(body[end], end > 0) {
			end++
		}
		if end == 0 {
			return Template{}, fmt.Errorf("dangling $ in template body")
		}
		ref := body[:end]
		if !known[ref] {
			return Template{}, fmt.Errorf("template references undeclared parameter $%s", ref)
		}
		t.segs = append(t.segs, segment{param: ref})
		body = body[end:]
	}
	if len(body) > 0 {
		t.segs = append(t.segs, segment{lit: body})
	}
	return t, nil
}

// IsZero reports whether the template holds no tokens at all.
func (t Template) IsZero() bool { return len(t.segs) == 0 }

// Append expands the template into b, rewriting every parameter reference
// through rename. This is the only operation composition performs per body.
func (t Template) Append(b []byte, rename func(paramID string) string) []byte {
	for _, s := range t.segs {
		if s.param == "" {
			b = append(b, s.lit...)
		} else {
			b = append(b, rename(s.param)...)
		}
	}
	return b
}

func isIdentByte(c byte, notFirst bool) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || (notFirst && c >= '0' && c <= '9')
}
