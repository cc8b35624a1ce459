package protocol

import "strings"

// NotAcceptableContent is the body carried by every 406 negotiation response.
const NotAcceptableContent = "Language not supported"

// Negotiate checks lang against the request's accept-language header.
//
// It returns nil when the language is acceptable and a 406 Response
// otherwise. An absent header accepts everything; a string or array of
// strings accepts when any entry matches; any other shape is unacceptable.
func Negotiate(req *Request, lang Language) *Response {
	raw, ok := req.Header(HeaderAcceptLanguage)
	if !ok {
		return nil
	}
	if acceptsAny(raw, lang) {
		return nil
	}
	return &Response{
		Body:     NewBody(NotAcceptableContent),
		Status:   406,
		Resource: req.Resource,
		Language: lang,
	}
}

func acceptsAny(raw any, lang Language) bool {
	switch v := raw.(type) {
	case string:
		return acceptsTag(v, lang)
	case []any:
		for _, entry := range v {
			if s, ok := entry.(string); ok && acceptsTag(s, lang) {
				return true
			}
		}
	case []string:
		for _, s := range v {
			if acceptsTag(s, lang) {
				return true
			}
		}
	}
	return false
}

// acceptsTag matches the wildcard, the rendered tag, or the primary subtag.
func acceptsTag(tag string, lang Language) bool {
	tag = strings.TrimSpace(tag)
	if tag == "*" {
		return true
	}
	if tag == "" {
		return false
	}
	rendered := lang.String()
	if strings.EqualFold(tag, rendered) {
		return true
	}
	primary, _, _ := strings.Cut(rendered, "-")
	want, _, _ := strings.Cut(tag, "-")
	return strings.EqualFold(want, primary)
}
