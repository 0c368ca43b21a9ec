package mime

import "strings"

// Filter is a predicate over a Part, used during traversal (spec.md
// §4.10). A nil Filter matches everything.
//
// Modeled as a small stateless value object with a single Matches method
// rather than a bare function value, the way the teacher represents its
// StreamDecorator stages as values instead of capturing closures over a
// dynamic environment - it keeps filters composable and inspectable.
type Filter interface {
	Matches(p *Part) bool
}

// FilterFunc adapts a plain function to Filter.
type FilterFunc func(p *Part) bool

func (f FilterFunc) Matches(p *Part) bool { return f(p) }

func matches(p *Part, f Filter) bool {
	if f == nil {
		return true
	}
	return f.Matches(p)
}

// And returns a Filter matching only when every given filter matches.
func And(filters ...Filter) Filter {
	return FilterFunc(func(p *Part) bool {
		for _, f := range filters {
			if !matches(p, f) {
				return false
			}
		}
		return true
	})
}

// Or returns a Filter matching when any given filter matches.
func Or(filters ...Filter) Filter {
	return FilterFunc(func(p *Part) bool {
		for _, f := range filters {
			if matches(p, f) {
				return true
			}
		}
		return false
	})
}

// Not negates a filter.
func Not(f Filter) Filter {
	return FilterFunc(func(p *Part) bool { return !matches(p, f) })
}

// ContentTypeFilter matches parts whose Content-Type equals typ exactly
// ("text/plain") or, if typ has no "/", whose super-type equals typ
// ("text", "image").
func ContentTypeFilter(typ string) Filter {
	typ = strings.ToLower(typ)
	return FilterFunc(func(p *Part) bool {
		if strings.Contains(typ, "/") {
			return p.contentType == typ
		}
		super, _, _ := strings.Cut(p.contentType, "/")
		return super == typ
	})
}

// DispositionFilter matches parts whose Content-Disposition equals disp
// ("inline", "attachment").
func DispositionFilter(disp string) Filter {
	disp = strings.ToLower(disp)
	return FilterFunc(func(p *Part) bool {
		return strings.ToLower(p.disposition) == disp
	})
}

// AttachmentFilter matches parts that are not multipart containers and
// are either explicitly marked as attachments, or carry a file name
// without an inline Content-Disposition.
func AttachmentFilter() Filter {
	return FilterFunc(func(p *Part) bool {
		if p.IsMultipart() {
			return false
		}
		if strings.EqualFold(p.disposition, "attachment") {
			return true
		}
		if p.fileName != "" && !strings.EqualFold(p.disposition, "inline") {
			return true
		}
		return false
	})
}

// InlineFilter matches every part AttachmentFilter does not, multipart
// containers included.
func InlineFilter() Filter {
	return Not(AttachmentFilter())
}

// IncludeMultipart controls whether multipart container parts can match
// f. With include false, containers never match, whatever f says; with
// include true, f's own verdict is used for them unchanged, so a filter
// that already rejects containers (AttachmentFilter) still rejects them.
func IncludeMultipart(f Filter, include bool) Filter {
	return FilterFunc(func(p *Part) bool {
		if p.IsMultipart() && !include {
			return false
		}
		return matches(p, f)
	})
}
