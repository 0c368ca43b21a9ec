package mime

import (
	"errors"
	"fmt"
)

// ErrInvalidMutation is returned when a caller tries to mutate a part
// that cannot currently be drained, e.g. after a prior I/O failure left
// the tree mid-parse (spec.md §7, kind 5).
var ErrInvalidMutation = errors.New("mime: invalid mutation, part cannot be drained")

// childrenContainer is the capability PartChildrenContainer and
// ParsedPartChildrenContainer both implement (spec.md §4.5/§4.6). Rather
// than a base class and a lazy subclass overriding parts of it, two
// independent implementations share this interface; the lazy one
// delegates to a plain slice-backed implementation once it has finished
// draining, per the "replace inheritance with composition" guidance.
type childrenContainer interface {
	// childAt returns the i-th direct child (0-based), pulling more
	// input as needed. Returns nil once there is no such child and no
	// more can be parsed.
	childAt(i int) *Part
	count() int // number of children materialized so far (no pulling)
	allParsed() bool

	addChild(p *Part, position int) error
	removePart(p *Part) (bool, error)

	getAllParts(f Filter) []*Part
	getChildParts(f Filter) []*Part
	getIterator(f Filter) []*Part

	drain() error
}

// --- eager implementation -------------------------------------------------

// eagerChildren is a plain ordered slice of children. It's the base
// every lazy container delegates to once fully drained, and is used
// directly by leaf-like containers that never have more to pull (a
// non-multipart part with no uuencode children, for instance).
type eagerChildren struct {
	owner    *Part
	children []*Part
}

func newEagerChildren(owner *Part) *eagerChildren {
	return &eagerChildren{owner: owner}
}

func (c *eagerChildren) childAt(i int) *Part {
	if i < 0 || i >= len(c.children) {
		return nil
	}
	return c.children[i]
}

func (c *eagerChildren) count() int       { return len(c.children) }
func (c *eagerChildren) allParsed() bool  { return true }
func (c *eagerChildren) drain() error     { return nil }

func (c *eagerChildren) addChild(p *Part, position int) error {
	p.parent = c.owner
	if position < 0 || position >= len(c.children) {
		c.children = append(c.children, p)
	} else {
		c.children = append(c.children, nil)
		copy(c.children[position+1:], c.children[position:])
		c.children[position] = p
	}
	renumberSiblings(c.owner, c.children)
	return nil
}

func (c *eagerChildren) removePart(target *Part) (bool, error) {
	for i, ch := range c.children {
		if ch == target {
			c.children = append(c.children[:i], c.children[i+1:]...)
			renumberSiblings(c.owner, c.children)
			return true, nil
		}
		if removeDescendant(ch, target) {
			return true, nil
		}
	}
	return false, nil
}

// removeDescendant searches ch's own children for target, recursively.
func removeDescendant(ch *Part, target *Part) bool {
	if ch.children == nil {
		return false
	}
	ok, _ := ch.children.removePart(target)
	return ok
}

func renumberSiblings(owner *Part, children []*Part) {
	for i, ch := range children {
		ch.assignNodePath(i + 1)
	}
	_ = owner
}

func (c *eagerChildren) getAllParts(f Filter) []*Part {
	var out []*Part
	if matches(c.owner, f) {
		out = append(out, c.owner)
	}
	for _, ch := range c.children {
		out = append(out, ch.getAllPartsFromSelf(f)...)
	}
	return out
}

func (p *Part) getAllPartsFromSelf(f Filter) []*Part {
	if p.children == nil {
		if matches(p, f) {
			return []*Part{p}
		}
		return nil
	}
	return p.children.getAllParts(f)
}

func (c *eagerChildren) getChildParts(f Filter) []*Part {
	var out []*Part
	for _, ch := range c.children {
		if matches(ch, f) {
			out = append(out, ch)
		}
	}
	return out
}

func (c *eagerChildren) getIterator(f Filter) []*Part {
	return c.getAllParts(f)
}

// --- lazy (MIME boundary-driven) implementation ---------------------------

// lazyChildren is the ParsedPartChildrenContainer of spec.md §4.6: it
// drains a parserProxy on demand, one child at a time, and delegates to
// an eagerChildren once allPartsParsed is true.
type lazyChildren struct {
	owner *Part
	base  *eagerChildren
	proxy childSource

	allPartsParsed bool
}

func newLazyChildren(owner *Part, proxy childSource) *lazyChildren {
	return &lazyChildren{owner: owner, base: newEagerChildren(owner), proxy: proxy}
}

func (c *lazyChildren) allParsed() bool { return c.allPartsParsed }
func (c *lazyChildren) count() int      { return c.base.count() }

// childAt is the only place that performs partial, bounded draining: it
// pulls just enough new children to answer the i-th direct child.
func (c *lazyChildren) childAt(i int) *Part {
	for i >= c.base.count() && !c.allPartsParsed {
		if _, err := c.parseNextPart(); err != nil {
			return nil
		}
	}
	return c.base.childAt(i)
}

func (c *lazyChildren) drain() error {
	for !c.allPartsParsed {
		if _, err := c.parseNextPart(); err != nil {
			return err
		}
	}
	return nil
}

func (c *lazyChildren) addChild(p *Part, position int) error {
	if err := c.drain(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidMutation, err)
	}
	return c.base.addChild(p, position)
}

func (c *lazyChildren) removePart(p *Part) (bool, error) {
	if err := c.drain(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrInvalidMutation, err)
	}
	return c.base.removePart(p)
}

func (c *lazyChildren) getAllParts(f Filter) []*Part {
	_ = c.drain()
	return c.base.getAllParts(f)
}

func (c *lazyChildren) getChildParts(f Filter) []*Part {
	_ = c.drain()
	return c.base.getChildParts(f)
}

func (c *lazyChildren) getIterator(f Filter) []*Part {
	_ = c.drain()
	return c.base.getIterator(f)
}

// parseNextPart is the private step from spec.md §4.6: resolve the
// owner's content end if the owner is the root, fully expand the
// previous sibling's subtree so the read cursor sits at a sibling
// boundary, then ask the proxy for the next child.
func (c *lazyChildren) parseNextPart() (*Part, error) {
	if c.allPartsParsed {
		return nil, nil
	}
	// A nested owner's content end is found by its parent's scan, which
	// drains this same container first, so resolving it from here would
	// recurse without end; only the root's end (EOF) is resolved here.
	if c.owner.parent == nil {
		if err := c.owner.resolveContent(); err != nil {
			return nil, err
		}
	}
	if n := c.base.count(); n > 0 {
		if err := fullyExpand(c.base.children[n-1]); err != nil {
			return nil, err
		}
	}
	child, done, err := c.proxy.readNextChild(c.base.lastOrNil())
	if err != nil {
		return nil, err
	}
	if done {
		c.allPartsParsed = true
		return nil, nil
	}
	if child == nil {
		c.allPartsParsed = true
		return nil, nil
	}
	_ = c.base.addChild(child, -1)
	return child, nil
}

func (c *eagerChildren) lastOrNil() *Part {
	if len(c.children) == 0 {
		return nil
	}
	return c.children[len(c.children)-1]
}

// fullyExpand recursively drains part's own children container (if any)
// and every descendant's, so that the shared source's read cursor ends
// up positioned past part's entire subtree.
func fullyExpand(part *Part) error {
	if part.children == nil {
		return nil
	}
	if err := part.children.drain(); err != nil {
		return err
	}
	for _, ch := range part.directChildren() {
		if err := fullyExpand(ch); err != nil {
			return err
		}
	}
	return nil
}

// directChildren returns whatever children have been materialized so far
// without triggering further lazy draining (the caller is expected to
// have already drained if it needs completeness).
func (p *Part) directChildren() []*Part {
	switch c := p.children.(type) {
	case *eagerChildren:
		return c.children
	case *lazyChildren:
		return c.base.children
	default:
		return nil
	}
}
