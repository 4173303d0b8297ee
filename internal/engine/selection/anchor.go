package selection

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadAnchor indicates an anchor a Resolver cannot interpret.
var ErrBadAnchor = errors.New("selection: bad anchor")

// Anchor is a concrete location in an external view: an element key and an
// offset inside that element.
type Anchor struct {
	Key    string
	Offset int
}

// AnchorRange is a view selection between two anchors.
type AnchorRange struct {
	Start Anchor
	End   Anchor
}

// Resolver translates between position markers and view anchors.
type Resolver interface {
	PositionToAnchor(m Marker) (Anchor, error)
	AnchorToPosition(a Anchor) (Marker, error)
}

// KeyResolver keys each node's view element by prefix plus its start
// position, e.g. "_aditor-12".
type KeyResolver struct {
	Prefix string
}

// DefaultKeyPrefix is the element key prefix used by NewKeyResolver.
const DefaultKeyPrefix = "_aditor-"

// NewKeyResolver returns a KeyResolver with the default prefix.
func NewKeyResolver() KeyResolver {
	return KeyResolver{Prefix: DefaultKeyPrefix}
}

// Key returns the element key of the node starting at pos.
func (k KeyResolver) Key(pos int) string {
	return k.Prefix + strconv.Itoa(pos)
}

// PositionToAnchor implements Resolver.
func (k KeyResolver) PositionToAnchor(m Marker) (Anchor, error) {
	return Anchor{Key: k.Key(m.Position), Offset: m.Offset}, nil
}

// AnchorToPosition implements Resolver.
func (k KeyResolver) AnchorToPosition(a Anchor) (Marker, error) {
	rest, ok := strings.CutPrefix(a.Key, k.Prefix)
	if !ok {
		return Marker{}, fmt.Errorf("%w: %q", ErrBadAnchor, a.Key)
	}
	pos, err := strconv.Atoi(rest)
	if err != nil {
		return Marker{}, fmt.Errorf("%w: %q: %v", ErrBadAnchor, a.Key, err)
	}
	return Marker{Position: pos, Offset: a.Offset}, nil
}

// ToAnchors converts a position range through r.
func ToAnchors(r Resolver, rg Range) (AnchorRange, error) {
	s, err := r.PositionToAnchor(rg.StartMarker())
	if err != nil {
		return AnchorRange{}, err
	}
	e, err := r.PositionToAnchor(rg.EndMarker())
	if err != nil {
		return AnchorRange{}, err
	}
	return AnchorRange{Start: s, End: e}, nil
}

// FromAnchors converts a view selection through r.
func FromAnchors(r Resolver, ar AnchorRange) (Range, error) {
	s, err := r.AnchorToPosition(ar.Start)
	if err != nil {
		return Range{}, err
	}
	e, err := r.AnchorToPosition(ar.End)
	if err != nil {
		return Range{}, err
	}
	return Between(s, e), nil
}
