package model

import (
	"fmt"
	"strings"
)

// Category is the closed set of jewelry categories. The zero value means
// "no category" and is never valid on a record.
type Category uint8

const (
	Necklace Category = iota + 1
	Earrings
	Bracelet
	Ring
	Anklet
	Pendant
	Set
	Other

	numCategories = iota
)

// Categories returns every category in display order.
func Categories() []Category {
	out := make([]Category, 0, numCategories)
	for c := Necklace; c <= Other; c++ {
		out = append(out, c)
	}
	return out
}

// String returns the display label.
func (c Category) String() string {
	switch c {
	case Necklace:
		return "Necklace"
	case Earrings:
		return "Earrings"
	case Bracelet:
		return "Bracelet"
	case Ring:
		return "Ring"
	case Anklet:
		return "Anklet"
	case Pendant:
		return "Pendant"
	case Set:
		return "Set"
	case Other:
		return "Other"
	}
	return fmt.Sprintf("Category(%d)", uint8(c))
}

// Valid reports whether c is a member of the enumeration.
func (c Category) Valid() bool {
	return c >= Necklace && c <= Other
}

// ParseCategory maps a label to its Category. Matching ignores case; any
// other value is rejected.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if strings.EqualFold(s, c.String()) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid category %d", uint8(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	v, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// OutfitType is the closed set of outfit styles an item suits. The zero
// value means "no outfit type".
type OutfitType uint8

const (
	Casual OutfitType = iota + 1
	Formal
	Party
	Wedding
	Traditional
	Ethnic
	Western
	Festive
	Everyday

	numOutfitTypes = iota
)

// OutfitTypes returns every outfit type in display order.
func OutfitTypes() []OutfitType {
	out := make([]OutfitType, 0, numOutfitTypes)
	for o := Casual; o <= Everyday; o++ {
		out = append(out, o)
	}
	return out
}

func (o OutfitType) String() string {
	switch o {
	case Casual:
		return "Casual"
	case Formal:
		return "Formal"
	case Party:
		return "Party"
	case Wedding:
		return "Wedding"
	case Traditional:
		return "Traditional"
	case Ethnic:
		return "Ethnic"
	case Western:
		return "Western"
	case Festive:
		return "Festive"
	case Everyday:
		return "Everyday"
	}
	return fmt.Sprintf("OutfitType(%d)", uint8(o))
}

// Valid reports whether o is a member of the enumeration.
func (o OutfitType) Valid() bool {
	return o >= Casual && o <= Everyday
}

// ParseOutfitType maps a label to its OutfitType, ignoring case.
func ParseOutfitType(s string) (OutfitType, error) {
	s = strings.TrimSpace(s)
	for _, o := range OutfitTypes() {
		if strings.EqualFold(s, o.String()) {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown outfit type %q", s)
}

// ParseOutfitTypes parses a list of labels into a de-duplicated set that
// keeps first-seen order. The first unknown label fails the whole list.
func ParseOutfitTypes(labels []string) ([]OutfitType, error) {
	out := make([]OutfitType, 0, len(labels))
	seen := make(map[OutfitType]bool, len(labels))
	for _, l := range labels {
		o, err := ParseOutfitType(l)
		if err != nil {
			return nil, err
		}
		if !seen[o] {
			seen[o] = true
			out = append(out, o)
		}
	}
	return out, nil
}

// MarshalText implements encoding.TextMarshaler.
func (o OutfitType) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("invalid outfit type %d", uint8(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *OutfitType) UnmarshalText(b []byte) error {
	v, err := ParseOutfitType(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}
