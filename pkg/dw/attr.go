package dw

import (
	"debug/dwarf"
	"fmt"
)

// Attribute is one attribute of a DIE.
type Attribute struct {
	die   Die
	field dwarf.Field
}

// Clone returns a copy of a.
func (a Attribute) Clone() Attribute {
	return a
}

// Name returns the DW_AT code of the attribute.
func (a Attribute) Name() dwarf.Attr {
	return a.field.Attr
}

// Class returns the DWARF class of the attribute's form.
func (a Attribute) Class() dwarf.Class {
	return a.field.Class
}

// HasClass reports whether the attribute is of class c.
func (a Attribute) HasClass(c dwarf.Class) bool {
	return a.field.Class == c
}

// Die returns the DIE owning the attribute. For attributes found by
// AttrIntegrate this is the DIE at the end of the chain.
func (a Attribute) Die() Die {
	return a.die
}

func (a Attribute) String() string {
	v, err := a.Value()
	if err != nil {
		return fmt.Sprintf("%s=<%v>", a.field.Attr, err)
	}
	return fmt.Sprintf("%s=%s", a.field.Attr, v)
}

// Raw returns the value as decoded by debug/dwarf.
func (a Attribute) Raw() interface{} {
	return a.field.Val
}

func (a Attribute) classError(want string) error {
	return newError(fmt.Sprintf("form %s as %s", a.field.Attr, want), a.die.offsetOrZero(),
		fmt.Errorf("%w: %s", ErrInvalidClass, a.field.Class))
}

// Str returns a string-class value.
func (a Attribute) Str() (string, error) {
	if s, ok := a.field.Val.(string); ok && a.field.Class == dwarf.ClassString {
		return s, nil
	}
	return "", a.classError("string")
}

// Unsigned returns a constant-class or section-offset value as unsigned.
func (a Attribute) Unsigned() (uint64, error) {
	switch a.field.Class {
	case dwarf.ClassConstant,
		dwarf.ClassLinePtr,
		dwarf.ClassLocListPtr,
		dwarf.ClassMacPtr,
		dwarf.ClassRangeListPtr,
		dwarf.ClassAddrPtr,
		dwarf.ClassLocList,
		dwarf.ClassRngList,
		dwarf.ClassRngListsPtr,
		dwarf.ClassStrOffsetsPtr:
		switch v := a.field.Val.(type) {
		case int64:
			return uint64(v), nil
		case uint64:
			return v, nil
		}
	}
	return 0, a.classError("unsigned")
}

// Signed returns a constant-class value as signed.
func (a Attribute) Signed() (int64, error) {
	if a.field.Class == dwarf.ClassConstant {
		switch v := a.field.Val.(type) {
		case int64:
			return v, nil
		case uint64:
			return int64(v), nil
		}
	}
	return 0, a.classError("signed")
}

// Address returns an address-class value.
func (a Attribute) Address() (uint64, error) {
	if v, ok := a.field.Val.(uint64); ok && a.field.Class == dwarf.ClassAddress {
		return v, nil
	}
	return 0, a.classError("address")
}

// Ref returns the DIE a reference-class attribute points at.
func (a Attribute) Ref() (Die, error) {
	switch a.field.Class {
	case dwarf.ClassReference:
		if off, ok := a.field.Val.(dwarf.Offset); ok {
			return a.die.dw.DieAt(off)
		}
	case dwarf.ClassReferenceSig:
		if sig, ok := a.field.Val.(uint64); ok {
			return a.die.dw.typeUnitBySignature(sig)
		}
	}
	return Die{}, a.classError("reference")
}

// Bytes returns a block or exprloc value.
func (a Attribute) Bytes() ([]byte, error) {
	switch a.field.Class {
	case dwarf.ClassBlock, dwarf.ClassExprLoc:
		if b, ok := a.field.Val.([]byte); ok {
			return b, nil
		}
	}
	return nil, a.classError("bytes")
}

// Bool returns a flag value.
func (a Attribute) Bool() (bool, error) {
	if v, ok := a.field.Val.(bool); ok && a.field.Class == dwarf.ClassFlag {
		return v, nil
	}
	return false, a.classError("bool")
}

// ValueKind tells which field of an AttributeValue is set.
type ValueKind int

const (
	KindUnknown ValueKind = iota
	KindString
	KindUnsigned
	KindSigned
	KindAddress
	KindDie
	KindBytes
	KindBool
)

var kindNames = [...]string{"unknown", "string", "unsigned", "signed", "address", "die", "bytes", "bool"}

func (k ValueKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// AttributeValue is the decoded value of an attribute.
type AttributeValue struct {
	Kind  ValueKind
	Str   string
	Uint  uint64
	Int   int64
	Die   Die
	Bytes []byte
	Bool  bool
	Class dwarf.Class // set for every kind
}

func (v AttributeValue) String() string {
	switch v.Kind {
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	case KindUnsigned:
		return fmt.Sprintf("%d", v.Uint)
	case KindSigned:
		return fmt.Sprintf("%d", v.Int)
	case KindAddress:
		return fmt.Sprintf("%#x", v.Uint)
	case KindDie:
		return fmt.Sprintf("<%#x>", uint64(v.Die.Offset()))
	case KindBytes:
		return fmt.Sprintf("[% x]", v.Bytes)
	case KindBool:
		return fmt.Sprintf("%t", v.Bool)
	}
	return fmt.Sprintf("<%s>", v.Class)
}

// Value decodes the attribute according to its class. debug/dwarf does
// not keep the form, so constants are reported as Signed only when they
// are negative.
func (a Attribute) Value() (AttributeValue, error) {
	v := AttributeValue{Class: a.field.Class}
	var err error

	switch a.field.Class {
	case dwarf.ClassAddress:
		v.Kind = KindAddress
		v.Uint, err = a.Address()
	case dwarf.ClassString:
		v.Kind = KindString
		v.Str, err = a.Str()
	case dwarf.ClassReference, dwarf.ClassReferenceSig:
		v.Kind = KindDie
		v.Die, err = a.Ref()
	case dwarf.ClassConstant:
		var n int64
		n, err = a.Signed()
		if n < 0 {
			v.Kind, v.Int = KindSigned, n
		} else {
			v.Kind, v.Uint = KindUnsigned, uint64(n)
		}
	case dwarf.ClassLinePtr, dwarf.ClassLocListPtr, dwarf.ClassMacPtr,
		dwarf.ClassRangeListPtr, dwarf.ClassAddrPtr, dwarf.ClassLocList,
		dwarf.ClassRngList, dwarf.ClassRngListsPtr, dwarf.ClassStrOffsetsPtr:
		v.Kind = KindUnsigned
		v.Uint, err = a.Unsigned()
	case dwarf.ClassFlag:
		v.Kind = KindBool
		v.Bool, err = a.Bool()
	case dwarf.ClassBlock, dwarf.ClassExprLoc:
		v.Kind = KindBytes
		v.Bytes, err = a.Bytes()
	default:
		v.Kind = KindUnknown
	}
	if err != nil {
		return AttributeValue{}, err
	}
	return v, nil
}
