// Copyright 2026 The BRS-Go Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package brs

import (
	"fmt"

	"github.com/brsgo/brs/internal/base"
	"github.com/brsgo/brs/internal/bitstream"
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/redact"
)

// PropertyType is the type of a component property. Its String form is the
// type tag stored in the component schema.
type PropertyType uint8

// The property types.
const (
	PropertyClass PropertyType = iota
	PropertyObject
	PropertyString
	PropertyBoolean
	PropertyFloat
	PropertyInteger
	PropertyByte
	PropertyColor
	PropertyRotator
	numPropertyTypes
)

var propertyTypeTags = [numPropertyTypes]string{
	PropertyClass:   "Class",
	PropertyObject:  "Object",
	PropertyString:  "String",
	PropertyBoolean: "Boolean",
	PropertyFloat:   "Float",
	PropertyInteger: "Integer",
	PropertyByte:    "Byte",
	PropertyColor:   "Color",
	PropertyRotator: "Rotator",
}

// Valid returns true if t is a known property type.
func (t PropertyType) Valid() bool { return t < numPropertyTypes }

func (t PropertyType) String() string {
	if t.Valid() {
		return propertyTypeTags[t]
	}
	return fmt.Sprintf("PropertyType(%d)", uint8(t))
}

// SafeValue implements redact.SafeValue.
func (PropertyType) SafeValue() {}

var _ redact.SafeValue = PropertyType(0)

// ParsePropertyType returns the property type with the given schema tag. An
// unknown tag is an error marked ErrInvalidEnumValue.
func ParsePropertyType(tag string) (PropertyType, error) {
	for t, s := range propertyTypeTags {
		if s == tag {
			return PropertyType(t), nil
		}
	}
	return 0, base.InvalidEnumf("brs: unknown property type %q", tag)
}

// Value is a component property value. The set of implementations is closed:
// ClassValue, ObjectValue, StringValue, BoolValue, FloatValue, IntValue,
// ByteValue, ColorValue and RotatorValue.
type Value interface {
	// Type returns the property type the value is stored as.
	Type() PropertyType
	encode(w *bitstream.Writer)
}

// ClassValue is a class path.
type ClassValue string

// ObjectValue is an object path.
type ObjectValue string

// StringValue is a string.
type StringValue string

// BoolValue is a boolean, stored as a 32-bit integer.
type BoolValue bool

// FloatValue is a 32-bit float.
type FloatValue float32

// IntValue is a 32-bit signed integer.
type IntValue int32

// ByteValue is a single byte.
type ByteValue uint8

// ColorValue is a color, stored in BGRA order.
type ColorValue Color

// RotatorValue is an engine rotator in degrees.
type RotatorValue struct {
	Pitch, Yaw, Roll float32
}

func (ClassValue) Type() PropertyType   { return PropertyClass }
func (ObjectValue) Type() PropertyType  { return PropertyObject }
func (StringValue) Type() PropertyType  { return PropertyString }
func (BoolValue) Type() PropertyType    { return PropertyBoolean }
func (FloatValue) Type() PropertyType   { return PropertyFloat }
func (IntValue) Type() PropertyType     { return PropertyInteger }
func (ByteValue) Type() PropertyType    { return PropertyByte }
func (ColorValue) Type() PropertyType   { return PropertyColor }
func (RotatorValue) Type() PropertyType { return PropertyRotator }

func (v ClassValue) encode(w *bitstream.Writer)  { w.WriteString(string(v)) }
func (v ObjectValue) encode(w *bitstream.Writer) { w.WriteString(string(v)) }
func (v StringValue) encode(w *bitstream.Writer) { w.WriteString(string(v)) }
func (v FloatValue) encode(w *bitstream.Writer)  { w.WriteFloat32(float32(v)) }
func (v IntValue) encode(w *bitstream.Writer)    { w.WriteInt32(int32(v)) }
func (v ByteValue) encode(w *bitstream.Writer)   { w.WriteBytes([]byte{byte(v)}) }

func (v BoolValue) encode(w *bitstream.Writer) {
	if v {
		w.WriteInt32(1)
	} else {
		w.WriteInt32(0)
	}
}

func (v ColorValue) encode(w *bitstream.Writer) {
	w.WriteBytes([]byte{v.B, v.G, v.R, v.A})
}

func (v RotatorValue) encode(w *bitstream.Writer) {
	w.WriteFloat32(v.Pitch)
	w.WriteFloat32(v.Yaw)
	w.WriteFloat32(v.Roll)
}

// readValue decodes a value of type t.
func readValue(r *bitstream.Reader, t PropertyType) (Value, error) {
	switch t {
	case PropertyClass, PropertyObject, PropertyString:
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		switch t {
		case PropertyClass:
			return ClassValue(s), nil
		case PropertyObject:
			return ObjectValue(s), nil
		}
		return StringValue(s), nil
	case PropertyBoolean:
		v, err := r.ReadInt32()
		return BoolValue(v != 0), err
	case PropertyFloat:
		v, err := r.ReadFloat32()
		return FloatValue(v), err
	case PropertyInteger:
		v, err := r.ReadInt32()
		return IntValue(v), err
	case PropertyByte:
		var b [1]byte
		err := r.ReadBytes(b[:])
		return ByteValue(b[0]), err
	case PropertyColor:
		var b [4]byte
		if err := r.ReadBytes(b[:]); err != nil {
			return nil, err
		}
		return ColorValue{B: b[0], G: b[1], R: b[2], A: b[3]}, nil
	case PropertyRotator:
		var v RotatorValue
		var err error
		if v.Pitch, err = r.ReadFloat32(); err != nil {
			return nil, err
		}
		if v.Yaw, err = r.ReadFloat32(); err != nil {
			return nil, err
		}
		if v.Roll, err = r.ReadFloat32(); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, base.InvalidEnumf("brs: unknown property type %s", t)
	}
}

// Properties maps property names to values for one brick and component.
type Properties map[string]Value

// PropertySchema names a component property and its type.
type PropertySchema struct {
	Name string
	Type PropertyType
}

// Component is the document-level schema of a component. The order of
// Properties is the order in which each brick's values are stored.
type Component struct {
	Version    int32
	Properties []PropertySchema
	// BrickIndices lists the bricks carrying the component, in ascending
	// order. Writers recompute it from SaveData.Bricks.
	BrickIndices []uint32
}

// DefaultComponentVersion is the version of a component registered without
// one.
const DefaultComponentVersion = 1

// Property returns the schema entry with the given name.
func (c *Component) Property(name string) (PropertySchema, bool) {
	for _, p := range c.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return PropertySchema{}, false
}

// checkProperties verifies that props holds exactly one value of the schema
// type for every property of c.
func (c *Component) checkProperties(component string, props Properties) error {
	for _, p := range c.Properties {
		v, ok := props[p.Name]
		if !ok || v == nil {
			return base.BrokenReferencef("brs: component %q is missing property %q",
				errors.Safe(component), errors.Safe(p.Name))
		}
		if v.Type() != p.Type {
			return base.BrokenReferencef("brs: component %q property %q is %s, schema type is %s",
				errors.Safe(component), errors.Safe(p.Name), v.Type(), p.Type)
		}
	}
	if len(props) != len(c.Properties) {
		for name := range props {
			if _, ok := c.Property(name); !ok {
				return base.BrokenReferencef("brs: component %q has no property %q",
					errors.Safe(component), errors.Safe(name))
			}
		}
	}
	return nil
}
