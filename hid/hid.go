// Package hid models HID report descriptors as a list of typed items and
// encodes them to the descriptor byte stream a host parses.
package hid

import (
	"fmt"
)

// Data is a HID item payload.
type Data []uint8

// ItemType is the short item "type" field (HID 1.11 §6.2.2.2).
type ItemType uint8

const (
	ItemTypeMain   ItemType = 0
	ItemTypeGlobal ItemType = 1
	ItemTypeLocal  ItemType = 2
)

// Main item tags.
const (
	tagInput         uint8 = 0x8
	tagOutput        uint8 = 0x9
	tagFeature       uint8 = 0xB
	tagCollection    uint8 = 0xA
	tagEndCollection uint8 = 0xC
)

// Global item tags.
const (
	tagUsagePage      uint8 = 0x0
	tagLogicalMinimum uint8 = 0x1
	tagLogicalMaximum uint8 = 0x2
	tagReportSize     uint8 = 0x7
	tagReportID       uint8 = 0x8
	tagReportCount    uint8 = 0x9
)

// Local item tags.
const (
	tagUsage        uint8 = 0x0
	tagUsageMinimum uint8 = 0x1
	tagUsageMaximum uint8 = 0x2
)

// Usage pages.
const (
	UsagePageGenericDesktop uint16 = 0x01
	UsagePageButton         uint16 = 0x09
)

// Generic desktop usages.
const (
	UsageJoystick uint16 = 0x04
	UsageGamePad  uint16 = 0x05
)

// Collection kinds.
const (
	CollectionPhysical    uint8 = 0x00
	CollectionApplication uint8 = 0x01
	CollectionLogical     uint8 = 0x02
)

// Main item flags, bit 0..2 of Input/Output/Feature data.
const (
	FlagData     uint8 = 0x00
	FlagConstant uint8 = 0x01
	FlagArray    uint8 = 0x00
	FlagVariable uint8 = 0x02
	FlagAbsolute uint8 = 0x00
	FlagRelative uint8 = 0x04
)

// Item is one element of a report descriptor.
type Item interface {
	encode(e *encoder) error
}

// Report is a complete report descriptor.
type Report struct {
	Items []Item
}

// Bytes encodes the descriptor.
func (r Report) Bytes() (Data, error) {
	e := &encoder{}
	depth := 0
	for i, it := range r.Items {
		if it == nil {
			return nil, fmt.Errorf("hid: nil item at %d", i)
		}
		switch it.(type) {
		case Collection:
			depth++
		case EndCollection:
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("hid: unbalanced end collection at %d", i)
			}
		}
		if err := it.encode(e); err != nil {
			return nil, err
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("hid: %d unclosed collection(s)", depth)
	}
	return Data(e.buf), nil
}

// MustBytes is Bytes for descriptors that are fixed at compile time.
func (r Report) MustBytes() Data {
	b, err := r.Bytes()
	if err != nil {
		panic(err)
	}
	return b
}

type UsagePage uint16

func (u UsagePage) encode(e *encoder) error {
	return e.short(tagUsagePage, ItemTypeGlobal, dataU32(uint32(u)))
}

type Usage uint16

func (u Usage) encode(e *encoder) error {
	return e.short(tagUsage, ItemTypeLocal, dataU32(uint32(u)))
}

type UsageMinimum uint16

func (u UsageMinimum) encode(e *encoder) error {
	return e.short(tagUsageMinimum, ItemTypeLocal, dataU32(uint32(u)))
}

type UsageMaximum uint16

func (u UsageMaximum) encode(e *encoder) error {
	return e.short(tagUsageMaximum, ItemTypeLocal, dataU32(uint32(u)))
}

type LogicalMinimum int32

func (l LogicalMinimum) encode(e *encoder) error {
	return e.short(tagLogicalMinimum, ItemTypeGlobal, dataI32(int32(l)))
}

type LogicalMaximum int32

func (l LogicalMaximum) encode(e *encoder) error {
	return e.short(tagLogicalMaximum, ItemTypeGlobal, dataI32(int32(l)))
}

type ReportSize uint8

func (r ReportSize) encode(e *encoder) error {
	return e.short(tagReportSize, ItemTypeGlobal, Data{uint8(r)})
}

type ReportCount uint8

func (r ReportCount) encode(e *encoder) error {
	return e.short(tagReportCount, ItemTypeGlobal, Data{uint8(r)})
}

type ReportID uint8

func (r ReportID) encode(e *encoder) error {
	if r == 0 {
		return fmt.Errorf("hid: report id 0 is reserved")
	}
	return e.short(tagReportID, ItemTypeGlobal, Data{uint8(r)})
}

// Collection opens a collection; close it with EndCollection.
type Collection uint8

func (c Collection) encode(e *encoder) error {
	return e.short(tagCollection, ItemTypeMain, Data{uint8(c)})
}

type EndCollection struct{}

func (EndCollection) encode(e *encoder) error {
	return e.short(tagEndCollection, ItemTypeMain, nil)
}

// Input declares input fields with the given flags.
type Input uint8

func (i Input) encode(e *encoder) error {
	return e.short(tagInput, ItemTypeMain, Data{uint8(i)})
}

type Output uint8

func (o Output) encode(e *encoder) error {
	return e.short(tagOutput, ItemTypeMain, Data{uint8(o)})
}

type Feature uint8

func (f Feature) encode(e *encoder) error {
	return e.short(tagFeature, ItemTypeMain, Data{uint8(f)})
}

// Raw is an escape hatch for items this package has no type for.
type Raw struct {
	Type ItemType
	Tag  uint8
	Data Data
}

func (r Raw) encode(e *encoder) error {
	return e.short(r.Tag, r.Type, r.Data)
}

type encoder struct {
	buf []byte
}

func (e *encoder) short(tag uint8, typ ItemType, data Data) error {
	var sizeCode uint8
	switch len(data) {
	case 0:
		sizeCode = 0
	case 1:
		sizeCode = 1
	case 2:
		sizeCode = 2
	case 4:
		sizeCode = 3
	default:
		return fmt.Errorf("hid: short item data must be 0/1/2/4 bytes, got %d", len(data))
	}
	e.buf = append(e.buf, (tag<<4)|(uint8(typ)<<2)|sizeCode)
	e.buf = append(e.buf, data...)
	return nil
}

func dataU32(v uint32) Data {
	if v <= 0xFF {
		return Data{uint8(v)}
	}
	if v <= 0xFFFF {
		return Data{uint8(v), uint8(v >> 8)}
	}
	return Data{uint8(v), uint8(v >> 8), uint8(v >> 16), uint8(v >> 24)}
}

func dataI32(v int32) Data {
	if v >= -128 && v <= 127 {
		return Data{uint8(v)}
	}
	if v >= -32768 && v <= 32767 {
		uv := uint16(int16(v))
		return Data{uint8(uv), uint8(uv >> 8)}
	}
	uv := uint32(v)
	return Data{uint8(uv), uint8(uv >> 8), uint8(uv >> 16), uint8(uv >> 24)}
}
