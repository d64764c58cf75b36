package gamepad

import "github.com/aidoo/vpad/hid"

// ReportDescriptor describes four direction buttons and A/B, each followed by
// constant padding, in one 8-bit input report.
var ReportDescriptor = hid.Report{Items: []hid.Item{
	hid.UsagePage(hid.UsagePageGenericDesktop),
	hid.Usage(hid.UsageGamePad),
	hid.Collection(hid.CollectionApplication),

	// up, down, left, right
	hid.UsagePage(hid.UsagePageButton),
	hid.UsageMinimum(1),
	hid.UsageMaximum(4),
	hid.LogicalMinimum(0),
	hid.LogicalMaximum(1),
	hid.ReportSize(1),
	hid.ReportCount(4),
	hid.Input(hid.FlagData | hid.FlagVariable | hid.FlagAbsolute),

	hid.ReportSize(1),
	hid.ReportCount(4),
	hid.Input(hid.FlagConstant | hid.FlagVariable | hid.FlagAbsolute),

	// A, B
	hid.UsagePage(hid.UsagePageButton),
	hid.UsageMinimum(5),
	hid.UsageMaximum(6),
	hid.LogicalMinimum(0),
	hid.LogicalMaximum(1),
	hid.ReportSize(1),
	hid.ReportCount(2),
	hid.Input(hid.FlagData | hid.FlagVariable | hid.FlagAbsolute),

	hid.ReportSize(1),
	hid.ReportCount(6),
	hid.Input(hid.FlagConstant | hid.FlagVariable | hid.FlagAbsolute),

	hid.EndCollection{},
}}

// DescriptorBytes is the encoded ReportDescriptor registered with the profile.
var DescriptorBytes = ReportDescriptor.MustBytes()
