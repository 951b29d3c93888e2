// Package settings provides the key-value settings store used by display
// preferences.
//
// Settings are grouped in sections identified by a GUID string. Each section
// holds typed attributes backed by cty values, which lets the file-backed
// Manager persist them as plain HCL:
//
//	section "6AA691D6-C3B8-4823-87EC-DC2E9134CB3E" {
//	  SyntaxHighlight = true
//	}
//
// A Manager without a path keeps everything in memory.
package settings
