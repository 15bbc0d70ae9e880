// ============================================================================
// hl7view - HL7 v2 Message Inspector
// ============================================================================
//
// Package:     report
// Description: Fixed schema summary report over a decoded pharmacy order
//              message, with mapping overrides and typed rows
// Author:      msto63
// Created:     2025-12-06
// License:     MIT
// ============================================================================

package report

import (
	"strings"
)

// Kind selects how a row value is coerced and rendered
type Kind int

const (
	// Text is rendered single-quoted
	Text Kind = iota
	// Unescaped is Text after HL7 escape sequences are replaced
	Unescaped
	// Number is rendered with fixed decimals, 0 when missing
	Number
	// Timestamp is rendered with the display layout or the null token
	Timestamp
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case Text:
		return "text"
	case Unescaped:
		return "unescaped"
	case Number:
		return "number"
	case Timestamp:
		return "timestamp"
	default:
		return "unknown"
	}
}

// MarshalText encodes the kind by name
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Source is one candidate for a row value. With a Key the mapping table
// may override Path; without one Path is read directly.
type Source struct {
	Key  string `json:"key,omitempty" yaml:"key,omitempty"`
	Path string `json:"path" yaml:"path"`
}

// Row is one report line. With several sources the first non-blank value
// wins.
type Row struct {
	Name    string   `json:"name" yaml:"name"`
	Kind    Kind     `json:"kind" yaml:"kind"`
	Sources []Source `json:"sources" yaml:"sources"`
}

// GroupPolicy is the chain of sources tried for the group name
type GroupPolicy []Source

// DefaultGroupPolicy prefers MSH-8 and falls back to the message code
func DefaultGroupPolicy() GroupPolicy {
	return GroupPolicy{
		{Key: "GroupName", Path: "/MSH-8"},
		{Key: "GroupFromMessageType", Path: "/MSH-9-1"},
	}
}

// TrailerTable is a repeating table announced after the rows
type TrailerTable struct {
	Name       string
	CaptionKey string
	Caption    string
}

// Schema describes a complete report
type Schema struct {
	Group   GroupPolicy
	Rows    []Row
	Trailer []TrailerTable
	// Note is the single row of the last trailer table
	Note string
}

func mapped(name string, kind Kind, path string) Row {
	return Row{Name: name, Kind: kind, Sources: []Source{{Key: name, Path: path}}}
}

// DefaultSchema returns the pharmacy order report layout
func DefaultSchema() Schema {
	return Schema{
		Group: DefaultGroupPolicy(),
		Rows: []Row{
			mapped("MSHSendingApp", Text, "/MSH-3"),
			mapped("MSHSendingFacility", Text, "/MSH-4"),
			mapped("MSHReceivingApp", Text, "/MSH-5"),
			mapped("MSHReceivingFacility", Text, "/MSH-6"),
			mapped("MSHMessageControlID", Text, "/MSH-10"),
			mapped("MSHProcessingID", Text, "/MSH-11"),
			mapped("MSHVersionID", Text, "/MSH-12"),
			{Name: "MSHSequenceID", Kind: Number, Sources: []Source{{Path: "/MSH-13"}}},

			mapped("PIDFamilyName", Text, "/PID-5-1"),
			mapped("PIDGivenName", Text, "/PID-5-2"),
			mapped("PIDAccountNumber", Text, "/PID-18"),
			mapped("PIDMedRec", Unescaped, "/PID-3"),

			mapped("PV1PointofCare", Text, "/PV1-3-1"),
			mapped("PV1Room", Text, "/PV1-3-2"),
			mapped("PV1DischargeDate", Timestamp, "/PV1-45"),
			mapped("PV1AdmitDate", Timestamp, "/PV1-44"),
			mapped("PV1HospitalService", Text, "/PV1-10"),
			mapped("PV1PatientClass", Text, "/PV1-2"),

			mapped("ORCOrdercontrol", Text, "/ORC-1"),
			mapped("ORCPrescriptionNum", Text, "/ORC-3"),
			mapped("ORCStartDate", Timestamp, "/ORC-7"),
			mapped("ORCStopDate", Timestamp, "/ORC-8"),
			mapped("ORCIntervalFreq", Text, "/ORC-4"),
			mapped("ORCIntervalTime", Text, "/ORC-5"),
			mapped("ORCCondition", Text, "/ORC-6"),
			mapped("ORCTransactionDate", Timestamp, "/ORC-9"),
			mapped("ORCVerifiedBy", Text, "/ORC-11-1"),
			{Name: "ORCOrderingProvider", Kind: Text, Sources: []Source{
				{Key: "ORCOrderingProviderGiven", Path: "/ORC-12-3"},
				{Key: "ORCOrderingProviderFamily", Path: "/ORC-12-2"},
				{Key: "ORCOrderingProviderId", Path: "/ORC-12-1"},
			}},

			mapped("RXEQuantity", Number, "/RXE-10"),
			mapped("RXEGiveCodeText", Text, "/RXE-3-2"),
			mapped("RXEGiveCodeID", Text, "/RXE-3-1"),
			mapped("RXEGiveMin", Number, "/RXE-11"),
			mapped("RXEGiveMax", Number, "/RXE-12"),
			mapped("RXEGiveUnit", Text, "/RXE-13"),
			mapped("RXEDosageForm", Text, "/RXE-2"),
			{Name: "RXEProvidersAdminInstructions", Kind: Text, Sources: []Source{
				{Key: "RXEProvidersAdminInstructions", Path: "/TQ1-12-1"},
				{Path: "/RXE-7-1"},
				{Path: "/RXE-7"},
			}},
			{Name: "RXRRoute", Kind: Text, Sources: []Source{
				{Key: "RXRRoute", Path: "/RXR-1-2"},
				{Path: "/RXR-1-1"},
				{Path: "/RXR-1"},
			}},
		},
		Trailer: []TrailerTable{
			{Name: "Allergy", CaptionKey: "report.table.allergy", Caption: "Repeating Allergies"},
			{Name: "ProfileRXC", CaptionKey: "report.table.profile_rxc", Caption: "Repeating RXC"},
			{Name: "Notes", CaptionKey: "report.table.notes", Caption: "Repeating Notes"},
		},
		Note: " ",
	}
}

// WithGroup returns a copy of s using policy for the group name. An empty
// policy keeps the current one.
func (s Schema) WithGroup(policy GroupPolicy) Schema {
	if len(policy) > 0 {
		s.Group = policy
	}
	return s
}

// Keys returns every mapping key the schema consults, group keys first
func (s Schema) Keys() []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(src []Source) {
		for _, x := range src {
			if x.Key == "" || seen[strings.ToLower(x.Key)] {
				continue
			}
			seen[strings.ToLower(x.Key)] = true
			keys = append(keys, x.Key)
		}
	}
	add(s.Group)
	for _, r := range s.Rows {
		add(r.Sources)
	}
	return keys
}

// Row returns the row called name
func (s Schema) Row(name string) (Row, bool) {
	for _, r := range s.Rows {
		if strings.EqualFold(r.Name, name) {
			return r, true
		}
	}
	return Row{}, false
}
