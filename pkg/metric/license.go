package metric

import (
	"regexp"
	"strings"

	"github.com/mchmarny/trustscore/pkg/score"
)

const (
	licenseKnown       = 1.0
	licenseUnknownLong = 0.7
	licenseUnknown     = 0.5
	licenseMentioned   = 0.4
	licenseLongText    = 100
)

var (
	licenseFiles = []string{
		"LICENSE", "LICENSE.txt", "LICENSE.md",
		"LICENCE", "LICENCE.txt", "LICENCE.md",
		"COPYING", "COPYING.txt", "COPYING.md",
	}

	licenseFamilies = []struct {
		id string
		rx *regexp.Regexp
	}{
		{"MIT", regexp.MustCompile(`(?i)\bMIT License\b|Permission is hereby granted, free of charge`)},
		{"Apache-2.0", regexp.MustCompile(`(?i)Apache License,? Version 2\.0|Apache-2\.0`)},
		{"LGPL", regexp.MustCompile(`(?i)Lesser General Public License`)},
		{"GPL-3.0", regexp.MustCompile(`(?i)GNU (GENERAL PUBLIC|GPL) License,?\s+(Version 3|v3)\b`)},
		{"GPL-2.0", regexp.MustCompile(`(?i)GNU (GENERAL PUBLIC|GPL) License,?\s+(Version 2|v2)\b`)},
		{"GPL", regexp.MustCompile(`(?i)GNU (GENERAL PUBLIC|GPL) License`)},
		{"BSD-3-Clause", regexp.MustCompile(`(?i)\bBSD (3-Clause|Three-Clause)\b`)},
		{"BSD-2-Clause", regexp.MustCompile(`(?i)\bBSD (2-Clause|Two-Clause)\b`)},
		{"MPL-2.0", regexp.MustCompile(`(?i)Mozilla Public License`)},
		{"Unlicense", regexp.MustCompile(`(?i)\bThe Unlicense\b|unencumbered software released into the public domain`)},
		{"ISC", regexp.MustCompile(`(?i)\bISC License\b`)},
		{"BSL-1.0", regexp.MustCompile(`(?i)Boost Software License`)},
		{"CC", regexp.MustCompile(`(?i)Creative Commons`)},
	}

	licenseMention = regexp.MustCompile(`(?i)\blicen[cs]e\b`)

	// SPDX identifiers treated as known families when reported remotely.
	knownSPDX = map[string]bool{
		"mit": true, "apache-2.0": true, "gpl-2.0": true, "gpl-3.0": true,
		"lgpl-2.1": true, "lgpl-3.0": true, "bsd-2-clause": true,
		"bsd-3-clause": true, "mpl-2.0": true, "unlicense": true, "isc": true,
		"bsl-1.0": true, "cc-by-4.0": true, "cc0-1.0": true, "openrail": true,
	}
)

// License scores the presence and recognizability of a license.
type License struct{}

func (License) Name() string { return score.License }

func (License) Evaluate(t *Target) (Value, error) {
	if !t.Local() {
		if t.Remote != nil {
			return Scalar(remoteLicense(t.Remote.License)), nil
		}
		return fallback(t, score.License), nil
	}

	name, ok, err := findFold(t.Dir, licenseFiles...)
	if err != nil {
		return Value{}, err
	}
	if ok {
		txt, _, err := readText(t.Path(name), t.Limits.MaxReadBytes)
		if err != nil {
			return Value{}, err
		}
		if _, known := MatchLicense(txt); known {
			return Scalar(licenseKnown), nil
		}
		if len(txt) > licenseLongText {
			return Scalar(licenseUnknownLong), nil
		}
		return Scalar(licenseUnknown), nil
	}

	txt, found, err := readme(t)
	if err != nil {
		return Value{}, err
	}
	if found && licenseMention.MatchString(txt) {
		return Scalar(licenseMentioned), nil
	}

	return Scalar(0), nil
}

// MatchLicense returns the first known license family found in txt.
func MatchLicense(txt string) (string, bool) {
	for _, f := range licenseFamilies {
		if f.rx.MatchString(txt) {
			return f.id, true
		}
	}
	return "", false
}

func remoteLicense(spdx string) float64 {
	id := strings.ToLower(strings.TrimSpace(spdx))
	switch {
	case id == "":
		return 0
	case knownSPDX[id]:
		return licenseKnown
	default:
		return licenseUnknown
	}
}
