// Package language normalizes subtitle language tags between the ISO 639
// variants used by containers, Apple metadata, and OCR engines.
package language

import (
	"strings"

	"golang.org/x/text/language"
)

// bibToTerm maps ISO 639-2 bibliographic codes to their terminological
// equivalents. Containers commonly carry the bibliographic form; Apple
// metadata wants the terminological one. These take precedence over the
// generic resolver.
var bibToTerm = map[string]string{
	"fre": "fra",
	"chi": "zho",
	"cze": "ces",
	"dut": "nld",
	"ger": "deu",
	"gre": "ell",
	"ice": "isl",
	"mac": "mkd",
	"rum": "ron",
	"slo": "slk",
}

// ocrCodes maps three-letter codes to the codes the OCR engine expects.
// Chinese is special-cased to the simplified model.
var ocrCodes = map[string]string{
	"fre": "fr", "fra": "fr",
	"chi": "ch_sim", "zho": "ch_sim",
	"eng": "en",
	"spa": "es",
	"deu": "de", "ger": "de",
	"ita": "it",
	"jpn": "ja",
	"kor": "ko",
	"por": "pt",
	"rus": "ru",
}

// ocrToTerm maps OCR engine codes back to ISO 639-2 terminological codes.
var ocrToTerm = map[string]string{
	"en": "eng",
	"fr": "fra",
	"es": "spa",
	"de": "deu",
	"it": "ita",
	"ja": "jpn",
	"ko": "kor",
	"pt": "por",
	"ru": "rus",
	"ch_sim": "zho",
	"ch_tra": "zho",
}

// Normalize maps an arbitrary language tag to an ISO 639-2 terminological
// code. Returns "" when the tag cannot be resolved.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}

	if term, ok := bibToTerm[code]; ok {
		return term
	}

	if len(code) == 3 && isAlpha(code) {
		// Validate via the tag parser when possible; unrecognized codes
		// pass through so container-specific tags survive a round trip.
		if base, err := language.ParseBase(code); err == nil {
			if iso3 := base.ISO3(); len(iso3) == 3 {
				return strings.ToLower(iso3)
			}
		}
		return code
	}

	if base, err := language.ParseBase(code); err == nil {
		if iso3 := base.ISO3(); len(iso3) == 3 {
			return strings.ToLower(iso3)
		}
	}
	return ""
}

// ToTwoLetter converts an ISO 639-2 code to its ISO 639-1 form, which the
// Apple TV app prefers for subtitle language metadata. Returns "" when no
// two-letter form exists.
func ToTwoLetter(iso6392 string) string {
	code := strings.ToLower(strings.TrimSpace(iso6392))
	if code == "" {
		return ""
	}
	if term, ok := bibToTerm[code]; ok {
		code = term
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return ""
	}
	if s := base.String(); len(s) == 2 {
		return s
	}
	return ""
}

// ToOCRCode converts a language tag to the code the OCR engine expects.
// Returns "" when the language has no OCR model mapping.
func ToOCRCode(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if ocr, ok := ocrCodes[code]; ok {
		return ocr
	}
	if two := ToTwoLetter(code); two != "" {
		return two
	}
	if len(code) == 2 && isAlpha(code) {
		return code
	}
	return ""
}

// FromOCRCode converts an OCR engine code back to ISO 639-2 for metadata
// tagging. Returns "" for unknown codes.
func FromOCRCode(ocr string) string {
	return ocrToTerm[strings.ToLower(ocr)]
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
