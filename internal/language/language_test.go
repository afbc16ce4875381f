package language

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bibliographic french", "fre", "fra"},
		{"bibliographic german", "ger", "deu"},
		{"bibliographic chinese", "chi", "zho"},
		{"already terminological", "fra", "fra"},
		{"english", "eng", "eng"},
		{"two letter", "fr", "fra"},
		{"two letter english", "en", "eng"},
		{"uppercase with spaces", " ENG ", "eng"},
		{"unknown three letter passes through", "qqq", "qqq"},
		{"garbage", "not-a-language!", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_AllBibliographicOverrides(t *testing.T) {
	// Every override must win even though the generic resolver would not
	// recognize the bibliographic form.
	want := map[string]string{
		"fre": "fra", "chi": "zho", "cze": "ces", "dut": "nld",
		"ger": "deu", "gre": "ell", "ice": "isl", "mac": "mkd",
		"rum": "ron", "slo": "slk",
	}
	for bib, term := range want {
		if got := Normalize(bib); got != term {
			t.Errorf("Normalize(%q) = %q, want %q", bib, got, term)
		}
	}
}

func TestToTwoLetter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"english", "eng", "en"},
		{"french", "fra", "fr"},
		{"bibliographic french", "fre", "fr"},
		{"german bibliographic", "ger", "de"},
		{"chinese", "zho", "zh"},
		{"unknown", "qqq", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToTwoLetter(tt.in); got != tt.want {
				t.Errorf("ToTwoLetter(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestToOCRCode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"english", "eng", "en"},
		{"chinese simplified model", "zho", "ch_sim"},
		{"chinese bibliographic", "chi", "ch_sim"},
		{"french", "fra", "fr"},
		{"already two letter", "fr", "fr"},
		{"unmapped", "xxx", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToOCRCode(tt.in); got != tt.want {
				t.Errorf("ToOCRCode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromOCRCode(t *testing.T) {
	if got := FromOCRCode("ch_sim"); got != "zho" {
		t.Errorf("FromOCRCode(ch_sim) = %q, want zho", got)
	}
	if got := FromOCRCode("en"); got != "eng" {
		t.Errorf("FromOCRCode(en) = %q, want eng", got)
	}
	if got := FromOCRCode("nope"); got != "" {
		t.Errorf("FromOCRCode(nope) = %q, want empty", got)
	}
}
