package instruments

import "testing"

func TestNormalize(t *testing.T) {
	cases := map[string]string{
		"F.US.ESZ24.CME": "ESZ24",
		"f.us.MNQH5":     "MNQH5",
		"ESZ4.CME":       "ESZ4",
		"ESZ4":           "ESZ4",
		"ES":             "ES",
		"  CLF6.NYMEX ":  "CLF6",
		"":               "",
	}
	for in, want := range cases {
		if got := Normalize(in); got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	inputs := []string{
		"F.US.ESZ24.CME", "ESZ4", "ES", "FDAX", ".CME", "F.US.", "F.US.F.US.NQ",
		"F.US. ESZ4 .CME", "6EM5.CME", "  MES  ", "F.US..X",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}
