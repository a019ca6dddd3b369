// Package testutil provides shared fixtures for tests.
package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/miosync-masa/digit-consonance/internal/model"
)

// SampleGammas are the imaginary parts of the first ten zeta zeros at 50
// significant digits.
var SampleGammas = []string{
	"14.134725141734693790457251983562470270784257115699",
	"21.022039638771554992628479593896902777334340524903",
	"25.010857580145688763213790992562821818659549672558",
	"30.424876125859513210311897530584091320181560023715",
	"32.935061587739189690662368964074903488812715603517",
	"37.586178158825671257217763480705332821405597350831",
	"40.918719012147495187398126914633254395726165962777",
	"43.327073280914999519496122165406805782645668371837",
	"48.005150881167159727942472749427516041686844001144",
	"49.773832477672302181916784678563724057723178299677",
}

// SampleWeights are |1/rho| * exp(-(gamma/40)^2) for SampleGammas.
var SampleWeights = []string{
	"0.062403816451337114",
	"0.03607850534411072",
	"0.0270390221021537",
	"0.01842694532781096",
	"0.015412106497510911",
	"0.01100203143375773",
	"0.008581678415925484",
	"0.007139472957109976",
	"0.004933672577596491",
	"0.004270875890267104",
}

// SampleTable returns the first n sample zeros as a table.
func SampleTable(n int) *model.ZeroTable {
	if n > len(SampleGammas) {
		n = len(SampleGammas)
	}
	zeros := make([]model.ZetaZero, n)
	for i := 0; i < n; i++ {
		zeros[i] = model.ZetaZero{
			Index:  i + 1,
			Gamma:  model.MustDecimal(SampleGammas[i]),
			Weight: model.MustDecimal(SampleWeights[i]),
		}
	}
	t := 40.0
	return &model.ZeroTable{
		Zeros: zeros,
		Metadata: model.ZeroMetadata{
			Source:   "mpmath_zetazero",
			Version:  "2.0",
			Accuracy: "mpmath dps=80",
			FileK:    n,
			LoadedK:  n,
			T:        &t,
		},
	}
}

// ZeroFileJSON renders a table in the on-disk JSON format. Gammas are written
// as bare JSON numbers so that their full text survives.
func ZeroFileJSON(t *testing.T, table *model.ZeroTable) []byte {
	t.Helper()

	type record struct {
		Gamma model.Decimal `json:"gamma"`
		W     model.Decimal `json:"w"`
		N     int           `json:"n"`
	}
	doc := struct {
		T        *float64       `json:"T,omitempty"`
		Meta     map[string]any `json:"meta,omitempty"`
		Source   string         `json:"source"`
		Version  string         `json:"version"`
		Accuracy string         `json:"accuracy"`
		Zeros    []record       `json:"zeros"`
		K        int            `json:"K"`
	}{
		Source:   table.Metadata.Source,
		Version:  table.Metadata.Version,
		Accuracy: table.Metadata.Accuracy,
		K:        table.Metadata.FileK,
		T:        table.Metadata.T,
		Meta:     table.Metadata.FileMeta,
	}
	for _, z := range table.Zeros {
		doc.Zeros = append(doc.Zeros, record{N: z.Index, Gamma: z.Gamma, W: z.Weight})
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal zero table: %v", err)
	}
	return data
}

// WriteZeroFile writes contents to a temporary file and returns its path.
func WriteZeroFile(t *testing.T, contents []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "zeta_zeros.json")
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		t.Fatalf("failed to write zero file: %v", err)
	}
	return path
}
