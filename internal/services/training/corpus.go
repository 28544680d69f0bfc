package training

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"

	"github.com/myntr-ai/myntr/internal/models"
)

// FormatContext renders one indicator row as a tagged training context block.
// Values are written as stored, without rounding.
func FormatContext(row models.IndicatorRow) string {
	return models.TokenContext + "\n" +
		"Borsa değeri/GSYİH: " + formatRaw(row.StockMarketCapitalizationGDP) + "%\n" +
		"Banka kredileri/GSYİH: " + formatRaw(row.BankCreditToBankDeposits) + "%\n" +
		"Finansal sistem mevduatları/GSYİH: " + formatRaw(row.FinancialSystemDepositsGDP) + "%\n" +
		models.TokenContext
}

func formatRaw(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// FormatQA renders a question/answer pair with its delimiter tokens.
func FormatQA(p models.QAPair) string {
	return models.TokenQuestion + p.Question + models.TokenQuestion + "\n" +
		models.TokenAnswer + p.Answer + models.TokenAnswer
}

// Combine pairs every QA example with a context drawn uniformly from contexts.
// With no contexts the bare QA block is used.
func Combine(contexts []string, pairs []models.QAPair, rng *rand.Rand) []string {
	out := make([]string, 0, len(pairs))
	for _, p := range pairs {
		qa := FormatQA(p)
		if len(contexts) == 0 {
			out = append(out, qa)
			continue
		}
		out = append(out, contexts[rng.Intn(len(contexts))]+"\n"+qa)
	}
	return out
}

// Split shuffles examples and holds out ceil(n*fraction) of them for validation,
// keeping at least one on each side when there are two or more examples.
func Split(examples []string, fraction float64, rng *rand.Rand) (train, validation []string) {
	n := len(examples)
	if n == 0 {
		return nil, nil
	}

	nVal := int(math.Ceil(float64(n) * fraction))
	if n >= 2 {
		if nVal < 1 {
			nVal = 1
		}
		if nVal > n-1 {
			nVal = n - 1
		}
	} else {
		nVal = 0
	}

	perm := rng.Perm(n)
	validation = make([]string, 0, nVal)
	train = make([]string, 0, n-nVal)
	for i, idx := range perm {
		if i < nVal {
			validation = append(validation, examples[idx])
		} else {
			train = append(train, examples[idx])
		}
	}
	return train, validation
}

// Truncate caps each example at max runes and reports how many were cut.
func Truncate(examples []string, max int) ([]string, int) {
	if max <= 0 {
		return examples, 0
	}
	out := make([]string, len(examples))
	cut := 0
	for i, e := range examples {
		runes := []rune(e)
		if len(runes) > max {
			out[i] = string(runes[:max])
			cut++
			continue
		}
		out[i] = e
	}
	return out, cut
}

// WriteJSONL writes one {"text": ...} object per line, replacing path atomically.
func WriteJSONL(path string, examples []string) error {
	return writeAtomic(path, func(w *bufio.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		for _, e := range examples {
			if err := enc.Encode(models.TrainingExample{Text: e}); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeManifest writes the run manifest as indented JSON.
func writeManifest(path string, manifest *models.TrainingManifest) error {
	return writeAtomic(path, func(w *bufio.Writer) error {
		data, err := json.MarshalIndent(manifest, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	})
}

func writeAtomic(path string, fill func(w *bufio.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := bufio.NewWriter(tmp)
	if err := fill(w); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to rename %s: %w", path, err)
	}
	return nil
}
