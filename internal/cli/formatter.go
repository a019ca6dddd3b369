package cli

import (
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/miosync-masa/digit-consonance/internal/consonance"
	"github.com/miosync-masa/digit-consonance/internal/model"
	"github.com/miosync-masa/digit-consonance/internal/resonance"
)

// cfDisplayTerms is how many continued fraction terms a pattern line shows.
const cfDisplayTerms = 6

// DefaultMaxDisplay caps list sections when no limit is configured.
const DefaultMaxDisplay = 10

// Formatter renders reports as styled text.
type Formatter struct {
	// MaxDisplay caps pattern, zero and signature lists. Zero or less shows all.
	MaxDisplay int
}

// NewFormatter creates a formatter that shows at most maxDisplay list items.
func NewFormatter(maxDisplay int) *Formatter {
	return &Formatter{MaxDisplay: maxDisplay}
}

func (f *Formatter) limit(n int) int {
	if f.MaxDisplay > 0 && n > f.MaxDisplay {
		return f.MaxDisplay
	}
	return n
}

func (f *Formatter) more(total, shown int, noun string) string {
	if total <= shown {
		return ""
	}
	return "\n" + SubtleStyle.Render(fmt.Sprintf("  ... and %d more %s", total-shown, noun))
}

func rule(width int) string {
	return SubtleStyle.Render(strings.Repeat("─", width))
}

// FormatAnalysis renders the consonant/dissonant partition of one digit count.
func (f *Formatter) FormatAnalysis(a *consonance.Analysis) string {
	if a == nil {
		return FormatError("No analysis available")
	}

	header := fmt.Sprintf("%s\n%s",
		FormatTitle(fmt.Sprintf("Digit Consonance Analysis: N = %d digits", a.Digits)),
		SubtleStyle.Render(fmt.Sprintf("Consonance threshold: κ ≤ %d", a.Threshold)))

	sections := []string{
		header,
		f.formatPatternList(ConsonantIcon+" Consonant patterns", fmt.Sprintf("κ ≤ %d", a.Threshold), a.Consonant, ConsonantStyle),
		f.formatPatternList(DissonantIcon+" Dissonant patterns", fmt.Sprintf("κ > %d", a.Threshold), a.Dissonant, DissonantStyle),
	}

	footer := fmt.Sprintf("Consonant share: %.2f%% of %d ratios", a.ConsonantShare()*100, a.Total())
	if a.Skipped > 0 {
		footer += fmt.Sprintf(" (%d skipped)", a.Skipped)
	}
	sections = append(sections, InfoStyle.Render(footer))

	return strings.Join(sections, "\n\n")
}

func (f *Formatter) formatPatternList(title, bound string, patterns []model.Pattern, style lipgloss.Style) string {
	heading := style.Bold(true).Render(fmt.Sprintf("%s (%s): %d total", title, bound, len(patterns)))

	shown := f.limit(len(patterns))
	lines := []string{heading, rule(70)}
	for _, p := range patterns[:shown] {
		lines = append(lines, formatPatternLine(p))
	}
	return strings.Join(lines, "\n") + f.more(len(patterns), shown, "")
}

func formatPatternLine(p model.Pattern) string {
	cf := p.CF.Truncate(cfDisplayTerms).String()
	if len(p.CF) > cfDisplayTerms {
		cf = strings.TrimSuffix(cf, "]") + ", ...]"
	}
	return fmt.Sprintf("  %3d / %3d digits = %6.4f  CF: %-30s  κ = %d",
		p.Ratio.Numerator, p.Ratio.Denominator, p.Ratio.Value(), cf, p.Kappa)
}

// FormatPattern renders a single classified ratio in detail.
func (f *Formatter) FormatPattern(p model.Pattern, threshold int) string {
	classStyle := DissonantStyle
	icon := DissonantIcon
	if p.Consonant {
		classStyle = ConsonantStyle
		icon = ConsonantIcon
	}

	lines := []string{
		fmt.Sprintf("Ratio:               %s = %.6f", p.Ratio, p.Ratio.Value()),
		fmt.Sprintf("Continued fraction:  %s", p.CF),
		fmt.Sprintf("Consonance degree:   κ = %d", p.Kappa),
		fmt.Sprintf("Classification:      %s", classStyle.Render(fmt.Sprintf("%s %s (threshold κ ≤ %d)", icon, p.Class(), threshold))),
	}

	if len(p.CF) > 1 {
		a1 := p.CF[1]
		expected := p.Ratio.Denominator / p.Ratio.Numerator
		check := FormatSuccess(fmt.Sprintf("a₁ = %d = ⌊%d/%d⌋", a1, p.Ratio.Denominator, p.Ratio.Numerator))
		if a1 != expected {
			check = FormatWarning(fmt.Sprintf("a₁ = %d but ⌊%d/%d⌋ = %d", a1, p.Ratio.Denominator, p.Ratio.Numerator, expected))
		}
		lines = append(lines, fmt.Sprintf("Lemma check:         %s", check))
	}

	reconstructed := consonance.Reconstruct(p.CF)
	lines = append(lines, fmt.Sprintf("Reconstruction:      %s", reconstructed.RatString()))

	return RenderBox(fmt.Sprintf("Classification of %s", p.Ratio), strings.Join(lines, "\n"))
}

// FormatSummary renders the consonance distribution table.
func (f *Formatter) FormatSummary(rows []consonance.SummaryRow) string {
	title := FormatTitle("Summary: Consonance Distribution Across Digit Ranges")
	header := TableHeaderStyle.Render(fmt.Sprintf("%12s | %12s | %12s | %8s", "N (digits)", "Consonant", "Dissonant", "Ratio"))

	lines := []string{title, header, rule(53)}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("%12d | %12d | %12d | %7.2f%%", r.Digits, r.Consonant, r.Dissonant, r.Share*100))
	}
	return strings.Join(lines, "\n")
}

// FormatSweep renders the effect of the threshold on one digit count.
func (f *Formatter) FormatSweep(n int, rows []consonance.SweepRow) string {
	lines := []string{FormatTitle(fmt.Sprintf("Effect of changing threshold (N = %d digits)", n))}
	for _, r := range rows {
		lines = append(lines, fmt.Sprintf("  κ ≤ %-3d %s consonant, %s dissonant",
			r.Threshold,
			ConsonantStyle.Render(fmt.Sprintf("%4d", r.Consonant)),
			DissonantStyle.Render(fmt.Sprintf("%4d", r.Dissonant))))
	}
	return strings.Join(lines, "\n")
}

// LemmaStatement is the text of Tamaki's Lemma.
const LemmaStatement = `Let N = p × q be a semiprime with d_N and d_p decimal digits,
where d_p ≤ d_N/2.

Let r = d_p / d_N and let [0; a₁, a₂, ...] be the continued
fraction expansion of r.

Then:
    a₁ = ⌊d_N / d_p⌋

Proof:
    Since 0 < r = d_p/d_N < 1, we have a₀ = 0.
    By the continued fraction algorithm:
        a₁ = ⌊1/r⌋ = ⌊d_N / d_p⌋

The first coefficient is determined entirely by the digit ratio,
independent of the actual values of p and N.`

// FormatLemma renders the lemma statement followed by the verification tables.
func (f *Formatter) FormatLemma(report *consonance.LemmaReport) string {
	sections := []string{RenderBox("Tamaki's Lemma (Lemma 3.1)", LemmaStatement)}

	for _, n := range report.Digits {
		lines := []string{
			SubtitleStyle.Render(fmt.Sprintf("Test case: N = %d digits", n)),
			TableHeaderStyle.Render(fmt.Sprintf("%-6s %-10s %-12s %-8s %s", "d_p", "d_N/d_p", "⌊d_N/d_p⌋", "a₁", "Match")),
			rule(50),
		}
		for _, c := range report.Details[n] {
			mark := ConsonantStyle.Render(SuccessIcon)
			if !c.Match {
				mark = ErrorStyle.Render(ErrorIcon)
			}
			lines = append(lines, fmt.Sprintf("%-6d %-10.2f %-12d %-8d %s", c.PDigits, c.Quotient, c.Expected, c.Actual, mark))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	summary := []string{
		FormatTitle("Verification Summary"),
		fmt.Sprintf("  Total test cases:   %d", report.Total),
		fmt.Sprintf("  Successful matches: %d", report.Matches),
		fmt.Sprintf("  Match rate:         %.1f%%", report.MatchRate()),
	}
	if report.Verified() {
		summary = append(summary, FormatSuccess("Tamaki's Lemma verified across all test cases!"))
	} else {
		summary = append(summary, FormatWarning(fmt.Sprintf("%d mismatches detected", report.Total-report.Matches)))
	}
	sections = append(sections, strings.Join(summary, "\n"))

	return strings.Join(sections, "\n\n")
}

// FormatBases renders the lemma check per base and the κ invariance table.
func (f *Formatter) FormatBases(reports []consonance.BaseReport, kappa []consonance.KappaRow) string {
	var sections []string

	for _, r := range reports {
		lines := []string{
			SubtitleStyle.Render(fmt.Sprintf("%s (base %d)", r.Name, r.Base)),
			TableHeaderStyle.Render(fmt.Sprintf("%-28s %-9s %-5s %-5s %s", "Case", "Ratio", "⌊1/r⌋", "a₁", "Match")),
		}
		for _, row := range r.Rows {
			mark := ConsonantStyle.Render(SuccessIcon)
			if !row.Match {
				mark = ErrorStyle.Render(ErrorIcon)
			}
			lines = append(lines, fmt.Sprintf("%-28s %-9s %-5d %-5d %s",
				row.Label, row.Pattern.Ratio, row.Expected, row.Actual, mark))
		}
		lines = append(lines, InfoStyle.Render(fmt.Sprintf("Match rate: %d/%d (%.1f%%)", r.Matches, r.Total(), r.Rate())))
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if consonance.AllPerfect(reports) {
		sections = append(sections, FormatSuccess("The lemma holds in every base tested."))
	} else {
		sections = append(sections, FormatWarning("The lemma failed in at least one base."))
	}

	if len(kappa) > 0 {
		lines := []string{FormatTitle("Consonance degree across bases")}
		for _, row := range kappa {
			lines = append(lines, BoldStyle.Render(row.Label))
			for _, b := range row.PerBase {
				style := DissonantStyle
				if b.Pattern.Consonant {
					style = ConsonantStyle
				}
				lines = append(lines, fmt.Sprintf("  %-12s %-9s κ = %-4d %s",
					consonance.BaseName(b.Base), b.Pattern.Ratio, b.Pattern.Kappa, style.Render(b.Pattern.Class())))
			}
			if row.Consistent {
				lines = append(lines, "  "+FormatSuccess("classification is base invariant"))
			} else {
				lines = append(lines, "  "+FormatWarning("classification depends on the base"))
			}
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	return strings.Join(sections, "\n\n")
}

// FormatRepresentations renders one number pair written in several bases.
func (f *Formatter) FormatRepresentations(label string, perBase []consonance.BaseKappa) string {
	lines := []string{FormatTitle("Same number across bases: " + label)}
	for _, b := range perBase {
		p := b.Pattern
		dN, dP := p.Ratio.Denominator, p.Ratio.Numerator
		a1 := "n/a"
		if len(p.CF) > 1 {
			a1 = fmt.Sprintf("%d", p.CF[1])
		}
		lines = append(lines,
			BoldStyle.Render(fmt.Sprintf("Base %2d (%s)", b.Base, consonance.BaseName(b.Base))),
			fmt.Sprintf("  d_N = %d, d_p = %d, ratio = %.6f", dN, dP, p.Ratio.Value()),
			fmt.Sprintf("  CF = %s, κ = %d", p.CF, p.Kappa),
			fmt.Sprintf("  a₁ = %s, ⌊d_N/d_p⌋ = %d", a1, dN/dP),
		)
	}
	return strings.Join(lines, "\n")
}

// FormatZeroTables renders the list of cached zero tables.
func (f *Formatter) FormatZeroTables(infos []model.ZeroTableInfo) string {
	if len(infos) == 0 {
		return FormatInfo("No zero tables imported. Use 'consonance zeros import <file>'.")
	}

	lines := []string{
		FormatTitle(fmt.Sprintf("%s Cached zero tables", ZetaIcon)),
		TableHeaderStyle.Render(fmt.Sprintf("%-24s %8s  %-18s %-8s %-16s %s", "Name", "Zeros", "Source", "Version", "Accuracy", "Imported")),
		rule(96),
	}
	for _, info := range infos {
		lines = append(lines, fmt.Sprintf("%-24s %8d  %-18s %-8s %-16s %s",
			info.Name, info.Count, info.Source, info.Version, info.Accuracy, info.ImportedAt.Format(time.DateTime)))
	}
	return strings.Join(lines, "\n")
}

// FormatZeroTable renders table metadata and its leading zeros.
func (f *Formatter) FormatZeroTable(label string, table *model.ZeroTable) string {
	m := table.Metadata
	info := []string{
		fmt.Sprintf("Source:    %s", m.Source),
		fmt.Sprintf("Version:   %s", m.Version),
		fmt.Sprintf("Accuracy:  %s", m.Accuracy),
		fmt.Sprintf("Zeros:     %d loaded of %d", m.LoadedK, m.FileK),
		fmt.Sprintf("γ range:   [%.6f, %.6f]", m.GammaMin, m.GammaMax),
		fmt.Sprintf("w range:   [%.6g, %.6g]", m.WeightMin, m.WeightMax),
	}
	if m.T != nil {
		info = append(info, fmt.Sprintf("T:         %g", *m.T))
	}

	shown := f.limit(len(table.Zeros))
	lines := []string{
		TableHeaderStyle.Render(fmt.Sprintf("%6s  %-52s %s", "n", "γ", "w")),
	}
	for _, z := range table.Zeros[:shown] {
		lines = append(lines, fmt.Sprintf("%6d  %-52s %s", z.Index, z.Gamma.Text, z.Weight.Text))
	}

	return RenderBox(fmt.Sprintf("%s %s", ZetaIcon, label), strings.Join(info, "\n")) +
		"\n\n" + strings.Join(lines, "\n") + f.more(len(table.Zeros), shown, "zeros")
}

// FormatResonance renders a resonance scan.
func (f *Formatter) FormatResonance(report *resonance.Report, source string) string {
	header := []string{
		fmt.Sprintf("N:          %s", abbreviate(report.Target)),
		fmt.Sprintf("Digits:     %d", report.Digits),
		fmt.Sprintf("Zeros:      %d from %s", len(report.Results), source),
		fmt.Sprintf("Precision:  %s", precisionLabel(report.Config)),
		fmt.Sprintf("Resonant:   %d (cos(γ ln N) > %.2f, %.2f%%)", len(report.Resonant), report.Config.Threshold, report.ResonanceRate()*100),
		fmt.Sprintf("Elapsed:    %s", report.Elapsed.Round(time.Millisecond)),
	}
	sections := []string{RenderBox(ZetaIcon+" Zeta Zero Resonance", strings.Join(header, "\n"))}

	strongest, err := report.StrongestResonance()
	if err != nil {
		sections = append(sections, FormatWarning("No resonant zeros found."))
		return strings.Join(sections, "\n\n")
	}

	strong := fmt.Sprintf("Strongest resonance: γ_%d = %.6f, cos = %.6f, n = %.4f",
		strongest.Zero.Index, strongest.Zero.Gamma.Float, strongest.Score, strongest.Cycles)
	if sig, ok := report.SignatureFor(strongest.Zero.Index); ok {
		strong += fmt.Sprintf(", signature %d+%d", sig.Signature.PDigits, sig.Signature.QDigits)
	}
	sections = append(sections, ConsonantStyle.Render(strong))

	sections = append(sections, f.formatSignatures(report.Signatures))

	if best, err := report.BestSignature(); err == nil {
		lines := []string{
			FormatTitle("Best signature"),
			fmt.Sprintf("  p digits = %d, q digits = %d (of %d)", best.Signature.PDigits, best.Signature.QDigits, best.Signature.TotalDigits),
			fmt.Sprintf("  %d matching zeros, mean consistency %.6f, variance %.3g", best.Count, best.MeanConsistency, best.Variance),
		}
		if top, ok := firstMatch(report.Signatures, best.Signature); ok {
			est := resonance.EstimateFactorMagnitude(top.Gamma.Float, top.NP)
			lines = append(lines, fmt.Sprintf("  Estimated p ≈ 10^%.1f (expected %d digits)", est.Log10, best.Signature.PDigits))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	sections = append(sections, SubtleStyle.Render("These are digit pattern signatures, not factors."))
	return strings.Join(sections, "\n\n")
}

func (f *Formatter) formatSignatures(sigs []model.SignatureMatch) string {
	title := FormatTitle(fmt.Sprintf("Detected factor signatures: %d total", len(sigs)))
	if len(sigs) == 0 {
		return title
	}

	shown := f.limit(len(sigs))
	lines := []string{
		title,
		TableHeaderStyle.Render(fmt.Sprintf("%-8s %-12s %-10s %-10s %-10s %s", "n", "γ", "p_digits", "q_digits", "total", "Consistency")),
		rule(70),
	}
	for _, s := range sigs[:shown] {
		lines = append(lines, fmt.Sprintf("%-8d %-12.3f %-10d %-10d %-10d %.6f",
			s.ZeroIndex, s.Gamma.Float, s.Signature.PDigits, s.Signature.QDigits, s.Signature.TotalDigits, s.Consistency))
	}
	return strings.Join(lines, "\n") + f.more(len(sigs), shown, "")
}

func firstMatch(sigs []model.SignatureMatch, sig model.Signature) (model.SignatureMatch, bool) {
	for _, s := range sigs {
		if s.Signature == sig {
			return s, true
		}
	}
	return model.SignatureMatch{}, false
}

func precisionLabel(cfg resonance.Config) string {
	if cfg.Precision == resonance.PrecisionArbitrary {
		return fmt.Sprintf("arbitrary (%d bits)", cfg.Bits)
	}
	return string(cfg.Precision)
}

// abbreviate shortens long integers to their first and last digits.
func abbreviate(n *big.Int) string {
	s := n.String()
	if len(s) <= 40 {
		return s
	}
	return s[:18] + "…" + s[len(s)-18:]
}
