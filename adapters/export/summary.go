package export

import (
	"fmt"
	"math"
	"strings"

	"entrolab/adapters/stats/ols"
)

// Stars returns the conventional significance marker for a t statistic:
// *** beyond |t|=3.29, ** beyond 2.58, * beyond 1.96, † beyond 1.645.
func Stars(t float64) string {
	switch at := math.Abs(t); {
	case at > 3.29:
		return "***"
	case at > 2.58:
		return "**"
	case at > 1.96:
		return "*"
	case at > 1.645:
		return "†"
	default:
		return ""
	}
}

// FitTable renders a multi-column fit as a fixed-width block: one row
// per coefficient with robust SE, t and significance marker, then the
// R²/N footer. The output goes verbatim into run logs and the report.
func FitTable(title string, fit *ols.Fit) string {
	var b strings.Builder
	rule := strings.Repeat("=", 65)

	fmt.Fprintf(&b, "%s\n%s\n%s\n", rule, title, rule)
	fmt.Fprintf(&b, "  %-25s %8s %8s %8s\n", "Coefficient", "β", "SE", "t")
	fmt.Fprintf(&b, "  %s\n", strings.Repeat("-", 52))
	for _, c := range fit.Coefficients {
		fmt.Fprintf(&b, "  %-25s %8.4f %8.4f %7.2f %s\n", c.Name, c.Beta, c.SE, c.T, Stars(c.T))
	}
	fmt.Fprintf(&b, "\n  R² = %.4f   N = %d\n", fit.R2, fit.N)
	return b.String()
}

// SimpleLine renders a bivariate fit as a single log line.
func SimpleLine(label string, fit *ols.SimpleFit) string {
	return fmt.Sprintf("%s: β=%+.4f SE=%.4f t=%+.2f p=%.4f R²=%.3f N=%d %s",
		label, fit.Beta, fit.SEBeta, fit.TBeta, fit.PBeta, fit.R2, fit.N, Stars(fit.TBeta))
}
