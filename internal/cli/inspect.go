package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/stat"

	"github.com/civora/priority/internal/config"
	"github.com/civora/priority/internal/dataset"
	"github.com/civora/priority/internal/features"
	"github.com/civora/priority/internal/storage"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the persisted artifacts of each variant",
	Long: `Summarise the artifacts under the artifact root: which files exist, the
forest shape and columns, and the encoder classes. With --evaluate the model
is also scored (R2) against a reference table: the built-in example table for
the encoded variant, a freshly generated synthetic table for onehot.`,
	Example: `  priority inspect
  priority inspect --variant onehot --evaluate
  priority inspect --json`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

var (
	inspectVariant  string
	inspectEvaluate bool
	inspectSamples  int
	inspectSeed     uint64
)

func init() {
	inspectCmd.Flags().StringVar(&inspectVariant, "variant", "", "only this variant (encoded, onehot)")
	inspectCmd.Flags().BoolVar(&inspectEvaluate, "evaluate", false, "score the model against a reference table")
	inspectCmd.Flags().IntVar(&inspectSamples, "samples", 500, "synthetic rows for --evaluate (onehot)")
	inspectCmd.Flags().Uint64Var(&inspectSeed, "seed", 7, "synthetic data seed for --evaluate (onehot)")
	rootCmd.AddCommand(inspectCmd)
}

type variantSummary struct {
	Variant        features.Variant       `json:"variant"`
	Dir            string                 `json:"dir"`
	Files          []storage.ArtifactInfo `json:"files"`
	Trained        bool                   `json:"trained"`
	Trees          int                    `json:"trees,omitempty"`
	Seed           uint64                 `json:"seed,omitempty"`
	MaxDepth       int                    `json:"max_depth,omitempty"`
	MeanDepth      float64                `json:"mean_depth,omitempty"`
	Leaves         int                    `json:"leaves,omitempty"`
	Columns        []string               `json:"columns,omitempty"`
	IssueClasses   []string               `json:"issue_classes,omitempty"`
	WeatherClasses []string               `json:"weather_classes,omitempty"`
	R2             *float64               `json:"r2,omitempty"`
	Error          string                 `json:"error,omitempty"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := config.Resolve(cfgFile)
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	variants := []features.Variant{features.VariantEncoded, features.VariantOneHot}
	if inspectVariant != "" {
		v, err := features.ParseVariant(inspectVariant)
		if err != nil {
			return err
		}
		variants = []features.Variant{v}
	}

	summaries := make([]variantSummary, 0, len(variants))
	for _, v := range variants {
		summaries = append(summaries, summarize(openStore(cfg, v, log), v))
	}

	out := cmd.OutOrStdout()
	if jsonOut {
		return writeJSON(out, summaries)
	}
	renderSummaries(out, artifactRoot(cfg), summaries)
	return nil
}

func summarize(store *storage.Store, v features.Variant) variantSummary {
	s := variantSummary{Variant: v, Dir: store.Dir()}
	for _, name := range storage.Files(v) {
		s.Files = append(s.Files, store.Info(name))
	}
	if !store.Exists(storage.ModelFile) {
		return s
	}

	a, err := store.LoadArtifacts(v)
	if err != nil {
		s.Error = err.Error()
		return s
	}
	s.Trained = true

	cfg := a.Model.Config()
	s.Seed = cfg.Seed
	s.MaxDepth = cfg.MaxDepth
	s.Columns = a.Model.Columns()

	trees := a.Model.Trees()
	s.Trees = len(trees)
	depths := make([]float64, len(trees))
	for i, t := range trees {
		depths[i] = float64(t.Depth())
		s.Leaves += t.Leaves()
	}
	if len(depths) > 0 {
		s.MeanDepth = stat.Mean(depths, nil)
	}

	if a.IssueEncoder != nil {
		s.IssueClasses = a.IssueEncoder.Classes()
	}
	if a.WeatherEncoder != nil {
		s.WeatherClasses = a.WeatherEncoder.Classes()
	}

	if inspectEvaluate {
		r2, err := evaluate(a)
		if err != nil {
			s.Error = err.Error()
		} else {
			s.R2 = &r2
		}
	}
	return s
}

// evaluate scores the model on its variant's reference table.
func evaluate(a *storage.Artifacts) (float64, error) {
	var table dataset.Table
	switch a.Variant {
	case features.VariantEncoded:
		table = dataset.Table{Columns: features.VariantEncoded.Columns()}
		for _, r := range dataset.ExampleTable() {
			table.Append(r.Record.Vector(a.IssueEncoder, a.WeatherEncoder), r.Priority)
		}
	default:
		table = dataset.OneHotTable(dataset.Generate(inspectSamples, inspectSeed))
	}
	return a.Model.Score(table.X, table.Y)
}

func renderSummaries(w io.Writer, root string, summaries []variantSummary) {
	fmt.Fprintln(w, titleStyle.Render("Priority artifacts")+" "+valueStyle.Render(root))
	fmt.Fprintln(w)

	for _, s := range summaries {
		fmt.Fprintln(w, sectionHeaderStyle.Render(string(s.Variant)))

		var b strings.Builder
		row := func(label, value string) {
			b.WriteString(renderLabel(label) + valueStyle.Render(value) + "\n")
		}

		for _, f := range s.Files {
			status := missingStyle.Render("missing")
			if f.Exists {
				status = presentStyle.Render(fmt.Sprintf("%s  %s", formatBytes(f.Size), f.UpdatedAt.Format("2006-01-02 15:04:05")))
			}
			b.WriteString(renderLabel(f.Name) + status + "\n")
		}

		switch {
		case s.Error != "" && !s.Trained:
			b.WriteString(errorStyle.Render("error: "+s.Error) + "\n")
		case !s.Trained:
			b.WriteString(missingStyle.Render(fmt.Sprintf("not trained, run: priority train --variant %s", s.Variant)) + "\n")
		default:
			depth := "unlimited"
			if s.MaxDepth > 0 {
				depth = fmt.Sprint(s.MaxDepth)
			}
			row("Trees", fmt.Sprint(s.Trees))
			row("Seed", fmt.Sprint(s.Seed))
			row("Max depth", depth)
			row("Mean depth", fmt.Sprintf("%.1f", s.MeanDepth))
			row("Leaves", fmt.Sprint(s.Leaves))
			row("Columns", strings.Join(s.Columns, ", "))
			if len(s.IssueClasses) > 0 {
				row("Issue types", strings.Join(s.IssueClasses, ", "))
			}
			if len(s.WeatherClasses) > 0 {
				row("Weather", strings.Join(s.WeatherClasses, ", "))
			}
			if s.R2 != nil {
				r2 := lipgloss.NewStyle().Foreground(scoreColor(*s.R2)).Render(fmt.Sprintf("%.4f", *s.R2))
				b.WriteString(renderLabel("R2") + r2 + "\n")
			}
			if s.Error != "" {
				b.WriteString(errorStyle.Render("error: "+s.Error) + "\n")
			}
		}

		fmt.Fprint(w, blockStyle.Render(strings.TrimRight(b.String(), "\n")))
		fmt.Fprintln(w)
	}
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
