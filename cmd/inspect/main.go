// Command inspect walks one word through the loaded skip-gram model,
// printing the matrix shapes, the embedding, and the top-k output words.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"skipgram-query/internal/model"
)

var (
	modelDir string
	topK     int
	oneHot   bool
)

var rootCmd = &cobra.Command{
	Use:          "inspect <word>",
	Short:        "Evaluate one forward pass of a skip-gram model and print the result",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `Inspect loads a model directory (vocab.json, projection.bin, output.bin),
evaluates the feed-forward pass for a single vocabulary word, and prints the
intermediate shapes alongside the top-k output-word probabilities.

With --one-hot the embedding is computed the long way, as a one-hot row
vector multiplied against the full projection matrix. The result is
identical to the direct row lookup; the flag only exists to show the
textbook derivation.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.Flags().StringVarP(&modelDir, "model", "m", "./model", "model directory")
	rootCmd.Flags().IntVarP(&topK, "top-k", "k", 10, "number of output words to print")
	rootCmd.Flags().BoolVar(&oneHot, "one-hot", false, "derive the embedding via the one-hot matrix multiply")
}

func runInspect(cmd *cobra.Command, args []string) error {
	word := args[0]

	m, err := model.Load(modelDir)
	if err != nil {
		return err
	}
	v, d := m.VocabSize(), m.Dim()

	fmt.Printf("model:      %s\n", modelDir)
	fmt.Printf("vocabulary: %d words\n", v)
	fmt.Printf("projection: [%d x %d]\n", v, d)
	fmt.Printf("output:     [%d x %d]\n", v, d)

	idx, ok := m.Vocab().Index(word)
	if !ok {
		return fmt.Errorf("%q is not in the vocabulary", word)
	}
	fmt.Printf("\nword %q -> index %d\n", word, idx)

	var embedding []float64
	if oneHot {
		fmt.Printf("one-hot:    [1 x %d] x [%d x %d] = [1 x %d]\n", v, v, d, d)
		embedding, err = m.ProjectionOneHot(idx)
	} else {
		fmt.Printf("embedding:  row %d of the projection matrix\n", idx)
		embedding, err = m.Projection(idx)
	}
	if err != nil {
		return err
	}
	fmt.Printf("embedding (first %d of %d dims): %s\n", min(8, d), d, formatHead(embedding, 8))

	dist, err := m.OutputDistribution(embedding)
	if err != nil {
		return err
	}
	var sum float64
	for _, p := range dist {
		sum += p
	}
	fmt.Printf("scores:     [%d x %d] x [%d x 1] -> softmax -> distribution (sum = %.6f)\n", v, d, d, sum)

	if topK > v {
		topK = v
	}
	preds, err := m.TopK(dist, topK)
	if err != nil {
		return err
	}

	fmt.Printf("\ntop %d:\n", topK)
	tw := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  word\tprobability")
	for _, p := range preds {
		fmt.Fprintf(tw, "  %s\t%.6f\n", p.Word, p.Probability)
	}
	return tw.Flush()
}

func formatHead(vec []float64, n int) string {
	if len(vec) < n {
		n = len(vec)
	}
	out := "["
	for i := 0; i < n; i++ {
		if i > 0 {
			out += " "
		}
		out += fmt.Sprintf("%.4f", vec[i])
	}
	if n < len(vec) {
		out += " ..."
	}
	return out + "]"
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
