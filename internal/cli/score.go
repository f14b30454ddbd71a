package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/corvid-tools/magpie/internal/parser"
	"github.com/corvid-tools/magpie/internal/promote"
	"github.com/corvid-tools/magpie/internal/score"
	"github.com/corvid-tools/magpie/internal/ui"
)

type scoreDetail struct {
	NoteID         string                 `json:"note_id"`
	Score          float64                `json:"score"`
	WordCount      int                    `json:"word_count"`
	LinkCount      int                    `json:"link_count"`
	TagCount       int                    `json:"tag_count"`
	SectionCount   int                    `json:"section_count"`
	Recommendation promote.Recommendation `json:"recommendation"`
}

var scoreCmd = &cobra.Command{
	Use:   "score <note>",
	Short: "Score a single note's quality",
	Long: `Computes the quality score for one note and shows the signals behind
it, along with the promotion recommendation the score produces.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return handleError(ErrVaultNotFound, err, "")
		}

		relPath, err := store.Resolve(args[0])
		if err != nil {
			return handleError(ErrNoteNotFound, err, "Run 'mag status' to see the vault")
		}
		n, _, err := store.Read(relPath)
		if err != nil {
			return handleError(ErrMalformedNote, err, "Fix the note's frontmatter first")
		}

		weights := scoreWeights(store.Config())
		s := score.Quality(n, weights)
		structure := parser.AnalyzeBody(n.Body)

		detail := scoreDetail{
			NoteID:         n.ID,
			Score:          s,
			WordCount:      structure.WordCount,
			LinkCount:      len(n.LinksOut),
			TagCount:       len(n.Tags),
			SectionCount:   structure.SectionCount,
			Recommendation: promote.Recommend(n, s, time.Now().UTC(), promoteThresholds(store.Config())),
		}

		if isJSONOutput() {
			outputSuccess(detail, nil)
			return nil
		}

		fmt.Printf("%s  score %s\n", ui.NoteID(n.ID), ui.Bold.Render(ui.Score(s)))
		fmt.Printf("  words     %d\n", detail.WordCount)
		fmt.Printf("  links     %d\n", detail.LinkCount)
		fmt.Printf("  tags      %d\n", detail.TagCount)
		fmt.Printf("  sections  %d\n", detail.SectionCount)
		fmt.Printf("  action    %s\n", detail.Recommendation.Action)
		fmt.Println(ui.Hint("  " + detail.Recommendation.Rationale))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
