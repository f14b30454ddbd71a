package cli

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	builtindocs "github.com/corvid-tools/magpie/docs"
	"github.com/corvid-tools/magpie/internal/ui"
)

const docsCommandHint = "For command docs, use: mag help <command>"

type docsTopic struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

var docsCmd = &cobra.Command{
	Use:   "docs [topic]",
	Short: "Read the bundled guides",
	Long: `Without arguments, lists the guides bundled with the binary. With a
topic, renders that guide in the terminal.

` + docsCommandHint,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		topics, err := loadDocsTopics()
		if err != nil {
			return handleError(ErrInternal, err, "")
		}

		if len(args) == 0 {
			if isJSONOutput() {
				outputSuccess(topics, &Meta{Count: len(topics)})
				return nil
			}
			fmt.Println(ui.Header("Guides"))
			for _, topic := range topics {
				fmt.Printf("  %-18s %s\n", topic.ID, ui.Hint(topic.Title))
			}
			fmt.Println()
			fmt.Println(ui.Hint("mag docs <topic> to read one. " + docsCommandHint))
			return nil
		}

		id := strings.TrimSuffix(args[0], ".md")
		for _, topic := range topics {
			if topic.ID != id {
				continue
			}
			content, err := fs.ReadFile(builtindocs.FS, topic.Path)
			if err != nil {
				return handleError(ErrInternal, err, "")
			}
			if isJSONOutput() {
				outputSuccess(map[string]string{
					"id":      topic.ID,
					"title":   topic.Title,
					"content": string(content),
				}, nil)
				return nil
			}

			display := ui.NewDisplayContext()
			if !display.IsTTY {
				fmt.Print(string(content))
				return nil
			}
			rendered, err := ui.RenderMarkdown(string(content), display.TermWidth)
			if err != nil {
				fmt.Print(string(content))
				return nil
			}
			fmt.Print(rendered)
			return nil
		}

		return handleError(ErrInvalidInput,
			fmt.Errorf("unknown topic: %s", id), "Run 'mag docs' to list topics")
	},
}

// loadDocsTopics walks the embedded guide directory. The topic title is the
// first H1 in the file, falling back to the filename.
func loadDocsTopics() ([]docsTopic, error) {
	var topics []docsTopic
	err := fs.WalkDir(builtindocs.FS, "guide", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, ".md") {
			return err
		}
		id := strings.TrimSuffix(path.Base(p), ".md")
		title := id
		if content, readErr := fs.ReadFile(builtindocs.FS, p); readErr == nil {
			for _, line := range strings.Split(string(content), "\n") {
				if strings.HasPrefix(line, "# ") {
					title = strings.TrimPrefix(line, "# ")
					break
				}
			}
		}
		topics = append(topics, docsTopic{ID: id, Title: title, Path: p})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(topics, func(i, j int) bool { return topics[i].ID < topics[j].ID })
	return topics, nil
}

func init() {
	rootCmd.AddCommand(docsCmd)
}
