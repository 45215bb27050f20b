package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"decor-funnel/internal/infra/content"
	"decor-funnel/internal/quiz"
	"github.com/spf13/cobra"
)

// NewLintQuizCmd checks quiz documents for broken links, unknown styles and bad weights.
func NewLintQuizCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lint-quiz FILE...",
		Short: "Validate quiz documents without starting the server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if err := lintQuiz(path); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d quiz documents are invalid", failed, len(args))
			}
			return nil
		},
	}
}

func lintQuiz(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	doc, err := content.DecodeQuiz(path, data)
	if err != nil {
		return err
	}
	id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	_, err = quiz.NewGraph(id, doc)
	return err
}
