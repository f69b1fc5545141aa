package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"course_find/internal/search"
)

var (
	fileStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	pageStyle = lipgloss.NewStyle().Faint(true)
)

// RunCLI searches and prints the results grouped by file, then page.
func RunCLI(ctx context.Context, opts CLIOptions) error {
	cfg := opts.searchConfig()
	if strings.TrimSpace(cfg.Query) == "" {
		return errors.New("缺少查询参数 -q")
	}
	if len(cfg.Roots) == 0 {
		return errors.New("roots 为空")
	}

	res, err := search.Run(ctx, cfg, nil)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(opts.out())
	defer w.Flush()

	if res.Len() == 0 {
		fmt.Fprintln(w, "No matches.")
		return nil
	}
	for _, fr := range res.Files {
		fmt.Fprintln(w, fileStyle.Render(fr.Filename))
		for _, pr := range fr.Pages {
			fmt.Fprintf(w, "  %s\t%s\n", pageStyle.Render(fmt.Sprintf("p.%d", pr.Page)), pr.Snippet)
			fmt.Fprintf(w, "  \t%s\n", pageStyle.Render(pr.BookURL))
		}
	}
	fmt.Fprintf(w, "%d pages in %d files\n", res.Len(), len(res.Files))
	return nil
}
