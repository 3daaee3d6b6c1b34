package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/jointbuf/plan"
)

func main() {
	var (
		reqStr      = flag.String("req", "", "Requests as size:align pairs (48:16,12:2)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	logger := zap.NewNop()
	if *verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logger = l
		defer func() { _ = logger.Sync() }()
	}

	if *interactive {
		if err := runInteractive(parsePairs(*reqStr)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *reqStr == "" {
		fmt.Fprintln(os.Stderr, "Usage: planview -req <size:align,...>")
		fmt.Fprintln(os.Stderr, "       planview -i  (interactive mode)")
		os.Exit(1)
	}

	if err := run(*reqStr, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// parsePairs parses "48:16,12:2" into spans, skipping empty entries.
// Malformed entries surface later as planning errors (size:align of 0:0).
func parsePairs(s string) []*plan.Span {
	var spans []*plan.Span
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		sizeStr, alignStr, _ := strings.Cut(part, ":")
		size, _ := strconv.ParseUint(strings.TrimSpace(sizeStr), 10, 64)
		align := uint64(1)
		if alignStr != "" {
			align, _ = strconv.ParseUint(strings.TrimSpace(alignStr), 10, 64)
		}
		spans = append(spans, &plan.Span{Size: size, Align: align})
	}
	return spans
}

func run(reqStr string, logger *zap.Logger) error {
	spans := parsePairs(reqStr)
	if len(spans) == 0 {
		return fmt.Errorf("no requests in %q", reqStr)
	}

	total, err := plan.Layout(spans)
	if err != nil {
		return err
	}
	logger.Debug("planned",
		zap.Int("requests", len(spans)),
		zap.Uint64("total", total),
	)

	fmt.Print(renderTable(spans, total))
	fmt.Println()
	fmt.Println(renderBar(spans, total, termWidth()))
	return nil
}

func termWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w < 20 {
		return 80
	}
	return w
}

func renderTable(spans []*plan.Span, total uint64) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%4s  %8s  %8s  %8s  %8s\n", "#", "size", "align", "offset", "padding")
	var prevEnd uint64
	for i, s := range spans {
		off, _ := s.Offset()
		fmt.Fprintf(&b, "%4d  %8d  %8d  %8d  %8d\n", i, s.Size, s.Align, off, off-prevEnd)
		prevEnd = off + s.Size
	}
	fmt.Fprintf(&b, "\ntotal %d bytes, block alignment %d\n", total, spans[0].Align)
	return b.String()
}
