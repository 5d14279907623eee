// Debug tool: parse a locally saved statute HTML file and print the
// articles the splitter extracts, without touching the store.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/tda234574534243/law-advisor/internal/ingest"
	"github.com/tda234574534243/law-advisor/internal/vntext"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: parse-statute <file.html>")
		os.Exit(1)
	}
	path := os.Args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
		os.Exit(1)
	}

	doc, err := ingest.ParseLaw(string(data), "file://"+path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse %s: %v\n", path, err)
		os.Exit(1)
	}

	fmt.Printf("Title: %s\n", doc.Title)
	fmt.Printf("Articles: %d\n", len(doc.Passages))
	fmt.Println(strings.Repeat("-", 60))

	for _, p := range doc.Passages {
		fmt.Printf("%s\n", p.Section)
		fmt.Printf("  %s\n\n", vntext.Truncate(p.Text, 200))
	}
}
