package main

import (
	"fmt"
	"os"

	"github.com/kierto/listing-ai/internal/cdn"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-revert|-public-id] <url>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\n  (no flag)   print the enhanced delivery URL\n")
	fmt.Fprintf(os.Stderr, "  -revert     strip the enhancement chain, if present\n")
	fmt.Fprintf(os.Stderr, "  -public-id  print the asset's public ID\n")
	os.Exit(1)
}

func main() {
	args := os.Args[1:]

	mode := "enhance"
	if len(args) > 0 {
		switch args[0] {
		case "-revert":
			mode = "revert"
			args = args[1:]
		case "-public-id":
			mode = "public-id"
			args = args[1:]
		}
	}
	if len(args) != 1 {
		usage()
	}
	rawURL := args[0]

	switch mode {
	case "revert":
		fmt.Println(cdn.RevertToOriginal(rawURL))
	case "public-id":
		id, err := cdn.ExtractPublicID(rawURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(id)
	default:
		enhanced, err := cdn.GenerateEnhancedURL(rawURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(enhanced)
	}
}
