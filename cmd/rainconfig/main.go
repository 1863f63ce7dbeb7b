// Command rainconfig moves a rain alert configuration between hosts as a
// single Base64 string.
//
// Usage:
//
//	go run ./cmd/rainconfig -config config.yaml export
//	go run ./cmd/rainconfig -config config.yaml import <blob>
//
// import merges the blob into the existing file: keys present in the blob
// replace the current values, everything else is kept.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/couchcryptid/rain-alert/internal/config"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("rainconfig", flag.ContinueOnError)
	path := fs.String("config", "config.yaml", "path to the YAML configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return fmt.Errorf("missing command: export or import")
	}

	file, err := config.ReadFile(*path)
	if err != nil {
		return err
	}

	switch rest[0] {
	case "export":
		blob, err := config.Export(file)
		if err != nil {
			return err
		}
		fmt.Println(blob)
		return nil
	case "import":
		if len(rest) != 2 {
			return fmt.Errorf("import takes exactly one blob argument")
		}
		if err := config.Import(file, rest[1]); err != nil {
			return err
		}
		if err := config.WriteFile(*path, file); err != nil {
			return err
		}
		log.Printf("imported configuration into %s", *path)
		return nil
	default:
		return fmt.Errorf("unknown command %q", rest[0])
	}
}
