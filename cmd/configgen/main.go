package main

import (
	"flag"
	"log"

	"github.com/danmuck/smppctl/internal/config"
)

func main() {
	format := flag.String("format", "toml", "config format: toml|yaml")
	output := flag.String("output", "", "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", "cmd/smppctl/config.toml", "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		if _, err := config.Load(*input); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated config at %s", *input)
		return
	}

	target := *output
	if target == "" {
		target = "cmd/smppctl/config." + *format
	}
	if err := config.WriteTemplate(target, *format, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s config template to %s", *format, target)
}
