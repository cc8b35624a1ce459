package main

import (
	"flag"
	"log"

	"github.com/danmuck/jsontp/internal/config"
	"github.com/danmuck/jsontp/internal/static"
)

const defaultPath = "cmd/jsontpd/config.toml"

func main() {
	output := flag.String("output", defaultPath, "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", defaultPath, "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		if err := validateFile(*input); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated jsontpd config at %s", *input)
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote jsontpd config template to %s", *output)
}

// validateFile loads the config and, when it names one, its static table.
func validateFile(path string) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	if cfg.StaticFile == "" {
		return nil
	}
	_, err = static.LoadFile(cfg.StaticFile)
	return err
}
