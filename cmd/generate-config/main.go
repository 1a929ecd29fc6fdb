package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/debemdeboas/homeadmin/internal/config"
)

// Writes an example configuration with every default filled in. The format
// follows the output file's extension; "-" writes YAML to stdout.
func main() {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	outputFile := "config.example.yaml"
	if len(os.Args) > 1 {
		outputFile = os.Args[1]
	}

	output, err := encode(cfg, outputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating config: %v\n", err)
		os.Exit(1)
	}

	if outputFile == "-" {
		fmt.Print(output)
		return
	}

	if err := os.WriteFile(outputFile, []byte(output), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generated example config: %s\n", outputFile)
}

func encode(cfg *config.Config, outputFile string) (string, error) {
	header := "# homeadmin configuration example\n# Copy this file to config.yaml and customize as needed\n\n"

	if strings.ToLower(filepath.Ext(outputFile)) == ".toml" {
		var b strings.Builder
		if err := toml.NewEncoder(&b).Encode(cfg); err != nil {
			return "", err
		}
		return header + b.String(), nil
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return header + string(data), nil
}
