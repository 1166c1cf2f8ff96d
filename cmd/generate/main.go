package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"

	config "github.com/inference-gateway/calendar-assistant/config"
	configdoc "github.com/inference-gateway/calendar-assistant/internal/configdoc"
)

var (
	output string
	_type  string
)

func init() {
	flag.StringVar(&output, "output", "", "Path to the output file")
	flag.StringVar(&_type, "type", "", "The type of the file to generate (Env, ConfigMap, Secret, or MD)")
}

func main() {
	flag.Parse()

	if output == "" || _type == "" {
		fmt.Println("Both -output and -type must be specified")
		os.Exit(1)
	}

	sections := configdoc.Sections(config.Config{})

	var buf bytes.Buffer
	var err error
	switch _type {
	case "Env":
		err = configdoc.WriteEnv(&buf, sections)
	case "ConfigMap":
		err = configdoc.WriteConfigMap(&buf, "calendar-assistant", sections)
	case "Secret":
		err = configdoc.WriteSecret(&buf, "calendar-assistant", sections)
	case "MD":
		err = configdoc.WriteMarkdown(&buf, "Calendar Assistant Configuration", sections)
	default:
		fmt.Println("Invalid type specified")
		os.Exit(1)
	}
	if err != nil {
		fmt.Printf("Error generating %s: %v\n", _type, err)
		os.Exit(1)
	}

	if err := os.WriteFile(output, buf.Bytes(), 0644); err != nil {
		fmt.Printf("Error writing %s: %v\n", output, err)
		os.Exit(1)
	}
}
