package main

import (
	"os"
	"strings"

	"github.com/viant/afs/url"
)

// Options are the command line options.
type Options struct {
	Build   *Build `command:"build" description:"generate the crate and run the build command"`
	Emit    *Build `command:"emit" description:"generate the crate without building it"`
	Check   *Input `command:"check" description:"load and validate a program without writing files"`
	Version bool   `short:"v" long:"version" description:"print the version"`
}

// Input locates the program and the run configuration.
type Input struct {
	Program  string `short:"i" long:"input" description:"typed program document (YAML)" required:"true"`
	Config   string `short:"c" long:"config" description:"run configuration (YAML)"`
	LogLevel string `short:"l" long:"log" description:"log level" choice:"DEBUG" choice:"INFO" choice:"WARN" choice:"ERROR"`
}

// Build adds the crate output location.
type Build struct {
	Input
	Output string `short:"o" long:"output" description:"crate output location, overrides the configuration"`
}

// Init resolves relative locations against the working directory.
func (i *Input) Init() {
	i.Program = ensureAbsPath(i.Program)
	if i.Config != "" {
		i.Config = ensureAbsPath(i.Config)
	}
}

func ensureAbsPath(location string) string {
	if strings.HasPrefix(location, "~") {
		location = strings.Replace(location, "~", os.Getenv("HOME"), 1)
	}
	if location == "" || !url.IsRelative(location) {
		return location
	}
	if wd, _ := os.Getwd(); wd != "" {
		return url.Join(wd, location)
	}
	return location
}
